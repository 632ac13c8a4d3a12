package ir

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ParamValue is a sealed interface over the literal values a layer
// parameter may hold. Only ParamString, ParamInt, ParamFloat, ParamBool,
// ParamNull, ParamList and Params implement it.
type ParamValue interface {
	paramValue() // Sealed

	// Literal renders the value as it appears in generated code.
	Literal() string
}

// ParamString is a string parameter. It is emitted verbatim, unquoted,
// so editors can pass expressions such as "(3, 3)".
type ParamString string

func (ParamString) paramValue() {}

// Literal returns the string unchanged.
func (s ParamString) Literal() string { return string(s) }

// ParamInt is an integer parameter.
type ParamInt int64

func (ParamInt) paramValue() {}

// Literal returns the decimal form.
func (n ParamInt) Literal() string { return strconv.FormatInt(int64(n), 10) }

// ParamFloat is a non-integer number, stored as its source literal.
type ParamFloat string

func (ParamFloat) paramValue() {}

// Literal returns the source literal.
func (f ParamFloat) Literal() string { return string(f) }

// ParamBool is a boolean parameter.
type ParamBool bool

func (ParamBool) paramValue() {}

// Literal returns True or False.
func (b ParamBool) Literal() string {
	if b {
		return "True"
	}
	return "False"
}

// ParamNull is an explicit null.
type ParamNull struct{}

func (ParamNull) paramValue() {}

// Literal returns None.
func (ParamNull) Literal() string { return "None" }

// ParamList is an ordered list of values.
type ParamList []ParamValue

func (ParamList) paramValue() {}

// Literal renders the list in repr form, e.g. [3, 'same'].
func (l ParamList) Literal() string {
	parts := make([]string, len(l))
	for i, v := range l {
		parts[i] = reprLiteral(v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Param is a single named parameter.
type Param struct {
	Name  string
	Value ParamValue
}

// Params is an ordered parameter bag. Iteration order is insertion order;
// nothing here sorts it.
type Params []Param

func (Params) paramValue() {}

// Literal renders the bag in dict repr form, e.g. {'a': 1}.
func (p Params) Literal() string {
	parts := make([]string, len(p))
	for i, kv := range p {
		parts[i] = pyQuote(kv.Name) + ": " + reprLiteral(kv.Value)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// P is a shorthand for Param.
// Example: Params{P("in_features", ParamInt(784)), P("bias", ParamBool(false))}
func P(name string, value ParamValue) Param {
	return Param{Name: name, Value: value}
}

// Get returns the value stored under name.
func (p Params) Get(name string) (ParamValue, bool) {
	for _, kv := range p {
		if kv.Name == name {
			return kv.Value, true
		}
	}
	return nil, false
}

// Names returns parameter names in insertion order.
func (p Params) Names() []string {
	names := make([]string, len(p))
	for i, kv := range p {
		names[i] = kv.Name
	}
	return names
}

// Set replaces the value under name, keeping its position, or appends it.
func (p *Params) Set(name string, value ParamValue) {
	for i, kv := range *p {
		if kv.Name == name {
			(*p)[i].Value = value
			return
		}
	}
	*p = append(*p, Param{Name: name, Value: value})
}

// reprLiteral renders nested values: strings inside containers are quoted.
func reprLiteral(v ParamValue) string {
	if s, ok := v.(ParamString); ok {
		return pyQuote(string(s))
	}
	if v == nil {
		return ParamNull{}.Literal()
	}
	return v.Literal()
}

// pyQuote quotes s the way Python's repr does for str.
func pyQuote(s string) string {
	quote := byte('\'')
	if strings.ContainsRune(s, '\'') && !strings.ContainsRune(s, '"') {
		quote = '"'
	}

	var b strings.Builder
	b.WriteByte(quote)
	for _, r := range s {
		switch {
		case r == '\\':
			b.WriteString(`\\`)
		case r == rune(quote):
			b.WriteByte('\\')
			b.WriteRune(r)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\t':
			b.WriteString(`\t`)
		case r < 0x20:
			fmt.Fprintf(&b, `\x%02x`, r)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte(quote)
	return b.String()
}

// UnmarshalJSON implements json.Unmarshaler for Params, preserving key order.
// A repeated key keeps its first position and takes the last value.
func (p *Params) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*p = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("params: expected object, got %v", tok)
	}

	obj, err := decodeObject(dec)
	if err != nil {
		return fmt.Errorf("params: %w", err)
	}
	*p = obj
	return nil
}

// MarshalJSON implements json.Marshaler for Params in insertion order.
func (p Params) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, kv := range p {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyBytes, err := json.Marshal(kv.Name)
		if err != nil {
			return nil, fmt.Errorf("marshal key %q: %w", kv.Name, err)
		}
		buf.Write(keyBytes)
		buf.WriteByte(':')

		valBytes, err := MarshalParamValue(kv.Value)
		if err != nil {
			return nil, fmt.Errorf("marshal value for key %q: %w", kv.Name, err)
		}
		buf.Write(valBytes)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalParamValue marshals a ParamValue to JSON bytes.
// Float literals are written as-is.
func MarshalParamValue(v ParamValue) ([]byte, error) {
	switch val := v.(type) {
	case nil, ParamNull:
		return []byte("null"), nil
	case ParamString:
		return json.Marshal(string(val))
	case ParamInt:
		return []byte(val.Literal()), nil
	case ParamFloat:
		if !json.Valid([]byte(val)) {
			return nil, fmt.Errorf("invalid float literal %q", string(val))
		}
		return []byte(val), nil
	case ParamBool:
		return json.Marshal(bool(val))
	case ParamList:
		var buf bytes.Buffer
		buf.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			b, err := MarshalParamValue(elem)
			if err != nil {
				return nil, fmt.Errorf("list[%d]: %w", i, err)
			}
			buf.Write(b)
		}
		buf.WriteByte(']')
		return buf.Bytes(), nil
	case Params:
		return val.MarshalJSON()
	default:
		return nil, fmt.Errorf("unknown ParamValue type: %T", v)
	}
}

// UnmarshalParamValue decodes a single JSON value into a ParamValue.
func UnmarshalParamValue(data []byte) (ParamValue, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := decodeValue(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("trailing data after JSON value")
	}
	return v, nil
}

// decodeValue reads the next complete value from dec.
func decodeValue(dec *json.Decoder) (ParamValue, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	return decodeToken(dec, tok)
}

func decodeToken(dec *json.Decoder, tok json.Token) (ParamValue, error) {
	switch t := tok.(type) {
	case nil:
		return ParamNull{}, nil
	case bool:
		return ParamBool(t), nil
	case string:
		return ParamString(t), nil
	case json.Number:
		return NumberValue(string(t)), nil
	case json.Delim:
		switch t {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeArray(dec)
		}
		return nil, fmt.Errorf("unexpected delimiter %q", t)
	default:
		return nil, fmt.Errorf("unsupported JSON token %T", tok)
	}
}

// decodeObject reads key/value pairs up to the closing brace.
func decodeObject(dec *json.Decoder) (Params, error) {
	obj := Params{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("expected object key, got %v", keyTok)
		}
		val, err := decodeValue(dec)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", key, err)
		}
		obj.Set(key, val)
	}
	if _, err := dec.Token(); err != nil { // closing '}'
		return nil, err
	}
	return obj, nil
}

// decodeArray reads elements up to the closing bracket.
func decodeArray(dec *json.Decoder) (ParamList, error) {
	list := ParamList{}
	for dec.More() {
		val, err := decodeValue(dec)
		if err != nil {
			return nil, fmt.Errorf("[%d]: %w", len(list), err)
		}
		list = append(list, val)
	}
	if _, err := dec.Token(); err != nil { // closing ']'
		return nil, err
	}
	return list, nil
}

// NumberValue classifies a numeric literal: integers in int64 range become
// ParamInt, everything else ParamFloat with the literal kept.
func NumberValue(lit string) ParamValue {
	if !strings.ContainsAny(lit, ".eE") {
		if n, err := strconv.ParseInt(lit, 10, 64); err == nil {
			return ParamInt(n)
		}
	}
	return ParamFloat(lit)
}
