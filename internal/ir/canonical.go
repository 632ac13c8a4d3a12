package ir

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"unicode/utf16"
)

// MarshalCanonical produces canonical JSON for content hashing.
// This is the ONLY serialization that should feed GraphHash.
//
// Differences from json.Marshal:
//  1. Struct-like objects have keys sorted by UTF-16 code units
//  2. Params are encoded as [name, value] pair arrays so order is kept
//  3. No HTML escaping, strings kept byte for byte (no Unicode
//     normalization: the compiler emits them as received)
//  4. Float literals written as-is
func MarshalCanonical(g Graph) ([]byte, error) {
	nodes := make([]any, len(g.Nodes))
	for i, n := range g.Nodes {
		nodes[i] = canonicalObject{
			"id":         n.ID,
			"type":       n.Type,
			"layer_type": n.Data.LayerType,
			"label":      n.Data.Label,
			"params":     n.Data.Params,
		}
	}
	edges := make([]any, len(g.Edges))
	for i, e := range g.Edges {
		edges[i] = canonicalObject{
			"source": e.Source,
			"target": e.Target,
		}
	}

	var buf bytes.Buffer
	if err := writeCanonical(&buf, canonicalObject{"nodes": nodes, "edges": edges}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// canonicalObject is a key-sorted JSON object.
type canonicalObject map[string]any

func writeCanonical(buf *bytes.Buffer, v any) error {
	switch val := v.(type) {
	case string:
		return writeCanonicalString(buf, val)
	case canonicalObject:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		slices.SortFunc(keys, compareKeysUTF16)

		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeCanonicalString(buf, k); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := writeCanonical(buf, val[k]); err != nil {
				return fmt.Errorf("%s: %w", k, err)
			}
		}
		buf.WriteByte('}')
		return nil
	case []any:
		buf.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeCanonical(buf, elem); err != nil {
				return fmt.Errorf("[%d]: %w", i, err)
			}
		}
		buf.WriteByte(']')
		return nil
	case Params:
		pairs := make([]any, len(val))
		for i, kv := range val {
			pairs[i] = []any{kv.Name, kv.Value}
		}
		return writeCanonical(buf, pairs)
	case ParamList:
		elems := make([]any, len(val))
		for i, e := range val {
			elems[i] = e
		}
		return writeCanonical(buf, elems)
	case ParamString:
		return writeCanonicalString(buf, string(val))
	case nil:
		buf.WriteString("null")
		return nil
	case ParamValue:
		b, err := MarshalParamValue(val)
		if err != nil {
			return err
		}
		buf.Write(b)
		return nil
	default:
		return fmt.Errorf("unsupported type for canonical JSON: %T", v)
	}
}

// writeCanonicalString writes a JSON string without HTML escaping.
// U+2028 and U+2029 stay literal.
func writeCanonicalString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	out := bytes.TrimSuffix(tmp.Bytes(), []byte{'\n'})
	out = unescapeLineSeparators(out)
	buf.Write(out)
	return nil
}

// unescapeLineSeparators turns the encoder's \u2028 and \u2029 escapes back
// into literal characters. An escape preceded by an odd run of backslashes
// is literal text and left alone.
func unescapeLineSeparators(data []byte) []byte {
	if !bytes.Contains(data, []byte(`\u202`)) {
		return data
	}

	out := make([]byte, 0, len(data))
	for i := 0; i < len(data); i++ {
		if data[i] == '\\' && i+5 < len(data) && data[i+1] == 'u' &&
			data[i+2] == '2' && data[i+3] == '0' && data[i+4] == '2' &&
			(data[i+5] == '8' || data[i+5] == '9') {
			backslashes := 0
			for j := len(out) - 1; j >= 0 && out[j] == '\\'; j-- {
				backslashes++
			}
			if backslashes%2 == 0 {
				if data[i+5] == '8' {
					out = append(out, "\u2028"...)
				} else {
					out = append(out, "\u2029"...)
				}
				i += 5
				continue
			}
		}
		out = append(out, data[i])
	}
	return out
}

// compareKeysUTF16 orders strings by UTF-16 code units (RFC 8785).
// Go's native string comparison is UTF-8 and differs for astral runes.
func compareKeysUTF16(a, b string) int {
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))
	return slices.Compare(a16, b16)
}
