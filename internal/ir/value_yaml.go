package ir

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// UnmarshalYAML implements yaml.Unmarshaler for Params, taking parameter
// order from the mapping node order.
func (p *Params) UnmarshalYAML(node *yaml.Node) error {
	node = resolveAlias(node)
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		*p = nil
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: params must be a mapping", node.Line)
	}
	obj, err := yamlMapping(node)
	if err != nil {
		return err
	}
	*p = obj
	return nil
}

// MarshalYAML implements yaml.Marshaler for Params in insertion order.
func (p Params) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, kv := range p {
		val, err := yamlNodeFor(kv.Value)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", kv.Name, err)
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: kv.Name},
			val,
		)
	}
	return node, nil
}

// ParamValueFromYAML converts a decoded YAML node into a ParamValue.
func ParamValueFromYAML(node *yaml.Node) (ParamValue, error) {
	node = resolveAlias(node)
	switch node.Kind {
	case yaml.MappingNode:
		return yamlMapping(node)
	case yaml.SequenceNode:
		list := make(ParamList, 0, len(node.Content))
		for i, child := range node.Content {
			v, err := ParamValueFromYAML(child)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			list = append(list, v)
		}
		return list, nil
	case yaml.ScalarNode:
		return yamlScalar(node)
	default:
		return nil, fmt.Errorf("line %d: unsupported YAML node kind %d", node.Line, node.Kind)
	}
}

func yamlMapping(node *yaml.Node) (Params, error) {
	obj := Params{}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := resolveAlias(node.Content[i])
		val, err := ParamValueFromYAML(node.Content[i+1])
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", key.Value, err)
		}
		obj.Set(key.Value, val)
	}
	return obj, nil
}

func yamlScalar(node *yaml.Node) (ParamValue, error) {
	switch node.ShortTag() {
	case "!!null":
		return ParamNull{}, nil
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return nil, err
		}
		return ParamBool(b), nil
	case "!!int":
		n, err := strconv.ParseInt(node.Value, 0, 64)
		if err != nil {
			return yamlFloat(node)
		}
		return ParamInt(n), nil
	case "!!float":
		return yamlFloat(node)
	default:
		return ParamString(node.Value), nil
	}
}

// yamlFloat keeps the source literal when it is already a JSON number and
// otherwise rewrites it in Go's shortest form, so ".5" becomes "0.5".
func yamlFloat(node *yaml.Node) (ParamValue, error) {
	var f float64
	if err := node.Decode(&f); err != nil {
		return nil, fmt.Errorf("line %d: %s is not a number", node.Line, node.Value)
	}
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return nil, fmt.Errorf("line %d: %s is not a finite number", node.Line, node.Value)
	}
	if json.Valid([]byte(node.Value)) {
		return ParamFloat(node.Value), nil
	}
	lit := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(lit, ".e") {
		lit += ".0"
	}
	return ParamFloat(lit), nil
}

func yamlNodeFor(v ParamValue) (*yaml.Node, error) {
	switch val := v.(type) {
	case nil, ParamNull:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	case ParamString:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: string(val)}, nil
	case ParamInt:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: val.Literal()}, nil
	case ParamFloat:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: string(val)}, nil
	case ParamBool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(bool(val))}, nil
	case ParamList:
		seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for i, elem := range val {
			child, err := yamlNodeFor(elem)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			seq.Content = append(seq.Content, child)
		}
		return seq, nil
	case Params:
		m, err := val.MarshalYAML()
		if err != nil {
			return nil, err
		}
		return m.(*yaml.Node), nil
	default:
		return nil, fmt.Errorf("unknown ParamValue type: %T", v)
	}
}

func resolveAlias(node *yaml.Node) *yaml.Node {
	for node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	return node
}
