package compiler

import (
	"slices"
)

// knownLayerTypes is the allow-list of layer classes eligible for a field
// declaration. Anything else is emitted as a comment.
var knownLayerTypes = map[string]struct{}{
	"nn.Linear":                  {},
	"nn.Conv2d":                  {},
	"nn.MaxPool2d":               {},
	"nn.AvgPool2d":               {},
	"nn.ReLU":                    {},
	"nn.Sigmoid":                 {},
	"nn.Tanh":                    {},
	"nn.Softmax":                 {},
	"nn.BatchNorm2d":             {},
	"nn.LayerNorm":               {},
	"nn.Dropout":                 {},
	"nn.Flatten":                 {},
	"nn.Embedding":               {},
	"nn.Transformer":             {},
	"nn.TransformerEncoderLayer": {},
	"nn.TransformerDecoderLayer": {},
}

// IsKnownLayerType reports whether layerType is in the allow-list.
// The match is exact and case-sensitive.
func IsKnownLayerType(layerType string) bool {
	_, ok := knownLayerTypes[layerType]
	return ok
}

// KnownLayerTypes returns the allow-list, sorted.
// The returned slice is a copy.
func KnownLayerTypes() []string {
	types := make([]string, 0, len(knownLayerTypes))
	for t := range knownLayerTypes {
		types = append(types, t)
	}
	slices.Sort(types)
	return types
}
