package ir

import "strings"

// Graph is the full editor payload: every node plus the edges between them.
type Graph struct {
	Nodes []Node `json:"nodes" yaml:"nodes"`
	Edges []Edge `json:"edges" yaml:"edges"`
}

// Node is a single vertex of the editor graph.
type Node struct {
	ID   string   `json:"id" yaml:"id"`
	Type string   `json:"type,omitempty" yaml:"type,omitempty"` // Editor node kind, e.g. "input"
	Data NodeData `json:"data" yaml:"data"`
}

// NodeData holds the layer description attached to a node.
type NodeData struct {
	LayerType string `json:"layerType,omitempty" yaml:"layerType,omitempty"` // "nn.Linear", "input", ...
	Label     string `json:"label,omitempty" yaml:"label,omitempty"`
	Params    Params `json:"params,omitempty" yaml:"params,omitempty"`
}

// Edge is a directed data-flow connection between two nodes.
type Edge struct {
	ID     string `json:"id,omitempty" yaml:"id,omitempty"`
	Source string `json:"source" yaml:"source"`
	Target string `json:"target" yaml:"target"`
}

// Kind distinguishes the model input from computational layers.
type Kind string

const (
	KindInput Kind = "input"
	KindLayer Kind = "layer"
)

// LayerTypeInput is the layer type the editor assigns to input nodes.
// A node without a layer type is treated as input.
const LayerTypeInput = "input"

// LayerType returns the node's layer type, defaulting to "input" when unset.
func (n Node) LayerType() string {
	if n.Data.LayerType == "" {
		return LayerTypeInput
	}
	return n.Data.LayerType
}

// Kind reports whether the node is the model input or a layer.
func (n Node) Kind() Kind {
	if n.LayerType() == LayerTypeInput || n.Type == string(KindInput) {
		return KindInput
	}
	return KindLayer
}

// IsSentinelInput reports whether the node stands for the model's external
// input. Besides the kind, any node whose label contains "Input" qualifies.
func (n Node) IsSentinelInput() bool {
	return n.Kind() == KindInput || LabelMarksInput(n.Data.Label)
}

// LabelMarksInput reports whether a label alone flags a node as input.
func LabelMarksInput(label string) bool {
	return strings.Contains(label, "Input")
}

// NodeIndex returns a map from node ID to its position in g.Nodes.
// When IDs repeat, the first occurrence wins.
func (g Graph) NodeIndex() map[string]int {
	idx := make(map[string]int, len(g.Nodes))
	for i, n := range g.Nodes {
		if _, seen := idx[n.ID]; !seen {
			idx[n.ID] = i
		}
	}
	return idx
}
