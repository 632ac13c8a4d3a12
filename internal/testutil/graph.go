package testutil

import (
	"github.com/roach88/nngen/internal/ir"
)

// GraphBuilder assembles ir.Graph values for tests.
//
// Example:
//
//	g := testutil.NewGraph().
//		Input("in").
//		Layer("fc", "nn.Linear", ir.P("in_features", ir.ParamInt(4))).
//		Edge("in", "fc").
//		Build()
type GraphBuilder struct {
	g ir.Graph
}

// NewGraph starts an empty graph.
func NewGraph() *GraphBuilder {
	return &GraphBuilder{}
}

// Input adds an editor input node (type "input", layer type "input").
func (b *GraphBuilder) Input(id string) *GraphBuilder {
	b.g.Nodes = append(b.g.Nodes, ir.Node{
		ID:   id,
		Type: "input",
		Data: ir.NodeData{LayerType: ir.LayerTypeInput, Label: "Input"},
	})
	return b
}

// Layer adds a layer node with params in the given order.
func (b *GraphBuilder) Layer(id, layerType string, params ...ir.Param) *GraphBuilder {
	return b.LabeledLayer(id, layerType, layerType, params...)
}

// LabeledLayer adds a layer node with an explicit label.
func (b *GraphBuilder) LabeledLayer(id, layerType, label string, params ...ir.Param) *GraphBuilder {
	var p ir.Params
	if len(params) > 0 {
		p = ir.Params(params)
	}
	b.g.Nodes = append(b.g.Nodes, ir.Node{
		ID:   id,
		Type: "default",
		Data: ir.NodeData{LayerType: layerType, Label: label, Params: p},
	})
	return b
}

// Node adds a node as-is.
func (b *GraphBuilder) Node(n ir.Node) *GraphBuilder {
	b.g.Nodes = append(b.g.Nodes, n)
	return b
}

// Edge adds a connection source → target.
func (b *GraphBuilder) Edge(source, target string) *GraphBuilder {
	b.g.Edges = append(b.g.Edges, ir.Edge{Source: source, Target: target})
	return b
}

// Chain adds edges ids[0] → ids[1] → ... → ids[n-1].
func (b *GraphBuilder) Chain(ids ...string) *GraphBuilder {
	for i := 0; i+1 < len(ids); i++ {
		b.Edge(ids[i], ids[i+1])
	}
	return b
}

// Build returns the graph. The builder must not be reused afterwards.
func (b *GraphBuilder) Build() ir.Graph {
	return b.g
}

// MLP returns input → Linear(784, 128) → ReLU → Linear(128, 10).
func MLP() ir.Graph {
	return NewGraph().
		Input("in").
		Layer("fc1", "nn.Linear", ir.P("in_features", ir.ParamInt(784)), ir.P("out_features", ir.ParamInt(128))).
		Layer("act", "nn.ReLU").
		Layer("fc2", "nn.Linear", ir.P("in_features", ir.ParamInt(128)), ir.P("out_features", ir.ParamInt(10))).
		Chain("in", "fc1", "act", "fc2").
		Build()
}
