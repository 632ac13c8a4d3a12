package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/nngen/internal/ir"
)

func TestGraphBuilder(t *testing.T) {
	g := NewGraph().
		Input("in").
		Layer("fc", "nn.Linear", ir.P("in_features", ir.ParamInt(4))).
		Layer("act", "nn.ReLU").
		Chain("in", "fc", "act").
		Build()

	require.Len(t, g.Nodes, 3)
	assert.Equal(t, ir.KindInput, g.Nodes[0].Kind())
	assert.Equal(t, "nn.Linear", g.Nodes[1].LayerType())
	assert.Nil(t, g.Nodes[2].Data.Params, "no params stays nil")
	assert.Equal(t, []ir.Edge{{Source: "in", Target: "fc"}, {Source: "fc", Target: "act"}}, g.Edges)
}

func TestMLP(t *testing.T) {
	g := MLP()
	assert.Len(t, g.Nodes, 4)
	assert.Len(t, g.Edges, 3)
}
