package ir

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodeKind(t *testing.T) {
	tests := []struct {
		name     string
		node     Node
		kind     Kind
		sentinel bool
	}{
		{"missing layer type defaults to input", Node{ID: "a"}, KindInput, true},
		{"explicit input layer type", Node{ID: "a", Data: NodeData{LayerType: "input"}}, KindInput, true},
		{"editor input node type", Node{ID: "a", Type: "input", Data: NodeData{LayerType: "nn.Linear"}}, KindInput, true},
		{"layer", Node{ID: "a", Data: NodeData{LayerType: "nn.Linear"}}, KindLayer, false},
		{"label flags input", Node{ID: "a", Data: NodeData{LayerType: "nn.Linear", Label: "Image Input"}}, KindLayer, true},
		{"label match is case sensitive", Node{ID: "a", Data: NodeData{LayerType: "nn.Linear", Label: "input"}}, KindLayer, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.node.Kind())
			assert.Equal(t, tt.sentinel, tt.node.IsSentinelInput())
		})
	}
}

func TestGraphUnmarshalEditorPayload(t *testing.T) {
	payload := `{
		"nodes": [
			{"id": "dndnode_0", "type": "input", "position": {"x": 10, "y": 20},
			 "data": {"label": "Input", "layerType": "input", "params": {}}},
			{"id": "dndnode_1", "type": "default", "position": {"x": 10, "y": 120},
			 "data": {"label": "Linear", "layerType": "nn.Linear",
			          "params": {"in_features": 784, "out_features": 128}}}
		],
		"edges": [
			{"id": "reactflow__edge-dndnode_0-dndnode_1", "source": "dndnode_0", "target": "dndnode_1"}
		]
	}`

	var g Graph
	require.NoError(t, json.Unmarshal([]byte(payload), &g))
	require.Len(t, g.Nodes, 2)
	require.Len(t, g.Edges, 1)

	assert.Equal(t, KindInput, g.Nodes[0].Kind())
	assert.Equal(t, "nn.Linear", g.Nodes[1].LayerType())
	assert.Equal(t, []string{"in_features", "out_features"}, g.Nodes[1].Data.Params.Names())
	assert.Equal(t, Edge{ID: "reactflow__edge-dndnode_0-dndnode_1", Source: "dndnode_0", Target: "dndnode_1"}, g.Edges[0])
}

func TestGraphMarshalRoundTrip(t *testing.T) {
	g := sampleGraph()
	data, err := json.Marshal(g)
	require.NoError(t, err)

	var back Graph
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, g, back)
}

func TestNodeIndexFirstWins(t *testing.T) {
	g := Graph{Nodes: []Node{{ID: "a"}, {ID: "b"}, {ID: "a"}}}
	idx := g.NodeIndex()
	assert.Equal(t, map[string]int{"a": 0, "b": 1}, idx)
}
