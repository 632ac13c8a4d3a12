package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/nngen/internal/ir"
)

func writeScenario(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadScenario_Valid(t *testing.T) {
	s, err := LoadScenario("testdata/mlp.yaml")
	require.NoError(t, err)

	assert.Equal(t, "mlp", s.Name)
	require.Len(t, s.Graph.Nodes, 4)
	require.Len(t, s.Graph.Edges, 3)
	assert.Equal(t, []string{"in_features", "out_features"}, s.Graph.Nodes[1].Data.Params.Names())

	v, ok := s.Graph.Nodes[1].Data.Params.Get("in_features")
	require.True(t, ok)
	assert.Equal(t, ir.ParamInt(784), v)

	assert.Equal(t, []string{"in", "fc1", "act", "fc2"}, s.Expect.Order)
	require.NotNil(t, s.Expect.Output)
	assert.Equal(t, "fc2", *s.Expect.Output)
	assert.NotNil(t, s.Expect.Diagnostics)
	assert.Empty(t, s.Expect.Diagnostics)
}

func TestLoadScenario_AbsentKeysStayUnset(t *testing.T) {
	s, err := LoadScenario("testdata/duplicate_ids.yaml")
	require.NoError(t, err)

	assert.Nil(t, s.Expect.Order)
	assert.Nil(t, s.Expect.Output)
	assert.Equal(t, "duplicate_node", s.Expect.Error)
}

func TestLoadScenario_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{
			name:    "unknown field",
			content: "name: x\ndescription: d\nexpect:\n  not_contain: [a]\n",
			errMsg:  "not_contain",
		},
		{
			name:    "missing name",
			content: "description: d\n",
			errMsg:  "name is required",
		},
		{
			name:    "missing description",
			content: "name: x\n",
			errMsg:  "description is required",
		},
		{
			name:    "node without id",
			content: "name: x\ndescription: d\ngraph:\n  nodes:\n    - data: {layerType: nn.ReLU}\n",
			errMsg:  "graph.nodes[0]: id is required",
		},
		{
			name:    "edge without target",
			content: "name: x\ndescription: d\ngraph:\n  edges:\n    - {source: a}\n",
			errMsg:  "graph.edges[0]",
		},
		{
			name:    "unknown error kind",
			content: "name: x\ndescription: d\nexpect:\n  error: exploded\n",
			errMsg:  `unknown kind "exploded"`,
		},
		{
			name:    "error with order",
			content: "name: x\ndescription: d\nexpect:\n  error: cyclic_graph\n  order: [a]\n",
			errMsg:  "cannot be combined",
		},
		{
			name:    "malformed diagnostic code",
			content: "name: x\ndescription: d\nexpect:\n  diagnostics: [W2]\n",
			errMsg:  "malformed code",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeScenario(t, t.TempDir(), "s.yaml", tt.content)
			_, err := LoadScenario(path)
			assert.ErrorContains(t, err, tt.errMsg)
		})
	}
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario("testdata/absent.yaml")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadScenarios(t *testing.T) {
	scenarios, err := LoadScenarios("testdata")
	require.NoError(t, err)

	names := make([]string, len(scenarios))
	for i, s := range scenarios {
		names[i] = s.Name
	}
	assert.Equal(t, []string{
		"cycle", "dangling_edge", "duplicate_ids", "empty_graph",
		"fan_out", "label_input", "mlp", "renamed_ids", "unknown_layer",
	}, names)
}

func TestLoadScenarios_DuplicateNames(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "a.yaml", "name: same\ndescription: d\n")
	writeScenario(t, dir, "b.yaml", "name: same\ndescription: d\n")

	_, err := LoadScenarios(dir)
	assert.ErrorContains(t, err, `"same" already used`)
}

func TestFindScenarioFiles(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "cnn-small.yaml", "")
	writeScenario(t, dir, "cnn-large.yml", "")
	writeScenario(t, dir, "mlp.yaml", "")
	writeScenario(t, dir, "notes.txt", "")
	writeScenario(t, dir, "nested/rnn.yaml", "")
	writeScenario(t, dir, "golden/stale.yaml", "")

	all, err := FindScenarioFiles(dir, "")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "cnn-large.yml"),
		filepath.Join(dir, "cnn-small.yaml"),
		filepath.Join(dir, "mlp.yaml"),
		filepath.Join(dir, "nested", "rnn.yaml"),
	}, all)

	cnn, err := FindScenarioFiles(dir, "cnn-*")
	require.NoError(t, err)
	assert.Len(t, cnn, 2)

	_, err = FindScenarioFiles(dir, "[")
	assert.ErrorContains(t, err, "invalid filter pattern")
}
