package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/nngen/internal/compiler"
)

func executeGenerate(t *testing.T, format string, args ...string) (string, string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd := NewGenerateCommand(&RootOptions{Format: format})
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func readMLPGolden(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "compiler", "testdata", "golden", "mlp.golden"))
	require.NoError(t, err)
	return string(data)
}

func TestGenerateMLP(t *testing.T) {
	out, errOut, err := executeGenerate(t, "text", filepath.Join("testdata", "mlp.json"))
	require.NoError(t, err)

	assert.Equal(t, readMLPGolden(t), out)
	assert.Empty(t, errOut)
}

func TestGenerateWritesOutputFile(t *testing.T) {
	outFile := filepath.Join(t.TempDir(), "model.py")

	out, _, err := executeGenerate(t, "text", filepath.Join("testdata", "mlp.yaml"), "-o", outFile)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Wrote "+outFile+" (4 node(s), 0 warning(s))")

	data, err := os.ReadFile(outFile)
	require.NoError(t, err)
	assert.Equal(t, readMLPGolden(t), string(data))
}

func TestGenerateJSON(t *testing.T) {
	out, _, err := executeGenerate(t, "json", filepath.Join("testdata", "mlp.cue"))
	require.NoError(t, err)

	var resp struct {
		Status string         `json:"status"`
		Data   GenerateResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, readMLPGolden(t), resp.Data.Code)
	assert.Equal(t, []string{"in", "fc1", "act", "fc2"}, resp.Data.Order)
	assert.Equal(t, "fc2", resp.Data.Output)
	assert.Len(t, resp.Data.GraphHash, 64)
	assert.Empty(t, resp.Data.Diagnostics)
}

func TestGenerateWarningsGoToStderr(t *testing.T) {
	out, errOut, err := executeGenerate(t, "text", filepath.Join("testdata", "warnings.json"))
	require.NoError(t, err)

	assert.Contains(t, out, "        # Unknown layer type: nn.MultiheadAttention\n")
	assert.Contains(t, out, "        self.layer_norm = nn.LayerNorm(normalized_shape=64)\n")
	assert.Contains(t, out, "        out_attn = self.layer_attn(x)\n")
	assert.Contains(t, out, "        out_norm = self.layer_norm(out_attn)\n")
	assert.Contains(t, out, "        return out_norm\n")
	assert.NotContains(t, out, "warning")

	assert.Contains(t, errOut, "warning [W201] edges[2]:")
	assert.Contains(t, errOut, "warning [W202] nodes[1]:")
}

func TestGenerateJSONIncludesDiagnostics(t *testing.T) {
	out, _, err := executeGenerate(t, "json", filepath.Join("testdata", "warnings.json"))
	require.NoError(t, err)

	var resp struct {
		Data GenerateResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data.Diagnostics, 2)
	assert.Equal(t, compiler.CodeDanglingEdge, resp.Data.Diagnostics[0].Code)
	assert.Equal(t, compiler.CodeUnknownLayerType, resp.Data.Diagnostics[1].Code)
	assert.Equal(t, "attn", resp.Data.Diagnostics[1].Node)
}

func TestGenerateCycle(t *testing.T) {
	out, _, err := executeGenerate(t, "text", filepath.Join("testdata", "cycle.json"))
	require.Error(t, err)

	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.ErrorIs(t, err, compiler.ErrCyclicGraph)
	assert.Contains(t, out, "✗ Compilation failed")
	assert.Contains(t, out, "E101: cyclic_graph")
	assert.Contains(t, out, "a → b → a")
}

func TestGenerateCycleJSON(t *testing.T) {
	out, _, err := executeGenerate(t, "json", filepath.Join("testdata", "cycle.json"))
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeCyclicGraph, resp.Error.Code)
	assert.NotNil(t, resp.Error.Details)
}

func TestGenerateDuplicateNodes(t *testing.T) {
	out, _, err := executeGenerate(t, "text", filepath.Join("testdata", "duplicate.json"))
	require.Error(t, err)

	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.ErrorIs(t, err, compiler.ErrDuplicateNode)
	assert.Contains(t, out, "E102: duplicate_node")
}

func TestGenerateLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		file string
		code string
	}{
		{"missing", "missing.json", ErrCodeNotFound},
		{"malformed", "malformed.json", ErrCodeDecodeFailed},
		{"unsupported", "graph.txt", ErrCodeUnsupported},
		{"not_concrete", "incomplete.cue", ErrCodeBuildFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := executeGenerate(t, "text", filepath.Join("testdata", tt.file))
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
			assert.Contains(t, err.Error(), tt.code)
			assert.Contains(t, out, "Error ["+tt.code+"]")
		})
	}
}

func TestGenerateUnwritableOutput(t *testing.T) {
	outFile := filepath.Join(t.TempDir(), "missing-dir", "model.py")

	out, _, err := executeGenerate(t, "text", filepath.Join("testdata", "mlp.json"), "--output", outFile)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error ["+ErrCodeWriteFailed+"]")
}

func TestGenerateVerbose(t *testing.T) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd := NewGenerateCommand(&RootOptions{Format: "text", Verbose: true})
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs([]string{filepath.Join("testdata", "mlp.json")})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, errOut.String(), "Loaded 4 node(s), 3 edge(s)")
	assert.Contains(t, errOut.String(), "Graph hash ")
	assert.NotContains(t, out.String(), "Loaded")
}
