package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	"gopkg.in/yaml.v3"

	"github.com/roach88/nngen/internal/compiler"
	"github.com/roach88/nngen/internal/ir"
)

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric      = "E001" // Generic/unknown error
	ErrCodeReadFailed   = "E002" // File read error
	ErrCodeUnsupported  = "E003" // Unsupported graph file extension
	ErrCodeDecodeFailed = "E004" // JSON/YAML decode failed
	ErrCodeNotFound     = "E005" // Path not found
	ErrCodeBuildFailed  = "E006" // CUE evaluation failed
	ErrCodeWriteFailed  = "E007" // File write error
	ErrCodeStoreFailed  = "E008" // History database error

	// Structural graph errors share the compiler diagnostic codes
	ErrCodeCyclicGraph   = compiler.CodeCyclicGraph
	ErrCodeDuplicateNode = compiler.CodeDuplicateNode
)

// LoadError represents an error that occurred during graph loading.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadGraph reads a graph file. The format follows the extension:
//   - .json: the editor payload {"nodes": [...], "edges": [...]}
//   - .yaml, .yml: the same shape in YAML
//   - .cue: a CUE value of that shape, at the top level or under "graph"
//
// Param order follows the order of keys in the file for every format.
// Failures are returned as *LoadError.
func LoadGraph(path string) (ir.Graph, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".json", ".yaml", ".yml", ".cue":
	default:
		return ir.Graph{}, &LoadError{
			Code:    ErrCodeUnsupported,
			Message: fmt.Sprintf("unsupported graph file %q (expected .json, .yaml, .yml or .cue)", path),
		}
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return ir.Graph{}, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("graph file not found: %s", path)}
	}
	if err != nil {
		return ir.Graph{}, &LoadError{Code: ErrCodeReadFailed, Message: fmt.Sprintf("reading %s: %v", path, err)}
	}

	switch ext {
	case ".json":
		return decodeJSONGraph(data)
	case ".cue":
		return decodeCUEGraph(path, data)
	default:
		return decodeYAMLGraph(data)
	}
}

func decodeJSONGraph(data []byte) (ir.Graph, error) {
	var g ir.Graph
	if err := json.NewDecoder(bytes.NewReader(data)).Decode(&g); err != nil {
		return ir.Graph{}, &LoadError{Code: ErrCodeDecodeFailed, Message: fmt.Sprintf("decoding JSON graph: %v", err)}
	}
	return g, nil
}

func decodeYAMLGraph(data []byte) (ir.Graph, error) {
	var g ir.Graph
	if err := yaml.Unmarshal(data, &g); err != nil {
		return ir.Graph{}, &LoadError{Code: ErrCodeDecodeFailed, Message: fmt.Sprintf("decoding YAML graph: %v", err)}
	}
	return g, nil
}

// decodeCUEGraph evaluates a CUE file and exports it through JSON, which
// keeps field declaration order for params.
func decodeCUEGraph(path string, data []byte) (ir.Graph, error) {
	ctx := cuecontext.New()
	value := ctx.CompileBytes(data, cue.Filename(path))
	if err := value.Err(); err != nil {
		return ir.Graph{}, cueLoadError("building CUE value", err)
	}

	if nested := value.LookupPath(cue.ParsePath("graph")); nested.Exists() {
		value = nested
	}
	if err := value.Validate(cue.Concrete(true)); err != nil {
		return ir.Graph{}, cueLoadError("graph is not concrete", err)
	}

	exported, err := value.MarshalJSON()
	if err != nil {
		return ir.Graph{}, cueLoadError("exporting CUE value", err)
	}
	return decodeJSONGraph(exported)
}

func cueLoadError(context string, err error) *LoadError {
	le := &LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("%s: %v", context, err)}
	if positions := cueerrors.Positions(err); len(positions) > 0 {
		le.Pos = positions[0]
	}
	return le
}

// loadErrorParts extracts the code and message of a loader error.
func loadErrorParts(err error) (string, string) {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		return loadErr.Code, loadErr.Message
	}
	return ErrCodeGeneric, err.Error()
}

// structuralErrorCode maps a compiler error to its CLI error code.
func structuralErrorCode(ce *compiler.CompileError) string {
	if ce.Kind == compiler.KindDuplicateNode {
		return ErrCodeDuplicateNode
	}
	return ErrCodeCyclicGraph
}
