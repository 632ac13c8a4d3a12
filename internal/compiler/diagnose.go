package compiler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/nngen/internal/ir"
)

// Diagnostic codes.
const (
	// Structural errors (E100-E199): no program is produced
	CodeCyclicGraph   = "E101" // graph cannot be fully ordered
	CodeDuplicateNode = "E102" // two nodes share an ID

	// Soft warnings (W200-W299): compilation continues with a local fallback
	CodeDanglingEdge     = "W201" // edge endpoint not in the node set, edge dropped
	CodeUnknownLayerType = "W202" // layer type outside the allow-list, declaration commented out
	CodeExtraInputs      = "W203" // more than one incoming edge, only the first is used
	CodeNoInput          = "W204" // layer without incoming edge reads the root input
	CodeUnreturnedSink   = "W205" // a layer output is never consumed nor returned
	CodeLabelInput       = "W206" // node treated as input only because of its label
	CodeInputHasInputs   = "W207" // input node has incoming edges, they are ignored
	CodeRenamedNode      = "W208" // identifier derived from the ID was taken, a suffix was added
	CodeNormalizedTwin   = "W209" // ID equals another node's ID after Unicode normalization
)

// Diagnostic levels.
const (
	LevelError   = "error"
	LevelWarning = "warning"
)

// Diagnostic is a single finding about a graph.
type Diagnostic struct {
	Code    string `json:"code"`
	Level   string `json:"level"`
	Field   string `json:"field"`          // "nodes[2]", "edges[0]", "graph"
	Node    string `json:"node,omitempty"` // Node ID when the finding is about a node
	Message string `json:"message"`
}

// Error implements the error interface.
func (d Diagnostic) Error() string {
	return fmt.Sprintf("[%s] %s: %s", d.Code, d.Field, d.Message)
}

// Diagnose reports every finding about g without failing fast.
// Structural problems appear as error-level diagnostics; when IDs are
// duplicated no further analysis is possible and only E102 is returned.
func Diagnose(g ir.Graph) []Diagnostic {
	gi, err := buildIndex(g)
	if err != nil {
		var ce *CompileError
		if errors.As(err, &ce) {
			return []Diagnostic{{
				Code:    CodeDuplicateNode,
				Level:   LevelError,
				Field:   "nodes",
				Message: ce.Message,
			}}
		}
		return nil
	}

	order, remaining := gi.topoOrder()
	var diags []Diagnostic
	if len(remaining) > 0 {
		ce := gi.cycleError(remaining)
		msg := ce.Message
		if len(ce.Cycles) > 0 {
			paths := make([]string, len(ce.Cycles))
			for i, c := range ce.Cycles {
				paths[i] = strings.Join(c, " → ")
			}
			msg += ": " + strings.Join(paths, "; ")
		}
		diags = append(diags, Diagnostic{
			Code:    CodeCyclicGraph,
			Level:   LevelError,
			Field:   "graph",
			Message: msg,
		})
		order = nil
	}
	return append(diags, gi.diagnose(order)...)
}

// diagnose collects soft warnings. order may be nil when the graph could
// not be ordered; order-dependent checks are then skipped.
func (gi *graphIndex) diagnose(order []int) []Diagnostic {
	var diags []Diagnostic

	for _, ei := range gi.dropped {
		diags = append(diags, Diagnostic{
			Code:    CodeDanglingEdge,
			Level:   LevelWarning,
			Field:   fmt.Sprintf("edges[%d]", ei),
			Message: "edge references an unknown node and is ignored",
		})
	}

	twins := gi.normalizedTwins()
	for i, n := range gi.nodes {
		field := fmt.Sprintf("nodes[%d]", i)
		warn := func(code, msg string) {
			diags = append(diags, Diagnostic{Code: code, Level: LevelWarning, Field: field, Node: n.ID, Message: msg})
		}

		if j, ok := twins[i]; ok {
			warn(CodeNormalizedTwin, fmt.Sprintf("id %+q reads the same as %+q but is a different node", n.ID, gi.nodes[j].ID))
		}

		if n.IsSentinelInput() {
			if n.Kind() != ir.KindInput {
				warn(CodeLabelInput, fmt.Sprintf("label %q marks this %s node as model input", n.Data.Label, n.LayerType()))
			}
			if len(gi.incoming[i]) > 0 {
				warn(CodeInputHasInputs, fmt.Sprintf("input node ignores %d incoming edge(s)", len(gi.incoming[i])))
			}
			continue
		}

		if !IsKnownLayerType(n.LayerType()) {
			warn(CodeUnknownLayerType, fmt.Sprintf("unknown layer type %q, declaration emitted as a comment", n.LayerType()))
		}
		switch in := gi.incoming[i]; {
		case len(in) == 0:
			warn(CodeNoInput, fmt.Sprintf("no incoming edge, reads %s", RootInput))
		case len(in) > 1:
			warn(CodeExtraInputs, fmt.Sprintf("%d incoming edges, only %q is used", len(in), gi.nodes[in[0]].ID))
		}
		if gi.renamed(i) {
			warn(CodeRenamedNode, fmt.Sprintf("identifier %q is already taken, using %q",
				layerPrefix+SafeIdentifier(n.ID), layerPrefix+gi.names[i]))
		}
	}

	if len(order) > 0 {
		last := order[len(order)-1]
		var dropped []string
		for _, pos := range order[:len(order)-1] {
			if len(gi.succ[pos]) == 0 && !gi.nodes[pos].IsSentinelInput() {
				dropped = append(dropped, gi.nodes[pos].ID)
			}
		}
		if len(dropped) > 0 {
			diags = append(diags, Diagnostic{
				Code:  CodeUnreturnedSink,
				Level: LevelWarning,
				Field: "graph",
				Node:  gi.nodes[last].ID,
				Message: fmt.Sprintf("forward returns %q, output of %s is discarded",
					gi.nodes[last].ID, quoteJoin(dropped)),
			})
		}
	}

	return diags
}

// HasErrors reports whether any diagnostic is error-level.
func HasErrors(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.Level == LevelError {
			return true
		}
	}
	return false
}
