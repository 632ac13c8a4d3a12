package compiler

import (
	"errors"

	"github.com/roach88/nngen/internal/ir"
)

// Result is a successful compilation.
type Result struct {
	Code        string       `json:"code"`
	Program     Program      `json:"-"`
	Order       []string     `json:"order"`  // Node IDs in execution order
	Output      string       `json:"output"` // Node ID whose variable forward() returns, empty for an empty graph
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
}

// Compile translates g into a model definition.
//
// Structural failures (a cycle, duplicate node IDs) return a *CompileError
// and no program. Everything else is handled locally and reported in
// Result.Diagnostics.
//
// forward() returns the variable of the last node in execution order, which
// is not necessarily a sink when the graph fans out. Diagnose flags that
// case as W205.
func Compile(g ir.Graph) (*Result, error) {
	gi, err := buildIndex(g)
	if err != nil {
		return nil, err
	}

	order, remaining := gi.topoOrder()
	if len(remaining) > 0 {
		return nil, gi.cycleError(remaining)
	}

	em := newEmitter(gi)
	var prog Program
	for _, pos := range order {
		s := em.emit(pos)
		if s.kind == stepBound {
			continue
		}
		prog.Declarations = append(prog.Declarations, s.declaration)
		prog.Invocations = append(prog.Invocations, s.invocation)
	}

	result := &Result{Order: gi.ids(order)}
	prog.Output = RootInput
	if len(order) > 0 {
		last := order[len(order)-1]
		prog.Output = em.outputOf(last)
		result.Output = gi.nodes[last].ID
	}

	result.Program = prog
	result.Code = prog.String()
	result.Diagnostics = gi.diagnose(order)
	return result, nil
}

// Generate is the single-string form of Compile: the program text, or
// CycleMarker when the graph cannot be compiled.
func Generate(g ir.Graph) string {
	res, err := Compile(g)
	if err != nil {
		return CycleMarker
	}
	return res.Code
}

// IsStructural reports whether err is a CompileError, i.e. the graph
// itself is unusable rather than the caller failing.
func IsStructural(err error) bool {
	var ce *CompileError
	return errors.As(err, &ce)
}
