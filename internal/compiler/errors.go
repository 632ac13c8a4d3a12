package compiler

import (
	"errors"
	"fmt"
	"strings"
)

// CycleMarker is the text returned in place of a program when a graph
// cannot be ordered. Callers of Generate compare against it; everything
// else should use errors.Is with ErrCyclicGraph.
const CycleMarker = "# Error: Graph contains a cycle or disconnected components."

// ErrorKind classifies a structural compile failure.
type ErrorKind string

const (
	// KindCyclicGraph: topological ordering could not place every node.
	KindCyclicGraph ErrorKind = "cyclic_graph"
	// KindDuplicateNode: two nodes share an ID.
	KindDuplicateNode ErrorKind = "duplicate_node"
)

// Sentinel errors for programmatic checking via errors.Is().
var (
	ErrCyclicGraph   = errors.New("graph contains a cycle")
	ErrDuplicateNode = errors.New("duplicate node id")
)

// CompileError is a structural failure. No program is produced alongside it.
type CompileError struct {
	Kind    ErrorKind  `json:"kind"`
	Message string     `json:"message"`
	Nodes   []string   `json:"nodes,omitempty"`  // Offending node IDs, input order
	Cycles  [][]string `json:"cycles,omitempty"` // Cycle paths, first element repeated at the end
}

func (e *CompileError) Error() string {
	if len(e.Cycles) > 0 {
		paths := make([]string, len(e.Cycles))
		for i, c := range e.Cycles {
			paths[i] = strings.Join(c, " → ")
		}
		return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Message, strings.Join(paths, "; "))
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap maps the kind to its sentinel error.
func (e *CompileError) Unwrap() error {
	switch e.Kind {
	case KindCyclicGraph:
		return ErrCyclicGraph
	case KindDuplicateNode:
		return ErrDuplicateNode
	default:
		return nil
	}
}
