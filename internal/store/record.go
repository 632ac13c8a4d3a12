package store

import (
	"errors"

	"github.com/roach88/nngen/internal/compiler"
	"github.com/roach88/nngen/internal/ir"
)

// Compilation statuses.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Compilation is one recorded compilation.
type Compilation struct {
	ID               string `json:"id"`
	Seq              int64  `json:"seq"`
	GraphHash        string `json:"graph_hash"`
	Status           string `json:"status"`
	ErrorKind        string `json:"error_kind,omitempty"`
	Code             string `json:"code"`
	NodeCount        int    `json:"node_count"`
	EdgeCount        int    `json:"edge_count"`
	DiagnosticCount  int    `json:"diagnostic_count"`
	GeneratorVersion string `json:"generator_version"`
	IRVersion        string `json:"ir_version"`
}

// NewCompilation builds a record from the outcome of compiler.Compile.
// ID and Seq are assigned by WriteCompilation.
func NewCompilation(hash string, g ir.Graph, res *compiler.Result, err error) Compilation {
	c := Compilation{
		GraphHash:        hash,
		Status:           StatusOK,
		NodeCount:        len(g.Nodes),
		EdgeCount:        len(g.Edges),
		GeneratorVersion: ir.GeneratorVersion,
		IRVersion:        ir.IRVersion,
	}

	if err != nil {
		c.Status = StatusError
		c.Code = compiler.CycleMarker
		var ce *compiler.CompileError
		if errors.As(err, &ce) {
			c.ErrorKind = string(ce.Kind)
		}
		return c
	}

	c.Code = res.Code
	c.DiagnosticCount = len(res.Diagnostics)
	return c
}
