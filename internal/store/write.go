package store

import (
	"context"
	"fmt"
)

// WriteCompilation appends a compilation record and returns it with ID and
// Seq filled in. An empty ID is generated; a record whose ID already exists
// is left untouched and the stored version is returned.
func (s *Store) WriteCompilation(ctx context.Context, c Compilation) (Compilation, error) {
	if c.ID == "" {
		c.ID = s.ids.Generate()
	}
	if c.Status != StatusOK && c.Status != StatusError {
		return Compilation{}, fmt.Errorf("write compilation: invalid status %q", c.Status)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO compilations
		(id, graph_hash, status, error_kind, code, node_count, edge_count, diagnostic_count, generator_version, ir_version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		c.ID,
		c.GraphHash,
		c.Status,
		c.ErrorKind,
		c.Code,
		c.NodeCount,
		c.EdgeCount,
		c.DiagnosticCount,
		c.GeneratorVersion,
		c.IRVersion,
	)
	if err != nil {
		return Compilation{}, fmt.Errorf("write compilation: %w", err)
	}

	stored, err := s.ReadCompilation(ctx, c.ID)
	if err != nil {
		return Compilation{}, fmt.Errorf("write compilation: %w", err)
	}
	return stored, nil
}
