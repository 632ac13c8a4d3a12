package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const selectCompilation = `
	SELECT id, seq, graph_hash, status, error_kind, code,
	       node_count, edge_count, diagnostic_count, generator_version, ir_version
	FROM compilations
`

// ReadCompilation returns the record with the given ID.
// Returns ErrNotFound if it does not exist.
func (s *Store) ReadCompilation(ctx context.Context, id string) (Compilation, error) {
	row := s.db.QueryRowContext(ctx, selectCompilation+`WHERE id = ?`, id)
	c, err := scanCompilation(row)
	if err != nil {
		return Compilation{}, fmt.Errorf("read compilation %s: %w", id, err)
	}
	return c, nil
}

// LatestByGraphHash returns the most recent record for a graph hash.
// Returns ErrNotFound if the graph was never compiled.
func (s *Store) LatestByGraphHash(ctx context.Context, hash string) (Compilation, error) {
	row := s.db.QueryRowContext(ctx, selectCompilation+`
		WHERE graph_hash = ?
		ORDER BY seq DESC
		LIMIT 1
	`, hash)
	c, err := scanCompilation(row)
	if err != nil {
		return Compilation{}, fmt.Errorf("latest compilation for %s: %w", hash, err)
	}
	return c, nil
}

// ListCompilations returns up to limit records, newest first.
// A non-positive limit returns every record.
//
// Returns an empty slice (not nil) when the history is empty.
func (s *Store) ListCompilations(ctx context.Context, limit int) ([]Compilation, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}

	rows, err := s.db.QueryContext(ctx, selectCompilation+`
		ORDER BY seq DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query compilations: %w", err)
	}
	defer rows.Close()

	out := []Compilation{}
	for rows.Next() {
		c, err := scanCompilation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate compilations: %w", err)
	}
	return out, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanCompilation(r rowScanner) (Compilation, error) {
	var c Compilation
	err := r.Scan(
		&c.ID,
		&c.Seq,
		&c.GraphHash,
		&c.Status,
		&c.ErrorKind,
		&c.Code,
		&c.NodeCount,
		&c.EdgeCount,
		&c.DiagnosticCount,
		&c.GeneratorVersion,
		&c.IRVersion,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Compilation{}, ErrNotFound
	}
	if err != nil {
		return Compilation{}, fmt.Errorf("scan compilation: %w", err)
	}
	return c, nil
}
