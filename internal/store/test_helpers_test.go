package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/nngen/internal/ir"
)

// createTestStore creates a new temp-dir store for testing.
func createTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path, opts...)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestCompilation creates a successful record with minimal fields.
func createTestCompilation(hash string) Compilation {
	return Compilation{
		GraphHash:        hash,
		Status:           StatusOK,
		Code:             "return x\n",
		NodeCount:        1,
		GeneratorVersion: ir.GeneratorVersion,
		IRVersion:        ir.IRVersion,
	}
}
