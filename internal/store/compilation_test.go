package store

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/nngen/internal/compiler"
	"github.com/roach88/nngen/internal/ir"
	"github.com/roach88/nngen/internal/testutil"
)

func TestWriteCompilation_AssignsIDAndSeq(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	c1, err := s.WriteCompilation(ctx, createTestCompilation("h1"))
	require.NoError(t, err)
	c2, err := s.WriteCompilation(ctx, createTestCompilation("h2"))
	require.NoError(t, err)

	id, err := uuid.Parse(c1.ID)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), id.Version())

	assert.NotEqual(t, c1.ID, c2.ID)
	assert.Less(t, c1.Seq, c2.Seq)
}

func TestWriteCompilation_FixedIDs(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t, WithIDGenerator(NewFixedGenerator("c-1", "c-2")))

	c, err := s.WriteCompilation(ctx, createTestCompilation("h"))
	require.NoError(t, err)
	assert.Equal(t, "c-1", c.ID)
	assert.Equal(t, "h", c.GraphHash)
	assert.Equal(t, StatusOK, c.Status)
}

func TestWriteCompilation_DuplicateIDIgnored(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	first := createTestCompilation("h1")
	first.ID = "fixed"
	_, err := s.WriteCompilation(ctx, first)
	require.NoError(t, err)

	second := createTestCompilation("h2")
	second.ID = "fixed"
	stored, err := s.WriteCompilation(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, "h1", stored.GraphHash)

	all, err := s.ListCompilations(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestWriteCompilation_InvalidStatus(t *testing.T) {
	s := createTestStore(t)

	c := createTestCompilation("h")
	c.Status = "pending"
	_, err := s.WriteCompilation(context.Background(), c)
	assert.ErrorContains(t, err, "invalid status")
}

func TestReadCompilation_NotFound(t *testing.T) {
	s := createTestStore(t)

	_, err := s.ReadCompilation(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLatestByGraphHash(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t, WithIDGenerator(NewFixedGenerator("a", "b", "c")))

	for _, h := range []string{"same", "other", "same"} {
		_, err := s.WriteCompilation(ctx, createTestCompilation(h))
		require.NoError(t, err)
	}

	latest, err := s.LatestByGraphHash(ctx, "same")
	require.NoError(t, err)
	assert.Equal(t, "c", latest.ID)

	_, err = s.LatestByGraphHash(ctx, "never")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListCompilations_NewestFirst(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t, WithIDGenerator(NewFixedGenerator("a", "b", "c")))

	empty, err := s.ListCompilations(ctx, 10)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	for _, h := range []string{"h1", "h2", "h3"} {
		_, err := s.WriteCompilation(ctx, createTestCompilation(h))
		require.NoError(t, err)
	}

	all, err := s.ListCompilations(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"c", "b", "a"}, []string{all[0].ID, all[1].ID, all[2].ID})

	limited, err := s.ListCompilations(ctx, 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, "c", limited[0].ID)
}

func TestWriteCompilation_Concurrent(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t, WithIDGenerator(testutil.NewSequentialIDGenerator("c")))

	const n = 20
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.WriteCompilation(ctx, createTestCompilation("h"))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	all, err := s.ListCompilations(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, n)

	ids := make(map[string]bool, n)
	for _, c := range all {
		ids[c.ID] = true
	}
	for i := 1; i <= n; i++ {
		assert.True(t, ids[fmt.Sprintf("c-%d", i)], "missing c-%d", i)
	}
}

func TestNewCompilation_Success(t *testing.T) {
	g := testutil.MLP()
	res, err := compiler.Compile(g)
	require.NoError(t, err)

	c := NewCompilation(ir.MustGraphHash(g), g, res, nil)
	assert.Equal(t, StatusOK, c.Status)
	assert.Empty(t, c.ErrorKind)
	assert.Equal(t, res.Code, c.Code)
	assert.Equal(t, 4, c.NodeCount)
	assert.Equal(t, 3, c.EdgeCount)
	assert.Equal(t, 0, c.DiagnosticCount)
	assert.Equal(t, ir.GeneratorVersion, c.GeneratorVersion)
}

func TestNewCompilation_Cycle(t *testing.T) {
	g := testutil.NewGraph().
		Layer("a", "nn.ReLU").
		Layer("b", "nn.ReLU").
		Edge("a", "b").
		Edge("b", "a").
		Build()
	res, err := compiler.Compile(g)
	require.Error(t, err)

	c := NewCompilation(ir.MustGraphHash(g), g, res, err)
	assert.Equal(t, StatusError, c.Status)
	assert.Equal(t, string(compiler.KindCyclicGraph), c.ErrorKind)
	assert.Equal(t, compiler.CycleMarker, c.Code)

	stored, err := createTestStore(t).WriteCompilation(context.Background(), c)
	require.NoError(t, err)
	assert.Equal(t, StatusError, stored.Status)
}
