package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoldenPath(t *testing.T) {
	assert.Equal(t, filepath.Join("scenarios", "golden", "mlp.golden"), GoldenPath(filepath.Join("scenarios", "mlp.yaml")))
	assert.Equal(t, filepath.Join("golden", "x.golden"), GoldenPath("x.yml"))
}

func TestUpdateAndCompareGolden(t *testing.T) {
	path := filepath.Join(t.TempDir(), "golden", "s.golden")
	result := &Result{Code: "return x\n"}

	_, err := CompareGolden(path, result)
	assert.ErrorIs(t, err, os.ErrNotExist)

	require.NoError(t, UpdateGolden(path, result))

	match, err := CompareGolden(path, result)
	require.NoError(t, err)
	assert.True(t, match)

	match, err = CompareGolden(path, &Result{Code: "return y\n"})
	require.NoError(t, err)
	assert.False(t, match)
}

func TestScenarioGoldensMatchFiles(t *testing.T) {
	files, err := FindScenarioFiles("testdata", "")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, f := range files {
		s, err := LoadScenario(f)
		require.NoError(t, err)
		result, err := Run(s)
		require.NoError(t, err)

		match, err := CompareGolden(GoldenPath(f), result)
		require.NoError(t, err, f)
		assert.True(t, match, "%s does not match %s", f, GoldenPath(f))
	}
}
