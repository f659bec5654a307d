package yamlconfig

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/specialistvlad/foilsweep/internal/config"
	"github.com/specialistvlad/foilsweep/internal/grid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sweep.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoader_PartialFile(t *testing.T) {
	t.Parallel()

	path := writeFile(t, `
grid:
  camber: [0, 0]
  thickness: [9, 18]
solver:
  executable: ./bin/xfoil
  timeout: 45s
  alpha: [0, 15, 0.5]
ideal:
  deviation: 4
`)

	s, err := NewLoader().Load(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, grid.Range{Min: 0, Max: 0}, s.Grid.Camber)
	assert.Equal(t, grid.Range{Min: 9, Max: 18}, s.Grid.Thickness)
	assert.Equal(t, 30, s.Grid.Size())
	assert.Equal(t, "./bin/xfoil", s.Solver.Executable)
	assert.Equal(t, 45*time.Second, s.Solver.Timeout)
	assert.Equal(t, config.AlphaSweep{Start: 0, End: 15, Step: 0.5}, s.Solver.Alpha)
	assert.Equal(t, config.Ideal{Thickness: 13, Deviation: 4}, s.Ideal)
	assert.Equal(t, config.Defaults().Weights, s.Weights)
}

func TestLoader_EmptyFile(t *testing.T) {
	t.Parallel()

	s, err := NewLoader().Load(context.Background(), writeFile(t, ""))
	require.NoError(t, err)
	assert.Equal(t, config.Defaults(), *s)
}

func TestLoader_Errors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name        string
		content     string
		errContains string
	}{
		{name: "unknown key", content: "solver:\n  flaps: true\n", errContains: "failed to decode"},
		{name: "wrong type", content: "solver:\n  panels: many\n", errContains: "failed to decode"},
		{name: "invalid weights", content: "weights:\n  cd: 0.18\n", errContains: "objective weights must sum to 1"},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewLoader().Load(context.Background(), writeFile(t, tc.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errContains)
		})
	}
}

func TestLoader_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := NewLoader().Load(context.Background(), filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
