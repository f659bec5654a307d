package app

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/specialistvlad/foilsweep/internal/config"
	"github.com/specialistvlad/foilsweep/internal/solver"
	"github.com/specialistvlad/foilsweep/internal/sweep"
	"github.com/specialistvlad/foilsweep/internal/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

const polarHeader = "  alpha    CL        CD       CDp       CM     Top_Xtr  Bot_Xtr\n" +
	" ------ -------- --------- --------- -------- -------- --------\n"

// Three polars with distinct extremes so that every ranged column has a
// positive width. AoA margins are 0, 1 and 2 degrees.
var polars = map[string]string{
	"2411": polarHeader +
		"   0.000   0.2000   0.01000   0.00300  -0.0500   0.6000   0.9000\n" +
		"   1.000   0.5000   0.01000   0.00300  -0.0600   0.6000   0.9000\n" +
		"   2.000   0.4000   0.01200   0.00300  -0.0500   0.6000   0.9000\n" +
		"   3.000   0.3000   0.01500   0.00300  -0.0400   0.6000   0.9000\n",
	"2412": polarHeader +
		"   0.000   0.3000   0.00800   0.00300  -0.0500   0.6000   0.9000\n" +
		"   1.000   0.6000   0.00600   0.00300  -0.0700   0.6000   0.9000\n" +
		"   2.000   0.8000   0.01000   0.00300  -0.0600   0.6000   0.9000\n" +
		"   3.000   0.7000   0.01200   0.00300  -0.0500   0.6000   0.9000\n" +
		"   4.000   0.5000   0.02000   0.00300  -0.0400   0.6000   0.9000\n",
	"2413": polarHeader +
		"   0.000   0.4000   0.00700   0.00300  -0.0500   0.6000   0.9000\n" +
		"   1.000   0.9000   0.00800   0.00300  -0.0800   0.6000   0.9000\n" +
		"   2.000   1.0000   0.01500   0.00300  -0.0700   0.6000   0.9000\n" +
		"   3.000   1.1000   0.02000   0.00300  -0.0600   0.6000   0.9000\n" +
		"   4.000   0.6000   0.03000   0.00300  -0.0500   0.6000   0.9000\n",
}

// fakeSolver writes a canned polar for every script it receives.
type fakeSolver struct {
	dir      string
	checkErr error
	onRun    func()
	mu       sync.Mutex
	runs     int
}

func (f *fakeSolver) Check() error { return f.checkErr }

func (f *fakeSolver) Run(ctx context.Context, script string) (*solver.Result, error) {
	f.mu.Lock()
	f.runs++
	f.mu.Unlock()
	if f.onRun != nil {
		f.onRun()
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("solver run interrupted: %w", err)
	}

	var code, artifact string
	lines := strings.Split(script, "\n")
	for i, line := range lines {
		if strings.HasPrefix(line, "NACA ") && code == "" {
			code = strings.TrimPrefix(line, "NACA ")
		}
		if line == "PACC" && artifact == "" {
			artifact = lines[i+1]
		}
	}
	content, ok := polars[code]
	if !ok {
		return &solver.Result{ExitCode: 2}, &solver.RunError{ExitCode: 2, Cause: fmt.Errorf("exit status 2")}
	}
	if err := os.WriteFile(filepath.Join(f.dir, artifact), []byte(content), 0o644); err != nil {
		return nil, err
	}
	return &solver.Result{}, nil
}

type testEnv struct {
	dir    string
	path   string
	solver *fakeSolver
	logs   *SafeBuffer
}

// setupSweep writes a sweep file whose outputs all live in a temp dir.
func setupSweep(t *testing.T, thickness [2]int, weights string) *testEnv {
	t.Helper()
	dir := t.TempDir()
	if weights == "" {
		weights = "cl = 0.2\n  cd = 0.2\n  ld = 0.2\n  cm = 0.1\n  tc = 0.1\n  aoa_margin = 0.2"
	}
	content := fmt.Sprintf(`
grid {
  camber          = [2, 2]
  camber_location = [4, 4]
  thickness       = [%d, %d]
}

solver {
  executable = "xfoil"
  work_dir   = %q
}

weights {
  %s
}

output {
  run_table        = %q
  normalized_table = %q
  config_log       = %q
}
`, thickness[0], thickness[1], dir, weights,
		filepath.Join(dir, "runs.csv"), filepath.Join(dir, "normalized.csv"), filepath.Join(dir, "config.txt"))

	path := filepath.Join(dir, "sweep.hcl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return &testEnv{dir: dir, path: path, solver: &fakeSolver{dir: dir}, logs: &SafeBuffer{}}
}

func (e *testEnv) newApp(t *testing.T, mutate ...func(*Config)) *App {
	t.Helper()
	cfg := Config{SweepPath: e.path, LogLevel: "debug", LogFormat: "text"}
	for _, m := range mutate {
		m(&cfg)
	}
	appCfg, err := NewConfig(cfg)
	require.NoError(t, err)

	t.Cleanup(func() {
		if os.Getenv("FOILSWEEP_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), e.logs.String())
		}
	})
	return NewApp(e.logs, appCfg, WithSolver(func(config.Solver) Solver { return e.solver }))
}

func TestRun_FullPipeline(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	env := setupSweep(t, [2]int{11, 13}, "")
	a := env.newApp(t)

	// --- Act ---
	err := a.Run(context.Background())

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, 3, env.solver.runs)
	assert.Equal(t, sweep.Snapshot{Total: 3, Attempted: 3, Succeeded: 3}, a.Progress())

	_, runRows, err := table.ReadTable(filepath.Join(env.dir, "runs.csv"))
	require.NoError(t, err)
	require.Len(t, runRows, 3)
	assert.Equal(t, []string{"NACA2411", "0.5", "0.01", "50", "-0.06", "11", "0"}, runRows[0])

	header, normRows, err := table.ReadTable(filepath.Join(env.dir, "normalized.csv"))
	require.NoError(t, err)
	assert.Equal(t, table.Header(), header)
	require.Len(t, normRows, 3)
	// The weakest lift, the highest drag and the smallest margin all score 0.
	assert.Equal(t, "NACA2411", normRows[0][0])
	assert.Equal(t, "0", normRows[0][1])
	assert.Equal(t, "0", normRows[0][2])
	assert.Equal(t, "0", normRows[0][6])
	assert.Equal(t, "1", normRows[2][1], "NACA2413 has the highest Cl")
	assert.Equal(t, "1", normRows[1][2], "NACA2412 has the lowest Cd")

	configLog, err := os.ReadFile(filepath.Join(env.dir, "config.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(configLog), "NACA2411: [0.5, 0.01, 50, -0.06, 11, 0]")

	logs := env.logs.String()
	assert.Contains(t, logs, "Sweep file loaded.")
	assert.Contains(t, logs, "Column range.")
	assert.Contains(t, logs, "Normalized table written.")
}

func TestRun_InvalidWeightsStopBeforeSolver(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		weights string
	}{
		{name: "sum below one", weights: "cl = 0.19\n  cd = 0.2\n  ld = 0.2\n  cm = 0.1\n  tc = 0.1\n  aoa_margin = 0.2"},
		{name: "sum above one", weights: "cl = 0.21\n  cd = 0.2\n  ld = 0.2\n  cm = 0.1\n  tc = 0.1\n  aoa_margin = 0.2"},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			env := setupSweep(t, [2]int{11, 13}, tc.weights)
			err := env.newApp(t).Run(context.Background())

			require.ErrorIs(t, err, config.ErrInvalidWeights)
			assert.Zero(t, env.solver.runs)
			assert.NoFileExists(t, filepath.Join(env.dir, "runs.csv"))
		})
	}
}

func TestRun_UnavailableSolverIsFatal(t *testing.T) {
	t.Parallel()

	env := setupSweep(t, [2]int{11, 13}, "")
	env.solver.checkErr = fmt.Errorf("%w: not found", solver.ErrUnavailable)

	err := env.newApp(t).Run(context.Background())

	require.ErrorIs(t, err, solver.ErrUnavailable)
	assert.Zero(t, env.solver.runs)
}

func TestRun_DegenerateRangeIsFatal(t *testing.T) {
	t.Parallel()

	// A single configuration gives every column a zero-width range.
	env := setupSweep(t, [2]int{12, 12}, "")

	err := env.newApp(t).Run(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "degenerate metric range")
	assert.FileExists(t, filepath.Join(env.dir, "runs.csv"), "the run table survives a failed normalization")
	assert.NoFileExists(t, filepath.Join(env.dir, "normalized.csv"))
}

func TestRun_CancellationSkipsNormalization(t *testing.T) {
	t.Parallel()

	env := setupSweep(t, [2]int{11, 13}, "")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	env.solver.onRun = func() {
		if env.solver.runs == 2 {
			cancel()
		}
	}

	err := env.newApp(t).Run(ctx)

	require.ErrorIs(t, err, context.Canceled)
	_, rows, readErr := table.ReadTable(filepath.Join(env.dir, "runs.csv"))
	require.NoError(t, readErr)
	assert.Len(t, rows, 1)
	assert.NoFileExists(t, filepath.Join(env.dir, "normalized.csv"))
	assert.Contains(t, env.logs.String(), "normalization skipped")
}

func TestRun_CommandLineOverrides(t *testing.T) {
	t.Parallel()

	env := setupSweep(t, [2]int{11, 13}, "")
	var seen config.Solver
	a := env.newApp(t, func(c *Config) {
		c.SolverExecutable = "/opt/xfoil/bin/xfoil"
		timeout := 90 * time.Second
		c.SolverTimeout = &timeout
	})
	a.newSolver = func(controls config.Solver) Solver {
		seen = controls
		return env.solver
	}

	require.NoError(t, a.Run(context.Background()))
	assert.Equal(t, "/opt/xfoil/bin/xfoil", seen.Executable)
	assert.Equal(t, "1m30s", seen.Timeout.String())
}

func TestRun_TimeoutOverride(t *testing.T) {
	t.Parallel()

	zero := time.Duration(0)
	testCases := []struct {
		name     string
		override *time.Duration
		want     time.Duration
	}{
		{name: "unset keeps the file value", override: nil, want: 5 * time.Minute},
		{name: "zero disables the limit", override: &zero, want: 0},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			env := setupSweep(t, [2]int{11, 13}, "")
			var seen config.Solver
			a := env.newApp(t, func(c *Config) { c.SolverTimeout = tc.override })
			a.newSolver = func(controls config.Solver) Solver {
				seen = controls
				return env.solver
			}

			require.NoError(t, a.Run(context.Background()))
			assert.Equal(t, tc.want, seen.Timeout)
		})
	}
}

func TestRun_SweepPathErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	unsupported := filepath.Join(dir, "sweep.json")
	require.NoError(t, os.WriteFile(unsupported, []byte("{}"), 0o600))

	testCases := []struct {
		name    string
		path    string
		wantErr string
	}{
		{name: "missing", path: filepath.Join(dir, "nope.hcl"), wantErr: "error accessing path"},
		{name: "unsupported extension", path: unsupported, wantErr: "unsupported sweep file"},
		{name: "directory without sweep file", path: t.TempDir(), wantErr: "no sweep file"},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cfg, err := NewConfig(Config{SweepPath: tc.path})
			require.NoError(t, err)
			err = NewApp(&SafeBuffer{}, cfg).Run(context.Background())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestNewConfig(t *testing.T) {
	t.Parallel()

	_, err := NewConfig(Config{})
	require.Error(t, err)

	negative := -time.Second
	_, err = NewConfig(Config{SweepPath: "sweep.hcl", SolverTimeout: &negative})
	require.Error(t, err)

	cfg, err := NewConfig(Config{SweepPath: "sweep.hcl"})
	require.NoError(t, err)
	assert.Equal(t, "sweep.hcl", cfg.SweepPath)
}

func TestHealthHandler(t *testing.T) {
	t.Parallel()

	cfg, err := NewConfig(Config{SweepPath: "sweep.hcl"})
	require.NoError(t, err)
	a := NewApp(&SafeBuffer{}, cfg)

	rec := httptest.NewRecorder()
	a.healthHandler(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK\n{\"total\":0,\"attempted\":0,\"succeeded\":0,\"failed\":0}\n", rec.Body.String())
}

func TestNewLogger(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name      string
		level     string
		format    string
		wantDebug bool
		wantJSON  bool
	}{
		{name: "debug text", level: "debug", format: "text", wantDebug: true},
		{name: "info json", level: "info", format: "json", wantJSON: true},
		{name: "unknown level falls back to info", level: "verbose", format: "text"},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			buf := &SafeBuffer{}
			logger := newLogger(tc.level, tc.format, buf)
			logger.Debug("debug line")
			logger.Info("info line")

			out := buf.String()
			assert.Equal(t, tc.wantDebug, strings.Contains(out, "debug line"))
			assert.Contains(t, out, "info line")
			assert.Equal(t, tc.wantJSON, strings.HasPrefix(out, "{"))
		})
	}
}
