package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/foilsweep/internal/app"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func durationPtr(d time.Duration) *time.Duration {
	return &d
}

func TestParse(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		args     []string
		want     *app.Config
		wantExit bool
		wantCode int
	}{
		{
			name: "positional path with defaults",
			args: []string{"sweep.hcl"},
			want: &app.Config{SweepPath: "sweep.hcl", LogFormat: "text", LogLevel: "info"},
		},
		{
			name: "config flag wins over positional",
			args: []string{"-config", "a.yaml", "b.hcl"},
			want: &app.Config{SweepPath: "a.yaml", LogFormat: "text", LogLevel: "info"},
		},
		{
			name: "shorthand and overrides",
			args: []string{
				"-c", "sweeps/", "-log-format", "JSON", "-log-level", "debug",
				"-healthcheck-port", "8080", "-solver", "/opt/xfoil", "-timeout", "90s",
			},
			want: &app.Config{
				SweepPath:        "sweeps/",
				LogFormat:        "json",
				LogLevel:         "debug",
				HealthcheckPort:  8080,
				SolverExecutable: "/opt/xfoil",
				SolverTimeout:    durationPtr(90 * time.Second),
			},
		},
		{
			name: "explicit zero timeout disables the limit",
			args: []string{"-timeout", "0", "sweep.hcl"},
			want: &app.Config{SweepPath: "sweep.hcl", LogFormat: "text", LogLevel: "info", SolverTimeout: durationPtr(0)},
		},
		{name: "no path prints usage", args: []string{}, wantExit: true},
		{name: "help", args: []string{"-h"}, wantExit: true},
		{name: "unknown flag", args: []string{"-workers", "4", "sweep.hcl"}, wantCode: ExitUsage},
		{name: "bad log format", args: []string{"-log-format", "xml", "sweep.hcl"}, wantCode: ExitUsage},
		{name: "bad log level", args: []string{"-log-level", "trace", "sweep.hcl"}, wantCode: ExitUsage},
		{name: "bad port", args: []string{"-healthcheck-port", "70000", "sweep.hcl"}, wantCode: ExitUsage},
		{name: "negative timeout", args: []string{"-timeout", "-1s", "sweep.hcl"}, wantCode: ExitUsage},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			// --- Arrange ---
			out := &bytes.Buffer{}

			// --- Act ---
			cfg, shouldExit, err := Parse(tc.args, out)

			// --- Assert ---
			if tc.wantCode != 0 {
				var exitErr *ExitError
				require.ErrorAs(t, err, &exitErr)
				assert.Equal(t, tc.wantCode, exitErr.Code)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantExit, shouldExit)
			if tc.wantExit {
				assert.Nil(t, cfg)
				assert.Contains(t, out.String(), "Usage:")
				return
			}
			if diff := cmp.Diff(tc.want, cfg); diff != "" {
				t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
