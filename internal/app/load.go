package app

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/foilsweep/internal/config"
	"github.com/specialistvlad/foilsweep/internal/ctxlog"
	"github.com/specialistvlad/foilsweep/internal/fsutil"
	"github.com/specialistvlad/foilsweep/internal/hcl"
	"github.com/specialistvlad/foilsweep/internal/solver"
	"github.com/specialistvlad/foilsweep/internal/yamlconfig"
)

var sweepFileExtensions = []string{".hcl", ".yaml", ".yml"}

// loaderFor picks the loader from the file extension.
func loaderFor(path string) (config.Loader, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".hcl":
		return hcl.NewLoader(), nil
	case ".yaml", ".yml":
		return yamlconfig.NewLoader(), nil
	default:
		return nil, fmt.Errorf("unsupported sweep file %s: expected one of %s", path, strings.Join(sweepFileExtensions, ", "))
	}
}

// loadSweep resolves, loads and validates the sweep file, then applies the
// command-line overrides.
func (a *App) loadSweep(ctx context.Context) (*config.Sweep, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading sweep file...", "sweep_path", a.config.SweepPath)

	path, err := fsutil.ResolveSweepFile(a.config.SweepPath, sweepFileExtensions...)
	if err != nil {
		return nil, err
	}
	loader, err := loaderFor(path)
	if err != nil {
		return nil, err
	}
	s, err := loader.Load(ctx, path)
	if err != nil {
		return nil, err
	}

	if a.config.SolverExecutable != "" {
		s.Solver.Executable = a.config.SolverExecutable
	}
	if a.config.SolverTimeout != nil {
		s.Solver.Timeout = *a.config.SolverTimeout
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	logger.Info("Sweep file loaded.",
		"path", path,
		"configurations", s.Grid.Size(),
		"camber", s.Grid.Camber.String(),
		"camber_location", s.Grid.CamberLocation.String(),
		"thickness", s.Grid.Thickness.String(),
		"reynolds", s.Solver.Reynolds,
		"mach", s.Solver.Mach,
		"timeout", s.Solver.Timeout,
	)
	return s, nil
}

func newAdapter(controls config.Solver) Solver {
	return solver.NewAdapter(controls)
}
