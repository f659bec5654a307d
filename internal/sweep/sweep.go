package sweep

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/specialistvlad/foilsweep/internal/config"
	"github.com/specialistvlad/foilsweep/internal/ctxlog"
	"github.com/specialistvlad/foilsweep/internal/grid"
	"github.com/specialistvlad/foilsweep/internal/metrics"
	"github.com/specialistvlad/foilsweep/internal/polar"
	"github.com/specialistvlad/foilsweep/internal/solver"
	"github.com/specialistvlad/foilsweep/internal/table"
)

// Solver runs one solver process for a script.
type Solver interface {
	Run(ctx context.Context, script string) (*solver.Result, error)
}

// Failure is one configuration that produced no row.
type Failure struct {
	ID     string
	Reason string
}

// Summary is the outcome of a sweep.
type Summary struct {
	Total     int
	Attempted int
	Succeeded int
	Failed    int
	Failures  []Failure
}

// Sweep owns one sweep invocation.
type Sweep struct {
	cfg      config.Sweep
	solver   Solver
	rows     *table.Accumulator
	log      *table.ConfigLog
	progress *Progress
	newToken func() string
}

// New prepares a sweep. rows and log must already be created for this
// invocation.
func New(cfg config.Sweep, s Solver, rows *table.Accumulator, log *table.ConfigLog) *Sweep {
	return &Sweep{
		cfg:      cfg,
		solver:   s,
		rows:     rows,
		log:      log,
		progress: &Progress{total: int64(cfg.Grid.Size())},
		newToken: solver.NewToken,
	}
}

// Progress returns the live counters of this sweep.
func (s *Sweep) Progress() *Progress {
	return s.progress
}

// Run visits every grid point. The returned error is non-nil only for
// conditions that stop the whole sweep; the summary is valid either way.
func (s *Sweep) Run(ctx context.Context) (Summary, error) {
	logger := ctxlog.FromContext(ctx)
	points := s.cfg.Grid.Points()
	sum := Summary{Total: len(points)}
	logger.Info("Sweep starting.", "configurations", len(points), "executable", s.cfg.Solver.Executable)

	for _, p := range points {
		// Safe boundary: the previous point's row, if any, is already on disk.
		if err := ctx.Err(); err != nil {
			logger.Warn("Sweep cancelled.", "attempted", sum.Attempted, "remaining", len(points)-sum.Attempted)
			return sum, err
		}

		sum.Attempted++
		s.progress.attempted.Add(1)

		id, in, runErr, err := s.runPoint(ctx, p)
		if err != nil {
			return sum, err
		}

		if runErr != nil {
			sum.Failed++
			s.progress.failed.Add(1)
			sum.Failures = append(sum.Failures, Failure{ID: id, Reason: runErr.Error()})
			if err := s.log.Failure(id, runErr); err != nil {
				return sum, err
			}
			continue
		}

		if err := s.rows.Append(id, in); err != nil {
			return sum, err
		}
		if err := s.log.Success(id, in); err != nil {
			return sum, err
		}
		sum.Succeeded++
		s.progress.succeeded.Add(1)
	}

	logger.Info("Sweep finished.", "attempted", sum.Attempted, "succeeded", sum.Succeeded, "failed", sum.Failed)
	return sum, nil
}

// runPoint runs one configuration. runErr is a per-configuration failure;
// err stops the sweep.
func (s *Sweep) runPoint(ctx context.Context, p grid.Point) (id string, in metrics.Indicators, runErr, err error) {
	token := ""
	if s.cfg.Solver.UniqueArtifacts {
		token = s.newToken()
	}
	inv := solver.NewInvocation(p, s.cfg.Solver, token)
	id = inv.ID

	ctx = ctxlog.With(ctx, "airfoil", id, "run_token", token)
	logger := ctxlog.FromContext(ctx)
	start := time.Now()

	artifact := filepath.Join(s.cfg.Solver.WorkDir, inv.Artifact)
	// The solver appends to an existing polar file instead of replacing it.
	if rmErr := os.Remove(artifact); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
		return id, in, fmt.Errorf("remove stale artifact: %w", rmErr), nil
	}

	if _, solveErr := s.solver.Run(ctx, inv.Script); solveErr != nil {
		switch {
		case errors.Is(solveErr, solver.ErrUnavailable):
			return id, in, nil, solveErr
		case ctx.Err() != nil:
			return id, in, nil, ctx.Err()
		}
		logger.Warn("Solver run failed, skipping configuration.", "reason", solveErr, "elapsed", time.Since(start))
		return id, in, solveErr, nil
	}

	pol, polErr := polar.ReadFile(artifact)
	if polErr != nil {
		logger.Warn("No usable polar, skipping configuration.", "reason", polErr, "elapsed", time.Since(start))
		return id, in, polErr, nil
	}
	if !s.cfg.Solver.KeepArtifacts {
		if rmErr := os.Remove(artifact); rmErr != nil {
			logger.Warn("Could not remove polar artifact.", "path", artifact, "error", rmErr)
		}
	}
	logger.Debug("Polar extracted.",
		"samples", len(pol.Samples),
		"final_state", pol.Report.Final.String(),
		"skipped_lines", pol.Report.SkippedTotal(),
	)

	in, redErr := metrics.Reduce(pol, p.Thickness)
	if redErr != nil {
		return id, in, redErr, nil
	}

	logger.Info("Configuration reduced.",
		"cl_max", in.MaxCl,
		"cd_min", in.MinCd,
		"ld_max", in.MaxLD,
		"aoa_margin", in.AoAMargin,
		"elapsed", time.Since(start),
	)
	return id, in, nil, nil
}
