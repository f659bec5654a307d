package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/specialistvlad/foilsweep/internal/config"
	"github.com/specialistvlad/foilsweep/internal/ctxlog"
	"github.com/specialistvlad/foilsweep/internal/normalize"
	"github.com/specialistvlad/foilsweep/internal/sweep"
	"github.com/specialistvlad/foilsweep/internal/table"
)

// Run loads the sweep file, runs the sweep and normalizes its run table. A
// cancelled ctx stops the sweep between configurations; normalization is
// then skipped and the returned error wraps ctx.Err().
func (a *App) Run(ctx context.Context) (err error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	a.healthCheckServer()
	defer func() {
		if cerr := a.closeHealthCheckServer(); err == nil && cerr != nil {
			err = cerr
		}
	}()

	cfg, err := a.loadSweep(ctx)
	if err != nil {
		return fmt.Errorf("failed to load sweep file: %w", err)
	}

	s := a.newSolver(cfg.Solver)
	if err := s.Check(); err != nil {
		return err
	}

	rows, err := table.NewAccumulator(cfg.Output.RunTable)
	if err != nil {
		return err
	}
	clog, err := table.NewConfigLog(cfg.Output.ConfigLog, *cfg)
	if err != nil {
		return err
	}

	sw := sweep.New(*cfg, s, rows, clog)
	a.progress.Store(sw.Progress())

	a.logger.Info("🚀 Starting sweep...", "configurations", cfg.Grid.Size())
	sum, err := sw.Run(ctx)
	a.logSummary(sum)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			a.logger.Warn("Sweep interrupted, normalization skipped.", "rows_written", rows.Rows(), "run_table", rows.Path())
		}
		return fmt.Errorf("sweep aborted: %w", err)
	}
	a.logger.Info("🏁 Sweep finished.", "rows_written", rows.Rows(), "run_table", rows.Path())

	if err := a.normalize(ctx, cfg, rows.Path()); err != nil {
		return err
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

// normalize scans the population ranges of the run table and writes the
// normalized table.
func (a *App) normalize(ctx context.Context, cfg *config.Sweep, runTable string) error {
	ranges, err := table.ScanRanges(runTable, normalize.RangedColumns()...)
	if err != nil {
		return fmt.Errorf("failed to scan ranges: %w", err)
	}
	for _, col := range normalize.RangedColumns() {
		r := ranges[col]
		a.logger.Info("Column range.", "column", col, "min", r.Min, "max", r.Max, "values", r.Count)
	}

	n, err := normalize.New(ranges, cfg.Ideal)
	if err != nil {
		return fmt.Errorf("failed to normalize: %w", err)
	}
	rep, err := n.WriteTable(ctx, runTable, cfg.Output.NormalizedTable)
	if err != nil {
		return fmt.Errorf("failed to write normalized table: %w", err)
	}
	a.logger.Info("Normalized table written.",
		"path", cfg.Output.NormalizedTable,
		"rows_written", rep.Written,
		"rows_skipped", rep.Skipped,
	)
	return nil
}

func (a *App) logSummary(sum sweep.Summary) {
	a.logger.Info("Sweep summary.",
		"total", sum.Total,
		"attempted", sum.Attempted,
		"succeeded", sum.Succeeded,
		"failed", sum.Failed,
	)
	for _, f := range sum.Failures {
		a.logger.Debug("Configuration failed.", "airfoil", f.ID, "reason", f.Reason)
	}
}
