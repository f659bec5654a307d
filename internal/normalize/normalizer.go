package normalize

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/specialistvlad/foilsweep/internal/config"
	"github.com/specialistvlad/foilsweep/internal/ctxlog"
	"github.com/specialistvlad/foilsweep/internal/table"
)

var (
	// ErrDegenerateRange means a ranged column has max == min, so its
	// scores are undefined.
	ErrDegenerateRange = errors.New("degenerate metric range")

	// ErrUnparsable marks a row with a non-numeric indicator.
	ErrUnparsable = errors.New("unparsable metric value")
)

// Normalizer scores run table rows against fixed population ranges.
type Normalizer struct {
	ranges map[string]table.Range
	ideal  config.Ideal
}

// New validates the ranges and returns a Normalizer. Every ranged column
// must be present and have a positive width.
func New(ranges map[string]table.Range, ideal config.Ideal) (*Normalizer, error) {
	for _, col := range RangedColumns() {
		r, ok := ranges[col]
		if !ok {
			return nil, fmt.Errorf("no range for column %s", col)
		}
		if r.Degenerate() {
			return nil, fmt.Errorf("%w: column %s has min %g and max %g (a sweep needs at least two distinct values)",
				ErrDegenerateRange, col, r.Min, r.Max)
		}
	}
	if ideal.Deviation <= 0 {
		return nil, fmt.Errorf("ideal deviation must be positive, got %g", ideal.Deviation)
	}
	return &Normalizer{ranges: ranges, ideal: ideal}, nil
}

// Score applies the rule's policy to v.
func (n *Normalizer) Score(rule Rule, v float64) float64 {
	switch rule.Policy {
	case Inverted:
		r := n.ranges[rule.Column]
		return InvertedScore(r.Min, r.Max, v)
	case Gaussian:
		return GaussianScore(n.ideal.Thickness, n.ideal.Deviation, v)
	default:
		r := n.ranges[rule.Column]
		return LinearScore(r.Min, r.Max, v)
	}
}

// Report summarizes one normalization pass.
type Report struct {
	Written int
	Skipped int
	// SkippedIDs lists the identifiers of skipped rows in table order.
	SkippedIDs []string
}

// WriteTable reads the run table at src and writes the normalized table to
// dst, replacing any previous content. Rows with an unparsable indicator are
// skipped and reported; src is never modified.
func (n *Normalizer) WriteTable(ctx context.Context, src, dst string) (rep Report, err error) {
	logger := ctxlog.FromContext(ctx)

	header, rows, err := table.ReadTable(src)
	if err != nil {
		return Report{}, err
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}
	idIdx, ok := index[table.IDColumn]
	if !ok {
		return Report{}, fmt.Errorf("%w %q in %s", table.ErrUnknownColumn, table.IDColumn, src)
	}
	for _, rule := range Rules {
		if _, ok := index[rule.Column]; !ok {
			return Report{}, fmt.Errorf("%w %q in %s", table.ErrUnknownColumn, rule.Column, src)
		}
	}

	f, err := os.Create(dst)
	if err != nil {
		return Report{}, fmt.Errorf("create normalized table: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close normalized table: %w", cerr)
		}
	}()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return Report{}, fmt.Errorf("write normalized header: %w", err)
	}

	for _, row := range rows {
		id := ""
		if idIdx < len(row) {
			id = row[idIdx]
		}
		out, err := n.normalizeRow(row, index)
		if err != nil {
			logger.Warn("Skipping run table row.", "airfoil", id, "error", err)
			rep.Skipped++
			rep.SkippedIDs = append(rep.SkippedIDs, id)
			continue
		}
		if err := w.Write(out); err != nil {
			return rep, fmt.Errorf("write normalized row %s: %w", id, err)
		}
		rep.Written++
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return rep, fmt.Errorf("flush normalized table: %w", err)
	}
	return rep, nil
}

func (n *Normalizer) normalizeRow(row []string, index map[string]int) ([]string, error) {
	out := append([]string(nil), row...)
	for _, rule := range Rules {
		i := index[rule.Column]
		if i >= len(row) {
			return nil, fmt.Errorf("%w: column %s missing", ErrUnparsable, rule.Column)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(row[i]), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: column %s value %q", ErrUnparsable, rule.Column, row[i])
		}
		out[i] = table.FormatFloat(n.Score(rule, v))
	}
	return out, nil
}
