package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

var (
	// ErrNoValues means a column holds no parsable number.
	ErrNoValues = errors.New("column has no numeric values")

	// ErrUnknownColumn means the header does not name the requested column.
	ErrUnknownColumn = errors.New("unknown column")
)

// Range is the observed interval of one column.
type Range struct {
	Min float64
	Max float64
	// Count is the number of values that contributed.
	Count int
}

// Degenerate reports whether the range has no positive, finite width.
func (r Range) Degenerate() bool {
	return !(r.Max > r.Min) || math.IsInf(r.Max-r.Min, 0)
}

// ScanColumn returns the min and max of column over every parsable value in
// the table at path. Missing, unparsable and non-finite cells are skipped.
func ScanColumn(path, column string) (Range, error) {
	header, rows, err := ReadTable(path)
	if err != nil {
		return Range{}, err
	}

	idx := -1
	for i, name := range header {
		if name == column {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Range{}, fmt.Errorf("%w %q in %s", ErrUnknownColumn, column, path)
	}

	var r Range
	for _, row := range rows {
		if idx >= len(row) {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(row[idx]), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		if r.Count == 0 || v < r.Min {
			r.Min = v
		}
		if r.Count == 0 || v > r.Max {
			r.Max = v
		}
		r.Count++
	}
	if r.Count == 0 {
		return Range{}, fmt.Errorf("%w: %s in %s", ErrNoValues, column, path)
	}
	return r, nil
}

// ScanRanges scans each column independently.
func ScanRanges(path string, columns ...string) (map[string]Range, error) {
	ranges := make(map[string]Range, len(columns))
	for _, col := range columns {
		r, err := ScanColumn(path, col)
		if err != nil {
			return nil, err
		}
		ranges[col] = r
	}
	return ranges, nil
}

// ReadTable reads a whole CSV table. Rows may be ragged.
func ReadTable(path string) (header []string, rows [][]string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open table: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	header, err = r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, fmt.Errorf("table %s has no header", path)
		}
		return nil, nil, fmt.Errorf("read table header: %w", err)
	}
	rows, err = r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read table %s: %w", path, err)
	}
	return header, rows, nil
}
