package table

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/specialistvlad/foilsweep/internal/metrics"
)

// IDColumn is the header of the configuration identifier column.
const IDColumn = "Airfoil"

// Header returns the fixed run table header.
func Header() []string {
	return append([]string{IDColumn}, metrics.Columns...)
}

// FormatFloat renders a value the way every table in this package does.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Accumulator appends rows to the run table. It is the table's only writer.
type Accumulator struct {
	path string
	rows int
}

// NewAccumulator creates the run table at path, discarding prior content,
// and writes the header.
func NewAccumulator(path string) (*Accumulator, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create run table: %w", err)
	}
	w := csv.NewWriter(f)
	if err := w.Write(Header()); err != nil {
		f.Close()
		return nil, fmt.Errorf("write run table header: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return nil, fmt.Errorf("write run table header: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("close run table: %w", err)
	}
	return &Accumulator{path: path}, nil
}

// Path returns the run table location.
func (a *Accumulator) Path() string {
	return a.path
}

// Rows returns the number of rows appended so far.
func (a *Accumulator) Rows() int {
	return a.rows
}

// Append writes one row and syncs it to disk before returning, so a row
// that was reported appended survives an interrupted sweep.
func (a *Accumulator) Append(id string, in metrics.Indicators) (err error) {
	f, err := os.OpenFile(a.path, os.O_WRONLY|os.O_APPEND, 0)
	if err != nil {
		return fmt.Errorf("open run table: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close run table: %w", cerr)
		}
	}()

	record := make([]string, 0, len(metrics.Columns)+1)
	record = append(record, id)
	for _, v := range in.Values() {
		record = append(record, FormatFloat(v))
	}

	w := csv.NewWriter(f)
	if err := w.Write(record); err != nil {
		return fmt.Errorf("append %s: %w", id, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("append %s: %w", id, err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("sync run table: %w", err)
	}
	a.rows++
	return nil
}
