package table

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/specialistvlad/foilsweep/internal/config"
	"github.com/specialistvlad/foilsweep/internal/metrics"
)

const rule = "=============================================================================================="
const thinRule = "-------------------------------------------------"

// ConfigLog mirrors every attempted configuration in a readable text file.
type ConfigLog struct {
	path string
}

// NewConfigLog creates the log at path, discarding prior content, and writes
// the banner describing the sweep.
func NewConfigLog(path string, s config.Sweep) (*ConfigLog, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create configuration log: %w", err)
	}
	writeBanner(f, s)
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("write configuration log: %w", err)
	}
	return &ConfigLog{path: path}, nil
}

// Path returns the log location.
func (c *ConfigLog) Path() string {
	return c.path
}

// Success records a configuration and its indicators.
func (c *ConfigLog) Success(id string, in metrics.Indicators) error {
	vals := in.Values()
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = FormatFloat(v)
	}
	return c.appendLine(fmt.Sprintf("%s: [%s]", id, strings.Join(parts, ", ")))
}

// Failure records a configuration that produced no row.
func (c *ConfigLog) Failure(id string, reason error) error {
	return c.appendLine(fmt.Sprintf("%s: FAILED (%v)", id, reason))
}

func (c *ConfigLog) appendLine(line string) (err error) {
	f, err := os.OpenFile(c.path, os.O_WRONLY|os.O_APPEND, 0)
	if err != nil {
		return fmt.Errorf("open configuration log: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close configuration log: %w", cerr)
		}
	}()
	if _, err := fmt.Fprintln(f, line); err != nil {
		return fmt.Errorf("append configuration log: %w", err)
	}
	return nil
}

func writeBanner(w io.Writer, s config.Sweep) {
	pct := func(v float64) string { return fmt.Sprintf("%.2f%%", v*100) }
	g := s.Grid

	fmt.Fprintf(w, "\n%s\nAirfoil Optimization Data\n%s\n", rule, thinRule)
	fmt.Fprintf(w, "Sim Controls\n")
	fmt.Fprintf(w, "    Panels:                %d\n", s.Solver.Panels)
	fmt.Fprintf(w, "    Reynolds No:           %d\n", s.Solver.Reynolds)
	fmt.Fprintf(w, "    Mach No:               %s\n", FormatFloat(s.Solver.Mach))
	fmt.Fprintf(w, "    Ncrit:                 %s\n", FormatFloat(s.Solver.Ncrit))
	fmt.Fprintf(w, "    Iterations:            %d\n", s.Solver.Iterations)
	fmt.Fprintf(w, "    Alpha sweep:           %s to %s step %s\n",
		FormatFloat(s.Solver.Alpha.Start), FormatFloat(s.Solver.Alpha.End), FormatFloat(s.Solver.Alpha.Step))
	fmt.Fprintf(w, "%s\n Objective Weights\n", thinRule)
	fmt.Fprintf(w, "    Cl :                   %s\n", pct(s.Weights.Cl))
	fmt.Fprintf(w, "    CD :                   %s\n", pct(s.Weights.Cd))
	fmt.Fprintf(w, "    Cm :                   %s\n", pct(s.Weights.Cm))
	fmt.Fprintf(w, "    L/D:                   %s\n", pct(s.Weights.LD))
	fmt.Fprintf(w, "    t/c:                   %s\n", pct(s.Weights.TC))
	fmt.Fprintf(w, "    AoAmarg:               %s\n", pct(s.Weights.AoAMargin))
	fmt.Fprintf(w, "    W_Total:               %s\n", pct(s.Weights.Sum()))
	fmt.Fprintf(w, "%s\nAirfoil Configuration Range (%s 4_digits [camber, camber_loc, thickness])\n", thinRule, s.Solver.Family)
	fmt.Fprintf(w, "    camber_min :           %d\n", g.Camber.Min)
	fmt.Fprintf(w, "    camber_max :           %d\n", g.Camber.Max)
	fmt.Fprintf(w, "    camber_location_min :  %d\n", g.CamberLocation.Min)
	fmt.Fprintf(w, "    camber_location_max :  %d\n", g.CamberLocation.Max)
	fmt.Fprintf(w, "    thickness_min :        %d\n", g.Thickness.Min)
	fmt.Fprintf(w, "    thickness_max :        %d\n", g.Thickness.Max)
	fmt.Fprintf(w, "    Total Airfoils:        %d\n", g.Size())
	fmt.Fprintf(w, "%s\nIdeal Thickness: %s\nDeviation:       %s\n\n", thinRule,
		FormatFloat(s.Ideal.Thickness), FormatFloat(s.Ideal.Deviation))
	fmt.Fprintf(w, "%s\nAirfoil Data: [Airfoil_Name]:[%s]\n%s\n", rule, strings.Join(metrics.Columns, ","), rule)
}
