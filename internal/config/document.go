package config

import (
	"fmt"
	"time"

	"github.com/specialistvlad/foilsweep/internal/grid"
)

// Document is the raw shape of a sweep file. Every field is optional; unset
// fields keep their default. The struct carries tags for each supported
// format so the loaders share one overlay implementation.
type Document struct {
	Grid    *GridDocument    `hcl:"grid,block" yaml:"grid"`
	Solver  *SolverDocument  `hcl:"solver,block" yaml:"solver"`
	Weights *WeightsDocument `hcl:"weights,block" yaml:"weights"`
	Ideal   *IdealDocument   `hcl:"ideal,block" yaml:"ideal"`
	Output  *OutputDocument  `hcl:"output,block" yaml:"output"`
}

// GridDocument holds [min, max] pairs.
type GridDocument struct {
	Camber         []int `hcl:"camber,optional" yaml:"camber"`
	CamberLocation []int `hcl:"camber_location,optional" yaml:"camber_location"`
	Thickness      []int `hcl:"thickness,optional" yaml:"thickness"`
}

type SolverDocument struct {
	Executable      *string   `hcl:"executable,optional" yaml:"executable"`
	Args            []string  `hcl:"args,optional" yaml:"args"`
	WorkDir         *string   `hcl:"work_dir,optional" yaml:"work_dir"`
	Timeout         *string   `hcl:"timeout,optional" yaml:"timeout"`
	Family          *string   `hcl:"family,optional" yaml:"family"`
	Panels          *int      `hcl:"panels,optional" yaml:"panels"`
	Reynolds        *int      `hcl:"reynolds,optional" yaml:"reynolds"`
	Mach            *float64  `hcl:"mach,optional" yaml:"mach"`
	Ncrit           *float64  `hcl:"ncrit,optional" yaml:"ncrit"`
	Iterations      *int      `hcl:"iterations,optional" yaml:"iterations"`
	Alpha           []float64 `hcl:"alpha,optional" yaml:"alpha"`
	UniqueArtifacts *bool     `hcl:"unique_artifacts,optional" yaml:"unique_artifacts"`
	KeepArtifacts   *bool     `hcl:"keep_artifacts,optional" yaml:"keep_artifacts"`
}

type WeightsDocument struct {
	Cl        *float64 `hcl:"cl,optional" yaml:"cl"`
	Cd        *float64 `hcl:"cd,optional" yaml:"cd"`
	LD        *float64 `hcl:"ld,optional" yaml:"ld"`
	Cm        *float64 `hcl:"cm,optional" yaml:"cm"`
	TC        *float64 `hcl:"tc,optional" yaml:"tc"`
	AoAMargin *float64 `hcl:"aoa_margin,optional" yaml:"aoa_margin"`
}

type IdealDocument struct {
	Thickness *float64 `hcl:"thickness,optional" yaml:"thickness"`
	Deviation *float64 `hcl:"deviation,optional" yaml:"deviation"`
}

type OutputDocument struct {
	RunTable        *string `hcl:"run_table,optional" yaml:"run_table"`
	NormalizedTable *string `hcl:"normalized_table,optional" yaml:"normalized_table"`
	ConfigLog       *string `hcl:"config_log,optional" yaml:"config_log"`
}

// Apply overlays the document on base and validates the result.
func (d *Document) Apply(base Sweep) (*Sweep, error) {
	s := base
	if d == nil {
		d = &Document{}
	}

	if g := d.Grid; g != nil {
		var err error
		if s.Grid.Camber, err = pairOr(g.Camber, s.Grid.Camber, "camber"); err != nil {
			return nil, err
		}
		if s.Grid.CamberLocation, err = pairOr(g.CamberLocation, s.Grid.CamberLocation, "camber_location"); err != nil {
			return nil, err
		}
		if s.Grid.Thickness, err = pairOr(g.Thickness, s.Grid.Thickness, "thickness"); err != nil {
			return nil, err
		}
	}

	if sd := d.Solver; sd != nil {
		set(&s.Solver.Executable, sd.Executable)
		set(&s.Solver.WorkDir, sd.WorkDir)
		set(&s.Solver.Family, sd.Family)
		set(&s.Solver.Panels, sd.Panels)
		set(&s.Solver.Reynolds, sd.Reynolds)
		set(&s.Solver.Mach, sd.Mach)
		set(&s.Solver.Ncrit, sd.Ncrit)
		set(&s.Solver.Iterations, sd.Iterations)
		set(&s.Solver.UniqueArtifacts, sd.UniqueArtifacts)
		set(&s.Solver.KeepArtifacts, sd.KeepArtifacts)
		if sd.Args != nil {
			s.Solver.Args = append([]string(nil), sd.Args...)
		}
		if sd.Timeout != nil {
			timeout, err := time.ParseDuration(*sd.Timeout)
			if err != nil {
				return nil, fmt.Errorf("%w: solver timeout: %v", ErrInvalid, err)
			}
			s.Solver.Timeout = timeout
		}
		if sd.Alpha != nil {
			if len(sd.Alpha) != 3 {
				return nil, fmt.Errorf("%w: solver alpha must be [start, end, step], got %d values", ErrInvalid, len(sd.Alpha))
			}
			s.Solver.Alpha = AlphaSweep{Start: sd.Alpha[0], End: sd.Alpha[1], Step: sd.Alpha[2]}
		}
	}

	if w := d.Weights; w != nil {
		set(&s.Weights.Cl, w.Cl)
		set(&s.Weights.Cd, w.Cd)
		set(&s.Weights.LD, w.LD)
		set(&s.Weights.Cm, w.Cm)
		set(&s.Weights.TC, w.TC)
		set(&s.Weights.AoAMargin, w.AoAMargin)
	}

	if i := d.Ideal; i != nil {
		set(&s.Ideal.Thickness, i.Thickness)
		set(&s.Ideal.Deviation, i.Deviation)
	}

	if o := d.Output; o != nil {
		set(&s.Output.RunTable, o.RunTable)
		set(&s.Output.NormalizedTable, o.NormalizedTable)
		set(&s.Output.ConfigLog, o.ConfigLog)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func pairOr(pair []int, fallback grid.Range, name string) (grid.Range, error) {
	if pair == nil {
		return fallback, nil
	}
	if len(pair) != 2 {
		return grid.Range{}, fmt.Errorf("%w: grid %s must be [min, max], got %d values", ErrInvalid, name, len(pair))
	}
	return grid.Range{Min: pair[0], Max: pair[1]}, nil
}
