package config

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalid is wrapped by every validation failure.
	ErrInvalid = errors.New("invalid sweep configuration")

	// ErrInvalidWeights reports objective weights that do not sum to 1.
	ErrInvalidWeights = errors.New("objective weights must sum to 1")
)

// weightTolerance absorbs floating-point error in the weight sum only.
const weightTolerance = 1e-9

// Validate checks the whole sweep. It must pass before any solver process
// is launched.
func (s Sweep) Validate() error {
	if err := s.Grid.Validate(); err != nil {
		return fmt.Errorf("%w: grid %v", ErrInvalid, err)
	}
	if err := s.Solver.validate(); err != nil {
		return fmt.Errorf("%w: solver %v", ErrInvalid, err)
	}
	if err := s.Weights.Validate(); err != nil {
		return err
	}
	if s.Ideal.Deviation <= 0 {
		return fmt.Errorf("%w: ideal deviation must be positive, got %g", ErrInvalid, s.Ideal.Deviation)
	}
	if s.Output.RunTable == "" || s.Output.NormalizedTable == "" || s.Output.ConfigLog == "" {
		return fmt.Errorf("%w: output paths must not be empty", ErrInvalid)
	}
	if s.Output.RunTable == s.Output.NormalizedTable {
		return fmt.Errorf("%w: run table and normalized table must differ", ErrInvalid)
	}
	return nil
}

// Validate rejects negative weights and any set whose sum is not 1.
func (w Weights) Validate() error {
	for name, v := range map[string]float64{
		"cl": w.Cl, "cd": w.Cd, "ld": w.LD, "cm": w.Cm, "tc": w.TC, "aoa_margin": w.AoAMargin,
	} {
		if v < 0 || math.IsNaN(v) {
			return fmt.Errorf("%w: weight %s is %g", ErrInvalidWeights, name, v)
		}
	}
	if sum := w.Sum(); math.Abs(sum-1) > weightTolerance {
		return fmt.Errorf("%w: got %g", ErrInvalidWeights, sum)
	}
	return nil
}

func (s Solver) validate() error {
	switch {
	case s.Executable == "":
		return errors.New("executable must be set")
	case s.Family == "":
		return errors.New("family must be set")
	case s.Panels <= 0:
		return fmt.Errorf("panels must be positive, got %d", s.Panels)
	case s.Reynolds <= 0:
		return fmt.Errorf("reynolds must be positive, got %d", s.Reynolds)
	case s.Mach < 0:
		return fmt.Errorf("mach must not be negative, got %g", s.Mach)
	case s.Ncrit <= 0:
		return fmt.Errorf("ncrit must be positive, got %g", s.Ncrit)
	case s.Iterations <= 0:
		return fmt.Errorf("iterations must be positive, got %d", s.Iterations)
	case s.Alpha.Step <= 0:
		return fmt.Errorf("alpha step must be positive, got %g", s.Alpha.Step)
	case s.Alpha.End < s.Alpha.Start:
		return fmt.Errorf("alpha end %g is below start %g", s.Alpha.End, s.Alpha.Start)
	case s.Timeout < 0:
		return fmt.Errorf("timeout must not be negative, got %s", s.Timeout)
	}
	return nil
}
