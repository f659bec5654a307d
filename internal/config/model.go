package config

import (
	"time"

	"github.com/specialistvlad/foilsweep/internal/grid"
)

// Sweep is the complete, validated description of one sweep invocation.
type Sweep struct {
	Grid    grid.Grid
	Solver  Solver
	Weights Weights
	Ideal   Ideal
	Output  Output
}

// Solver holds the simulation controls and the process invocation target.
type Solver struct {
	Executable string
	Args       []string
	WorkDir    string
	// Timeout bounds a single solver run. Zero disables the limit.
	Timeout time.Duration

	Family     string
	Panels     int
	Reynolds   int
	Mach       float64
	Ncrit      float64
	Iterations int
	Alpha      AlphaSweep

	// UniqueArtifacts embeds a per-run token in every artifact name.
	UniqueArtifacts bool
	// KeepArtifacts leaves successfully extracted polar files in WorkDir.
	// Artifacts that yield no polar are always kept for inspection.
	KeepArtifacts bool
}

// AlphaSweep is the angle-of-attack sequence requested from the solver, in degrees.
type AlphaSweep struct {
	Start float64
	End   float64
	Step  float64
}

// Weights are the objective weights handed to the external scorer.
type Weights struct {
	Cl        float64
	Cd        float64
	LD        float64
	Cm        float64
	TC        float64
	AoAMargin float64
}

// Sum returns the total of all six weights.
func (w Weights) Sum() float64 {
	return w.Cl + w.Cd + w.LD + w.Cm + w.TC + w.AoAMargin
}

// Ideal holds the target-value parameters of the Gaussian thickness policy.
type Ideal struct {
	Thickness float64
	Deviation float64
}

// Output names the artifacts a sweep writes.
type Output struct {
	RunTable        string
	NormalizedTable string
	ConfigLog       string
}

// Defaults returns the sweep the tool runs when no file overrides anything.
func Defaults() Sweep {
	return Sweep{
		Grid: grid.Grid{
			Camber:         grid.Range{Min: 1, Max: 3},
			CamberLocation: grid.Range{Min: 3, Max: 5},
			Thickness:      grid.Range{Min: 12, Max: 15},
		},
		Solver: Solver{
			Executable:      "xfoil",
			WorkDir:         ".",
			Timeout:         5 * time.Minute,
			Family:          grid.DefaultFamily,
			Panels:          300,
			Reynolds:        5153748,
			Mach:            0.3,
			Ncrit:           3,
			Iterations:      200,
			Alpha:           AlphaSweep{Start: 0, End: 20, Step: 0.5},
			UniqueArtifacts: true,
		},
		Weights: Weights{
			Cl:        0.16,
			Cd:        0.17,
			LD:        0.17,
			Cm:        0.16,
			TC:        0.17,
			AoAMargin: 0.17,
		},
		Ideal: Ideal{Thickness: 13, Deviation: 5},
		Output: Output{
			RunTable:        "airfoil_data_optimized.csv",
			NormalizedTable: "Normalized_Data.csv",
			ConfigLog:       "Sim_Configuration.txt",
		},
	}
}
