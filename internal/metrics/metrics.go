// Package metrics reduces a validated polar to the six performance
// indicators that are recorded and scored for every configuration.
package metrics

import (
	"fmt"

	"github.com/specialistvlad/foilsweep/internal/polar"
)

// Column names in canonical order. They are also the run table header.
const (
	ColCl        = "Cl"
	ColCd        = "Cd"
	ColLD        = "L/Dmax"
	ColCm        = "Cm"
	ColTC        = "t/c"
	ColAoAMargin = "AoA_margin"
)

// Columns lists the indicator columns in canonical order.
var Columns = []string{ColCl, ColCd, ColLD, ColCm, ColTC, ColAoAMargin}

// Indicators are the performance indicators of one configuration.
type Indicators struct {
	MaxCl     float64
	MinCd     float64
	MaxLD     float64
	MinCm     float64
	Thickness float64
	// AoAMargin is StallAlpha - BestLDAlpha. It is negative when the best
	// L/D occurs past the stall angle, and is never clamped.
	AoAMargin float64

	StallAlpha  float64
	BestLDAlpha float64
}

// Values returns the indicators in Columns order.
func (in Indicators) Values() []float64 {
	return []float64{in.MaxCl, in.MinCd, in.MaxLD, in.MinCm, in.Thickness, in.AoAMargin}
}

// Reduce computes the indicators of p. Extremes are taken at their first
// occurrence in scan order, which fixes the angles used for the margin.
func Reduce(p *polar.Polar, thickness int) (Indicators, error) {
	if p == nil || len(p.Samples) == 0 {
		return Indicators{}, fmt.Errorf("reduce: %w", polar.ErrEmptyPolar)
	}

	s := p.Samples
	maxCl, minCd, maxLD, minCm := s[0], s[0], s[0], s[0]
	for _, x := range s[1:] {
		if x.Cl > maxCl.Cl {
			maxCl = x
		}
		if x.Cd < minCd.Cd {
			minCd = x
		}
		if x.LD > maxLD.LD {
			maxLD = x
		}
		if x.Cm < minCm.Cm {
			minCm = x
		}
	}

	return Indicators{
		MaxCl:       maxCl.Cl,
		MinCd:       minCd.Cd,
		MaxLD:       maxLD.LD,
		MinCm:       minCm.Cm,
		Thickness:   float64(thickness),
		AoAMargin:   maxCl.Alpha - maxLD.Alpha,
		StallAlpha:  maxCl.Alpha,
		BestLDAlpha: maxLD.Alpha,
	}, nil
}
