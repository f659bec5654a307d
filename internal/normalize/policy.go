// Package normalize maps raw indicators to comparable scores. Each indicator
// has a fixed policy chosen by what a good value looks like: higher (linear),
// lower (inverted) or close to a target (Gaussian around an ideal).
package normalize

import (
	"math"

	"github.com/specialistvlad/foilsweep/internal/metrics"
)

// Policy is a normalization policy.
type Policy int

const (
	// Linear scores higher-is-better values: min maps to 0, max to 1.
	Linear Policy = iota
	// Inverted scores lower-is-better values: min maps to 1, max to 0.
	Inverted
	// Gaussian scores closeness to an ideal value.
	Gaussian
)

func (p Policy) String() string {
	switch p {
	case Linear:
		return "linear"
	case Inverted:
		return "inverted"
	case Gaussian:
		return "gaussian"
	default:
		return "unknown"
	}
}

// NeedsRange reports whether the policy reads the population range.
func (p Policy) NeedsRange() bool {
	return p == Linear || p == Inverted
}

// Rule binds a column to its policy.
type Rule struct {
	Column string
	Policy Policy
}

// Rules lists every indicator column with its policy, in canonical order.
var Rules = []Rule{
	{Column: metrics.ColCl, Policy: Linear},
	{Column: metrics.ColCd, Policy: Inverted},
	{Column: metrics.ColLD, Policy: Linear},
	{Column: metrics.ColCm, Policy: Inverted},
	{Column: metrics.ColTC, Policy: Gaussian},
	{Column: metrics.ColAoAMargin, Policy: Linear},
}

// RangedColumns returns the columns whose policy needs a population range.
func RangedColumns() []string {
	var cols []string
	for _, r := range Rules {
		if r.Policy.NeedsRange() {
			cols = append(cols, r.Column)
		}
	}
	return cols
}

// LinearScore returns (v - min) / (max - min). Callers guarantee max > min.
func LinearScore(min, max, v float64) float64 {
	return (v - min) / (max - min)
}

// InvertedScore returns 1 - LinearScore(min, max, v).
func InvertedScore(min, max, v float64) float64 {
	return 1 - LinearScore(min, max, v)
}

// GaussianScore returns exp(-(v - ideal)^2 / (2 deviation^2)).
func GaussianScore(ideal, deviation, v float64) float64 {
	d := v - ideal
	return math.Exp(-(d * d) / (2 * deviation * deviation))
}
