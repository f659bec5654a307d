package polar

import (
	"math"
	"strconv"
	"strings"
)

// RecordFields is the token count of a data line: alpha, CL, CD, CDp, CM and
// two transition columns this pipeline ignores.
const RecordFields = 7

// MaxLineBytes bounds a line ParseLine will look at. Real records are well
// under a hundred bytes.
const MaxLineBytes = 4 << 10

// Sample is one point of a polar.
type Sample struct {
	Alpha float64
	Cl    float64
	Cd    float64
	Cdp   float64
	Cm    float64
	// LD is Cl/Cd.
	LD float64
}

// SkipReason says why a line produced no sample.
type SkipReason int

const (
	// SkipNone marks a line that parsed as a complete record.
	SkipNone SkipReason = iota
	// SkipFieldCount marks a line without exactly RecordFields tokens.
	SkipFieldCount
	// SkipNotNumeric marks a line with a token that is not a finite number.
	SkipNotNumeric
	// SkipZeroDrag marks a record whose drag coefficient is zero.
	SkipZeroDrag
	// SkipNoSuccessor marks a valid record whose next line is not a valid
	// record, so no lift comparison is possible.
	SkipNoSuccessor
	// SkipNonFiniteRatio marks a record whose drag is so small that Cl/Cd
	// is not a finite number.
	SkipNonFiniteRatio
	// SkipTooLong marks a line longer than MaxLineBytes.
	SkipTooLong
)

func (r SkipReason) String() string {
	switch r {
	case SkipNone:
		return "none"
	case SkipFieldCount:
		return "field_count"
	case SkipNotNumeric:
		return "not_numeric"
	case SkipZeroDrag:
		return "zero_drag"
	case SkipNoSuccessor:
		return "no_successor"
	case SkipNonFiniteRatio:
		return "non_finite_ratio"
	case SkipTooLong:
		return "too_long"
	default:
		return "unknown"
	}
}

// ParseLine parses a single artifact line.
func ParseLine(line string) (Sample, SkipReason) {
	if len(line) > MaxLineBytes {
		return Sample{}, SkipTooLong
	}
	fields := strings.Fields(line)
	if len(fields) != RecordFields {
		return Sample{}, SkipFieldCount
	}

	var v [5]float64
	for i := range v {
		f, err := strconv.ParseFloat(fields[i], 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return Sample{}, SkipNotNumeric
		}
		v[i] = f
	}
	// The transition columns must still be numeric for the line to be a record.
	for _, tok := range fields[5:] {
		if _, err := strconv.ParseFloat(tok, 64); err != nil {
			return Sample{}, SkipNotNumeric
		}
	}
	if v[2] == 0 {
		return Sample{}, SkipZeroDrag
	}
	ld := v[1] / v[2]
	if math.IsNaN(ld) || math.IsInf(ld, 0) {
		return Sample{}, SkipNonFiniteRatio
	}

	return Sample{
		Alpha: v[0],
		Cl:    v[1],
		Cd:    v[2],
		Cdp:   v[3],
		Cm:    v[4],
		LD:    ld,
	}, SkipNone
}
