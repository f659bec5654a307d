package solver

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/specialistvlad/foilsweep/internal/config"
	"github.com/specialistvlad/foilsweep/internal/grid"
)

// ArtifactExt is the extension of every polar artifact.
const ArtifactExt = ".txt"

// Invocation is everything needed to run the solver for one grid point.
type Invocation struct {
	Point grid.Point
	// ID is the configuration identifier, e.g. "NACA2412".
	ID string
	// Token is the per-run token embedded in the artifact name, or empty.
	Token    string
	Artifact string
	Script   string
}

// NewToken returns a fresh run token.
func NewToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// ArtifactName returns the polar file name for a configuration and token.
func ArtifactName(id, token string) string {
	if token == "" {
		return id + ArtifactExt
	}
	return id + "_" + token + ArtifactExt
}

// NewInvocation builds the invocation for p. It is deterministic: the same
// point, controls and token always yield a byte-identical script.
func NewInvocation(p grid.Point, controls config.Solver, token string) Invocation {
	id := p.ID(controls.Family)
	artifact := ArtifactName(id, token)
	return Invocation{
		Point:    p,
		ID:       id,
		Token:    token,
		Artifact: artifact,
		Script:   BuildScript(p, controls, artifact),
	}
}

// BuildScript renders the solver command sequence. The solver is strict
// about ordering and blank lines: an empty line leaves a sub-menu, so the
// blank lines below are part of the protocol.
func BuildScript(p grid.Point, controls config.Solver, artifact string) string {
	var b strings.Builder
	line := func(parts ...string) {
		b.WriteString(strings.Join(parts, " "))
		b.WriteByte('\n')
	}

	line()
	line("NACA", p.Code())
	line("PPAR")
	line("N", strconv.Itoa(controls.Panels))
	line()
	line()
	line("OPER")
	line("VPAR")
	line("N", formatFloat(controls.Ncrit))
	line()
	line("ITER", strconv.Itoa(controls.Iterations))
	line("VISC")
	line(strconv.Itoa(controls.Reynolds))
	line("MACH", formatFloat(controls.Mach))
	line("PACC")
	line(artifact)
	line()
	line("ASEQ", formatFloat(controls.Alpha.Start), formatFloat(controls.Alpha.End), formatFloat(controls.Alpha.Step))
	line("PACC")
	line()
	line("QUIT")
	return b.String()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
