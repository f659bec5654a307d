package grid

import "fmt"

// DefaultFamily is the geometry-family tag prefixed to every identifier.
const DefaultFamily = "NACA"

// Range is an inclusive integer interval.
type Range struct {
	Min int
	Max int
}

// Len returns the number of integers in the range, or 0 if it is inverted.
func (r Range) Len() int {
	if r.Max < r.Min {
		return 0
	}
	return r.Max - r.Min + 1
}

func (r Range) String() string {
	return fmt.Sprintf("[%d, %d]", r.Min, r.Max)
}

// Validate reports an inverted or negative range.
func (r Range) Validate(name string) error {
	if r.Min < 0 {
		return fmt.Errorf("%s: minimum %d must not be negative", name, r.Min)
	}
	if r.Max < r.Min {
		return fmt.Errorf("%s: maximum %d is below minimum %d", name, r.Max, r.Min)
	}
	return nil
}

// Point is a single immutable grid location.
type Point struct {
	Camber         int
	CamberLocation int
	Thickness      int
}

// Code returns the geometry code the solver understands, e.g. "2412".
func (p Point) Code() string {
	return fmt.Sprintf("%d%d%02d", p.Camber, p.CamberLocation, p.Thickness)
}

// ID returns the configuration identifier: family tag followed by Code.
func (p Point) ID(family string) string {
	return family + p.Code()
}

// String implements fmt.Stringer using the default family tag.
func (p Point) String() string {
	return p.ID(DefaultFamily)
}

// Grid describes the three ranges of a sweep.
type Grid struct {
	Camber         Range
	CamberLocation Range
	Thickness      Range
}

// Size returns the number of points the grid enumerates.
func (g Grid) Size() int {
	return g.Camber.Len() * g.CamberLocation.Len() * g.Thickness.Len()
}

// Validate checks all three ranges.
func (g Grid) Validate() error {
	if err := g.Camber.Validate("camber"); err != nil {
		return err
	}
	if err := g.CamberLocation.Validate("camber_location"); err != nil {
		return err
	}
	return g.Thickness.Validate("thickness")
}

// Points enumerates the grid: camber outer, camber location middle,
// thickness inner.
func (g Grid) Points() []Point {
	points := make([]Point, 0, g.Size())
	for m := g.Camber.Min; m <= g.Camber.Max; m++ {
		for p := g.CamberLocation.Min; p <= g.CamberLocation.Max; p++ {
			for t := g.Thickness.Min; t <= g.Thickness.Max; t++ {
				points = append(points, Point{Camber: m, CamberLocation: p, Thickness: t})
			}
		}
	}
	return points
}
