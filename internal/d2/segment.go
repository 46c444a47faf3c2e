package d2

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Segment is a directed 2d line segment.
type Segment struct {
	From, To r2.Vec
}

// Vector returns the direction vector From→To.
func (s Segment) Vector() r2.Vec {
	return r2.Sub(s.To, s.From)
}

// Middle returns the segment midpoint.
func (s Segment) Middle() r2.Vec {
	return r2.Scale(0.5, r2.Add(s.From, s.To))
}

// Reverse returns the segment traversed in the opposite direction.
func (s Segment) Reverse() Segment {
	return Segment{From: s.To, To: s.From}
}

// Length returns the segment length.
func (s Segment) Length() float64 {
	return r2.Norm(s.Vector())
}

// Collinear reports whether b lies on the infinite line through a.
// tol is the maximum perpendicular distance of b's endpoints from that line.
func Collinear(a, b Segment, tol float64) bool {
	av := a.Vector()
	n := r2.Norm(av)
	if n == 0 {
		panic("d2: zero length segment in collinearity test")
	}
	d1 := Cross(av, r2.Sub(b.From, a.From)) / n
	d2 := Cross(av, r2.Sub(b.To, a.From)) / n
	return math.Abs(d1) <= tol && math.Abs(d2) <= tol
}

// Range is a 1d interval.
type Range struct {
	Min, Max float64
}

// EmptyRange returns an interval that contains no values.
func EmptyRange() Range {
	return Range{Min: math.Inf(1), Max: math.Inf(-1)}
}

// Include extends the interval to contain v.
func (r Range) Include(v float64) Range {
	return Range{Min: math.Min(r.Min, v), Max: math.Max(r.Max, v)}
}

// Intersection returns the overlap of two intervals. The result may be
// inverted (Size < 0) when the intervals are disjoint.
func (r Range) Intersection(other Range) Range {
	return Range{Min: math.Max(r.Min, other.Min), Max: math.Min(r.Max, other.Max)}
}

// Size returns the extent of the interval.
func (r Range) Size() float64 {
	return r.Max - r.Min
}

// Expanded returns the interval grown by d on both ends.
func (r Range) Expanded(d float64) Range {
	return Range{Min: r.Min - d, Max: r.Max + d}
}

// Overlaps reports whether two intervals share at least one value.
func (r Range) Overlaps(other Range) bool {
	return r.Min <= other.Max && other.Min <= r.Max
}
