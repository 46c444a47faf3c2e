package cross3d

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/soypat/cross3d/internal/d2"
)

// ZRange is the vertical extent of a prism in microns.
type ZRange struct {
	Min, Max float64
}

// Size returns the vertical extent.
func (z ZRange) Size() float64 { return z.Max - z.Min }

// Expanded returns the range grown by d on both ends.
func (z ZRange) Expanded(d float64) ZRange {
	return ZRange{Min: z.Min - d, Max: z.Max + d}
}

// Overlaps reports whether two ranges share at least one value.
func (z ZRange) Overlaps(other ZRange) bool {
	return z.Min <= other.Max && other.Min <= z.Max
}

// Includes reports whether v lies within the range.
func (z ZRange) Includes(v float64) bool {
	return z.Min <= v && v <= z.Max
}

// Prism is the vertical extrusion of a right triangle between two heights.
type Prism struct {
	Triangle Triangle
	Z        ZRange
	// IsExpanding tags the direction of the curve's Z traversal. The upward
	// curve flows outward while expanding.
	IsExpanding bool
}

// cubeTol is the linear tolerance in microns for classifying prism aspect
// ratios.
const cubeTol = 10

// IsHalfCube reports whether the vertical extent of the prism matches the
// length of its bc leg. Half cube prisms subdivide into two children in XY
// only.
func (p Prism) IsHalfCube() bool {
	bc := r2.Sub(p.Triangle.StraightCorner, p.Triangle.B)
	return math.Abs(r2.Norm(bc)-p.Z.Size()) < cubeTol
}

// IsQuarterCube reports whether the vertical extent of the prism matches
// its hypotenuse length. Quarter cube prisms subdivide into four children,
// two per Z half.
func (p Prism) IsQuarterCube() bool {
	ab := r2.Sub(p.Triangle.A, p.Triangle.B)
	return math.Abs(r2.Norm(ab)-p.Z.Size()) < cubeTol
}

// footprint returns the XY bounding box of the prism triangle.
func (p Prism) footprint() d2.Box {
	bb := d2.EmptyBox()
	bb = bb.Include(p.Triangle.StraightCorner)
	bb = bb.Include(p.Triangle.A)
	bb = bb.Include(p.Triangle.B)
	return bb
}
