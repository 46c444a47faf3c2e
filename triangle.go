package cross3d

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/soypat/cross3d/internal/d2"
)

// CurveDirection records which pair of triangle edges the space filling
// curve enters and exits. The edges of a triangle are named ab (the
// hypotenuse), ac (straight corner to a) and bc (straight corner to b).
type CurveDirection uint8

const (
	// ABToBC enters over the hypotenuse and exits over bc.
	ABToBC CurveDirection = iota
	// ACToAB enters over ac and exits over the hypotenuse.
	ACToAB
	// ACToBC enters over ac and exits over bc.
	ACToBC
)

func (d CurveDirection) String() string {
	switch d {
	case ABToBC:
		return "AB_TO_BC"
	case ACToAB:
		return "AC_TO_AB"
	case ACToBC:
		return "AC_TO_BC"
	}
	return "unknown"
}

// Triangle is a right triangle in the XY plane. The right angle is at
// StraightCorner and the hypotenuse is the segment between A and B.
//
// Triangles are subdivided into two children like so:
//
//	|\       |\        .
//	|A \     |A \      .
//	|    \   |    \    . C is always the 90 degree straight corner.
//	|     C\ |C____B\  . The direction between A and B is maintained.
//	|      / |C    A/
//	|    /   |    /    The polygon winding flips between clockwise and
//	|B /     |B /      counter clockwise on each subdivision, as does
//	|/       |/        StraightCornerIsLeft.
type Triangle struct {
	// StraightCorner is the vertex at the right angle.
	StraightCorner r2.Vec
	// A and B are the hypotenuse endpoints.
	A, B r2.Vec
	// Dir is how the space filling curve passes through this triangle.
	Dir CurveDirection
	// StraightCornerIsLeft records the winding of the triangle. When false
	// the from and to edges are traversed in reverse so the curve winding
	// stays consistent.
	StraightCornerIsLeft bool
}

// FromEdge returns the edge over which the space filling curve enters the
// triangle.
func (t Triangle) FromEdge() d2.Segment {
	var ret d2.Segment
	switch t.Dir {
	case ABToBC:
		ret = d2.Segment{From: t.A, To: t.B}
	case ACToAB, ACToBC:
		ret = d2.Segment{From: t.StraightCorner, To: t.A}
	}
	if !t.StraightCornerIsLeft {
		ret = ret.Reverse()
	}
	return ret
}

// ToEdge returns the edge over which the space filling curve exits the
// triangle.
func (t Triangle) ToEdge() d2.Segment {
	var ret d2.Segment
	switch t.Dir {
	case ABToBC, ACToBC:
		ret = d2.Segment{From: t.StraightCorner, To: t.B}
	case ACToAB:
		ret = d2.Segment{From: t.B, To: t.A}
	}
	if !t.StraightCornerIsLeft {
		ret = ret.Reverse()
	}
	return ret
}

// Middle returns the centroid of the triangle.
func (t Triangle) Middle() r2.Vec {
	return r2.Scale(1.0/3.0, r2.Add(t.StraightCorner, r2.Add(t.A, t.B)))
}

// ToPolygon returns the triangle as a positive area polygon.
func (t Triangle) ToPolygon() d2.Polygon {
	second, third := t.A, t.B
	if !t.StraightCornerIsLeft {
		second, third = third, second
	}
	ret := d2.Polygon{t.StraightCorner, second, third}
	if ret.Area() <= 0 {
		panic("cross3d: triangle polygon with nonpositive area")
	}
	return ret
}

// Subdivide splits the triangle across the midpoint of the hypotenuse into
// two mirrored right triangles.
//
// The direction of the space filling curve along each child is derived from
// the parent direction:
//
//	|\                           |\                                        .
//	|B \  AC_TO_BC               |B \   AC_TO_AB                           .
//	|  ↑ \                       |  ↑ \                                    .
//	|  ↑  C\  subdivides into    |C_↑__A\                                  .
//	|  ↑   /                     |C ↑  B/                                  .
//	|  ↑ /                       |  ↑ /                                    .
//	|A /                         |A /   AB_TO_BC                           .
//	|/                           |/                                        .
//	                                                                       .
//	|\                           |\                                        .
//	|B \  AC_TO_AB               |B \   AC_TO_BC                           .
//	|    \                       |↖   \                                    .
//	|↖    C\  subdivides into    |C_↖__A\                                  .
//	|  ↖   /                     |C ↑  B/                                  .
//	|    /                       |  ↑ /                                    .
//	|A /                         |A /   AB_TO_BC                           .
//	|/                           |/                                        .
//	                                                                       .
//	|\                           |\                                        .
//	|B \  AB_TO_BC               |B \   AC_TO_AB                           .
//	|  ↗ \                       |  ↑ \                                    .
//	|↗    C\  subdivides into    |C_↑__A\                                  .
//	|      /                     |C ↗  B/                                  .
//	|    /                       |↗   /                                    .
//	|A /                         |A /   AC_TO_BC                           .
//	|/                           |/                                        .
//
// The curve enters the parent through child 0's from edge and leaves
// through child 1's to edge; child 0's to edge touches child 1's from edge
// at the midpoint of the parent hypotenuse.
func (t Triangle) Subdivide() [2]Triangle {
	var ret [2]Triangle
	middle := r2.Scale(0.5, r2.Add(t.A, t.B))
	ret[0].StraightCorner = middle
	ret[0].A = t.A
	ret[0].B = t.StraightCorner
	ret[0].StraightCornerIsLeft = !t.StraightCornerIsLeft
	ret[1].StraightCorner = middle
	ret[1].A = t.StraightCorner
	ret[1].B = t.B
	ret[1].StraightCornerIsLeft = !t.StraightCornerIsLeft
	switch t.Dir {
	case ABToBC:
		ret[0].Dir = ACToBC
		ret[1].Dir = ACToAB
	case ACToAB:
		ret[0].Dir = ABToBC
		ret[1].Dir = ACToBC
	case ACToBC:
		ret[0].Dir = ABToBC
		ret[1].Dir = ACToAB
	}
	return ret
}
