package d2

import (
	"gonum.org/v1/gonum/spatial/r2"
)

// Polygon is a closed 2d polygon described by its vertices in order.
type Polygon []r2.Vec

// Area returns the signed shoelace area. Counter clockwise polygons have
// positive area.
func (p Polygon) Area() float64 {
	if len(p) < 3 {
		return 0
	}
	sum := 0.0
	for i := range p {
		j := (i + 1) % len(p)
		sum += Cross(p[i], p[j])
	}
	return 0.5 * sum
}

// Bounds returns the polygon's bounding box.
func (p Polygon) Bounds() Box {
	bb := EmptyBox()
	for _, v := range p {
		bb = bb.Include(v)
	}
	return bb
}

// IntersectConvex clips polygon p against convex polygon clip using
// Sutherland-Hodgman. Both polygons must wind counter clockwise.
// The result is the vertex set of the intersection, possibly empty.
func (p Polygon) IntersectConvex(clip Polygon) Polygon {
	out := p
	for i := range clip {
		if len(out) == 0 {
			return nil
		}
		a := clip[i]
		b := clip[(i+1)%len(clip)]
		out = clipEdge(out, a, b)
	}
	return out
}

// clipEdge keeps the part of subject on the left of the directed edge a→b.
func clipEdge(subject Polygon, a, b r2.Vec) Polygon {
	var out Polygon
	edge := r2.Sub(b, a)
	inside := func(v r2.Vec) bool {
		return Cross(edge, r2.Sub(v, a)) >= 0
	}
	for i := range subject {
		cur := subject[i]
		prev := subject[(i+len(subject)-1)%len(subject)]
		curIn := inside(cur)
		prevIn := inside(prev)
		if curIn != prevIn {
			out = append(out, lineIntersection(prev, cur, a, b))
		}
		if curIn {
			out = append(out, cur)
		}
	}
	return out
}

// lineIntersection returns the intersection of the infinite lines p1p2 and p3p4.
// Callers guarantee the lines are not parallel.
func lineIntersection(p1, p2, p3, p4 r2.Vec) r2.Vec {
	d1 := r2.Sub(p2, p1)
	d2 := r2.Sub(p4, p3)
	denom := Cross(d1, d2)
	t := Cross(r2.Sub(p3, p1), d2) / denom
	return r2.Add(p1, r2.Scale(t, d1))
}
