package cross3d

import (
	"container/list"
	"math"
	"time"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/soypat/cross3d/internal/d2"
)

const (
	// linearTol is the tolerance in microns for geometric adjacency
	// decisions: z ranges touching, collinearity and edge projection
	// overlap.
	linearTol = 10
	// areaTol is the tolerance in square microns on the footprint
	// intersection area for vertical adjacency. It is deliberately tight;
	// vertical neighbors must contain one another's footprint.
	areaTol = 100
)

// isNextTo is the sole source of truth for the adjacency graph: it decides
// from geometry alone whether b is a neighbor of a on the given side.
func (x *Cross3D) isNextTo(a, b *Cell, side Direction) bool {
	var aEdge, bEdge d2.Segment
	switch side {
	case Up, Down:
		// z ranges must touch (or overlap)
		if !a.Prism.Z.Overlaps(b.Prism.Z.Expanded(linearTol)) {
			return false
		}
		// and one footprint must contain the other
		aPoly := a.Prism.Triangle.ToPolygon()
		bPoly := b.Prism.Triangle.ToPolygon()
		aArea := aPoly.Area()
		bArea := bPoly.Area()
		intersectionArea := aPoly.IntersectConvex(bPoly).Area()
		return math.Abs(intersectionArea-math.Min(aArea, bArea)) < areaTol
	case Left:
		aEdge = a.Prism.Triangle.FromEdge()
		bEdge = b.Prism.Triangle.ToEdge()
	case Right:
		aEdge = a.Prism.Triangle.ToEdge()
		bEdge = b.Prism.Triangle.FromEdge()
	default:
		x.log.Errorf("unknown direction %v in adjacency test", side)
		return false
	}
	if !d2.Collinear(aEdge, bEdge, linearTol) {
		return false
	}
	aVec := aEdge.Vector()
	aSize := r2.Norm(aVec)
	if aSize <= 0 {
		panic("cross3d: zero length from edge in adjacency test")
	}
	aProjected := d2.Range{Min: 0, Max: aSize}
	bProjected := d2.EmptyRange()
	bProjected = bProjected.Include(r2.Dot(r2.Sub(bEdge.From, aEdge.From), aVec) / aSize)
	bProjected = bProjected.Include(r2.Dot(r2.Sub(bEdge.To, aEdge.From), aVec) / aSize)
	return aProjected.Intersection(bProjected).Size() > linearTol
}

// initialConnection links two freshly minted sibling cells: before gains a
// link to after on side dir, after gains the antiparallel link back, and
// both reverse handles are cross set.
func (x *Cross3D) initialConnection(before, after *Cell, dir Direction) {
	beforeToAfter := before.pushFrontLink(dir, after.Index)
	afterToBefore := after.pushFrontLink(dir.opposite(), before.Index)
	beforeToAfter.Value.(*Link).Reverse = afterToBefore
	afterToBefore.Value.(*Link).Reverse = beforeToAfter
}

// Subdivide realizes the children of cell in the adjacency graph and
// resplices every link of the cell onto the children that actually touch
// the respective neighbor. The cell must not be a tree leaf.
//
// Two cases exist per neighbor link:
//
//	1                                                  ______          __  __
//	neighbor is refined more                        [][      ]      [][  ][  ]
//	     __                          deeper example [][      ]  =>  [][__][__]
//	[][][  ]  => [][][][]                           [][      ]      [][  ][  ]
//	[][][__]     [][][][]  same number of links     [][______]      [][__][__]
//	      ^cell
//	2
//	neighbor is refined less or equal                ______  __       ______
//	 __  __        __                               [      ][  ]     [      ][][]
//	[  ][  ]  =>  [  ][][]                          [      ][__]  => [      ][][]
//	[__][__]      [__][][]           deeper example [      ][  ]     [      ][][]
//	      ^cell                                     [______][__]     [______][][]
//
// Both cases are caught by replacing each link with as many links as there
// are children next to that neighbor, which is either 1 or 2.
func (x *Cross3D) Subdivide(cell *Cell) {
	if cell.Children[0] < 0 || cell.Children[1] < 0 {
		panic("cross3d: subdivide on a tree leaf")
	}
	childLB := &x.cellData[cell.Children[0]]
	childRB := &x.cellData[cell.Children[1]]
	x.initialConnection(childLB, childRB, Right)
	if cell.ChildCount() == 4 {
		childLT := &x.cellData[cell.Children[2]]
		childRT := &x.cellData[cell.Children[3]]
		x.initialConnection(childLT, childRT, Right)
		x.initialConnection(childLB, childLT, Up)
		x.initialConnection(childRB, childRT, Up)
	}

	for side := Direction(0); side < numSides; side++ {
		for e := cell.adjacent[side].Front(); e != nil; e = e.Next() {
			link := e.Value.(*Link)
			neighbor := &x.cellData[link.To]
			neighborEdge := neighbor.adjacent[side.opposite()]
			for _, childIdx := range cell.Children {
				if childIdx < 0 {
					break
				}
				child := &x.cellData[childIdx]
				if !x.isNextTo(child, neighbor, side) {
					continue
				}
				out := child.pushFrontLink(side, link.To)
				in := neighborEdge.InsertBefore(&Link{To: childIdx}, link.Reverse)
				out.Value.(*Link).Reverse = in
				in.Value.(*Link).Reverse = out
			}
			neighborEdge.Remove(link.Reverse)
		}
		cell.adjacent[side].Init()
	}

	cell.IsSubdivided = true
}

// isConstrainedBy reports whether constrainer blocks subdivision of
// constrainee under the balance invariant.
func isConstrainedBy(constrainee, constrainer *Cell) bool {
	return constrainer.Depth < constrainee.Depth
}

// isConstrained reports whether any neighbor on any side is less refined
// than the cell, in which case subdividing the cell would break the one
// level difference constraint.
func (x *Cross3D) isConstrained(cell *Cell) bool {
	for side := range cell.adjacent {
		for e := cell.adjacent[side].Front(); e != nil; e = e.Next() {
			link := e.Value.(*Link)
			if isConstrainedBy(cell, &x.cellData[link.To]) {
				return true
			}
		}
	}
	return false
}

// canSubdivide reports whether the cell may be subdivided right now:
// neither at the depth cap nor constrained by a shallower neighbor.
func (x *Cross3D) canSubdivide(cell *Cell) bool {
	return cell.Depth < x.maxDepth && !x.isConstrained(cell)
}

// shouldBeSubdivided reports whether a single pass of the curve through
// the cell deposits less material than the cell requires.
func (x *Cross3D) shouldBeSubdivided(cell *Cell) bool {
	return x.actualizedVolume(cell)/cell.Volume < cell.MinimallyRequiredDensity
}

// CreateMinimalDensityPattern refines the realized tree just enough for
// every leaf to meet its local density target, while keeping adjacent
// leaves within one subdivision level of each other.
//
// The work list is a deque. Fresh work (children still below target) goes
// to the back. When the front cell is constrained it stays put and its
// constrainers are pushed to the front, so they are refined first; the
// cell is then revisited once its index bubbles back to the front.
// Duplicate indices are tolerated, revisits are idempotent.
func (x *Cross3D) CreateMinimalDensityPattern() {
	start := time.Now()
	toBeSubdivided := list.New()
	toBeSubdivided.PushBack(0) // always subdivide the root, which is a bogus node

	for toBeSubdivided.Len() > 0 {
		front := toBeSubdivided.Front()
		idx := front.Value.(int)
		cell := &x.cellData[idx]

		if cell.IsSubdivided || cell.Children[0] < 0 || cell.Depth >= x.maxDepth {
			// already handled via a duplicate index, or a tree leaf which
			// cannot subdivide further
			toBeSubdivided.Remove(front)
			continue
		}

		if !x.isConstrained(cell) {
			toBeSubdivided.Remove(front)
			x.Subdivide(cell)
			for _, childIdx := range cell.Children {
				if childIdx >= 0 && x.shouldBeSubdivided(&x.cellData[childIdx]) {
					toBeSubdivided.PushBack(childIdx)
				}
			}
		} else {
			// Leave the cell at the front; refine the constraining
			// neighbors first.
			for side := range cell.adjacent {
				for e := cell.adjacent[side].Front(); e != nil; e = e.Next() {
					link := e.Value.(*Link)
					if isConstrainedBy(cell, &x.cellData[link.To]) {
						toBeSubdivided.PushFront(link.To)
					}
				}
			}
		}
	}
	x.log.Debugf("Cross3D.CreateMinimalDensityPattern finished in %v", time.Since(start))
}
