package cross3d

import (
	"container/list"

	"gonum.org/v1/gonum/spatial/r2"
)

// SliceWalker is the mutable horizontal chain of realized leaves at the
// current output height, ordered left to right by right adjacency. It is
// produced by GetBottomSequence and advanced upward by AdvanceSequence.
type SliceWalker struct {
	// sequence holds arena indices of the chained cells.
	sequence *list.List
}

// Sequence returns the arena indices of the chain in order.
func (w *SliceWalker) Sequence() []int {
	out := make([]int, 0, w.sequence.Len())
	for e := w.sequence.Front(); e != nil; e = e.Next() {
		out = append(out, e.Value.(int))
	}
	return out
}

// Len returns the number of cells in the chain.
func (w *SliceWalker) Len() int { return w.sequence.Len() }

// GetBottomSequence returns the walker positioned on the bottommost
// horizontal chain of realized leaves: descend to the bottom left leaf,
// then follow right adjacency until it runs out.
func (x *Cross3D) GetBottomSequence() *SliceWalker {
	walker := &SliceWalker{sequence: list.New()}
	last := &x.cellData[0]
	for last.IsSubdivided {
		last = &x.cellData[last.Children[0]]
	}
	walker.sequence.PushBack(last.Index)
	for last.adjacent[Right].Len() > 0 {
		last = &x.cellData[last.adjacent[Right].Front().Value.(*Link).To]
		walker.sequence.PushBack(last.Index)
	}
	return walker
}

// AdvanceSequence lifts the walker's chain until no chained cell ends
// below newZ, replacing each expired cell by its upstairs neighbors.
// If a full pass cannot lift the chain far enough the input z granularity
// is finer than the tree allows; a warning is logged and another pass runs
// with the best effort chain.
func (x *Cross3D) AdvanceSequence(walker *SliceWalker, newZ float64) {
	sequence := walker.sequence
	newZBeyondCurrent := true
	for newZBeyondCurrent {
		for e := sequence.Front(); e != nil; {
			cell := &x.cellData[e.Value.(int)]
			if cell.Prism.Z.Max >= newZ {
				e = e.Next()
				continue
			}
			// replace this cell with its upstairs neighbors
			cellBefore := -1
			if prev := e.Prev(); prev != nil {
				cellBefore = prev.Value.(int)
			}
			cellAfter := -1
			if next := e.Next(); next != nil {
				cellAfter = next.Value.(int)
			}
			if cell.adjacent[Up].Len() == 0 {
				panic("cross3d: expired cell in walker without upstairs neighbors")
			}
			insertedSomething := false
			for ue := cell.adjacent[Up].Front(); ue != nil; ue = ue.Next() {
				// Two consecutive cells may share the same upstairs
				// neighbor; skip cells inserted by the advancement of the
				// previous chain entry.
				above := ue.Value.(*Link).To
				if above != cellBefore && above != cellAfter {
					sequence.InsertBefore(above, e)
					insertedSomething = true
				} else {
					x.log.Debugf("upstairs neighbor %d already in walker chain", above)
				}
			}
			if !insertedSomething {
				panic("cross3d: no upstairs neighbor inserted into walker chain")
			}
			next := e.Next()
			sequence.Remove(e)
			e = next
		}

		newZBeyondCurrent = false
		for e := sequence.Front(); e != nil; e = e.Next() {
			cell := &x.cellData[e.Value.(int)]
			if cell.Prism.Z.Max < newZ {
				// we haven't moved up in the sequence by enough distance
				newZBeyondCurrent = true
				x.log.Warnf("layers are higher than prisms in the cross pattern; requested z granularity is too fine for max depth %d", x.maxDepth)
				break
			}
		}
	}
}

// GenerateSierpinski returns the infill polyline for the walker's current
// chain: the centroid of each chained cell's footprint, in chain order.
func (x *Cross3D) GenerateSierpinski(walker *SliceWalker) []r2.Vec {
	poly := make([]r2.Vec, 0, walker.sequence.Len())
	for e := walker.sequence.Front(); e != nil; e = e.Next() {
		cell := &x.cellData[e.Value.(int)]
		poly = append(poly, cell.Prism.Triangle.Middle())
	}
	return poly
}
