package cross3d

import "container/list"

// Structural invariant checkers. Violations are programmer errors; they
// are logged and counted rather than halting release builds. Initialize
// runs the depth and volume checkers once the tree is built.

// checkDepths verifies every child is exactly one level deeper than its
// parent. Returns the number of violations found.
func (x *Cross3D) checkDepths() int {
	problems := 0
	for i := range x.cellData {
		cell := &x.cellData[i]
		for _, childIdx := range cell.Children {
			if childIdx < 0 {
				break
			}
			if x.cellData[childIdx].Depth != cell.Depth+1 {
				problems++
				x.log.Errorf("cell with depth %d has a child with depth %d", cell.Depth, x.cellData[childIdx].Depth)
			}
		}
	}
	return problems
}

// checkVolumeStats verifies volumes are positive, allowances and densities
// nonnegative, and that no cell's children carry more allowance than the
// cell itself (within a small float accumulation slack). Returns the
// number of violations found.
func (x *Cross3D) checkVolumeStats() int {
	const slack = 0.1
	problems := 0
	for i := range x.cellData {
		cell := &x.cellData[i]
		if cell.Volume <= 0 {
			problems++
			x.log.Errorf("cell with depth %d has incorrect volume %f", cell.Depth, cell.Volume)
		}
		if cell.FilledVolumeAllowance < 0 {
			problems++
			x.log.Errorf("cell with depth %d has incorrect filled volume allowance %f", cell.Depth, cell.FilledVolumeAllowance)
		}
		if cell.MinimallyRequiredDensity < 0 {
			problems++
			x.log.Errorf("cell with depth %d has incorrect minimally required density %f", cell.Depth, cell.MinimallyRequiredDensity)
		}
		var childAllowance float32
		for _, childIdx := range cell.Children {
			if childIdx < 0 {
				break
			}
			childAllowance += x.cellData[childIdx].FilledVolumeAllowance
		}
		if cell.FilledVolumeAllowance < childAllowance-slack {
			problems++
			x.log.Errorf("cell with depth %d has children with more allowance than itself", cell.Depth)
		}
	}
	return problems
}

// checkLinkSymmetry verifies the adjacency graph is a perfectly paired
// directed multigraph: every link's reverse lives in the target cell's
// opposite direction list and points back at the link. Returns the number
// of violations found.
func (x *Cross3D) checkLinkSymmetry() int {
	problems := 0
	for i := range x.cellData {
		cell := &x.cellData[i]
		for side := Direction(0); side < numSides; side++ {
			for e := cell.adjacent[side].Front(); e != nil; e = e.Next() {
				link := e.Value.(*Link)
				if link.Reverse == nil {
					problems++
					x.log.Errorf("cell %d side %v link to %d has no reverse", cell.Index, side, link.To)
					continue
				}
				rev := link.reverseLink()
				if rev.To != cell.Index {
					problems++
					x.log.Errorf("cell %d side %v link to %d: reverse points to %d", cell.Index, side, link.To, rev.To)
				}
				if rev.Reverse == nil || rev.Reverse.Value.(*Link) != link {
					problems++
					x.log.Errorf("cell %d side %v link to %d: reverse of reverse is not the link itself", cell.Index, side, link.To)
				}
				if !x.containsElement(link.To, side.opposite(), link.Reverse) {
					problems++
					x.log.Errorf("cell %d side %v link to %d: reverse not found in target's %v list", cell.Index, side, link.To, side.opposite())
				}
			}
		}
	}
	return problems
}

func (x *Cross3D) containsElement(cellIdx int, side Direction, elem *list.Element) bool {
	for e := x.cellData[cellIdx].adjacent[side].Front(); e != nil; e = e.Next() {
		if e == elem {
			return true
		}
	}
	return false
}
