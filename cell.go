package cross3d

import (
	"container/list"
)

// Direction identifies on which side a neighboring cell lies. Left and
// right neighbors touch across the from/to edges of the triangle
// footprint; up and down neighbors are stacked in Z with overlapping
// footprints.
type Direction uint8

const (
	Left Direction = iota
	Right
	Up
	Down
	// numSides is the number of cardinal sides adjacency is tracked for.
	// The enum reserves room for more directions.
	numSides = 4
)

func (d Direction) opposite() Direction {
	switch d {
	case Left:
		return Right
	case Right:
		return Left
	case Up:
		return Down
	case Down:
		return Up
	}
	return numSides
}

func (d Direction) String() string {
	switch d {
	case Left:
		return "left"
	case Right:
		return "right"
	case Up:
		return "up"
	case Down:
		return "down"
	}
	return "unknown"
}

// Link is a directed edge of the adjacency graph. Every link is one half
// of an antiparallel pair: the cell holding this link in its side D list
// has a neighbor which holds the matching link to this cell in its
// opposite(D) list.
type Link struct {
	// To is the arena index of the neighboring cell.
	To int
	// Reverse is the list element holding the matching link inside the
	// neighbor's opposite direction list. List elements stay valid under
	// unrelated insertions and erasures, which the subdivision resplice
	// relies on.
	Reverse *list.Element
}

// reverseLink returns the Link payload of the paired element.
func (l *Link) reverseLink() *Link {
	return l.Reverse.Value.(*Link)
}

// Cell is a node of the subdivision tree. Cells live in a single append
// only arena and refer to each other exclusively by arena index.
type Cell struct {
	Prism Prism
	// Index is the cell's own position in the arena.
	Index int
	// Depth is 0 at the synthetic root and grows by one per subdivision.
	Depth int
	// IsSubdivided flips to true exactly once, when the refinement loop
	// subdivides this cell. The full tree exists in the arena from
	// construction; IsSubdivided marks which part of it is realized in the
	// adjacency graph.
	IsSubdivided bool
	// Children holds arena indices of the child cells. A value below zero
	// means no such child. Either Children[0..1] are valid (binary split of
	// a half cube) or all four are (quaternary split, lower Z pair first).
	Children [4]int
	// Volume is the geometric volume of the prism in mm³.
	Volume float32
	// FilledVolumeAllowance is the volume in mm³ which may be filled with
	// extruded material: Volume times requested density for leaves, the sum
	// over children for internal cells.
	FilledVolumeAllowance float32
	// MinimallyRequiredDensity is the density needed in this cell: the
	// requested density for leaves, the maximum over children for internal
	// cells.
	MinimallyRequiredDensity float32
	// adjacent holds the per side neighbor lists. Element values are *Link.
	adjacent [numSides]*list.List
}

func newCell(p Prism, index, depth int) Cell {
	c := Cell{
		Prism: p,
		Index: index,
		Depth: depth,
	}
	for i := range c.Children {
		c.Children[i] = -1
	}
	for i := range c.adjacent {
		c.adjacent[i] = list.New()
	}
	return c
}

// ChildCount returns how many children the cell subdivides into.
func (c *Cell) ChildCount() int {
	if c.Children[2] < 0 {
		return 2
	}
	return 4
}

// Adjacent returns the neighbor links on the given side in list order.
func (c *Cell) Adjacent(side Direction) []*Link {
	links := make([]*Link, 0, c.adjacent[side].Len())
	for e := c.adjacent[side].Front(); e != nil; e = e.Next() {
		links = append(links, e.Value.(*Link))
	}
	return links
}

// pushFrontLink inserts a new link at the head of the side list and returns
// its element.
func (c *Cell) pushFrontLink(side Direction, to int) *list.Element {
	return c.adjacent[side].PushFront(&Link{To: to})
}
