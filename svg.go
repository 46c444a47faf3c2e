package cross3d

import (
	"io"

	svg "github.com/ajstarks/svgo"
	"gonum.org/v1/gonum/spatial/r2"
)

// SVG debug dumps of the tree, the walker chain and the adjacency links.
// Coordinates are mapped from the pattern's micron XY footprint onto a
// pixel canvas with Y pointing up.

const (
	svgTriangleStyle = "stroke:gray;stroke-width:1;fill:none"
	svgCurveStyle    = "stroke:red;stroke-width:1;fill:none"
	svgLinkStyle     = "stroke:blue;stroke-width:1;fill:none"
	svgLinkDotStyle  = "fill:blue"
)

type svgCanvas struct {
	canvas *svg.SVG
	min    r2.Vec
	scale  float64
	height int
}

// newSVGCanvas opens an SVG document scaled so the pattern footprint is
// widthPx pixels wide. Callers must Close it.
func (x *Cross3D) newSVGCanvas(w io.Writer, widthPx int) *svgCanvas {
	min := r2.Vec{X: x.aabb.Min.X, Y: x.aabb.Min.Y}
	size := r2.Vec{X: x.aabb.Max.X - x.aabb.Min.X, Y: x.aabb.Max.Y - x.aabb.Min.Y}
	scale := float64(widthPx) / size.X
	height := int(size.Y * scale)
	c := &svgCanvas{
		canvas: svg.New(w),
		min:    min,
		scale:  scale,
		height: height,
	}
	c.canvas.Start(widthPx, height)
	return c
}

func (c *svgCanvas) Close() { c.canvas.End() }

// project maps a micron point to pixel coordinates.
func (c *svgCanvas) project(p r2.Vec) (px, py int) {
	px = int((p.X - c.min.X) * c.scale)
	py = c.height - int((p.Y-c.min.Y)*c.scale)
	return px, py
}

func (c *svgCanvas) line(from, to r2.Vec, style string) {
	x1, y1 := c.project(from)
	x2, y2 := c.project(to)
	c.canvas.Line(x1, y1, x2, y2, style)
}

func (c *svgCanvas) dot(p r2.Vec, style string) {
	px, py := c.project(p)
	c.canvas.Circle(px, py, 2, style)
}

// writeTriangle draws the triangle outline and the curve chord between the
// middles of the from and to edges.
func (c *svgCanvas) writeTriangle(t Triangle) {
	poly := t.ToPolygon()
	xs := make([]int, len(poly))
	ys := make([]int, len(poly))
	for i, v := range poly {
		xs[i], ys[i] = c.project(v)
	}
	c.canvas.Polygon(xs, ys, svgTriangleStyle)
	c.line(t.FromEdge().Middle(), t.ToEdge().Middle(), svgCurveStyle)
}

// writeLink draws a directed link as an arrow body offset to the side of
// the cell-to-cell chord, shortened at both ends, with a dot at the tail.
func (x *Cross3D) writeLink(c *svgCanvas, link *Link) {
	a := x.cellData[link.reverseLink().To].Prism.Triangle.Middle()
	b := x.cellData[link.To].Prism.Triangle.Middle()
	ab := r2.Sub(b, a)
	length := r2.Norm(ab)
	if length == 0 {
		return
	}
	unit := r2.Scale(1/length, ab)
	perp := r2.Vec{X: unit.Y, Y: -unit.X}
	shift := r2.Scale(length/20, perp)
	shortening := length / 10
	from := r2.Add(a, r2.Add(shift, r2.Scale(shortening, unit)))
	to := r2.Add(a, r2.Add(shift, r2.Scale(length-shortening, unit)))
	c.line(from, to, svgLinkStyle)
	c.dot(from, svgLinkDotStyle)
}

// writeCell draws the cell triangle and its outgoing links. With
// horizontalOnly only left/right links are drawn.
func (x *Cross3D) writeCell(c *svgCanvas, cell *Cell, horizontalOnly bool) {
	c.writeTriangle(cell.Prism.Triangle)
	for side := Direction(0); side < numSides; side++ {
		if horizontalOnly && side >= Up {
			break
		}
		for e := cell.adjacent[side].Front(); e != nil; e = e.Next() {
			x.writeLink(c, e.Value.(*Link))
		}
	}
}

// DebugOutputTree dumps every cell's triangle in the arena, realized or
// not, as an SVG document of the given pixel width.
func (x *Cross3D) DebugOutputTree(w io.Writer, widthPx int) {
	c := x.newSVGCanvas(w, widthPx)
	defer c.Close()
	for i := range x.cellData[1:] {
		c.writeTriangle(x.cellData[i+1].Prism.Triangle)
	}
}

// DebugOutputSequence dumps the realized leaves of the tree with all their
// links.
func (x *Cross3D) DebugOutputSequence(w io.Writer, widthPx int) {
	c := x.newSVGCanvas(w, widthPx)
	defer c.Close()
	x.debugOutputSequence(c, &x.cellData[0])
}

func (x *Cross3D) debugOutputSequence(c *svgCanvas, cell *Cell) {
	if cell.IsSubdivided {
		for _, childIdx := range cell.Children {
			if childIdx > 0 {
				x.debugOutputSequence(c, &x.cellData[childIdx])
			}
		}
	} else if cell.Index > 0 {
		x.writeCell(c, cell, false)
	}
}

// DebugOutput dumps the walker's current chain with horizontal links only.
func (x *Cross3D) DebugOutput(walker *SliceWalker, w io.Writer, widthPx int) {
	c := x.newSVGCanvas(w, widthPx)
	defer c.Close()
	for e := walker.sequence.Front(); e != nil; e = e.Next() {
		x.writeCell(c, &x.cellData[e.Value.(int)], true)
	}
}
