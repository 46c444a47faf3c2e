package render

import (
	"io"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/soypat/cross3d"
)

// trianglesPerPrism is the mesh cost of one triangular prism: two caps and
// three quad walls.
const trianglesPerPrism = 8

// prismRenderer streams the realized leaf prisms of a pattern as mesh
// triangles, vertices in millimeters.
type prismRenderer struct {
	pattern   *cross3d.Cross3D
	todo      []int
	unwritten triangle3Buffer
}

// NewPrismRenderer returns a Renderer over every realized leaf prism of
// the pattern. Run the pattern's refinement before rendering; an
// unrefined pattern has no realized leaves and renders no triangles.
func NewPrismRenderer(pattern *cross3d.Cross3D) *prismRenderer {
	pr := &prismRenderer{
		pattern:   pattern,
		unwritten: triangle3Buffer{buf: make([]Triangle3, 0, 2*trianglesPerPrism)},
	}
	pr.collectLeaves(0)
	return pr
}

func (pr *prismRenderer) collectLeaves(idx int) {
	cell := pr.pattern.CellAt(idx)
	if cell.IsSubdivided {
		for _, childIdx := range cell.Children {
			if childIdx > 0 {
				pr.collectLeaves(childIdx)
			}
		}
	} else if idx > 0 {
		pr.todo = append(pr.todo, idx)
	}
}

// ReadTriangles writes prism triangles into dst. Returns io.EOF once all
// leaves are rendered.
func (pr *prismRenderer) ReadTriangles(dst []Triangle3) (n int, err error) {
	if len(dst) == 0 {
		panic("cannot write to empty triangle slice")
	}
	if pr.unwritten.Len() > 0 {
		n += pr.unwritten.Read(dst[n:])
		if n == len(dst) {
			return n, nil
		}
	}
	if len(pr.todo) == 0 && pr.unwritten.Len() == 0 {
		return n, io.EOF
	}
	done := 0
	for _, idx := range pr.todo {
		var tmp [trianglesPerPrism]Triangle3
		tris := prismTriangles(pr.pattern.CellAt(idx).Prism, tmp[:0])
		nt := copy(dst[n:], tris)
		n += nt
		if nt < len(tris) {
			pr.unwritten.Write(tris[nt:])
			done++
			break
		}
		done++
		if n == len(dst) {
			break
		}
	}
	pr.todo = pr.todo[done:]
	return n, nil
}

// prismTriangles appends the prism's mesh triangles to dst, converting
// micron coordinates to millimeters.
func prismTriangles(p cross3d.Prism, dst []Triangle3) []Triangle3 {
	const mm = 1.0 / 1000
	poly := p.Triangle.ToPolygon()
	var bot, top [3]r3.Vec
	for i, v := range poly {
		bot[i] = r3.Vec{X: v.X * mm, Y: v.Y * mm, Z: p.Z.Min * mm}
		top[i] = r3.Vec{X: v.X * mm, Y: v.Y * mm, Z: p.Z.Max * mm}
	}
	// caps
	dst = append(dst,
		Triangle3{V: [3]r3.Vec{bot[0], bot[2], bot[1]}},
		Triangle3{V: [3]r3.Vec{top[0], top[1], top[2]}},
	)
	// walls
	for i := 0; i < 3; i++ {
		j := (i + 1) % 3
		dst = append(dst,
			Triangle3{V: [3]r3.Vec{bot[i], bot[j], top[j]}},
			Triangle3{V: [3]r3.Vec{bot[i], top[j], top[i]}},
		)
	}
	return dst
}
