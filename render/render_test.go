package render_test

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/soypat/cross3d"
	"github.com/soypat/cross3d/density"
	"github.com/soypat/cross3d/render"
)

func buildPattern(t *testing.T, maxDepth int, d float32) *cross3d.Cross3D {
	t.Helper()
	pattern, err := cross3d.New(cross3d.Config{
		AABB: r3.Box{
			Min: r3.Vec{X: 0, Y: 0, Z: 0},
			Max: r3.Vec{X: 1000, Y: 1000, Z: 1000},
		},
		MaxDepth:  maxDepth,
		LineWidth: 400,
		Density:   density.Uniform(d),
	})
	require.NoError(t, err)
	require.NoError(t, pattern.Initialize())
	pattern.CreateMinimalDensityPattern()
	return pattern
}

func TestPrismRendererCoarse(t *testing.T) {
	// zero density refines nothing: the mesh is the two root prisms
	pattern := buildPattern(t, 3, 0)
	tris, err := render.RenderAll(render.NewPrismRenderer(pattern))
	require.NoError(t, err)
	assert.Len(t, tris, 2*8)
	for _, tri := range tris {
		n := tri.Normal()
		assert.False(t, math.IsNaN(n.X) || math.IsNaN(n.Y) || math.IsNaN(n.Z), "NaN normal")
		for _, v := range tri.V {
			assert.GreaterOrEqual(t, v.X, 0.0)
			assert.LessOrEqual(t, v.X, 1.0, "vertices are in mm")
		}
	}
}

func TestPrismRendererRefined(t *testing.T) {
	pattern := buildPattern(t, 3, 1)
	tris, err := render.RenderAll(render.NewPrismRenderer(pattern))
	require.NoError(t, err)
	// full density realizes every leaf at depth 3: 2 * 2 * 4 prisms
	assert.Len(t, tris, 16*8)
}

func TestPrismRendererSmallBuffer(t *testing.T) {
	pattern := buildPattern(t, 3, 1)
	r := render.NewPrismRenderer(pattern)
	var all []render.Triangle3
	buf := make([]render.Triangle3, 3) // deliberately smaller than one prism
	for {
		n, err := r.ReadTriangles(buf)
		all = append(all, buf[:n]...)
		if err != nil {
			break
		}
	}
	assert.Len(t, all, 16*8)
}

func TestWriteSTL(t *testing.T) {
	pattern := buildPattern(t, 2, 0)
	tris, err := render.RenderAll(render.NewPrismRenderer(pattern))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, render.WriteSTL(&buf, tris))
	const headerSize = 84
	require.Equal(t, headerSize+50*len(tris), buf.Len())
	count := binary.LittleEndian.Uint32(buf.Bytes()[80:])
	assert.Equal(t, uint32(len(tris)), count)

	assert.Error(t, render.WriteSTL(&buf, nil), "empty models are rejected")
}
