package cross3d

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

// unit cube of 1mm sides in microns.
var unitBox = r3.Box{
	Min: r3.Vec{X: 0, Y: 0, Z: 0},
	Max: r3.Vec{X: 1000, Y: 1000, Z: 1000},
}

const testLineWidth = 400 // microns

func mkPattern(t *testing.T, maxDepth int, density DensityProvider) *Cross3D {
	t.Helper()
	pattern, err := New(Config{
		AABB:      unitBox,
		MaxDepth:  maxDepth,
		LineWidth: testLineWidth,
		Density:   density,
	})
	require.NoError(t, err)
	require.NoError(t, pattern.Initialize())
	return pattern
}

func constantDensity(d float32) DensityProvider {
	return DensityFunc(func(r3.Box) float32 { return d })
}

// realizedLeaves returns the indices of all realized leaves: cells whose
// whole ancestry is subdivided but which are not subdivided themselves.
func realizedLeaves(x *Cross3D) []int {
	var leaves []int
	var walk func(idx int)
	walk = func(idx int) {
		cell := x.CellAt(idx)
		if !cell.IsSubdivided {
			if idx > 0 {
				leaves = append(leaves, idx)
			}
			return
		}
		for _, childIdx := range cell.Children {
			if childIdx > 0 {
				walk(childIdx)
			}
		}
	}
	walk(0)
	return leaves
}

func TestNewValidation(t *testing.T) {
	valid := Config{
		AABB:      unitBox,
		MaxDepth:  4,
		LineWidth: testLineWidth,
		Density:   constantDensity(0.5),
	}
	for _, tt := range []struct {
		name   string
		mut    func(*Config)
		errVal error
	}{
		{"no density provider", func(c *Config) { c.Density = nil }, ErrNilDensityProvider},
		{"zero depth", func(c *Config) { c.MaxDepth = 0 }, ErrBadMaxDepth},
		{"negative line width", func(c *Config) { c.LineWidth = -1 }, ErrBadLineWidth},
		{"flat box", func(c *Config) { c.AABB.Max.Z = c.AABB.Min.Z }, ErrDegenerateBounds},
	} {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mut(&cfg)
			_, err := New(cfg)
			require.ErrorIs(t, err, tt.errVal)
		})
	}
	pattern, err := New(valid)
	require.NoError(t, err)
	require.NoError(t, pattern.Initialize())
	require.ErrorIs(t, pattern.Initialize(), ErrAlreadyInitialized)
}

func TestInitializeInvariants(t *testing.T) {
	pattern := mkPattern(t, 4, constantDensity(0.37))

	require.Zero(t, pattern.checkDepths())
	require.Zero(t, pattern.checkVolumeStats())

	const allowanceSlack = 0.1
	for i := 0; i < pattern.CellCount(); i++ {
		cell := pattern.CellAt(i)
		if cell.Children[0] < 0 {
			continue
		}
		var childAllowance, maxChildDensity float32
		for _, childIdx := range cell.Children {
			if childIdx < 0 {
				break
			}
			child := pattern.CellAt(childIdx)
			assert.Equal(t, cell.Depth+1, child.Depth, "cell %d child %d depth", i, childIdx)
			childAllowance += child.FilledVolumeAllowance
			if child.MinimallyRequiredDensity > maxChildDensity {
				maxChildDensity = child.MinimallyRequiredDensity
			}
		}
		assert.GreaterOrEqual(t, cell.FilledVolumeAllowance, childAllowance-allowanceSlack, "cell %d allowance", i)
		assert.Equal(t, maxChildDensity, cell.MinimallyRequiredDensity, "cell %d minimally required density", i)
		assert.Greater(t, cell.Volume, float32(0), "cell %d volume", i)
	}
}

func TestZeroDensityStaysCoarse(t *testing.T) {
	pattern := mkPattern(t, 4, constantDensity(0))
	pattern.CreateMinimalDensityPattern()

	leaves := realizedLeaves(pattern)
	require.Len(t, leaves, 2)
	for _, idx := range leaves {
		assert.Equal(t, 1, pattern.CellAt(idx).Depth)
	}
	assert.True(t, pattern.CellAt(0).IsSubdivided)

	walker := pattern.GetBottomSequence()
	require.Equal(t, 2, walker.Len())
	poly := pattern.GenerateSierpinski(walker)
	require.Len(t, poly, 2)
}

func TestFullDensitySaturatesAtMaxDepth(t *testing.T) {
	pattern := mkPattern(t, 3, constantDensity(1))
	pattern.CreateMinimalDensityPattern()

	for _, idx := range realizedLeaves(pattern) {
		assert.Equal(t, 3, pattern.CellAt(idx).Depth, "leaf %d", idx)
	}
	require.Zero(t, pattern.checkLinkSymmetry())
}

func TestHalfDensityRespectsBalance(t *testing.T) {
	split := DensityFunc(func(bb r3.Box) float32 {
		if (bb.Min.X+bb.Max.X)/2 < 500 {
			return 1
		}
		return 0
	})
	pattern := mkPattern(t, 5, split)
	pattern.CreateMinimalDensityPattern()

	// balance: no leaf neighbors a leaf more than one level away
	for _, idx := range realizedLeaves(pattern) {
		cell := pattern.CellAt(idx)
		for side := Direction(0); side < numSides; side++ {
			for _, link := range cell.Adjacent(side) {
				neighbor := pattern.CellAt(link.To)
				diff := cell.Depth - neighbor.Depth
				if diff < 0 {
					diff = -diff
				}
				assert.LessOrEqual(t, diff, 1, "leaf %d (depth %d) next to %d (depth %d)", idx, cell.Depth, link.To, neighbor.Depth)
			}
		}
	}

	// coverage: every leaf meets its target, is at the depth cap, or is
	// blocked by the balance constraint
	for _, idx := range realizedLeaves(pattern) {
		cell := pattern.CellAt(idx)
		ok := cell.Depth == pattern.MaxDepth() ||
			!pattern.shouldBeSubdivided(cell) ||
			!pattern.canSubdivide(cell)
		assert.True(t, ok, "leaf %d neither meets target nor is blocked", idx)
	}

	require.Zero(t, pattern.checkLinkSymmetry())
}

func TestRefinementIdempotent(t *testing.T) {
	pattern := mkPattern(t, 4, constantDensity(0.8))
	pattern.CreateMinimalDensityPattern()

	subdivided := 0
	for i := 0; i < pattern.CellCount(); i++ {
		if pattern.CellAt(i).IsSubdivided {
			subdivided++
		}
	}
	pattern.CreateMinimalDensityPattern()
	after := 0
	for i := 0; i < pattern.CellCount(); i++ {
		if pattern.CellAt(i).IsSubdivided {
			after++
		}
	}
	assert.Equal(t, subdivided, after)
}

func TestLinkSymmetryAfterManualSubdivide(t *testing.T) {
	pattern := mkPattern(t, 2, constantDensity(0))

	root := pattern.CellAt(0)
	pattern.Subdivide(root)
	require.Zero(t, pattern.checkLinkSymmetry())

	pattern.Subdivide(pattern.CellAt(root.Children[0]))
	require.Zero(t, pattern.checkLinkSymmetry())

	// the second real root now links to the child of the first that touches it
	second := pattern.CellAt(root.Children[1])
	left := second.Adjacent(Left)
	require.NotEmpty(t, left)
	for _, link := range left {
		child := pattern.CellAt(link.To)
		assert.Equal(t, 2, child.Depth)
	}
}

func TestMidpointOutput(t *testing.T) {
	pattern := mkPattern(t, 1, constantDensity(1))
	pattern.CreateMinimalDensityPattern()

	walker := pattern.GetBottomSequence()
	poly := pattern.GenerateSierpinski(walker)
	require.Len(t, poly, 2)

	root := pattern.CellAt(0)
	first := pattern.CellAt(root.Children[0]).Prism.Triangle
	second := pattern.CellAt(root.Children[1]).Prism.Triangle
	assert.InDelta(t, first.Middle().X, poly[0].X, 1e-9)
	assert.InDelta(t, first.Middle().Y, poly[0].Y, 1e-9)
	assert.InDelta(t, second.Middle().X, poly[1].X, 1e-9)
	assert.InDelta(t, second.Middle().Y, poly[1].Y, 1e-9)
	// the two centroids are mirror images over the main diagonal
	assert.InDelta(t, poly[0].X, poly[1].Y, 1e-9)
	assert.InDelta(t, poly[0].Y, poly[1].X, 1e-9)
}

func TestNegativeDensityTripsChecker(t *testing.T) {
	pattern, err := New(Config{
		AABB:      unitBox,
		MaxDepth:  2,
		LineWidth: testLineWidth,
		Density:   constantDensity(-1),
	})
	require.NoError(t, err)
	require.NoError(t, pattern.Initialize())
	assert.NotZero(t, pattern.checkVolumeStats())
}
