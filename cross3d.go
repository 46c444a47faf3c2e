// Package cross3d generates space filling infill for fused deposition 3D
// printing. A bounding volume is recursively subdivided into triangular
// prisms whose footprint midpoints, chained at a given height, trace a 3D
// generalization of the Sierpinski "cross" curve. Printing along that
// polyline with a fixed line width realizes a spatially varying density
// requested through a DensityProvider.
//
// All coordinates are micron valued. Volumes and densities are accounted
// in millimeters.
package cross3d

import (
	"errors"
	"fmt"
	"time"

	"github.com/chewxy/math32"
	"github.com/datatrails/go-datatrails-common/logger"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/soypat/cross3d/internal/d3"
)

// Errors returned by configuration validation and Initialize.
var (
	ErrNilDensityProvider = errors.New("cross3d: density provider not set")
	ErrBadMaxDepth        = errors.New("cross3d: max depth must be positive")
	ErrBadLineWidth       = errors.New("cross3d: line width must be positive")
	ErrDegenerateBounds   = errors.New("cross3d: bounding box has nonpositive extent")
	ErrAlreadyInitialized = errors.New("cross3d: tree already built")
)

const micronsPerMillimeter = 1000

func mmFromMicron(v float64) float64 { return v / micronsPerMillimeter }

// DensityProvider yields the desired infill density inside a query box.
// Implementations must return values in [0, 1]. The box is in microns.
type DensityProvider interface {
	Density(bb r3.Box) float32
}

// DensityFunc adapts a plain function to the DensityProvider interface.
type DensityFunc func(bb r3.Box) float32

// Density implements DensityProvider.
func (f DensityFunc) Density(bb r3.Box) float32 { return f(bb) }

// Config parameterizes a Cross3D pattern.
type Config struct {
	// AABB is the volume to fill, in microns.
	AABB r3.Box
	// MaxDepth caps subdivision. Practical range is about 6 to 20.
	MaxDepth int
	// LineWidth is the extrusion width in microns.
	LineWidth float64
	// Density is queried once per tree leaf during Initialize.
	Density DensityProvider
	// Log receives debug timing and invariant diagnostics. The NOOP logger
	// is used when nil.
	Log logger.Logger
}

func (cfg *Config) validate() error {
	if cfg.Density == nil {
		return ErrNilDensityProvider
	}
	if cfg.MaxDepth <= 0 {
		return fmt.Errorf("%w: got %d", ErrBadMaxDepth, cfg.MaxDepth)
	}
	if cfg.LineWidth <= 0 {
		return fmt.Errorf("%w: got %g", ErrBadLineWidth, cfg.LineWidth)
	}
	sz := d3.Box(cfg.AABB).Size()
	if sz.X <= 0 || sz.Y <= 0 || sz.Z <= 0 {
		return ErrDegenerateBounds
	}
	return nil
}

// Cross3D builds and refines the subdivision tree and walks horizontal
// slices of it to produce the infill polyline per layer. Not safe for
// concurrent use; callers own the whole structure.
type Cross3D struct {
	aabb      d3.Box
	maxDepth  int
	lineWidth float64
	density   DensityProvider
	log       logger.Logger

	// cellData is the append only cell arena. Index 0 is a synthetic root
	// whose only purpose is to hold the two real roots as children; its
	// prism carries no meaningful geometry.
	cellData []Cell
}

// New returns an unbuilt pattern. Call Initialize before any other method.
func New(cfg Config) (*Cross3D, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	log := cfg.Log
	if log == nil {
		logger.New("NOOP")
		log = logger.Sugar
	}
	return &Cross3D{
		aabb:      d3.Box(cfg.AABB),
		maxDepth:  cfg.MaxDepth,
		lineWidth: cfg.LineWidth,
		density:   cfg.Density,
		log:       log,
	}, nil
}

// MaxDepth returns the subdivision depth cap.
func (x *Cross3D) MaxDepth() int { return x.maxDepth }

// CellCount returns the number of cells in the arena.
func (x *Cross3D) CellCount() int { return len(x.cellData) }

// CellAt returns the cell at the given arena index.
func (x *Cross3D) CellAt(i int) *Cell { return &x.cellData[i] }

// Initialize builds the full subdivision tree down to MaxDepth and
// computes per cell volumes and density allowances. Call exactly once.
func (x *Cross3D) Initialize() error {
	if len(x.cellData) > 0 {
		return ErrAlreadyInitialized
	}
	start := time.Now()
	x.createTree()
	x.checkDepths()
	x.checkVolumeStats()
	x.log.Debugf("created Cross3D tree with %d nodes and max depth %d in %v", len(x.cellData), x.maxDepth, time.Since(start))
	return nil
}

func (x *Cross3D) createTree() {
	x.cellData = make([]Cell, 0, 2<<(x.maxDepth/2))

	// Synthetic root. Its prism is zero valued and never used for geometry.
	root := newCell(Prism{}, 0, 0)
	sz := x.aabb.Size()
	root.Volume = float32(mmFromMicron(sz.X) * mmFromMicron(sz.Y) * mmFromMicron(sz.Z))
	x.cellData = append(x.cellData, root)

	// TODO: start with 4 quarter cubes so as to form a closed sierpinski curve.
	min2 := r2.Vec{X: x.aabb.Min.X, Y: x.aabb.Min.Y}
	max2 := r2.Vec{X: x.aabb.Max.X, Y: x.aabb.Max.Y}
	z := ZRange{Min: x.aabb.Min.Z, Max: x.aabb.Max.Z}

	// The two real roots are mirrored right triangle prisms tiling the
	// rectangular footprint. Their hypotenuses meet on the main diagonal so
	// the exit edge of the first meets the entry edge of the second.
	first := Triangle{
		StraightCorner:       r2.Vec{X: min2.X, Y: max2.Y},
		A:                    min2,
		B:                    max2,
		Dir:                  ACToAB,
		StraightCornerIsLeft: true,
	}
	firstIdx := len(x.cellData)
	x.cellData[0].Children[0] = firstIdx
	x.cellData = append(x.cellData, newCell(Prism{Triangle: first, Z: z, IsExpanding: true}, firstIdx, 1))
	x.createTreeRec(firstIdx)
	x.setVolume(firstIdx)

	second := Triangle{
		StraightCorner:       r2.Vec{X: max2.X, Y: min2.Y},
		A:                    max2,
		B:                    min2,
		Dir:                  ABToBC,
		StraightCornerIsLeft: true,
	}
	secondIdx := len(x.cellData)
	x.cellData[0].Children[1] = secondIdx
	x.cellData = append(x.cellData, newCell(Prism{Triangle: second, Z: z, IsExpanding: true}, secondIdx, 1))
	x.createTreeRec(secondIdx)
	x.setVolume(secondIdx)

	x.setSpecificationAllowance(0)
}

// createTreeRec fills in all descendants of the cell at parentIdx, down to
// the depth cap. Recursion depth is bounded by maxDepth.
func (x *Cross3D) createTreeRec(parentIdx int) {
	// Work with copies: the arena may grow while we append children.
	parentDepth := x.cellData[parentIdx].Depth
	if parentDepth >= x.maxDepth {
		return
	}
	parentPrism := x.cellData[parentIdx].Prism
	subdivided := parentPrism.Triangle.Subdivide()

	childCount := 4
	if parentPrism.IsHalfCube() {
		childCount = 2
	}
	childZMin := parentPrism.Z.Min
	childZMax := parentPrism.Z.Max
	if childCount == 4 {
		childZMax = 0.5 * (parentPrism.Z.Min + parentPrism.Z.Max)
	}
	for childZIdx := 0; childZIdx < 2; childZIdx++ {
		for childXYIdx := 0; childXYIdx < 2; childXYIdx++ {
			childIdx := childZIdx*2 + childXYIdx
			if childZIdx == childCount/2 {
				x.cellData[parentIdx].Children[childIdx] = -1
				continue
			}
			isExpanding := parentPrism.IsExpanding
			if parentPrism.Triangle.Dir != ACToBC && childXYIdx == 1 {
				// is_expanding flips for the second XY child unless the
				// parent curve runs AC_TO_BC.
				isExpanding = !isExpanding
			}
			if childZIdx == 1 {
				// upper children expand oppositely to lower children
				isExpanding = !isExpanding
			}
			childDataIdx := len(x.cellData)
			x.cellData[parentIdx].Children[childIdx] = childDataIdx
			prism := Prism{
				Triangle:    subdivided[childXYIdx],
				Z:           ZRange{Min: childZMin, Max: childZMax},
				IsExpanding: isExpanding,
			}
			x.cellData = append(x.cellData, newCell(prism, childDataIdx, parentDepth+1))
			x.createTreeRec(childDataIdx)
		}
		// z range of the upper children
		childZMin = childZMax
		childZMax = parentPrism.Z.Max
	}
}

// setVolume computes the geometric volume of the subtree rooted at idx.
// Every cell stores its own volume, internal cells included.
func (x *Cross3D) setVolume(idx int) {
	cell := &x.cellData[idx]
	tri := cell.Prism.Triangle
	ac := r2.Sub(tri.StraightCorner, tri.A)
	areaMM2 := 0.5 * mmFromMicron(mmFromMicron(r2.Norm2(ac)))
	cell.Volume = float32(areaMM2 * mmFromMicron(cell.Prism.Z.Size()))

	if cell.Children[0] < 0 {
		return
	}
	for _, childIdx := range cell.Children {
		if childIdx < 0 {
			break
		}
		x.setVolume(childIdx)
	}
}

// setSpecificationAllowance fills FilledVolumeAllowance and
// MinimallyRequiredDensity bottom up. Leaves query the density provider,
// internal cells aggregate their children.
func (x *Cross3D) setSpecificationAllowance(idx int) {
	hasChildren := x.cellData[idx].Children[0] >= 0
	if !hasChildren {
		cell := &x.cellData[idx]
		requested := x.getDensity(cell)
		cell.MinimallyRequiredDensity = requested
		cell.FilledVolumeAllowance = cell.Volume * requested
		return
	}
	for _, childIdx := range x.cellData[idx].Children {
		if childIdx < 0 {
			break
		}
		x.setSpecificationAllowance(childIdx)
		child := &x.cellData[childIdx]
		cell := &x.cellData[idx]
		cell.FilledVolumeAllowance += child.FilledVolumeAllowance
		cell.MinimallyRequiredDensity = math32.Max(cell.MinimallyRequiredDensity, child.MinimallyRequiredDensity)
	}
}

// getDensity queries the provider with the cell's bounding box.
func (x *Cross3D) getDensity(cell *Cell) float32 {
	bb := cell.Prism.footprint()
	return x.density.Density(r3.Box{
		Min: r3.Vec{X: bb.Min.X, Y: bb.Min.Y, Z: cell.Prism.Z.Min},
		Max: r3.Vec{X: bb.Max.X, Y: bb.Max.Y, Z: cell.Prism.Z.Max},
	})
}

// actualizedVolume is the volume in mm³ the printed thread fills when the
// curve crosses this cell once, entering over the middle of the from edge
// and leaving over the middle of the to edge.
func (x *Cross3D) actualizedVolume(cell *Cell) float32 {
	tri := cell.Prism.Triangle
	acMiddle := r2.Scale(0.5, r2.Add(tri.A, tri.StraightCorner))
	bcMiddle := r2.Scale(0.5, r2.Add(tri.B, tri.StraightCorner))
	abMiddle := r2.Scale(0.5, r2.Add(tri.A, tri.B))
	var fromMiddle, toMiddle r2.Vec
	switch tri.Dir {
	case ACToAB:
		fromMiddle, toMiddle = acMiddle, abMiddle
	case ACToBC:
		fromMiddle, toMiddle = acMiddle, bcMiddle
	case ABToBC:
		fromMiddle, toMiddle = abMiddle, bcMiddle
	}
	lineLen := r2.Norm(r2.Sub(fromMiddle, toMiddle))
	return float32(mmFromMicron(x.lineWidth) * mmFromMicron(lineLen) * mmFromMicron(cell.Prism.Z.Size()))
}
