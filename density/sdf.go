package density

import (
	"github.com/chewxy/math32"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"gonum.org/v1/gonum/spatial/r3"
)

// SDF derives infill density from a signed distance field: cells near the
// model shell are filled densely, cells deep inside sparsely. The field is
// evaluated in millimeters at the center of each query box.
type SDF struct {
	s sdf.SDF3
	// Falloff is the distance in mm over which density decays from Max to
	// Min away from the surface.
	Falloff float64
	// Min and Max bound the returned density.
	Min, Max float32
}

// FromSDF3 builds a distance field driven provider with the given falloff
// distance in millimeters. Density ranges from 1 at the surface to 0 at
// falloff distance; tune Min and Max on the result to narrow that range.
func FromSDF3(s sdf.SDF3, falloffMM float64) *SDF {
	return &SDF{s: s, Falloff: falloffMM, Min: 0, Max: 1}
}

// Density implements the provider interface.
func (p *SDF) Density(bb r3.Box) float32 {
	const micronsPerMM = 1000
	center := v3.Vec{
		X: (bb.Min.X + bb.Max.X) / 2 / micronsPerMM,
		Y: (bb.Min.Y + bb.Max.Y) / 2 / micronsPerMM,
		Z: (bb.Min.Z + bb.Max.Z) / 2 / micronsPerMM,
	}
	dist := math32.Abs(float32(p.s.Evaluate(center)))
	d := p.Max - (p.Max-p.Min)*dist/float32(p.Falloff)
	return clamp32(d, p.Min, p.Max)
}
