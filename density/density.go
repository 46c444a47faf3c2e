// Package density provides ready made density providers for cross3d
// patterns: uniform fills, grayscale image lookups over the XY footprint
// and signed distance field driven fills that concentrate material near a
// model's shell. Query boxes are in microns, densities in [0, 1].
package density

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// Uniform requests the same density everywhere.
type Uniform float32

// Density implements the provider interface.
func (u Uniform) Density(r3.Box) float32 { return float32(u) }

func clamp32(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
