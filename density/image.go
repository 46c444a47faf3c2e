package density

import (
	"image"
	"image/color"

	"github.com/nfnt/resize"
	"gonum.org/v1/gonum/spatial/r3"
)

// Image maps a grayscale image over the XY footprint of the filled volume
// and requests high density where the image is dark. The Z coordinate of
// the query box is ignored.
type Image struct {
	grid []float32
	w, h int
	// footprint in microns
	minX, minY, sizeX, sizeY float64
}

// maxGridDefault bounds the sampling grid so density lookups stay cheap
// for large source images.
const maxGridDefault = 256

// FromImage builds an image based provider. aabb is the filled volume in
// microns; the image is stretched over its XY footprint with image row 0
// at max Y. Images larger than maxGrid pixels per side are downsampled.
// A maxGrid of zero selects a sensible default.
func FromImage(img image.Image, aabb r3.Box, maxGrid int) *Image {
	if maxGrid <= 0 {
		maxGrid = maxGridDefault
	}
	b := img.Bounds()
	if b.Dx() > maxGrid || b.Dy() > maxGrid {
		img = resize.Thumbnail(uint(maxGrid), uint(maxGrid), img, resize.Bilinear)
		b = img.Bounds()
	}
	p := &Image{
		grid:  make([]float32, b.Dx()*b.Dy()),
		w:     b.Dx(),
		h:     b.Dy(),
		minX:  aabb.Min.X,
		minY:  aabb.Min.Y,
		sizeX: aabb.Max.X - aabb.Min.X,
		sizeY: aabb.Max.Y - aabb.Min.Y,
	}
	for y := 0; y < p.h; y++ {
		for x := 0; x < p.w; x++ {
			g := color.Gray16Model.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray16)
			// dark pixels request dense infill
			p.grid[y*p.w+x] = 1 - float32(g.Y)/0xffff
		}
	}
	return p
}

// Density returns the average darkness of the pixels under the query box
// footprint.
func (p *Image) Density(bb r3.Box) float32 {
	x0, x1 := p.pixelSpanX(bb.Min.X, bb.Max.X)
	// image rows run top down while Y runs bottom up
	y0, y1 := p.pixelSpanY(bb.Max.Y, bb.Min.Y)
	var sum float32
	n := 0
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			sum += p.grid[y*p.w+x]
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float32(n)
}

func (p *Image) pixelSpanX(lo, hi float64) (int, int) {
	i0 := int((lo - p.minX) / p.sizeX * float64(p.w))
	i1 := int((hi - p.minX) / p.sizeX * float64(p.w))
	return clampSpan(i0, i1, p.w)
}

func (p *Image) pixelSpanY(top, bottom float64) (int, int) {
	i0 := int((1 - (top-p.minY)/p.sizeY) * float64(p.h))
	i1 := int((1 - (bottom-p.minY)/p.sizeY) * float64(p.h))
	return clampSpan(i0, i1, p.h)
}

func clampSpan(i0, i1 int, n int) (int, int) {
	if i0 > i1 {
		i0, i1 = i1, i0
	}
	return clampIdx(i0, n), clampIdx(i1, n)
}

func clampIdx(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
