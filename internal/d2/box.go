package d2

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Box is a 2d bounding box.
type Box r2.Box

// NewBox2 creates a 2d box with a given center and size.
func NewBox2(center, size r2.Vec) Box {
	half := r2.Scale(0.5, size)
	return Box{Min: r2.Sub(center, half), Max: r2.Add(center, half)}
}

// EmptyBox returns a box that contains no points. Including any point in it
// yields a box around exactly that point.
func EmptyBox() Box {
	return Box{
		Min: r2.Vec{X: math.Inf(1), Y: math.Inf(1)},
		Max: r2.Vec{X: math.Inf(-1), Y: math.Inf(-1)},
	}
}

// Equals test the equality of 2d boxes.
func (a Box) Equals(b Box, tol float64) bool {
	return EqualWithin(a.Min, b.Min, tol) && EqualWithin(a.Max, b.Max, tol)
}

// Extend returns a box enclosing two 2d boxes.
func (a Box) Extend(b Box) Box {
	return Box{
		Min: MinElem(a.Min, b.Min),
		Max: MaxElem(a.Max, b.Max),
	}
}

// Include enlarges a 2d box to include a point.
func (a Box) Include(v r2.Vec) Box {
	return Box{Min: MinElem(a.Min, v), Max: MaxElem(a.Max, v)}
}

// Size returns the size of a 2d box.
func (a Box) Size() r2.Vec {
	return r2.Sub(a.Max, a.Min)
}

// Center returns the center of a 2d box.
func (a Box) Center() r2.Vec {
	return r2.Add(a.Min, r2.Scale(0.5, a.Size()))
}

// Contains checks if the 2d box contains the given vector (considering bounds as inside).
func (a Box) Contains(v r2.Vec) bool {
	return a.Min.X <= v.X && a.Min.Y <= v.Y &&
		v.X <= a.Max.X && v.Y <= a.Max.Y
}

// TopLeft returns the top left corner of a 2d bounding box.
func (a Box) TopLeft() r2.Vec {
	return r2.Vec{X: a.Min.X, Y: a.Max.Y}
}

// BottomRight returns the bottom right corner of a 2d bounding box.
func (a Box) BottomRight() r2.Vec {
	return r2.Vec{X: a.Max.X, Y: a.Min.Y}
}
