// Package crop computes padded, bounds-clipped crop rectangles for
// accepted face detections.
package crop

import (
	"errors"
	"math"

	"github.com/kunalchhabraiitb2024/face-dataset-generator/pkg/detection"
)

// DefaultPadding is the context padding added around a face box,
// as a fraction of the box size on each side.
const DefaultPadding = 0.20

// ErrDegenerateCrop reports a crop that clipped to zero area. Only a
// pathological zero-size source image can produce it; callers skip the
// detection.
var ErrDegenerateCrop = errors.New("crop degenerated to zero area")

// Dims holds source image dimensions in pixels.
type Dims struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Area returns the image area in pixels.
func (d Dims) Area() int {
	return d.Width * d.Height
}

// Rect is a crop rectangle, always contained in [0,W)x[0,H) of its
// source image.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Compute expands box symmetrically by padding on each side and clips the
// result to the image bounds. Clipping reduces size at the boundary rather
// than shifting the origin, so the unconstrained side keeps its full
// padding.
func Compute(box detection.Box, dims Dims, padding float64) (Rect, error) {
	if padding < 0 {
		padding = 0
	}

	padX := int(math.Round(float64(box.Width) * padding))
	padY := int(math.Round(float64(box.Height) * padding))

	x := box.X - padX
	y := box.Y - padY
	w := box.Width + 2*padX
	h := box.Height + 2*padY

	// Clip each edge independently.
	if x < 0 {
		w += x
		x = 0
	}
	if y < 0 {
		h += y
		y = 0
	}
	if x+w > dims.Width {
		w = dims.Width - x
	}
	if y+h > dims.Height {
		h = dims.Height - y
	}

	if w <= 0 || h <= 0 {
		return Rect{}, ErrDegenerateCrop
	}

	return Rect{X: x, Y: y, Width: w, Height: h}, nil
}
