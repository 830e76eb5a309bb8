package viewport

import (
	"math"

	"github.com/irfansharif/panzoom/internal/geom"
)

// size returns the host's current size in pixels.
func (v *View) size() (w, h float64) {
	width, height := v.host.Size()
	return float64(width), float64(height)
}

// MaxDim returns the length, in pixels, of the longer side of the area.
func (v *View) MaxDim() float64 {
	w, h := v.size()
	return math.Max(w, h)
}

// RawPoint converts a device point (origin top-left) to cartesian
// coordinates (origin bottom-left).
func (v *View) RawPoint(device geom.Point) geom.Point {
	_, h := v.size()
	return geom.MakePoint(device.X, h-device.Y)
}

// unitsPerPixel returns the virtual length of one device pixel, or 0 while
// the host has no area.
func (v *View) unitsPerPixel() float64 {
	maxDim := v.MaxDim()
	if maxDim <= 0 {
		return 0
	}
	return v.Scale() / maxDim
}

// TransformPoint converts a device point to virtual coordinates. While the
// host has no area every point maps to the offset.
func (v *View) TransformPoint(device geom.Point) geom.Point {
	return v.Offset().Add(v.RawPoint(device).Scale(v.unitsPerPixel()))
}

// Matrix returns the transform from virtual coordinates to device pixels,
// the inverse of TransformPoint. It is the transform paint handlers draw
// under. The matrix is singular while the host has no area.
func (v *View) Matrix() geom.Affine {
	_, h := v.size()
	maxDim := v.MaxDim()
	if maxDim <= 0 {
		return geom.Scaling(0, 0)
	}
	scale := v.Scale()
	offset := v.Offset()

	// Same order as the Canvas calls in OnPaint.
	m := geom.Scaling(maxDim/scale, -maxDim/scale)
	m = m.Mul(geom.Translation(0, -scale*h/maxDim))
	return m.Mul(geom.Translation(-offset.X, -offset.Y))
}

// VisibleBox returns the region of the virtual plane covered by the area.
func (v *View) VisibleBox() geom.Box {
	w, h := v.size()
	bottomLeft := v.TransformPoint(geom.MakePoint(0, h))
	topRight := v.TransformPoint(geom.MakePoint(w, 0))
	return geom.BoxFromCorners(bottomLeft, topRight)
}
