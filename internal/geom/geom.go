// Package geom provides the 2D primitives shared by the viewport and the
// scene:
// - Points/vectors in device, cartesian and virtual space
// - Axis-aligned boxes
// - 2D affine transforms with composition and inversion
package geom

import (
	"fmt"
	"math"
)

// Point represents a 2D point or vector in Cartesian coordinates.
type Point struct {
	X float64
	Y float64
}

// Box represents an axis-aligned rectangle anchored at its minimum corner.
type Box struct {
	X float64
	Y float64
	W float64
	H float64
}

// Affine represents a 2D affine transform in row-major form:
// [ a b c ]
// [ d e f ]
// where (x', y') = (a*x + b*y + c, d*x + e*y + f)
type Affine struct {
	A float64
	B float64
	C float64
	D float64
	E float64
	F float64
}

func MakePoint(x, y float64) Point               { return Point{X: x, Y: y} }
func MakeBox(x, y, w, h float64) Box             { return Box{X: x, Y: y, W: w, H: h} }
func MakeAffine(a, b, c, d, e, f float64) Affine { return Affine{A: a, B: b, C: c, D: d, E: e, F: f} }

func (p Point) Add(q Point) Point     { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) Sub(q Point) Point     { return Point{p.X - q.X, p.Y - q.Y} }
func (p Point) Scale(s float64) Point { return Point{p.X * s, p.Y * s} }

// IsFinite reports whether neither coordinate is NaN or infinite.
func (p Point) IsFinite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) && !math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

func (p Point) String() string { return fmt.Sprintf("(%g, %g)", p.X, p.Y) }

func Dot(p, q Point) float64 { return p.X*q.X + p.Y*q.Y }

func Dist(p, q Point) float64 {
	dx := p.X - q.X
	dy := p.Y - q.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// BoxFromCorners returns the box spanned by two opposite corners, in any
// order.
func BoxFromCorners(p, q Point) Box {
	return MakeBox(math.Min(p.X, q.X), math.Min(p.Y, q.Y), math.Abs(q.X-p.X), math.Abs(q.Y-p.Y))
}

// Min returns the minimum (bottom-left in cartesian space) corner.
func (b Box) Min() Point { return Point{b.X, b.Y} }

// Max returns the maximum (top-right in cartesian space) corner.
func (b Box) Max() Point { return Point{b.X + b.W, b.Y + b.H} }

// Contains reports whether p lies inside the box, edges included.
func (b Box) Contains(p Point) bool {
	return p.X >= b.X && p.X <= b.X+b.W && p.Y >= b.Y && p.Y <= b.Y+b.H
}

// Bounds returns the smallest box containing all the given points. It
// returns the zero box when no points are given.
func Bounds(points []Point) Box {
	if len(points) == 0 {
		return Box{}
	}
	lo, hi := points[0], points[0]
	for _, p := range points[1:] {
		lo = Point{math.Min(lo.X, p.X), math.Min(lo.Y, p.Y)}
		hi = Point{math.Max(hi.X, p.X), math.Max(hi.Y, p.Y)}
	}
	return BoxFromCorners(lo, hi)
}

// Identity returns the identity transform.
func Identity() Affine { return MakeAffine(1, 0, 0, 0, 1, 0) }

// Translation returns a transform that shifts points by (tx, ty).
func Translation(tx, ty float64) Affine { return MakeAffine(1, 0, tx, 0, 1, ty) }

// Scaling returns a transform that scales the axes by (sx, sy).
func Scaling(sx, sy float64) Affine { return MakeAffine(sx, 0, 0, 0, sy, 0) }

// MulPoint applies the affine transform to a point.
func (t Affine) MulPoint(p Point) Point {
	return Point{
		X: t.A*p.X + t.B*p.Y + t.C,
		Y: t.D*p.X + t.E*p.Y + t.F,
	}
}

// Mul composes two affine transforms (applies u then t).
func (t Affine) Mul(u Affine) Affine {
	return MakeAffine(
		t.A*u.A+t.B*u.D,
		t.A*u.B+t.B*u.E,
		t.A*u.C+t.B*u.F+t.C,
		t.D*u.A+t.E*u.D,
		t.D*u.B+t.E*u.E,
		t.D*u.C+t.E*u.F+t.F,
	)
}

// Inv returns the inverse of the affine transform.
// Returns an error if the transform is not invertible (determinant is zero).
func (t Affine) Inv() (Affine, error) {
	det := t.A*t.E - t.B*t.D
	if math.Abs(det) < 1e-300 {
		return Affine{}, fmt.Errorf("affine transform is not invertible (determinant ≈ 0)")
	}
	return MakeAffine(
		t.E/det, -t.B/det, (t.B*t.F-t.C*t.E)/det,
		-t.D/det, t.A/det, (t.C*t.D-t.A*t.F)/det,
	), nil
}
