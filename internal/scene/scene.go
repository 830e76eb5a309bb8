// Package scene holds a small set of filled shapes in virtual coordinates,
// paints them through a viewport, and lets the user drag them around.
package scene

import (
	"fmt"
	"image/color"

	"github.com/irfansharif/panzoom/internal/geom"
	"github.com/irfansharif/panzoom/internal/palette"
	"github.com/irfansharif/panzoom/internal/viewport"
)

// Kind distinguishes shape outlines.
type Kind int

const (
	KindPolygon Kind = iota
	KindCircle
)

func (k Kind) String() string {
	switch k {
	case KindPolygon:
		return "polygon"
	case KindCircle:
		return "circle"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Shape is a filled, optionally outlined, region of the virtual plane.
type Shape struct {
	Name   string
	Kind   Kind
	Fill   color.Color
	Stroke color.Color // nil for no outline

	points    []geom.Point // polygon vertices
	triangles [][3]geom.Point
	center    geom.Point // circle
	radius    float64
}

// Polygon returns a simple polygon through points.
func Polygon(name string, fill color.Color, points ...geom.Point) (*Shape, error) {
	pts := append([]geom.Point(nil), points...)
	triangles, err := triangulate(pts)
	if err != nil {
		return nil, fmt.Errorf("shape %q: %w", name, err)
	}
	return &Shape{
		Name:      name,
		Kind:      KindPolygon,
		Fill:      fill,
		Stroke:    color.Black,
		points:    pts,
		triangles: triangles,
	}, nil
}

// Circle returns a disc.
func Circle(name string, fill color.Color, center geom.Point, radius float64) *Shape {
	return &Shape{
		Name:   name,
		Kind:   KindCircle,
		Fill:   fill,
		Stroke: color.Black,
		center: center,
		radius: radius,
	}
}

// Points returns a copy of the polygon's vertices.
func (s *Shape) Points() []geom.Point { return append([]geom.Point(nil), s.points...) }

// Bounds returns the shape's bounding box.
func (s *Shape) Bounds() geom.Box {
	if s.Kind == KindCircle {
		r := geom.MakePoint(s.radius, s.radius)
		return geom.BoxFromCorners(s.center.Sub(r), s.center.Add(r))
	}
	return geom.Bounds(s.points)
}

// Contains reports whether p is inside the shape.
func (s *Shape) Contains(p geom.Point) bool {
	if s.Kind == KindCircle {
		return geom.Dist(p, s.center) <= s.radius
	}
	if !s.Bounds().Contains(p) {
		return false
	}
	for _, t := range s.triangles {
		if inTriangle(t, p) {
			return true
		}
	}
	return false
}

// Translate moves the shape by d.
func (s *Shape) Translate(d geom.Point) {
	s.center = s.center.Add(d)
	for i := range s.points {
		s.points[i] = s.points[i].Add(d)
	}
	for i := range s.triangles {
		for j := range s.triangles[i] {
			s.triangles[i][j] = s.triangles[i][j].Add(d)
		}
	}
}

func (s *Shape) path(dc viewport.Canvas) {
	if s.Kind == KindCircle {
		dc.DrawCircle(s.center.X, s.center.Y, s.radius)
		return
	}
	dc.MoveTo(s.points[0].X, s.points[0].Y)
	for _, p := range s.points[1:] {
		dc.LineTo(p.X, p.Y)
	}
	dc.ClosePath()
}

// Paint fills and outlines the shape on dc.
func (s *Shape) Paint(dc viewport.Canvas) error {
	s.path(dc)
	if s.Stroke == nil {
		dc.SetColor(s.Fill)
		return dc.Fill()
	}
	dc.SetColor(s.Fill)
	if err := dc.FillPreserve(); err != nil {
		return err
	}
	dc.SetColor(s.Stroke)
	return dc.Stroke()
}

// Scene is an ordered list of shapes; later shapes paint over earlier ones.
type Scene struct {
	shapes []*Shape
}

// New returns an empty scene.
func New() *Scene { return &Scene{} }

// Add appends shapes on top of the scene.
func (sc *Scene) Add(shapes ...*Shape) { sc.shapes = append(sc.shapes, shapes...) }

// Shapes returns the shapes bottom to top.
func (sc *Scene) Shapes() []*Shape { return append([]*Shape(nil), sc.shapes...) }

// Lookup returns the first shape called name.
func (sc *Scene) Lookup(name string) (*Shape, bool) {
	for _, s := range sc.shapes {
		if s.Name == name {
			return s, true
		}
	}
	return nil, false
}

// Pick returns the topmost shape containing p, or nil.
func (sc *Scene) Pick(p geom.Point) *Shape {
	for i := len(sc.shapes) - 1; i >= 0; i-- {
		if sc.shapes[i].Contains(p) {
			return sc.shapes[i]
		}
	}
	return nil
}

// Bounds returns the box covering every shape. It is empty for an empty
// scene.
func (sc *Scene) Bounds() geom.Box {
	if len(sc.shapes) == 0 {
		return geom.Box{}
	}
	var corners []geom.Point
	for _, s := range sc.shapes {
		b := s.Bounds()
		corners = append(corners, b.Min(), b.Max())
	}
	return geom.Bounds(corners)
}

// Paint draws every shape. It has the viewport.PaintHandler signature and
// never reports the paint as handled, so later handlers draw on top.
func (sc *Scene) Paint(dc viewport.Canvas) (bool, error) {
	for _, s := range sc.shapes {
		if err := s.Paint(dc); err != nil {
			return false, fmt.Errorf("painting %s %q: %w", s.Kind, s.Name, err)
		}
	}
	return false, nil
}

// Demo returns three overlapping translucent shapes in the unit square.
func Demo() *Scene {
	triangle, err := Polygon("triangle", color.NRGBA{G: 255, A: 128},
		geom.MakePoint(0.3, 0.3), geom.MakePoint(0.7, 0.3), geom.MakePoint(0.5, 0.7))
	if err != nil {
		panic(err)
	}
	square, err := Polygon("square", color.NRGBA{R: 255, A: 128},
		geom.MakePoint(0.5, 0.4), geom.MakePoint(0.85, 0.4),
		geom.MakePoint(0.85, 0.75), geom.MakePoint(0.5, 0.75))
	if err != nil {
		panic(err)
	}
	circle := Circle("circle", color.NRGBA{B: 255, A: 128}, geom.MakePoint(0.6, 0.3), 0.2)

	sc := New()
	sc.Add(triangle, square, circle)
	return sc
}

// ColorBar returns steps unoutlined cells tiling box left to right, colored
// by m spread across the box's width.
func ColorBar(m palette.Map, box geom.Box, steps int) []*Shape {
	if steps < 1 {
		steps = 1
	}
	m = m.Rescale(box.X, box.X+box.W)
	w := box.W / float64(steps)
	cells := make([]*Shape, 0, steps)
	for i := 0; i < steps; i++ {
		x0 := box.X + float64(i)*w
		cell, err := Polygon(fmt.Sprintf("%s/%d", m.Name(), i), m.At(x0+w/2),
			geom.MakePoint(x0, box.Y), geom.MakePoint(x0+w, box.Y),
			geom.MakePoint(x0+w, box.Y+box.H), geom.MakePoint(x0, box.Y+box.H))
		if err != nil {
			// A rectangle always triangulates.
			panic(err)
		}
		cell.Stroke = nil
		cells = append(cells, cell)
	}
	return cells
}
