package scene

import (
	"fmt"

	"github.com/rclancey/earcut"

	"github.com/irfansharif/panzoom/internal/geom"
)

// triangulate splits a simple polygon into triangles with the earcut
// algorithm. Vertices may be given in either winding order.
func triangulate(polygon []geom.Point) ([][3]geom.Point, error) {
	if len(polygon) < 3 {
		return nil, fmt.Errorf("degenerate polygon (%d vertices < 3)", len(polygon))
	}

	// Format: [x0, y0, x1, y1, ..., xn, yn]
	coords := make([]float64, len(polygon)*2)
	for i, p := range polygon {
		coords[i*2] = p.X
		coords[i*2+1] = p.Y
	}

	indices, err := earcut.Earcut(coords, nil /* holeIndices */, 2 /* dim */)
	if err != nil {
		return nil, fmt.Errorf("triangulating %d-vertex polygon: %w", len(polygon), err)
	}
	if len(indices)%3 != 0 {
		return nil, fmt.Errorf("invalid triangle count (indices: %d, not divisible by 3)", len(indices))
	}

	triangles := make([][3]geom.Point, len(indices)/3)
	for i := range triangles {
		triangles[i] = [3]geom.Point{
			polygon[indices[i*3]],
			polygon[indices[i*3+1]],
			polygon[indices[i*3+2]],
		}
	}
	return triangles, nil
}

// inTriangle reports whether p lies inside or on the edge of t.
func inTriangle(t [3]geom.Point, p geom.Point) bool {
	cross := func(a, b, c geom.Point) float64 {
		return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
	}
	d1 := cross(t[0], t[1], p)
	d2 := cross(t[1], t[2], p)
	d3 := cross(t[2], t[0], p)
	neg := d1 < 0 || d2 < 0 || d3 < 0
	pos := d1 > 0 || d2 > 0 || d3 > 0
	return !(neg && pos)
}
