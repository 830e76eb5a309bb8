package palette

import (
	"fmt"
	"image/color"
	"math"
	"sort"

	"github.com/lucasb-eyer/go-colorful"
)

// Map is a color ramp over a numeric range. The supports are spread evenly
// across the range, and values between two supports are blended. The zero
// Map is not usable; obtain one from Named.
type Map struct {
	name     string
	supports []colorful.Color
	min, max float64
}

// Names returns the names of the built-in maps, sorted.
func Names() []string {
	names := make([]string, 0, len(tables))
	for name := range tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Named returns the built-in map called name over the range [0, 1].
func Named(name string) (Map, error) {
	supports, ok := tables[name]
	if !ok {
		return Map{}, fmt.Errorf("unknown color map %q", name)
	}
	return Map{name: name, supports: supports, min: 0, max: 1}, nil
}

// Name returns the map's name.
func (m Map) Name() string { return m.name }

// Len returns the number of supports.
func (m Map) Len() int { return len(m.supports) }

// Range returns the values mapped to the first and last support.
func (m Map) Range() (min, max float64) { return m.min, m.max }

// Rescale returns a copy of m spanning [min, max]. The supports are shared.
func (m Map) Rescale(min, max float64) Map {
	m.min, m.max = min, max
	return m
}

// At returns the color for x. Values outside the range, and NaN, take the
// color of the nearest end.
func (m Map) At(x float64) color.RGBA {
	n := len(m.supports)
	if n == 0 {
		return color.RGBA{A: 255}
	}
	if n == 1 || m.max == m.min {
		return toRGBA(m.supports[0])
	}

	t := (x - m.min) / (m.max - m.min)
	if math.IsNaN(t) {
		t = 0
	}
	pos := clamp(t, 0, 1) * float64(n-1)
	lo := int(math.Floor(pos))
	if lo >= n-1 {
		return toRGBA(m.supports[n-1])
	}
	frac := pos - float64(lo)
	if frac == 0 {
		return toRGBA(m.supports[lo])
	}
	return toRGBA(m.supports[lo].BlendLab(m.supports[lo+1], frac))
}
