// Package palette provides color parsing and named color maps. Colors are
// handled with go-colorful; maps interpolate between their supports in Lab
// space.
package palette

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Parse reads a color written as "#rrggbb", "rgb(r, g, b)" with components
// in 0..255, or a CSS color name such as "lightsteelblue".
func Parse(s string) (color.RGBA, error) {
	str := strings.ToLower(strings.TrimSpace(s))
	switch {
	case strings.HasPrefix(str, "#"):
		c, err := colorful.Hex(str)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("parsing color %q: %w", s, err)
		}
		return toRGBA(c), nil
	case strings.HasPrefix(str, "rgb(") && strings.HasSuffix(str, ")"):
		parts := strings.Split(str[len("rgb("):len(str)-1], ",")
		if len(parts) != 3 {
			return color.RGBA{}, fmt.Errorf("parsing color %q: want three components", s)
		}
		var rgb [3]uint8
		for i, p := range parts {
			v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 8)
			if err != nil {
				return color.RGBA{}, fmt.Errorf("parsing color %q: %w", s, err)
			}
			rgb[i] = uint8(v)
		}
		return color.RGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: 255}, nil
	}
	if c, ok := colornames.Map[str]; ok {
		return c, nil
	}
	return color.RGBA{}, fmt.Errorf("unknown color %q", s)
}

// FormatRGB writes c in the "rgb(r,g,b)" form Parse accepts. Alpha is
// dropped.
func FormatRGB(c color.Color) string {
	cf, _ := colorful.MakeColor(c)
	r, g, b := cf.Clamped().RGB255()
	return fmt.Sprintf("rgb(%d,%d,%d)", r, g, b)
}

func toRGBA(c colorful.Color) color.RGBA {
	r, g, b := c.Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}
