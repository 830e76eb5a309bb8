package palette

import (
	"image/color"
	"math"
	"testing"
)

func TestParse(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want color.RGBA
	}{
		{"#ff0000", color.RGBA{R: 255, A: 255}},
		{"#0A141E", color.RGBA{R: 10, G: 20, B: 30, A: 255}},
		{"rgb(1,2,3)", color.RGBA{R: 1, G: 2, B: 3, A: 255}},
		{" rgb(255, 128, 0) ", color.RGBA{R: 255, G: 128, A: 255}},
		{"white", color.RGBA{R: 255, G: 255, B: 255, A: 255}},
		{"SteelBlue", color.RGBA{R: 70, G: 130, B: 180, A: 255}},
	} {
		got, err := Parse(tc.in)
		if err != nil {
			t.Errorf("Parse(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("Parse(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}

	for _, bad := range []string{"", "#zzzzzz", "rgb(1,2)", "rgb(1,2,300)", "notacolor"} {
		if _, err := Parse(bad); err == nil {
			t.Errorf("Parse(%q) succeeded", bad)
		}
	}
}

func TestFormatRGB(t *testing.T) {
	c := color.RGBA{R: 12, G: 200, B: 7, A: 255}
	s := FormatRGB(c)
	if s != "rgb(12,200,7)" {
		t.Fatalf("FormatRGB() = %q", s)
	}
	if back, err := Parse(s); err != nil || back != c {
		t.Errorf("Parse(FormatRGB()) = %v, %v", back, err)
	}
}

func TestNamed(t *testing.T) {
	names := Names()
	if len(names) != 10 {
		t.Errorf("Names() = %v", names)
	}
	for _, name := range names {
		m, err := Named(name)
		if err != nil {
			t.Fatal(err)
		}
		if m.Len() < 2 || m.Name() != name {
			t.Errorf("%s: %d supports", name, m.Len())
		}
	}
	if _, err := Named("nope"); err == nil {
		t.Error("Named(nope) succeeded")
	}
}

func TestMapAt(t *testing.T) {
	m, err := Named("greys")
	if err != nil {
		t.Fatal(err)
	}
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	black := color.RGBA{A: 255}

	for _, tc := range []struct {
		x    float64
		want color.RGBA
	}{
		{0, white},
		{1, black},
		{-5, white},
		{7, black},
		{math.NaN(), white},
		{0.5, color.RGBA{R: 0x96, G: 0x96, B: 0x96, A: 255}}, // fifth of nine supports
	} {
		if got := m.At(tc.x); got != tc.want {
			t.Errorf("At(%v) = %v, want %v", tc.x, got, tc.want)
		}
	}

	// Between supports the result lies between its neighbours.
	mid := m.At(0.5 / 8)
	if mid.R >= 0xff || mid.R <= 0xf0 {
		t.Errorf("At(1/16) = %v, want between #ffffff and #f0f0f0", mid)
	}
}

func TestMapRescale(t *testing.T) {
	m, _ := Named("blues")
	r := m.Rescale(-10, 10)
	if lo, hi := r.Range(); lo != -10 || hi != 10 {
		t.Errorf("Range() = %v, %v", lo, hi)
	}
	if lo, hi := m.Range(); lo != 0 || hi != 1 {
		t.Errorf("Rescale modified the receiver: %v, %v", lo, hi)
	}
	if r.At(-10) != m.At(0) || r.At(10) != m.At(1) || r.At(0) != m.At(0.5) {
		t.Error("rescaled map disagrees with the unscaled map")
	}

	// Reversed ranges run the ramp backwards.
	rev := m.Rescale(1, 0)
	if rev.At(1) != m.At(0) || rev.At(0) != m.At(1) {
		t.Error("reversed map not mirrored")
	}

	flat := m.Rescale(3, 3)
	if flat.At(100) != m.At(0) {
		t.Error("empty range should pin to the first support")
	}
}
