package app

import (
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/irfansharif/panzoom/internal/geom"
	"github.com/irfansharif/panzoom/internal/viewport"
)

func newHeadless(t *testing.T, opts Options) *App {
	t.Helper()
	if opts.Width == 0 {
		opts.Width, opts.Height = 100, 100
	}
	application, err := New(nil /* window */, opts)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(application.Close)
	return application
}

func isWhite(c color.Color) bool {
	r, g, b, _ := c.RGBA()
	return r > 0xf000 && g > 0xf000 && b > 0xf000
}

func absDiff(a, b uint32) uint32 {
	if a > b {
		return a - b
	}
	return b - a
}

func TestRenderPNG(t *testing.T) {
	application := newHeadless(t, Options{})
	path := filepath.Join(t.TempDir(), "frame.png")
	if err := application.RenderPNG(path); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if got := img.Bounds(); got != image.Rect(0, 0, 100, 100) {
		t.Fatalf("bounds = %v", got)
	}
	r, g, b, _ := img.At(75, 80).RGBA()
	if b < 0xf000 || r > 0xa000 || g > 0xa000 {
		t.Errorf("circle pixel = %v, want blue", img.At(75, 80))
	}
	if !isWhite(img.At(10, 10)) {
		t.Errorf("background pixel = %v, want white", img.At(10, 10))
	}
}

func TestInvalidOptions(t *testing.T) {
	if _, err := New(nil, Options{Width: 0, Height: 10}); err == nil {
		t.Error("zero width accepted")
	}
	if _, err := New(nil, Options{Width: 10, Height: 10, ColorMap: "nosuchmap"}); err == nil {
		t.Error("unknown color map accepted")
	}
}

func TestOptions(t *testing.T) {
	bg := color.RGBA{R: 10, G: 20, B: 30, A: 255}
	application := newHeadless(t, Options{
		PanButton:  viewport.ButtonMiddle,
		ScaleRate:  1.5,
		Background: bg,
	})
	if got := application.View.PanButton(); got != viewport.ButtonMiddle {
		t.Errorf("PanButton() = %v", got)
	}
	if got := application.View.ScaleRate(); got != 1.5 {
		t.Errorf("ScaleRate() = %v", got)
	}

	if _, err := application.Paint(); err != nil {
		t.Fatal(err)
	}
	r, g, b, _ := application.Image().At(10, 10).RGBA()
	if r>>8 != 10 || g>>8 != 20 || b>>8 != 30 {
		t.Errorf("background pixel = %v, want %v", application.Image().At(10, 10), bg)
	}
}

func TestPaintOnlyWhenDirty(t *testing.T) {
	application := newHeadless(t, Options{})
	painted, err := application.Paint()
	if err != nil {
		t.Fatal(err)
	}
	if !painted {
		t.Fatal("first Paint() skipped")
	}

	application.View.PanBy(geom.MakePoint(10, 0))
	if !application.Dirty() {
		t.Error("PanBy did not queue a draw")
	}
	if painted, _ := application.Paint(); !painted {
		t.Error("Paint() after PanBy skipped")
	}
}

func TestActiveToggle(t *testing.T) {
	application := newHeadless(t, Options{})
	if err := application.Active.Set(false); err != nil {
		t.Fatal(err)
	}
	if _, err := application.Paint(); err != nil {
		t.Fatal(err)
	}
	if application.View.Active() {
		t.Fatal("view still active")
	}
	if application.View.OnScroll(viewport.ScrollEvent{Position: geom.MakePoint(50, 50), Direction: viewport.ScrollUp}) {
		t.Error("inactive view handled a scroll")
	}
}

func TestColorBar(t *testing.T) {
	application := newHeadless(t, Options{ColorMap: "greys"})
	if _, err := application.Paint(); err != nil {
		t.Fatal(err)
	}
	// The bar spans virtual y in [0, 0.06], the bottom six rows.
	bar := application.Image().At(50, 96)
	r, g, b, _ := bar.RGBA()
	if isWhite(bar) || absDiff(r, g) > 0x300 || absDiff(g, b) > 0x300 {
		t.Errorf("bar pixel = %v, want a grey", bar)
	}

	if err := application.ShowColorBar.Set(false); err != nil {
		t.Fatal(err)
	}
	application.QueueDraw()
	if _, err := application.Paint(); err != nil {
		t.Fatal(err)
	}
	if got := application.Image().At(50, 96); !isWhite(got) {
		t.Errorf("hidden bar pixel = %v, want white", got)
	}
}

func TestHome(t *testing.T) {
	application := newHeadless(t, Options{})
	application.View.SetScale(10)
	application.View.SetOffset(geom.MakePoint(5, 5))
	application.Home()

	b := application.Scene.Bounds()
	if got := application.View.Offset(); got != b.Min() {
		t.Errorf("Offset() = %v, want %v", got, b.Min())
	}
	if got, want := application.View.Scale(), math.Max(b.W, b.H); math.Abs(got-want) > 1e-12 {
		t.Errorf("Scale() = %v, want %v", got, want)
	}
}

func TestRegistry(t *testing.T) {
	application := newHeadless(t, Options{})
	want := []string{ModelActive, ModelBackground, ModelColorBar, ModelView, ModelTitle}
	got := application.Registry.Names()
	if len(got) != len(want) {
		t.Fatalf("Names() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Names() = %v, want %v", got, want)
		}
	}

	application.View.SetScale(4)
	path := filepath.Join(t.TempDir(), "state.json")
	if err := application.Registry.SaveFile(path); err != nil {
		t.Fatal(err)
	}
	other := newHeadless(t, Options{})
	if err := other.Registry.LoadFile(path); err != nil {
		t.Fatal(err)
	}
	if got := other.View.Scale(); got != 4 {
		t.Errorf("restored scale = %v", got)
	}
}
