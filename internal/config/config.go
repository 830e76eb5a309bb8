// Package config parses the panzoom command line.
package config

import (
	"errors"
	"flag"
	"fmt"
	"image/color"
	"io"
	"math"

	"github.com/irfansharif/panzoom/internal/palette"
	"github.com/irfansharif/panzoom/internal/viewport"
)

// SessionEnv names the environment variable supplying the default session
// database.
const SessionEnv = "PANZOOM_SESSION"

// Config holds the options of one run.
type Config struct {
	Width, Height int

	StatePath     string // JSON document applied at startup
	SaveStatePath string // JSON document written on exit
	SessionPath   string // SQLite session database
	SessionName   string
	RenderPath    string // headless: render one frame to this PNG and exit

	PanButton  viewport.Button
	ScaleRate  float64
	Background color.RGBA
	ColorMap   string // empty for none
}

// Headless reports whether the run renders to a file instead of opening a
// window.
func (c Config) Headless() bool { return c.RenderPath != "" }

type flagTargets struct {
	cfg        Config
	panButton  int
	background string
}

func newFlagSet(t *flagTargets, getenv func(string) string) *flag.FlagSet {
	fs := flag.NewFlagSet("panzoom", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.IntVar(&t.cfg.Width, "width", 800, "window width in pixels")
	fs.IntVar(&t.cfg.Height, "height", 600, "window height in pixels")
	fs.StringVar(&t.cfg.StatePath, "state", "", "load UI state from this JSON file")
	fs.StringVar(&t.cfg.SaveStatePath, "save-state", "", "write UI state to this JSON file on exit")
	fs.StringVar(&t.cfg.SessionPath, "session", getenv(SessionEnv), "SQLite session database (default $"+SessionEnv+")")
	fs.StringVar(&t.cfg.SessionName, "session-name", "default", "session to restore and save")
	fs.StringVar(&t.cfg.RenderPath, "render", "", "render one frame to this PNG file and exit")
	fs.IntVar(&t.panButton, "pan-button", int(viewport.ButtonSecondary), "mouse button that pans (1-5)")
	fs.Float64Var(&t.cfg.ScaleRate, "scale-rate", viewport.DefaultScaleRate, "zoom factor per scroll step")
	fs.StringVar(&t.background, "background", "white", "background color (#rrggbb, rgb(r,g,b) or a CSS name)")
	fs.StringVar(&t.cfg.ColorMap, "colormap", "", "show a color bar with this map")
	return fs
}

// Parse parses args (without the program name). getenv supplies
// environment defaults; pass os.Getenv.
func Parse(args []string, getenv func(string) string) (Config, error) {
	var t flagTargets
	fs := newFlagSet(&t, getenv)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return Config{}, err
		}
		return Config{}, fmt.Errorf("parsing flags: %w", err)
	}
	if fs.NArg() > 0 {
		return Config{}, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	cfg := t.cfg
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return Config{}, fmt.Errorf("invalid size %dx%d", cfg.Width, cfg.Height)
	}
	if t.panButton < 1 || t.panButton > 5 {
		return Config{}, fmt.Errorf("invalid pan button %d (want 1-5)", t.panButton)
	}
	cfg.PanButton = viewport.Button(t.panButton)
	if !(cfg.ScaleRate > 0) || math.IsInf(cfg.ScaleRate, 0) {
		return Config{}, fmt.Errorf("invalid scale rate %g", cfg.ScaleRate)
	}
	bg, err := palette.Parse(t.background)
	if err != nil {
		return Config{}, err
	}
	cfg.Background = bg
	if cfg.ColorMap != "" {
		if _, err := palette.Named(cfg.ColorMap); err != nil {
			return Config{}, err
		}
	}
	if cfg.SessionName == "" {
		return Config{}, errors.New("empty session name")
	}
	return cfg, nil
}

// Usage writes the flag documentation to w.
func Usage(w io.Writer) {
	fs := newFlagSet(&flagTargets{}, func(string) string { return "" })
	fs.SetOutput(w)
	fs.PrintDefaults()
}
