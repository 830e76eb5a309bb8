package app

import (
	"fmt"
	"image"
	"image/color"
	"log"
	"sync/atomic"

	"fyne.io/fyne/v2/data/binding"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/gogpu/gg"

	"github.com/irfansharif/panzoom/internal/adjust"
	"github.com/irfansharif/panzoom/internal/geom"
	"github.com/irfansharif/panzoom/internal/palette"
	"github.com/irfansharif/panzoom/internal/render"
	"github.com/irfansharif/panzoom/internal/scene"
	"github.com/irfansharif/panzoom/internal/uistate"
	"github.com/irfansharif/panzoom/internal/viewport"
)

// Names of the models saved with a session.
const (
	ModelView       = "panzoom"
	ModelActive     = "active"
	ModelColorBar   = "colorbar"
	ModelBackground = "background"
	ModelTitle      = "title"
)

const defaultTitle = "Panzoom"

var _ viewport.Host = (*App)(nil)
var _ viewport.Canvas = (*gg.Context)(nil)

// colorBarBox is where the color bar sits, in virtual coordinates, below
// the demo shapes.
var colorBarBox = geom.MakeBox(0.1, 0.0, 0.8, 0.06)

// Options configures an App.
type Options struct {
	Width, Height int // headless size; windowed apps follow the framebuffer
	PanButton     viewport.Button
	ScaleRate     float64
	Background    color.Color
	ColorMap      string // empty for none
}

// App encapsulates the main application state and logic.
type App struct {
	Window    *glfw.Window // nil when headless
	View      *viewport.View
	Scene     *scene.Scene
	Canvas    *gg.Context
	Presenter *render.Presenter // nil when headless
	Registry  *uistate.Registry

	// UI models shared with the registry.
	Active       binding.Bool
	ShowColorBar binding.Bool
	Title        binding.String

	width, height int
	dirty         atomic.Bool
	colorBar      []*scene.Shape
	detachDrag    func()
}

// New creates the application. With a nil window it runs headless at the
// size in opts; otherwise the window's GL context must be current.
func New(window *glfw.Window, opts Options) (*App, error) {
	app := &App{
		Window:       window,
		Scene:        scene.Demo(),
		Registry:     uistate.NewRegistry(),
		Active:       binding.NewBool(),
		ShowColorBar: binding.NewBool(),
		Title:        binding.NewString(),
		width:        opts.Width,
		height:       opts.Height,
	}
	_ = app.Active.Set(true)
	_ = app.Title.Set(defaultTitle)

	if opts.ColorMap != "" {
		m, err := palette.Named(opts.ColorMap)
		if err != nil {
			return nil, err
		}
		app.colorBar = scene.ColorBar(m, colorBarBox, 64)
		_ = app.ShowColorBar.Set(true)
	}

	w, h := app.Size()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("invalid canvas size %dx%d", w, h)
	}

	scaleRate := opts.ScaleRate
	if scaleRate == 0 {
		scaleRate = viewport.DefaultScaleRate
	}
	viewOpts := []viewport.Option{
		viewport.WithOffsetAdjustments(
			bindFloat(viewport.DefaultOffset, -1e9, 1e9),
			bindFloat(viewport.DefaultOffset, -1e9, 1e9),
		),
		viewport.WithScaleAdjustments(
			bindFloat(viewport.DefaultScale, 1e-9, 1e9),
			bindFloat(scaleRate, 1e-6, 10),
		),
	}
	if opts.PanButton != 0 {
		viewOpts = append(viewOpts, viewport.WithPanButton(opts.PanButton))
	}
	if opts.Background != nil {
		viewOpts = append(viewOpts, viewport.WithBackground(opts.Background))
	}
	app.View = viewport.New(app, viewOpts...)
	app.Canvas = gg.NewContext(w, h)

	app.View.ConnectPaint(app.Scene.Paint)
	app.View.ConnectPaint(app.paintColorBar)
	app.detachDrag = scene.NewDragTool(app.Scene, viewport.ButtonPrimary).Attach(app.View)

	app.Registry.AddView(ModelView, app.View)
	app.Registry.AddToggle(ModelActive, app.Active)
	app.Registry.AddToggle(ModelColorBar, app.ShowColorBar)
	app.Registry.AddColor(ModelBackground, app.View.Background, app.View.SetBackground)
	app.Registry.AddText(ModelTitle, app.Title)

	if window != nil {
		presenter, err := render.NewPresenter()
		if err != nil {
			app.detachDrag()
			app.View.Close()
			app.Canvas.Close()
			return nil, fmt.Errorf("creating presenter: %w", err)
		}
		app.Presenter = presenter
	}
	app.QueueDraw()
	return app, nil
}

func bindFloat(value, lower, upper float64) *adjust.Bound {
	data := binding.NewFloat()
	_ = data.Set(value) // in-memory bindings never fail
	return adjust.Bind(data, value, lower, upper)
}

// Size implements viewport.Host.
func (app *App) Size() (int, int) {
	if app.Window != nil {
		return app.Window.GetFramebufferSize()
	}
	return app.width, app.height
}

// QueueDraw implements viewport.Host. It may be called from binding
// listeners running on other goroutines.
func (app *App) QueueDraw() { app.dirty.Store(true) }

// Dirty reports whether a repaint is pending.
func (app *App) Dirty() bool { return app.dirty.Load() }

// Home fits the view to the scene.
func (app *App) Home() {
	b := app.Scene.Bounds()
	app.View.FitBox(b.Min(), b.Max())
}

// sync applies UI model values that are read rather than observed.
func (app *App) sync() {
	if active, err := app.Active.Get(); err == nil && active != app.View.Active() {
		app.View.SetActive(active)
	}
}

func (app *App) paintColorBar(dc viewport.Canvas) (bool, error) {
	if show, _ := app.ShowColorBar.Get(); !show {
		return false, nil
	}
	for _, cell := range app.colorBar {
		if err := cell.Paint(dc); err != nil {
			return false, err
		}
	}
	return false, nil
}

// Paint repaints the canvas if needed and reports whether it did.
func (app *App) Paint() (bool, error) {
	app.sync()
	if !app.dirty.Swap(false) {
		return false, nil
	}

	w, h := app.Size()
	if w <= 0 || h <= 0 {
		return false, nil // minimized
	}
	if w != app.Canvas.Width() || h != app.Canvas.Height() {
		if err := app.Canvas.Resize(w, h); err != nil {
			return false, fmt.Errorf("resizing canvas to %dx%d: %w", w, h, err)
		}
	}
	if err := app.View.OnPaint(app.Canvas); err != nil {
		return false, err
	}
	return true, nil
}

// Frame paints if needed and presents the canvas to the window.
func (app *App) Frame() error {
	painted, err := app.Paint()
	if err != nil {
		return err
	}
	if app.Presenter == nil {
		return nil
	}
	if painted {
		app.Presenter.Upload(app.Canvas.Image())
	}
	w, h := app.Size()
	app.Presenter.Draw(w, h)
	return nil
}

// Image returns the last painted frame.
func (app *App) Image() image.Image { return app.Canvas.Image() }

// RenderPNG paints one frame and writes it to path.
func (app *App) RenderPNG(path string) error {
	app.QueueDraw()
	if _, err := app.Paint(); err != nil {
		return err
	}
	if err := app.Canvas.SavePNG(path); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Close releases the application's resources.
func (app *App) Close() {
	app.detachDrag()
	app.View.Close()
	if app.Presenter != nil {
		app.Presenter.Delete()
	}
	if err := app.Canvas.Close(); err != nil {
		log.Printf("WARNING: closing canvas: %v", err)
	}
}
