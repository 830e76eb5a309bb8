package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/gogpu/gg"

	"github.com/irfansharif/panzoom/internal/app"
	"github.com/irfansharif/panzoom/internal/config"
	"github.com/irfansharif/panzoom/internal/render"
	"github.com/irfansharif/panzoom/internal/uistate"
)

const logFlags = log.Ltime | log.Lshortfile

var runtimeLogger *log.Logger = log.New(io.Discard, "", 0)

func init() {
	// OpenGL contexts are tied to specific OS threads - let's pin to just one.
	runtime.LockOSThread()
	log.SetFlags(logFlags)

	if os.Getenv("PANZOOM_DEBUG_RUNTIME") == "1" {
		runtimeLogger = log.New(os.Stdout, "[runtime] ", log.Ltime|log.Lmsgprefix)
	}
	if os.Getenv("PANZOOM_DEBUG_RENDER") == "1" {
		gg.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}
}

func makeTitle(title string, fps float64, avgFrameTime float64, application *app.App, renderStats render.Stats) string {
	view := application.View
	offset := view.Offset()
	return fmt.Sprintf("%s (%.1f FPS, %.2fms/frame, offset (%.3g, %.3g), scale %.3g, %.2fµs/upload)",
		title,
		fps,
		avgFrameTime,
		offset.X, offset.Y,
		view.Scale(),
		renderStats.LastUploadTimeUs,
	)
}

func main() {
	cfg, err := config.Parse(os.Args[1:], os.Getenv)
	if errors.Is(err, flag.ErrHelp) {
		config.Usage(os.Stderr)
		return
	}
	if err != nil {
		log.Fatalf("Invalid arguments: %v", err)
	}

	var store *uistate.Store
	if cfg.SessionPath != "" {
		store, err = uistate.OpenStore(cfg.SessionPath)
		if err != nil {
			log.Fatalf("Failed to open session database: %v", err)
		}
		defer store.Close()
	}

	opts := app.Options{
		Width:      cfg.Width,
		Height:     cfg.Height,
		PanButton:  cfg.PanButton,
		ScaleRate:  cfg.ScaleRate,
		Background: cfg.Background,
		ColorMap:   cfg.ColorMap,
	}

	if cfg.Headless() {
		application, err := app.New(nil /* window */, opts)
		if err != nil {
			log.Fatalf("Failed to create application: %v", err)
		}
		defer application.Close()
		restore(cfg, application, store)
		if err := application.RenderPNG(cfg.RenderPath); err != nil {
			log.Fatalf("Failed to render: %v", err)
		}
		persist(cfg, application, store)
		return
	}

	if err := glfw.Init(); err != nil {
		log.Fatalf("Failed to initialize GLFW: %v", err)
	}
	defer glfw.Terminate()

	// Configure GLFW window hints - use OpenGL 4.1.
	glfw.DefaultWindowHints()
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)

	window, err := glfw.CreateWindow(cfg.Width, cfg.Height, "Panzoom", nil, nil)
	if err != nil {
		log.Fatalf("Failed to create window: %v", err)
	}
	window.MakeContextCurrent()

	if err := gl.Init(); err != nil {
		log.Fatalf("Failed to initialize OpenGL: %v", err)
	}

	application, err := app.New(window, opts)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}
	defer application.Close()
	restore(cfg, application, store)

	// Initialize event handlers.
	eventHandlers := NewEventHandlers(application, store, cfg.SessionName)

	frameCount, frameTimeSum := 0, 0.0
	lastFPSUpdate := time.Now()

	// Main loop.
	for !application.Window.ShouldClose() {
		frameStart := time.Now()

		eventHandlers.handleContinuousPanning()

		w, h := application.Window.GetFramebufferSize()
		gl.Viewport(0, 0, int32(w), int32(h))
		gl.ClearColor(1, 1, 1, 1)
		gl.Clear(gl.COLOR_BUFFER_BIT)

		if err := application.Frame(); err != nil {
			log.Fatalf("Frame error: %v", err)
		}
		application.Window.SwapBuffers()
		glfw.PollEvents()

		frameTime := time.Since(frameStart).Seconds() * 1000.0 // ms
		frameTimeSum += frameTime

		frameCount++
		now := time.Now()
		if now.Sub(lastFPSUpdate) >= time.Second {
			fps := float64(frameCount) / now.Sub(lastFPSUpdate).Seconds()
			avgFrameTime := frameTimeSum / float64(frameCount)
			frameCount, frameTimeSum = 0, 0.0
			lastFPSUpdate = now

			renderStats := application.Presenter.Stats()
			title, _ := application.Title.Get()
			application.Window.SetTitle(makeTitle(title, fps, avgFrameTime, application, renderStats))

			runtimeLogger.Println("=== Performance statistics ===")
			runtimeLogger.Printf("Frame rate:     %.1f FPS (%.2f ms/frame)", fps, avgFrameTime)
			runtimeLogger.Printf("View:           %+v (panning: %t)", application.View.Snapshot(), application.View.Panning())
			runtimeLogger.Printf("Presentation:   %d uploads (%d reallocations), %.2f µs (last upload), %.2f µs (last draw)",
				renderStats.Uploads, renderStats.Reallocations, renderStats.LastUploadTimeUs, renderStats.LastDrawTimeUs)
			runtimeLogger.Println("==============================")
		}
	}

	persist(cfg, application, store)
}

// restore applies the saved session, then the state file, so that an
// explicit -state wins.
func restore(cfg config.Config, application *app.App, store *uistate.Store) {
	if store != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := store.Load(ctx, cfg.SessionName, application.Registry)
		cancel()
		switch {
		case errors.Is(err, uistate.ErrNotFound):
			runtimeLogger.Printf("no saved session %q", cfg.SessionName)
		case err != nil:
			log.Printf("WARNING: restoring session %q: %v", cfg.SessionName, err)
		}
	}
	if cfg.StatePath != "" {
		if err := application.Registry.LoadFile(cfg.StatePath); err != nil {
			log.Fatalf("Failed to load state: %v", err)
		}
	}
}

func persist(cfg config.Config, application *app.App, store *uistate.Store) {
	if cfg.SaveStatePath != "" {
		if err := application.Registry.SaveFile(cfg.SaveStatePath); err != nil {
			log.Printf("WARNING: saving state: %v", err)
		}
	}
	if store != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Save(ctx, cfg.SessionName, application.Registry); err != nil {
			log.Printf("WARNING: saving session %q: %v", cfg.SessionName, err)
		}
	}
}
