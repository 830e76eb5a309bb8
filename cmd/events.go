package main

import (
	"context"
	"log"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/irfansharif/panzoom/internal/app"
	"github.com/irfansharif/panzoom/internal/geom"
	"github.com/irfansharif/panzoom/internal/uistate"
	"github.com/irfansharif/panzoom/internal/viewport"
)

const repeatInterval = 125 * time.Millisecond // time between successive pans when a key is held
const basePanDistance = 100.0                 // device pixels per key pan

// EventHandlers translates GLFW input into viewport events.
type EventHandlers struct {
	application *app.App
	store       *uistate.Store // nil without a session database
	sessionName string

	// J/K/H/L pan through keypresses. They also do so continuously if held.
	panKeyHeld                   bool
	panDirectionX, panDirectionY float64
	lastPanTime                  time.Time

	// Buttons currently held, in viewport numbering.
	buttons viewport.ButtonMask

	// Current pointer position in device pixels.
	cursor geom.Point
}

// NewEventHandlers creates a new event handlers manager.
func NewEventHandlers(application *app.App, store *uistate.Store, sessionName string) *EventHandlers {
	eh := &EventHandlers{
		application: application,
		store:       store,
		sessionName: sessionName,
		lastPanTime: time.Now(),
	}
	eh.SetupCallbacks(application.Window)
	return eh
}

// SetupCallbacks configures all GLFW event callbacks.
func (eh *EventHandlers) SetupCallbacks(window *glfw.Window) {
	window.SetKeyCallback(func(wnd *glfw.Window, key glfw.Key, _ int, action glfw.Action, mods glfw.ModifierKey) {
		eh.handleKey(key, action, mods)
	})
	window.SetMouseButtonCallback(func(wnd *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		eh.handleMouseButton(button, action)
	})
	window.SetCursorPosCallback(func(wnd *glfw.Window, xpos, ypos float64) {
		eh.handleCursorPos(xpos, ypos)
	})
	window.SetScrollCallback(func(wnd *glfw.Window, xoff, yoff float64) {
		eh.handleScroll(xoff, yoff)
	})
	window.SetFramebufferSizeCallback(func(wnd *glfw.Window, newW, newH int) {
		eh.application.QueueDraw() // the canvas follows on the next frame
	})
	window.SetRefreshCallback(func(wnd *glfw.Window) {
		eh.application.QueueDraw()
	})
}

// toDevice converts window coordinates to framebuffer pixels.
func (eh *EventHandlers) toDevice(xpos, ypos float64) geom.Point {
	scaleX, scaleY := eh.application.Window.GetContentScale()
	return geom.MakePoint(xpos*float64(scaleX), ypos*float64(scaleY))
}

// handleKey handles keyboard input events.
func (eh *EventHandlers) handleKey(key glfw.Key, action glfw.Action, mods glfw.ModifierKey) {
	zoomMods := glfw.ModSuper | glfw.ModControl

	switch key {
	case glfw.KeyJ:
		eh.handlePanKeys(action, 0 /*dx*/, -1 /*dy*/) // pan down
	case glfw.KeyK:
		eh.handlePanKeys(action, 0 /*dx*/, 1 /*dy*/) // pan up
	case glfw.KeyH:
		eh.handlePanKeys(action, 1 /*dx*/, 0 /*dy*/) // pan right
	case glfw.KeyL:
		eh.handlePanKeys(action, -1 /*dx*/, 0 /*dy*/) // pan left
	case glfw.KeyEqual:
		if action == glfw.Press && (mods&zoomMods) != 0 {
			eh.performZoom(eh.application.View.ScaleRate()) // zoom in
		}
	case glfw.KeyMinus:
		if action == glfw.Press && (mods&zoomMods) != 0 {
			eh.performZoom(1 / eh.application.View.ScaleRate()) // zoom out
		}
	case glfw.Key0, glfw.KeyHome:
		if action == glfw.Press {
			eh.application.Home()
		}
	case glfw.KeyA:
		if action == glfw.Press {
			active, _ := eh.application.Active.Get()
			_ = eh.application.Active.Set(!active)
		}
	case glfw.KeyB:
		if action == glfw.Press {
			show, _ := eh.application.ShowColorBar.Get()
			_ = eh.application.ShowColorBar.Set(!show)
			eh.application.QueueDraw()
		}
	case glfw.KeyS:
		if action == glfw.Press && (mods&zoomMods) != 0 {
			eh.saveSession()
		}
	case glfw.KeyEscape:
		if action == glfw.Press {
			eh.application.Window.SetShouldClose(true)
		}
	}
}

// handlePanKeys handles j/k/h/l key presses, and also releases for
// continuous panning.
func (eh *EventHandlers) handlePanKeys(action glfw.Action, dx, dy float64) {
	switch action {
	case glfw.Press:
		eh.panKeyHeld = true
		eh.panDirectionX = dx
		eh.panDirectionY = dy
		eh.performPan(dx, dy)
		eh.lastPanTime = time.Now()

	case glfw.Release:
		eh.panKeyHeld = false

	case glfw.Repeat:
		// Ignore repeat events - we handle continuous panning ourselves to
		// ensure consistent timing.
	}
}

// performPan moves the content by a fixed number of device pixels, so a key
// pan covers the same screen distance at every zoom level.
func (eh *EventHandlers) performPan(dx, dy float64) {
	if !eh.application.View.Active() {
		return
	}
	eh.application.View.PanBy(geom.MakePoint(dx*basePanDistance, dy*basePanDistance))
}

// handleContinuousPanning handles continuous panning while pan keys are held.
func (eh *EventHandlers) handleContinuousPanning() {
	if !eh.panKeyHeld {
		return // nothing to do
	}

	now := time.Now()
	if now.Sub(eh.lastPanTime) < repeatInterval {
		return // not enough time has passed since the last pan
	}

	eh.performPan(eh.panDirectionX, eh.panDirectionY)
	eh.lastPanTime = now
}

// performZoom zooms by factor about the cursor.
func (eh *EventHandlers) performZoom(factor float64) {
	if !eh.application.View.Active() {
		return
	}
	eh.application.View.ZoomAt(eh.cursor, factor)
}

// handleMouseButton forwards presses and releases to the view.
func (eh *EventHandlers) handleMouseButton(button glfw.MouseButton, action glfw.Action) {
	b, ok := toButton(button)
	if !ok {
		return // nothing to do
	}

	ev := viewport.ButtonEvent{Position: eh.cursor, Button: b, Buttons: eh.buttons}
	switch action {
	case glfw.Press:
		eh.buttons |= b.Mask()
		eh.application.View.OnButtonPress(ev)
	case glfw.Release:
		eh.buttons &^= b.Mask()
		ev.Release = true
		eh.application.View.OnButtonRelease(ev)
	}
}

// handleCursorPos forwards pointer motion to the view.
func (eh *EventHandlers) handleCursorPos(xpos, ypos float64) {
	eh.cursor = eh.toDevice(xpos, ypos)
	eh.application.View.OnMotion(viewport.MotionEvent{Position: eh.cursor, Buttons: eh.buttons})
}

// handleScroll forwards each scroll step to the view.
func (eh *EventHandlers) handleScroll(xoff, yoff float64) {
	for _, dir := range scrollDirections(xoff, yoff) {
		if !eh.application.View.OnScroll(viewport.ScrollEvent{Position: eh.cursor, Direction: dir}) {
			runtimeLogger.Printf("unhandled scroll %v at %v", dir, eh.cursor)
		}
	}
}

func (eh *EventHandlers) saveSession() {
	if eh.store == nil {
		log.Printf("WARNING: no session database; pass -session or set PANZOOM_SESSION")
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := eh.store.Save(ctx, eh.sessionName, eh.application.Registry); err != nil {
		log.Printf("WARNING: saving session %q: %v", eh.sessionName, err)
		return
	}
	log.Printf("saved session %q", eh.sessionName)
}

// toButton maps GLFW mouse buttons to viewport numbering (1 primary, 2
// middle, 3 secondary).
func toButton(button glfw.MouseButton) (viewport.Button, bool) {
	switch button {
	case glfw.MouseButtonLeft:
		return viewport.ButtonPrimary, true
	case glfw.MouseButtonMiddle:
		return viewport.ButtonMiddle, true
	case glfw.MouseButtonRight:
		return viewport.ButtonSecondary, true
	case glfw.MouseButton4, glfw.MouseButton5:
		return viewport.Button(button + 1), true
	}
	return 0, false
}

// scrollDirections splits a scroll offset into discrete steps, vertical
// first.
func scrollDirections(xoff, yoff float64) []viewport.ScrollDirection {
	var dirs []viewport.ScrollDirection
	switch {
	case yoff > 0:
		dirs = append(dirs, viewport.ScrollUp)
	case yoff < 0:
		dirs = append(dirs, viewport.ScrollDown)
	}
	switch {
	case xoff > 0:
		dirs = append(dirs, viewport.ScrollLeft)
	case xoff < 0:
		dirs = append(dirs, viewport.ScrollRight)
	}
	return dirs
}
