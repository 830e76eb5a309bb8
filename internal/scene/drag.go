package scene

import (
	"github.com/irfansharif/panzoom/internal/geom"
	"github.com/irfansharif/panzoom/internal/viewport"
)

// DragTool moves shapes with a pointer button. It claims presses that land
// on a shape, so the view only pans or zooms from empty space (or with a
// different button).
type DragTool struct {
	scene  *Scene
	button viewport.Button

	grabbed *Shape
	last    geom.Point // virtual
}

// NewDragTool returns a tool dragging shapes of sc with button.
func NewDragTool(sc *Scene, button viewport.Button) *DragTool {
	return &DragTool{scene: sc, button: button}
}

// Attach connects the tool to v's button and motion handlers. The returned
// function disconnects it.
func (d *DragTool) Attach(v *viewport.View) (detach func()) {
	disconnectButton := v.ConnectButton(d.onButton)
	disconnectMotion := v.ConnectMotion(d.onMotion)
	return func() {
		disconnectButton()
		disconnectMotion()
		d.grabbed = nil
	}
}

// Grabbed returns the shape being dragged, or nil.
func (d *DragTool) Grabbed() *Shape { return d.grabbed }

func (d *DragTool) onButton(ev viewport.ButtonEvent) bool {
	if ev.Button != d.button {
		return false
	}
	if ev.Release {
		if d.grabbed == nil {
			return false
		}
		d.grabbed = nil
		return true
	}

	d.grabbed = d.scene.Pick(ev.Position)
	if d.grabbed == nil {
		return false
	}
	d.last = ev.Position
	return true
}

func (d *DragTool) onMotion(ev viewport.MotionEvent) bool {
	if d.grabbed == nil {
		return false
	}
	if !ev.Buttons.Has(d.button) {
		d.grabbed = nil // released outside the window
		return false
	}
	d.grabbed.Translate(ev.Position.Sub(d.last))
	d.last = ev.Position
	return true
}
