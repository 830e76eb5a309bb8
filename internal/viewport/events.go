package viewport

import (
	"github.com/irfansharif/panzoom/internal/geom"
)

// MotionEvent reports pointer movement. Position is in device pixels when
// delivered to the View and in virtual coordinates when offered to motion
// handlers.
type MotionEvent struct {
	Position geom.Point
	Buttons  ButtonMask // buttons held during the motion
}

// ButtonEvent reports a button press or release. Position follows the same
// convention as MotionEvent.
type ButtonEvent struct {
	Position geom.Point
	Button   Button
	Buttons  ButtonMask // buttons held before the event
	Release  bool
}

// ScrollDirection is the direction of a discrete scroll step.
type ScrollDirection int

const (
	ScrollUp ScrollDirection = iota
	ScrollDown
	ScrollLeft
	ScrollRight
)

// ScrollEvent reports one scroll step at a device position.
type ScrollEvent struct {
	Position  geom.Point
	Direction ScrollDirection
}

// MotionHandler receives motion events in virtual coordinates and reports
// whether it claimed the event.
type MotionHandler func(ev MotionEvent) (claimed bool)

// ButtonHandler receives button events in virtual coordinates and reports
// whether it claimed the event.
type ButtonHandler func(ev ButtonEvent) (claimed bool)

type motionHandler struct {
	id int
	fn MotionHandler
}

type buttonHandler struct {
	id int
	fn ButtonHandler
}

// ConnectMotion registers a motion handler. Handlers run in registration
// order before the built-in pan; the first to claim an event stops the rest.
// The returned function removes the handler.
func (v *View) ConnectMotion(fn MotionHandler) (disconnect func()) {
	id := v.nextHandlerID
	v.nextHandlerID++
	v.motionHandlers = append(v.motionHandlers, motionHandler{id: id, fn: fn})
	return func() {
		for i, h := range v.motionHandlers {
			if h.id == id {
				v.motionHandlers = append(v.motionHandlers[:i:i], v.motionHandlers[i+1:]...)
				return
			}
		}
	}
}

// ConnectButton registers a button handler, with the same ordering and
// claiming rules as ConnectMotion.
func (v *View) ConnectButton(fn ButtonHandler) (disconnect func()) {
	id := v.nextHandlerID
	v.nextHandlerID++
	v.buttonHandlers = append(v.buttonHandlers, buttonHandler{id: id, fn: fn})
	return func() {
		for i, h := range v.buttonHandlers {
			if h.id == id {
				v.buttonHandlers = append(v.buttonHandlers[:i:i], v.buttonHandlers[i+1:]...)
				return
			}
		}
	}
}

// emitMotion offers ev to the motion handlers until one claims it. The
// handler list is snapshotted so handlers may disconnect themselves.
func (v *View) emitMotion(ev MotionEvent) bool {
	for _, h := range append([]motionHandler(nil), v.motionHandlers...) {
		if h.fn(ev) {
			return true
		}
	}
	return false
}

func (v *View) emitButton(ev ButtonEvent) bool {
	for _, h := range append([]buttonHandler(nil), v.buttonHandlers...) {
		if h.fn(ev) {
			return true
		}
	}
	return false
}

// Panning reports whether a pan gesture is in progress.
func (v *View) Panning() bool { return v.panning }

// OnMotion handles pointer movement and reports whether the event was
// claimed, either by a handler or by an active pan.
func (v *View) OnMotion(ev MotionEvent) bool {
	transformed := ev
	transformed.Position = v.TransformPoint(ev.Position)
	if v.emitMotion(transformed) {
		v.host.QueueDraw()
		return true
	}

	if !v.panning || !v.active {
		return false
	}
	if !ev.Buttons.Has(v.panButton) {
		// The release happened somewhere we did not see it.
		viewLogger.Printf("pan button no longer held, ending pan")
		v.panning = false
		return false
	}

	loc := v.RawPoint(ev.Position)
	delta := loc.Sub(v.lastPos)
	v.SetOffset(v.Offset().Sub(delta.Scale(v.unitsPerPixel())))
	v.lastPos = loc
	v.host.QueueDraw()
	return true
}

// OnButtonPress handles a button press and reports whether the event was
// claimed. A press of the pan button that no handler claims starts a pan.
func (v *View) OnButtonPress(ev ButtonEvent) bool {
	ev.Release = false
	transformed := ev
	transformed.Position = v.TransformPoint(ev.Position)
	if v.emitButton(transformed) {
		v.host.QueueDraw()
		return true
	}

	if !v.active || ev.Button != v.panButton {
		return false
	}
	v.panning = true
	v.lastPos = v.RawPoint(ev.Position)
	viewLogger.Printf("pan started at %v", v.lastPos)
	v.host.QueueDraw()
	return true
}

// OnButtonRelease handles a button release. Releasing the pan button ends a
// pan in progress; releases of other buttons do not. The release is then
// offered to the button handlers. It reports whether the event was consumed
// by either.
func (v *View) OnButtonRelease(ev ButtonEvent) bool {
	ev.Release = true
	ended := false
	if v.panning && ev.Button == v.panButton {
		v.panning = false
		ended = true
		viewLogger.Printf("pan ended, offset %v", v.Offset())
	}

	transformed := ev
	transformed.Position = v.TransformPoint(ev.Position)
	if v.emitButton(transformed) {
		v.host.QueueDraw()
		return true
	}
	return ended
}

// OnScroll zooms the view one step about the pointer: scrolling up
// multiplies the scale by the scale rate, scrolling down divides it.
// Horizontal scrolling is not handled and reports unclaimed so the host can
// forward it.
func (v *View) OnScroll(ev ScrollEvent) bool {
	if !v.active {
		return false
	}
	switch ev.Direction {
	case ScrollUp:
		v.ZoomAt(ev.Position, v.ScaleRate())
	case ScrollDown:
		v.ZoomAt(ev.Position, 1/v.ScaleRate())
	default:
		return false
	}
	return true
}

// ZoomAt multiplies the scale by factor while keeping the virtual point under
// the device point anchor at the same pixel.
func (v *View) ZoomAt(anchor geom.Point, factor float64) {
	raw := v.RawPoint(anchor)
	center := v.TransformPoint(anchor)

	v.SetScale(v.Scale() * factor)

	// center = offset + raw*scale/maxDim, solved for offset under the new
	// (possibly clamped) scale.
	v.SetOffset(center.Sub(raw.Scale(v.unitsPerPixel())))
	v.host.QueueDraw()
}

// PanBy shifts the view so that content moves by delta device pixels, as if
// dragged with the pan button.
func (v *View) PanBy(delta geom.Point) {
	raw := geom.MakePoint(delta.X, -delta.Y)
	v.SetOffset(v.Offset().Sub(raw.Scale(v.unitsPerPixel())))
	v.host.QueueDraw()
}
