package viewport

import (
	"fmt"
	"image/color"
)

// Canvas is the drawing surface handed to paint handlers. *gg.Context
// satisfies it.
type Canvas interface {
	Push()
	Pop()
	Scale(sx, sy float64)
	Translate(tx, ty float64)
	ClipRect(x, y, w, h float64)

	SetColor(c color.Color)
	SetLineWidth(width float64)

	MoveTo(x, y float64)
	LineTo(x, y float64)
	ClosePath()
	DrawRectangle(x, y, w, h float64)
	DrawCircle(x, y, r float64)

	Fill() error
	FillPreserve() error
	Stroke() error
	StrokePreserve() error
}

// PaintHandler draws in virtual coordinates. It reports whether it handled
// the paint, which stops later handlers from running.
type PaintHandler func(dc Canvas) (handled bool, err error)

type paintHandler struct {
	id int
	fn PaintHandler
}

// ConnectPaint registers a paint handler. The returned function removes it.
func (v *View) ConnectPaint(fn PaintHandler) (disconnect func()) {
	id := v.nextHandlerID
	v.nextHandlerID++
	v.paintHandlers = append(v.paintHandlers, paintHandler{id: id, fn: fn})
	return func() {
		for i, h := range v.paintHandlers {
			if h.id == id {
				v.paintHandlers = append(v.paintHandlers[:i:i], v.paintHandlers[i+1:]...)
				return
			}
		}
	}
}

// OnPaint paints the background and border in device space, then runs the
// paint handlers with dc transformed to virtual coordinates and clipped to
// the area. The transform is restored on return, including when a handler
// fails or panics.
func (v *View) OnPaint(dc Canvas) error {
	w, h := v.size()

	dc.SetColor(v.background)
	dc.DrawRectangle(0, 0, w, h)
	if err := dc.Fill(); err != nil {
		return fmt.Errorf("painting background: %w", err)
	}
	dc.SetColor(color.Black)
	dc.SetLineWidth(1)
	dc.DrawRectangle(0.5, 0.5, w-1, h-1)
	if err := dc.Stroke(); err != nil {
		return fmt.Errorf("painting border: %w", err)
	}

	maxDim := v.MaxDim()
	if maxDim <= 0 {
		return nil // nothing to do
	}
	scale := v.Scale()
	offset := v.Offset()

	dc.Push()
	defer dc.Pop()

	dc.ClipRect(0, 0, w, h)
	dc.Scale(maxDim/scale, -maxDim/scale)
	dc.Translate(0, -scale*h/maxDim)
	dc.Translate(-offset.X, -offset.Y)
	dc.SetLineWidth(scale / maxDim)

	for _, ph := range append([]paintHandler(nil), v.paintHandlers...) {
		handled, err := ph.fn(dc)
		if err != nil {
			return fmt.Errorf("paint handler: %w", err)
		}
		if handled {
			break
		}
	}
	return nil
}
