// Package viewport implements a pan/zoom drawing area.
//
// A View maps device pixels (origin top-left, y down) to a virtual cartesian
// plane (y up) through an offset and a scale:
//
//	raw     = (device.x, height - device.y)
//	virtual = offset + raw * (scale / max(width, height))
//
// offset is the virtual coordinate of the bottom-left pixel and scale is the
// virtual length of the longer side of the area. Pointer events pan the
// view with the pan button held and zoom it with the scroll wheel, keeping
// the virtual point under the cursor fixed. Paint handlers draw in virtual
// coordinates; the View configures the Canvas transform before calling
// them.
//
// The four values (offset x, offset y, scale, scale rate) live in
// adjust.Adjustment cells, either owned by the View or supplied by the
// embedding code so other controls can observe and drive them.
//
// A View is not safe for concurrent use; it belongs to the event loop of its
// host.
package viewport

import (
	"image/color"
	"io"
	"log"
	"math"
	"os"

	"github.com/irfansharif/panzoom/internal/adjust"
	"github.com/irfansharif/panzoom/internal/geom"
)

var viewLogger *log.Logger = log.New(io.Discard, "", 0)

func init() {
	if os.Getenv("PANZOOM_DEBUG_VIEW") == "1" {
		viewLogger = log.New(os.Stdout, "[view] ", log.Ltime|log.Lmsgprefix)
	}
}

// Defaults and bounds for the adjustments a View creates for itself.
const (
	DefaultOffset    = 0.0
	DefaultScale     = 1.0
	DefaultScaleRate = 1.05

	offsetLimit  = 1e9
	minScale     = 1e-9
	maxScale     = 1e9
	minScaleRate = 1e-6
	maxScaleRate = 10
)

// Host is the widget a View is embedded in.
type Host interface {
	// Size returns the current drawable size in device pixels. It is
	// queried on every conversion, so it must reflect live resizes.
	Size() (width, height int)
	// QueueDraw asks the host to repaint at its next opportunity.
	QueueDraw()
}

// Button identifies a pointer button. The numbering follows the X11/GDK
// convention.
type Button int

const (
	ButtonPrimary   Button = 1
	ButtonMiddle    Button = 2
	ButtonSecondary Button = 3
)

// ButtonMask is the set of buttons held during an event.
type ButtonMask uint

// Mask returns the mask bit for b, or 0 for buttons outside 1..16.
func (b Button) Mask() ButtonMask {
	if b < 1 || b > 16 {
		return 0
	}
	return 1 << uint(b-1)
}

// Has reports whether b is held.
func (m ButtonMask) Has(b Button) bool { return b.Mask() != 0 && m&b.Mask() != 0 }

// State is a value copy of the persistent viewport parameters.
type State struct {
	Offset    geom.Point
	Scale     float64
	ScaleRate float64
}

// View is the pan/zoom state of one drawing area.
type View struct {
	host Host

	offsetX, offsetY adjust.Adjustment
	scale            adjust.Adjustment
	scaleRate        adjust.Adjustment
	offsetCancels    []func()
	scaleCancels     []func()

	panning   bool
	lastPos   geom.Point // raw (cartesian) pointer position during a pan
	panButton Button
	active    bool

	background color.Color

	nextHandlerID  int
	motionHandlers []motionHandler
	buttonHandlers []buttonHandler
	paintHandlers  []paintHandler
}

// Option configures a View at construction.
type Option func(*options)

type options struct {
	offsetX, offsetY adjust.Adjustment
	scale, scaleRate adjust.Adjustment
	offsetsSupplied  bool
	scalesSupplied   bool
	panButton        Button
	background       color.Color
}

// WithOffsetAdjustments binds the offset to externally owned adjustments.
// A nil adjustment leaves that component unbound: it reads as 0 and ignores
// writes.
func WithOffsetAdjustments(x, y adjust.Adjustment) Option {
	return func(o *options) {
		o.offsetX, o.offsetY = x, y
		o.offsetsSupplied = true
	}
}

// WithScaleAdjustments binds the scale and scale rate to externally owned
// adjustments. A nil adjustment is unbound: scale reads as 1 and scale rate
// as DefaultScaleRate, and writes are ignored.
func WithScaleAdjustments(scale, rate adjust.Adjustment) Option {
	return func(o *options) {
		o.scale, o.scaleRate = scale, rate
		o.scalesSupplied = true
	}
}

// WithPanButton selects the button that pans the view.
func WithPanButton(b Button) Option {
	return func(o *options) { o.panButton = b }
}

// WithBackground sets the color painted behind the paint handlers.
func WithBackground(c color.Color) Option {
	return func(o *options) { o.background = c }
}

// NewOffsetAdjustment returns an adjustment with the bounds a View uses for
// its own offset components.
func NewOffsetAdjustment(value float64) *adjust.Value {
	return adjust.New(value, -offsetLimit, offsetLimit)
}

// NewScaleAdjustment returns an adjustment with the bounds a View uses for
// its own scale.
func NewScaleAdjustment(value float64) *adjust.Value {
	return adjust.New(value, minScale, maxScale)
}

// NewScaleRateAdjustment returns an adjustment with the bounds a View uses
// for its own scale rate.
func NewScaleRateAdjustment(value float64) *adjust.Value {
	return adjust.New(value, minScaleRate, maxScaleRate)
}

// New creates a View embedded in host.
func New(host Host, opts ...Option) *View {
	o := options{
		panButton:  ButtonSecondary,
		background: color.White,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if !o.offsetsSupplied {
		o.offsetX = NewOffsetAdjustment(DefaultOffset)
		o.offsetY = NewOffsetAdjustment(DefaultOffset)
	}
	if !o.scalesSupplied {
		o.scale = NewScaleAdjustment(DefaultScale)
		o.scaleRate = NewScaleRateAdjustment(DefaultScaleRate)
	}

	v := &View{
		host:       host,
		panButton:  o.panButton,
		active:     true,
		background: o.background,
	}
	v.SetOffsetAdjustments(o.offsetX, o.offsetY)
	v.SetScaleAdjustments(o.scale, o.scaleRate)
	return v
}

// SetOffsetAdjustments rebinds the offset. Changes to the new adjustments
// queue a redraw; subscriptions to the previous ones are released.
func (v *View) SetOffsetAdjustments(x, y adjust.Adjustment) {
	for _, cancel := range v.offsetCancels {
		cancel()
	}
	v.offsetX, v.offsetY = x, y
	v.offsetCancels = v.watch(x, y)
	v.host.QueueDraw()
}

// SetScaleAdjustments rebinds the scale and scale rate. Only scale changes
// queue a redraw; the rate has no visible effect.
func (v *View) SetScaleAdjustments(scale, rate adjust.Adjustment) {
	for _, cancel := range v.scaleCancels {
		cancel()
	}
	v.scale, v.scaleRate = scale, rate
	v.scaleCancels = v.watch(scale)
	v.host.QueueDraw()
}

func (v *View) watch(adjs ...adjust.Adjustment) []func() {
	var cancels []func()
	for _, a := range adjs {
		if a == nil {
			continue
		}
		cancels = append(cancels, a.Subscribe(func(float64) { v.host.QueueDraw() }))
	}
	return cancels
}

// Close releases the View's subscriptions to its adjustments and drops all
// registered handlers. The adjustments themselves are left untouched.
func (v *View) Close() {
	for _, cancel := range v.offsetCancels {
		cancel()
	}
	for _, cancel := range v.scaleCancels {
		cancel()
	}
	v.offsetCancels, v.scaleCancels = nil, nil
	v.motionHandlers, v.buttonHandlers, v.paintHandlers = nil, nil, nil
}

// Offset returns the virtual coordinate of the bottom-left device pixel.
func (v *View) Offset() geom.Point {
	p := geom.MakePoint(DefaultOffset, DefaultOffset)
	if v.offsetX != nil {
		p.X = v.offsetX.Value()
	}
	if v.offsetY != nil {
		p.Y = v.offsetY.Value()
	}
	return p
}

// SetOffset moves the view. Non-finite offsets are ignored.
func (v *View) SetOffset(offset geom.Point) {
	if !offset.IsFinite() {
		viewLogger.Printf("rejecting offset %v", offset)
		return
	}
	if v.offsetX != nil {
		v.offsetX.SetValue(offset.X)
	}
	if v.offsetY != nil {
		v.offsetY.SetValue(offset.Y)
	}
}

// Scale returns the virtual length of the longer side of the area.
func (v *View) Scale() float64 {
	if v.scale == nil {
		return DefaultScale
	}
	return v.scale.Value()
}

// SetScale zooms the view about its bottom-left corner. Non-positive and
// non-finite values are ignored.
func (v *View) SetScale(scale float64) {
	if !(scale > 0) || math.IsInf(scale, 0) {
		viewLogger.Printf("rejecting scale %g", scale)
		return
	}
	if v.scale != nil {
		v.scale.SetValue(scale)
	}
}

// ScaleRate returns the factor applied to the scale per scroll step.
func (v *View) ScaleRate() float64 {
	if v.scaleRate == nil {
		return DefaultScaleRate
	}
	return v.scaleRate.Value()
}

// SetScaleRate sets the per-step zoom factor. Non-positive and non-finite
// values are ignored and the previous rate is kept.
func (v *View) SetScaleRate(rate float64) {
	if !(rate > 0) || math.IsInf(rate, 0) {
		viewLogger.Printf("rejecting scale rate %g", rate)
		return
	}
	if v.scaleRate != nil {
		v.scaleRate.SetValue(rate)
	}
}

// FitBox shows the box spanned by bottomLeft and topRight: the offset moves
// to bottomLeft and the scale becomes the box's longer side. The box is
// neither centered nor letterboxed.
func (v *View) FitBox(bottomLeft, topRight geom.Point) {
	v.SetOffset(bottomLeft)
	dims := topRight.Sub(bottomLeft)
	v.SetScale(math.Max(dims.X, dims.Y))
}

// PanButton returns the button that pans the view.
func (v *View) PanButton() Button { return v.panButton }

// SetPanButton selects the button that pans the view. A pan in progress is
// abandoned.
func (v *View) SetPanButton(b Button) {
	v.panButton = b
	v.panning = false
}

// Active reports whether the built-in pan and zoom behavior is enabled.
func (v *View) Active() bool { return v.active }

// SetActive enables or disables the built-in pan and zoom behavior. Events
// are still offered to registered handlers while inactive.
func (v *View) SetActive(active bool) {
	v.active = active
	if !active {
		v.panning = false
	}
}

// Background returns the color painted behind the paint handlers.
func (v *View) Background() color.Color { return v.background }

// SetBackground sets the color painted behind the paint handlers.
func (v *View) SetBackground(c color.Color) {
	if c == nil {
		c = color.White
	}
	v.background = c
	v.host.QueueDraw()
}

// Snapshot returns the persistent parameters of the view.
func (v *View) Snapshot() State {
	return State{
		Offset:    v.Offset(),
		Scale:     v.Scale(),
		ScaleRate: v.ScaleRate(),
	}
}

// Restore applies a snapshot through the regular setters, so invalid
// fields are ignored individually.
func (v *View) Restore(s State) {
	v.SetOffset(s.Offset)
	v.SetScale(s.Scale)
	v.SetScaleRate(s.ScaleRate)
}
