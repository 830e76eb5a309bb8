package adjust

import (
	"math"
	"sync"

	"fyne.io/fyne/v2/data/binding"
)

// Bound is an Adjustment backed by an externally owned fyne binding, so a
// fyne slider (widget.NewSliderWithData) and a viewport can drive the same
// value.
//
// fyne delivers listener callbacks asynchronously, and also once right after
// a listener is added. Subscribers therefore see the binding's value as of
// the callback, which may be newer than the assignment that triggered it.
type Bound struct {
	data     binding.Float
	bounds   Range
	fallback float64
}

var _ Adjustment = (*Bound)(nil)

// Bind wraps data, clamping writes to [lower, upper]. Reads that fail return
// fallback.
func Bind(data binding.Float, fallback, lower, upper float64) *Bound {
	return &Bound{
		data:     data,
		bounds:   Range{Lower: lower, Upper: upper},
		fallback: fallback,
	}
}

// Value implements Adjustment.
func (b *Bound) Value() float64 {
	v, err := b.data.Get()
	if err != nil {
		return b.fallback
	}
	return v
}

// SetValue implements Adjustment.
func (b *Bound) SetValue(v float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return
	}
	_ = b.data.Set(b.bounds.Clamp(v)) // only fails for bindings over unsettable sources
}

// Subscribe implements Adjustment.
func (b *Bound) Subscribe(fn func(v float64)) (cancel func()) {
	listener := binding.NewDataListener(func() {
		fn(b.Value())
	})
	b.data.AddListener(listener)

	var once sync.Once
	return func() {
		once.Do(func() { b.data.RemoveListener(listener) })
	}
}
