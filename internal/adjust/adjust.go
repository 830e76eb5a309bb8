// Package adjust provides bounded numeric cells with change notification.
//
// An Adjustment is the unit of shared state between a viewport and whatever
// else wants to observe or drive it (a slider, a serializer, a second view).
// Value is the in-process implementation; Bind wraps a fyne data binding so
// that fyne widgets can share the same cell.
package adjust

import (
	"math"
	"sync"
)

// Adjustment is a numeric value that can be read, written and observed.
type Adjustment interface {
	// Value returns the current value.
	Value() float64
	// SetValue assigns a new value, clamped to the adjustment's bounds.
	// Non-finite values are ignored.
	SetValue(v float64)
	// Subscribe registers fn to be called with the new value after every
	// change. The returned function cancels the subscription.
	Subscribe(fn func(v float64)) (cancel func())
}

// Range is a closed interval [Lower, Upper].
type Range struct {
	Lower, Upper float64
}

// Clamp limits v to the range.
func (r Range) Clamp(v float64) float64 {
	return math.Max(r.Lower, math.Min(r.Upper, v))
}

// Value is an Adjustment that owns its value.
type Value struct {
	mu     sync.Mutex
	value  float64
	bounds Range

	nextID      int
	subscribers []subscriber
}

type subscriber struct {
	id int
	fn func(float64)
}

var _ Adjustment = (*Value)(nil)

// New creates a Value with the given initial value and bounds. The initial
// value is clamped to the bounds.
func New(value, lower, upper float64) *Value {
	r := Range{Lower: lower, Upper: upper}
	return &Value{
		value:  r.Clamp(value),
		bounds: r,
	}
}

// Value implements Adjustment.
func (a *Value) Value() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.value
}

// Bounds returns the range values are clamped to.
func (a *Value) Bounds() Range {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.bounds
}

// SetValue implements Adjustment. Subscribers only hear about assignments
// that change the stored value.
func (a *Value) SetValue(v float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return
	}

	a.mu.Lock()
	v = a.bounds.Clamp(v)
	if v == a.value {
		a.mu.Unlock()
		return // nothing to do
	}
	a.value = v
	fns := make([]func(float64), len(a.subscribers))
	for i, s := range a.subscribers {
		fns[i] = s.fn
	}
	a.mu.Unlock()

	// Subscribers run without the lock held.
	for _, fn := range fns {
		fn(v)
	}
}

// Subscribe implements Adjustment. Subscribers are notified in the order
// they subscribed.
func (a *Value) Subscribe(fn func(v float64)) (cancel func()) {
	a.mu.Lock()
	defer a.mu.Unlock()

	id := a.nextID
	a.nextID++
	a.subscribers = append(a.subscribers, subscriber{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			a.mu.Lock()
			defer a.mu.Unlock()
			for i, s := range a.subscribers {
				if s.id == id {
					a.subscribers = append(a.subscribers[:i:i], a.subscribers[i+1:]...)
					return
				}
			}
		})
	}
}
