package adjust

import (
	"math"
	"testing"
	"time"

	"fyne.io/fyne/v2/data/binding"
)

func TestValueClamps(t *testing.T) {
	a := New(5, 0, 10)
	for _, tc := range []struct {
		set, want float64
	}{
		{3, 3},
		{-1, 0},
		{11, 10},
		{math.NaN(), 10},
		{math.Inf(-1), 10},
	} {
		a.SetValue(tc.set)
		if got := a.Value(); got != tc.want {
			t.Errorf("SetValue(%v): Value() = %v, want %v", tc.set, got, tc.want)
		}
	}

	if got := New(100, 0, 10).Value(); got != 10 {
		t.Errorf("initial value not clamped: %v", got)
	}
}

func TestValueNotifiesOnChangeOnly(t *testing.T) {
	a := New(1, 0, 10)
	var seen []float64
	cancel := a.Subscribe(func(v float64) { seen = append(seen, v) })

	a.SetValue(2)
	a.SetValue(2) // unchanged
	a.SetValue(20)
	a.SetValue(10) // clamped value unchanged
	cancel()
	a.SetValue(3)

	want := []float64{2, 10}
	if len(seen) != len(want) {
		t.Fatalf("notifications = %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("notifications = %v, want %v", seen, want)
		}
	}
}

func TestValueSubscriberOrderAndReentrancy(t *testing.T) {
	a := New(0, -10, 10)
	var order []string
	cancelFirst := a.Subscribe(func(float64) { order = append(order, "first") })
	a.Subscribe(func(v float64) {
		order = append(order, "second")
		if v > 5 {
			a.SetValue(5) // reentrant write must not deadlock
		}
	})

	a.SetValue(1)
	cancelFirst()
	cancelFirst() // idempotent
	a.SetValue(7)

	if got := a.Value(); got != 5 {
		t.Errorf("Value() = %v, want 5", got)
	}
	want := []string{"first", "second", "second", "second"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestBoundSharesBinding(t *testing.T) {
	data := binding.NewFloat()
	b := Bind(data, 1, 0.5, 2)

	b.SetValue(10)
	if got, _ := data.Get(); got != 2 {
		t.Errorf("binding holds %v, want clamped 2", got)
	}

	if err := data.Set(1.5); err != nil {
		t.Fatal(err)
	}
	if got := b.Value(); got != 1.5 {
		t.Errorf("Value() = %v, want 1.5", got)
	}
}

func TestBoundSubscribe(t *testing.T) {
	data := binding.NewFloat()
	b := Bind(data, 0, -100, 100)

	changed := make(chan float64, 16)
	cancel := b.Subscribe(func(v float64) { changed <- v })
	defer cancel()

	b.SetValue(42)
	deadline := time.After(2 * time.Second)
	for {
		select {
		case v := <-changed:
			if v == 42 {
				return
			}
		case <-deadline:
			t.Fatal("no notification for external write")
		}
	}
}
