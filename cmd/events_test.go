package main

import (
	"testing"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/irfansharif/panzoom/internal/viewport"
)

func TestToButton(t *testing.T) {
	for _, tc := range []struct {
		in   glfw.MouseButton
		want viewport.Button
		ok   bool
	}{
		{glfw.MouseButtonLeft, viewport.ButtonPrimary, true},
		{glfw.MouseButtonMiddle, viewport.ButtonMiddle, true},
		{glfw.MouseButtonRight, viewport.ButtonSecondary, true},
		{glfw.MouseButton4, 4, true},
		{glfw.MouseButton5, 5, true},
		{glfw.MouseButton8, 0, false},
	} {
		got, ok := toButton(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Errorf("toButton(%v) = %v, %v; want %v, %v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestScrollDirections(t *testing.T) {
	for _, tc := range []struct {
		xoff, yoff float64
		want       []viewport.ScrollDirection
	}{
		{0, 1, []viewport.ScrollDirection{viewport.ScrollUp}},
		{0, -2.5, []viewport.ScrollDirection{viewport.ScrollDown}},
		{1, 0, []viewport.ScrollDirection{viewport.ScrollLeft}},
		{-1, 1, []viewport.ScrollDirection{viewport.ScrollUp, viewport.ScrollRight}},
		{0, 0, nil},
	} {
		got := scrollDirections(tc.xoff, tc.yoff)
		if len(got) != len(tc.want) {
			t.Errorf("scrollDirections(%v, %v) = %v, want %v", tc.xoff, tc.yoff, got, tc.want)
			continue
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Errorf("scrollDirections(%v, %v) = %v, want %v", tc.xoff, tc.yoff, got, tc.want)
			}
		}
	}
}
