package core

import (
	"testing"
	"time"
)

func TestByteGridBounds(t *testing.T) {
	g := NewByteGrid(4, 3)
	g.Cells()[g.Index(3, 2)] = 1
	g.Cells()[g.Index(0, 1)] = 1

	if !g.InBounds(3, 2) || g.InBounds(4, 0) || g.InBounds(0, -1) {
		t.Fatal("InBounds disagrees with grid dimensions")
	}
	if g.At(3, 2) != 1 || g.At(5, 5) != 0 {
		t.Fatal("At should read cells and treat outside as empty")
	}
	if g.Count() != 2 {
		t.Fatalf("Count = %d, expected 2", g.Count())
	}
	g.Clear()
	if g.Count() != 0 {
		t.Fatal("Clear should empty the grid")
	}

	if z := NewByteGrid(0, -2); z.W != 1 || z.H != 1 {
		t.Fatalf("degenerate sizes should clamp to 1x1, got %dx%d", z.W, z.H)
	}
}

func TestClamp(t *testing.T) {
	size := Size{W: 10, H: 5}
	cases := []struct{ x, y, wx, wy int }{
		{-3, 2, 0, 2},
		{12, -1, 9, 0},
		{4, 9, 4, 4},
		{7, 3, 7, 3},
	}
	for _, tc := range cases {
		if x, y := Clamp(tc.x, tc.y, size); x != tc.wx || y != tc.wy {
			t.Fatalf("Clamp(%d,%d) = (%d,%d), expected (%d,%d)", tc.x, tc.y, x, y, tc.wx, tc.wy)
		}
	}
}

func TestFrameTimer(t *testing.T) {
	now := time.Unix(100, 0)
	ft := NewFrameTimer()
	ft.now = func() time.Time { return now }

	if d := ft.Tick(); d != 0 {
		t.Fatalf("first tick = %s, expected 0", d)
	}
	now = now.Add(16 * time.Millisecond)
	if d := ft.Tick(); d != 16*time.Millisecond {
		t.Fatalf("second tick = %s", d)
	}
	if ft.DT() != 16*time.Millisecond {
		t.Fatalf("DT = %s", ft.DT())
	}
	ft.Reset()
	now = now.Add(time.Second)
	if d := ft.Tick(); d != 0 {
		t.Fatalf("tick after reset = %s, expected 0", d)
	}
}

func TestClampDelta(t *testing.T) {
	if got := ClampDelta(50*time.Millisecond, 0.1); got != 0.05 {
		t.Fatalf("ClampDelta under cap = %f", got)
	}
	if got := ClampDelta(2*time.Second, 0.1); got != 0.1 {
		t.Fatalf("ClampDelta over cap = %f", got)
	}
	if got := ClampDelta(2*time.Second, 0); got != 2 {
		t.Fatalf("ClampDelta uncapped = %f", got)
	}
	if got := ClampDelta(-time.Second, 0.1); got != 0 {
		t.Fatalf("ClampDelta negative = %f", got)
	}
}

func TestFixedStep(t *testing.T) {
	now := time.Unix(0, 0)
	fs := NewFixedStep(10)
	fs.now = func() time.Time { return now }

	if !fs.ShouldStep() {
		t.Fatal("first call should step from the primed accumulator")
	}
	now = now.Add(50 * time.Millisecond)
	if fs.ShouldStep() {
		t.Fatal("half a tick should not step")
	}
	now = now.Add(60 * time.Millisecond)
	if !fs.ShouldStep() {
		t.Fatal("accumulated full tick should step")
	}
	if fs.Step() != 100*time.Millisecond {
		t.Fatalf("Step = %s", fs.Step())
	}
}
