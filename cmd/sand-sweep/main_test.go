package main

import (
	"testing"

	"sandfall/internal/sims/sand"
)

func TestPileExtent(t *testing.T) {
	w := sand.New(5, 4)
	if h, wd := pileExtent(w); h != 0 || wd != 0 {
		t.Fatalf("empty world extent = %d,%d", h, wd)
	}
	_ = w.Spawn(1, 3)
	_ = w.Spawn(3, 3)
	_ = w.Spawn(2, 2)
	if h, wd := pileExtent(w); h != 2 || wd != 3 {
		t.Fatalf("extent = %d,%d, expected 2,3", h, wd)
	}
}

func TestRunScenarioSettles(t *testing.T) {
	base := sand.DefaultConfig()
	base.Width = 16
	base.Height = 12

	for _, params := range []paramSet{
		{gravity: 9.81, spawnVelocity: 1, brushRadius: 0},
		{gravity: 4.9, spawnVelocity: 0, brushRadius: 0},
	} {
		res := runScenario(base, params, 10, 2000, 1.0/60)
		if res.grains != 10 {
			t.Fatalf("%s: grains = %d, expected 10", params, res.grains)
		}
		if res.settled < 0 {
			t.Fatalf("%s: pile never settled", params)
		}
		if res.height < 1 || res.height >= base.Height || res.width < 1 {
			t.Fatalf("%s: unexpected extent height=%d width=%d", params, res.height, res.width)
		}
	}
}
