package core

import "testing"

func TestRNGDeterministic(t *testing.T) {
	a, b := NewRNG(7), NewRNG(7)
	for i := 0; i < 64; i++ {
		if a.Chance(0.5) != b.Chance(0.5) {
			t.Fatal("same seed should produce the same sequence")
		}
	}
}

func TestRNGChanceSaturates(t *testing.T) {
	r := NewRNG(1)
	for i := 0; i < 16; i++ {
		if r.Chance(0) || !r.Chance(1) || r.Chance(-2) || !r.Chance(3) {
			t.Fatal("Chance should saturate outside (0, 1)")
		}
	}
}
