//go:build !integration

package engine

import "testing"

func TestDraw(t *testing.T) {
	rng := fixedRNG{0.5}

	if Draw(0, rng) {
		t.Fatal("zero probability must never win")
	}
	if Draw(-0.5, rng) {
		t.Fatal("negative probability must never win")
	}
	if !Draw(1, rng) {
		t.Fatal("probability 1 must always win")
	}
	if !Draw(0.6, rng) {
		t.Fatal("draw 0.5 against probability 0.6 should win")
	}
	if Draw(0.4, rng) {
		t.Fatal("draw 0.5 against probability 0.4 should lose")
	}
}
