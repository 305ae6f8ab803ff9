package engine

import "testing"

func TestDeterminism(t *testing.T) {
	r1 := NewRNG(42)
	r2 := NewRNG(42)
	for i := 0; i < 1000; i++ {
		if r1.Uint32() != r2.Uint32() {
			t.Fatalf("determinism broken at iteration %d", i)
		}
	}
}

func TestDifferentSeeds(t *testing.T) {
	r1 := NewRNG(42)
	r2 := NewRNG(43)
	same := 0
	for i := 0; i < 100; i++ {
		if r1.Uint32() == r2.Uint32() {
			same++
		}
	}
	if same > 5 {
		t.Fatalf("different seeds produced %d/100 identical values", same)
	}
}

func TestZeroSeedResolved(t *testing.T) {
	r := NewRNG(0)
	if r.Seed() == 0 {
		t.Fatal("seed 0 should be replaced with a clock-derived seed")
	}
}

func TestFloat64Bounds(t *testing.T) {
	r := NewRNG(42)
	for i := 0; i < 10000; i++ {
		v := r.Float64()
		if v < 0 || v >= 1 {
			t.Fatalf("Float64() = %f, out of [0, 1)", v)
		}
	}
}

func TestIntnBounds(t *testing.T) {
	r := NewRNG(42)
	for i := 0; i < 10000; i++ {
		v := r.Intn(10)
		if v < 0 || v >= 10 {
			t.Fatalf("Intn(10) = %d, out of [0, 10)", v)
		}
	}
}

func TestIntnNonPositive(t *testing.T) {
	r := NewRNG(42)
	if r.Intn(0) != 0 || r.Intn(-5) != 0 {
		t.Fatal("Intn with n <= 0 should return 0")
	}
}

func TestPickClampsTopOfRange(t *testing.T) {
	// A source returning just below 1 must still land on the last index.
	src := &seqSource{vals: []float64{0.9999999999}}
	if got := pick(src, 4); got != 3 {
		t.Fatalf("pick = %d, want 3", got)
	}
}

func TestUniformRange(t *testing.T) {
	r := NewRNG(7)
	for i := 0; i < 10000; i++ {
		v := uniform(r, -10, 10)
		if v < -10 || v >= 10 {
			t.Fatalf("uniform(-10,10) = %f out of range", v)
		}
	}
}
