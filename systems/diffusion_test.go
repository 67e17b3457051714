package systems

import (
	"math"
	"math/rand/v2"
	"testing"
)

func TestDiffuseEdgeBias(t *testing.T) {
	for k := 1; k <= 3; k++ {
		f := NewField(12, 12)
		f.Fill(1)
		f.TakeSnapshot()

		p := DefaultParams()
		p.DecayRate = 1
		p.DiffusionRate = 1
		p.DiffusionSize = k
		DiffuseAll(f, &p)

		if got := f.At(6, 6); got != 1 {
			t.Errorf("k=%d: expected interior cell to stay 1, got %v", k, got)
		}

		area := float64((2*k + 1) * (2*k + 1))
		corner := float64((k+1)*(k+1)) / area
		if got := f.At(0, 0); got >= 1 || math.Abs(float64(got)-corner) > 1e-6 {
			t.Errorf("k=%d: expected corner %v, got %v", k, corner, got)
		}
		edge := float64((k+1)*(2*k+1)) / area
		if got := f.At(0, 6); math.Abs(float64(got)-edge) > 1e-6 {
			t.Errorf("k=%d: expected edge %v, got %v", k, edge, got)
		}
	}
}

func TestDiffuseReadsSnapshot(t *testing.T) {
	f := NewField(5, 5)
	f.Set(2, 2, 1) // live only; snapshot stays zero

	p := DefaultParams()
	p.DecayRate = 1
	p.DiffusionRate = 1
	DiffuseAll(f, &p)

	if mass := f.TotalMass(); mass != 0 {
		t.Errorf("expected full blend toward an empty snapshot to clear the field, got mass %v", mass)
	}
}

func TestDiffuseBlendAndDecay(t *testing.T) {
	f := NewField(7, 7)
	for i := range f.Snapshot {
		f.Snapshot[i] = 1
	}

	p := DefaultParams()
	p.DiffusionRate = 0.5
	p.DecayRate = 0.9
	DiffuseAll(f, &p)

	// live 0, blur 1: (0 + (1-0)*0.5) * 0.9
	if got := f.At(3, 3); math.Abs(float64(got)-0.45) > 1e-6 {
		t.Errorf("expected 0.45, got %v", got)
	}

	g := NewField(3, 3)
	g.Fill(0.8)
	p.DiffusionRate = 0
	p.DecayRate = 0.5
	DiffuseAll(g, &p)
	if got := g.At(1, 1); math.Abs(float64(got)-0.4) > 1e-6 {
		t.Errorf("expected zero rate to only decay 0.8 to 0.4, got %v", got)
	}
}

func TestDiffuseRowOrderIndependent(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 6))
	a := NewField(33, 21)
	for i := range a.Live {
		a.Live[i] = rng.Float32()
	}
	a.TakeSnapshot()

	b := NewField(33, 21)
	copy(b.Live, a.Live)
	copy(b.Snapshot, a.Snapshot)

	p := DefaultParams()
	p.DiffusionSize = 2
	DiffuseAll(a, &p)

	// Same rows, reversed and in uneven chunks.
	bounds := []int{21, 17, 9, 8, 3, 0}
	for i := 0; i < len(bounds)-1; i++ {
		DiffuseRows(b, bounds[i+1], bounds[i], &p)
	}

	for i := range a.Live {
		if a.Live[i] != b.Live[i] {
			t.Fatalf("cell %d: %v vs %v", i, a.Live[i], b.Live[i])
		}
	}
}
