package telemetry

import (
	"math"
	"testing"
	"time"
)

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"empty slice", []float64{}, 0.5, 0},
		{"single element", []float64{5.0}, 0.5, 5.0},
		{"p0", []float64{1, 2, 3, 4, 5}, 0.0, 1.0},
		{"p100", []float64{1, 2, 3, 4, 5}, 1.0, 5.0},
		{"p50 odd", []float64{1, 2, 3, 4, 5}, 0.5, 2.5},
		{"p50 even", []float64{1, 2, 3, 4}, 0.5, 2.0},
		{"p25 interpolated", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.25, 2.5},
		{"p90", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.9, 9.0},
		{"below range", []float64{1, 2, 3}, -0.5, 1.0},
		{"above range", []float64{1, 2, 3}, 1.5, 3.0},
		{"NaN p", []float64{1, 2, 3}, math.NaN(), 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentile(tt.sorted, tt.p)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("Percentile(%v, %v) = %v, want %v", tt.sorted, tt.p, got, tt.want)
			}
		})
	}
}

func TestSampleField(t *testing.T) {
	data := make([]float32, 100)
	for i := range data {
		data[i] = float32(i)
	}

	all := SampleField(nil, data, 0)
	if len(all) != 100 {
		t.Errorf("expected every cell, got %d", len(all))
	}

	some := SampleField(nil, data, 10)
	if len(some) != 10 {
		t.Fatalf("expected 10 samples, got %d", len(some))
	}
	if some[1] != 10 {
		t.Errorf("expected stride 10, second sample %v", some[1])
	}

	if got := SampleField(nil, nil, 10); len(got) != 0 {
		t.Errorf("expected no samples from an empty field, got %d", len(got))
	}
}

func TestComputeFieldStats(t *testing.T) {
	sample := []float64{0, 0, 0, 0, 0, 0, 1, 1, 0.5, 0.5}
	s := ComputeFieldStats(sample, 0.5, 3)

	if math.Abs(s.Mean-0.3) > 1e-9 {
		t.Errorf("expected mean 0.3, got %v", s.Mean)
	}
	// Population std of the values above
	if math.Abs(s.Std-math.Sqrt(0.16)) > 1e-9 {
		t.Errorf("expected std 0.4, got %v", s.Std)
	}
	if s.Max != 1 {
		t.Errorf("expected max 1, got %v", s.Max)
	}
	if math.Abs(s.Coverage-0.4) > 1e-9 {
		t.Errorf("expected coverage 0.4, got %v", s.Coverage)
	}
	if s.P50 != 0 {
		t.Errorf("expected p50 0, got %v", s.P50)
	}
	if s.TotalMass != 3 {
		t.Errorf("expected mass passed through, got %v", s.TotalMass)
	}
}

func TestComputeFieldStatsEmpty(t *testing.T) {
	s := ComputeFieldStats(nil, 0.5, 0)
	if s != (FieldStats{}) {
		t.Errorf("expected zero stats, got %+v", s)
	}
}

func TestCollectorWindow(t *testing.T) {
	c := NewCollector(10, 0, 0.5)
	clock := time.Unix(0, 0)
	c.now = func() time.Time { return clock }
	c.Reset(0)

	if c.ShouldFlush(9) {
		t.Error("expected no flush before the window ends")
	}
	if !c.ShouldFlush(10) {
		t.Error("expected flush at the window end")
	}

	clock = clock.Add(2 * time.Second)
	field := []float32{1, 1, 0, 0}
	// Mass comes from the caller, not from re-summing the field
	s := c.Flush(10, 7, field, 3.5)

	if s.WindowStartTick != 0 || s.WindowEndTick != 10 {
		t.Errorf("expected window 0-10, got %d-%d", s.WindowStartTick, s.WindowEndTick)
	}
	if s.TicksPerSec != 5 {
		t.Errorf("expected 5 ticks/sec, got %v", s.TicksPerSec)
	}
	if s.Agents != 7 || s.TotalMass != 3.5 || s.Coverage != 0.5 {
		t.Errorf("unexpected stats %+v", s)
	}
	if c.ShouldFlush(19) || !c.ShouldFlush(20) {
		t.Error("expected the next window to start at tick 10")
	}
}
