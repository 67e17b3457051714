package telemetry

import (
	"log/slog"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int64   `csv:"-"`
	WindowEndTick   int64   `csv:"window_end"`
	TicksPerSec     float64 `csv:"ticks_per_sec"`
	Agents          int     `csv:"agents"`

	// Field distribution (sampled at window end)
	FieldStats
}

// FieldStats describes the trail field at one instant.
type FieldStats struct {
	Mean     float64 `csv:"field_mean"`
	Std      float64 `csv:"field_std"`
	P50      float64 `csv:"field_p50"`
	P90      float64 `csv:"field_p90"`
	Max      float64 `csv:"field_max"`
	Coverage float64 `csv:"coverage"` // Fraction of sampled cells at or above the threshold

	// Sum over every cell, not just the sample
	TotalMass float64 `csv:"total_mass"`
}

// Percentile returns the p-th quantile of a sorted slice, linearly
// interpolating the empirical distribution. p is clamped to [0, 1].
// Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if !(p >= 0) {
		p = 0
	} else if p > 1 {
		p = 1
	}
	return stat.Quantile(p, stat.LinInterp, sorted, nil)
}

// SampleField copies up to n evenly strided cells of data into dst as
// float64. n <= 0 or n >= len(data) takes every cell.
func SampleField(dst []float64, data []float32, n int) []float64 {
	dst = dst[:0]
	if len(data) == 0 {
		return dst
	}
	stride := 1
	if n > 0 && n < len(data) {
		stride = len(data) / n
	}
	for i := 0; i < len(data); i += stride {
		dst = append(dst, float64(data[i]))
	}
	return dst
}

// ComputeFieldStats summarizes sample, which is sorted in place. mass is the
// full-field total reported alongside.
func ComputeFieldStats(sample []float64, coverageThreshold, mass float64) FieldStats {
	if len(sample) == 0 {
		return FieldStats{TotalMass: mass}
	}

	mean, std := stat.PopMeanStdDev(sample, nil)
	slices.Sort(sample)

	// First index at or above the threshold
	i, _ := slices.BinarySearch(sample, coverageThreshold)
	covered := len(sample) - i

	return FieldStats{
		Mean:      mean,
		Std:       std,
		P50:       Percentile(sample, 0.50),
		P90:       Percentile(sample, 0.90),
		Max:       floats.Max(sample),
		Coverage:  float64(covered) / float64(len(sample)),
		TotalMass: mass,
	}
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("window_start", s.WindowStartTick),
		slog.Int64("window_end", s.WindowEndTick),
		slog.Float64("ticks_per_sec", s.TicksPerSec),
		slog.Int("agents", s.Agents),
		slog.Float64("field_mean", s.Mean),
		slog.Float64("field_std", s.Std),
		slog.Float64("field_p50", s.P50),
		slog.Float64("field_p90", s.P90),
		slog.Float64("field_max", s.Max),
		slog.Float64("coverage", s.Coverage),
		slog.Float64("total_mass", s.TotalMass),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}
