package telemetry

import "time"

// Collector tracks the current stats window and produces WindowStats from the
// field when the window closes.
type Collector struct {
	windowDurationTicks int64
	sampleCells         int
	coverageThreshold   float64

	// Current window tracking
	windowStartTick int64
	windowStart     time.Time

	sample []float64
	now    func() time.Time
}

// NewCollector creates a new stats collector.
// windowTicks: ticks per stats window
// sampleCells: field cells sampled per flush (0 = all)
// coverageThreshold: intensity at which a cell counts as trail
func NewCollector(windowTicks, sampleCells int, coverageThreshold float64) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	c := &Collector{
		windowDurationTicks: int64(windowTicks),
		sampleCells:         sampleCells,
		coverageThreshold:   coverageThreshold,
		now:                 time.Now,
	}
	c.windowStart = c.now()
	return c
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int64) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats from the field and starts the next window.
// mass is the full-field total, which the field owner already tracks.
func (c *Collector) Flush(currentTick int64, agents int, field []float32, mass float64) WindowStats {
	now := c.now()

	var tps float64
	if elapsed := now.Sub(c.windowStart); elapsed > 0 {
		tps = float64(currentTick-c.windowStartTick) / elapsed.Seconds()
	}

	c.sample = SampleField(c.sample, field, c.sampleCells)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		TicksPerSec:     tps,
		Agents:          agents,
		FieldStats:      ComputeFieldStats(c.sample, c.coverageThreshold, mass),
	}

	// Reset for next window
	c.Reset(currentTick)

	return stats
}

// Reset starts a new window at tick, discarding the current one.
func (c *Collector) Reset(tick int64) {
	c.windowStartTick = tick
	c.windowStart = c.now()
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int64 {
	return c.windowDurationTicks
}
