package telemetry

import (
	"log/slog"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/mem"
)

// Phase names for the simulation step.
const (
	PhaseSnapshot  = "snapshot"
	PhaseMotion    = "motion"
	PhaseDeposit   = "deposit"
	PhaseDiffuse   = "diffuse"
	PhaseColorize  = "colorize"
	PhaseTelemetry = "telemetry"
)

// Phases lists the step phases in pipeline order.
var Phases = []string{
	PhaseSnapshot, PhaseMotion, PhaseDeposit,
	PhaseDiffuse, PhaseColorize, PhaseTelemetry,
}

// PerfSample holds timing data for a single tick.
type PerfSample struct {
	TickDuration time.Duration
	Phases       map[string]time.Duration
}

// PerfCollector tracks performance metrics over a rolling window.
type PerfCollector struct {
	windowSize    int
	samples       []PerfSample
	writeIndex    int
	sampleCount   int
	currentPhases map[string]time.Duration
	tickStart     time.Time
	phaseStart    time.Time
	lastPhase     string

	// Frame timing (for graphics mode)
	lastFrameTime time.Time
	frameDuration time.Duration

	// Memory is sampled at most once per window of ticks
	mem        memorySample
	memSampled bool
	memTicks   int
	readMemory func() memorySample
}

// memorySample is one reading of process and host memory.
type memorySample struct {
	heapMB      float64
	hostUsedPct float64
}

// NewPerfCollector creates a new performance collector.
// windowSize: number of ticks to average over (e.g., 60 for 1 second at 60fps).
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		windowSize:    windowSize,
		samples:       make([]PerfSample, windowSize),
		currentPhases: make(map[string]time.Duration),
		readMemory:    readMemory,
	}
}

// StartTick begins timing a new simulation tick.
func (p *PerfCollector) StartTick() {
	p.tickStart = time.Now()
	p.currentPhases = make(map[string]time.Duration)
	p.lastPhase = ""
}

// StartPhase begins timing a specific phase.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	// End previous phase if any
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}
	p.phaseStart = now
	p.lastPhase = phase
}

// EndTick finishes timing the current tick and records the sample.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	// End final phase
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}

	sample := PerfSample{
		TickDuration: now.Sub(p.tickStart),
		Phases:       p.currentPhases,
	}

	p.samples[p.writeIndex] = sample
	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
	p.memTicks++
}

// RecordFrame records frame timing for graphics mode.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastFrameTime.IsZero() {
		p.frameDuration = now.Sub(p.lastFrameTime)
	}
	p.lastFrameTime = now
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	// Tick timing
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration

	// Phase breakdown (average durations)
	PhaseAvg map[string]time.Duration

	// Phase percentages of total tick time
	PhasePct map[string]float64

	// Throughput
	TicksPerSecond float64

	// Frame timing (graphics mode)
	FrameDuration time.Duration
	FPS           float64

	// Memory, refreshed once per window
	HeapMB         float64
	HostMemUsedPct float64
}

// readMemory reads heap and host memory. Host memory is left at 0 if the
// host cannot be queried.
func readMemory() memorySample {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	sample := memorySample{heapMB: float64(ms.HeapAlloc) / (1 << 20)}

	if vm, err := mem.VirtualMemory(); err == nil {
		sample.hostUsedPct = vm.UsedPercent
	}
	return sample
}

// fillMemory copies the cached memory sample into s, reading a fresh one
// first if a full window of ticks has passed since the last read.
// ReadMemStats stops the world, so per-frame callers must not trigger it.
func (p *PerfCollector) fillMemory(s *PerfStats) {
	if !p.memSampled || p.memTicks >= p.windowSize {
		p.mem = p.readMemory()
		p.memSampled = true
		p.memTicks = 0
	}
	s.HeapMB = p.mem.heapMB
	s.HostMemUsedPct = p.mem.hostUsedPct
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	// Frame timing is always available (independent of tick samples)
	var fps float64
	if p.frameDuration > 0 {
		fps = float64(time.Second) / float64(p.frameDuration)
	}

	if p.sampleCount == 0 {
		s := PerfStats{
			PhaseAvg:      make(map[string]time.Duration),
			PhasePct:      make(map[string]float64),
			FrameDuration: p.frameDuration,
			FPS:           fps,
		}
		p.fillMemory(&s)
		return s
	}

	var totalTick time.Duration
	var minTick, maxTick time.Duration
	phaseSum := make(map[string]time.Duration)

	// Iterate over valid samples
	for i := 0; i < p.sampleCount; i++ {
		s := p.samples[i]
		totalTick += s.TickDuration

		if i == 0 || s.TickDuration < minTick {
			minTick = s.TickDuration
		}
		if s.TickDuration > maxTick {
			maxTick = s.TickDuration
		}

		for phase, dur := range s.Phases {
			phaseSum[phase] += dur
		}
	}

	avgTick := totalTick / time.Duration(p.sampleCount)

	// Calculate phase averages and percentages
	phaseAvg := make(map[string]time.Duration)
	phasePct := make(map[string]float64)
	for phase, sum := range phaseSum {
		phaseAvg[phase] = sum / time.Duration(p.sampleCount)
		if avgTick > 0 {
			phasePct[phase] = float64(phaseAvg[phase]) / float64(avgTick) * 100
		}
	}

	// Calculate throughput
	var ticksPerSec float64
	if avgTick > 0 {
		ticksPerSec = float64(time.Second) / float64(avgTick)
	}

	stats := PerfStats{
		AvgTickDuration: avgTick,
		MinTickDuration: minTick,
		MaxTickDuration: maxTick,
		PhaseAvg:        phaseAvg,
		PhasePct:        phasePct,
		TicksPerSecond:  ticksPerSec,
		FrameDuration:   p.frameDuration,
		FPS:             fps,
	}
	p.fillMemory(&stats)
	return stats
}

// LogStats logs performance statistics.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_tick_us", s.AvgTickDuration.Microseconds(),
		"min_tick_us", s.MinTickDuration.Microseconds(),
		"max_tick_us", s.MaxTickDuration.Microseconds(),
		"ticks_per_sec", int(s.TicksPerSecond),
	}

	if s.FPS > 0 {
		attrs = append(attrs, "fps", int(s.FPS))
	}
	attrs = append(attrs, "heap_mb", int(s.HeapMB), "host_mem_pct", int(s.HostMemUsedPct))

	// Add phase breakdowns
	for _, phase := range Phases {
		if pct, ok := s.PhasePct[phase]; ok && pct > 0.1 {
			attrs = append(attrs, phase+"_pct", int(pct*10)/10.0)
		}
	}

	slog.Info("perf", attrs...)
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("min_tick_us", s.MinTickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Float64("ticks_per_sec", s.TicksPerSecond),
	}

	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}
	attrs = append(attrs,
		slog.Float64("heap_mb", s.HeapMB),
		slog.Float64("host_mem_pct", s.HostMemUsedPct),
	)

	for phase, pct := range s.PhasePct {
		attrs = append(attrs, slog.Float64(phase+"_pct", pct))
	}

	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	WindowEnd      int64   `csv:"window_end"`
	AvgTickUS      int64   `csv:"avg_tick_us"`
	MinTickUS      int64   `csv:"min_tick_us"`
	MaxTickUS      int64   `csv:"max_tick_us"`
	TicksPerSec    float64 `csv:"ticks_per_sec"`
	FPS            float64 `csv:"fps"`
	HeapMB         float64 `csv:"heap_mb"`
	HostMemUsedPct float64 `csv:"host_mem_pct"`
	SnapshotPct    float64 `csv:"snapshot_pct"`
	MotionPct      float64 `csv:"motion_pct"`
	DepositPct     float64 `csv:"deposit_pct"`
	DiffusePct     float64 `csv:"diffuse_pct"`
	ColorizePct    float64 `csv:"colorize_pct"`
	TelemetryPct   float64 `csv:"telemetry_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(windowEnd int64) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:      windowEnd,
		AvgTickUS:      s.AvgTickDuration.Microseconds(),
		MinTickUS:      s.MinTickDuration.Microseconds(),
		MaxTickUS:      s.MaxTickDuration.Microseconds(),
		TicksPerSec:    s.TicksPerSecond,
		FPS:            s.FPS,
		HeapMB:         s.HeapMB,
		HostMemUsedPct: s.HostMemUsedPct,
		SnapshotPct:    s.PhasePct[PhaseSnapshot],
		MotionPct:      s.PhasePct[PhaseMotion],
		DepositPct:     s.PhasePct[PhaseDeposit],
		DiffusePct:     s.PhasePct[PhaseDiffuse],
		ColorizePct:    s.PhasePct[PhaseColorize],
		TelemetryPct:   s.PhasePct[PhaseTelemetry],
	}
}
