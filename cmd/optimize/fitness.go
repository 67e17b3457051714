package main

import (
	"fmt"
	"math"
	"sync"

	"github.com/truew1n/Physarum/config"
	"github.com/truew1n/Physarum/systems"
	"github.com/truew1n/Physarum/telemetry"
)

// RunSize is the reduced field each evaluation runs on.
type RunSize struct {
	Width, Height int
	Agents        int
	SpawnRadius   float32
}

// FitnessEvaluator runs headless pipelines and scores the trail network
// they settle into.
type FitnessEvaluator struct {
	params     *ParamVector
	ticks      int
	seeds      []uint64
	baseConfig *config.Config
	size       RunSize

	// Scoring
	targetCoverage float64
	coverageWeight float64
	sampleCells    int
	coverageCutoff float64

	mu        sync.Mutex
	lastStats telemetry.FieldStats // averaged over seeds, from the most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, ticks int, seeds []uint64, baseCfg *config.Config, size RunSize) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:         params,
		ticks:          ticks,
		seeds:          seeds,
		baseConfig:     baseCfg,
		size:           size,
		targetCoverage: 0.3,
		coverageWeight: 2.0,
		sampleCells:    baseCfg.Telemetry.SampleCells,
		coverageCutoff: baseCfg.Telemetry.CoverageThreshold,
	}
}

// LastStats returns the seed-averaged field stats from the most recent evaluation.
func (fe *FitnessEvaluator) LastStats() telemetry.FieldStats {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastStats
}

// Evaluate computes fitness for a raw parameter vector (lower = better).
// A high intensity spread means sharp veins over dark background; coverage
// far from the target means the network either collapsed or smeared out.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)
	params := systems.ParamsFromConfig(cfg)

	// Run all seeds in parallel
	results := make([]telemetry.FieldStats, len(fe.seeds))
	errs := make([]error, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s uint64) {
			defer wg.Done()
			results[idx], errs[idx] = fe.runSimulation(params, s)
		}(i, seed)
	}
	wg.Wait()

	var avg telemetry.FieldStats
	for i, r := range results {
		if errs[i] != nil {
			return math.Inf(1)
		}
		avg.Mean += r.Mean
		avg.Std += r.Std
		avg.Max += r.Max
		avg.Coverage += r.Coverage
		avg.TotalMass += r.TotalMass
	}
	n := float64(len(results))
	avg.Mean /= n
	avg.Std /= n
	avg.Max /= n
	avg.Coverage /= n
	avg.TotalMass /= n

	fe.mu.Lock()
	fe.lastStats = avg
	fe.mu.Unlock()

	return fe.score(avg)
}

// score turns field stats into a fitness value.
func (fe *FitnessEvaluator) score(s telemetry.FieldStats) float64 {
	return -s.Std + fe.coverageWeight*math.Abs(s.Coverage-fe.targetCoverage)
}

// pipelineOptions builds the options for one seeded run at the reduced
// size, keeping the base config's snapshot policy.
func (fe *FitnessEvaluator) pipelineOptions(seed uint64) (systems.PipelineOptions, error) {
	opts, err := systems.OptionsFromConfig(fe.baseConfig, seed)
	if err != nil {
		return systems.PipelineOptions{}, err
	}
	opts.Width = fe.size.Width
	opts.Height = fe.size.Height
	opts.Agents = fe.size.Agents
	opts.SpawnRadius = fe.size.SpawnRadius
	// Seeds already run in parallel, so each pipeline stays on one worker.
	opts.Workers = 1
	return opts, nil
}

// runSimulation runs one seeded pipeline to completion and measures the field.
func (fe *FitnessEvaluator) runSimulation(params systems.Params, seed uint64) (telemetry.FieldStats, error) {
	opts, err := fe.pipelineOptions(seed)
	if err != nil {
		return telemetry.FieldStats{}, err
	}
	p, err := systems.NewPipeline(opts)
	if err != nil {
		return telemetry.FieldStats{}, fmt.Errorf("seed %d: %w", seed, err)
	}
	defer p.Close()

	for range fe.ticks {
		p.Step(params)
	}

	f := p.Field()
	sample := telemetry.SampleField(nil, f.Data(), fe.sampleCells)
	return telemetry.ComputeFieldStats(sample, fe.coverageCutoff, f.TotalMass()), nil
}

// copyConfig creates a copy of the base config. Config holds only values,
// so a struct copy is deep.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	return &cfg
}
