package systems

import (
	"errors"
	"fmt"

	"github.com/truew1n/Physarum/config"
	"github.com/truew1n/Physarum/telemetry"
)

// SnapshotPolicy decides where in the frame the diffusion snapshot is taken.
type SnapshotPolicy uint8

const (
	// SnapshotPreDeposit copies the field at the start of the frame, before
	// motion. The stencil never sees this frame's deposits.
	SnapshotPreDeposit SnapshotPolicy = iota
	// SnapshotPostDeposit copies the field after deposit, so fresh trail
	// diffuses in the same frame it was laid.
	SnapshotPostDeposit
)

func (s SnapshotPolicy) String() string {
	switch s {
	case SnapshotPreDeposit:
		return "pre_deposit"
	case SnapshotPostDeposit:
		return "post_deposit"
	}
	return fmt.Sprintf("SnapshotPolicy(%d)", s)
}

// ParseSnapshotPolicy resolves a policy name.
func ParseSnapshotPolicy(s string) (SnapshotPolicy, error) {
	switch s {
	case "pre_deposit", "":
		return SnapshotPreDeposit, nil
	case "post_deposit":
		return SnapshotPostDeposit, nil
	}
	return SnapshotPreDeposit, fmt.Errorf("unknown snapshot policy %q", s)
}

// PipelineOptions fixes everything about a run that cannot change mid-run.
type PipelineOptions struct {
	Width, Height int
	Agents        int
	Seed          uint64
	SpawnRadius   float32
	Snapshot      SnapshotPolicy

	Workers   int // 0 = GOMAXPROCS
	Threshold int // 0 = DefaultParallelThreshold

	SkipMemoryCheck bool
}

// OptionsFromConfig builds pipeline options for a run seeded with seed.
func OptionsFromConfig(cfg *config.Config, seed uint64) (PipelineOptions, error) {
	policy, err := ParseSnapshotPolicy(cfg.Trail.Snapshot)
	if err != nil {
		return PipelineOptions{}, err
	}
	return PipelineOptions{
		Width:       cfg.Derived.WorldW,
		Height:      cfg.Derived.WorldH,
		Agents:      cfg.World.Agents,
		Seed:        seed,
		SpawnRadius: float32(cfg.Init.SpawnRadius),
		Snapshot:    policy,
		Workers:     cfg.Derived.Workers,
		Threshold:   cfg.Parallel.Threshold,
	}, nil
}

// Pipeline owns the field, the agents and the display buffer, and advances
// them one frame at a time. Every stage finishes for all elements before the
// next stage starts.
type Pipeline struct {
	field   *Field
	agents  *AgentStore
	display *DisplayBuffer
	pool    *Pool

	seed        uint64
	hashSeed    uint32
	spawnRadius float32
	policy      SnapshotPolicy
	tick        int64

	// params is the snapshot for the frame in flight.
	params Params

	// OnPhase, if set, is called as each stage begins.
	OnPhase func(phase string)

	snapshotFn func(start, end int)
	motionFn   func(start, end int)
	depositFn  func(start, end int)
	diffuseFn  func(start, end int)
	colorFn    func(start, end int)
}

// NewPipeline allocates a run and places its agents.
func NewPipeline(opts PipelineOptions) (*Pipeline, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("field size %dx%d must be positive", opts.Width, opts.Height)
	}
	if opts.Agents < 0 {
		return nil, fmt.Errorf("agent count must be >= 0, got %d", opts.Agents)
	}
	if !(opts.SpawnRadius >= 0) {
		return nil, errors.New("spawn radius must be >= 0")
	}
	if !opts.SkipMemoryCheck {
		if err := CheckMemoryBudget(opts.Agents, opts.Width, opts.Height); err != nil {
			return nil, err
		}
	}

	p := &Pipeline{
		field:       NewField(opts.Width, opts.Height),
		agents:      NewAgentStore(opts.Agents),
		display:     NewDisplayBuffer(opts.Width, opts.Height),
		pool:        NewPool(opts.Workers, opts.Threshold),
		spawnRadius: opts.SpawnRadius,
		policy:      opts.Snapshot,
		params:      DefaultParams(),
	}
	p.snapshotFn = p.field.SnapshotRange
	p.motionFn = p.moveChunk
	p.depositFn = p.depositChunk
	p.diffuseFn = p.diffuseChunk
	p.colorFn = p.colorChunk

	p.Seed(opts.Seed)
	return p, nil
}

// Seed clears the field and re-places every agent from seed.
func (p *Pipeline) Seed(seed uint64) {
	p.seed = seed
	p.hashSeed = uint32(seed) ^ uint32(seed>>32)
	p.tick = 0
	p.field.Clear()
	clear(p.display.Pixels)

	w, h, r := p.field.W, p.field.H, p.spawnRadius
	p.pool.Run(p.agents.Len(), func(start, end int) {
		p.agents.InitRange(seed, w, h, r, start, end)
	})
}

func (p *Pipeline) phase(name string) {
	if p.OnPhase != nil {
		p.OnPhase(name)
	}
}

func (p *Pipeline) moveChunk(start, end int) {
	MoveAgents(p.field, p.agents.Agents, start, end, p.hashSeed, &p.params)
}

func (p *Pipeline) depositChunk(start, end int) {
	DepositAgents(p.field, p.agents.Agents, start, end)
}

func (p *Pipeline) diffuseChunk(y0, y1 int) {
	DiffuseRows(p.field, y0, y1, &p.params)
}

func (p *Pipeline) colorChunk(start, end int) {
	ColorizeRange(p.field, p.display.Pixels, start, end, p.params.ColorMode)
}

// Step runs one frame with the given parameter snapshot: motion, deposit,
// diffuse-decay and colorize, with the snapshot copy placed by the policy.
func (p *Pipeline) Step(params Params) {
	p.params = params
	cells := p.field.Len()
	n := p.agents.Len()

	if p.policy == SnapshotPreDeposit {
		p.phase(telemetry.PhaseSnapshot)
		p.pool.Run(cells, p.snapshotFn)
	}

	p.phase(telemetry.PhaseMotion)
	p.pool.Run(n, p.motionFn)

	p.phase(telemetry.PhaseDeposit)
	p.pool.Run(n, p.depositFn)

	if p.policy == SnapshotPostDeposit {
		p.phase(telemetry.PhaseSnapshot)
		p.pool.Run(cells, p.snapshotFn)
	}

	p.phase(telemetry.PhaseDiffuse)
	p.pool.RunWeighted(p.field.H, p.field.W, p.diffuseFn)

	p.phase(telemetry.PhaseColorize)
	p.pool.Run(cells, p.colorFn)

	p.tick++
}

// Recolorize redraws the display buffer from the field without advancing.
func (p *Pipeline) Recolorize(mode ColorMode) {
	p.params.ColorMode = mode
	p.pool.Run(p.field.Len(), p.colorFn)
}

// Field returns the trail field.
func (p *Pipeline) Field() *Field { return p.field }

// Agents returns the agent store.
func (p *Pipeline) Agents() *AgentStore { return p.agents }

// Display returns the buffer written by the last colorize stage.
func (p *Pipeline) Display() *DisplayBuffer { return p.display }

// Tick returns the number of frames run since the last Seed.
func (p *Pipeline) Tick() int64 { return p.tick }

// SeedValue returns the seed of the current run.
func (p *Pipeline) SeedValue() uint64 { return p.seed }

// Policy returns the snapshot policy.
func (p *Pipeline) Policy() SnapshotPolicy { return p.policy }

// Workers returns the worker count of the pool.
func (p *Pipeline) Workers() int { return p.pool.Workers() }

// Close stops the worker goroutines.
func (p *Pipeline) Close() {
	p.pool.Close()
}
