// Package game ties the trail pipeline to the window, the control panel and
// the telemetry outputs. It runs the single-threaded host loop: one full
// pipeline pass per step, then display.
package game

import (
	"fmt"
	"log/slog"
	"math/rand/v2"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/truew1n/Physarum/camera"
	"github.com/truew1n/Physarum/config"
	"github.com/truew1n/Physarum/recorder"
	"github.com/truew1n/Physarum/renderer"
	"github.com/truew1n/Physarum/systems"
	"github.com/truew1n/Physarum/telemetry"
	"github.com/truew1n/Physarum/ui"
)

const maxStepsPerUpdate = 10

// Options configures game initialization.
type Options struct {
	Seed           uint64
	LogStats       bool
	OutputDir      string
	RecordPath     string
	Headless       bool
	StepsPerUpdate int // 0 = render.steps_per_frame from config
}

// Game holds the simulation state and everything that presents it.
type Game struct {
	pipeline *systems.Pipeline
	params   *systems.ParamStore
	rng      *rand.Rand

	// Telemetry
	perfCollector *telemetry.PerfCollector
	collector     *telemetry.Collector
	outputManager *telemetry.OutputManager
	bookmarks     *telemetry.BookmarkDetector
	recorder      *recorder.Recorder
	lastStats     telemetry.WindowStats
	logStats      bool
	statsCallback func(telemetry.WindowStats)

	// Rendering and UI (nil in headless mode)
	camera    *camera.Camera
	trail     *renderer.TrailRenderer
	controls  *ui.ControlsPanel
	hud       *ui.HUD
	perfPanel *ui.PerfPanel

	screenWidth, screenHeight float32

	paused         bool
	showPerf       bool
	stepsPerUpdate int
}

// NewGameWithOptions builds the pipeline and, unless headless, the window
// resources. raylib must already be initialized in graphical mode.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := config.Cfg()

	pipeOpts, err := systems.OptionsFromConfig(cfg, opts.Seed)
	if err != nil {
		return nil, fmt.Errorf("pipeline options: %w", err)
	}
	pipeline, err := systems.NewPipeline(pipeOpts)
	if err != nil {
		return nil, fmt.Errorf("creating pipeline: %w", err)
	}

	params := systems.ParamsFromConfig(cfg)
	if err := params.Validate(); err != nil {
		pipeline.Close()
		return nil, fmt.Errorf("initial parameters: %w", err)
	}

	steps := opts.StepsPerUpdate
	if steps <= 0 {
		steps = cfg.Render.StepsPerFrame
	}

	g := &Game{
		pipeline:       pipeline,
		params:         systems.NewParamStore(params),
		rng:            rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15)),
		perfCollector:  telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		collector:      telemetry.NewCollector(cfg.Telemetry.StatsWindow, cfg.Telemetry.SampleCells, cfg.Telemetry.CoverageThreshold),
		bookmarks:      telemetry.NewBookmarkDetector(10),
		logStats:       opts.LogStats,
		stepsPerUpdate: steps,
	}
	g.pipeline.OnPhase = g.perfCollector.StartPhase

	if opts.OutputDir != "" {
		om, err := telemetry.NewOutputManager(opts.OutputDir)
		if err != nil {
			g.Unload()
			return nil, fmt.Errorf("creating output manager: %w", err)
		}
		g.outputManager = om
		if err := om.WriteConfig(cfg); err != nil {
			g.Unload()
			return nil, fmt.Errorf("writing config: %w", err)
		}
	}

	if opts.RecordPath != "" {
		rec, err := recorder.New(opts.RecordPath, pipeOpts.Width, pipeOpts.Height,
			cfg.Recorder.FPS, cfg.Recorder.Every, cfg.Recorder.Quality)
		if err != nil {
			g.Unload()
			return nil, fmt.Errorf("opening recorder: %w", err)
		}
		g.recorder = rec
	}

	if !opts.Headless {
		g.initGraphics(cfg)
	}

	slog.Info("simulation initialized",
		"field_w", pipeOpts.Width,
		"field_h", pipeOpts.Height,
		"agents", pipeOpts.Agents,
		"seed", opts.Seed,
		"snapshot", pipeOpts.Snapshot.String(),
		"workers", pipeline.Workers(),
		"footprint_mb", systems.MemoryFootprint(pipeOpts.Agents, pipeOpts.Width, pipeOpts.Height)>>20,
	)

	return g, nil
}

// initGraphics creates the camera, the trail texture and the panels.
func (g *Game) initGraphics(cfg *config.Config) {
	g.screenWidth = float32(rl.GetScreenWidth())
	g.screenHeight = float32(rl.GetScreenHeight())

	fw, fh := g.pipeline.Field().GridSize()
	g.camera = camera.New(g.screenWidth, g.screenHeight, float32(fw), float32(fh))

	g.trail = renderer.NewTrailRenderer()
	g.trail.Init(fw, fh)

	g.controls = ui.NewControlsPanel(10, 10, 280)
	g.hud = ui.NewHUD()
	g.perfPanel = ui.NewPerfPanel(10, int32(g.screenHeight)-200)
}

// Update handles input and runs stepsPerUpdate pipeline passes.
func (g *Game) Update() {
	g.handleInput()

	if g.paused {
		return
	}
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.step()
	}
}

// UpdateHeadless runs simulation steps without input handling or rendering.
func (g *Game) UpdateHeadless() {
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.step()
	}
}

// step runs a single frame of the pipeline with one parameter snapshot.
func (g *Game) step() {
	g.perfCollector.StartTick()

	g.pipeline.Step(g.params.Load())

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.captureFrame()
	g.flushTelemetry()

	g.perfCollector.EndTick()
}

// captureFrame hands the display buffer to the recorder if one is open.
func (g *Game) captureFrame() {
	if g.recorder == nil {
		return
	}
	if err := g.recorder.Capture(g.pipeline.Tick(), g.pipeline.Display().Image()); err != nil {
		slog.Error("failed to record frame", "error", err)
	}
}

// Reseed clears the field and re-places the agents from a fresh seed.
func (g *Game) Reseed() {
	seed := g.rng.Uint64()
	g.pipeline.Seed(seed)
	g.collector.Reset(0)
	g.bookmarks.Reset()
	slog.Info("reseeded", "seed", seed)
}

// CycleColorMode switches to the next colour mode and repaints the display
// so a paused simulation shows the change.
func (g *Game) CycleColorMode() {
	var mode systems.ColorMode
	g.params.Update(func(p *systems.Params) {
		p.ColorMode = p.ColorMode.Next()
		mode = p.ColorMode
	})
	g.pipeline.Recolorize(mode)
}

// SetStatsCallback registers fn to receive every flushed stats window.
func (g *Game) SetStatsCallback(fn func(telemetry.WindowStats)) {
	g.statsCallback = fn
}

// Params returns the parameter store shared with the control panel.
func (g *Game) Params() *systems.ParamStore {
	return g.params
}

// Pipeline returns the simulation pipeline.
func (g *Game) Pipeline() *systems.Pipeline {
	return g.pipeline
}

// Tick returns the current simulation tick.
func (g *Game) Tick() int64 {
	return g.pipeline.Tick()
}

// Unload releases all resources.
func (g *Game) Unload() {
	if g.trail != nil {
		g.trail.Unload()
	}
	if g.recorder != nil {
		if err := g.recorder.Close(); err != nil {
			slog.Error("failed to close recorder", "error", err)
		}
		g.recorder = nil
	}
	if g.outputManager != nil {
		if err := g.outputManager.Close(); err != nil {
			slog.Error("failed to close output", "error", err)
		}
		g.outputManager = nil
	}
	g.pipeline.Close()
}
