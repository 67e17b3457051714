package systems

import (
	"errors"
	"fmt"
	"math"
	"sync/atomic"

	"github.com/truew1n/Physarum/config"
)

// Params is the per-frame parameter snapshot handed to every stage.
type Params struct {
	AgentVelocity float32 // cells per frame
	TurnSpeed     float32 // radians per frame
	SensorLength  float32 // probe distance in cells
	SensorAngle   float32 // probe half-angle in radians
	SensorSize    int     // probe neighbourhood half-width

	DecayRate     float32
	DiffusionRate float32
	DiffusionSize int

	ColorMode ColorMode
}

// DefaultParams returns the stock slider values.
func DefaultParams() Params {
	return Params{
		AgentVelocity: 1.0,
		TurnSpeed:     0.2,
		SensorLength:  10,
		SensorAngle:   20 * math.Pi / 180,
		SensorSize:    0,
		DecayRate:     0.999,
		DiffusionRate: 0.13,
		DiffusionSize: 1,
		ColorMode:     ColorMono,
	}
}

// ParamsFromConfig builds the initial parameter snapshot from configuration.
func ParamsFromConfig(cfg *config.Config) Params {
	mode, err := ParseColorMode(cfg.Render.ColorMode)
	if err != nil {
		mode = ColorMono
	}
	return Params{
		AgentVelocity: float32(cfg.Agent.Velocity),
		TurnSpeed:     float32(cfg.Agent.TurnSpeed),
		SensorLength:  float32(cfg.Agent.SensorLength),
		SensorAngle:   cfg.Derived.SensorAngle,
		SensorSize:    cfg.Agent.SensorSize,
		DecayRate:     float32(cfg.Trail.DecayRate),
		DiffusionRate: float32(cfg.Trail.DiffusionRate),
		DiffusionSize: cfg.Trail.DiffusionSize,
		ColorMode:     mode,
	}
}

// Validate checks the hard lower bounds every stage relies on.
func (p Params) Validate() error {
	var errs []error
	if !(p.AgentVelocity >= 0) {
		errs = append(errs, fmt.Errorf("agent velocity must be >= 0, got %v", p.AgentVelocity))
	}
	if !(p.SensorLength >= 0) {
		errs = append(errs, fmt.Errorf("sensor length must be >= 0, got %v", p.SensorLength))
	}
	if p.SensorSize < 0 {
		errs = append(errs, fmt.Errorf("sensor size must be >= 0, got %d", p.SensorSize))
	}
	if p.DiffusionSize < 1 {
		errs = append(errs, fmt.Errorf("diffusion size must be >= 1, got %d", p.DiffusionSize))
	}
	if isNaN32(p.TurnSpeed) || isNaN32(p.SensorAngle) || isNaN32(p.DecayRate) || isNaN32(p.DiffusionRate) {
		errs = append(errs, errors.New("parameters must not be NaN"))
	}
	return errors.Join(errs...)
}

func isNaN32(v float32) bool { return v != v }

// ParamRange is the interactive range of one parameter.
type ParamRange struct {
	Min, Max, Step float32
}

// Clamp limits v to the range and snaps it to the nearest step.
func (r ParamRange) Clamp(v float32) float32 {
	if v < r.Min {
		v = r.Min
	}
	if v > r.Max {
		v = r.Max
	}
	if r.Step > 0 {
		v = r.Min + float32(math.Round(float64((v-r.Min)/r.Step)))*r.Step
	}
	return v
}

// Slider ranges of the control surface. Angles are in degrees here and
// converted to radians when applied.
var (
	VelocityRange       = ParamRange{Min: 0, Max: 10, Step: 0.1}
	TurnSpeedRange      = ParamRange{Min: 0, Max: 1, Step: 0.01}
	SensorLengthRange   = ParamRange{Min: 0, Max: 100, Step: 1}
	SensorAngleDegRange = ParamRange{Min: 0, Max: 360, Step: 1}
	SensorSizeRange     = ParamRange{Min: 0, Max: 10, Step: 1}
	DecayRange          = ParamRange{Min: 0, Max: 1, Step: 0.001}
	DiffusionRateRange  = ParamRange{Min: 0, Max: 1, Step: 0.01}
	DiffusionSizeRange  = ParamRange{Min: 1, Max: 10, Step: 1}
)

// ParamStore publishes parameter snapshots between the control surface and
// the simulation loop. Writers never block readers; a reader sees either the
// old or the new snapshot, never a mix.
type ParamStore struct {
	p atomic.Pointer[Params]
}

// NewParamStore creates a store holding p.
func NewParamStore(p Params) *ParamStore {
	s := &ParamStore{}
	s.Store(p)
	return s
}

// Load returns a copy of the current snapshot.
func (s *ParamStore) Load() Params {
	return *s.p.Load()
}

// Store publishes p.
func (s *ParamStore) Store(p Params) {
	s.p.Store(&p)
}

// Update applies fn to a copy of the current snapshot and publishes the
// result, retrying if another writer got there first.
func (s *ParamStore) Update(fn func(p *Params)) {
	for {
		old := s.p.Load()
		next := *old
		fn(&next)
		if s.p.CompareAndSwap(old, &next) {
			return
		}
	}
}
