// Package main provides CMA-ES optimization for trail simulation parameters.
package main

import (
	"math"

	"github.com/truew1n/Physarum/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
// Velocity and the neighbourhood sizes stay fixed; they mostly rescale the
// pattern instead of changing it.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "turn_speed", Path: "agent.turn_speed", Min: 0.02, Max: 1.0, Default: 0.2},
			{Name: "sensor_length", Path: "agent.sensor_length", Min: 2, Max: 40, Default: 10},
			{Name: "sensor_angle_deg", Path: "agent.sensor_angle_deg", Min: 5, Max: 90, Default: 20},
			{Name: "decay_rate", Path: "trail.decay_rate", Min: 0.9, Max: 0.9999, Default: 0.999},
			{Name: "diffusion_rate", Path: "trail.diffusion_rate", Min: 0, Max: 1, Default: 0.13},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// ApplyToConfig applies parameter values to a Config struct.
// Order must match Specs order.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)

	cfg.Agent.TurnSpeed = clamped[0]
	cfg.Agent.SensorLength = clamped[1]
	cfg.Agent.SensorAngleDeg = clamped[2]
	cfg.Trail.DecayRate = clamped[3]
	cfg.Trail.DiffusionRate = clamped[4]

	cfg.Derived.SensorAngle = float32(cfg.Agent.SensorAngleDeg * math.Pi / 180)
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		cfg.Agent.TurnSpeed,
		cfg.Agent.SensorLength,
		cfg.Agent.SensorAngleDeg,
		cfg.Trail.DecayRate,
		cfg.Trail.DiffusionRate,
	}
}
