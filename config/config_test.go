package config

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	c, err := Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}

	if c.Derived.WorldW != 1920 || c.Derived.WorldH != 1080 {
		t.Errorf("expected 1920x1080 world, got %dx%d", c.Derived.WorldW, c.Derived.WorldH)
	}
	if c.Agent.Velocity != 1.0 {
		t.Errorf("expected velocity 1.0, got %v", c.Agent.Velocity)
	}
	if c.Trail.DecayRate != 0.999 {
		t.Errorf("expected decay 0.999, got %v", c.Trail.DecayRate)
	}
	if c.Init.SpawnRadius != 300 {
		t.Errorf("expected spawn radius 300, got %v", c.Init.SpawnRadius)
	}

	want := float32(20 * math.Pi / 180)
	if diff := c.Derived.SensorAngle - want; diff > 1e-6 || diff < -1e-6 {
		t.Errorf("expected sensor angle %v rad, got %v", want, c.Derived.SensorAngle)
	}
	if c.Derived.Workers < 1 {
		t.Errorf("expected at least one worker, got %d", c.Derived.Workers)
	}
}

func TestLoadOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	overlay := "world:\n  width: 64\n  height: 32\n  agents: 10\ntrail:\n  decay_rate: 0.9\n"
	if err := os.WriteFile(path, []byte(overlay), 0644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("loading overlay: %v", err)
	}
	if c.Derived.WorldW != 64 || c.Derived.WorldH != 32 {
		t.Errorf("expected 64x32 world, got %dx%d", c.Derived.WorldW, c.Derived.WorldH)
	}
	if c.Trail.DecayRate != 0.9 {
		t.Errorf("expected overridden decay 0.9, got %v", c.Trail.DecayRate)
	}
	// Untouched keys keep their defaults
	if c.Trail.DiffusionRate != 0.13 {
		t.Errorf("expected default diffusion rate 0.13, got %v", c.Trail.DiffusionRate)
	}
}

func TestWorldFallsBackToScreen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	overlay := "world:\n  width: 0\n  height: 0\n"
	if err := os.WriteFile(path, []byte(overlay), 0644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("loading: %v", err)
	}
	if c.Derived.WorldW != c.Screen.Width || c.Derived.WorldH != c.Screen.Height {
		t.Errorf("expected world to match screen %dx%d, got %dx%d",
			c.Screen.Width, c.Screen.Height, c.Derived.WorldW, c.Derived.WorldH)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	cases := []struct {
		name    string
		overlay string
		want    string
	}{
		{"agents", "world:\n  agents: 0\n", "world.agents"},
		{"velocity", "agent:\n  velocity: -1\n", "agent.velocity"},
		{"sensor size", "agent:\n  sensor_size: -2\n", "agent.sensor_size"},
		{"diffusion size", "trail:\n  diffusion_size: 0\n", "trail.diffusion_size"},
		{"snapshot", "trail:\n  snapshot: sometimes\n", "trail.snapshot"},
		{"color mode", "render:\n  color_mode: plaid\n", "render.color_mode"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tc.overlay), 0644); err != nil {
				t.Fatal(err)
			}
			_, err := Load(path)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("expected error mentioning %q, got %v", tc.want, err)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	c, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	c.Agent.TurnSpeed = 0.35

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := c.WriteYAML(path); err != nil {
		t.Fatalf("writing yaml: %v", err)
	}

	back, err := Load(path)
	if err != nil {
		t.Fatalf("reloading written yaml: %v", err)
	}
	if back.Agent.TurnSpeed != 0.35 {
		t.Errorf("expected turn speed 0.35 after reload, got %v", back.Agent.TurnSpeed)
	}
}
