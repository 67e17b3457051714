package ui

import (
	"fmt"
	"math"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/truew1n/Physarum/systems"
)

// slider binds one parameter to a raygui slider.
type slider struct {
	label  string
	rng    systems.ParamRange
	format string
	get    func(p *systems.Params) float32
	set    func(p *systems.Params, v float32)
}

const radToDeg = 180 / math.Pi

var sliders = []slider{
	{"Agent Velocity", systems.VelocityRange, "%.1f",
		func(p *systems.Params) float32 { return p.AgentVelocity },
		func(p *systems.Params, v float32) { p.AgentVelocity = v }},
	{"Turn Speed", systems.TurnSpeedRange, "%.2f",
		func(p *systems.Params) float32 { return p.TurnSpeed },
		func(p *systems.Params, v float32) { p.TurnSpeed = v }},
	{"Sensor Length", systems.SensorLengthRange, "%.0f",
		func(p *systems.Params) float32 { return p.SensorLength },
		func(p *systems.Params, v float32) { p.SensorLength = v }},
	{"Sensor Angle", systems.SensorAngleDegRange, "%.0f deg",
		func(p *systems.Params) float32 { return p.SensorAngle * radToDeg },
		func(p *systems.Params, v float32) { p.SensorAngle = v / radToDeg }},
	{"Sensor Size", systems.SensorSizeRange, "%.0f",
		func(p *systems.Params) float32 { return float32(p.SensorSize) },
		func(p *systems.Params, v float32) { p.SensorSize = int(v) }},
	{"Decay Rate", systems.DecayRange, "%.3f",
		func(p *systems.Params) float32 { return p.DecayRate },
		func(p *systems.Params, v float32) { p.DecayRate = v }},
	{"Diffusion Rate", systems.DiffusionRateRange, "%.2f",
		func(p *systems.Params) float32 { return p.DiffusionRate },
		func(p *systems.Params, v float32) { p.DiffusionRate = v }},
	{"Diffusion Size", systems.DiffusionSizeRange, "%.0f",
		func(p *systems.Params) float32 { return float32(p.DiffusionSize) },
		func(p *systems.Params, v float32) { p.DiffusionSize = int(v) }},
}

// ControlsAction reports button presses from the panel.
type ControlsAction struct {
	Reseed bool
}

// ControlsPanel renders the parameter sliders. It is the only writer of the
// parameter store besides keyboard shortcuts.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		visible:  true,
	}
}

// IsVisible returns whether the panel is shown.
func (c *ControlsPanel) IsVisible() bool {
	return c.visible
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// height returns the panel height for the current layout.
func (c *ControlsPanel) height() int32 {
	t := c.renderer.Theme
	return t.Padding*2 + t.LineHeight + int32(len(sliders))*(t.LineHeight+24) + 36
}

// Contains reports whether a screen point is over the panel, so the caller
// can keep panel drags from moving the camera.
func (c *ControlsPanel) Contains(x, y float32) bool {
	if !c.visible {
		return false
	}
	return x >= float32(c.x) && x < float32(c.x+c.width) &&
		y >= float32(c.y) && y < float32(c.y+c.height())
}

// Draw renders the panel and publishes any slider change to store.
func (c *ControlsPanel) Draw(store *systems.ParamStore) ControlsAction {
	var action ControlsAction
	if !c.visible {
		return action
	}

	r := c.renderer
	padding := r.Theme.Padding
	lineHeight := r.Theme.LineHeight

	r.DrawPanel(c.x, c.y, c.width, c.height())

	y := c.y + padding
	y = r.DrawSectionHeader(c.x+padding, y, "Parameters")

	p := store.Load()
	sliderW := float32(c.width - padding*2 - 70)

	for _, s := range sliders {
		cur := s.get(&p)
		rl.DrawText(s.label, c.x+padding, y, r.Theme.FontSize, r.Theme.LabelColor)
		y += lineHeight

		bounds := rl.Rectangle{X: float32(c.x + padding), Y: float32(y), Width: sliderW, Height: 16}
		v := gui.SliderBar(bounds, "", "", cur, s.rng.Min, s.rng.Max)
		rl.DrawText(fmt.Sprintf(s.format, cur), c.x+padding+int32(sliderW)+8, y+2, r.Theme.FontSize, r.Theme.ValueColor)

		if v != cur {
			v = s.rng.Clamp(v)
			set := s.set
			store.Update(func(p *systems.Params) { set(p, v) })
		}
		y += 24
	}

	y += 4
	half := float32(c.width-padding*3) / 2
	if gui.Button(rl.Rectangle{X: float32(c.x + padding), Y: float32(y), Width: half, Height: 24}, "Reseed") {
		action.Reseed = true
	}
	if gui.Button(rl.Rectangle{X: float32(c.x+padding*2) + half, Y: float32(y), Width: half, Height: 24}, "Defaults") {
		store.Update(func(p *systems.Params) {
			mode := p.ColorMode
			*p = systems.DefaultParams()
			p.ColorMode = mode
		})
	}

	return action
}
