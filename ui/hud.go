package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/truew1n/Physarum/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title         string
	Tick          int64
	Agents        int
	FieldW        int
	FieldH        int
	StepsPerFrame int
	Workers       int
	FPS           int32
	Paused        bool
	Recording     bool
	ColorMode     string
	Snapshot      string
	Coverage      float64 // From the last stats window
	ScreenWidth   int32
	ScreenHeight  int32
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
	}
}

// Draw renders the HUD in the top-right corner.
func (h *HUD) Draw(data HUDData) {
	const width = 260
	r := h.renderer
	x := data.ScreenWidth - width - 10
	y := int32(10)

	r.DrawPanel(x, y, width, 150)
	x += r.Theme.Padding
	y += r.Theme.Padding

	rl.DrawText(data.Title, x, y, 16, rl.White)
	y += 22

	y = r.DrawLabelValue(x, y, "Tick", fmt.Sprintf("%d", data.Tick))
	y = r.DrawLabelValue(x, y, "Agents", fmt.Sprintf("%d on %dx%d", data.Agents, data.FieldW, data.FieldH))
	y = r.DrawLabelValue(x, y, "Speed", fmt.Sprintf("%dx | %d workers | %d fps", data.StepsPerFrame, data.Workers, data.FPS))
	y = r.DrawLabelValue(x, y, "Colour", fmt.Sprintf("%s | %s", data.ColorMode, data.Snapshot))
	y = r.DrawBar(x, y, "Coverage", float32(data.Coverage), width-r.Theme.Padding*2)

	// Status
	statusText := "Running"
	statusColor := rl.Yellow
	if data.Paused {
		statusText = "PAUSED"
	}
	if data.Recording {
		statusText += "  REC"
		statusColor = rl.Red
	}
	rl.DrawText(statusText, x, y, 16, statusColor)
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenWidth, screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanel renders the per-phase timing breakdown.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	x := p.x
	y := p.y

	rl.DrawText("Pipeline Performance", x, y, 16, rl.White)
	y += 20

	rl.DrawText(fmt.Sprintf("Tick: %s  (%.0f/s)", stats.AvgTickDuration.Round(time.Microsecond), stats.TicksPerSecond), x, y, 14, rl.Yellow)
	y += 16

	for _, name := range telemetry.Phases {
		avg, ok := stats.PhaseAvg[name]
		if !ok {
			continue
		}
		pct := stats.PhasePct[name]

		color := rl.LightGray
		if pct > 40 {
			color = rl.Red
		} else if pct > 20 {
			color = rl.Orange
		}

		rl.DrawText(
			fmt.Sprintf("%-10s %8s %5.1f%%", name, avg.Round(time.Microsecond), pct),
			x, y, 12, color,
		)
		y += 14
	}

	rl.DrawText(fmt.Sprintf("Heap: %.0f MB | Host mem: %.0f%%", stats.HeapMB, stats.HostMemUsedPct), x, y+4, 12, rl.Gray)
}
