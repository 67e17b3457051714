package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/truew1n/Physarum/ui"
)

const controlsLegend = "[Space] Pause  [R] Reseed  [C] Colour  [H] Panel  [P] Perf  [,/.] Speed  [Wheel/RMB] Camera  [Home] Reset view"

// Draw renders the game.
func (g *Game) Draw() {
	g.perfCollector.RecordFrame()

	g.trail.Upload(g.pipeline.Display())

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	g.trail.Draw(g.camera)

	if action := g.controls.Draw(g.params); action.Reseed {
		g.Reseed()
	}

	g.hud.Draw(g.hudData())
	g.hud.DrawControls(int32(g.screenWidth), int32(g.screenHeight), controlsLegend)

	if g.showPerf {
		g.perfPanel.Draw(g.perfCollector.Stats())
	}

	rl.EndDrawing()
}

// hudData collects the values shown in the HUD.
func (g *Game) hudData() ui.HUDData {
	fw, fh := g.pipeline.Field().GridSize()
	return ui.HUDData{
		Title:         "Physarum",
		Tick:          g.pipeline.Tick(),
		Agents:        g.pipeline.Agents().Len(),
		FieldW:        fw,
		FieldH:        fh,
		StepsPerFrame: g.stepsPerUpdate,
		Workers:       g.pipeline.Workers(),
		FPS:           rl.GetFPS(),
		Paused:        g.paused,
		Recording:     g.recorder != nil,
		ColorMode:     g.params.Load().ColorMode.String(),
		Snapshot:      g.pipeline.Policy().String(),
		Coverage:      g.lastStats.Coverage,
		ScreenWidth:   int32(g.screenWidth),
		ScreenHeight:  int32(g.screenHeight),
	}
}
