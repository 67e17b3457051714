package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/truew1n/Physarum/camera"
	"github.com/truew1n/Physarum/systems"
)

// TrailRenderer blits the colorized display buffer to the screen through the
// camera. It only uploads and draws; all colour work happens in the pipeline.
type TrailRenderer struct {
	tex        rl.Texture2D
	texW, texH int

	initialized bool
}

// NewTrailRenderer creates a trail renderer.
func NewTrailRenderer() *TrailRenderer {
	return &TrailRenderer{}
}

// Init creates the texture (must be called after raylib window is created).
func (r *TrailRenderer) Init(w, h int) {
	if r.initialized {
		return
	}

	r.texW = w
	r.texH = h

	img := rl.GenImageColor(w, h, rl.Black)
	r.tex = rl.LoadTextureFromImage(img)
	rl.SetTextureFilter(r.tex, rl.FilterPoint)
	rl.SetTextureWrap(r.tex, rl.WrapClamp)
	rl.UnloadImage(img)

	r.initialized = true
}

// Upload copies the display buffer into the texture.
func (r *TrailRenderer) Upload(d *systems.DisplayBuffer) {
	if !r.initialized {
		r.Init(d.W, d.H)
	}
	if d.W != r.texW || d.H != r.texH {
		return
	}
	rl.UpdateTexture(r.tex, d.RGBA())
}

// Draw renders the field texture where the camera places it.
func (r *TrailRenderer) Draw(cam *camera.Camera) {
	if !r.initialized {
		return
	}

	x, y, w, h := cam.FieldRect()
	srcRect := rl.Rectangle{X: 0, Y: 0, Width: float32(r.texW), Height: float32(r.texH)}
	dstRect := rl.Rectangle{X: x, Y: y, Width: w, Height: h}

	rl.DrawTexturePro(r.tex, srcRect, dstRect, rl.Vector2{}, 0, rl.White)
	rl.DrawRectangleLinesEx(dstRect, 1, rl.Fade(rl.Gray, 0.4))
}

// Unload frees GPU resources.
func (r *TrailRenderer) Unload() {
	if !r.initialized {
		return
	}
	rl.UnloadTexture(r.tex)
	r.initialized = false
}
