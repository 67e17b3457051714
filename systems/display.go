package systems

import (
	"image"
	"image/color"
	"unsafe"
)

// DisplayBuffer is the W×H packed-colour output of the colorizer. It holds no
// state beyond the last colorization and satisfies image.Image so encoders can
// read it directly.
type DisplayBuffer struct {
	W, H   int
	Pixels []uint32
}

// NewDisplayBuffer allocates a black buffer.
func NewDisplayBuffer(w, h int) *DisplayBuffer {
	return &DisplayBuffer{W: w, H: h, Pixels: make([]uint32, w*h)}
}

// ColorModel implements image.Image.
func (d *DisplayBuffer) ColorModel() color.Model { return color.RGBAModel }

// Bounds implements image.Image.
func (d *DisplayBuffer) Bounds() image.Rectangle { return image.Rect(0, 0, d.W, d.H) }

// At implements image.Image.
func (d *DisplayBuffer) At(x, y int) color.Color { return d.RGBAAt(x, y) }

// RGBAAt returns the pixel at (x, y).
func (d *DisplayBuffer) RGBAAt(x, y int) color.RGBA {
	if x < 0 || y < 0 || x >= d.W || y >= d.H {
		return color.RGBA{}
	}
	r, g, b, a := UnpackRGBA(d.Pixels[y*d.W+x])
	return color.RGBA{R: r, G: g, B: b, A: a}
}

// RGBA reinterprets the buffer as color.RGBA values without copying. The
// packed layout matches color.RGBA byte order on little-endian hosts, which
// is what texture uploads expect.
func (d *DisplayBuffer) RGBA() []color.RGBA {
	if len(d.Pixels) == 0 {
		return nil
	}
	return unsafe.Slice((*color.RGBA)(unsafe.Pointer(&d.Pixels[0])), len(d.Pixels))
}

// Image returns an *image.RGBA sharing the buffer's memory, which lets image
// encoders take their fast path.
func (d *DisplayBuffer) Image() *image.RGBA {
	var pix []uint8
	if len(d.Pixels) > 0 {
		pix = unsafe.Slice((*uint8)(unsafe.Pointer(&d.Pixels[0])), len(d.Pixels)*4)
	}
	return &image.RGBA{Pix: pix, Stride: 4 * d.W, Rect: d.Bounds()}
}
