package systems

import (
	"fmt"
	"math"

	"github.com/crazy3lf/colorconv"
)

// ColorMode selects how field intensity becomes a pixel.
type ColorMode uint8

const (
	ColorMono  ColorMode = iota // R = G = B
	ColorGreen                  // G only
	ColorHue                    // intensity mapped around the hue wheel
	colorModeCount
)

var colorModeNames = [...]string{"mono", "green", "hue"}

func (m ColorMode) String() string {
	if int(m) < len(colorModeNames) {
		return colorModeNames[m]
	}
	return fmt.Sprintf("ColorMode(%d)", m)
}

// Next cycles to the following mode.
func (m ColorMode) Next() ColorMode {
	return (m + 1) % colorModeCount
}

// ParseColorMode resolves a mode name.
func ParseColorMode(s string) (ColorMode, error) {
	for i, name := range colorModeNames {
		if name == s {
			return ColorMode(i), nil
		}
	}
	return ColorMono, fmt.Errorf("unknown color mode %q", s)
}

// Channel maps an intensity to round(v*255). Inputs outside [0,1] are not
// clamped; packing keeps the low 8 bits.
func Channel(v float32) int32 {
	return int32(math.Round(float64(v) * 255))
}

// PackRGBA packs channels into one word with R in the low byte, matching the
// in-memory order of color.RGBA.
func PackRGBA(r, g, b, a uint8) uint32 {
	return uint32(r) | uint32(g)<<8 | uint32(b)<<16 | uint32(a)<<24
}

// UnpackRGBA splits a word produced by PackRGBA.
func UnpackRGBA(c uint32) (r, g, b, a uint8) {
	return uint8(c), uint8(c >> 8), uint8(c >> 16), uint8(c >> 24)
}

// huePalette maps a channel byte to a packed colour. Entry 0 is black so an
// empty field stays dark.
var huePalette = buildHuePalette()

func buildHuePalette() [256]uint32 {
	var pal [256]uint32
	pal[0] = PackRGBA(0, 0, 0, 0xFF)
	for i := 1; i < len(pal); i++ {
		t := float64(i) / 255
		hue := math.Mod(240-t*240, 360)
		r, g, b, err := colorconv.HSVToRGB(hue, 1, t)
		if err != nil {
			continue
		}
		pal[i] = PackRGBA(r, g, b, 0xFF)
	}
	return pal
}

// Colorize returns the packed pixel for one intensity.
func Colorize(v float32, mode ColorMode) uint32 {
	c := uint8(Channel(v))
	switch mode {
	case ColorGreen:
		return PackRGBA(0, c, 0, 0xFF)
	case ColorHue:
		return huePalette[c]
	default:
		return PackRGBA(c, c, c, 0xFF)
	}
}

// ColorizeRange writes pixels [start, end) of dst from the live field.
func ColorizeRange(f *Field, dst []uint32, start, end int, mode ColorMode) {
	src := f.Live
	for i := start; i < end; i++ {
		dst[i] = Colorize(src[i], mode)
	}
}
