package systems

import (
	"math"
	"sync/atomic"
	"unsafe"
)

// depositBits is the bit pattern of the value written by Deposit.
var depositBits = math.Float32bits(1.0)

// Field is the W×H trail grid, stored row-major (index y*W + x).
//
// Live holds the current intensities. Snapshot is the frozen copy the
// diffusion stencil reads neighbours from; it is refreshed once per frame by
// TakeSnapshot and never written by any other stage.
type Field struct {
	W, H int

	Live     []float32
	Snapshot []float32
}

// NewField allocates an empty field.
func NewField(w, h int) *Field {
	return &Field{
		W:        w,
		H:        h,
		Live:     make([]float32, w*h),
		Snapshot: make([]float32, w*h),
	}
}

// Len returns the number of cells.
func (f *Field) Len() int { return f.W * f.H }

// GridSize returns the grid dimensions.
func (f *Field) GridSize() (int, int) { return f.W, f.H }

// Index returns the row-major index of cell (x, y).
func (f *Field) Index(x, y int) int { return y*f.W + x }

// InBounds reports whether a field-space point lies in [0,W)×[0,H).
// NaN coordinates are out of bounds.
func (f *Field) InBounds(x, y float32) bool {
	return x >= 0 && x < float32(f.W) && y >= 0 && y < float32(f.H)
}

// At returns the live value of cell (x, y).
func (f *Field) At(x, y int) float32 { return f.Live[y*f.W+x] }

// Set writes the live value of cell (x, y).
func (f *Field) Set(x, y int, v float32) { f.Live[y*f.W+x] = v }

// Fill sets every live cell to v.
func (f *Field) Fill(v float32) {
	for i := range f.Live {
		f.Live[i] = v
	}
}

// Clear zeroes both buffers.
func (f *Field) Clear() {
	clear(f.Live)
	clear(f.Snapshot)
}

// SnapshotRange copies live cells [start, end) into the snapshot.
func (f *Field) SnapshotRange(start, end int) {
	copy(f.Snapshot[start:end], f.Live[start:end])
}

// TakeSnapshot copies the whole live field into the snapshot.
func (f *Field) TakeSnapshot() {
	f.SnapshotRange(0, len(f.Live))
}

// SampleSquare sums live values over the (2*size+1)² square centred on the
// point (x, y). Offsets are applied in field space before truncating to a
// cell. If any offset point falls outside the field the result is 0, not a
// partial sum.
func (f *Field) SampleSquare(x, y float32, size int) float32 {
	var sum float32
	for j := -size; j <= size; j++ {
		sy := y + float32(j)
		for i := -size; i <= size; i++ {
			sx := x + float32(i)
			if !f.InBounds(sx, sy) {
				return 0
			}
			sum += f.Live[int(sy)*f.W+int(sx)]
		}
	}
	return sum
}

// Deposit marks the cell under pos with exactly 1.0. Points outside the
// field are ignored. Concurrent deposits to the same cell are safe: every
// writer stores the same word.
func (f *Field) Deposit(pos Position) {
	if !f.InBounds(pos.X, pos.Y) {
		return
	}
	i := int(pos.Y)*f.W + int(pos.X)
	atomic.StoreUint32((*uint32)(unsafe.Pointer(&f.Live[i])), depositBits)
}

// TotalMass returns the sum of all live values.
func (f *Field) TotalMass() float64 {
	var total float64
	for _, v := range f.Live {
		total += float64(v)
	}
	return total
}

// Data returns the live grid for visualization and statistics.
func (f *Field) Data() []float32 {
	return f.Live
}
