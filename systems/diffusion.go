package systems

// DiffuseRows runs the diffuse-decay stencil over rows [y0, y1).
//
// Each cell averages the snapshot over its (2k+1)² neighbourhood, where k is
// DiffusionSize. Neighbours outside the grid contribute nothing but the
// divisor stays the full area, so edge cells darken. The average is blended
// with the cell's live value by DiffusionRate and the result scaled by
// DecayRate. Only Snapshot is read for neighbours, so rows may run in any
// order.
func DiffuseRows(f *Field, y0, y1 int, p *Params) {
	k := p.DiffusionSize
	if k < 0 {
		k = 0
	}
	side := 2*k + 1
	area := float32(side * side)
	rate := p.DiffusionRate
	decay := p.DecayRate
	w, h := f.W, f.H
	src := f.Snapshot
	dst := f.Live

	for y := y0; y < y1; y++ {
		ya, yb := max(y-k, 0), min(y+k, h-1)
		for x := 0; x < w; x++ {
			xa, xb := max(x-k, 0), min(x+k, w-1)

			var sum float32
			for ny := ya; ny <= yb; ny++ {
				row := src[ny*w+xa : ny*w+xb+1]
				for _, v := range row {
					sum += v
				}
			}

			i := y*w + x
			live := dst[i]
			blur := sum / area
			dst[i] = (live + (blur-live)*rate) * decay
		}
	}
}

// DiffuseAll runs DiffuseRows over the whole field.
func DiffuseAll(f *Field, p *Params) {
	DiffuseRows(f, 0, f.H, p)
}
