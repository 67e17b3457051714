package systems

import "math/rand/v2"

// agentStream returns the random stream owned by one agent. Streams are keyed
// by (seed, index) so any range of agents can be initialized on any worker
// without sharing generator state.
func agentStream(seed uint64, index int) *rand.PCG {
	return rand.NewPCG(seed, uint64(index))
}

// unitFloat draws a float32 in [0,1) from a stream.
func unitFloat(src *rand.PCG) float32 {
	return float32(src.Uint64()>>40) / (1 << 24)
}

// hashUnit maps (seed, index) to a float in [0,1). The same inputs always give
// the same value, so the result does not depend on the frame number.
func hashUnit(seed, index uint32) float32 {
	h := index*374761393 + seed*1442695041
	h = (h ^ (h >> 13)) * 1274126177
	h ^= h >> 16
	return float32(h&0x00FFFFFF) / float32(0x01000000)
}
