package systems

import (
	"fmt"
	"unsafe"

	"github.com/shirou/gopsutil/v3/mem"
)

// MemoryFootprint returns the bytes needed for agents agents on a w×h field:
// the agent records, both field buffers and the display buffer.
func MemoryFootprint(agents, w, h int) uint64 {
	cells := uint64(w) * uint64(h)
	return uint64(agents)*uint64(unsafe.Sizeof(Agent{})) + cells*8 + cells*4
}

// CheckMemoryBudget fails when the footprint exceeds the memory the host
// reports as available. If the host cannot be queried the check passes.
func CheckMemoryBudget(agents, w, h int) error {
	need := MemoryFootprint(agents, w, h)
	vm, err := mem.VirtualMemory()
	if err != nil {
		return nil
	}
	if need > vm.Available {
		return fmt.Errorf("simulation needs %d MiB but only %d MiB is available (agents=%d field=%dx%d)",
			need>>20, vm.Available>>20, agents, w, h)
	}
	return nil
}
