package system

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

var (
	ErrInsufficientMemory = errors.New("insufficient memory")
	ErrMemoryProbe        = errors.New("memory probe failed")
)

// DefaultWorkers returns the number of logical CPUs, falling back to
// runtime.NumCPU when the host cannot be probed.
func DefaultWorkers() int {
	n, err := cpu.Counts(true)
	if err != nil || n <= 0 {
		return runtime.NumCPU()
	}
	return n
}

// ResolveWorkers turns a configured worker count into a usable one.
// Zero means DefaultWorkers.
func ResolveWorkers(configured int) int {
	if configured > 0 {
		return configured
	}
	return DefaultWorkers()
}

// AvailableMemory reports the memory the OS considers available for new
// allocations.
func AvailableMemory() (uint64, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return 0, err
	}
	return vm.Available, nil
}

// CheckMemory fails with ErrInsufficientMemory when need exceeds what
// probe reports. A failing probe yields ErrMemoryProbe, which callers
// may treat as "unknown, carry on".
func CheckMemory(need uint64, probe func() (uint64, error)) error {
	avail, err := probe()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMemoryProbe, err)
	}
	if need > avail {
		return fmt.Errorf("%w: need %d bytes, %d available", ErrInsufficientMemory, need, avail)
	}
	return nil
}
