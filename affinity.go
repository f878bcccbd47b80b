//go:build linux

package prioritypool

import (
	"golang.org/x/sys/unix"
)

// PinToCPU restricts the calling OS thread to cpu.
// The caller must have locked the goroutine to its thread.
func PinToCPU(cpu int) error {
	var mask unix.CPUSet
	mask.Zero()
	mask.Set(cpu)
	return unix.SchedSetaffinity(0, &mask)
}
