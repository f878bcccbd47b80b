//go:build !linux

package prioritypool

// PinToCPU is a no-op outside Linux; workers are still locked to their
// OS threads.
func PinToCPU(int) error { return nil }
