//go:build !tinygo

package core

import "sync"

// State is a placeholder for interrupt state on regular Go
type State uintptr

// hostIRQ stands in for the interrupt mask on regular Go, so tests can run
// "interrupt context" on another goroutine.
var hostIRQ sync.Mutex

// disableInterrupts takes the host interrupt lock (for testing)
func disableInterrupts() State {
	hostIRQ.Lock()
	return 0
}

// restoreInterrupts releases the host interrupt lock (for testing)
func restoreInterrupts(state State) {
	hostIRQ.Unlock()
}

// inInterrupt is always false on regular Go; handlers run as goroutines.
func inInterrupt() bool {
	return false
}
