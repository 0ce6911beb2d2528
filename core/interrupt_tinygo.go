//go:build tinygo

package core

import "runtime/interrupt"

// disableInterrupts masks interrupts on the core and returns the old mask.
func disableInterrupts() interrupt.State {
	return interrupt.Disable()
}

// restoreInterrupts puts back the mask saved by disableInterrupts.
func restoreInterrupts(state interrupt.State) {
	interrupt.Restore(state)
}

// inInterrupt reports whether the caller is running in an interrupt handler.
func inInterrupt() bool {
	return interrupt.In()
}
