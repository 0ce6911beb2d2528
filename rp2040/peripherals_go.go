//go:build !tinygo

package rp2040

// newPeripherals backs the process-wide bundle with a simulator on regular Go.
func newPeripherals() *Peripherals {
	return NewSimulator().Peripherals()
}
