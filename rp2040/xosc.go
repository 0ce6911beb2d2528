package rp2040

import "errors"

// ErrXOSCStartup is returned when the crystal oscillator never reports stable.
var ErrXOSCStartup = errors.New("rp2040: crystal oscillator did not stabilise")

// startXOSC enables the crystal oscillator for a crystal of freq Hz and
// waits for it to stabilise.
func startXOSC(x *XOSCRegs, freq uint32, budget int) error {
	x.Ctrl.Set(xoscCtrlFreqRange1_15MHz)

	// Startup delay is counted in units of 256 crystal cycles, for ~1 ms.
	delay := ((freq / 1000) + 128) / 256
	x.Startup.Set(delay & xoscStartupDelayMask)

	x.Ctrl.ReplaceBits(xoscCtrlEnable, xoscCtrlEnableMask, xoscCtrlEnablePos)

	for i := 0; i < budget; i++ {
		if x.Status.HasBits(xoscStatusStable) {
			return nil
		}
	}
	return ErrXOSCStartup
}
