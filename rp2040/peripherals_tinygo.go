//go:build tinygo

package rp2040

import "unsafe"

func newPeripherals() *Peripherals {
	return &Peripherals{
		XOSC:      (*XOSCRegs)(unsafe.Pointer(uintptr(XOSCBase))),
		PLLSys:    (*PLLRegs)(unsafe.Pointer(uintptr(PLLSysBase))),
		PLLUSB:    (*PLLRegs)(unsafe.Pointer(uintptr(PLLUSBBase))),
		Clocks:    (*ClocksRegs)(unsafe.Pointer(uintptr(ClocksBase))),
		Watchdog:  (*WatchdogRegs)(unsafe.Pointer(uintptr(WatchdogBase))),
		Resets:    (*ResetsRegs)(unsafe.Pointer(uintptr(ResetsBase))),
		IOBank0:   (*IOBank0Regs)(unsafe.Pointer(uintptr(IOBank0Base))),
		PadsBank0: (*PadsBank0Regs)(unsafe.Pointer(uintptr(PadsBank0Base))),
		SIO:       (*SIORegs)(unsafe.Pointer(uintptr(SIOBase))),
		Timer:     (*TimerRegs)(unsafe.Pointer(uintptr(TimerBase))),
		Rest:      newRest(),
	}
}
