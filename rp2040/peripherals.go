// Package rp2040 hands out the RP2040's peripherals and brings up the clock
// tree, GPIO bank and system timer on top of them.
package rp2040

import (
	"errors"

	"badger/core"
)

// ErrPeripheralsTaken is returned by Take once the peripherals are owned.
var ErrPeripheralsTaken = errors.New("rp2040: peripherals already taken")

// Block is the base address of a peripheral this package passes through
// without driving it.
type Block uintptr

// Peripherals is the exclusively owned bundle of every peripheral on the chip.
type Peripherals struct {
	XOSC      *XOSCRegs
	PLLSys    *PLLRegs
	PLLUSB    *PLLRegs
	Clocks    *ClocksRegs
	Watchdog  *WatchdogRegs
	Resets    *ResetsRegs
	IOBank0   *IOBank0Regs
	PadsBank0 *PadsBank0Regs
	SIO       *SIORegs
	Timer     *TimerRegs

	Rest Rest
}

// Rest holds the peripherals nothing in this package drives.
type Rest struct {
	SysInfo  Block
	SysCfg   Block
	PSM      Block
	IOQSPI   Block
	PadsQSPI Block
	BusCtrl  Block
	UART0    Block
	UART1    Block
	SPI0     Block
	SPI1     Block
	I2C0     Block
	I2C1     Block
	ADC      Block
	PWM      Block
	RTC      Block
	ROSC     Block
	VReg     Block
	TBMan    Block
	DMA      Block
	USBDPRAM Block
	USBRegs  Block
	PIO0     Block
	PIO1     Block
	XIPCtrl  Block
	XIPSSI   Block
}

func newRest() Rest {
	return Rest{
		SysInfo:  SysInfoBase,
		SysCfg:   SysCfgBase,
		PSM:      PSMBase,
		IOQSPI:   IOQSPIBase,
		PadsQSPI: PadsQSPIBase,
		BusCtrl:  BusCtrlBase,
		UART0:    UART0Base,
		UART1:    UART1Base,
		SPI0:     SPI0Base,
		SPI1:     SPI1Base,
		I2C0:     I2C0Base,
		I2C1:     I2C1Base,
		ADC:      ADCBase,
		PWM:      PWMBase,
		RTC:      RTCBase,
		ROSC:     ROSCBase,
		VReg:     VRegBase,
		TBMan:    TBManBase,
		DMA:      DMABase,
		USBDPRAM: USBDPRAMBase,
		USBRegs:  USBRegsBase,
		PIO0:     PIO0Base,
		PIO1:     PIO1Base,
		XIPCtrl:  XIPCtrlBase,
		XIPSSI:   XIPSSIBase,
	}
}

// ClockPeripherals returns the blocks the clock tree manager consumes.
func (p *Peripherals) ClockPeripherals() ClockPeripherals {
	return ClockPeripherals{
		XOSC:     p.XOSC,
		Clocks:   p.Clocks,
		PLLSys:   p.PLLSys,
		PLLUSB:   p.PLLUSB,
		Resets:   p.Resets,
		Watchdog: p.Watchdog,
	}
}

var peripherals = core.NewOwned(newPeripherals)

// Take returns the peripherals on the first call of the program run.
// Every later call, including one racing from an interrupt handler, returns
// ErrPeripheralsTaken. Take never panics; the caller decides whether a
// second take is fatal.
func Take() (*Peripherals, error) {
	p, ok := peripherals.Take()
	if !ok {
		return nil, ErrPeripheralsTaken
	}
	core.RecordEvent(core.EvtTake, 0, 0, 0)
	return p, nil
}
