package rp2040

import "badger/mmio"

// Peripheral base addresses (RP2040 datasheet, section 2.2).
const (
	SysInfoBase   = 0x40000000
	SysCfgBase    = 0x40004000
	ClocksBase    = 0x40008000
	ResetsBase    = 0x4000c000
	PSMBase       = 0x40010000
	IOBank0Base   = 0x40014000
	IOQSPIBase    = 0x40018000
	PadsBank0Base = 0x4001c000
	PadsQSPIBase  = 0x40020000
	XOSCBase      = 0x40024000
	PLLSysBase    = 0x40028000
	PLLUSBBase    = 0x4002c000
	BusCtrlBase   = 0x40030000
	UART0Base     = 0x40034000
	UART1Base     = 0x40038000
	SPI0Base      = 0x4003c000
	SPI1Base      = 0x40040000
	I2C0Base      = 0x40044000
	I2C1Base      = 0x40048000
	ADCBase       = 0x4004c000
	PWMBase       = 0x40050000
	TimerBase     = 0x40054000
	WatchdogBase  = 0x40058000
	RTCBase       = 0x4005c000
	ROSCBase      = 0x40060000
	VRegBase      = 0x40064000
	TBManBase     = 0x4006c000
	DMABase       = 0x50000000
	USBDPRAMBase  = 0x50100000
	USBRegsBase   = 0x50110000
	PIO0Base      = 0x50200000
	PIO1Base      = 0x50300000
	SIOBase       = 0xd0000000
	XIPCtrlBase   = 0x14000000
	XIPSSIBase    = 0x18000000
)

// XOSCRegs is the crystal oscillator register block.
type XOSCRegs struct {
	Ctrl    mmio.Register32
	Status  mmio.Register32
	Dormant mmio.Register32
	Startup mmio.Register32
	_       [3]mmio.Register32
	Count   mmio.Register32
}

const (
	xoscCtrlFreqRange1_15MHz = 0xaa0
	xoscCtrlEnablePos        = 12
	xoscCtrlEnableMask       = 0xfff
	xoscCtrlEnable           = 0xfab
	xoscStatusStable         = 1 << 31
	xoscStartupDelayMask     = 0x3fff
)

// PLLRegs is the register block shared by PLL_SYS and PLL_USB.
type PLLRegs struct {
	CS       mmio.Register32
	Pwr      mmio.Register32
	FBDivInt mmio.Register32
	Prim     mmio.Register32
}

const (
	pllCSRefDivMask  = 0x3f
	pllCSLock        = 1 << 31
	pllPwrPD         = 1 << 0
	pllPwrDSMPD      = 1 << 2
	pllPwrPostDivPD  = 1 << 3
	pllPwrVCOPD      = 1 << 5
	pllPwrReset      = pllPwrPD | pllPwrDSMPD | pllPwrPostDivPD | pllPwrVCOPD
	pllPrimPostDiv1  = 16
	pllPrimPostDiv2  = 12
	pllPostDivMask   = 0x7
	pllFBDivIntMask  = 0xfff
	pllFBDivMin      = 16
	pllFBDivMax      = 320
	pllVCOMin        = 400 * MHz
	pllVCOMax        = 1600 * MHz
	pllRefMin        = 5 * MHz
	pllPostDivMax    = 7
	pllRefDivMaximum = 63
)

// ClockGenRegs is one clock generator: control, divisor and selected source.
type ClockGenRegs struct {
	Ctrl     mmio.Register32
	Div      mmio.Register32
	Selected mmio.Register32
}

// ClocksRegs is the CLOCKS register block.
type ClocksRegs struct {
	Clk            [numClockGens]ClockGenRegs
	SysResusCtrl   mmio.Register32
	SysResusStatus mmio.Register32
}

// Clock generator slots in the CLOCKS block.
const (
	genGPOut0 = iota
	genGPOut1
	genGPOut2
	genGPOut3
	genRef
	genSys
	genPeri
	genUSB
	genADC
	genRTC
	numClockGens
)

const (
	clkCtrlSrcMask    = 0x3
	clkCtrlAuxSrcPos  = 5
	clkCtrlAuxSrcMask = 0x7
	clkCtrlEnable     = 1 << 11

	clkRefSrcXOSC   = 2
	clkSysSrcRef    = 0
	clkSysSrcAux    = 1
	clkSysAuxPLLSys = 0
	clkPeriAuxSys   = 0
	clkUSBAuxPLLUSB = 0
	clkADCAuxPLLUSB = 0
	clkRTCAuxPLLUSB = 0
)

// WatchdogRegs is the WATCHDOG register block.
type WatchdogRegs struct {
	Ctrl    mmio.Register32
	Load    mmio.Register32
	Reason  mmio.Register32
	Scratch [8]mmio.Register32
	Tick    mmio.Register32
}

const (
	watchdogCtrlEnable     = 1 << 30
	watchdogTickCyclesMask = 0x1ff
	watchdogTickEnable     = 1 << 9
	watchdogTickRunning    = 1 << 10
	watchdogLoadMask       = 0xffffff
)

// ResetsRegs is the RESETS register block.
type ResetsRegs struct {
	Reset     mmio.Register32
	WDSel     mmio.Register32
	ResetDone mmio.Register32
}

// Reset bits for the blocks this package brings up.
const (
	ResetADC       = 1 << 0
	ResetIOBank0   = 1 << 5
	ResetPadsBank0 = 1 << 8
	ResetPIO0      = 1 << 10
	ResetPIO1      = 1 << 11
	ResetPLLSys    = 1 << 12
	ResetPLLUSB    = 1 << 13
	ResetSPI0      = 1 << 16
	ResetTimer     = 1 << 21
	ResetAll       = 0x01ffffff
)

// GPIORegs is one pin's status and control pair in IO_BANK0.
type GPIORegs struct {
	Status mmio.Register32
	Ctrl   mmio.Register32
}

// IRQCtrlRegs holds the enable, force and status registers for one
// interrupt destination. Each register covers eight pins, four bits a pin.
type IRQCtrlRegs struct {
	Inte [4]mmio.Register32
	Intf [4]mmio.Register32
	Ints [4]mmio.Register32
}

// IOBank0Regs is the IO_BANK0 register block.
type IOBank0Regs struct {
	GPIO        [NumPins]GPIORegs
	Intr        [4]mmio.Register32
	Proc0       IRQCtrlRegs
	Proc1       IRQCtrlRegs
	DormantWake IRQCtrlRegs
}

// edgeBits selects the EDGE_LOW and EDGE_HIGH bit of every pin nibble.
const edgeBits = 0xcccccccc

const (
	ioCtrlFuncSelMask = 0x1f
	funcSIO           = 5
	funcNull          = 0x1f
)

// PadsBank0Regs is the PADS_BANK0 register block.
type PadsBank0Regs struct {
	VoltageSelect mmio.Register32
	GPIO          [NumPins]mmio.Register32
}

const (
	padPDE        = 1 << 2
	padPUE        = 1 << 3
	padIE         = 1 << 6
	padOD         = 1 << 7
	padPullMask   = padPDE | padPUE
	padConfigMask = padIE | padOD
)

// SIORegs is the single-cycle IO block, GPIO part.
type SIORegs struct {
	CPUID      mmio.Register32
	GPIOIn     mmio.Register32
	GPIOHiIn   mmio.Register32
	_          mmio.Register32
	GPIOOut    mmio.Register32
	GPIOOutSet mmio.Register32
	GPIOOutClr mmio.Register32
	GPIOOutXor mmio.Register32
	GPIOOE     mmio.Register32
	GPIOOESet  mmio.Register32
	GPIOOEClr  mmio.Register32
	GPIOOEXor  mmio.Register32
}

// TimerRegs is the TIMER register block.
type TimerRegs struct {
	TimeHW   mmio.Register32
	TimeLW   mmio.Register32
	TimeHR   mmio.Register32
	TimeLR   mmio.Register32
	Alarm    [4]mmio.Register32
	Armed    mmio.Register32
	TimeRawH mmio.Register32
	TimeRawL mmio.Register32
	DbgPause mmio.Register32
	Pause    mmio.Register32
	Intr     mmio.Register32
	Inte     mmio.Register32
	Intf     mmio.Register32
	Ints     mmio.Register32
}
