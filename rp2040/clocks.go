package rp2040

import (
	"errors"
	"time"

	"badger/core"
)

// MHz is one megahertz in Hz.
const MHz = 1_000_000

var (
	// ErrClockSelect is returned when a glitchless mux never acknowledges
	// its new source.
	ErrClockSelect = errors.New("rp2040: clock source not selected")
	// ErrClockOverspeed is returned when a generator is asked to run faster
	// than its source.
	ErrClockOverspeed = errors.New("rp2040: clock faster than its source")
)

// Clock names a clock domain.
type Clock uint8

// Clock domains reported by Clocks.
const (
	ClockRef Clock = iota
	ClockSys
	ClockPeri
	ClockUSB
	ClockADC
	ClockRTC
	ClockTick
	numClocks
)

var clockNames = [numClocks]string{"ref", "sys", "peri", "usb", "adc", "rtc", "tick"}

func (c Clock) String() string {
	if c < numClocks {
		return clockNames[c]
	}
	return "clock" + core.Utoa(uint32(c))
}

// ClockError reports the bring-up stage that failed.
type ClockError struct {
	Stage string
	Err   error
}

func (e *ClockError) Error() string {
	return "rp2040: clock init " + e.Stage + ": " + e.Err.Error()
}

func (e *ClockError) Unwrap() error {
	return e.Err
}

// ClockConfig selects the crystal and PLL settings. Zero fields take the
// values from DefaultClockConfig.
type ClockConfig struct {
	XOSCFreq   uint32
	SysPLL     PLLConfig
	USBPLL     PLLConfig
	RTCFreq    uint32
	PollBudget int
}

// DefaultClockConfig returns the standard RP2040 tree for a 12 MHz crystal:
// 125 MHz system clock and 48 MHz USB clock.
func DefaultClockConfig() ClockConfig {
	return ClockConfig{
		XOSCFreq:   12 * MHz,
		SysPLL:     PLLConfig{RefDiv: 1, VCOFreq: 1500 * MHz, PostDiv1: 6, PostDiv2: 2},
		USBPLL:     PLLConfig{RefDiv: 1, VCOFreq: 480 * MHz, PostDiv1: 5, PostDiv2: 2},
		RTCFreq:    46875,
		PollBudget: DefaultPollBudget,
	}
}

func (c *ClockConfig) applyDefaults() {
	def := DefaultClockConfig()
	if c.XOSCFreq == 0 {
		c.XOSCFreq = def.XOSCFreq
	}
	if c.SysPLL == (PLLConfig{}) {
		c.SysPLL = def.SysPLL
	}
	if c.USBPLL == (PLLConfig{}) {
		c.USBPLL = def.USBPLL
	}
	if c.RTCFreq == 0 {
		c.RTCFreq = def.RTCFreq
	}
	if c.PollBudget <= 0 {
		c.PollBudget = def.PollBudget
	}
}

// ClockPeripherals are the blocks consumed by InitClocksAndPLLs.
type ClockPeripherals struct {
	XOSC     *XOSCRegs
	Clocks   *ClocksRegs
	PLLSys   *PLLRegs
	PLLUSB   *PLLRegs
	Resets   *ResetsRegs
	Watchdog *WatchdogRegs
}

// Clocks is the frozen set of frequencies the tree was configured to.
// The zero value means the tree has not been brought up.
type Clocks struct {
	freq [numClocks]uint32
}

// Freq returns the frequency of clk in Hz.
func (c Clocks) Freq(clk Clock) uint32 {
	if clk >= numClocks {
		return 0
	}
	return c.freq[clk]
}

func (c Clocks) SystemClock() uint32     { return c.freq[ClockSys] }
func (c Clocks) PeripheralClock() uint32 { return c.freq[ClockPeri] }
func (c Clocks) ReferenceClock() uint32  { return c.freq[ClockRef] }
func (c Clocks) USBClock() uint32        { return c.freq[ClockUSB] }
func (c Clocks) ADCClock() uint32        { return c.freq[ClockADC] }
func (c Clocks) RTCClock() uint32        { return c.freq[ClockRTC] }
func (c Clocks) TickFreq() uint32        { return c.freq[ClockTick] }

// Ready reports whether the tree was brought up.
func (c Clocks) Ready() bool {
	return c.freq[ClockSys] != 0
}

// All returns every domain frequency, indexed by Clock.
func (c Clocks) All() [numClocks]uint32 {
	return c.freq
}

// TicksFor converts d to ticks of a hz clock, rounding up.
func TicksFor(d time.Duration, hz uint32) uint64 {
	if d <= 0 {
		return 0
	}
	ns := uint64(d)
	whole := ns / uint64(time.Second) * uint64(hz)
	rem := ns % uint64(time.Second) * uint64(hz)
	return whole + (rem+uint64(time.Second)-1)/uint64(time.Second)
}

// InitClocksAndPLLs brings up the crystal, both PLLs and every clock
// generator, in that order, and returns the resulting frequencies.
// On any failure it returns the zero Clocks and a *ClockError.
func InitClocksAndPLLs(cfg ClockConfig, p ClockPeripherals) (Clocks, error) {
	cfg.applyDefaults()
	t := clockTree{regs: p.Clocks, budget: cfg.PollBudget, sysFreq: 6500000}

	cycles := cfg.XOSCFreq / MHz
	if cycles == 0 || cycles > watchdogTickCyclesMask {
		return fail("tick", ErrPLLConfig)
	}
	NewWatchdog(p.Watchdog).EnableTick(cfg.XOSCFreq)
	t.freq[ClockTick] = cfg.XOSCFreq / cycles
	p.Clocks.SysResusCtrl.Set(0)

	if err := startXOSC(p.XOSC, cfg.XOSCFreq, cfg.PollBudget); err != nil {
		return fail("xosc", err)
	}
	stage(0, cfg.XOSCFreq)

	// Move the glitchless muxes off the aux sources before the PLLs
	// under them are reset.
	for _, gen := range [...]int{genSys, genRef} {
		g := &p.Clocks.Clk[gen]
		g.Ctrl.ClearBits(clkCtrlSrcMask)
		if err := t.waitSelected(g, 1); err != nil {
			return fail(genStage(gen), err)
		}
	}

	if err := configurePLL(p.PLLSys, p.Resets, ResetPLLSys, cfg.SysPLL, cfg.XOSCFreq, cfg.PollBudget); err != nil {
		return fail("pll_sys", err)
	}
	stage(1, cfg.SysPLL.Output())
	if err := configurePLL(p.PLLUSB, p.Resets, ResetPLLUSB, cfg.USBPLL, cfg.XOSCFreq, cfg.PollBudget); err != nil {
		return fail("pll_usb", err)
	}
	stage(2, cfg.USBPLL.Output())

	sys := cfg.SysPLL.Output()
	usb := cfg.USBPLL.Output()
	steps := [...]struct {
		gen     int
		clk     Clock
		src     uint32
		aux     uint32
		srcFreq uint32
		freq    uint32
	}{
		{genRef, ClockRef, clkRefSrcXOSC, 0, cfg.XOSCFreq, cfg.XOSCFreq},
		{genSys, ClockSys, clkSysSrcAux, clkSysAuxPLLSys, sys, sys},
		{genUSB, ClockUSB, 0, clkUSBAuxPLLUSB, usb, usb},
		{genADC, ClockADC, 0, clkADCAuxPLLUSB, usb, usb},
		{genRTC, ClockRTC, 0, clkRTCAuxPLLUSB, usb, cfg.RTCFreq},
		{genPeri, ClockPeri, 0, clkPeriAuxSys, sys, sys},
	}
	for i, s := range steps {
		if err := t.configure(s.gen, s.src, s.aux, s.srcFreq, s.freq); err != nil {
			return fail(genStage(s.gen), err)
		}
		t.freq[s.clk] = s.freq
		stage(uint8(3+i), s.freq)
	}

	if t.freq[ClockPeri] > t.freq[ClockSys] {
		return fail("clk_peri", ErrClockOverspeed)
	}
	return Clocks{freq: t.freq}, nil
}

func stage(n uint8, freq uint32) {
	core.RecordEvent(core.EvtClockStage, n, freq, 0)
}

func fail(name string, err error) (Clocks, error) {
	core.RecordEvent(core.EvtClockFail, 0, 0, 0)
	core.DebugPrintln("clock init failed at " + name + ": " + err.Error())
	return Clocks{}, &ClockError{Stage: name, Err: err}
}

func genStage(gen int) string {
	switch gen {
	case genRef:
		return "clk_ref"
	case genSys:
		return "clk_sys"
	case genPeri:
		return "clk_peri"
	case genUSB:
		return "clk_usb"
	case genADC:
		return "clk_adc"
	case genRTC:
		return "clk_rtc"
	}
	return "clk_gpout"
}

// clockTree tracks generator frequencies while the tree is being built.
type clockTree struct {
	regs    *ClocksRegs
	budget  int
	sysFreq uint32
	freq    [numClocks]uint32
}

func (t *clockTree) waitSelected(g *ClockGenRegs, want uint32) error {
	for i := 0; i < t.budget; i++ {
		if g.Selected.Get()&want != 0 {
			return nil
		}
	}
	return ErrClockSelect
}

// configure points generator gen at a source running at srcFreq Hz and
// divides it down to freq Hz.
func (t *clockTree) configure(gen int, src, auxsrc, srcFreq, freq uint32) error {
	if freq == 0 || freq > srcFreq {
		return ErrClockOverspeed
	}
	// Divider is 24.8 fixed point. clk_peri has no divider.
	div := uint32(uint64(srcFreq) << 8 / uint64(freq))
	hasDiv := gen != genPeri
	if gen == genPeri && div != 1<<8 {
		return ErrClockOverspeed
	}

	g := &t.regs.Clk[gen]
	if hasDiv && div > g.Div.Get() {
		g.Div.Set(div)
	}

	glitchless := gen == genRef || gen == genSys
	if glitchless && src == clkSysSrcAux {
		// Switching aux sources under a glitchless mux: park on the
		// primary source first.
		g.Ctrl.ClearBits(clkCtrlSrcMask)
		if err := t.waitSelected(g, 1); err != nil {
			return err
		}
	} else if !glitchless {
		// Stop the generator and give it three of its own cycles to
		// drain before changing the aux mux.
		g.Ctrl.ClearBits(clkCtrlEnable)
		if cur := t.genFreq(gen); cur > 0 {
			spin := t.sysFreq/cur + 1
			for i := uint32(0); i < spin*3; i++ {
				_ = g.Ctrl.Get()
			}
		}
	}

	g.Ctrl.ReplaceBits(auxsrc, clkCtrlAuxSrcMask, clkCtrlAuxSrcPos)
	if glitchless {
		g.Ctrl.ReplaceBits(src, clkCtrlSrcMask, 0)
		if err := t.waitSelected(g, 1<<src); err != nil {
			return err
		}
	}
	g.Ctrl.SetBits(clkCtrlEnable)
	if hasDiv {
		g.Div.Set(div)
	}
	if gen == genSys {
		t.sysFreq = freq
	}
	return nil
}

func (t *clockTree) genFreq(gen int) uint32 {
	switch gen {
	case genRef:
		return t.freq[ClockRef]
	case genSys:
		return t.freq[ClockSys]
	case genPeri:
		return t.freq[ClockPeri]
	case genUSB:
		return t.freq[ClockUSB]
	case genADC:
		return t.freq[ClockADC]
	case genRTC:
		return t.freq[ClockRTC]
	}
	return 0
}
