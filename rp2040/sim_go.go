//go:build !tinygo

package rp2040

import "badger/mmio"

// Simulator backs a Peripherals bundle with in-memory registers and models
// the hardware side effects this package depends on: reset-done handshakes,
// oscillator and PLL lock status, glitchless clock mux selection, the SIO
// set/clear/xor aliases, pad pulls, GPIO edge latching and the free-running
// microsecond counter.
type Simulator struct {
	p *Peripherals

	xoscFreq   uint32
	failXOSC   bool
	failPLL    [2]bool
	stallMux   bool
	extDriven  uint32
	extLevel   uint32
	edges      [4]uint32
	now        uint64
	pllOf      map[*PLLRegs]int
	tickWrites int
}

// NewSimulator returns a simulator in the chip's power-on state with a
// 12 MHz crystal.
func NewSimulator() *Simulator {
	s := &Simulator{
		p: &Peripherals{
			XOSC:      new(XOSCRegs),
			PLLSys:    new(PLLRegs),
			PLLUSB:    new(PLLRegs),
			Clocks:    new(ClocksRegs),
			Watchdog:  new(WatchdogRegs),
			Resets:    new(ResetsRegs),
			IOBank0:   new(IOBank0Regs),
			PadsBank0: new(PadsBank0Regs),
			SIO:       new(SIORegs),
			Timer:     new(TimerRegs),
			Rest:      newRest(),
		},
		xoscFreq: 12 * MHz,
	}
	s.pllOf = map[*PLLRegs]int{s.p.PLLSys: 0, s.p.PLLUSB: 1}
	s.wire()
	s.powerOn()
	return s
}

// Peripherals returns the simulated bundle.
func (s *Simulator) Peripherals() *Peripherals {
	return s.p
}

// FailXOSC keeps the crystal oscillator from ever reporting stable.
func (s *Simulator) FailXOSC(fail bool) {
	s.failXOSC = fail
}

// FailPLLLock keeps PLL_SYS and/or PLL_USB from ever reporting lock.
func (s *Simulator) FailPLLLock(sys, usb bool) {
	s.failPLL = [2]bool{sys, usb}
}

// StallClockMux keeps glitchless muxes from acknowledging a new source.
func (s *Simulator) StallClockMux(stall bool) {
	s.stallMux = stall
}

// SetInput drives pin externally to the given level. Edges are latched in
// the raw interrupt registers the way IO_BANK0 does.
func (s *Simulator) SetInput(pin int, high bool) {
	mask := uint32(1) << uint(pin)
	s.extDriven |= mask
	if high {
		s.extLevel |= mask
	} else {
		s.extLevel &^= mask
	}
	s.settle()
}

// ReleaseInput stops driving pin, leaving its level to the pad pulls.
func (s *Simulator) ReleaseInput(pin int) {
	s.extDriven &^= uint32(1) << uint(pin)
	s.settle()
}

// SetTime sets the free-running counter to us microseconds.
func (s *Simulator) SetTime(us uint64) {
	s.now = us
	t := s.p.Timer
	t.TimeRawH.Store(uint32(us >> 32))
	t.TimeRawL.Store(uint32(us))
	t.TimeHR.Store(uint32(us >> 32))
	t.TimeLR.Store(uint32(us))
}

// Advance moves the free-running counter forward.
func (s *Simulator) Advance(us uint64) {
	s.SetTime(s.now + us)
}

// TickStarts reports how many times the watchdog tick was written.
func (s *Simulator) TickStarts() int {
	return s.tickWrites
}

// ClockFreq computes the frequency a generator actually produces from the
// simulated register state, independently of the Clocks value returned by
// the clock tree manager. It returns 0 for a stopped clock.
func (s *Simulator) ClockFreq(clk Clock) uint32 {
	switch clk {
	case ClockTick:
		tick := s.p.Watchdog.Tick.Get()
		cycles := tick & watchdogTickCyclesMask
		if tick&watchdogTickEnable == 0 || cycles == 0 {
			return 0
		}
		return s.xoscOut() / cycles
	case ClockRef:
		return s.genFreq(genRef)
	case ClockSys:
		return s.genFreq(genSys)
	case ClockPeri:
		return s.genFreq(genPeri)
	case ClockUSB:
		return s.genFreq(genUSB)
	case ClockADC:
		return s.genFreq(genADC)
	case ClockRTC:
		return s.genFreq(genRTC)
	}
	return 0
}

func (s *Simulator) xoscOut() uint32 {
	if !s.p.XOSC.Status.HasBits(xoscStatusStable) {
		return 0
	}
	return s.xoscFreq
}

func (s *Simulator) pllOut(pll *PLLRegs) uint32 {
	if !pll.CS.HasBits(pllCSLock) || pll.Pwr.HasBits(pllPwrPostDivPD) {
		return 0
	}
	refdiv := pll.CS.Get() & pllCSRefDivMask
	prim := pll.Prim.Get()
	pd1 := (prim >> pllPrimPostDiv1) & pllPostDivMask
	pd2 := (prim >> pllPrimPostDiv2) & pllPostDivMask
	if refdiv == 0 || pd1 == 0 || pd2 == 0 {
		return 0
	}
	vco := uint64(s.xoscOut()/refdiv) * uint64(pll.FBDivInt.Get()&pllFBDivIntMask)
	return uint32(vco / uint64(pd1*pd2))
}

func (s *Simulator) genFreq(gen int) uint32 {
	g := &s.p.Clocks.Clk[gen]
	ctrl := g.Ctrl.Get()
	aux := (ctrl >> clkCtrlAuxSrcPos) & clkCtrlAuxSrcMask

	var src uint32
	switch gen {
	case genRef:
		switch ctrl & clkCtrlSrcMask {
		case clkRefSrcXOSC:
			src = s.xoscOut()
		default:
			src = 6500000 // ROSC nominal
		}
	case genSys:
		if ctrl&clkCtrlSrcMask == clkSysSrcRef {
			src = s.genFreq(genRef)
		} else if aux == clkSysAuxPLLSys {
			src = s.pllOut(s.p.PLLSys)
		} else {
			src = s.pllOut(s.p.PLLUSB)
		}
	case genPeri:
		if ctrl&clkCtrlEnable == 0 {
			return 0
		}
		switch aux {
		case clkPeriAuxSys:
			src = s.genFreq(genSys)
		case 1:
			src = s.pllOut(s.p.PLLSys)
		default:
			src = s.pllOut(s.p.PLLUSB)
		}
	default:
		if ctrl&clkCtrlEnable == 0 || aux != 0 {
			return 0
		}
		src = s.pllOut(s.p.PLLUSB)
	}

	div := g.Div.Get()
	if gen == genPeri {
		return src
	}
	if div == 0 {
		return 0
	}
	return uint32(uint64(src) << 8 / uint64(div))
}

func (s *Simulator) powerOn() {
	p := s.p
	p.Resets.Reset.Store(ResetAll)
	p.Resets.ResetDone.Store(0)
	for _, pll := range []*PLLRegs{p.PLLSys, p.PLLUSB} {
		resetPLL(pll)
	}
	for i := range p.Clocks.Clk {
		p.Clocks.Clk[i].Div.Store(1 << 8)
		p.Clocks.Clk[i].Selected.Store(1)
	}
	for i := range p.PadsBank0.GPIO {
		// Reset pad state: input enabled, pull-down.
		p.PadsBank0.GPIO[i].Store(padIE | padPDE | 0x10 | 0x02)
	}
	for i := range p.IOBank0.GPIO {
		p.IOBank0.GPIO[i].Ctrl.Store(funcNull)
	}
	s.settle()
}

func resetPLL(pll *PLLRegs) {
	pll.CS.Store(1)
	pll.Pwr.Store(pllPwrReset)
	pll.FBDivInt.Store(0)
	pll.Prim.Store(7<<pllPrimPostDiv1 | 7<<pllPrimPostDiv2)
}

func (s *Simulator) wire() {
	p := s.p

	p.Resets.Reset.OnWrite(func(r *mmio.Register32, v uint32) {
		asserted := v &^ r.Get()
		r.Store(v)
		p.Resets.ResetDone.Store(^v & ResetAll)
		if asserted&ResetPLLSys != 0 {
			resetPLL(p.PLLSys)
		}
		if asserted&ResetPLLUSB != 0 {
			resetPLL(p.PLLUSB)
		}
	})

	p.XOSC.Ctrl.OnWrite(func(r *mmio.Register32, v uint32) {
		r.Store(v)
		enable := (v >> xoscCtrlEnablePos) & xoscCtrlEnableMask
		if enable == xoscCtrlEnable && !s.failXOSC {
			p.XOSC.Status.Store(p.XOSC.Status.Get() | xoscStatusStable)
		} else {
			p.XOSC.Status.Store(p.XOSC.Status.Get() &^ xoscStatusStable)
		}
	})

	for _, pll := range []*PLLRegs{p.PLLSys, p.PLLUSB} {
		pll := pll
		// LOCK is read-only.
		pll.CS.OnWrite(func(r *mmio.Register32, v uint32) {
			r.Store(v&^pllCSLock | r.Get()&pllCSLock)
		})
		pll.Pwr.OnWrite(func(r *mmio.Register32, v uint32) {
			r.Store(v)
			fbdiv := pll.FBDivInt.Get() & pllFBDivIntMask
			running := v&(pllPwrPD|pllPwrVCOPD) == 0 && fbdiv >= pllFBDivMin
			if running && !s.failPLL[s.pllOf[pll]] {
				pll.CS.Store(pll.CS.Get() | pllCSLock)
			} else {
				pll.CS.Store(pll.CS.Get() &^ pllCSLock)
			}
		})
	}

	for i := range p.Clocks.Clk {
		gen := &p.Clocks.Clk[i]
		glitchless := i == genRef || i == genSys
		gen.Ctrl.OnWrite(func(r *mmio.Register32, v uint32) {
			r.Store(v)
			if !glitchless {
				return
			}
			if !s.stallMux {
				gen.Selected.Store(1 << (v & clkCtrlSrcMask))
			}
		})
	}

	p.Watchdog.Tick.OnWrite(func(r *mmio.Register32, v uint32) {
		s.tickWrites++
		if v&watchdogTickEnable != 0 {
			v |= watchdogTickRunning
		} else {
			v &^= watchdogTickRunning
		}
		r.Store(v)
	})

	sio := p.SIO
	alias := func(reg *mmio.Register32, target *mmio.Register32, op func(cur, v uint32) uint32) {
		reg.OnWrite(func(_ *mmio.Register32, v uint32) {
			target.Store(op(target.Get(), v))
			s.settle()
		})
	}
	set := func(cur, v uint32) uint32 { return cur | v }
	clr := func(cur, v uint32) uint32 { return cur &^ v }
	xor := func(cur, v uint32) uint32 { return cur ^ v }
	alias(&sio.GPIOOutSet, &sio.GPIOOut, set)
	alias(&sio.GPIOOutClr, &sio.GPIOOut, clr)
	alias(&sio.GPIOOutXor, &sio.GPIOOut, xor)
	alias(&sio.GPIOOESet, &sio.GPIOOE, set)
	alias(&sio.GPIOOEClr, &sio.GPIOOE, clr)
	alias(&sio.GPIOOEXor, &sio.GPIOOE, xor)
	for _, reg := range []*mmio.Register32{&sio.GPIOOut, &sio.GPIOOE} {
		reg.OnWrite(func(r *mmio.Register32, v uint32) {
			r.Store(v)
			s.settle()
		})
	}

	for i := range p.PadsBank0.GPIO {
		p.PadsBank0.GPIO[i].OnWrite(func(r *mmio.Register32, v uint32) {
			r.Store(v)
			s.settle()
		})
	}

	bank := p.IOBank0
	for i := range bank.Intr {
		i := i
		// Edge bits are write-one-to-clear, level bits are read-only.
		bank.Intr[i].OnWrite(func(_ *mmio.Register32, v uint32) {
			s.edges[i] &^= v & edgeBits
			s.latch()
		})
		for _, reg := range []*mmio.Register32{&bank.Proc0.Inte[i], &bank.Proc0.Intf[i]} {
			reg.OnWrite(func(r *mmio.Register32, v uint32) {
				r.Store(v)
				s.latch()
			})
		}
	}
}

// settle recomputes GPIO_IN from output drivers, external drivers and pulls,
// then latches any edges.
func (s *Simulator) settle() {
	sio := s.p.SIO
	oe := sio.GPIOOE.Get()
	out := sio.GPIOOut.Get()
	old := sio.GPIOIn.Get()

	var in uint32
	for pin := 0; pin < NumPins; pin++ {
		mask := uint32(1) << uint(pin)
		pad := s.p.PadsBank0.GPIO[pin].Get()
		var high bool
		switch {
		case oe&mask != 0:
			high = out&mask != 0
		case s.extDriven&mask != 0:
			high = s.extLevel&mask != 0
		default:
			high = pad&padPUE != 0
		}
		if high && pad&padIE != 0 {
			in |= mask
		}
	}
	sio.GPIOIn.Store(in)

	changed := old ^ in
	for pin := 0; pin < NumPins; pin++ {
		mask := uint32(1) << uint(pin)
		if changed&mask == 0 {
			continue
		}
		shift := 4 * uint(pin%8)
		if in&mask != 0 {
			s.edges[pin/8] |= uint32(EdgeHigh) << shift
		} else {
			s.edges[pin/8] |= uint32(EdgeLow) << shift
		}
	}
	s.latch()
}

// latch refreshes INTR from levels and latched edges, and PROC0_INTS from it.
func (s *Simulator) latch() {
	bank := s.p.IOBank0
	in := s.p.SIO.GPIOIn.Get()
	for i := range bank.Intr {
		var levels uint32
		for n := 0; n < 8; n++ {
			pin := i*8 + n
			if pin >= NumPins {
				break
			}
			shift := 4 * uint(n)
			if in&(1<<uint(pin)) != 0 {
				levels |= uint32(LevelHigh) << shift
			} else {
				levels |= uint32(LevelLow) << shift
			}
		}
		raw := levels | s.edges[i]
		bank.Intr[i].Store(raw)
		bank.Proc0.Ints[i].Store((raw | bank.Proc0.Intf[i].Get()) & bank.Proc0.Inte[i].Get())
	}
}
