package rp2040

import (
	"errors"

	"badger/core"
)

// NumPins is the number of user GPIOs in IO_BANK0.
const NumPins = 30

var (
	ErrInvalidPin = errors.New("rp2040: invalid pin")
	ErrPinTaken   = errors.New("rp2040: pin already taken")
	ErrStalePin   = errors.New("rp2040: stale pin handle")
	ErrWrongMode  = errors.New("rp2040: pin in wrong mode")
)

// Mode is the electrical configuration of a pin.
type Mode uint8

const (
	ModeFloatingInput Mode = iota
	ModePullUpInput
	ModePullDownInput
	ModePushPullOutput
	ModeOpenDrainOutput
	ModeFunction
)

var modeNames = [...]string{
	ModeFloatingInput:   "floating input",
	ModePullUpInput:     "pull-up input",
	ModePullDownInput:   "pull-down input",
	ModePushPullOutput:  "push-pull output",
	ModeOpenDrainOutput: "open-drain output",
	ModeFunction:        "function",
}

func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return "mode" + core.Utoa(uint32(m))
}

// IsInput reports whether m is one of the input modes.
func (m Mode) IsInput() bool {
	return m <= ModePullDownInput
}

// IsOutput reports whether m is one of the output modes.
func (m Mode) IsOutput() bool {
	return m == ModePushPullOutput || m == ModeOpenDrainOutput
}

// Function is an IO_BANK0 function select value.
type Function uint8

const (
	FuncSPI  Function = 1
	FuncUART Function = 2
	FuncI2C  Function = 3
	FuncPWM  Function = 4
	FuncPIO0 Function = 6
	FuncPIO1 Function = 7
	FuncGPCK Function = 8
	FuncUSB  Function = 9
)

func (f Function) String() string {
	switch f {
	case FuncSPI:
		return "spi"
	case FuncUART:
		return "uart"
	case FuncI2C:
		return "i2c"
	case FuncPWM:
		return "pwm"
	case funcSIO:
		return "sio"
	case FuncPIO0:
		return "pio0"
	case FuncPIO1:
		return "pio1"
	case FuncGPCK:
		return "gpck"
	case FuncUSB:
		return "usb"
	case funcNull:
		return "null"
	}
	return "func" + core.Utoa(uint32(f))
}

// Interrupt is a GPIO interrupt condition. Conditions may be or'ed together.
type Interrupt uint8

const (
	LevelLow  Interrupt = 1
	LevelHigh Interrupt = 2
	EdgeLow   Interrupt = 4
	EdgeHigh  Interrupt = 8
)

// ModeError describes a pin operation attempted through a stale handle or
// on a pin in the wrong mode. Pin operations panic with it.
type ModeError struct {
	Pin   uint8
	Op    string
	Have  Mode
	Want  Mode
	Stale bool
}

func (e *ModeError) Error() string {
	msg := "rp2040: gpio" + core.Utoa(uint32(e.Pin)) + ": " + e.Op
	if e.Stale {
		return msg + ": stale handle"
	}
	return msg + ": pin is " + e.Have.String() + ", want " + e.Want.String()
}

func (e *ModeError) Unwrap() error {
	if e.Stale {
		return ErrStalePin
	}
	return ErrWrongMode
}

type pinState struct {
	gen   uint32
	mode  Mode
	fn    Function
	taken bool
}

// Pins is the GPIO registry. It tracks every pin's mode and hands each pin
// out once. Mode transitions invalidate the handle they were made through.
type Pins struct {
	bank  *IOBank0Regs
	pads  *PadsBank0Regs
	sio   *SIORegs
	state [NumPins]pinState
}

// NewPins brings IO_BANK0 and PADS_BANK0 out of reset and puts every pin
// into floating input.
func NewPins(bank *IOBank0Regs, pads *PadsBank0Regs, sio *SIORegs, resets *ResetsRegs) (*Pins, error) {
	if err := resets.Release(ResetIOBank0|ResetPadsBank0, DefaultPollBudget); err != nil {
		return nil, err
	}
	p := &Pins{bank: bank, pads: pads, sio: sio}
	core.Critical(func() {
		for id := uint8(0); id < NumPins; id++ {
			p.apply(id, ModeFloatingInput, funcSIO)
			p.state[id] = pinState{gen: 1, mode: ModeFloatingInput, fn: funcSIO}
		}
	})
	return p, nil
}

// Pin hands out pin n. Each pin can be taken once.
func (p *Pins) Pin(n int) (Pin, error) {
	if n < 0 || n >= NumPins {
		return Pin{}, ErrInvalidPin
	}
	var pin Pin
	var err error
	core.Critical(func() {
		st := &p.state[n]
		if st.taken {
			err = ErrPinTaken
			return
		}
		st.taken = true
		pin = Pin{pins: p, id: uint8(n), gen: st.gen}
	})
	return pin, err
}

// All hands out every pin. It fails if any pin was already taken.
func (p *Pins) All() ([NumPins]Pin, error) {
	var all [NumPins]Pin
	var err error
	core.Critical(func() {
		for n := range p.state {
			if p.state[n].taken {
				err = ErrPinTaken
				return
			}
		}
		for n := range p.state {
			p.state[n].taken = true
			all[n] = Pin{pins: p, id: uint8(n), gen: p.state[n].gen}
		}
	})
	if err != nil {
		return [NumPins]Pin{}, err
	}
	return all, nil
}

// ModeOf returns the current mode of pin n.
func (p *Pins) ModeOf(n int) (Mode, error) {
	if n < 0 || n >= NumPins {
		return 0, ErrInvalidPin
	}
	var m Mode
	core.Critical(func() {
		m = p.state[n].mode
	})
	return m, nil
}

// apply writes the pad, function select and SIO bits for one pin.
// Must be called inside the critical section.
func (p *Pins) apply(id uint8, mode Mode, fn Function) {
	mask := uint32(1) << id
	ctrl := &p.bank.GPIO[id].Ctrl
	pad := &p.pads.GPIO[id]

	switch mode {
	case ModePushPullOutput:
		p.sio.GPIOOutClr.Set(mask)
		ctrl.ReplaceBits(funcSIO, ioCtrlFuncSelMask, 0)
		pad.ReplaceBits(padIE, padConfigMask|padPullMask, 0)
		p.sio.GPIOOESet.Set(mask)
	case ModeOpenDrainOutput:
		// Output latch held low, OE switches between driving low and
		// released.
		p.sio.GPIOOEClr.Set(mask)
		p.sio.GPIOOutClr.Set(mask)
		ctrl.ReplaceBits(funcSIO, ioCtrlFuncSelMask, 0)
		pad.ReplaceBits(padIE, padConfigMask|padPullMask, 0)
	case ModeFunction:
		p.sio.GPIOOEClr.Set(mask)
		pad.ReplaceBits(padIE, padConfigMask, 0)
		ctrl.ReplaceBits(uint32(fn), ioCtrlFuncSelMask, 0)
	default:
		var pull uint32
		switch mode {
		case ModePullUpInput:
			pull = padPUE
		case ModePullDownInput:
			pull = padPDE
		}
		p.sio.GPIOOEClr.Set(mask)
		ctrl.ReplaceBits(funcSIO, ioCtrlFuncSelMask, 0)
		pad.ReplaceBits(padIE|pull, padConfigMask|padPullMask, 0)
	}

	if !mode.IsInput() {
		shift := 4 * uint8(id%8)
		p.bank.Proc0.Inte[id/8].ClearBits(0xf << shift)
	}
}

// Pin is a handle to one GPIO. Typed views (OutputPin, InputPin,
// FunctionPin) embed it, so every transition is available on all of them.
// A transition returns a new handle; the old one and every copy of it go
// stale.
type Pin struct {
	pins *Pins
	id   uint8
	gen  uint32
}

// ID returns the GPIO number.
func (p Pin) ID() uint8 {
	return p.id
}

// Valid reports whether p is the pin's current handle.
func (p Pin) Valid() bool {
	return p.pins != nil && p.pins.state[p.id].gen == p.gen
}

// Mode returns the pin's mode. It panics on a stale handle.
func (p Pin) Mode() Mode {
	p.live("Mode")
	return p.pins.state[p.id].mode
}

func (p Pin) live(op string) *pinState {
	if !p.Valid() {
		panic(&ModeError{Pin: p.id, Op: op, Stale: true})
	}
	return &p.pins.state[p.id]
}

func (p Pin) need(op string, ok func(Mode) bool, want Mode) *pinState {
	st := p.live(op)
	if !ok(st.mode) {
		panic(&ModeError{Pin: p.id, Op: op, Have: st.mode, Want: want})
	}
	return st
}

func (p Pin) transition(op string, mode Mode, fn Function) Pin {
	var next Pin
	stale := false
	core.Critical(func() {
		if !p.Valid() {
			stale = true
			return
		}
		st := &p.pins.state[p.id]
		p.pins.apply(p.id, mode, fn)
		st.gen++
		st.mode = mode
		st.fn = fn
		next = Pin{pins: p.pins, id: p.id, gen: st.gen}
	})
	if stale {
		panic(&ModeError{Pin: p.id, Op: op, Stale: true})
	}
	core.RecordEvent(core.EvtPinMode, p.id, uint32(mode), uint32(fn))
	return next
}

func (p Pin) IntoPushPullOutput() OutputPin {
	return OutputPin{p.transition("IntoPushPullOutput", ModePushPullOutput, funcSIO)}
}

// IntoOpenDrainOutput emulates an open-drain output on SIO: high releases
// the line, low drives it.
func (p Pin) IntoOpenDrainOutput() OutputPin {
	return OutputPin{p.transition("IntoOpenDrainOutput", ModeOpenDrainOutput, funcSIO)}
}

func (p Pin) IntoFloatingInput() InputPin {
	return InputPin{p.transition("IntoFloatingInput", ModeFloatingInput, funcSIO)}
}

func (p Pin) IntoPullUpInput() InputPin {
	return InputPin{p.transition("IntoPullUpInput", ModePullUpInput, funcSIO)}
}

func (p Pin) IntoPullDownInput() InputPin {
	return InputPin{p.transition("IntoPullDownInput", ModePullDownInput, funcSIO)}
}

// IntoFunction hands the pin to a peripheral.
func (p Pin) IntoFunction(fn Function) FunctionPin {
	return FunctionPin{p.transition("IntoFunction", ModeFunction, fn)}
}

// IntoMode switches to any non-function mode chosen at run time.
func (p Pin) IntoMode(mode Mode) Pin {
	if mode > ModeOpenDrainOutput {
		panic(&ModeError{Pin: p.id, Op: "IntoMode", Have: mode, Want: ModeFloatingInput})
	}
	return p.transition("IntoMode", mode, funcSIO)
}

// Output returns the output view of p, or a *ModeError.
func (p Pin) Output() (OutputPin, error) {
	if err := p.check("Output", Mode.IsOutput, ModePushPullOutput); err != nil {
		return OutputPin{}, err
	}
	return OutputPin{p}, nil
}

// Input returns the input view of p, or a *ModeError.
func (p Pin) Input() (InputPin, error) {
	if err := p.check("Input", Mode.IsInput, ModeFloatingInput); err != nil {
		return InputPin{}, err
	}
	return InputPin{p}, nil
}

// Function returns the function view of p, or a *ModeError.
func (p Pin) Function() (FunctionPin, error) {
	isFunc := func(m Mode) bool { return m == ModeFunction }
	if err := p.check("Function", isFunc, ModeFunction); err != nil {
		return FunctionPin{}, err
	}
	return FunctionPin{p}, nil
}

func (p Pin) check(op string, ok func(Mode) bool, want Mode) error {
	if !p.Valid() {
		return &ModeError{Pin: p.id, Op: op, Stale: true}
	}
	if have := p.pins.state[p.id].mode; !ok(have) {
		return &ModeError{Pin: p.id, Op: op, Have: have, Want: want}
	}
	return nil
}

func (p Pin) mask() uint32 {
	return 1 << p.id
}

// OutputPin is a pin in push-pull or open-drain output mode.
type OutputPin struct {
	Pin
}

func (p OutputPin) SetHigh() {
	st := p.need("SetHigh", Mode.IsOutput, ModePushPullOutput)
	if st.mode == ModeOpenDrainOutput {
		p.pins.sio.GPIOOEClr.Set(p.mask())
		return
	}
	p.pins.sio.GPIOOutSet.Set(p.mask())
}

func (p OutputPin) SetLow() {
	st := p.need("SetLow", Mode.IsOutput, ModePushPullOutput)
	if st.mode == ModeOpenDrainOutput {
		p.pins.sio.GPIOOESet.Set(p.mask())
		return
	}
	p.pins.sio.GPIOOutClr.Set(p.mask())
}

// Set drives the pin high or low.
func (p OutputPin) Set(high bool) {
	if high {
		p.SetHigh()
	} else {
		p.SetLow()
	}
}

func (p OutputPin) Toggle() {
	st := p.need("Toggle", Mode.IsOutput, ModePushPullOutput)
	if st.mode == ModeOpenDrainOutput {
		p.pins.sio.GPIOOEXor.Set(p.mask())
		return
	}
	p.pins.sio.GPIOOutXor.Set(p.mask())
}

// IsSetHigh reports the level the pin is being driven to, not the level
// read back from the pad.
func (p OutputPin) IsSetHigh() bool {
	st := p.need("IsSetHigh", Mode.IsOutput, ModePushPullOutput)
	if st.mode == ModeOpenDrainOutput {
		return p.pins.sio.GPIOOE.Get()&p.mask() == 0
	}
	return p.pins.sio.GPIOOut.Get()&p.mask() != 0
}

func (p OutputPin) IsSetLow() bool {
	return !p.IsSetHigh()
}

// InputPin is a pin in one of the input modes.
type InputPin struct {
	Pin
}

func (p InputPin) IsHigh() bool {
	p.need("IsHigh", Mode.IsInput, ModeFloatingInput)
	return p.pins.sio.GPIOIn.Get()&p.mask() != 0
}

func (p InputPin) IsLow() bool {
	return !p.IsHigh()
}

func (p InputPin) irqReg() (index uint8, shift uint8) {
	return p.id / 8, 4 * (p.id % 8)
}

// SetInterruptEnabled enables or disables cond on processor 0. Stale
// edges are acknowledged for conditions that were disabled until now;
// edges already pending on an enabled condition are kept.
func (p InputPin) SetInterruptEnabled(cond Interrupt, on bool) {
	p.need("SetInterruptEnabled", Mode.IsInput, ModeFloatingInput)
	idx, shift := p.irqReg()
	bits := uint32(cond&0xf) << shift
	bank := p.pins.bank
	core.Critical(func() {
		if on {
			fresh := bits &^ bank.Proc0.Inte[idx].Get()
			if ack := fresh & edgeBits; ack != 0 {
				bank.Intr[idx].Set(ack)
			}
			bank.Proc0.Inte[idx].SetBits(bits)
		} else {
			bank.Proc0.Inte[idx].ClearBits(bits)
		}
	})
}

// InterruptEnabled reports whether all of cond is enabled on processor 0.
func (p InputPin) InterruptEnabled(cond Interrupt) bool {
	p.need("InterruptEnabled", Mode.IsInput, ModeFloatingInput)
	idx, shift := p.irqReg()
	bits := uint32(cond&0xf) << shift
	return p.pins.bank.Proc0.Inte[idx].Get()&bits == bits
}

// InterruptStatus reports whether any of cond is pending and enabled.
func (p InputPin) InterruptStatus(cond Interrupt) bool {
	p.need("InterruptStatus", Mode.IsInput, ModeFloatingInput)
	idx, shift := p.irqReg()
	return p.pins.bank.Proc0.Ints[idx].HasBits(uint32(cond&0xf) << shift)
}

// ClearInterrupt acknowledges latched edges for cond. Level conditions
// clear themselves.
func (p InputPin) ClearInterrupt(cond Interrupt) {
	p.need("ClearInterrupt", Mode.IsInput, ModeFloatingInput)
	idx, shift := p.irqReg()
	bank := p.pins.bank
	core.Critical(func() {
		bank.Intr[idx].Set(uint32(cond&0xf) << shift & edgeBits)
	})
}

// FunctionPin is a pin handed to a peripheral.
type FunctionPin struct {
	Pin
}

// Function returns the selected peripheral function.
func (p FunctionPin) Function() Function {
	st := p.need("Function", func(m Mode) bool { return m == ModeFunction }, ModeFunction)
	return st.fn
}
