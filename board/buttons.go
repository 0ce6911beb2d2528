package board

import (
	"badger/core"
	"badger/rp2040"
)

// Button identifies one of the Badger 2040's buttons by its bit in
// ButtonsRaw.
type Button uint8

const (
	ButtonA Button = iota
	ButtonB
	ButtonC
	ButtonUp
	ButtonDown
	ButtonUser
	numButtons
)

var buttonNames = [numButtons]string{"a", "b", "c", "up", "down", "user"}

func (b Button) String() string {
	if b < numButtons {
		return buttonNames[b]
	}
	return "button" + core.Utoa(uint32(b))
}

// ButtonsRaw is a snapshot of the button bank, one bit per Button, set when
// the button is pressed. Bits 6 and 7 are always clear.
type ButtonsRaw uint8

// Pressed reports whether btn is pressed in the snapshot.
func (r ButtonsRaw) Pressed(btn Button) bool {
	return btn < numButtons && r&(1<<btn) != 0
}

func (r ButtonsRaw) A() bool    { return r.Pressed(ButtonA) }
func (r ButtonsRaw) B() bool    { return r.Pressed(ButtonB) }
func (r ButtonsRaw) C() bool    { return r.Pressed(ButtonC) }
func (r ButtonsRaw) Up() bool   { return r.Pressed(ButtonUp) }
func (r ButtonsRaw) Down() bool { return r.Pressed(ButtonDown) }
func (r ButtonsRaw) User() bool { return r.Pressed(ButtonUser) }

// Any reports whether any button is pressed.
func (r ButtonsRaw) Any() bool {
	return r != 0
}

// String lists the pressed buttons, or "-" when none are.
func (r ButtonsRaw) String() string {
	s := ""
	for b := ButtonA; b < numButtons; b++ {
		if !r.Pressed(b) {
			continue
		}
		if s != "" {
			s += "+"
		}
		s += b.String()
	}
	if s == "" {
		return "-"
	}
	return s
}

// ButtonEvents accumulates the presses and releases seen by the interrupt
// handler since the last TakeEvents.
type ButtonEvents struct {
	Pressed  ButtonsRaw
	Released ButtonsRaw
}

// Buttons is the button bank. A, B, C, Up and Down read high when pressed;
// User reads low when pressed.
type Buttons struct {
	pins   [numButtons]rp2040.InputPin
	events core.Cell[ButtonEvents]
}

// NewButtons moves the six switch pins out of p and configures them:
// pull-down for the active-high buttons, pull-up for User.
func NewButtons(p *Pins) (*Buttons, error) {
	fields := [numButtons]*rp2040.Pin{
		ButtonA:    &p.SwA,
		ButtonB:    &p.SwB,
		ButtonC:    &p.SwC,
		ButtonUp:   &p.SwUp,
		ButtonDown: &p.SwDown,
		ButtonUser: &p.UserSw,
	}
	for _, f := range fields {
		if !f.Valid() {
			return nil, ErrPinMoved
		}
	}

	b := new(Buttons)
	for i, f := range fields {
		pin, _ := move(f)
		if activeLow(Button(i)) {
			b.pins[i] = pin.IntoPullUpInput()
		} else {
			b.pins[i] = pin.IntoPullDownInput()
		}
	}
	return b, nil
}

func activeLow(btn Button) bool {
	return btn == ButtonUser
}

// Pin returns the input pin behind btn.
func (b *Buttons) Pin(btn Button) rp2040.InputPin {
	return b.pins[btn]
}

// Sample reads all six buttons.
func (b *Buttons) Sample() ButtonsRaw {
	var raw ButtonsRaw
	for i, pin := range b.pins {
		if pin.IsHigh() != activeLow(Button(i)) {
			raw |= 1 << i
		}
	}
	return raw
}

func (b *Buttons) A() bool    { return b.Sample().A() }
func (b *Buttons) B() bool    { return b.Sample().B() }
func (b *Buttons) C() bool    { return b.Sample().C() }
func (b *Buttons) Up() bool   { return b.Sample().Up() }
func (b *Buttons) Down() bool { return b.Sample().Down() }
func (b *Buttons) User() bool { return b.Sample().User() }
func (b *Buttons) Any() bool  { return b.Sample().Any() }

// Pressed reports whether btn is currently pressed.
func (b *Buttons) Pressed(btn Button) bool {
	return b.Sample().Pressed(btn)
}

// pressEdge is the edge that corresponds to btn being pressed.
func pressEdge(btn Button) rp2040.Interrupt {
	if activeLow(btn) {
		return rp2040.EdgeLow
	}
	return rp2040.EdgeHigh
}

func releaseEdge(btn Button) rp2040.Interrupt {
	if activeLow(btn) {
		return rp2040.EdgeHigh
	}
	return rp2040.EdgeLow
}

// EnableInterruptOnPress arms every button to interrupt when pressed and
// not when released. Calling it again has no further effect.
func (b *Buttons) EnableInterruptOnPress() {
	for i, pin := range b.pins {
		pin.SetInterruptEnabled(releaseEdge(Button(i)), false)
		pin.SetInterruptEnabled(pressEdge(Button(i)), true)
	}
}

// EnableInterruptOnRelease arms every button to interrupt when released and
// not when pressed.
func (b *Buttons) EnableInterruptOnRelease() {
	for i, pin := range b.pins {
		pin.SetInterruptEnabled(pressEdge(Button(i)), false)
		pin.SetInterruptEnabled(releaseEdge(Button(i)), true)
	}
}

// DisableInterrupts disarms every button interrupt.
func (b *Buttons) DisableInterrupts() {
	for _, pin := range b.pins {
		pin.SetInterruptEnabled(rp2040.EdgeHigh|rp2040.EdgeLow, false)
	}
}

// HandleInterrupt is called from the IO_IRQ_BANK0 handler. It acknowledges
// pending button edges and records them for TakeEvents. It returns the
// events it handled.
func (b *Buttons) HandleInterrupt() ButtonEvents {
	var ev ButtonEvents
	for i, pin := range b.pins {
		btn := Button(i)
		press := pin.InterruptStatus(pressEdge(btn))
		release := pin.InterruptStatus(releaseEdge(btn))
		var seen rp2040.Interrupt
		if press {
			seen |= pressEdge(btn)
			ev.Pressed |= 1 << btn
		}
		if release {
			seen |= releaseEdge(btn)
			ev.Released |= 1 << btn
		}
		if seen != 0 {
			pin.ClearInterrupt(seen)
		}
	}
	if ev == (ButtonEvents{}) {
		return ev
	}
	b.events.Borrow(func(acc *ButtonEvents) {
		acc.Pressed |= ev.Pressed
		acc.Released |= ev.Released
	})
	core.RecordEvent(core.EvtButtonIRQ, 0, uint32(ev.Pressed), uint32(ev.Released))
	return ev
}

// TakeEvents returns and clears the events recorded by HandleInterrupt.
func (b *Buttons) TakeEvents() ButtonEvents {
	return b.events.Swap(ButtonEvents{})
}
