//go:build tinygo

package board

// PIO pulse generator for the activity LED (or any pin handed to a PIO
// block). The CPU queues a pulse count and the state machine produces the
// pulses on its own, so flashes keep going while the main loop is busy
// refreshing the display.

import (
	"errors"

	"badger/rp2040"

	rp2pio "github.com/tinygo-org/pio/rp2-pio"
)

// ErrPulsePin is returned when the pin is not routed to the PIO block.
var ErrPulsePin = errors.New("board: pulse pin not in the PIO block's function")

// buildPulseProgram assembles:
//
//	pull block
//	out x, 32        ; pulses - 1
//	loop:
//	set pins, 1 [31]
//	set pins, 0 [31]
//	jmp x--, loop
func buildPulseProgram() []uint16 {
	asm := rp2pio.AssemblerV0{SidesetBits: 0}
	return []uint16{
		asm.Pull(false, true).Encode(),
		asm.Out(rp2pio.OutDestX, 32).Encode(),
		asm.Set(rp2pio.SetDestPins, 1).Delay(31).Encode(),
		asm.Set(rp2pio.SetDestPins, 0).Delay(31).Encode(),
		asm.Jmp(2, rp2pio.JmpXNZeroDec).Encode(),
	}
}

// Jump targets above are absolute.
const pulseOrigin = 0

// PulseGen flashes a pin from a PIO state machine. At the slowest clock
// divider each pulse lasts about 33 ms at 125 MHz.
type PulseGen struct {
	pio *rp2pio.PIO
	sm  rp2pio.StateMachine
	pin rp2040.FunctionPin
}

// NewPulseGen loads the pulse program into pio and starts state machine
// smNum on pin, which must already be in pio's function.
func NewPulseGen(pio *rp2pio.PIO, smNum uint8, pin rp2040.FunctionPin) (*PulseGen, error) {
	want := rp2040.FuncPIO0
	if pio.BlockIndex() == 1 {
		want = rp2040.FuncPIO1
	}
	if pin.Function() != want {
		return nil, ErrPulsePin
	}

	g := &PulseGen{pio: pio, sm: pio.StateMachine(smNum), pin: pin}
	g.sm.TryClaim()

	program := buildPulseProgram()
	offset, err := pio.AddProgram(program, pulseOrigin)
	if err != nil {
		return nil, err
	}

	mpin := machinePin(pin.ID())
	cfg := rp2pio.DefaultStateMachineConfig()
	cfg.SetSetPins(mpin, 1)
	cfg.SetOutShift(true, false, 32)
	cfg.SetWrap(offset+uint8(len(program))-1, offset)
	cfg.SetClkDivIntFrac(65535, 0)

	g.sm.Init(offset, cfg)
	g.sm.SetPindirsConsecutive(mpin, 1, true)
	g.sm.SetPinsConsecutive(mpin, 1, false)
	g.sm.SetEnabled(true)
	return g, nil
}

// Flash queues n pulses. It waits for FIFO space.
func (g *PulseGen) Flash(n uint32) {
	if n == 0 {
		return
	}
	for g.sm.IsTxFIFOFull() {
	}
	g.sm.TxPut(n - 1)
}

// Stop drops queued pulses and restarts the program.
func (g *PulseGen) Stop() {
	g.sm.SetEnabled(false)
	g.sm.ClearFIFOs()
	g.sm.Restart()
	g.sm.SetEnabled(true)
}
