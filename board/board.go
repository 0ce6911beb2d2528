package board

import (
	"badger/core"
	"badger/rp2040"
)

// Board is a brought-up Badger 2040: clocks running, pins named, timer
// counting. Peripherals the board does not drive are passed through in Rest.
type Board struct {
	Pins     *Pins
	Clocks   rp2040.Clocks
	Timer    *rp2040.Timer
	Watchdog *rp2040.Watchdog
	Rest     rp2040.Rest

	boardExtras
}

// Take claims the chip's peripherals and brings the board up. It succeeds
// at most once per program run; later calls return
// rp2040.ErrPeripheralsTaken.
func Take() (*Board, error) {
	p, err := rp2040.Take()
	if err != nil {
		return nil, err
	}
	return New(p)
}

// New brings the board up on peripherals the caller already owns.
func New(p *rp2040.Peripherals) (*Board, error) {
	clocks, err := rp2040.InitClocksAndPLLs(rp2040.ClockConfig{XOSCFreq: XOSCCrystalFreq}, p.ClockPeripherals())
	if err != nil {
		return nil, err
	}
	core.DebugPrintln("badger2040: clk_sys " + core.Utoa(clocks.SystemClock()) + " Hz")

	registry, err := rp2040.NewPins(p.IOBank0, p.PadsBank0, p.SIO, p.Resets)
	if err != nil {
		return nil, err
	}
	pins, err := NewPins(registry)
	if err != nil {
		return nil, err
	}

	timer, err := rp2040.NewTimer(p.Timer, p.Resets, clocks.TickFreq())
	if err != nil {
		return nil, err
	}

	b := &Board{
		Pins:     pins,
		Clocks:   clocks,
		Timer:    timer,
		Watchdog: rp2040.NewWatchdog(p.Watchdog),
		Rest:     p.Rest,
	}
	if err := b.initExtras(p); err != nil {
		return nil, err
	}
	return b, nil
}

// Buttons moves the switch pins into a button bank.
func (b *Board) Buttons() (*Buttons, error) {
	return NewButtons(b.Pins)
}

// EnableRail3V3 switches on the 3.3 V rail that powers the display and
// sensors. The returned pin keeps the rail on while it stays high.
func (b *Board) EnableRail3V3() (rp2040.OutputPin, error) {
	pin, err := move(&b.Pins.P3V3En)
	if err != nil {
		return rp2040.OutputPin{}, err
	}
	out := pin.IntoPushPullOutput()
	out.SetHigh()
	return out, nil
}

// LED moves the activity LED out of the board as a push-pull output.
func (b *Board) LED() (rp2040.OutputPin, error) {
	pin, err := move(&b.Pins.LED)
	if err != nil {
		return rp2040.OutputPin{}, err
	}
	return pin.IntoPushPullOutput(), nil
}
