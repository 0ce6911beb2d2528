package rp2040

import "time"

// Watchdog drives the WATCHDOG block: the tick generator that feeds the
// system timer, and the reset counter itself.
type Watchdog struct {
	regs *WatchdogRegs
	load uint32
}

// NewWatchdog wraps the watchdog registers.
func NewWatchdog(regs *WatchdogRegs) *Watchdog {
	return &Watchdog{regs: regs}
}

// EnableTick starts the 1 MHz tick from a reference running at refFreq Hz.
func (w *Watchdog) EnableTick(refFreq uint32) {
	cycles := refFreq / MHz
	w.regs.Tick.Set(cycles&watchdogTickCyclesMask | watchdogTickEnable)
}

// TickRunning reports whether the tick generator is counting.
func (w *Watchdog) TickRunning() bool {
	return w.regs.Tick.HasBits(watchdogTickRunning)
}

// Start arms the watchdog to reset the chip after timeout without a Feed.
// The counter decrements twice per tick (RP2040-E1), so the load is doubled.
func (w *Watchdog) Start(timeout time.Duration) {
	ticks := uint64(timeout/time.Microsecond) * 2
	if timeout < 0 {
		ticks = 0
	}
	if ticks > watchdogLoadMask {
		ticks = watchdogLoadMask
	}
	load := uint32(ticks)
	w.load = load

	w.regs.Ctrl.ClearBits(watchdogCtrlEnable)
	w.regs.Load.Set(load)
	w.regs.Ctrl.SetBits(watchdogCtrlEnable)
}

// Feed reloads the counter.
func (w *Watchdog) Feed() {
	w.regs.Load.Set(w.load)
}

// Disable stops the reset counter. The tick keeps running.
func (w *Watchdog) Disable() {
	w.regs.Ctrl.ClearBits(watchdogCtrlEnable)
}

// Enabled reports whether the reset counter is armed.
func (w *Watchdog) Enabled() bool {
	return w.regs.Ctrl.HasBits(watchdogCtrlEnable)
}
