package rp2040

import (
	"errors"
	"time"

	"badger/core"
)

// ErrNotStarted is returned by CountDown.Wait before the first Start.
var ErrNotStarted = errors.New("rp2040: countdown not started")

// TimerRate is the nominal tick rate of the system timer, fed by the
// watchdog tick.
const TimerRate = MHz

// maxTicks is the longest countdown whose deadline still compares correctly
// across a 32-bit wrap.
const maxTicks = 1<<31 - 1

// Counter is a free-running 32-bit tick counter.
type Counter interface {
	Ticks() uint32
}

// Timer owns the TIMER block's free-running counter.
type Timer struct {
	regs *TimerRegs
	rate uint32
}

// NewTimer takes the TIMER block out of reset. rate is the realized tick
// frequency, normally Clocks.TickFreq(); 0 means TimerRate.
func NewTimer(regs *TimerRegs, resets *ResetsRegs, rate uint32) (*Timer, error) {
	if err := resets.Release(ResetTimer, DefaultPollBudget); err != nil {
		return nil, err
	}
	if rate == 0 {
		rate = TimerRate
	}
	return &Timer{regs: regs, rate: rate}, nil
}

// Rate returns the counter's tick frequency in Hz.
func (t *Timer) Rate() uint32 {
	return t.rate
}

// Now returns the low 32 bits of the tick counter.
func (t *Timer) Now() uint32 {
	return t.regs.TimeRawL.Get()
}

// Ticks implements Counter.
func (t *Timer) Ticks() uint32 {
	return t.Now()
}

// Now64 returns the full 64-bit tick counter.
func (t *Timer) Now64() uint64 {
	// Read high, low, high and retry if the high word moved in between.
	for {
		high1 := t.regs.TimeRawH.Get()
		low := t.regs.TimeRawL.Get()
		high2 := t.regs.TimeRawH.Get()
		if high1 == high2 {
			return uint64(high1)<<32 | uint64(low)
		}
	}
}

// CountDown returns a new countdown on this timer at its tick rate.
func (t *Timer) CountDown() *CountDown {
	return NewCountDown(t, t.rate)
}

// Delay busy-waits for at least d.
func (t *Timer) Delay(d time.Duration) {
	cd := t.CountDown()
	cd.Start(d)
	_ = core.Block(cd.Wait)
}

// CountDown is a one-shot deadline on a Counter.
type CountDown struct {
	counter  Counter
	rate     uint32
	deadline uint32
	started  bool
}

// NewCountDown returns a countdown over c, which ticks at rate Hz.
func NewCountDown(c Counter, rate uint32) *CountDown {
	return &CountDown{counter: c, rate: rate}
}

// Start arms the countdown for d, replacing any earlier deadline. Durations
// are rounded up to whole ticks and capped at 2^31-1 ticks.
func (c *CountDown) Start(d time.Duration) {
	ticks := TicksFor(d, c.rate)
	if ticks > maxTicks {
		ticks = maxTicks
	}
	c.deadline = c.counter.Ticks() + uint32(ticks)
	c.started = true
}

// Wait returns nil once the deadline has passed and ErrWouldBlock before.
// It does not consume the countdown; later calls keep returning nil until
// the next Start.
func (c *CountDown) Wait() error {
	if !c.started {
		return ErrNotStarted
	}
	if int32(c.deadline-c.counter.Ticks()) > 0 {
		return core.ErrWouldBlock
	}
	return nil
}

// Remaining returns the ticks left before the deadline, or 0 once elapsed.
func (c *CountDown) Remaining() uint32 {
	if !c.started {
		return 0
	}
	left := int32(c.deadline - c.counter.Ticks())
	if left < 0 {
		return 0
	}
	return uint32(left)
}
