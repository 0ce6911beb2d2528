package rp2040

import (
	"errors"
	"testing"
	"time"
)

func TestWatchdog(t *testing.T) {
	sim := NewSimulator()
	regs := sim.Peripherals().Watchdog
	wd := NewWatchdog(regs)

	wd.EnableTick(12 * MHz)
	if !wd.TickRunning() {
		t.Fatal("tick not running")
	}
	if got := sim.ClockFreq(ClockTick); got != 0 {
		// XOSC is not running yet in a fresh simulator.
		t.Errorf("tick from stopped crystal = %d", got)
	}

	tests := []struct {
		timeout time.Duration
		load    uint32
	}{
		{time.Millisecond, 2000},
		{time.Second, 2_000_000},
		{time.Hour, watchdogLoadMask},
		{-time.Second, 0},
	}
	for _, tt := range tests {
		wd.Start(tt.timeout)
		if got := regs.Load.Get(); got != tt.load {
			t.Errorf("Start(%v): load = %d, want %d", tt.timeout, got, tt.load)
		}
		if !wd.Enabled() {
			t.Errorf("Start(%v) left the watchdog disabled", tt.timeout)
		}
	}

	wd.Start(time.Millisecond)
	regs.Load.Set(5)
	wd.Feed()
	if regs.Load.Get() != 2000 {
		t.Errorf("Feed reloaded %d", regs.Load.Get())
	}
	wd.Disable()
	if wd.Enabled() {
		t.Error("Disable left the watchdog enabled")
	}
}

func TestResetsRelease(t *testing.T) {
	sim := NewSimulator()
	resets := sim.Peripherals().Resets
	if err := resets.Release(ResetSPI0|ResetTimer, 10); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if resets.ResetDone.Get()&(ResetSPI0|ResetTimer) != ResetSPI0|ResetTimer {
		t.Error("blocks not reported done")
	}
	if resets.ResetDone.Get()&ResetADC != 0 {
		t.Error("unrelated block released")
	}

	// Without the simulator nothing ever reports done.
	var bare ResetsRegs
	if err := bare.Release(ResetTimer, 10); !errors.Is(err, ErrResetTimeout) {
		t.Errorf("bare Release: %v", err)
	}
}
