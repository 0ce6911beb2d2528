package rp2040

import (
	"errors"
	"testing"
)

// The only test in this package that touches the process-wide token.
func TestTakeOnce(t *testing.T) {
	p, err := Take()
	if err != nil {
		t.Fatalf("first Take: %v", err)
	}
	if p == nil || p.Clocks == nil || p.SIO == nil {
		t.Fatal("first Take returned an incomplete bundle")
	}
	if p.Rest.SPI0 != SPI0Base || p.Rest.PIO1 != PIO1Base {
		t.Errorf("pass-through blocks not populated: %+v", p.Rest)
	}

	for i := 0; i < 3; i++ {
		again, err := Take()
		if !errors.Is(err, ErrPeripheralsTaken) {
			t.Errorf("Take #%d: err = %v, want ErrPeripheralsTaken", i+2, err)
		}
		if again != nil {
			t.Errorf("Take #%d returned a bundle", i+2)
		}
	}
}

func TestClockPeripherals(t *testing.T) {
	p := NewSimulator().Peripherals()
	cp := p.ClockPeripherals()
	if cp.XOSC != p.XOSC || cp.PLLSys != p.PLLSys || cp.PLLUSB != p.PLLUSB {
		t.Error("clock peripherals do not alias the bundle")
	}
	if cp.Resets != p.Resets || cp.Watchdog != p.Watchdog || cp.Clocks != p.Clocks {
		t.Error("clock peripherals do not alias the bundle")
	}
}
