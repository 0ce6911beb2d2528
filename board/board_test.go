package board

import (
	"errors"
	"testing"

	"badger/rp2040"
)

func newTestBoard(t *testing.T) (*rp2040.Simulator, *Board) {
	t.Helper()
	sim := rp2040.NewSimulator()
	b, err := New(sim.Peripherals())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return sim, b
}

func TestTake(t *testing.T) {
	b, err := Take()
	if err != nil {
		t.Fatalf("Take: %v", err)
	}
	if b.Clocks.SystemClock() != 125_000_000 {
		t.Errorf("clk_sys = %d", b.Clocks.SystemClock())
	}
	if _, err := Take(); !errors.Is(err, rp2040.ErrPeripheralsTaken) {
		t.Errorf("second Take: %v", err)
	}
}

func TestNewBringUp(t *testing.T) {
	sim, b := newTestBoard(t)

	if got := sim.ClockFreq(rp2040.ClockSys); got != 125_000_000 {
		t.Errorf("realized clk_sys = %d", got)
	}
	if b.Clocks.PeripheralClock() > b.Clocks.SystemClock() {
		t.Error("clk_peri exceeds clk_sys")
	}
	if b.Rest.SPI0 != rp2040.SPI0Base || b.Rest.I2C0 != rp2040.I2C0Base {
		t.Errorf("rest not passed through: %+v", b.Rest)
	}

	sim.SetTime(5000)
	if b.Timer.Now() != 5000 {
		t.Errorf("timer Now = %d", b.Timer.Now())
	}
}

func TestNewFailsWithoutClocks(t *testing.T) {
	sim := rp2040.NewSimulator()
	sim.FailPLLLock(true, false)
	b, err := New(sim.Peripherals())
	if !errors.Is(err, rp2040.ErrPLLLock) {
		t.Fatalf("err = %v, want ErrPLLLock", err)
	}
	if b != nil {
		t.Error("board returned alongside an error")
	}
}

func TestLEDAndRail(t *testing.T) {
	sim, b := newTestBoard(t)
	sio := sim.Peripherals().SIO

	rail, err := b.EnableRail3V3()
	if err != nil {
		t.Fatalf("EnableRail3V3: %v", err)
	}
	if !rail.IsSetHigh() || sio.GPIOOut.Get()&(1<<10) == 0 {
		t.Error("3V3 rail not enabled")
	}
	if _, err := b.EnableRail3V3(); !errors.Is(err, ErrPinMoved) {
		t.Errorf("second EnableRail3V3: %v", err)
	}

	led, err := b.LED()
	if err != nil {
		t.Fatalf("LED: %v", err)
	}
	led.Toggle()
	if sio.GPIOOut.Get()&(1<<25) == 0 {
		t.Error("LED toggle not visible on gpio25")
	}
	if b.Pins.LED.Valid() {
		t.Error("LED field still populated after move")
	}
}

func TestDisplayPins(t *testing.T) {
	sim, b := newTestBoard(t)
	p := sim.Peripherals()

	d, err := b.DisplayPins()
	if err != nil {
		t.Fatalf("DisplayPins: %v", err)
	}
	for _, fp := range []rp2040.FunctionPin{d.SCLK, d.MOSI, d.MISO} {
		if fp.Function() != rp2040.FuncSPI {
			t.Errorf("gpio%d function = %v", fp.ID(), fp.Function())
		}
	}
	if d.SCLK.ID() != 18 || d.MOSI.ID() != 19 || d.MISO.ID() != 16 {
		t.Errorf("spi pins = %d/%d/%d", d.SCLK.ID(), d.MOSI.ID(), d.MISO.ID())
	}
	if d.CS.ID() != 17 || !d.CS.IsSetHigh() {
		t.Error("CS not idling high on gpio17")
	}
	if d.DC.ID() != 20 || d.Reset.ID() != 21 || d.Busy.ID() != 26 {
		t.Errorf("control pins = %d/%d/%d", d.DC.ID(), d.Reset.ID(), d.Busy.ID())
	}
	if d.Busy.Mode() != rp2040.ModePullUpInput {
		t.Errorf("busy mode = %v", d.Busy.Mode())
	}
	if p.SIO.GPIOOE.Get()&(1<<26) != 0 {
		t.Error("busy pin driven")
	}

	if _, err := b.DisplayPins(); !errors.Is(err, ErrPinMoved) {
		t.Errorf("second DisplayPins: %v", err)
	}
}
