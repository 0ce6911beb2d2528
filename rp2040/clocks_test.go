package rp2040

import (
	"errors"
	"testing"
	"time"
)

func initSim(t *testing.T, sim *Simulator, cfg ClockConfig) (Clocks, error) {
	t.Helper()
	return InitClocksAndPLLs(cfg, sim.Peripherals().ClockPeripherals())
}

func TestInitClocksDefault(t *testing.T) {
	sim := NewSimulator()
	clocks, err := initSim(t, sim, ClockConfig{XOSCFreq: 12_000_000})
	if err != nil {
		t.Fatalf("InitClocksAndPLLs: %v", err)
	}

	want := map[Clock]uint32{
		ClockRef:  12_000_000,
		ClockSys:  125_000_000,
		ClockPeri: 125_000_000,
		ClockUSB:  48_000_000,
		ClockADC:  48_000_000,
		ClockRTC:  46_875,
		ClockTick: 1_000_000,
	}
	for clk, hz := range want {
		if got := clocks.Freq(clk); got != hz {
			t.Errorf("Clocks.Freq(%v) = %d, want %d", clk, got, hz)
		}
		// The registers must actually produce what Clocks reports.
		if got := sim.ClockFreq(clk); got != hz {
			t.Errorf("realized %v = %d, want %d", clk, got, hz)
		}
	}

	if clocks.PeripheralClock() > clocks.SystemClock() {
		t.Errorf("peri %d exceeds sys %d", clocks.PeripheralClock(), clocks.SystemClock())
	}
	if !clocks.Ready() {
		t.Error("Ready() = false after bring-up")
	}
	if sim.TickStarts() == 0 {
		t.Error("watchdog tick never started")
	}
	if sim.Peripherals().Clocks.SysResusCtrl.Get() != 0 {
		t.Error("resus left enabled")
	}
}

func TestInitClocksFailures(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*Simulator)
		cfg   ClockConfig
		stage string
		want  error
	}{
		{
			name:  "xosc never stable",
			setup: func(s *Simulator) { s.FailXOSC(true) },
			stage: "xosc",
			want:  ErrXOSCStartup,
		},
		{
			name:  "pll_sys no lock",
			setup: func(s *Simulator) { s.FailPLLLock(true, false) },
			stage: "pll_sys",
			want:  ErrPLLLock,
		},
		{
			name:  "pll_usb no lock",
			setup: func(s *Simulator) { s.FailPLLLock(false, true) },
			stage: "pll_usb",
			want:  ErrPLLLock,
		},
		{
			name:  "mux stuck",
			setup: func(s *Simulator) { s.StallClockMux(true) },
			stage: "clk_ref",
			want:  ErrClockSelect,
		},
		{
			name:  "vco out of range",
			setup: func(*Simulator) {},
			cfg:   ClockConfig{SysPLL: PLLConfig{RefDiv: 1, VCOFreq: 1800 * MHz, PostDiv1: 6, PostDiv2: 2}},
			stage: "pll_sys",
			want:  ErrPLLConfig,
		},
		{
			name:  "rtc faster than usb",
			setup: func(*Simulator) {},
			cfg:   ClockConfig{RTCFreq: 96 * MHz},
			stage: "clk_rtc",
			want:  ErrClockOverspeed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sim := NewSimulator()
			tt.setup(sim)
			cfg := tt.cfg
			cfg.PollBudget = 100

			clocks, err := initSim(t, sim, cfg)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			var ce *ClockError
			if !errors.As(err, &ce) {
				t.Fatalf("err %T is not a *ClockError", err)
			}
			if ce.Stage != tt.stage {
				t.Errorf("stage = %q, want %q", ce.Stage, tt.stage)
			}
			if clocks != (Clocks{}) {
				t.Errorf("partial clocks returned: %v", clocks.All())
			}
		})
	}
}

func TestPLLConfigOutput(t *testing.T) {
	def := DefaultClockConfig()
	if got := def.SysPLL.Output(); got != 125*MHz {
		t.Errorf("sys pll output = %d", got)
	}
	if got := def.USBPLL.Output(); got != 48*MHz {
		t.Errorf("usb pll output = %d", got)
	}
	if _, err := (PLLConfig{RefDiv: 1, VCOFreq: 1500 * MHz, PostDiv1: 8, PostDiv2: 1}).fbdiv(12 * MHz); !errors.Is(err, ErrPLLConfig) {
		t.Errorf("postdiv 8 accepted: %v", err)
	}
}

func TestTicksFor(t *testing.T) {
	tests := []struct {
		d    time.Duration
		hz   uint32
		want uint64
	}{
		{0, MHz, 0},
		{-time.Second, MHz, 0},
		{time.Microsecond, MHz, 1},
		{1500 * time.Nanosecond, MHz, 2},
		{time.Second, MHz, 1_000_000},
		{time.Millisecond, 46875, 47},
		{90 * time.Minute, MHz, 5_400_000_000},
	}
	for _, tt := range tests {
		if got := TicksFor(tt.d, tt.hz); got != tt.want {
			t.Errorf("TicksFor(%v, %d) = %d, want %d", tt.d, tt.hz, got, tt.want)
		}
	}
}

func TestClockString(t *testing.T) {
	if ClockSys.String() != "sys" || ClockTick.String() != "tick" {
		t.Errorf("names: %v %v", ClockSys, ClockTick)
	}
}
