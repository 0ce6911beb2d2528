//go:build rp2040

// Firmware for the Pimoroni Badger 2040. It blinks the activity LED at a
// rate chosen by the up/down buttons, reports button presses and clock
// frequencies over USB, and draws the button state on the e-ink panel.
package main

import (
	"image/color"
	"machine"
	"time"

	"badger/board"
	"badger/core"
	"badger/protocol"
	"badger/rp2040"

	"tinygo.org/x/drivers/uc8151"
)

const (
	blinkFast    = 100 * time.Millisecond
	blinkNormal  = 500 * time.Millisecond
	blinkSlow    = 1000 * time.Millisecond
	watchdogTime = 2 * time.Second
)

var (
	black = color.RGBA{0, 0, 0, 255}
	white = color.RGBA{255, 255, 255, 255}
)

func main() {
	tel := protocol.NewTelemetry(machine.Serial)
	core.SetDebugWriter(func(s string) { tel.Log(s) })
	core.SetDebugEnabled(true)

	b, err := board.Take()
	if err != nil {
		fail(tel, nil, err)
	}
	tel.Clocks(b.Clocks.All())

	led, err := b.LED()
	if err != nil {
		fail(tel, nil, err)
	}
	if _, err := b.EnableRail3V3(); err != nil {
		fail(tel, &led, err)
	}

	buttons, err := b.Buttons()
	if err != nil {
		fail(tel, &led, err)
	}
	board.ListenButtons(buttons)
	buttons.EnableInterruptOnPress()

	var display *uc8151.Device
	if pins, err := b.DisplayPins(); err != nil {
		core.DebugPrintln("display pins: " + err.Error())
	} else if dev, err := board.NewDisplay(pins); err != nil {
		core.DebugPrintln("display: " + err.Error())
	} else {
		display = &dev
		drawButtons(display, 0)
	}

	b.Watchdog.Start(watchdogTime)

	blink := b.Timer.CountDown()
	blink.Start(blinkNormal)
	for {
		b.Watchdog.Feed()

		if ev := buttons.TakeEvents(); ev.Pressed != 0 {
			tel.Buttons(uint8(ev.Pressed), b.Timer.Now())
			if display != nil {
				drawButtons(display, ev.Pressed)
			}
		}

		if blink.Wait() == core.ErrWouldBlock {
			continue
		}
		led.Toggle()

		switch {
		case buttons.Up():
			blink.Start(blinkFast)
		case buttons.Down():
			blink.Start(blinkSlow)
		default:
			blink.Start(blinkNormal)
		}
	}
}

// drawButtons draws one box per button along the bottom of the panel,
// filled for pressed buttons, and refreshes the display.
func drawButtons(d *uc8151.Device, pressed board.ButtonsRaw) {
	const box, gap, top = 24, 8, 96

	d.ClearBuffer()
	for i := board.ButtonA; i <= board.ButtonUser; i++ {
		x0 := int16(gap + int(i)*(box+gap))
		for x := x0; x < x0+box; x++ {
			for y := int16(top); y < top+box; y++ {
				edge := x == x0 || x == x0+box-1 || y == top || y == top+box-1
				if edge || pressed.Pressed(i) {
					d.SetPixel(x, y, black)
				} else {
					d.SetPixel(x, y, white)
				}
			}
		}
	}
	if err := d.Display(); err != nil {
		core.DebugPrintln("display refresh: " + err.Error())
	}
}

// fail reports err, dumps the event ring and blinks the LED quickly
// forever. led is nil if the LED was never claimed.
func fail(tel *protocol.Telemetry, led *rp2040.OutputPin, err error) {
	core.RecordEvent(core.EvtFault, 0, 0, 0)
	core.DebugPrintln("FATAL: " + err.Error())
	for _, e := range core.Events() {
		tel.Event(e.Type, e.ID, e.Value1, e.Value2)
	}
	core.DumpEvents()
	for {
		if led != nil {
			led.Toggle()
		}
		time.Sleep(blinkFast)
	}
}
