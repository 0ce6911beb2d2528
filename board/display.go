package board

import "badger/rp2040"

// DisplayPins are the e-ink panel's connections, already in the modes the
// UC8151 controller needs.
type DisplayPins struct {
	SCLK  rp2040.FunctionPin
	MOSI  rp2040.FunctionPin
	MISO  rp2040.FunctionPin
	CS    rp2040.OutputPin
	DC    rp2040.OutputPin
	Reset rp2040.OutputPin
	Busy  rp2040.InputPin
}

// DisplayPins moves the panel's pins out of the board. The SPI lines go to
// SPI0, chip select is driven as a GPIO and idles high, and BUSY is pulled
// up.
func (b *Board) DisplayPins() (DisplayPins, error) {
	p := b.Pins
	fields := []*rp2040.Pin{&p.Sclk, &p.Mosi, &p.Miso, &p.InkyCSGPIO, &p.InkyDC, &p.InkyRes, &p.InkyBusy}
	for _, f := range fields {
		if !f.Valid() {
			return DisplayPins{}, ErrPinMoved
		}
	}

	var moved [7]rp2040.Pin
	for i, f := range fields {
		moved[i], _ = move(f)
	}
	d := DisplayPins{
		SCLK:  moved[0].IntoFunction(rp2040.FuncSPI),
		MOSI:  moved[1].IntoFunction(rp2040.FuncSPI),
		MISO:  moved[2].IntoFunction(rp2040.FuncSPI),
		CS:    moved[3].IntoPushPullOutput(),
		DC:    moved[4].IntoPushPullOutput(),
		Reset: moved[5].IntoPushPullOutput(),
		Busy:  moved[6].IntoPullUpInput(),
	}
	d.CS.SetHigh()
	d.Reset.SetHigh()
	return d, nil
}
