//go:build tinygo

package board

import (
	"machine"

	"badger/rp2040"

	"tinygo.org/x/drivers/uc8151"
)

// DisplaySPIFreq is the SPI0 clock used for the e-ink panel.
const DisplaySPIFreq = 12 * rp2040.MHz

func machinePin(id uint8) machine.Pin {
	return machine.Pin(id)
}

// NewDisplay brings up SPI0 on the display pins and returns the UC8151
// driver for the 296x128 panel.
func NewDisplay(d DisplayPins) (uc8151.Device, error) {
	err := machine.SPI0.Configure(machine.SPIConfig{
		Frequency: DisplaySPIFreq,
		SCK:       machinePin(d.SCLK.ID()),
		SDO:       machinePin(d.MOSI.ID()),
		SDI:       machinePin(d.MISO.ID()),
	})
	if err != nil {
		return uc8151.Device{}, err
	}

	dev := uc8151.New(machine.SPI0,
		machinePin(d.CS.ID()),
		machinePin(d.DC.ID()),
		machinePin(d.Reset.ID()),
		machinePin(d.Busy.ID()))
	dev.Configure(uc8151.Config{
		Speed:    uc8151.MEDIUM,
		Blocking: true,
	})
	return dev, nil
}
