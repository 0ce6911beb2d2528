// Package board is the board support package for the Pimoroni Badger 2040:
// pin names, the button bank and the one-call bring-up of clocks, pins and
// timer.
package board

import (
	"errors"

	"badger/rp2040"
)

// XOSCCrystalFreq is the Badger 2040's crystal frequency.
const XOSCCrystalFreq = 12_000_000

var (
	ErrUnknownPin = errors.New("board: unknown pin name")
	ErrPinMoved   = errors.New("board: pin already moved out of the board")
)

// PinName is one row of the board's pin table.
type PinName struct {
	ID   uint8
	Name string
	// Alias names the pin when it is in function AliasFunc.
	Alias     string
	AliasFunc rp2040.Function

	field func(p *Pins) *rp2040.Pin
}

// Pins holds every GPIO under its Badger 2040 name. Fields are zeroed when
// a pin is moved into a driver such as the button bank or the display.
type Pins struct {
	Gpio0      rp2040.Pin
	Gpio1      rp2040.Pin
	Gpio2      rp2040.Pin
	I2CInt     rp2040.Pin
	Gpio4      rp2040.Pin
	Gpio5      rp2040.Pin
	Gpio6      rp2040.Pin
	Gpio7      rp2040.Pin
	Gpio8      rp2040.Pin
	Gpio9      rp2040.Pin
	P3V3En     rp2040.Pin
	SwDown     rp2040.Pin
	SwA        rp2040.Pin
	SwB        rp2040.Pin
	SwC        rp2040.Pin
	SwUp       rp2040.Pin
	Miso       rp2040.Pin
	InkyCSGPIO rp2040.Pin
	Sclk       rp2040.Pin
	Mosi       rp2040.Pin
	InkyDC     rp2040.Pin
	InkyRes    rp2040.Pin
	Gpio22     rp2040.Pin
	UserSw     rp2040.Pin
	VbusDetect rp2040.Pin
	LED        rp2040.Pin
	InkyBusy   rp2040.Pin
	VrefPower  rp2040.Pin
	Vref1V24   rp2040.Pin
	VbatSense  rp2040.Pin
}

// PinNames is the Badger 2040 pin table, indexed by GPIO number.
var PinNames = [rp2040.NumPins]PinName{
	{0, "gpio0", "uart_tx", rp2040.FuncUART, func(p *Pins) *rp2040.Pin { return &p.Gpio0 }},
	{1, "gpio1", "uart_rx", rp2040.FuncUART, func(p *Pins) *rp2040.Pin { return &p.Gpio1 }},
	{2, "gpio2", "", 0, func(p *Pins) *rp2040.Pin { return &p.Gpio2 }},
	{3, "i2c_int", "", 0, func(p *Pins) *rp2040.Pin { return &p.I2CInt }},
	{4, "gpio4", "i2c_sda", rp2040.FuncI2C, func(p *Pins) *rp2040.Pin { return &p.Gpio4 }},
	{5, "gpio5", "i2c_scl", rp2040.FuncI2C, func(p *Pins) *rp2040.Pin { return &p.Gpio5 }},
	{6, "gpio6", "", 0, func(p *Pins) *rp2040.Pin { return &p.Gpio6 }},
	{7, "gpio7", "", 0, func(p *Pins) *rp2040.Pin { return &p.Gpio7 }},
	{8, "gpio8", "", 0, func(p *Pins) *rp2040.Pin { return &p.Gpio8 }},
	{9, "gpio9", "", 0, func(p *Pins) *rp2040.Pin { return &p.Gpio9 }},
	{10, "p3v3_en", "", 0, func(p *Pins) *rp2040.Pin { return &p.P3V3En }},
	{11, "sw_down", "", 0, func(p *Pins) *rp2040.Pin { return &p.SwDown }},
	{12, "sw_a", "", 0, func(p *Pins) *rp2040.Pin { return &p.SwA }},
	{13, "sw_b", "", 0, func(p *Pins) *rp2040.Pin { return &p.SwB }},
	{14, "sw_c", "", 0, func(p *Pins) *rp2040.Pin { return &p.SwC }},
	{15, "sw_up", "", 0, func(p *Pins) *rp2040.Pin { return &p.SwUp }},
	{16, "miso", "spi_miso", rp2040.FuncSPI, func(p *Pins) *rp2040.Pin { return &p.Miso }},
	{17, "inky_cs_gpio", "inky_cs", rp2040.FuncSPI, func(p *Pins) *rp2040.Pin { return &p.InkyCSGPIO }},
	{18, "sclk", "spi_sclk", rp2040.FuncSPI, func(p *Pins) *rp2040.Pin { return &p.Sclk }},
	{19, "mosi", "spi_mosi", rp2040.FuncSPI, func(p *Pins) *rp2040.Pin { return &p.Mosi }},
	{20, "inky_dc", "", 0, func(p *Pins) *rp2040.Pin { return &p.InkyDC }},
	{21, "inky_res", "", 0, func(p *Pins) *rp2040.Pin { return &p.InkyRes }},
	{22, "gpio22", "", 0, func(p *Pins) *rp2040.Pin { return &p.Gpio22 }},
	{23, "user_sw", "", 0, func(p *Pins) *rp2040.Pin { return &p.UserSw }},
	{24, "vbus_detect", "", 0, func(p *Pins) *rp2040.Pin { return &p.VbusDetect }},
	{25, "led", "", 0, func(p *Pins) *rp2040.Pin { return &p.LED }},
	{26, "inky_busy", "", 0, func(p *Pins) *rp2040.Pin { return &p.InkyBusy }},
	{27, "vref_power", "", 0, func(p *Pins) *rp2040.Pin { return &p.VrefPower }},
	{28, "vref_1v24", "", 0, func(p *Pins) *rp2040.Pin { return &p.Vref1V24 }},
	{29, "vbat_sense", "", 0, func(p *Pins) *rp2040.Pin { return &p.VbatSense }},
}

// NewPins takes every pin from the registry and files it under its board
// name.
func NewPins(registry *rp2040.Pins) (*Pins, error) {
	all, err := registry.All()
	if err != nil {
		return nil, err
	}
	p := new(Pins)
	for _, row := range PinNames {
		*row.field(p) = all[row.ID]
	}
	return p, nil
}

// Name returns the board name of GPIO id.
func Name(id uint8) string {
	if int(id) >= len(PinNames) {
		return ""
	}
	return PinNames[id].Name
}

// Lookup finds a GPIO by board name or by alternate-function alias.
func Lookup(name string) (uint8, bool) {
	for _, row := range PinNames {
		if row.Name == name || (row.Alias != "" && row.Alias == name) {
			return row.ID, true
		}
	}
	return 0, false
}

// ByName returns the board field holding the named pin.
func (p *Pins) ByName(name string) (*rp2040.Pin, error) {
	for _, row := range PinNames {
		if row.Name == name {
			return p.present(row)
		}
	}
	return nil, ErrUnknownPin
}

// Alias returns the pin that carries alias in function fn, for example
// Alias(rp2040.FuncSPI, "spi_sclk").
func (p *Pins) Alias(fn rp2040.Function, alias string) (*rp2040.Pin, error) {
	for _, row := range PinNames {
		if row.AliasFunc == fn && row.Alias == alias {
			return p.present(row)
		}
	}
	return nil, ErrUnknownPin
}

func (p *Pins) present(row PinName) (*rp2040.Pin, error) {
	pin := row.field(p)
	if !pin.Valid() {
		return nil, ErrPinMoved
	}
	return pin, nil
}

// move hands out the pin in field and leaves the field zeroed.
func move(field *rp2040.Pin) (rp2040.Pin, error) {
	pin := *field
	if !pin.Valid() {
		return rp2040.Pin{}, ErrPinMoved
	}
	*field = rp2040.Pin{}
	return pin, nil
}
