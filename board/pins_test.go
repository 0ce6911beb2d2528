package board

import (
	"errors"
	"testing"

	"badger/rp2040"
)

func TestPinTable(t *testing.T) {
	for i, row := range PinNames {
		if int(row.ID) != i {
			t.Errorf("row %d has ID %d", i, row.ID)
		}
		if row.Name == "" {
			t.Errorf("gpio%d has no name", i)
		}
		if (row.Alias == "") != (row.AliasFunc == 0) {
			t.Errorf("gpio%d: alias %q with function %v", i, row.Alias, row.AliasFunc)
		}
	}

	tests := []struct {
		name string
		id   uint8
	}{
		{"led", 25},
		{"sw_a", 12},
		{"user_sw", 23},
		{"uart_tx", 0},
		{"i2c_scl", 5},
		{"spi_sclk", 18},
		{"inky_cs", 17},
		{"gpio22", 22},
		{"vbat_sense", 29},
	}
	for _, tt := range tests {
		id, ok := Lookup(tt.name)
		if !ok || id != tt.id {
			t.Errorf("Lookup(%q) = %d, %v; want %d", tt.name, id, ok, tt.id)
		}
	}
	if _, ok := Lookup("nope"); ok {
		t.Error("Lookup found an unknown name")
	}
	if Name(26) != "inky_busy" || Name(40) != "" {
		t.Errorf("Name(26) = %q, Name(40) = %q", Name(26), Name(40))
	}
}

func TestPinsFields(t *testing.T) {
	_, b := newTestBoard(t)
	p := b.Pins

	for _, row := range PinNames {
		pin := row.field(p)
		if !pin.Valid() || pin.ID() != row.ID {
			t.Errorf("%s: field holds gpio%d valid=%v", row.Name, pin.ID(), pin.Valid())
		}
	}

	led, err := p.ByName("led")
	if err != nil || led != &p.LED {
		t.Errorf("ByName(led) = %p, %v", led, err)
	}
	sda, err := p.Alias(rp2040.FuncI2C, "i2c_sda")
	if err != nil || sda.ID() != 4 {
		t.Errorf("Alias(i2c, i2c_sda): %v", err)
	}
	if _, err := p.Alias(rp2040.FuncSPI, "i2c_sda"); !errors.Is(err, ErrUnknownPin) {
		t.Errorf("alias under wrong function: %v", err)
	}
	if _, err := p.ByName("uart_tx"); !errors.Is(err, ErrUnknownPin) {
		t.Errorf("ByName with an alias: %v", err)
	}

	if _, err := b.LED(); err != nil {
		t.Fatal(err)
	}
	if _, err := p.ByName("led"); !errors.Is(err, ErrPinMoved) {
		t.Errorf("ByName after move: %v", err)
	}
}
