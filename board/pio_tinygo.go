//go:build tinygo

package board

import (
	"badger/rp2040"

	rp2pio "github.com/tinygo-org/pio/rp2-pio"
)

// boardExtras carries the TinyGo drivers for blocks the board hands out
// but does not drive itself.
type boardExtras struct {
	PIO0 *rp2pio.PIO
	PIO1 *rp2pio.PIO
}

func (b *Board) initExtras(p *rp2040.Peripherals) error {
	if err := p.Resets.Release(rp2040.ResetPIO0|rp2040.ResetPIO1, rp2040.DefaultPollBudget); err != nil {
		return err
	}
	b.PIO0 = rp2pio.PIO0
	b.PIO1 = rp2pio.PIO1
	return nil
}
