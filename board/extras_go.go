//go:build !tinygo

package board

import "badger/rp2040"

// Host builds carry no TinyGo peripheral drivers.
type boardExtras struct{}

func (b *Board) initExtras(p *rp2040.Peripherals) error {
	return nil
}
