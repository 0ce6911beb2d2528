//go:build tinygo

package board

import (
	"device/rp"
	"runtime/interrupt"

	"badger/core"
)

var bankButtons core.Cell[*Buttons]

// ListenButtons routes IO_IRQ_BANK0 to b.HandleInterrupt and enables the
// interrupt. Arm the buttons with EnableInterruptOnPress or
// EnableInterruptOnRelease, then drain events with b.TakeEvents.
func ListenButtons(b *Buttons) {
	bankButtons.Swap(b)
	intr := interrupt.New(rp.IRQ_IO_IRQ_BANK0, handleBankIRQ)
	intr.Enable()
}

func handleBankIRQ(interrupt.Interrupt) {
	if b := bankButtons.Load(); b != nil {
		b.HandleInterrupt()
	}
}
