package rp2040

import (
	"errors"

	"badger/core"
)

// ErrResetTimeout is returned when a block does not report reset-done
// within the poll budget.
var ErrResetTimeout = errors.New("rp2040: reset done timeout")

// DefaultPollBudget bounds every hardware poll loop in this package.
const DefaultPollBudget = 1_000_000

// Assert puts the given blocks into reset.
func (r *ResetsRegs) Assert(bits uint32) {
	r.Reset.SetBits(bits)
}

// Release takes the given blocks out of reset and waits for all of them to
// report done, giving up after budget polls.
func (r *ResetsRegs) Release(bits uint32, budget int) error {
	r.Reset.ClearBits(bits)
	for i := 0; i < budget; i++ {
		if r.ResetDone.Get()&bits == bits {
			return nil
		}
	}
	core.DebugPrintln("reset timeout: want " + core.Hex(bits) + " done " + core.Hex(r.ResetDone.Get()))
	return ErrResetTimeout
}

// Cycle asserts and releases the given blocks.
func (r *ResetsRegs) Cycle(bits uint32, budget int) error {
	r.Assert(bits)
	return r.Release(bits, budget)
}
