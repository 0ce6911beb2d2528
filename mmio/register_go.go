//go:build !tinygo

package mmio

import "sync/atomic"

// Register32 is the host stand-in for a memory-mapped 32-bit register.
// It has the same method set as TinyGo's volatile.Register32. Writes may be
// intercepted by a hook so a simulator can model alias, set/clear and
// write-one-to-clear registers.
type Register32 struct {
	Reg     uint32
	onWrite func(r *Register32, value uint32)
}

// Get returns the register value.
func (r *Register32) Get() uint32 {
	return atomic.LoadUint32(&r.Reg)
}

// Set writes value to the register, passing through the write hook if any.
func (r *Register32) Set(value uint32) {
	if r.onWrite != nil {
		r.onWrite(r, value)
		return
	}
	atomic.StoreUint32(&r.Reg, value)
}

// SetBits reads the register, sets the given bits and writes it back.
func (r *Register32) SetBits(value uint32) {
	r.Set(r.Get() | value)
}

// ClearBits reads the register, clears the given bits and writes it back.
func (r *Register32) ClearBits(value uint32) {
	r.Set(r.Get() &^ value)
}

// HasBits reports whether any of the given bits are set.
func (r *Register32) HasBits(value uint32) bool {
	return r.Get()&value > 0
}

// ReplaceBits replaces the field mask<<pos with value<<pos.
func (r *Register32) ReplaceBits(value uint32, mask uint32, pos uint8) {
	r.Set(r.Get()&^(mask<<pos) | value<<pos)
}

// Store writes value directly, bypassing the write hook. It models the
// hardware side changing a register behind the CPU's back.
func (r *Register32) Store(value uint32) {
	atomic.StoreUint32(&r.Reg, value)
}

// OnWrite installs a hook that replaces plain stores for CPU writes.
// The hook receives the register so it can Store into it.
func (r *Register32) OnWrite(fn func(r *Register32, value uint32)) {
	r.onWrite = fn
}
