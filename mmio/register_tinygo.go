//go:build tinygo

package mmio

import "runtime/volatile"

// Register32 is a memory-mapped 32-bit register.
type Register32 = volatile.Register32
