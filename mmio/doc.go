// Package mmio is the register access primitive: typed, volatile
// read/modify/write over memory-mapped peripheral registers.
//
// TinyGo builds alias TinyGo's runtime/volatile types. Host builds use an
// in-memory register with an optional write hook, which the rp2040
// simulator uses to model hardware side effects.
package mmio
