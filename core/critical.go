// Critical sections and state shared with interrupt handlers
package core

// Critical runs fn with interrupts masked.
// Critical sections must not nest: the host build backs them with a mutex.
func Critical(fn func()) {
	state := disableInterrupts()
	defer restoreInterrupts(state)
	fn()
}

// Owned holds a resource that can be taken exactly once per program run.
// The value is built lazily by the first successful Take.
type Owned[T any] struct {
	build func() T
	taken bool
}

// NewOwned returns an Owned whose value is produced by build.
func NewOwned[T any](build func() T) *Owned[T] {
	return &Owned[T]{build: build}
}

// Take returns the value and true on the first call, and the zero value and
// false on every later call, including calls racing from interrupt context.
func (o *Owned[T]) Take() (T, bool) {
	var taken bool
	Critical(func() {
		taken = o.taken
		o.taken = true
	})
	if taken {
		var zero T
		return zero, false
	}
	v := o.build()
	o.build = nil
	return v, true
}

// Taken reports whether the value has been handed out.
func (o *Owned[T]) Taken() bool {
	var taken bool
	Critical(func() {
		taken = o.taken
	})
	return taken
}

// Cell is a value shared between an interrupt handler and the main loop.
// All access goes through the critical section.
type Cell[T any] struct {
	v T
}

// Borrow runs fn with exclusive access to the value.
func (c *Cell[T]) Borrow(fn func(v *T)) {
	Critical(func() {
		fn(&c.v)
	})
}

// Load returns a copy of the value.
func (c *Cell[T]) Load() T {
	var v T
	Critical(func() {
		v = c.v
	})
	return v
}

// Swap stores v and returns the previous value.
func (c *Cell[T]) Swap(v T) T {
	var old T
	Critical(func() {
		old, c.v = c.v, v
	})
	return old
}
