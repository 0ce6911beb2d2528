package core

import "errors"

// ErrWouldBlock is returned by non-blocking operations that are not ready yet.
var ErrWouldBlock = errors.New("operation would block")

// Block spins on fn until it returns something other than ErrWouldBlock.
func Block(fn func() error) error {
	for {
		err := fn()
		if err != ErrWouldBlock {
			return err
		}
	}
}
