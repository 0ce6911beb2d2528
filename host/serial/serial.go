// Package serial opens the Badger 2040's USB CDC port on the host.
package serial

import (
	"io"
	"time"
)

// Port is an open serial connection. Tests substitute in-memory pipes.
type Port interface {
	io.ReadWriteCloser

	// Flush discards unread input.
	Flush() error
}

// Config holds serial port settings.
type Config struct {
	// Device path, e.g. /dev/ttyACM0 or COM3.
	Device string

	// Baud is ignored by USB CDC but required by most drivers.
	Baud int

	// ReadTimeout bounds a single Read; 0 blocks.
	ReadTimeout time.Duration
}

// DefaultBaud matches the firmware's UART fallback console.
const DefaultBaud = 115200

// DefaultConfig returns the settings for the badge's console port.
func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        DefaultBaud,
		ReadTimeout: 100 * time.Millisecond,
	}
}
