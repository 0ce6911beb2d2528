// Package protocol frames the Badger 2040's debug telemetry.
//
// A frame is
//
//	[len][0x10|seq][payload...][crc hi][crc lo][0x7E]
//
// where len counts the whole frame and the CRC covers len, seq and the
// payload. A payload is a VLQ report id followed by the report's VLQ fields.
package protocol

import "errors"

const (
	FrameMax     = 64
	FrameHeader  = 2
	FrameTrailer = 3
	FrameMin     = FrameHeader + FrameTrailer
	PayloadMax   = FrameMax - FrameMin

	SyncByte = 0x7E
	DestBits = 0x10
	SeqMask  = 0x0F
)

var (
	ErrFrameTooLarge = errors.New("protocol: payload exceeds frame")
	ErrBadCRC        = errors.New("protocol: frame CRC mismatch")
	ErrUnknownReport = errors.New("protocol: unknown report id")
)
