package protocol

import "errors"

var (
	ErrVLQTruncated = errors.New("protocol: truncated VLQ")
	ErrVLQTooLong   = errors.New("protocol: VLQ longer than 5 bytes")
)

// AppendVLQ appends v as a signed VLQ: seven bits per byte, most
// significant group first, continuation in bit 7. Small negative numbers
// stay short because bits 5 and 6 of the first byte sign-extend.
func AppendVLQ(buf []byte, v int32) []byte {
	for shift := 28; shift > 0; shift -= 7 {
		// A group is needed once v no longer fits in the range the
		// remaining groups can express.
		lo := int64(-1) << (shift - 2)
		hi := int64(3) << (shift - 2)
		if int64(v) < lo || int64(v) >= hi {
			buf = append(buf, byte(v>>shift)&0x7f|0x80)
		}
	}
	return append(buf, byte(v)&0x7f)
}

// AppendVLQUint appends v as a VLQ. Values above 2^31 round-trip through
// the signed encoding unchanged.
func AppendVLQUint(buf []byte, v uint32) []byte {
	return AppendVLQ(buf, int32(v))
}

// AppendVLQString appends s with a VLQ length prefix.
func AppendVLQString(buf []byte, s string) []byte {
	buf = AppendVLQUint(buf, uint32(len(s)))
	return append(buf, s...)
}

// ReadVLQ decodes a signed VLQ from the front of *data and advances it.
func ReadVLQ(data *[]byte) (int32, error) {
	d := *data
	if len(d) == 0 {
		return 0, ErrVLQTruncated
	}
	c := uint32(d[0])
	v := c & 0x7f
	if c&0x60 == 0x60 {
		v |= ^uint32(0x1f)
	}
	n := 1
	for c&0x80 != 0 {
		if n >= len(d) {
			return 0, ErrVLQTruncated
		}
		if n >= 5 {
			return 0, ErrVLQTooLong
		}
		c = uint32(d[n])
		v = v<<7 | c&0x7f
		n++
	}
	*data = d[n:]
	return int32(v), nil
}

// ReadVLQUint decodes an unsigned VLQ.
func ReadVLQUint(data *[]byte) (uint32, error) {
	v, err := ReadVLQ(data)
	return uint32(v), err
}

// ReadVLQString decodes a length-prefixed string.
func ReadVLQString(data *[]byte) (string, error) {
	rest := *data
	n, err := ReadVLQUint(&rest)
	if err != nil {
		return "", err
	}
	if uint32(len(rest)) < n {
		return "", ErrVLQTruncated
	}
	*data = rest[n:]
	return string(rest[:n]), nil
}
