package core

// Itoa converts an integer to a string without using fmt package
// This is a lightweight alternative for embedded systems
func Itoa(n int) string {
	if n == 0 {
		return "0"
	}

	negative := n < 0
	if negative {
		return "-" + Utoa64(uint64(-int64(n)))
	}
	return Utoa64(uint64(n))
}

// Utoa converts an unsigned integer to a string
func Utoa(n uint32) string {
	return Utoa64(uint64(n))
}

// Utoa64 converts an unsigned 64-bit integer to a string
func Utoa64(n uint64) string {
	if n == 0 {
		return "0"
	}

	var buf [20]byte
	pos := len(buf)
	for n > 0 {
		pos--
		buf[pos] = byte('0' + n%10)
		n /= 10
	}

	return string(buf[pos:])
}

// Hex formats v as 0x-prefixed lowercase hex
func Hex(v uint32) string {
	const digits = "0123456789abcdef"
	var buf [10]byte
	pos := len(buf)
	for {
		pos--
		buf[pos] = digits[v&0xF]
		v >>= 4
		if v == 0 {
			break
		}
	}
	pos--
	buf[pos] = 'x'
	pos--
	buf[pos] = '0'
	return string(buf[pos:])
}
