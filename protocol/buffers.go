package protocol

// Ring is a fixed-capacity byte FIFO. One slot is kept free to tell full
// from empty, so it holds at most capacity-1 bytes.
type Ring struct {
	buf  []byte
	head int // next read
	tail int // next write
	flat []byte
}

// NewRing returns a ring holding up to capacity-1 bytes.
func NewRing(capacity int) *Ring {
	return &Ring{buf: make([]byte, capacity), flat: make([]byte, 0, capacity)}
}

// Write copies as much of data as fits and returns the count.
func (r *Ring) Write(data []byte) int {
	n := 0
	for _, b := range data {
		next := (r.tail + 1) % len(r.buf)
		if next == r.head {
			break
		}
		r.buf[r.tail] = b
		r.tail = next
		n++
	}
	return n
}

// Len returns the number of buffered bytes.
func (r *Ring) Len() int {
	if r.tail >= r.head {
		return r.tail - r.head
	}
	return len(r.buf) - r.head + r.tail
}

// Free returns how many more bytes Write will accept.
func (r *Ring) Free() int {
	return len(r.buf) - 1 - r.Len()
}

// Bytes returns the buffered bytes as one slice. The slice is valid until
// the next Write or Discard.
func (r *Ring) Bytes() []byte {
	if r.head <= r.tail {
		return r.buf[r.head:r.tail]
	}
	r.flat = append(r.flat[:0], r.buf[r.head:]...)
	r.flat = append(r.flat, r.buf[:r.tail]...)
	return r.flat
}

// Discard drops n bytes from the front.
func (r *Ring) Discard(n int) {
	if n > r.Len() {
		n = r.Len()
	}
	r.head = (r.head + n) % len(r.buf)
}

// Reset empties the ring.
func (r *Ring) Reset() {
	r.head, r.tail = 0, 0
}
