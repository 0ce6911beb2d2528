package protocol

// Encoder frames payloads into its own buffer. It does not allocate.
type Encoder struct {
	seq uint8
	buf [FrameMax]byte
}

// Encode frames payload with the next sequence number. The returned slice
// aliases the encoder and is overwritten by the next call.
func (e *Encoder) Encode(payload []byte) ([]byte, error) {
	if len(payload) > PayloadMax {
		return nil, ErrFrameTooLarge
	}
	f := append(e.buf[:0], byte(len(payload)+FrameMin), DestBits|e.seq)
	f = append(f, payload...)
	crc := CRC16(f)
	f = append(f, byte(crc>>8), byte(crc), SyncByte)
	e.seq = (e.seq + 1) & SeqMask
	return f, nil
}

// Frame is one decoded frame. Payload aliases the decoder's buffer and is
// only valid during the handler call.
type Frame struct {
	Seq     uint8
	Payload []byte
}

// DecoderStats counts what the decoder has seen.
type DecoderStats struct {
	Frames  uint32
	BadCRC  uint32
	Resyncs uint32
	Dropped uint32 // bytes skipped while hunting for a sync byte
	SeqGaps uint32
}

// Decoder splits a byte stream into frames. Anything that fails the
// length, destination, trailer or CRC checks drops the decoder out of sync
// until the next 0x7E.
type Decoder struct {
	ring    *Ring
	synced  bool
	handle  func(Frame)
	nextSeq uint8
	seen    bool
	stats   DecoderStats
}

// NewDecoder returns a decoder that passes each good frame to handle.
func NewDecoder(handle func(Frame)) *Decoder {
	return &Decoder{
		ring:   NewRing(4 * FrameMax),
		synced: true,
		handle: handle,
	}
}

// Write feeds stream bytes to the decoder. It never fails.
func (d *Decoder) Write(p []byte) (int, error) {
	total := len(p)
	for len(p) > 0 {
		n := d.ring.Write(p)
		p = p[n:]
		d.process()
	}
	return total, nil
}

// Stats returns the counters.
func (d *Decoder) Stats() DecoderStats {
	return d.stats
}

// Reset drops buffered bytes and sequence tracking.
func (d *Decoder) Reset() {
	d.ring.Reset()
	d.synced = true
	d.seen = false
}

func (d *Decoder) process() {
	data := d.ring.Bytes()
	start := len(data)

	for len(data) > 0 {
		if !d.synced {
			i := 0
			for i < len(data) && data[i] != SyncByte {
				i++
			}
			d.stats.Dropped += uint32(i)
			if i == len(data) {
				data = nil
				break
			}
			data = data[i+1:]
			d.synced = true
			d.stats.Resyncs++
			continue
		}

		if data[0] == SyncByte {
			data = data[1:]
			continue
		}
		if len(data) < FrameMin {
			break
		}
		n := int(data[0])
		if n < FrameMin || n > FrameMax || data[1]&^SeqMask != DestBits {
			d.synced = false
			continue
		}
		if len(data) < n {
			break
		}
		if data[n-1] != SyncByte {
			d.synced = false
			continue
		}
		want := uint16(data[n-3])<<8 | uint16(data[n-2])
		if CRC16(data[:n-FrameTrailer]) != want {
			d.stats.BadCRC++
			d.synced = false
			continue
		}

		seq := data[1] & SeqMask
		if d.seen && seq != d.nextSeq {
			d.stats.SeqGaps++
		}
		d.seen = true
		d.nextSeq = (seq + 1) & SeqMask
		d.stats.Frames++
		if d.handle != nil {
			d.handle(Frame{Seq: seq, Payload: data[FrameHeader : n-FrameTrailer]})
		}
		data = data[n:]
	}

	d.ring.Discard(start - len(data))
}
