package protocol

import (
	"bytes"
	"testing"
)

type collector struct {
	frames []Frame
}

func (c *collector) handle(f Frame) {
	c.frames = append(c.frames, Frame{Seq: f.Seq, Payload: append([]byte(nil), f.Payload...)})
}

func encodeAll(t *testing.T, payloads ...[]byte) []byte {
	t.Helper()
	var enc Encoder
	var stream []byte
	for _, p := range payloads {
		f, err := enc.Encode(p)
		if err != nil {
			t.Fatalf("Encode: %v", err)
		}
		stream = append(stream, f...)
	}
	return stream
}

func TestEncodeLayout(t *testing.T) {
	var enc Encoder
	f, err := enc.Encode([]byte{0x03, 0x00})
	if err != nil {
		t.Fatal(err)
	}
	if len(f) != 7 || f[0] != 7 || f[1] != DestBits || f[6] != SyncByte {
		t.Errorf("frame = % x", f)
	}
	crc := CRC16(f[:4])
	if f[4] != byte(crc>>8) || f[5] != byte(crc) {
		t.Errorf("crc bytes % x, want %04x", f[4:6], crc)
	}

	for i := 1; i < 17; i++ {
		f, _ = enc.Encode(nil)
	}
	if f[1] != DestBits|0 {
		t.Errorf("sequence after 17 frames = %#x, want wrap to 0x10", f[1])
	}

	if _, err := enc.Encode(make([]byte, PayloadMax+1)); err != ErrFrameTooLarge {
		t.Errorf("oversized payload: %v", err)
	}
	if _, err := enc.Encode(make([]byte, PayloadMax)); err != nil {
		t.Errorf("max payload: %v", err)
	}
}

func TestDecoderRoundTrip(t *testing.T) {
	payloads := [][]byte{{1}, {2, 3, 4}, {}, bytes.Repeat([]byte{0x7e}, PayloadMax)}
	stream := encodeAll(t, payloads...)

	// Byte-at-a-time and all-at-once must agree.
	for _, chunk := range []int{1, 5, len(stream)} {
		var c collector
		d := NewDecoder(c.handle)
		for i := 0; i < len(stream); i += chunk {
			end := i + chunk
			if end > len(stream) {
				end = len(stream)
			}
			d.Write(stream[i:end])
		}
		if len(c.frames) != len(payloads) {
			t.Fatalf("chunk %d: %d frames, want %d", chunk, len(c.frames), len(payloads))
		}
		for i, f := range c.frames {
			if !bytes.Equal(f.Payload, payloads[i]) || f.Seq != uint8(i) {
				t.Errorf("chunk %d frame %d: seq %d payload % x", chunk, i, f.Seq, f.Payload)
			}
		}
		if s := d.Stats(); s.Frames != 4 || s.BadCRC != 0 || s.SeqGaps != 0 {
			t.Errorf("chunk %d stats %+v", chunk, s)
		}
	}
}

func TestDecoderRejectsCorruption(t *testing.T) {
	good := encodeAll(t, []byte{1, 2}, []byte{3, 4}, []byte{5, 6})
	bad := append([]byte(nil), good...)
	bad[2] ^= 0x01 // payload of the first frame

	var c collector
	d := NewDecoder(c.handle)
	d.Write(bad)

	if len(c.frames) != 2 {
		t.Fatalf("got %d frames, want 2", len(c.frames))
	}
	if !bytes.Equal(c.frames[0].Payload, []byte{3, 4}) {
		t.Errorf("first surviving frame % x", c.frames[0].Payload)
	}
	s := d.Stats()
	if s.BadCRC != 1 || s.Resyncs == 0 || s.SeqGaps != 0 {
		t.Errorf("stats %+v", s)
	}
}

func TestDecoderResyncAfterGarbage(t *testing.T) {
	stream := append([]byte{0x00, 0x42, 0x99, 0x13}, encodeAll(t, []byte{9})...)

	var c collector
	d := NewDecoder(c.handle)
	d.Write(stream)
	if len(c.frames) != 0 {
		t.Fatalf("frame decoded from garbage-prefixed stream without a sync byte")
	}

	// The first frame's trailer is the sync point for the next one.
	var enc Encoder
	enc.Encode(nil)
	next, _ := enc.Encode([]byte{8})
	d.Write(next)
	if len(c.frames) != 1 || c.frames[0].Payload[0] != 8 {
		t.Fatalf("frames after resync: %+v", c.frames)
	}
	if d.Stats().Dropped == 0 {
		t.Error("no bytes counted as dropped")
	}
}

func TestDecoderSeqGap(t *testing.T) {
	var enc Encoder
	a, _ := enc.Encode([]byte{1})
	first := append([]byte(nil), a...)
	enc.Encode([]byte{2})
	c3, _ := enc.Encode([]byte{3})

	d := NewDecoder(nil)
	d.Write(first)
	d.Write(c3)
	if s := d.Stats(); s.Frames != 2 || s.SeqGaps != 1 {
		t.Errorf("stats %+v", s)
	}
}
