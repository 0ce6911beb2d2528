package protocol

import (
	"bytes"
	"testing"
)

func TestRing(t *testing.T) {
	r := NewRing(8)
	if r.Free() != 7 {
		t.Fatalf("Free = %d", r.Free())
	}
	if n := r.Write([]byte{1, 2, 3, 4, 5, 6, 7, 8, 9}); n != 7 {
		t.Errorf("Write accepted %d, want 7", n)
	}
	r.Discard(5)
	if got := r.Bytes(); !bytes.Equal(got, []byte{6, 7}) {
		t.Errorf("Bytes = %v", got)
	}

	// Wrap around the end of the backing array.
	r.Write([]byte{10, 11, 12, 13})
	if got := r.Bytes(); !bytes.Equal(got, []byte{6, 7, 10, 11, 12, 13}) {
		t.Errorf("wrapped Bytes = %v", got)
	}
	if r.Len() != 6 || r.Free() != 1 {
		t.Errorf("Len = %d, Free = %d", r.Len(), r.Free())
	}

	r.Discard(100)
	if r.Len() != 0 {
		t.Errorf("Len after over-discard = %d", r.Len())
	}
	r.Write([]byte{1})
	r.Reset()
	if r.Len() != 0 || len(r.Bytes()) != 0 {
		t.Error("Reset left data")
	}
}
