package protocol

import (
	"bytes"
	"strings"
	"testing"
)

func TestReportRoundTrip(t *testing.T) {
	clocks := [NumClockFreqs]uint32{12_000_000, 125_000_000, 125_000_000, 48_000_000, 48_000_000, 46875, 1_000_000}
	tests := []struct {
		name    string
		payload []byte
		want    Report
	}{
		{"clocks", AppendClocks(nil, clocks), Report{ID: ReportClocks, Clocks: clocks}},
		{"buttons", AppendButtons(nil, 0x21, 0xfffffff0), Report{ID: ReportButtons, Buttons: 0x21, Tick: 0xfffffff0}},
		{"log", AppendLog(nil, "clock init ok"), Report{ID: ReportLog, Text: "clock init ok"}},
		{"event", AppendEvent(nil, 2, 5, 125_000_000, 7), Report{ID: ReportEvent, EventType: 2, EventID: 5, Value1: 125_000_000, Value2: 7}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if len(tt.payload) > PayloadMax {
				t.Fatalf("payload %d bytes exceeds a frame", len(tt.payload))
			}
			got, err := DecodeReport(tt.payload)
			if err != nil {
				t.Fatalf("DecodeReport: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDecodeReportErrors(t *testing.T) {
	if _, err := DecodeReport(AppendVLQUint(nil, 99)); err != ErrUnknownReport {
		t.Errorf("unknown id: %v", err)
	}
	short := AppendClocks(nil, [NumClockFreqs]uint32{1, 2, 3})
	if _, err := DecodeReport(short[:4]); err != ErrVLQTruncated {
		t.Errorf("truncated clocks: %v", err)
	}
	if _, err := DecodeReport(nil); err != ErrVLQTruncated {
		t.Errorf("empty payload: %v", err)
	}
}

func TestTelemetry(t *testing.T) {
	var out bytes.Buffer
	tel := NewTelemetry(&out)

	long := strings.Repeat("x", 2*logChunk+5)
	if err := tel.Log(long); err != nil {
		t.Fatal(err)
	}
	if err := tel.Buttons(0x01, 1234); err != nil {
		t.Fatal(err)
	}

	var reports []Report
	d := NewDecoder(func(f Frame) {
		r, err := DecodeReport(f.Payload)
		if err != nil {
			t.Errorf("frame %d: %v", f.Seq, err)
			return
		}
		reports = append(reports, r)
	})
	d.Write(out.Bytes())

	if len(reports) != 4 {
		t.Fatalf("got %d reports, want 4", len(reports))
	}
	var text string
	for _, r := range reports[:3] {
		if r.ID != ReportLog {
			t.Fatalf("report %v, want log", r.ID)
		}
		text += r.Text
	}
	if text != long {
		t.Errorf("reassembled %d bytes, want %d", len(text), len(long))
	}
	if reports[3].ID != ReportButtons || reports[3].Buttons != 0x01 || reports[3].Tick != 1234 {
		t.Errorf("buttons report %+v", reports[3])
	}
}
