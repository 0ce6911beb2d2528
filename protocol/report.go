package protocol

import "io"

// ReportID tags a payload.
type ReportID uint8

const (
	ReportClocks  ReportID = 1
	ReportButtons ReportID = 2
	ReportLog     ReportID = 3
	ReportEvent   ReportID = 4
)

func (id ReportID) String() string {
	switch id {
	case ReportClocks:
		return "clocks"
	case ReportButtons:
		return "buttons"
	case ReportLog:
		return "log"
	case ReportEvent:
		return "event"
	}
	return "unknown"
}

// NumClockFreqs is the number of frequencies in a clocks report, in the
// order ref, sys, peri, usb, adc, rtc, tick.
const NumClockFreqs = 7

// logChunk is the most text one log frame carries. It keeps the length
// prefix to a single VLQ byte.
const logChunk = PayloadMax - 3

// Report is a decoded payload. Only the fields of its ID are set.
type Report struct {
	ID ReportID

	Clocks [NumClockFreqs]uint32

	Buttons uint8
	Tick    uint32

	Text string

	EventType uint8
	EventID   uint8
	Value1    uint32
	Value2    uint32
}

func AppendClocks(buf []byte, freqs [NumClockFreqs]uint32) []byte {
	buf = AppendVLQUint(buf, uint32(ReportClocks))
	for _, f := range freqs {
		buf = AppendVLQUint(buf, f)
	}
	return buf
}

func AppendButtons(buf []byte, raw uint8, tick uint32) []byte {
	buf = AppendVLQUint(buf, uint32(ReportButtons))
	buf = AppendVLQUint(buf, uint32(raw))
	return AppendVLQUint(buf, tick)
}

// AppendLog appends a log report. Text beyond one frame is cut.
func AppendLog(buf []byte, msg string) []byte {
	if len(msg) > logChunk {
		msg = msg[:logChunk]
	}
	buf = AppendVLQUint(buf, uint32(ReportLog))
	return AppendVLQString(buf, msg)
}

func AppendEvent(buf []byte, typ, id uint8, v1, v2 uint32) []byte {
	buf = AppendVLQUint(buf, uint32(ReportEvent))
	buf = AppendVLQUint(buf, uint32(typ))
	buf = AppendVLQUint(buf, uint32(id))
	buf = AppendVLQUint(buf, v1)
	return AppendVLQUint(buf, v2)
}

// DecodeReport parses a frame payload.
func DecodeReport(payload []byte) (Report, error) {
	data := payload
	id, err := ReadVLQUint(&data)
	if err != nil {
		return Report{}, err
	}
	r := Report{ID: ReportID(id)}

	switch r.ID {
	case ReportClocks:
		for i := range r.Clocks {
			if r.Clocks[i], err = ReadVLQUint(&data); err != nil {
				return Report{}, err
			}
		}
	case ReportButtons:
		raw, err := ReadVLQUint(&data)
		if err != nil {
			return Report{}, err
		}
		r.Buttons = uint8(raw)
		if r.Tick, err = ReadVLQUint(&data); err != nil {
			return Report{}, err
		}
	case ReportLog:
		if r.Text, err = ReadVLQString(&data); err != nil {
			return Report{}, err
		}
	case ReportEvent:
		var f [4]uint32
		for i := range f {
			if f[i], err = ReadVLQUint(&data); err != nil {
				return Report{}, err
			}
		}
		r.EventType, r.EventID = uint8(f[0]), uint8(f[1])
		r.Value1, r.Value2 = f[2], f[3]
	default:
		return Report{}, ErrUnknownReport
	}
	return r, nil
}

// Telemetry writes reports as frames to w. It reuses its buffers, so it
// can run on the device without allocating.
type Telemetry struct {
	w   io.Writer
	enc Encoder
	buf [PayloadMax]byte
}

// NewTelemetry returns a telemetry writer on w.
func NewTelemetry(w io.Writer) *Telemetry {
	return &Telemetry{w: w}
}

func (t *Telemetry) send(payload []byte) error {
	f, err := t.enc.Encode(payload)
	if err != nil {
		return err
	}
	_, err = t.w.Write(f)
	return err
}

func (t *Telemetry) Clocks(freqs [NumClockFreqs]uint32) error {
	return t.send(AppendClocks(t.buf[:0], freqs))
}

func (t *Telemetry) Buttons(raw uint8, tick uint32) error {
	return t.send(AppendButtons(t.buf[:0], raw, tick))
}

func (t *Telemetry) Event(typ, id uint8, v1, v2 uint32) error {
	return t.send(AppendEvent(t.buf[:0], typ, id, v1, v2))
}

// Log sends msg, split over as many frames as it needs.
func (t *Telemetry) Log(msg string) error {
	for {
		chunk := msg
		if len(chunk) > logChunk {
			chunk = chunk[:logChunk]
		}
		if err := t.send(AppendLog(t.buf[:0], chunk)); err != nil {
			return err
		}
		msg = msg[len(chunk):]
		if msg == "" {
			return nil
		}
	}
}
