package monitor

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"badger/board"
	"badger/core"
	"badger/protocol"
)

func newObserved() (*Monitor, *observer.ObservedLogs) {
	zc, logs := observer.New(zapcore.DebugLevel)
	return New(zap.New(zc)), logs
}

func TestReadFromTracksState(t *testing.T) {
	var link bytes.Buffer
	tel := protocol.NewTelemetry(&link)

	freqs := [protocol.NumClockFreqs]uint32{12_000_000, 125_000_000, 125_000_000, 48_000_000, 48_000_000, 46_875, 1_000_000}
	if err := tel.Clocks(freqs); err != nil {
		t.Fatal(err)
	}
	if err := tel.Buttons(0x21, 4242); err != nil {
		t.Fatal(err)
	}
	if err := tel.Log("hello badge"); err != nil {
		t.Fatal(err)
	}
	if err := tel.Event(core.EvtFault, 3, 1, 2); err != nil {
		t.Fatal(err)
	}

	m, logs := newObserved()
	var seen []protocol.ReportID
	m.OnReport(func(r protocol.Report) { seen = append(seen, r.ID) })

	if err := m.ReadFrom(context.Background(), &link); err != nil {
		t.Fatalf("ReadFrom: %v", err)
	}

	st := m.State()
	if !st.HaveClocks || st.Clocks != freqs {
		t.Errorf("clocks = %v", st.Clocks)
	}
	if st.Buttons != board.ButtonsRaw(0x21) || st.ButtonTick != 4242 {
		t.Errorf("buttons = %v at %d", st.Buttons, st.ButtonTick)
	}
	if st.Logs != 1 || st.Events != 1 || st.Faults != 1 {
		t.Errorf("counts = %+v", st)
	}
	if len(seen) != 4 {
		t.Errorf("callback saw %v", seen)
	}

	if n := logs.FilterMessage("hello badge").Len(); n != 1 {
		t.Errorf("log line logged %d times", n)
	}
	clk := logs.FilterMessage("clocks").All()
	if len(clk) != 1 || clk[0].ContextMap()["sys"] != uint32(125_000_000) {
		t.Errorf("clocks entry = %+v", clk)
	}
	faults := logs.FilterMessage("event").FilterField(zap.String("type", "FAULT!")).All()
	if len(faults) != 1 || faults[0].Level != zapcore.ErrorLevel {
		t.Errorf("fault entries = %+v", faults)
	}

	stats, bad := m.Stats()
	if stats.Frames != 4 || bad != 0 {
		t.Errorf("stats = %+v bad=%d", stats, bad)
	}
}

func TestUnknownReportCounted(t *testing.T) {
	var enc protocol.Encoder
	frame, err := enc.Encode([]byte{0x09})
	if err != nil {
		t.Fatal(err)
	}

	m, logs := newObserved()
	if err := m.ReadFrom(context.Background(), bytes.NewReader(frame)); err != nil {
		t.Fatal(err)
	}
	if _, bad := m.Stats(); bad != 1 {
		t.Errorf("bad = %d", bad)
	}
	if logs.FilterMessage("undecodable report").Len() != 1 {
		t.Error("no warning logged")
	}
	if m.State().HaveClocks {
		t.Error("state changed by a bad report")
	}
}

type errReader struct{ err error }

func (r errReader) Read([]byte) (int, error) { return 0, r.err }

func TestReadFromErrors(t *testing.T) {
	m := New(nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := m.ReadFrom(ctx, errReader{}); !errors.Is(err, context.Canceled) {
		t.Errorf("canceled: %v", err)
	}

	boom := errors.New("unplugged")
	if err := m.ReadFrom(context.Background(), errReader{boom}); !errors.Is(err, boom) {
		t.Errorf("read error: %v", err)
	}
	if err := m.ReadFrom(context.Background(), errReader{io.EOF}); err != nil {
		t.Errorf("EOF: %v", err)
	}

	if err := m.Run(context.Background()); err == nil {
		t.Error("Run without a port succeeded")
	}
	if err := m.Close(); err != nil {
		t.Errorf("Close without a port: %v", err)
	}
}

func TestClockName(t *testing.T) {
	want := []string{"ref", "sys", "peri", "usb", "adc", "rtc", "tick"}
	for i, name := range want {
		if got := ClockName(i); got != name {
			t.Errorf("ClockName(%d) = %q, want %q", i, got, name)
		}
	}
}

// scriptedPort replays a fixed sequence of reads, then fails with end.
type scriptedPort struct {
	reads [][]byte
	end   error
}

func (p *scriptedPort) Read(b []byte) (int, error) {
	if len(p.reads) == 0 {
		return 0, p.end
	}
	next := p.reads[0]
	p.reads = p.reads[1:]
	if next == nil {
		return 0, io.EOF
	}
	return copy(b, next), nil
}

func (p *scriptedPort) Write(b []byte) (int, error) { return len(b), nil }
func (p *scriptedPort) Close() error                { return nil }
func (p *scriptedPort) Flush() error                { return nil }

func TestRunSurvivesReadTimeouts(t *testing.T) {
	var link bytes.Buffer
	if err := protocol.NewTelemetry(&link).Buttons(0x04, 7); err != nil {
		t.Fatal(err)
	}

	unplugged := errors.New("unplugged")
	m := New(nil)
	m.port = &scriptedPort{
		reads: [][]byte{nil, nil, link.Bytes(), nil},
		end:   unplugged,
	}

	if err := m.Run(context.Background()); !errors.Is(err, unplugged) {
		t.Fatalf("Run = %v, want the port error", err)
	}
	if st := m.State(); st.Buttons != board.ButtonsRaw(0x04) || st.ButtonTick != 7 {
		t.Errorf("state after timeouts = %+v", st)
	}
}
