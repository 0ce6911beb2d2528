// Package monitor decodes telemetry frames from a Badger 2040 and keeps
// the latest board state.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"

	"badger/board"
	"badger/core"
	"badger/host/serial"
	"badger/protocol"
	"badger/rp2040"
)

// State is the most recent board state seen on the link.
type State struct {
	Clocks     [protocol.NumClockFreqs]uint32
	HaveClocks bool

	Buttons    board.ButtonsRaw
	ButtonTick uint32

	Logs   int
	Events int
	Faults int
}

// ClockName returns the name of the i-th frequency in a clocks report.
func ClockName(i int) string {
	return rp2040.Clock(i).String()
}

// Monitor reads frames from a badge.
type Monitor struct {
	port serial.Port
	log  *zap.Logger
	dec  *protocol.Decoder

	// decMu guards dec. handle runs under it and then takes mu.
	decMu sync.Mutex

	mu       sync.Mutex
	state    State
	bad      int
	onReport func(protocol.Report)
}

// New returns a monitor that is fed by ReadFrom.
func New(log *zap.Logger) *Monitor {
	if log == nil {
		log = zap.NewNop()
	}
	m := &Monitor{log: log}
	m.dec = protocol.NewDecoder(m.handle)
	return m
}

// Connect opens device with default settings.
func Connect(device string, log *zap.Logger) (*Monitor, error) {
	return ConnectWithConfig(serial.DefaultConfig(device), log)
}

// ConnectWithConfig opens the serial port described by cfg.
func ConnectWithConfig(cfg *serial.Config, log *zap.Logger) (*Monitor, error) {
	port, err := serial.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if err := port.Flush(); err != nil {
		port.Close()
		return nil, fmt.Errorf("flush %s: %w", cfg.Device, err)
	}
	m := New(log)
	m.port = port
	return m, nil
}

// OnReport registers fn to run for every decoded report. It runs on the
// reading goroutine.
func (m *Monitor) OnReport(fn func(protocol.Report)) {
	m.mu.Lock()
	m.onReport = fn
	m.mu.Unlock()
}

// Run reads from the connected port until ctx is done or the port fails.
// A read that times out with no data is not an error; the serial driver
// reports it as io.EOF.
func (m *Monitor) Run(ctx context.Context) error {
	if m.port == nil {
		return errors.New("monitor: not connected")
	}
	return m.read(ctx, m.port, false)
}

// ReadFrom feeds r into the decoder until EOF or ctx is done. EOF is not
// an error.
func (m *Monitor) ReadFrom(ctx context.Context, r io.Reader) error {
	return m.read(ctx, r, true)
}

func (m *Monitor) read(ctx context.Context, r io.Reader, stopAtEOF bool) error {
	buf := make([]byte, 256)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, err := r.Read(buf)
		if n > 0 {
			m.decMu.Lock()
			m.dec.Write(buf[:n])
			m.decMu.Unlock()
		}
		if errors.Is(err, io.EOF) {
			if stopAtEOF {
				return nil
			}
			continue
		}
		if err != nil {
			return fmt.Errorf("read: %w", err)
		}
	}
}

func (m *Monitor) handle(f protocol.Frame) {
	r, err := protocol.DecodeReport(f.Payload)
	if err != nil {
		m.mu.Lock()
		m.bad++
		m.mu.Unlock()
		m.log.Warn("undecodable report", zap.Uint8("seq", f.Seq), zap.Error(err))
		return
	}

	m.mu.Lock()
	switch r.ID {
	case protocol.ReportClocks:
		m.state.Clocks = r.Clocks
		m.state.HaveClocks = true
	case protocol.ReportButtons:
		m.state.Buttons = board.ButtonsRaw(r.Buttons)
		m.state.ButtonTick = r.Tick
	case protocol.ReportLog:
		m.state.Logs++
	case protocol.ReportEvent:
		m.state.Events++
		if r.EventType == core.EvtFault || r.EventType == core.EvtClockFail {
			m.state.Faults++
		}
	}
	fn := m.onReport
	m.mu.Unlock()

	m.logReport(r)
	if fn != nil {
		fn(r)
	}
}

func (m *Monitor) logReport(r protocol.Report) {
	switch r.ID {
	case protocol.ReportClocks:
		fields := make([]zap.Field, 0, len(r.Clocks))
		for i, hz := range r.Clocks {
			fields = append(fields, zap.Uint32(ClockName(i), hz))
		}
		m.log.Info("clocks", fields...)
	case protocol.ReportButtons:
		m.log.Debug("buttons",
			zap.Stringer("pressed", board.ButtonsRaw(r.Buttons)),
			zap.Uint32("tick", r.Tick))
	case protocol.ReportLog:
		m.log.Info(r.Text)
	case protocol.ReportEvent:
		fields := []zap.Field{
			zap.String("type", core.EventName(r.EventType)),
			zap.Uint8("id", r.EventID),
			zap.Uint32("v1", r.Value1),
			zap.Uint32("v2", r.Value2),
		}
		if r.EventType == core.EvtFault || r.EventType == core.EvtClockFail {
			m.log.Error("event", fields...)
			return
		}
		m.log.Debug("event", fields...)
	}
}

// State returns a copy of the latest state.
func (m *Monitor) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Stats returns the decoder counters and the number of frames whose
// payload did not decode.
func (m *Monitor) Stats() (protocol.DecoderStats, int) {
	m.decMu.Lock()
	stats := m.dec.Stats()
	m.decMu.Unlock()

	m.mu.Lock()
	defer m.mu.Unlock()
	return stats, m.bad
}

// Close closes the port, if any.
func (m *Monitor) Close() error {
	if m.port == nil {
		return nil
	}
	return m.port.Close()
}
