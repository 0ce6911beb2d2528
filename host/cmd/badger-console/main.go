// badger-console shows telemetry from a Badger 2040 running the badger2040
// firmware.
//
// Keys: q quits, s prints the board state, d prints link statistics.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/mattn/go-tty"
	"go.uber.org/zap"

	"badger/board"
	"badger/host/monitor"
	"badger/host/serial"
	"badger/protocol"
)

var (
	device  = flag.String("device", "/dev/ttyACM0", "serial device path")
	baud    = flag.Int("baud", serial.DefaultBaud, "baud rate")
	verbose = flag.Bool("verbose", false, "log every report")
)

var (
	pressedColor  = color.New(color.FgGreen, color.Bold).SprintFunc()
	releasedColor = color.New(color.FgHiBlack).SprintFunc()
	headColor     = color.New(color.FgCyan).SprintFunc()
)

func main() {
	flag.Parse()

	log, err := newLoggerConfig(*verbose).Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	cfg := serial.DefaultConfig(*device)
	cfg.Baud = *baud

	log.Info("connecting", zap.String("device", cfg.Device), zap.Int("baud", cfg.Baud))
	m, err := monitor.ConnectWithConfig(cfg, log)
	if err != nil {
		log.Fatal("connect failed", zap.Error(err))
	}
	defer m.Close()

	m.OnReport(func(r protocol.Report) {
		if r.ID == protocol.ReportButtons {
			fmt.Printf("%s %s\n", headColor(fmt.Sprintf("[%10d]", r.Tick)), buttonLine(board.ButtonsRaw(r.Buttons)))
		}
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go readKeys(ctx, stop, m, log)

	if err := m.Run(ctx); err != nil && ctx.Err() == nil {
		log.Error("link lost", zap.Error(err))
		os.Exit(1)
	}
}

// buttonLine renders every button, highlighting the pressed ones.
func buttonLine(raw board.ButtonsRaw) string {
	parts := make([]string, 0, 6)
	for btn := board.ButtonA; btn <= board.ButtonUser; btn++ {
		if raw.Pressed(btn) {
			parts = append(parts, pressedColor(strings.ToUpper(btn.String())))
		} else {
			parts = append(parts, releasedColor(btn.String()))
		}
	}
	return strings.Join(parts, " ")
}

func readKeys(ctx context.Context, quit func(), m *monitor.Monitor, log *zap.Logger) {
	t, err := tty.Open()
	if err != nil {
		log.Warn("no terminal, keys disabled", zap.Error(err))
		return
	}
	defer t.Close()

	for ctx.Err() == nil {
		r, err := t.ReadRune()
		if err != nil {
			log.Warn("terminal read", zap.Error(err))
			return
		}
		switch r {
		case 'q', 3: // 3 is Ctrl-C in raw mode
			quit()
			return
		case 's':
			printState(m.State())
		case 'd':
			stats, bad := m.Stats()
			fmt.Printf("%s frames=%d bad_crc=%d resyncs=%d dropped=%d seq_gaps=%d undecodable=%d\n",
				headColor("link"), stats.Frames, stats.BadCRC, stats.Resyncs, stats.Dropped, stats.SeqGaps, bad)
		}
	}
}

func printState(st monitor.State) {
	if st.HaveClocks {
		for i, hz := range st.Clocks {
			fmt.Printf("%s %-5s %11d Hz\n", headColor("clock"), monitor.ClockName(i), hz)
		}
	} else {
		fmt.Println(headColor("clock"), "no report yet")
	}
	fmt.Println(headColor("buttons"), buttonLine(st.Buttons))
	line := fmt.Sprintf("logs=%d events=%d faults=%d", st.Logs, st.Events, st.Faults)
	if st.Faults > 0 {
		line = color.RedString(line)
	}
	fmt.Println(headColor("counts"), line)
}
