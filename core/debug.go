package core

import "sync/atomic"

// DebugWriter is a function type for writing debug messages
type DebugWriter func(string)

// Event captures a bring-up or interrupt event for post-mortem analysis
type Event struct {
	Type   uint8  // Event type code
	ID     uint8  // Pin, clock or stage number
	Value1 uint32 // Context-dependent value
	Value2 uint32 // Context-dependent value
}

// Event type codes
const (
	EvtTake       = 1 // Peripherals taken
	EvtClockStage = 2 // Clock bring-up stage completed
	EvtClockFail  = 3 // Clock bring-up stage failed
	EvtPinMode    = 4 // Pin changed mode
	EvtButtonIRQ  = 5 // Button interrupt handled
	EvtFault      = 6 // Fatal condition, device halting
)

const (
	EventRingSize = 32 // Keep last 32 events for post-mortem
)

var (
	// debugPrintln is the global debug print function (can be set by platform code)
	debugPrintln DebugWriter = func(s string) {} // No-op by default

	// debugEnabled controls whether debug output is active
	debugEnabled bool = false

	eventRing     [EventRingSize]Event
	eventRingHead uint32 // Total events recorded; slot is head % size
)

// SetDebugWriter sets the platform-specific debug output function
// This allows platforms to redirect debug output to UART, USB, etc.
func SetDebugWriter(writer DebugWriter) {
	debugPrintln = writer
}

// SetDebugEnabled enables or disables debug output
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

// DebugPrintln writes a debug message using the platform-specific writer.
// Messages from interrupt context are dropped; use RecordEvent there.
func DebugPrintln(msg string) {
	if debugEnabled && debugPrintln != nil && !inInterrupt() {
		debugPrintln(msg)
	}
}

// RecordEvent captures an event in the ring buffer.
// It does not allocate or take the critical section, so it is safe from
// interrupt handlers and from inside Critical.
func RecordEvent(eventType, id uint8, value1, value2 uint32) {
	idx := (atomic.AddUint32(&eventRingHead, 1) - 1) % EventRingSize
	eventRing[idx] = Event{
		Type:   eventType,
		ID:     id,
		Value1: value1,
		Value2: value2,
	}
}

// Events returns the recorded events, oldest first.
func Events() []Event {
	head := atomic.LoadUint32(&eventRingHead)
	n := head
	if n > EventRingSize {
		n = EventRingSize
	}
	out := make([]Event, 0, n)
	for i := head - n; i != head; i++ {
		out = append(out, eventRing[i%EventRingSize])
	}
	return out
}

// DumpEvents outputs the event ring (call on fault)
func DumpEvents() {
	if debugPrintln == nil {
		return
	}

	debugPrintln("[EVENTS] === Event Ring Dump ===")
	for _, evt := range Events() {
		name := EventName(evt.Type)
		debugPrintln("[EVENTS] " + name +
			" id=" + Itoa(int(evt.ID)) +
			" v1=" + Utoa(evt.Value1) +
			" v2=" + Utoa(evt.Value2))
	}
	debugPrintln("[EVENTS] === End Dump ===")
}

// EventName returns the dump label for an event type.
func EventName(t uint8) string {
	switch t {
	case EvtTake:
		return "TAKE"
	case EvtClockStage:
		return "CLOCK_STAGE"
	case EvtClockFail:
		return "CLOCK_FAIL!"
	case EvtPinMode:
		return "PIN_MODE"
	case EvtButtonIRQ:
		return "BUTTON_IRQ"
	case EvtFault:
		return "FAULT!"
	}
	return "UNKNOWN"
}

// ClearEvents clears the event ring
func ClearEvents() {
	for i := range eventRing {
		eventRing[i] = Event{}
	}
	atomic.StoreUint32(&eventRingHead, 0)
}
