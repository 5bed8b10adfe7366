package progress

import (
	"fmt"
	"io"
	"log"
	"sync"
)

// Event is a snapshot of sampling progress, emitted after each raster row.
type Event struct {
	Found   int `json:"found"`   // seeds accepted so far, including resumed ones
	Goal    int `json:"goal"`    // target seed count
	Pass    int `json:"pass"`    // 1-based raster pass number
	Percent int `json:"percent"` // 100*Found/Goal, truncated
}

// NewEvent builds an Event and fills in Percent.
func NewEvent(found, goal, pass int) Event {
	pct := 0
	if goal > 0 {
		pct = 100 * found / goal
	}
	return Event{Found: found, Goal: goal, Pass: pass, Percent: pct}
}

// Sink receives progress events. Implementations must not block the caller
// for long; sampling waits for Report to return.
type Sink interface {
	Report(ev Event)
}

// SinkFunc adapts an ordinary function to the Sink interface.
type SinkFunc func(ev Event)

// Report calls f(ev).
func (f SinkFunc) Report(ev Event) { f(ev) }

// Discard is a Sink that drops every event.
var Discard Sink = SinkFunc(func(Event) {})

// Writer renders events as a single self-overwriting terminal line.
type Writer struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriter returns a Sink printing "\rFound n/g points (p%)" to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Report implements Sink.
func (w *Writer) Report(ev Event) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fmt.Fprintf(w.w, "\rFound %d/%d points (%d%%)", ev.Found, ev.Goal, ev.Percent)
}

// Finish terminates the progress line.
func (w *Writer) Finish() {
	w.mu.Lock()
	defer w.mu.Unlock()
	fmt.Fprintln(w.w)
}

type logSink struct {
	l *log.Logger
}

// NewLogger returns a Sink that writes one log line per event.
func NewLogger(l *log.Logger) Sink {
	return logSink{l: l}
}

func (s logSink) Report(ev Event) {
	s.l.Printf("pass %d: found %d/%d points (%d%%)", ev.Pass, ev.Found, ev.Goal, ev.Percent)
}

// Multi fans every event out to all non-nil sinks in order.
func Multi(sinks ...Sink) Sink {
	var live []Sink
	for _, s := range sinks {
		if s != nil {
			live = append(live, s)
		}
	}
	return SinkFunc(func(ev Event) {
		for _, s := range live {
			s.Report(ev)
		}
	})
}
