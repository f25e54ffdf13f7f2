package reporter

import (
	"slices"
	"sync"

	"marketdownloader/internal/market"
)

// EventType names a recorded event.
type EventType string

const (
	EventLog       EventType = "log"
	EventStart     EventType = "download_start"
	EventComplete  EventType = "download_complete"
	EventError     EventType = "download_error"
	EventStats     EventType = "stats"
	EventSummary   EventType = "summary"
	EventSeparator EventType = "separator"
)

// Event is one captured call on a Recorder.
type Event struct {
	Type    EventType
	Level   Level
	Ticker  string
	Message string
	Params  market.Params
	Rows    int
	Path    string
	Columns []string
	Err     error
	Summary Summary
}

// Recorder keeps every event in memory, for assertions in tests.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) add(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Events returns a copy of everything recorded so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.events)
}

// Filter returns the events of type t, optionally restricted to one ticker.
func (r *Recorder) Filter(t EventType, ticker string) []Event {
	var out []Event
	for _, e := range r.Events() {
		if e.Type == t && (ticker == "" || e.Ticker == ticker) {
			out = append(out, e)
		}
	}
	return out
}

// Count is len(Filter(t, ticker)).
func (r *Recorder) Count(t EventType, ticker string) int {
	return len(r.Filter(t, ticker))
}

// Types returns the sequence of event types, separators excluded.
func (r *Recorder) Types() []EventType {
	var out []EventType
	for _, e := range r.Events() {
		if e.Type != EventSeparator {
			out = append(out, e.Type)
		}
	}
	return out
}

func (r *Recorder) Log(level Level, msg string) {
	r.add(Event{Type: EventLog, Level: level, Message: msg})
}

func (r *Recorder) DownloadStart(ticker string, params market.Params) {
	r.add(Event{Type: EventStart, Ticker: ticker, Params: params})
}

func (r *Recorder) DownloadComplete(ticker string, rows int, path string) {
	r.add(Event{Type: EventComplete, Ticker: ticker, Rows: rows, Path: path})
}

func (r *Recorder) DownloadError(ticker string, err error) {
	r.add(Event{Type: EventError, Ticker: ticker, Err: err, Message: Reason(err)})
}

func (r *Recorder) DataStats(ticker string, rows int, columns []string) {
	r.add(Event{Type: EventStats, Ticker: ticker, Rows: rows, Columns: slices.Clone(columns)})
}

func (r *Recorder) BatchSummary(s Summary) {
	r.add(Event{Type: EventSummary, Summary: s})
}

func (r *Recorder) Separator() {
	r.add(Event{Type: EventSeparator})
}
