package browse

import (
	"github.com/rs/zerolog"
)

// EventKind classifies what the engine reports to its observability sink.
type EventKind string

const (
	EventFetchSucceeded     EventKind = "fetch_succeeded"
	EventFetchFailed        EventKind = "fetch_failed"
	EventStaleDiscarded     EventKind = "stale_discarded"
	EventMutationConfirmed  EventKind = "mutation_confirmed"
	EventMutationFailed     EventKind = "mutation_failed"
	EventMutationSuperseded EventKind = "mutation_superseded"
)

type Event struct {
	Kind EventKind
	// Seq is the fetch cycle for fetch events.
	Seq uint64
	// Name is the item for mutation events.
	Name  string
	Items int
	Total int
	Err   error
}

// Reporter receives engine events. Implementations must not call back into
// the engine.
type Reporter interface {
	Report(Event)
}

type ReporterFunc func(Event)

func (f ReporterFunc) Report(ev Event) { f(ev) }

// MultiReporter fans one event out to several sinks.
func MultiReporter(rs ...Reporter) Reporter {
	out := make([]Reporter, 0, len(rs))
	for _, r := range rs {
		if r != nil {
			out = append(out, r)
		}
	}
	return ReporterFunc(func(ev Event) {
		for _, r := range out {
			r.Report(ev)
		}
	})
}

// LogReporter writes events to a zerolog logger.
type LogReporter struct {
	Log zerolog.Logger
}

func (r LogReporter) Report(ev Event) {
	var e *zerolog.Event
	switch ev.Kind {
	case EventFetchFailed, EventMutationFailed:
		e = r.Log.Error()
	case EventStaleDiscarded, EventMutationSuperseded:
		e = r.Log.Debug()
	default:
		e = r.Log.Info()
	}
	if ev.Seq != 0 {
		e = e.Uint64("seq", ev.Seq)
	}
	if ev.Name != "" {
		e = e.Str("name", ev.Name)
	}
	if ev.Kind == EventFetchSucceeded {
		e = e.Int("items", ev.Items).Int("total", ev.Total)
	}
	if ev.Err != nil {
		e = e.Err(ev.Err)
	}
	e.Msg(string(ev.Kind))
}

type nopReporter struct{}

func (nopReporter) Report(Event) {}
