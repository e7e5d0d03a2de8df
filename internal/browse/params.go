// Package browse is the client-side list engine: canonical query state, the
// paged loader, infinite scroll, optimistic capture toggles, scroll restore,
// and search debouncing.
//
// Every type here is driven from a single bubbletea Update loop and holds no
// locks. Network work is returned as tea.Cmd values whose results come back
// as messages; stale results are recognised by sequence numbers on arrival.
package browse

import (
	"pokedex-cli/internal/model"

	tea "github.com/charmbracelet/bubbletea"
)

// Snapshot is one published version of the query parameters.
type Snapshot struct {
	Rev    uint64
	Params model.QueryParams

	// Replace marks a snapshot that swaps the parameters wholesale (history
	// navigation). The list it describes is rebuilt from page 1.
	Replace bool
}

// Priority is the scheduling class of a patch.
type Priority int

const (
	// PriorityImmediate patches notify observers synchronously. Pagination
	// comes from a scroll event and must not be visually delayed.
	PriorityImmediate Priority = iota
	// PriorityDeferred patches are delivered through the message queue and
	// may be superseded by a later patch before observers see them.
	PriorityDeferred
)

func PriorityOf(p model.Patch) Priority {
	if p.PageOnly() {
		return PriorityImmediate
	}
	return PriorityDeferred
}

// ParamsFlushMsg delivers a deferred patch to observers.
type ParamsFlushMsg struct {
	Rev uint64
}

// Observer is notified with each distinct snapshot; the returned command is
// batched into the caller's Update result.
type Observer func(Snapshot) tea.Cmd

// ParamStore owns the query parameters. It is the only writer of the
// Location and the only source of snapshots.
type ParamStore struct {
	loc *Location

	cur  model.QueryParams
	rev  uint64
	sent uint64

	// lastSent is the params of the last snapshot delivered to observers;
	// a flush that would deliver equal params is skipped.
	lastSent model.QueryParams
	hasSent  bool

	observers []observerEntry
	nextID    int
}

type observerEntry struct {
	id int
	fn Observer
}

func NewParamStore(loc *Location) *ParamStore {
	return &ParamStore{
		loc: loc,
		cur: model.ParseQuery(loc.Current()),
		rev: 1,
	}
}

func (s *ParamStore) Read() model.QueryParams { return s.cur }

func (s *ParamStore) Snapshot() Snapshot {
	return Snapshot{Rev: s.rev, Params: s.cur}
}

func (s *ParamStore) Location() *Location { return s.loc }

// Pending reports whether a deferred patch has not reached observers yet.
func (s *ParamStore) Pending() bool {
	return s.hasSent && s.sent != s.rev
}

// Subscribe registers fn and returns a function that removes it.
func (s *ParamStore) Subscribe(fn Observer) func() {
	s.nextID++
	id := s.nextID
	s.observers = append(s.observers, observerEntry{id: id, fn: fn})
	return func() {
		for i, o := range s.observers {
			if o.id == id {
				s.observers = append(s.observers[:i:i], s.observers[i+1:]...)
				return
			}
		}
	}
}

// Publish delivers the current snapshot to observers as the first cycle
// after mount.
func (s *ParamStore) Publish() tea.Cmd {
	return s.flush(false, false)
}

// Patch merges p over the current parameters and updates the address
// synchronously. Page-only patches reach observers before Patch returns;
// everything else is deferred and coalesced with later patches.
func (s *ParamStore) Patch(p model.Patch) tea.Cmd {
	s.cur = s.cur.Apply(p)
	s.rev++

	if PriorityOf(p) == PriorityImmediate {
		// Scrolling deeper is not worth a history entry of its own.
		s.loc.Replace(s.cur.Encode())
		return s.flush(true, false)
	}
	s.loc.Push(s.cur.Encode())
	rev := s.rev
	return func() tea.Msg { return ParamsFlushMsg{Rev: rev} }
}

// Back and Forward move through the address history; the resulting address
// replaces the parameters wholesale and is delivered immediately.
func (s *ParamStore) Back() tea.Cmd {
	raw, ok := s.loc.Back()
	if !ok {
		return nil
	}
	return s.navigated(raw)
}

func (s *ParamStore) Forward() tea.Cmd {
	raw, ok := s.loc.Forward()
	if !ok {
		return nil
	}
	return s.navigated(raw)
}

// Navigate replaces the address with an externally supplied query string.
func (s *ParamStore) Navigate(raw string) tea.Cmd {
	s.loc.Push(canonical(raw))
	return s.navigated(s.loc.Current())
}

func (s *ParamStore) navigated(raw string) tea.Cmd {
	s.cur = model.ParseQuery(raw)
	s.rev++
	return s.flush(false, true)
}

func (s *ParamStore) Update(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(ParamsFlushMsg); ok {
		if msg.Rev != s.rev {
			// Superseded by a later patch, which delivers (or delivered) its own snapshot.
			return nil
		}
		return s.flush(false, false)
	}
	return nil
}

// flush delivers the current snapshot. Unless force is set, a snapshot whose
// params equal the last delivered ones is skipped. Page patches force, so
// re-requesting a page whose fetch failed starts a new cycle. Replace is
// passed through to observers.
func (s *ParamStore) flush(force, replace bool) tea.Cmd {
	if s.hasSent && s.sent == s.rev {
		return nil
	}
	s.sent = s.rev
	if !force && s.hasSent && s.lastSent == s.cur {
		return nil
	}
	s.hasSent = true
	s.lastSent = s.cur

	snap := s.Snapshot()
	snap.Replace = replace
	cmds := make([]tea.Cmd, 0, len(s.observers))
	for _, o := range append([]observerEntry(nil), s.observers...) {
		cmds = append(cmds, o.fn(snap))
	}
	return tea.Batch(cmds...)
}
