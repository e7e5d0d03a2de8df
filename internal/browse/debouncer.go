package browse

import (
	"time"

	"pokedex-cli/internal/model"

	tea "github.com/charmbracelet/bubbletea"
)

const DefaultSearchDelay = 500 * time.Millisecond

// SearchDebounceMsg is the timer for one keystroke.
type SearchDebounceMsg struct {
	Seq uint64
}

// SearchDebouncer holds the search box's local value and commits it to the
// ParamStore once typing pauses.
type SearchDebouncer struct {
	params *ParamStore
	delay  time.Duration

	local     string
	committed string
	seq       uint64
}

func NewSearchDebouncer(params *ParamStore, delay time.Duration) *SearchDebouncer {
	if delay <= 0 {
		delay = DefaultSearchDelay
	}
	cur := params.Read().Search
	return &SearchDebouncer{params: params, delay: delay, local: cur, committed: cur}
}

// Value is the local (possibly uncommitted) search text.
func (d *SearchDebouncer) Value() string { return d.local }

// Input records a keystroke and restarts the timer.
func (d *SearchDebouncer) Input(s string) tea.Cmd {
	d.local = s
	d.seq++
	seq := d.seq
	return tea.Tick(d.delay, func(time.Time) tea.Msg { return SearchDebounceMsg{Seq: seq} })
}

// Sync adopts a committed value that changed elsewhere (history navigation).
// Any pending timer is invalidated and nothing is committed.
func (d *SearchDebouncer) Sync(committed string) {
	d.seq++
	d.local = committed
	d.committed = committed
}

// OnSnapshot keeps the debouncer in step with the store. It never returns a
// command.
func (d *SearchDebouncer) OnSnapshot(s Snapshot) tea.Cmd {
	if s.Params.Search != d.committed {
		d.Sync(s.Params.Search)
	}
	return nil
}

func (d *SearchDebouncer) Update(msg tea.Msg) tea.Cmd {
	m, ok := msg.(SearchDebounceMsg)
	if !ok || m.Seq != d.seq {
		return nil
	}
	if d.local == d.params.Read().Search {
		d.committed = d.local
		return nil
	}
	d.committed = d.local
	return d.params.Patch(model.Patch{model.KeySearch: d.local})
}
