package browse

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
)

// Deps wires an Engine. Source and Toggler are usually the same catalog
// client.
type Deps struct {
	Source  Source
	Toggler Toggler
	Offsets OffsetStore

	// Reporter receives engine events; a LogReporter on Log is always added.
	Reporter Reporter
	Log      zerolog.Logger

	// InitialQuery is the deep-link address, with or without a leading '?'.
	InitialQuery string
	SearchDelay  time.Duration
	Frame        time.Duration
}

// Engine is the assembled list screen state.
type Engine struct {
	Location *Location
	Params   *ParamStore
	Loader   *ListLoader
	Trigger  *InfiniteScrollTrigger
	Mutator  *OptimisticMutator
	Anchor   *ScrollAnchor
	Search   *SearchDebouncer

	unsubscribe []func()
}

func New(d Deps) *Engine {
	rep := MultiReporter(LogReporter{Log: d.Log}, d.Reporter)

	loc := NewLocation(d.InitialQuery)
	params := NewParamStore(loc)
	loader := NewListLoader(d.Source, rep)
	e := &Engine{
		Location: loc,
		Params:   params,
		Loader:   loader,
		Trigger:  NewInfiniteScrollTrigger(params, loader),
		Mutator:  NewOptimisticMutator(loader, d.Toggler, rep),
		Search:   NewSearchDebouncer(params, d.SearchDelay),
	}
	if d.Offsets != nil {
		e.Anchor = NewScrollAnchor(d.Offsets, d.Frame, d.Log)
	}
	e.unsubscribe = append(e.unsubscribe,
		params.Subscribe(loader.OnSnapshot),
		params.Subscribe(e.Search.OnSnapshot),
	)
	return e
}

// Start runs the first fetch cycle.
func (e *Engine) Start() tea.Cmd {
	return e.Params.Publish()
}

// Update routes msg to every component.
func (e *Engine) Update(msg tea.Msg) tea.Cmd {
	cmds := []tea.Cmd{
		e.Params.Update(msg),
		e.Loader.Update(msg),
		e.Mutator.Update(msg),
		e.Search.Update(msg),
	}
	if e.Anchor != nil {
		cmds = append(cmds, e.Anchor.Update(msg))
	}
	return tea.Batch(cmds...)
}

// Refresh refetches the pages the current parameters cover.
func (e *Engine) Refresh() tea.Cmd {
	return e.Loader.Refresh(e.Params.Snapshot())
}

func (e *Engine) Back() tea.Cmd    { return e.Params.Back() }
func (e *Engine) Forward() tea.Cmd { return e.Params.Forward() }

// RestoreOffset reports the offset to scroll to, once, after the first
// initial load settles.
func (e *Engine) RestoreOffset() (int, bool) {
	if e.Anchor == nil {
		return 0, false
	}
	return e.Anchor.OnLoadSettled(e.Loader.Phase() == InitialLoading)
}

// Close detaches observers, releases the trigger, and cancels the in-flight
// fetch.
func (e *Engine) Close() {
	for _, u := range e.unsubscribe {
		u()
	}
	e.unsubscribe = nil
	e.Trigger.Release()
	e.Loader.Close()
}
