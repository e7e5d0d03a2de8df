package browse

import (
	"context"
	"fmt"
	"slices"

	"pokedex-cli/internal/model"

	tea "github.com/charmbracelet/bubbletea"
)

// Phase is the loader's loading status.
type Phase int

const (
	Idle Phase = iota
	InitialLoading
	AppendLoading
)

func (p Phase) String() string {
	switch p {
	case InitialLoading:
		return "initial-loading"
	case AppendLoading:
		return "append-loading"
	default:
		return "idle"
	}
}

// ListState is the accumulated collection. Items are unique by name, in
// page-arrival order.
type ListState struct {
	Items []model.Item
	Total int
	Phase Phase

	// Exhausted stops further appends: an append page contributed no new
	// items (the service reports more than it serves), or an initial fetch
	// failed and the kept items belong to earlier parameters.
	Exhausted bool
}

func (s ListState) InitialLoading() bool { return s.Phase == InitialLoading }
func (s ListState) AppendLoading() bool  { return s.Phase == AppendLoading }
func (s ListState) Loading() bool        { return s.Phase != Idle }

// HasMore reports whether another page can be requested.
func (s ListState) HasMore() bool {
	return !s.Exhausted && len(s.Items) < s.Total
}

// Source is the list half of the catalog service.
type Source interface {
	List(ctx context.Context, req model.ListRequest) (model.Page, error)
}

// PageLoadedMsg is the settlement of one fetch cycle.
type PageLoadedMsg struct {
	Seq     uint64
	Rev     uint64
	Params  model.QueryParams
	Request model.ListRequest
	Initial bool
	Page    model.Page
	Err     error
}

// FetchFailedMsg tells the UI that the latest fetch cycle failed.
type FetchFailedMsg struct {
	Err *FetchFailure
}

// ListLoader turns parameter snapshots into fetch cycles and owns the
// resulting ListState. Only the most recent cycle may be merged.
type ListLoader struct {
	src Source
	rep Reporter

	state ListState
	index map[string]int

	seq    uint64
	cancel context.CancelFunc

	// loadedPage is the last page merged into the list.
	loadedPage int

	// spanNext makes the next cycle fetch pages 1..N in one request; it is
	// set at mount for deep links.
	spanNext bool
}

func NewListLoader(src Source, rep Reporter) *ListLoader {
	if rep == nil {
		rep = nopReporter{}
	}
	return &ListLoader{
		src:      src,
		rep:      rep,
		index:    map[string]int{},
		spanNext: true,
	}
}

// State returns a copy of the list state; the loader keeps ownership.
func (l *ListLoader) State() ListState {
	st := l.state
	st.Items = slices.Clone(l.state.Items)
	return st
}

func (l *ListLoader) Phase() Phase { return l.state.Phase }
func (l *ListLoader) Len() int     { return len(l.state.Items) }
func (l *ListLoader) Total() int   { return l.state.Total }

// At returns the item at row i.
func (l *ListLoader) At(i int) (model.Item, bool) {
	if i < 0 || i >= len(l.state.Items) {
		return model.Item{}, false
	}
	return l.state.Items[i], true
}

func (l *ListLoader) Item(name string) (model.Item, bool) {
	i, ok := l.index[name]
	if !ok {
		return model.Item{}, false
	}
	return l.state.Items[i], true
}

// LoadedPage is the last page merged into the list; the next append
// requests LoadedPage()+1.
func (l *ListLoader) LoadedPage() int { return l.loadedPage }

// Seq is the sequence number of the latest fetch cycle.
func (l *ListLoader) Seq() uint64 { return l.seq }

// OnSnapshot starts one fetch cycle for s. It is the loader's ParamStore
// observer. A replacing snapshot is loaded like a deep link: the pages it
// covers are fetched in one request and replace the list.
func (l *ListLoader) OnSnapshot(s Snapshot) tea.Cmd {
	span := l.spanNext || s.Replace
	l.spanNext = false
	return l.start(s, span)
}

// Refresh refetches everything the current snapshot covers (pages 1..N)
// in one request, replacing the list.
func (l *ListLoader) Refresh(s Snapshot) tea.Cmd {
	return l.start(s, true)
}

// BeginAppend shows the append indicator before the page patch lands.
func (l *ListLoader) BeginAppend() {
	if l.state.Phase == Idle {
		l.state.Phase = AppendLoading
	}
}

// PatchItem replaces one item in place. Order, total, and loading status are
// untouched. It reports whether the item is loaded.
func (l *ListLoader) PatchItem(name string, fn func(model.Item) model.Item) bool {
	i, ok := l.index[name]
	if !ok {
		return false
	}
	next := fn(l.state.Items[i])
	// The natural key is not patchable.
	next.Name = name
	l.state.Items[i] = next
	return true
}

// Close cancels the in-flight request, if any.
func (l *ListLoader) Close() {
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
}

func (l *ListLoader) start(s Snapshot, span bool) tea.Cmd {
	q := s.Params
	req := q.Request()
	initial := q.Page <= 1
	if span && q.Page > 1 {
		req.Page = 1
		req.Limit = q.Page * q.Limit
		initial = true
	}
	if initial {
		l.state.Phase = InitialLoading
	} else {
		l.state.Phase = AppendLoading
	}

	// The previous request can no longer win; cancel it where the transport
	// allows. Its result is still discarded by seq if it arrives anyway.
	l.Close()
	ctx, cancel := context.WithCancel(context.Background())
	l.cancel = cancel

	l.seq++
	seq := l.seq
	src := l.src
	return func() tea.Msg {
		defer cancel()
		page, err := src.List(ctx, req)
		return PageLoadedMsg{
			Seq:     seq,
			Rev:     s.Rev,
			Params:  q,
			Request: req,
			Initial: initial,
			Page:    page,
			Err:     err,
		}
	}
}

func (l *ListLoader) Update(msg tea.Msg) tea.Cmd {
	m, ok := msg.(PageLoadedMsg)
	if !ok {
		return nil
	}
	if m.Seq != l.seq {
		l.rep.Report(Event{Kind: EventStaleDiscarded, Seq: m.Seq, Err: ErrStaleResponse})
		return nil
	}

	// This is the latest cycle: whatever happens below, it settles here.
	l.cancel = nil
	l.state.Phase = Idle

	if m.Err != nil {
		if m.Initial {
			// The kept items belong to the previous parameters; appending
			// pages of the new ones to them would mix two result sets.
			l.state.Exhausted = true
		}
		ff := &FetchFailure{Params: m.Params, Request: m.Request, Err: m.Err}
		l.rep.Report(Event{Kind: EventFetchFailed, Seq: m.Seq, Err: ff})
		return func() tea.Msg { return FetchFailedMsg{Err: ff} }
	}

	items, added := MergeItems(l.state.Items, m.Page.Items, m.Initial)
	if len(items) > m.Page.Total {
		err := fmt.Errorf("%w: merged %d items exceeds total %d", ErrStaleResponse, len(items), m.Page.Total)
		l.rep.Report(Event{Kind: EventStaleDiscarded, Seq: m.Seq, Err: err})
		return nil
	}

	l.state.Items = items
	l.state.Total = m.Page.Total
	l.state.Exhausted = !m.Initial && added == 0
	l.loadedPage = m.Params.Page
	l.reindex()
	l.rep.Report(Event{Kind: EventFetchSucceeded, Seq: m.Seq, Items: len(items), Total: m.Page.Total})
	return nil
}

func (l *ListLoader) reindex() {
	clear(l.index)
	for i, it := range l.state.Items {
		l.index[it.Name] = i
	}
}

// MergeItems merges a page into prior. With replace, the page becomes the
// collection; otherwise only names not already present are appended. Merging
// the same page twice is a no-op. It returns the merged slice and how many
// items were added.
func MergeItems(prior, page []model.Item, replace bool) ([]model.Item, int) {
	if replace {
		out := make([]model.Item, 0, len(page))
		seen := make(map[string]struct{}, len(page))
		for _, it := range page {
			if _, dup := seen[it.Name]; dup {
				continue
			}
			seen[it.Name] = struct{}{}
			out = append(out, it)
		}
		return out, len(out)
	}

	seen := make(map[string]struct{}, len(prior)+len(page))
	for _, it := range prior {
		seen[it.Name] = struct{}{}
	}
	out := slices.Clip(slices.Clone(prior))
	added := 0
	for _, it := range page {
		if _, dup := seen[it.Name]; dup {
			continue
		}
		seen[it.Name] = struct{}{}
		out = append(out, it)
		added++
	}
	return out, added
}
