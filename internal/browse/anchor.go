package browse

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// DefaultFrame is the scroll recording interval, one display frame.
const DefaultFrame = 16 * time.Millisecond

// OffsetStore persists the list offset for the session.
type OffsetStore interface {
	ScrollOffset() (int, bool, error)
	SetScrollOffset(int) error
}

// AnchorFlushMsg writes the offset recorded since the last write.
type AnchorFlushMsg struct{}

// AnchorSavedMsg reports the end of one offset write.
type AnchorSavedMsg struct {
	Offset int
	Err    error
}

// ScrollAnchor records the list offset as the user scrolls and restores it
// once, after the first initial load settles. Writes run as commands, one at
// a time; an offset recorded meanwhile is written when the current one ends.
type ScrollAnchor struct {
	store   OffsetStore
	log     zerolog.Logger
	limiter *rate.Limiter
	frame   time.Duration
	now     func() time.Time

	last      int
	dirty     bool
	scheduled bool
	inflight  bool

	sawInitial bool
	restored   bool
}

func NewScrollAnchor(store OffsetStore, frame time.Duration, log zerolog.Logger) *ScrollAnchor {
	if frame <= 0 {
		frame = DefaultFrame
	}
	return &ScrollAnchor{
		store:   store,
		log:     log,
		limiter: rate.NewLimiter(rate.Every(frame), 1),
		frame:   frame,
		now:     time.Now,
	}
}

// Record notes offset. At most one write starts per frame; if this one is
// throttled, a flush command is returned so the final offset still lands.
func (a *ScrollAnchor) Record(offset int) tea.Cmd {
	if a.store == nil {
		return nil
	}
	a.last = offset
	a.dirty = true
	if a.limiter.AllowN(a.now(), 1) {
		return a.write()
	}
	if a.scheduled {
		return nil
	}
	a.scheduled = true
	return tea.Tick(a.frame, func(time.Time) tea.Msg { return AnchorFlushMsg{} })
}

func (a *ScrollAnchor) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case AnchorFlushMsg:
		a.scheduled = false
		if a.dirty {
			return a.write()
		}
	case AnchorSavedMsg:
		a.inflight = false
		if msg.Err != nil {
			a.log.Warn().Err(msg.Err).Int("offset", msg.Offset).Msg("save scroll offset")
		}
		if a.dirty && !a.scheduled {
			return a.write()
		}
	}
	return nil
}

// OnLoadSettled is called with the loader's initial-loading status after
// every update. It returns the stored offset exactly once: on the first
// transition out of an initial load.
func (a *ScrollAnchor) OnLoadSettled(initialLoading bool) (int, bool) {
	if initialLoading {
		a.sawInitial = true
		return 0, false
	}
	if !a.sawInitial || a.restored || a.store == nil {
		return 0, false
	}
	a.restored = true
	off, ok, err := a.store.ScrollOffset()
	if err != nil {
		a.log.Warn().Err(err).Msg("read scroll offset")
		return 0, false
	}
	return off, ok
}

// Writing reports whether an offset write is in flight.
func (a *ScrollAnchor) Writing() bool { return a.inflight }

func (a *ScrollAnchor) write() tea.Cmd {
	if a.inflight {
		return nil
	}
	a.inflight = true
	a.dirty = false
	store, off := a.store, a.last
	return func() tea.Msg {
		return AnchorSavedMsg{Offset: off, Err: store.SetScrollOffset(off)}
	}
}
