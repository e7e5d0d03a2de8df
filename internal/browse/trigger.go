package browse

import (
	"pokedex-cli/internal/model"

	tea "github.com/charmbracelet/bubbletea"
)

// Visibility is one observation of a sentinel entering or leaving view.
// The UI computes these from its viewport and reports only changes.
type Visibility struct {
	Sentinel string
	Visible  bool
}

// InfiniteScrollTrigger requests the next page when the sentinel (the last
// rendered item) becomes visible. It is armed for at most one sentinel at a
// time and never while a fetch or a deferred parameter change is pending.
type InfiniteScrollTrigger struct {
	params *ParamStore
	loader *ListLoader

	armedFor string
	// visible is the sentinel last reported visible. Arming on a visible
	// sentinel fires at once, as an observer's initial callback would,
	// unless that sentinel already fired: a failed append is not retried
	// until the sentinel is scrolled into view again.
	visible  string
	firedFor string
	released bool

	arms  int
	fires int
}

func NewInfiniteScrollTrigger(params *ParamStore, loader *ListLoader) *InfiniteScrollTrigger {
	return &InfiniteScrollTrigger{params: params, loader: loader}
}

// Armed returns the sentinel the trigger currently observes, or "".
func (t *InfiniteScrollTrigger) Armed() string { return t.armedFor }

// Arms counts how many times the trigger has been armed.
func (t *InfiniteScrollTrigger) Arms() int { return t.arms }

// Fires counts page advances requested.
func (t *InfiniteScrollTrigger) Fires() int { return t.fires }

// Sync reconciles the trigger with the current sentinel and loading status.
// Call it after every update that may change either.
func (t *InfiniteScrollTrigger) Sync(sentinel string) tea.Cmd {
	if t.released {
		return nil
	}
	if sentinel == "" || t.loader.Phase() != Idle || t.params.Pending() {
		t.armedFor = ""
		return nil
	}
	if t.armedFor == sentinel {
		return nil
	}
	t.armedFor = sentinel
	t.arms++
	if t.visible == sentinel && t.firedFor != sentinel {
		return t.fire()
	}
	return nil
}

// OnVisibility handles one visibility change.
func (t *InfiniteScrollTrigger) OnVisibility(ev Visibility) tea.Cmd {
	if t.released {
		return nil
	}
	if !ev.Visible {
		if t.visible == ev.Sentinel {
			t.visible = ""
		}
		return nil
	}
	t.visible = ev.Sentinel
	if t.armedFor == "" || t.armedFor != ev.Sentinel {
		return nil
	}
	return t.fire()
}

// Release detaches the trigger for good; later events are ignored.
func (t *InfiniteScrollTrigger) Release() {
	t.released = true
	t.armedFor = ""
	t.visible = ""
}

func (t *InfiniteScrollTrigger) fire() tea.Cmd {
	st := t.loader.state
	if !st.HasMore() {
		return nil
	}
	sentinel := t.armedFor
	t.armedFor = ""
	t.firedFor = sentinel
	t.fires++
	t.loader.BeginAppend()
	return t.params.Patch(model.PageTo(t.loader.LoadedPage() + 1))
}
