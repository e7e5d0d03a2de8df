package tui

type focus int

const (
	focusList focus = iota
	focusSearch
)

type typesLoadedMsg struct {
	types []string
	err   error
}

type flashDoneMsg struct{ seq int }

// restoreStepMsg advances the smooth scroll back to the saved offset.
type restoreStepMsg struct{ seq int }
