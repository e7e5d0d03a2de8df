package browse

import (
	"context"

	"pokedex-cli/internal/model"

	tea "github.com/charmbracelet/bubbletea"
)

// Toggler is the mutation half of the catalog service.
type Toggler interface {
	ToggleCapture(ctx context.Context, name string) (model.ToggleResult, error)
}

type MutationState int

const (
	MutationConfirmed MutationState = iota
	MutationPending
	MutationRolledBack
)

func (s MutationState) String() string {
	switch s {
	case MutationPending:
		return "pending"
	case MutationRolledBack:
		return "rolled-back"
	default:
		return "confirmed"
	}
}

// PendingMutation is a toggle that has been shown locally but not yet
// confirmed. Gen identifies it among toggles of the same item.
type PendingMutation struct {
	Name     string
	Previous bool
	Gen      uint64
}

// ToggleSettledMsg is the service's answer to one toggle.
type ToggleSettledMsg struct {
	Name   string
	Gen    uint64
	Result model.ToggleResult
	Err    error
}

// MutationFailedMsg tells the UI a toggle was rolled back.
type MutationFailedMsg struct {
	Err *MutationFailure
}

// OptimisticMutator flips an item's captured flag locally, then asks the
// service to do the same. Only the most recent toggle of an item decides the
// final local value; earlier settlements are ignored.
type OptimisticMutator struct {
	loader  *ListLoader
	toggler Toggler
	rep     Reporter

	gens    map[string]uint64
	pending map[string]PendingMutation
	settled map[string]MutationState
}

func NewOptimisticMutator(loader *ListLoader, toggler Toggler, rep Reporter) *OptimisticMutator {
	if rep == nil {
		rep = nopReporter{}
	}
	return &OptimisticMutator{
		loader:  loader,
		toggler: toggler,
		rep:     rep,
		gens:    map[string]uint64{},
		pending: map[string]PendingMutation{},
		settled: map[string]MutationState{},
	}
}

// Toggle flips name's captured flag in the list before returning and
// dispatches the confirmation. Unknown names are ignored.
func (m *OptimisticMutator) Toggle(name string) tea.Cmd {
	it, ok := m.loader.Item(name)
	if !ok {
		return nil
	}
	m.gens[name]++
	pm := PendingMutation{Name: name, Previous: it.Captured, Gen: m.gens[name]}
	m.pending[name] = pm
	m.loader.PatchItem(name, func(it model.Item) model.Item {
		it.Captured = !pm.Previous
		return it
	})

	toggler := m.toggler
	return func() tea.Msg {
		res, err := toggler.ToggleCapture(context.Background(), name)
		return ToggleSettledMsg{Name: name, Gen: pm.Gen, Result: res, Err: err}
	}
}

// State reports where name's latest toggle stands.
func (m *OptimisticMutator) State(name string) MutationState {
	if _, ok := m.pending[name]; ok {
		return MutationPending
	}
	return m.settled[name]
}

// Pending returns the unconfirmed toggle for name, if any.
func (m *OptimisticMutator) Pending(name string) (PendingMutation, bool) {
	pm, ok := m.pending[name]
	return pm, ok
}

func (m *OptimisticMutator) Update(msg tea.Msg) tea.Cmd {
	s, ok := msg.(ToggleSettledMsg)
	if !ok {
		return nil
	}
	if s.Gen != m.gens[s.Name] {
		m.rep.Report(Event{Kind: EventMutationSuperseded, Name: s.Name, Err: s.Err})
		return nil
	}
	pm := m.pending[s.Name]
	delete(m.pending, s.Name)

	if s.Err != nil {
		m.settled[s.Name] = MutationRolledBack
		m.loader.PatchItem(s.Name, func(it model.Item) model.Item {
			it.Captured = pm.Previous
			return it
		})
		mf := &MutationFailure{Name: s.Name, Err: s.Err}
		m.rep.Report(Event{Kind: EventMutationFailed, Name: s.Name, Err: mf})
		return func() tea.Msg { return MutationFailedMsg{Err: mf} }
	}

	m.settled[s.Name] = MutationConfirmed
	if c := s.Result.Captured; c != nil {
		// The service flips rather than sets; its answer is authoritative
		// when an earlier toggle of the same item failed.
		m.loader.PatchItem(s.Name, func(it model.Item) model.Item {
			it.Captured = *c
			return it
		})
	}
	m.rep.Report(Event{Kind: EventMutationConfirmed, Name: s.Name})
	return nil
}
