package tui

import (
	"fmt"
	"strconv"
	"time"

	"pokedex-cli/internal/browse"
	"pokedex-cli/internal/model"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Engine messages (page loads, flushes, debounce timers, toggle
	// settlements) are routed first; handle only adds UI effects.
	engineCmd := m.engine.Update(msg)
	cmd := m.handle(msg)
	rc := m.reconcile()
	return m, tea.Batch(engineCmd, cmd, rc)
}

func (m *appModel) handle(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return cmd

	case typesLoadedMsg:
		if msg.err != nil {
			m.typesErr = msg.err
			m.log.Warn().Err(msg.err).Msg("load types")
			return m.showFlash("Could not load types: "+msg.err.Error(), true)
		}
		m.types = msg.types
		return nil

	case browse.PageLoadedMsg:
		if msg.Err == nil && msg.Initial && msg.Seq == m.engine.Loader.Seq() {
			// New filters start at the top; a refresh keeps the position.
			reset := msg.Params.Filters() != m.shownFilters
			m.shownFilters = msg.Params.Filters()
			if reset {
				m.cursor = 0
				return m.setOffset(0)
			}
		}
		return nil

	case browse.FetchFailedMsg:
		return m.showFlash("Failed to load: "+msg.Err.Err.Error(), true)

	case browse.MutationFailedMsg:
		return m.showFlash(fmt.Sprintf("Could not update %s: %v", msg.Err.Name, msg.Err.Err), true)

	case clipboardMsg:
		if msg.err != nil {
			return m.showFlash("Copy failed: "+msg.err.Error(), true)
		}
		return m.showFlash("Copied "+msg.text, false)

	case flashDoneMsg:
		if msg.seq == m.flashSeq {
			m.flash = ""
			m.flashErr = false
		}
		return nil

	case restoreStepMsg:
		return m.restoreStep(msg)

	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress {
			return nil
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.restoreSeq++
			return m.scrollBy(-3)
		case tea.MouseButtonWheelDown:
			m.restoreSeq++
			return m.scrollBy(3)
		}
		return nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return nil
}

func (m *appModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.focus == focusSearch {
		if msg.Type == tea.KeyCtrlC {
			return tea.Quit
		}
		if key.Matches(msg, m.keys.Blur) {
			m.focus = focusList
			m.search.Blur()
			return nil
		}
		before := m.search.Value()
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		if v := m.search.Value(); v != before {
			return tea.Batch(cmd, m.engine.Search.Input(v))
		}
		return cmd
	}

	// Any navigation by the user wins over a pending scroll restore.
	m.restoreSeq++

	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Up):
		return m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		return m.moveCursor(1)
	case key.Matches(msg, m.keys.PageUp):
		return m.moveCursor(-m.listRows())
	case key.Matches(msg, m.keys.PageDown):
		return m.moveCursor(m.listRows())
	case key.Matches(msg, m.keys.Top):
		return m.moveCursor(-m.engine.Loader.Len())
	case key.Matches(msg, m.keys.Bottom):
		return m.moveCursor(m.engine.Loader.Len())
	case key.Matches(msg, m.keys.Search):
		m.focus = focusSearch
		return m.search.Focus()
	case key.Matches(msg, m.keys.Toggle):
		if it, ok := m.engine.Loader.At(m.cursor); ok {
			return m.engine.Mutator.Toggle(it.Name)
		}
		return nil
	case key.Matches(msg, m.keys.Type):
		return m.engine.Params.Patch(model.Patch{model.KeyType: m.nextType()})
	case key.Matches(msg, m.keys.Capture):
		next := (m.engine.Params.Read().Captured + 1) % 3
		return m.engine.Params.Patch(model.Patch{model.KeyCaptured: next.String()})
	case key.Matches(msg, m.keys.Sort):
		p := nextSort(m.engine.Params.Read())
		return m.engine.Params.Patch(model.Patch{model.KeySortBy: string(p.SortBy), model.KeyOrder: string(p.Order)})
	case key.Matches(msg, m.keys.Limit):
		return m.engine.Params.Patch(model.Patch{model.KeyLimit: strconv.Itoa(nextLimit(m.engine.Params.Read().Limit))})
	case key.Matches(msg, m.keys.Clear):
		return m.engine.Params.Patch(model.Patch{
			model.KeySearch:   "",
			model.KeyType:     "",
			model.KeyCaptured: "",
			model.KeySortBy:   "",
			model.KeyOrder:    "",
		})
	case key.Matches(msg, m.keys.Refresh):
		return m.engine.Refresh()
	case key.Matches(msg, m.keys.Back):
		return m.engine.Back()
	case key.Matches(msg, m.keys.Forward):
		return m.engine.Forward()
	case key.Matches(msg, m.keys.Detail):
		m.showDetail = !m.showDetail
		return nil
	case key.Matches(msg, m.keys.Copy):
		if it, ok := m.engine.Loader.At(m.cursor); ok {
			return copyCmd(it.Name, m.copy)
		}
		return nil
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return nil
	}
	return nil
}

func (m *appModel) nextType() string {
	cur := m.engine.Params.Read().Type
	opts := append([]string{""}, m.types...)
	for i, t := range opts {
		if t == cur {
			return opts[(i+1)%len(opts)]
		}
	}
	return ""
}

func nextSort(q model.QueryParams) model.SortPreset {
	for i, p := range model.SortPresets {
		if p.SortBy == q.SortBy && p.Order == q.Order {
			return model.SortPresets[(i+1)%len(model.SortPresets)]
		}
	}
	return model.SortPresets[0]
}

func nextLimit(cur int) int {
	for i, n := range model.LimitPresets {
		if n == cur {
			return model.LimitPresets[(i+1)%len(model.LimitPresets)]
		}
	}
	return model.DefaultLimit
}

func (m *appModel) showFlash(text string, isErr bool) tea.Cmd {
	m.flash = text
	m.flashErr = isErr
	m.flashSeq++
	seq := m.flashSeq
	return tea.Tick(m.flashFor, func(time.Time) tea.Msg { return flashDoneMsg{seq: seq} })
}

// moveCursor moves the selection and scrolls just enough to keep it in view.
func (m *appModel) moveCursor(delta int) tea.Cmd {
	n := m.engine.Loader.Len()
	if n == 0 {
		return nil
	}
	m.cursor = clamp(m.cursor+delta, 0, n-1)
	rows := m.listRows()
	off := m.offset
	if m.cursor < off {
		off = m.cursor
	}
	if rows > 0 && m.cursor >= off+rows {
		off = m.cursor - rows + 1
	}
	return m.setOffset(off)
}

// scrollBy moves the viewport, dragging the selection along when it would
// leave the screen.
func (m *appModel) scrollBy(delta int) tea.Cmd {
	cmd := m.setOffset(m.offset + delta)
	rows := m.listRows()
	if m.cursor < m.offset {
		m.cursor = m.offset
	}
	if rows > 0 && m.cursor >= m.offset+rows {
		m.cursor = m.offset + rows - 1
	}
	return cmd
}

func (m *appModel) setOffset(off int) tea.Cmd {
	off = clamp(off, 0, m.maxOffset())
	if off == m.offset {
		return nil
	}
	m.offset = off
	if m.engine.Anchor == nil {
		return nil
	}
	return m.engine.Anchor.Record(off)
}

func (m *appModel) restoreStep(msg restoreStepMsg) tea.Cmd {
	if msg.seq != m.restoreSeq {
		return nil
	}
	target := clamp(m.restoreTarget, 0, m.maxOffset())
	diff := target - m.offset
	if diff == 0 {
		return nil
	}
	// Ease out: cover a third of the remaining distance per frame.
	step := diff / 3
	if step == 0 {
		step = sign(diff)
	}
	cmd := m.scrollBy(step)
	seq := m.restoreSeq
	return tea.Batch(cmd, tea.Tick(m.frame, func(time.Time) tea.Msg { return restoreStepMsg{seq: seq} }))
}

// reconcile runs after every update: it keeps the viewport valid, starts the
// scroll restore, and feeds the scroll trigger the current sentinel and its
// visibility.
func (m *appModel) reconcile() tea.Cmd {
	n := m.engine.Loader.Len()
	m.cursor = clamp(m.cursor, 0, max(n-1, 0))
	m.offset = clamp(m.offset, 0, m.maxOffset())

	var cmds []tea.Cmd
	if off, ok := m.engine.RestoreOffset(); ok && off > 0 {
		m.restoreTarget = off
		m.restoreSeq++
		seq := m.restoreSeq
		cmds = append(cmds, tea.Tick(m.restoreDelay, func(time.Time) tea.Msg { return restoreStepMsg{seq: seq} }))
	}

	sentinel := ""
	if it, ok := m.engine.Loader.At(n - 1); ok {
		sentinel = it.Name
	}
	cmds = append(cmds, m.engine.Trigger.Sync(sentinel))

	vis := browse.Visibility{Sentinel: sentinel, Visible: sentinel != "" && m.rowVisible(n-1)}
	if vis != m.lastVis {
		if m.lastVis.Visible && m.lastVis.Sentinel != vis.Sentinel {
			cmds = append(cmds, m.engine.Trigger.OnVisibility(browse.Visibility{Sentinel: m.lastVis.Sentinel}))
		}
		m.lastVis = vis
		if vis.Sentinel != "" {
			cmds = append(cmds, m.engine.Trigger.OnVisibility(vis))
		}
	}

	// History navigation resyncs the debouncer; mirror it into the box.
	if v := m.engine.Search.Value(); v != m.search.Value() {
		m.search.SetValue(v)
	}
	return tea.Batch(cmds...)
}

func (m *appModel) maxOffset() int {
	return max(m.engine.Loader.Len()-m.listRows(), 0)
}

func (m *appModel) rowVisible(i int) bool {
	rows := m.listRows()
	return rows > 0 && i >= m.offset && i < m.offset+rows
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func sign(v int) int {
	if v < 0 {
		return -1
	}
	return 1
}
