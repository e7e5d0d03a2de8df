package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the browser and blocks until the user quits.
func Run(opts Options) error {
	applyGlyphPreference()
	m := newAppModel(opts)
	defer m.engine.Close()

	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}
