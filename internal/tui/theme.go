package tui

import "github.com/charmbracelet/lipgloss"

// Colors adapt to light and dark terminal backgrounds; faint text is only
// used on dark backgrounds, where it stays legible.

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

func faintIfDark(st lipgloss.Style) lipgloss.Style {
	if lipgloss.HasDarkBackground() {
		return st.Faint(true)
	}
	return st
}

var (
	colorMuted      lipgloss.TerminalColor = ac("240", "243")
	colorSelectedBg lipgloss.TerminalColor = ac("#e9e9e9", "#262626")
	colorSelectedFg lipgloss.TerminalColor = ac("235", "255")
	colorAccent     lipgloss.TerminalColor = ac("27", "62")
	colorCaptured   lipgloss.TerminalColor = ac("28", "78")
	colorError      lipgloss.TerminalColor = ac("160", "203")
	colorBorder     lipgloss.TerminalColor = ac("250", "240")
)

// Type badge colors, keyed by the catalog's type names.
var typeColors = map[string]lipgloss.TerminalColor{
	"Normal":   ac("244", "250"),
	"Fire":     ac("166", "208"),
	"Water":    ac("26", "75"),
	"Grass":    ac("28", "114"),
	"Electric": ac("136", "220"),
	"Ice":      ac("31", "117"),
	"Fighting": ac("124", "167"),
	"Poison":   ac("91", "170"),
	"Ground":   ac("94", "179"),
	"Flying":   ac("61", "147"),
	"Psychic":  ac("162", "205"),
	"Bug":      ac("64", "148"),
	"Rock":     ac("94", "143"),
	"Ghost":    ac("54", "141"),
	"Dragon":   ac("55", "99"),
	"Dark":     ac("236", "245"),
	"Steel":    ac("60", "152"),
	"Fairy":    ac("169", "218"),
}

var (
	styleTitle    = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	styleMuted    = faintIfDark(lipgloss.NewStyle().Foreground(colorMuted))
	styleSelected = lipgloss.NewStyle().Background(colorSelectedBg).Foreground(colorSelectedFg).Bold(true)
	styleCaptured = lipgloss.NewStyle().Foreground(colorCaptured).Bold(true)
	styleError    = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	styleLabel    = lipgloss.NewStyle().Foreground(colorMuted)
	styleValue    = lipgloss.NewStyle().Bold(true)
	styleDetail   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorBorder).Padding(0, 1)
)

func typeStyle(name string) lipgloss.Style {
	st := lipgloss.NewStyle()
	if c, ok := typeColors[name]; ok {
		st = st.Foreground(c)
	}
	return st
}
