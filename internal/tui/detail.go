package tui

import (
	"fmt"
	"strings"

	"pokedex-cli/internal/model"
)

// itemMarkdown is the detail pane body for one item.
func itemMarkdown(it model.Item, iconURL string, pending bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# #%03d %s\n\n", it.Number, it.Name)
	fmt.Fprintf(&b, "**Types:** %s\n\n", strings.Join(it.Types(), " / "))

	status := "not captured"
	if it.Captured {
		status = "captured"
	}
	if pending {
		status += " (saving…)"
	}
	fmt.Fprintf(&b, "**Status:** %s\n\n", status)

	b.WriteString("| Stat | Value |\n|---|---:|\n")
	stats := []struct {
		label string
		v     int
	}{
		{"HP", it.HitPoints},
		{"Attack", it.Attack},
		{"Defense", it.Defense},
		{"Sp. Attack", it.SpecialAttack},
		{"Sp. Defense", it.SpecialDefense},
		{"Speed", it.Speed},
	}
	for _, s := range stats {
		fmt.Fprintf(&b, "| %s | %d |\n", s.label, s.v)
	}
	if iconURL != "" {
		fmt.Fprintf(&b, "\nIcon: `%s`\n", iconURL)
	}
	return b.String()
}
