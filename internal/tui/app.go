package tui

import (
	"fmt"
	"strconv"
	"strings"

	"pokedex-cli/internal/browse"
	"pokedex-cli/internal/model"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Lines outside the list: header, filter bar, status, list footer, flash,
// help.
const chromeLines = 6

const detailMinWidth = 90

func (m appModel) listRows() int {
	if m.height <= 0 {
		return 0
	}
	return max(m.height-chromeLines, 1)
}

func (m appModel) View() string {
	if m.width <= 0 {
		return ""
	}
	listW, detailW := m.width, 0
	if m.showDetail && m.width >= detailMinWidth {
		detailW = m.width * 2 / 5
		listW = m.width - detailW
	}

	body := m.viewList(listW)
	if detailW > 0 {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, m.viewDetail(detailW))
	}

	lines := []string{
		m.viewHeader(),
		m.viewFilters(),
		m.viewStatus(),
		body,
		m.viewListFooter(),
		m.viewFlash(),
		m.help.View(m.keys),
	}
	return strings.Join(lines, "\n")
}

func (m appModel) viewHeader() string {
	title := styleTitle.Render("Pokédex")
	addr := m.engine.Location.String()
	if addr == "" {
		addr = "?"
	}
	right := styleMuted.Render(strings.TrimSpace(m.source + " " + addr))
	return truncate(title+"  "+right, m.width)
}

func (m appModel) viewFilters() string {
	q := m.engine.Params.Read()

	typ := q.Type
	if typ == "" {
		typ = "all"
	}
	captured := "all"
	switch q.Captured {
	case model.CapturedYes:
		captured = "captured"
	case model.CapturedNo:
		captured = "uncaptured"
	}
	sortLabel := string(q.SortBy) + " " + string(q.Order)
	for _, p := range model.SortPresets {
		if p.SortBy == q.SortBy && p.Order == q.Order {
			sortLabel = p.Label
		}
	}

	field := func(label, value string) string {
		return styleLabel.Render(label+": ") + styleValue.Render(value)
	}
	parts := []string{
		m.search.View(),
		field("Type", typ),
		field("Captured", captured),
		field("Sort", sortLabel),
		field("Limit", strconv.Itoa(q.Limit)),
	}
	return truncate(strings.Join(parts, "  "), m.width)
}

func (m appModel) viewStatus() string {
	st := m.engine.Loader
	if st.Phase() == browse.InitialLoading && st.Len() == 0 {
		return m.spinner.View() + " Loading…"
	}
	status := fmt.Sprintf("%d found", st.Total())
	if st.Len() > 0 {
		status += styleMuted.Render(fmt.Sprintf("  (%d loaded)", st.Len()))
	}
	if st.Phase() != browse.Idle {
		status = m.spinner.View() + " " + status
	}
	return status
}

func (m appModel) viewList(width int) string {
	rows := m.listRows()
	n := m.engine.Loader.Len()
	lines := make([]string, 0, rows)
	for i := m.offset; i < n && len(lines) < rows; i++ {
		it, _ := m.engine.Loader.At(i)
		_, pending := m.engine.Mutator.Pending(it.Name)
		lines = append(lines, renderRow(it, width, i == m.cursor, pending))
	}
	for len(lines) < rows {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

// viewListFooter is the line under the list: the append spinner, the empty
// state, or the end-of-list marker.
func (m appModel) viewListFooter() string {
	st := m.engine.Loader.State()
	switch {
	case st.InitialLoading():
		return ""
	case st.AppendLoading() && len(st.Items) < st.Total:
		return m.spinner.View() + " Loading more…"
	case len(st.Items) == 0:
		return styleMuted.Render("No Pokémon found in the wild...")
	case !st.HasMore() && st.Total > 0 && m.rowVisible(len(st.Items)-1):
		return styleMuted.Render("You've reached the end of the Pokédex")
	}
	return ""
}

func (m appModel) viewFlash() string {
	if m.flash == "" {
		return ""
	}
	if m.flashErr {
		return truncate(styleError.Render(m.flash), m.width)
	}
	return truncate(m.flash, m.width)
}

func (m appModel) viewDetail(width int) string {
	it, ok := m.engine.Loader.At(m.cursor)
	if !ok {
		return ""
	}
	_, pending := m.engine.Mutator.Pending(it.Name)
	inner := width - styleDetail.GetHorizontalFrameSize()
	body := renderMarkdown(itemMarkdown(it, m.catalog.IconURL(it.Name), pending), inner)
	return styleDetail.Width(width - styleDetail.GetHorizontalBorderSize()).MaxHeight(m.listRows()).Render(body)
}

// renderRow renders one list row: number, name, type badges, stats, and the
// captured marker.
func renderRow(it model.Item, width int, selected, pending bool) string {
	marker := "  "
	switch {
	case pending:
		marker = glyphPending() + " "
	case it.Captured:
		marker = styleCaptured.Render(glyphCaptured() + " ")
	}

	types := make([]string, 0, 2)
	for _, t := range it.Types() {
		types = append(types, typeStyle(t).Render(t))
	}
	name := padRight(it.Name, 24)
	stats := fmt.Sprintf("HP %3d  ATK %3d  DEF %3d  SPD %3d", it.HitPoints, it.Attack, it.Defense, it.Speed)
	line := fmt.Sprintf("%s#%03d  %s %s  %s", marker, it.Number, name, padRight(strings.Join(types, "/"), 18), styleMuted.Render(stats))
	line = truncate(line, width)
	if selected {
		return styleSelected.Render(padRight(ansi.Strip(line), width))
	}
	return line
}

func truncate(s string, width int) string {
	if width <= 0 || ansi.StringWidth(s) <= width {
		return s
	}
	return ansi.Truncate(s, width, glyphEllipsis())
}

func padRight(s string, width int) string {
	if w := ansi.StringWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
