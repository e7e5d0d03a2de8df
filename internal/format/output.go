package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"pokedex-cli/internal/model"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Tabular values can be rendered by the table format.
type Tabular interface {
	TableHeaders() []string
	TableRows() [][]string
}

// Write writes output in the requested format.
//
// Supported formats:
// - json (default)
// - table (values implementing Tabular)
func Write(w io.Writer, v any, format string, pretty bool) error {
	switch format {
	case "", "json":
		return WriteJSON(w, v, pretty)
	case "table":
		t, ok := v.(Tabular)
		if !ok {
			return fmt.Errorf("format table: %T has no table form", v)
		}
		return WriteTable(w, t)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// WriteJSON writes strict JSON, one document per call.
func WriteJSON(w io.Writer, v any, pretty bool) error {
	var b []byte
	var err error
	if pretty {
		b, err = json.MarshalIndent(v, "", "  ")
	} else {
		b, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(b))
	return err
}

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func WriteTable(w io.Writer, t Tabular) error {
	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(t.TableHeaders()...).
		Rows(t.TableRows()...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	_, err := fmt.Fprintln(w, tbl.String())
	return err
}

// Items is a list of items in table form.
type Items []model.Item

func (Items) TableHeaders() []string {
	return []string{"#", "Name", "Types", "HP", "Atk", "Def", "Spd", "Captured"}
}

func (items Items) TableRows() [][]string {
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		captured := ""
		if it.Captured {
			captured = "yes"
		}
		rows = append(rows, []string{
			strconv.Itoa(it.Number),
			it.Name,
			joinTypes(it.Types()),
			strconv.Itoa(it.HitPoints),
			strconv.Itoa(it.Attack),
			strconv.Itoa(it.Defense),
			strconv.Itoa(it.Speed),
			captured,
		})
	}
	return rows
}

// Page renders one page: items as rows, with the page envelope for json.
type Page model.Page

func (p Page) TableHeaders() []string { return Items(p.Items).TableHeaders() }
func (p Page) TableRows() [][]string  { return Items(p.Items).TableRows() }

// Names is a list of plain strings (the types lookup) in table form.
type Names struct {
	Header string
	Values []string
}

func (n Names) TableHeaders() []string { return []string{n.Header} }

func (n Names) TableRows() [][]string {
	rows := make([][]string, len(n.Values))
	for i, v := range n.Values {
		rows[i] = []string{v}
	}
	return rows
}

func (n Names) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.Values)
}

func joinTypes(ts []string) string {
	switch len(ts) {
	case 0:
		return ""
	case 1:
		return ts[0]
	default:
		return ts[0] + "/" + ts[1]
	}
}
