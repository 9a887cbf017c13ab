package report

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles are the console styles used by tables.
type Styles struct {
	Title  lipgloss.Style
	Header lipgloss.Style
	Cell   lipgloss.Style
	Muted  lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Title:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#8BC34A")),
		Header: lipgloss.NewStyle().Bold(true),
		Cell:   lipgloss.NewStyle(),
		Muted:  lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280")),
	}
}

// PlainStyles renders without any decoration.
func PlainStyles() Styles {
	return Styles{Title: lipgloss.NewStyle(), Header: lipgloss.NewStyle(), Cell: lipgloss.NewStyle(), Muted: lipgloss.NewStyle()}
}

// Table is a static table for console summaries.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
	right   map[int]bool
}

func NewTable(title string, headers ...string) *Table {
	return &Table{Title: title, Headers: headers, Rows: make([][]string, 0), right: map[int]bool{}}
}

func (t *Table) AddRow(cells ...string) {
	t.Rows = append(t.Rows, cells)
}

// AlignRight right-aligns the given columns, typically counts.
func (t *Table) AlignRight(cols ...int) *Table {
	for _, c := range cols {
		t.right[c] = true
	}
	return t
}

// Render returns the table as text. An empty table renders as "".
func (t *Table) Render(styles Styles) string {
	if len(t.Rows) == 0 {
		return ""
	}

	widths := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], lipgloss.Width(cell))
			}
		}
	}
	// room for the one-cell padding on each side
	for i := range widths {
		widths[i] += 2
	}

	var sb strings.Builder
	if t.Title != "" {
		sb.WriteString(styles.Title.Render(t.Title))
		sb.WriteString("\n")
	}

	sep := styles.Muted.Render("|")
	t.writeRow(&sb, t.Headers, widths, styles.Header.Padding(0, 1), sep)

	total := len(widths) - 1
	for _, w := range widths {
		total += w
	}
	sb.WriteString(styles.Muted.Render(strings.Repeat("-", total)))
	sb.WriteString("\n")

	for _, row := range t.Rows {
		t.writeRow(&sb, row, widths, styles.Cell.Padding(0, 1), sep)
	}
	return sb.String()
}

func (t *Table) writeRow(sb *strings.Builder, cells []string, widths []int, style lipgloss.Style, sep string) {
	for i, cell := range cells {
		if i >= len(widths) {
			break
		}
		s := style.Width(widths[i])
		if t.right[i] {
			s = s.Align(lipgloss.Right)
		}
		sb.WriteString(s.Render(cell))
		if i < len(cells)-1 && i < len(widths)-1 {
			sb.WriteString(sep)
		}
	}
	sb.WriteString("\n")
}
