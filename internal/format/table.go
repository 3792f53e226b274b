package format

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// WriteTable renders rows as a bordered table. Colors follow the writer's
// terminal profile, so piped output stays plain.
func WriteTable(w io.Writer, headers []string, rows [][]string) error {
	r := lipgloss.NewRenderer(w)
	header := r.NewStyle().Bold(true).Padding(0, 1)
	cell := r.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(r.NewStyle().Foreground(lipgloss.Color("240"))).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})

	_, err := fmt.Fprintln(w, t.Render())
	return err
}
