// SPDX-License-Identifier: MIT

package cmd

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// renderTable writes rows under headers as a bordered table. Styles are
// bound to w, so colours are dropped when w is not a terminal.
func renderTable(w io.Writer, headers []string, rows [][]string) error {
	r := lipgloss.NewRenderer(w)
	headerStyle := r.NewStyle().
		Foreground(lipgloss.Color("#25A065")).
		Padding(0, 1).
		Bold(true)
	cellStyle := r.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(r.NewStyle().Foreground(lipgloss.Color("#FFFDF5"))).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...).
		Rows(rows...)

	_, err := fmt.Fprintln(w, t.Render())
	return err
}
