package main

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/noah-isme/school-admin-gateway/pkg/paygrid"
)

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#87CEEB")).Bold(true)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#f38ba8"))
	paidStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#1E1E2E")).Background(lipgloss.Color("#A6E3A1")).Bold(true).Padding(0, 1)
	unpaidStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280")).Padding(0, 1)
	cardStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#FFD54A")).Padding(0, 1)
)

// renderSnapshot draws the special payments on one line and each year's months
// on the lines below it.
func renderSnapshot(snap paygrid.Snapshot, years []int) string {
	view := snap.Grid.Views()
	lines := []string{titleStyle.Render("Pagos " + snap.StudentID)}

	if snap.Status == paygrid.StatusError {
		lines = append(lines, errorStyle.Render(snap.Error))
	}

	if len(view.Specials) > 0 {
		specials := make([]string, 0, len(view.Specials))
		for _, cell := range view.Specials {
			specials = append(specials, renderCell(cell))
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, specials...))
	}

	for _, row := range view.Years {
		cells := []string{labelStyle.Width(6).Render(strconv.Itoa(row.Year))}
		for _, cell := range row.Cells {
			cells = append(cells, renderCell(cell))
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}

	strips := make([]string, 0, len(years))
	for _, y := range years {
		strips = append(strips, strconv.Itoa(y)+" "+snap.Grid.Strip(y))
	}
	if len(strips) > 0 {
		lines = append(lines, labelStyle.Render(strings.Join(strips, "  ")))
	}
	return cardStyle.Render(strings.Join(lines, "\n"))
}

func renderCell(cell paygrid.CellView) string {
	if cell.Paid {
		return paidStyle.Render(cell.Label)
	}
	return unpaidStyle.Render(cell.Label)
}
