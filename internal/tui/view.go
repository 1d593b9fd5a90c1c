package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/0xdavidjansen/crewtax/internal/output"
	"github.com/0xdavidjansen/crewtax/pkg/dateutil"
)

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "loading..."
	}
	if len(m.calc.Months) == 0 {
		return errorStyle.Render("no calculated months") + "\n" + m.helpLine()
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Werbungskosten fliegendes Personal"))
	b.WriteString("\n")
	b.WriteString(m.monthTabs())
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(m.helpLine())
	return b.String()
}

func (m Model) monthTabs() string {
	tabs := make([]string, 0, len(m.calc.Months))
	for i, month := range m.calc.Months {
		label := fmt.Sprintf("%02d/%d", month.Month, month.Year)
		if i == m.cursor {
			tabs = append(tabs, selectedStyle.Render("["+label+"]"))
		} else {
			tabs = append(tabs, unselectedStyle.Render(" "+label+" "))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

// monthContent renders the selected month plus the overall summary.
// A calculation without months renders empty; the window-size handler
// calls this before View gets a chance to short-circuit.
func (m Model) monthContent() string {
	if len(m.calc.Months) == 0 {
		return ""
	}
	month := m.calc.Months[m.cursor]
	var b strings.Builder

	row := func(label string, value string) {
		b.WriteString(labelStyle.Render(label))
		b.WriteString(valueStyle.Render(value))
		b.WriteString("\n")
	}

	row("Fahrten", fmt.Sprintf("%d", month.TripCount))
	row("Entfernungspauschale", output.FormatEuro(month.DistanceDeduction))
	row("Verpflegungsmehraufwand", output.FormatEuro(month.AllowanceTotal))
	if month.Reimbursement.IsPositive() {
		row("Arbeitgebererstattung", output.FormatEuro(month.Reimbursement))
		row("Abziehbar", output.FormatEuro(month.AllowanceDeductible))
	}
	row("Reinigungskosten", output.FormatEuro(month.CleaningCost))
	row("Trinkgelder", output.FormatEuro(month.TipDeduction))
	row("Monatssumme", output.FormatEuro(month.Total()))

	if len(month.Allowances) > 0 {
		b.WriteString("\n")
		var days strings.Builder
		for _, day := range month.Allowances {
			marker := " "
			if !day.Qualifies {
				marker = "·"
			}
			days.WriteString(fmt.Sprintf("%s %s  %-22s %-8s %s\n",
				marker, dateutil.FormatDay(day.Date), day.Country, day.Class, output.FormatEuro(day.Rate)))
		}
		b.WriteString(borderStyle.Render(strings.TrimRight(days.String(), "\n")))
		b.WriteString("\n")
	}

	if len(m.calc.Countries) > 0 {
		b.WriteString("\n")
		b.WriteString(selectedStyle.Render("Länderübersicht"))
		b.WriteString("\n")
		for _, c := range m.calc.Countries {
			b.WriteString(fmt.Sprintf("  %-24s %2d voll / %2d anteilig   %s\n",
				c.Country, c.FullDays, c.PartialDays, output.FormatEuro(c.Amount)))
		}
	}

	b.WriteString("\n")
	b.WriteString(selectedStyle.Render("Gesamt: " + output.FormatEuro(m.calc.GrandTotal)))
	b.WriteString("\n")
	return b.String()
}

func (m Model) helpLine() string {
	return helpStyle.Render("←/→ month · ↑/↓ scroll · q quit")
}
