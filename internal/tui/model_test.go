package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xdavidjansen/crewtax/internal/domain"
)

func twoMonthCalc() *domain.TaxCalculation {
	return &domain.TaxCalculation{
		Months: []domain.MonthlyBreakdown{
			{Year: 2024, Month: time.May, TripCount: 2, DistanceDeduction: decimal.RequireFromString("19.6")},
			{Year: 2024, Month: time.June, TripCount: 4, DistanceDeduction: decimal.RequireFromString("39.2")},
		},
		GrandTotal: decimal.RequireFromString("58.8"),
	}
}

func sized(t *testing.T, m Model) Model {
	t.Helper()
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	model, ok := updated.(Model)
	require.True(t, ok)
	return model
}

func TestUpdateHandlesEmptyCalculation(t *testing.T) {
	m := NewModel(&domain.TaxCalculation{})

	// The runtime delivers the window size before the first render; a
	// roster that yields no months must survive it.
	m = sized(t, m)

	assert.True(t, m.ready)
	assert.Contains(t, m.View(), "no calculated months")
}

func TestUpdateMonthNavigation(t *testing.T) {
	m := sized(t, NewModel(twoMonthCalc()))
	assert.Equal(t, 0, m.cursor)

	right := tea.KeyMsg{Type: tea.KeyRight}
	updated, _ := m.Update(right)
	m = updated.(Model)
	assert.Equal(t, 1, m.cursor)

	updated, _ = m.Update(right)
	m = updated.(Model)
	assert.Equal(t, 1, m.cursor, "cursor stops at the last month")

	left := tea.KeyMsg{Type: tea.KeyLeft}
	updated, _ = m.Update(left)
	m = updated.(Model)
	assert.Equal(t, 0, m.cursor)

	updated, _ = m.Update(left)
	m = updated.(Model)
	assert.Equal(t, 0, m.cursor, "cursor stops at the first month")
}

func TestViewRendersMonthTabs(t *testing.T) {
	m := sized(t, NewModel(twoMonthCalc()))

	out := m.View()
	assert.Contains(t, out, "05/2024")
	assert.Contains(t, out, "06/2024")
	assert.Contains(t, out, "Werbungskosten fliegendes Personal")
}

func TestUpdateQuit(t *testing.T) {
	m := sized(t, NewModel(twoMonthCalc()))
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
