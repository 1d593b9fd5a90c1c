// Package tui is an interactive browser over a finished tax
// calculation: one pane per calendar month plus the per-country
// summary. It only presents; all computation happens before launch.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"

	"github.com/0xdavidjansen/crewtax/internal/domain"
)

// keyMap defines the key bindings of the browser.
type keyMap struct {
	Prev key.Binding
	Next key.Binding
	Up   key.Binding
	Down key.Binding
	Quit key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Prev: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "previous month"),
		),
		Next: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next month"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "scroll down"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// Model is the browser state.
type Model struct {
	calc     *domain.TaxCalculation
	cursor   int // selected month index
	keys     keyMap
	viewport viewport.Model
	width    int
	height   int
	ready    bool
}

// NewModel creates a browser over a finished calculation.
func NewModel(calc *domain.TaxCalculation) Model {
	return Model{
		calc: calc,
		keys: defaultKeyMap(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}
