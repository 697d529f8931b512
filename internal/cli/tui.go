package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/footprint/pkg/catalog"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorValue)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorMuted)
)

// =============================================================================
// SymbolListModel - Interactive family type selection
// =============================================================================

// SymbolListModel is the bubbletea model for browsing catalog symbols.
type SymbolListModel struct {
	Symbols  []catalog.Symbol
	Cursor   int
	Selected *catalog.Symbol
	Height   int
	Offset   int
}

// NewSymbolListModel creates a new symbol list model.
func NewSymbolListModel(symbols []catalog.Symbol) SymbolListModel {
	return SymbolListModel{Symbols: symbols, Height: 15}
}

func (m SymbolListModel) Init() tea.Cmd {
	return nil
}

func (m SymbolListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Symbols)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Symbols) == 0 {
				return m, nil
			}
			s := m.Symbols[m.Cursor]
			m.Selected = &s
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
	}
	return m, nil
}

func (m SymbolListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Family Type"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Symbols))
	b.WriteString(symbolTable(m.Symbols[m.Offset:end], m.Cursor-m.Offset))
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Symbols))))

	return b.String()
}
