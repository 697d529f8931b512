package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/footprint/pkg/catalog"
)

// catalogCommand creates the catalog command.
func (c *CLI) catalogCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect the family types available to builds",
	}
	cmd.AddCommand(c.catalogListCommand())
	cmd.AddCommand(c.catalogBrowseCommand())
	return cmd
}

func (c *CLI) catalogListCommand() *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List family types",
		RunE: func(cmd *cobra.Command, _ []string) error {
			symbols, err := c.catalogSymbols(category)
			if err != nil {
				return err
			}
			if len(symbols) == 0 {
				printInfo("Catalog is empty")
				return nil
			}
			fmt.Println(symbolTable(symbols, -1))
			return nil
		},
	}
	cmd.Flags().StringVarP(&category, "category", "c", "", "only list one category: walls, doors, windows, roofs")
	return cmd
}

func (c *CLI) catalogBrowseCommand() *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse family types interactively",
		Long:  `Browse family types in a terminal UI and print the selected type as a config snippet.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			symbols, err := c.catalogSymbols(category)
			if err != nil {
				return err
			}
			if len(symbols) == 0 {
				printInfo("Catalog is empty")
				return nil
			}

			final, err := tea.NewProgram(NewSymbolListModel(symbols), tea.WithOutput(os.Stderr)).Run()
			if err != nil {
				return fmt.Errorf("run browser: %w", err)
			}
			m, ok := final.(SymbolListModel)
			if !ok || m.Selected == nil {
				return nil
			}
			fmt.Print(familySnippet(*m.Selected))
			return nil
		},
	}
	cmd.Flags().StringVarP(&category, "category", "c", "", "only browse one category")
	return cmd
}

func (c *CLI) catalogSymbols(category string) ([]catalog.Symbol, error) {
	var cat catalog.Category
	if category != "" {
		var err error
		if cat, err = catalog.ParseCategory(category); err != nil {
			return nil, err
		}
	}
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	lib, err := cfg.LoadCatalog()
	if err != nil {
		return nil, err
	}
	return lib.List(cat), nil
}

// symbolTable renders symbols as a table, highlighting row cursor.
func symbolTable(symbols []catalog.Symbol, cursor int) string {
	rows := make([][]string, len(symbols))
	for i, s := range symbols {
		rows[i] = []string{string(s.Category), s.Family, s.Type, dimensions(s)}
	}
	headerStyle := lipgloss.NewStyle().Foreground(colorLabel).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorMuted)).
		Headers("Category", "Family", "Type", "Size").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case row == cursor:
				return listSelectedStyle
			case col == 0 || col == 3:
				return listDimStyle
			}
			return listNormalStyle
		}).
		Render()
}

func dimensions(s catalog.Symbol) string {
	switch {
	case s.WidthMM > 0 && s.HeightMM > 0:
		return fmt.Sprintf("%g × %g mm", s.WidthMM, s.HeightMM)
	case s.ThicknessMM > 0:
		return fmt.Sprintf("%g mm", s.ThicknessMM)
	}
	return "—"
}

// familySnippet renders a symbol as the [families] entry selecting it.
func familySnippet(s catalog.Symbol) string {
	name := map[catalog.Category]string{
		catalog.Walls:   "wall",
		catalog.Doors:   "door",
		catalog.Windows: "window",
		catalog.Roofs:   "roof",
	}[s.Category]
	return fmt.Sprintf("[families.%s]\nfamily = %q\ntype = %q\n", name, s.Family, s.Type)
}
