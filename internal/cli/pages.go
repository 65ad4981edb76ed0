package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/gcdash/gcdash/pkg/pages"
)

// pagesCommand creates the pages command.
func (c *CLI) pagesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "pages",
		Short: "List the dashboard pages in navigation order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries := pages.Default().Entries()

			rows := make([][]string, len(entries))
			for i, e := range entries {
				rows[i] = []string{e.Path(), e.Icon + " " + e.Label, strconv.Itoa(e.Order)}
			}

			t := table.New().
				Border(lipgloss.RoundedBorder()).
				BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
				Headers("Path", "Page", "Order").
				Rows(rows...).
				StyleFunc(func(row, col int) lipgloss.Style {
					if row == -1 {
						return styleHeader
					}
					if col == 0 {
						return StyleTitle
					}
					return lipgloss.NewStyle()
				})

			_, err := fmt.Fprintln(cmd.OutOrStdout(), t.Render())
			return err
		},
	}
}
