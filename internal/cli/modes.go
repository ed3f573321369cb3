package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/varlayout/pkg/payload"
)

// modesCommand prints the view modes a payload supports.
func (c *CLI) modesCommand() *cobra.Command {
	var in inputFlags

	cmd := &cobra.Command{
		Use:   "modes [payload.json]",
		Short: "Print the possible and active view modes of a payload",
		Long: `Print the possible and active view modes of a payload.

Categorical is always possible. A numeric mode by occurrence appears when any
record carries an occurrence count; datasets may declare further numeric
modes. The preferred mode (--mode, or view.mode in the config file) is active
when the payload supports it.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := in.checkArgs(args); err != nil {
				return err
			}
			in.applyConfig(cmd, c)
			input := ""
			if len(args) > 0 {
				input = args[0]
			}
			p, err := c.loadPayload(cmd.Context(), &in, input)
			if err != nil {
				return fmt.Errorf("load payload: %w", err)
			}
			_, res, _, err := c.layoutOnce(cmd.Context(), &in, p)
			if err != nil {
				return err
			}
			fmt.Fprintln(stdout, renderModes(res.Modes))
			return nil
		},
	}

	in.register(cmd)
	return cmd
}

// renderModes renders the modes as a table, marking the active one.
func renderModes(m payload.Modes) string {
	rows := make([][]string, len(m.Possible))
	active := -1
	for i, mode := range m.Possible {
		mark := ""
		if mode.Same(m.Active) {
			mark = "●"
			active = i
		}
		rows[i] = []string{mark, mode.Kind.String(), mode.ByAttribute, mode.Label}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Type", "Attribute", "Label").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case row == active:
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})
	return StyleTitle.Render("View modes") + "\n" + t.Render()
}
