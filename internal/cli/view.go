package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// viewCommand opens the interactive track inspector.
func (c *CLI) viewCommand() *cobra.Command {
	var in inputFlags

	cmd := &cobra.Command{
		Use:   "view [payload.json]",
		Short: "Inspect a variant track interactively",
		Long: `Inspect a variant track interactively.

Pan with ←/→ (a pan over a gene model reflows the existing groups), zoom with
+/- (rebuilds from the payload), fold or expand the selected position with
space, toggle its highlight with x and cycle view modes with m. A failed
refresh keeps the previous track on screen next to the error.`,
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
			return c.runView(cmd.Context(), &in, input)
		},
	}

	in.register(cmd)
	return cmd
}

func (c *CLI) runView(ctx context.Context, in *inputFlags, input string) error {
	spinner := newSpinnerWithContext(ctx, "Loading payload...")
	spinner.Start()
	p, err := c.loadPayload(ctx, in, input)
	if err != nil {
		spinner.StopWithError("Load failed")
		return fmt.Errorf("load payload: %w", err)
	}
	orch, res, spec, err := c.layoutOnce(ctx, in, p)
	spinner.Stop()
	if err != nil {
		return err
	}

	// The inspector logs through the orchestrator; keep the alt screen clean.
	level := c.Logger.GetLevel()
	c.Logger.SetLevel(LogError)
	defer c.Logger.SetLevel(level)

	model := NewInspectorModel(ctx, orch, spec, res, in.highlight)
	_, err = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
