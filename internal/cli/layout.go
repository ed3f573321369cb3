package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/varlayout/pkg/errors"
	"github.com/matzehuels/varlayout/pkg/payload"
	"github.com/matzehuels/varlayout/pkg/pipeline"
)

// layoutCommand creates the layout command for computing track layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		in     inputFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "layout [payload.json]",
		Short: "Lay out a variant payload",
		Long: `Lay out a variant payload.

The layout command reads a payload (a JSON object with a "records" array, or a
bare array of records) and groups its records by position and by type for the
given view. The output is a layout.json document with one entry per position
group, or an empty-track signal when nothing falls inside the view.

Records may instead be loaded from MongoDB with --mongo-dataset; --region then
also restricts the query.`,
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
			return c.runLayout(cmd.Context(), &in, input, output)
		},
	}

	in.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")

	return cmd
}

// runLayout loads the payload, runs one full refresh and writes the layout.
func (c *CLI) runLayout(ctx context.Context, in *inputFlags, input, output string) error {
	logger := loggerFromContext(ctx)
	st := newStages(logger)

	outputPath := output
	if outputPath == "" {
		outputPath = defaultOutput(input, in.mongoDataset)
	}
	if err := errors.ValidatePath(outputPath); err != nil {
		return err
	}

	spinner := newSpinnerWithContext(ctx, "Loading payload...")
	spinner.Start()

	p, err := c.loadPayload(ctx, in, input)
	if err != nil {
		spinner.StopWithError("Load failed")
		return fmt.Errorf("load payload: %w", err)
	}
	st.mark("load", "records", p.Len())

	spinner.SetMessage(fmt.Sprintf("Laying out %d records...", p.Len()))
	_, res, spec, err := c.layoutOnce(ctx, in, p)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return err
	}
	spinner.Stop()
	st.mark("layout", "groups", res.Stats.Groups)
	logResult(logger, res)

	if ctx.Err() != nil {
		return ctx.Err()
	}

	width := spec.Width
	if width <= 0 {
		width = pipeline.DefaultWidth
	}
	if err := payload.WriteLayoutFile(res.Export(width), outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}
	st.mark("write", "path", outputPath)
	st.done(fmt.Sprintf("Laid out %d records", res.Stats.Records))

	if res.Empty != nil {
		printWarning("%s", res.Empty.Message)
	} else {
		printSuccess("Layout complete")
	}
	printFile(outputPath)
	printStats(res.Stats.Records, res.Stats.Groups, string(res.Path))
	printRejections(res.Rejections)
	printNewline()
	printNextStep("Inspect", appName+" view "+inputOrDataset(input, in.mongoDataset))

	return nil
}

// layoutOnce builds the view for p and runs a full refresh on a new
// orchestrator.
func (c *CLI) layoutOnce(ctx context.Context, in *inputFlags, p *payload.Payload) (*pipeline.Orchestrator, *pipeline.Result, pipeline.ViewSpec, error) {
	spec, err := in.viewSpec(p)
	if err != nil {
		return nil, nil, spec, err
	}
	orch, err := c.newOrchestrator(in.mode)
	if err != nil {
		return nil, nil, spec, err
	}
	res, err := orch.Refresh(ctx, pipeline.Request{
		Payload:   p,
		View:      spec.View(),
		Change:    pipeline.ChangeRequery,
		Highlight: in.highlight,
	})
	if err != nil {
		return nil, nil, spec, fmt.Errorf("layout: %w", err)
	}
	return orch, res, spec, nil
}

func inputOrDataset(input, dataset string) string {
	if input != "" {
		return input
	}
	return "--mongo-dataset " + dataset
}
