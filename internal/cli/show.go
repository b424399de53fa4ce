package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flowviz/pkg/pipeline"
)

// showCommand creates the show command for previewing a flow in the
// system image viewer.
func (c *CLI) showCommand() *cobra.Command {
	var (
		vertical bool
		curvy    bool
		noCache  bool
		refresh  bool
	)
	defaults := c.renderDefaults()

	cmd := &cobra.Command{
		Use:   "show [flow]",
		Short: "Render a flow and open it in the system image viewer",
		Long: `Render a flow to a temporary PNG and open it with the system image
viewer. Nothing is written to the working directory; use 'render' to
keep the output.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := resolveRef(args)
			if err != nil {
				return err
			}
			opts := pipeline.Options{
				Vertical: vertical,
				Curvy:    curvy,
				Refresh:  refresh,
				Logger:   c.Logger,
			}
			return c.runShow(cmd.Context(), ref, opts, noCache)
		},
	}

	cmd.Flags().BoolVar(&vertical, "vertical", defaults.Vertical, "rank tasks top to bottom instead of left to right")
	cmd.Flags().BoolVar(&curvy, "curvy", defaults.Curvy, "route edges as splines instead of straight lines")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "re-render even when a cached output exists")

	return cmd
}

// runShow renders the flow as a bitmap and hands it to the viewer.
func (c *CLI) runShow(ctx context.Context, ref string, opts pipeline.Options, noCache bool) error {
	ctx = withLogger(ctx, c.Logger)

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	loader := c.newLoader(runner, noCache)

	g, _, err := loader.LoadWithCacheInfo(ctx, ref, opts.Refresh)
	if err != nil {
		return err
	}

	spinner := newSpinnerWithContext(ctx, "Rendering preview...")
	spinner.Start()
	img, err := runner.Image(ctx, g, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return fmt.Errorf("render: %w", err)
	}
	spinner.Stop()

	if err := img.Show(); err != nil {
		return err
	}
	printSuccess("Opened preview of %s", ref)
	return nil
}
