package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/flowviz/pkg/render/diagram"
)

// paletteCommand creates the palette command for previewing entity colors.
func (c *CLI) paletteCommand() *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "palette [flow]",
		Short: "Preview the entity color palette",
		Long: `Show the fill color each entity would receive in a rendered diagram.

Colors are evenly spaced hues at fixed saturation and lightness, so they
depend only on how many entities a flow has and the order they first
appear. Without a flow argument, --count previews an abstract palette of
that size.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return c.runPaletteFlow(cmd.Context(), args[0])
			}
			return runPaletteCount(count)
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 6, "number of swatches when no flow is given")

	return cmd
}

// runPaletteFlow prints the palette of an actual flow, one swatch per
// entity in first-appearance order.
func (c *CLI) runPaletteFlow(ctx context.Context, ref string) error {
	ctx = withLogger(ctx, c.Logger)

	runner, err := c.newRunner(ctx, false)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	loader := c.newLoader(runner, false)

	g, err := loader.Load(ctx, ref)
	if err != nil {
		return err
	}

	entities := g.Entities()
	colors := diagram.EntityColors(g)

	printInfo("%d entities in %s", len(entities), ref)
	printNewline()
	for _, entity := range entities {
		printSwatch(colors[entity], entity)
	}
	return nil
}

// runPaletteCount prints an abstract palette of the given size.
func runPaletteCount(count int) error {
	if count < 1 {
		return fmt.Errorf("count must be at least 1, got %d", count)
	}

	labels := make([]string, count)
	for i := range labels {
		labels[i] = strconv.Itoa(i + 1)
	}
	colors := diagram.FillColors(labels)

	printInfo("%d evenly spaced colors", count)
	printNewline()
	for _, label := range labels {
		printSwatch(colors[label], "entity "+label)
	}
	return nil
}

// printSwatch prints one color block with its hex value and label.
func printSwatch(hex, label string) {
	swatch := lipgloss.NewStyle().Background(lipgloss.Color(hex)).Render("      ")
	fmt.Println("  " + swatch + "  " + StyleDim.Render(hex) + "  " + StyleValue.Render(label))
}
