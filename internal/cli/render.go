package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cli/browser"
	"github.com/spf13/cobra"

	apperrors "github.com/matzehuels/flowviz/pkg/errors"
	"github.com/matzehuels/flowviz/pkg/pipeline"
	"github.com/matzehuels/flowviz/pkg/source"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string   // output file path (or base path for multiple formats)
	formats  []string // output formats: "svg", "png", "dot"
	vertical bool     // rank tasks top to bottom
	curvy    bool     // route edges as splines
	noCache  bool     // disable caching
	refresh  bool     // bypass cached entries and re-render
	open     bool     // open the first output after writing
}

// renderCommand creates the render command for generating diagrams.
//
// Default settings come from the config file; flags override them.
// Without a flow argument, an interactive picker lists the flow files
// in the current directory.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{}
	defaults := c.renderDefaults()

	cmd := &cobra.Command{
		Use:   "render [flow]",
		Short: "Render a task flow to SVG, PNG, or DOT",
		Long: `Render a task flow to one or more diagram files.

The flow argument is a JSON file path, an http(s) URL, or "-" for stdin.
Each entity's tasks are grouped into a color-coded cluster; edges show
which task outputs feed which inputs.

Rendered outputs are cached locally, so re-rendering an unchanged flow
is instant. Use --refresh to force a fresh render.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := resolveRef(args)
			if err != nil {
				return err
			}
			opts.formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			if err := validateOutput(opts.output); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), ref, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format, - for stdout) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", c.Config.Render.Formats, "output format(s): svg (default), png, dot (comma-separated)")
	cmd.Flags().BoolVar(&opts.vertical, "vertical", defaults.Vertical, "rank tasks top to bottom instead of left to right")
	cmd.Flags().BoolVar(&opts.curvy, "curvy", defaults.Curvy, "route edges as splines instead of straight lines")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render even when a cached output exists")
	cmd.Flags().BoolVar(&opts.open, "open", false, "open the first output in the browser")

	return cmd
}

// resolveRef returns the flow ref from args, or runs the interactive
// picker when none was given.
func resolveRef(args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	return pickFlowFile()
}

// validateOutput rejects unusable -o values before any rendering work.
// Empty (derive from input) and "-" (stdout) always pass.
func validateOutput(output string) error {
	if output == "" || output == "-" {
		return nil
	}
	return apperrors.ValidateOutputPath(output)
}

// runRender loads the flow, renders the requested formats, and writes
// each one to disk.
func (c *CLI) runRender(ctx context.Context, ref string, opts *renderOpts) error {
	ctx = withLogger(ctx, c.Logger)

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	loader := c.newLoader(runner, opts.noCache)

	prog := newProgress(c.Logger)
	g, _, err := loader.LoadWithCacheInfo(ctx, ref, opts.refresh)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Loaded %d tasks across %d entities", g.TaskCount(), len(g.Entities())))

	popts := pipeline.Options{
		Vertical: opts.vertical,
		Curvy:    opts.curvy,
		Formats:  opts.formats,
		Refresh:  opts.refresh,
		Logger:   c.Logger,
	}

	spinner := newSpinnerWithContext(ctx, "Rendering flow...")
	spinner.Start()
	result, err := runner.Execute(ctx, g, popts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return fmt.Errorf("render: %w", err)
	}
	spinner.Stop()

	paths, err := writeArtifacts(result.Artifacts, opts.formats, ref, opts.output)
	if err != nil {
		return err
	}

	printStats(result.Stats.TaskCount, result.Stats.EdgeCount, result.CacheInfo.RenderHit)
	for _, path := range paths {
		printFile(path)
	}
	if opts.open && len(paths) > 0 {
		if err := browser.OpenFile(paths[0]); err != nil {
			printWarning("Could not open %s: %v", paths[0], err)
		}
	}
	return nil
}

// writeArtifacts writes rendered outputs and returns the written paths.
// A single format goes to the output path as given ("-" streams to
// stdout); multiple formats share a base path and get their format
// appended as the extension.
func writeArtifacts(artifacts map[string][]byte, formats []string, input, output string) ([]string, error) {
	if len(formats) == 1 {
		format := formats[0]
		if output == "-" {
			_, err := os.Stdout.Write(artifacts[format])
			return nil, err
		}
		path := output
		if path == "" {
			path = basePath("", input) + "." + format
		}
		if err := os.WriteFile(path, artifacts[format], 0o644); err != nil {
			return nil, err
		}
		return []string{path}, nil
	}

	base := basePath(output, input)
	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		path := fmt.Sprintf("%s.%s", base, format)
		if err := os.WriteFile(path, artifacts[format], 0o644); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// basePath derives the base output path from the output flag and the
// input ref. An explicit output keeps its name, minus any known format
// extension. Otherwise the input file name without extension is used;
// stdin and remote refs fall back to "flow".
func basePath(output, input string) string {
	if output != "" {
		ext := filepath.Ext(output)
		if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
			return strings.TrimSuffix(output, ext)
		}
		return output
	}
	if input == "-" || source.IsRemote(input) {
		return "flow"
	}
	return strings.TrimSuffix(input, filepath.Ext(input))
}
