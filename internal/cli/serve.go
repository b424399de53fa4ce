package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/cli/browser"
	"github.com/spf13/cobra"

	"github.com/matzehuels/flowviz/internal/server"
)

// defaultServeAddr is the default listen address for the preview server.
const defaultServeAddr = "localhost:8384"

// serveCommand creates the serve command for running the preview server.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
		open    bool
	)

	cmd := &cobra.Command{
		Use:   "serve [flow]",
		Short: "Serve a live preview of a flow in the browser",
		Long: `Start a local HTTP server that renders the flow on every request.
The flow is re-read each time, so edits to a local file show up on
reload. Diagrams are available as SVG, PNG, and DOT next to an HTML
index page.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := resolveRef(args)
			if err != nil {
				return err
			}
			return c.runServe(cmd.Context(), ref, addr, noCache, open)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", defaultServeAddr, "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&open, "open", false, "open the preview in the browser")

	return cmd
}

// runServe blocks until the server stops or ctx is cancelled.
func (c *CLI) runServe(ctx context.Context, ref, addr string, noCache, open bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	loader := c.newLoader(runner, noCache)

	srv := server.New(server.Config{Addr: addr, Source: ref}, loader, runner, c.Logger)

	url := "http://" + displayAddr(addr)
	printInfo("Serving %s", ref)
	printNextStep("Open", url)
	if open {
		if err := browser.OpenURL(url); err != nil {
			printWarning("Could not open browser: %v", err)
		}
	}

	return srv.ListenAndServe(ctx)
}

// displayAddr turns a listen address into something a browser accepts.
// A bare ":8384" becomes "localhost:8384".
func displayAddr(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "localhost" + addr
	}
	return addr
}
