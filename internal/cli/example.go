package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// exampleFlow is a small churn-model training flow. It exercises the
// features worth seeing in a first render: multiple entities, display
// names, tooltips, and in-cluster ordering via index.
const exampleFlow = `{
  "tasks": [
    {"id": "load_events", "doc": "Load raw click events", "entity": "events"},
    {"id": "sessionize", "doc": "Group events into sessions", "index": 1, "entity": "events"},
    {"id": "build_features", "doc": "Aggregate session features per customer", "entity": "features"},
    {"id": "split", "name": "train_test_split", "doc": "Hold out 20% for evaluation", "index": 1, "entity": "features"},
    {"id": "train", "name": "fit_model", "doc": "Fit the churn classifier", "entity": "model"},
    {"id": "evaluate", "doc": "Score the held-out set", "index": 1, "entity": "model"}
  ],
  "edges": [
    {"from": "load_events", "to": "sessionize"},
    {"from": "sessionize", "to": "build_features"},
    {"from": "build_features", "to": "split"},
    {"from": "split", "to": "train"},
    {"from": "split", "to": "evaluate"},
    {"from": "train", "to": "evaluate"}
  ],
  "meta": {"name": "churn-training"}
}
`

// exampleCommand creates the example command for writing a starter flow.
func (c *CLI) exampleCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "example",
		Short: "Write a sample flow definition",
		Long: `Write a small sample flow to get started. The file shows the flow
JSON shape: tasks with entities, docs, and ordering, plus the edges
connecting them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "-" {
				_, err := os.Stdout.WriteString(exampleFlow)
				return err
			}
			if err := os.WriteFile(output, []byte(exampleFlow), 0o644); err != nil {
				return fmt.Errorf("write example: %w", err)
			}
			printSuccess("Wrote example flow")
			printFile(output)
			printNextStep("Render it", "flowviz render "+output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "example-flow.json", "output file (- for stdout)")

	return cmd
}
