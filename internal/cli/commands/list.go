package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	listLayer  int
	listFormat string
)

// NewListCommand creates the list command.
func NewListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog components",
		Long: `List catalog components, optionally filtered to one layer.

Layers: 2=utility, 3=primitive, 4=composite, 5=pattern, 6=shell.

Examples:
  loom list
  loom list --layer 3`,
		RunE: runList,
	}

	cmd.Flags().IntVar(&listLayer, "layer", 0, "Only show components on this layer (0 = all)")
	cmd.Flags().StringVar(&listFormat, "format", "table", "Output format (table, json)")

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	env, err := setup(nil)
	if err != nil {
		return err
	}

	components := env.service.List(cmd.Context(), listLayer)

	if listFormat == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(components)
	}

	headerColor := color.New(color.FgCyan, color.Bold)
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, headerColor.Sprint("NAME\tLAYER\tKIND\tDESCRIPTION"))
	for _, c := range components {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", c.Name, c.LayerName, c.Kind, c.Description)
	}
	return w.Flush()
}
