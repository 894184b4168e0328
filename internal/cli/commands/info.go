package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var infoFormat string

// NewInfoCommand creates the info command.
func NewInfoCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info <component>",
		Short: "Show full metadata for one component",
		Long: `Show full metadata for one component, including its resolved
dependency closure. Matching is case-insensitive; unknown names print
suggestions.

Examples:
  loom info DataTable
  loom info button --format json`,
		Args: cobra.ExactArgs(1),
		RunE: runInfo,
	}

	cmd.Flags().StringVar(&infoFormat, "format", "text", "Output format (text, json)")

	return cmd
}

func runInfo(cmd *cobra.Command, args []string) error {
	env, err := setup(nil)
	if err != nil {
		return err
	}

	detail, err := env.service.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if infoFormat == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(detail)
	}

	out := cmd.OutOrStdout()
	nameColor := color.New(color.FgGreen, color.Bold)
	labelColor := color.New(color.FgCyan)

	nameColor.Fprintf(out, "%s", detail.Name)
	fmt.Fprintf(out, "  (layer %d, %s)\n", detail.Layer, detail.LayerName)
	fmt.Fprintln(out, detail.Description)

	printList := func(label string, values []string) {
		if len(values) == 0 {
			return
		}
		labelColor.Fprintf(out, "%s: ", label)
		fmt.Fprintln(out, strings.Join(values, ", "))
	}

	labelColor.Fprint(out, "Kind: ")
	fmt.Fprintln(out, detail.Kind)
	printList("Use cases", detail.UseCases)
	printList("Aliases", detail.Aliases)
	printList("Props", detail.Props)
	printList("Direct dependencies", detail.Dependencies)
	printList("Resolved closure", detail.ResolvedDependencies)
	if detail.HostComponent != "" {
		labelColor.Fprint(out, "Hosted by: ")
		fmt.Fprintln(out, detail.HostComponent)
	}
	return nil
}
