package commands

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var searchFormat string

// NewSearchCommand creates the search command.
func NewSearchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the component catalog",
		Long: `Search the component catalog with ranked free-text matching.

Examples:
  loom search table
  loom search "sortable data grid" --format json`,
		Args: cobra.MinimumNArgs(1),
		RunE: runSearch,
	}

	cmd.Flags().StringVar(&searchFormat, "format", "table", "Output format (table, json)")

	return cmd
}

func runSearch(cmd *cobra.Command, args []string) error {
	env, err := setup(nil)
	if err != nil {
		return err
	}

	query := strings.Join(args, " ")
	results, err := env.service.Search(cmd.Context(), query)
	if err != nil {
		return err
	}

	if searchFormat == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		color.New(color.FgYellow).Fprintf(cmd.OutOrStdout(), "No components match %q\n", query)
		return nil
	}

	headerColor := color.New(color.FgCyan, color.Bold)
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, headerColor.Sprint("SCORE\tNAME\tLAYER\tKIND\tDESCRIPTION"))
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", r.Score, r.Name, r.LayerName, r.Kind, r.Description)
	}
	return w.Flush()
}
