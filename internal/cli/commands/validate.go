package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/loomkit/loom/internal/catalog"
	"github.com/loomkit/loom/internal/config"
)

var validateStrict bool

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [snapshot]",
		Short: "Validate a catalog snapshot",
		Long: `Validate a catalog snapshot: schema version, duplicate names,
layer ranges, self-dependencies and virtual host integrity.

Unknown declared dependencies are warnings by default; --strict promotes
them to errors for catalog authors.

Examples:
  loom validate catalog.json
  loom validate --strict`,
		Args: cobra.MaximumNArgs(1),
		RunE: runValidate,
	}

	cmd.Flags().BoolVar(&validateStrict, "strict", false, "Treat data-integrity warnings as errors")

	return cmd
}

func runValidate(cmd *cobra.Command, args []string) error {
	path := ""
	if len(args) > 0 {
		path = args[0]
	} else {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		path = cfg.Catalog.Path
	}

	// Warnings are reported below; silence the loader's own logging.
	snap, err := catalog.Load(path, zap.NewNop())
	if err != nil {
		return err
	}
	warnings, err := snap.Validate()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	source := path
	if source == "" {
		source = "embedded default snapshot"
	}

	warnColor := color.New(color.FgYellow)
	for _, w := range warnings {
		warnColor.Fprintf(out, "warning: %s\n", w)
	}
	if validateStrict && len(warnings) > 0 {
		return fmt.Errorf("%s: %d data-integrity warnings (strict mode)", source, len(warnings))
	}

	color.New(color.FgGreen, color.Bold).Fprintf(out, "%s: %d components, schema %s - OK\n",
		source, len(snap.Components), snap.SchemaVersion)
	return nil
}
