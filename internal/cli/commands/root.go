// Package commands implements the loom CLI.
package commands

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/loomkit/loom/internal/version"
)

var configPath string

// NewRootCommand creates the root command.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "loom",
		Short: "Component catalog, dependency resolver and project scaffolder",
		Long: color.CyanString(`Loom - Design-System Component Server

Loom serves a layered component catalog over an MCP-style JSON-RPC
transport and scaffolds ready-to-build Vite + React + TypeScript projects
from any component selection.

Features:
  • Ranked free-text catalog search
  • Bottom-up dependency resolution with virtual component expansion
  • Deterministic project scaffolds with layered barrel files
  • Trimmed icon manifests and anchor-matched entry points
  • stdio and HTTP transports with pluggable usage analytics`),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to loom.yaml (default: ./loom.yaml)")

	rootCmd.AddCommand(NewVersionCommand())
	rootCmd.AddCommand(NewServeCommand())
	rootCmd.AddCommand(NewSearchCommand())
	rootCmd.AddCommand(NewInfoCommand())
	rootCmd.AddCommand(NewListCommand())
	rootCmd.AddCommand(NewScaffoldCommand())
	rootCmd.AddCommand(NewValidateCommand())

	return rootCmd
}

// NewVersionCommand creates the version command.
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			titleColor := color.New(color.FgCyan, color.Bold)
			valueColor := color.New(color.FgWhite)

			titleColor.Fprint(cmd.OutOrStdout(), "Loom version: ")
			valueColor.Fprintln(cmd.OutOrStdout(), version.Version)

			titleColor.Fprint(cmd.OutOrStdout(), "Git commit: ")
			valueColor.Fprintln(cmd.OutOrStdout(), version.GitCommit)

			titleColor.Fprint(cmd.OutOrStdout(), "Build date: ")
			valueColor.Fprintln(cmd.OutOrStdout(), version.BuildDate)

			titleColor.Fprint(cmd.OutOrStdout(), "Go version: ")
			valueColor.Fprintln(cmd.OutOrStdout(), version.GoVersion())
		},
	}
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		errorColor := color.New(color.FgRed, color.Bold)
		errorColor.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
		return err
	}
	return nil
}
