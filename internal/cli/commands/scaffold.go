package commands

import (
	"archive/tar"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/fatih/color"
	"github.com/klauspost/compress/gzip"
	"github.com/spf13/cobra"

	"github.com/loomkit/loom/internal/scaffold"
)

var (
	scaffoldComponents  []string
	scaffoldOut         string
	scaffoldMode        string
	scaffoldArchive     string
	scaffoldInteractive bool
)

// NewScaffoldCommand creates the scaffold command.
func NewScaffoldCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scaffold [project-name]",
		Short: "Generate a project scaffold",
		Long: `Generate a complete Vite + React + TypeScript project for the
selected components: dependency closure, layered barrel files, a trimmed
icon manifest and an anchor-matched entry point.

Examples:
  loom scaffold admin --components AppShell,DataTable --out ./admin
  loom scaffold admin -c AppShell -c CardGrid --archive admin.tar.gz
  loom scaffold --interactive`,
		RunE: runScaffold,
	}

	cmd.Flags().StringSliceVarP(&scaffoldComponents, "components", "c", nil, "Components to include (repeat or comma-separate)")
	cmd.Flags().StringVarP(&scaffoldOut, "out", "o", "", "Write the project tree to this directory")
	cmd.Flags().StringVar(&scaffoldMode, "mode", "inline", "File delivery mode (inline, urls)")
	cmd.Flags().StringVar(&scaffoldArchive, "archive", "", "Write the project as a gzipped tarball to this path")
	cmd.Flags().BoolVarP(&scaffoldInteractive, "interactive", "i", false, "Pick project name and components interactively")

	return cmd
}

func runScaffold(cmd *cobra.Command, args []string) error {
	env, err := setup(nil)
	if err != nil {
		return err
	}

	projectName := ""
	if len(args) > 0 {
		projectName = args[0]
	}
	components := scaffoldComponents

	if scaffoldInteractive {
		projectName, components, err = promptScaffold(env, projectName)
		if err != nil {
			return err
		}
	}
	if projectName == "" {
		return fmt.Errorf("project name is required (pass it as an argument or use --interactive)")
	}
	if len(components) == 0 {
		return fmt.Errorf("at least one component is required (use --components or --interactive)")
	}

	mode, err := scaffold.ParseMode(scaffoldMode)
	if err != nil {
		return err
	}

	plan, err := env.service.Scaffold(cmd.Context(), projectName, components, mode)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	successColor := color.New(color.FgGreen, color.Bold)
	warnColor := color.New(color.FgYellow)

	for _, warning := range plan.Warnings {
		warnColor.Fprintf(out, "warning: %s\n", warning)
	}

	switch {
	case scaffoldOut != "":
		if err := writeTree(scaffoldOut, plan); err != nil {
			return err
		}
		successColor.Fprintf(out, "Wrote %d files to %s\n", plan.FileCount(), scaffoldOut)
	case scaffoldArchive != "":
		if err := writeArchive(scaffoldArchive, plan); err != nil {
			return err
		}
		successColor.Fprintf(out, "Wrote %d files to %s\n", plan.FileCount(), scaffoldArchive)
	default:
		for _, path := range plan.Tree() {
			fmt.Fprintln(out, path)
		}
		successColor.Fprintf(out, "%d files (%d components)\n", plan.FileCount(), len(plan.Components))
	}
	return nil
}

// promptScaffold runs the interactive picker.
func promptScaffold(env *cliEnv, projectName string) (string, []string, error) {
	if projectName == "" {
		prompt := &survey.Input{Message: "Project name:"}
		if err := survey.AskOne(prompt, &projectName, survey.WithValidator(survey.Required)); err != nil {
			return "", nil, err
		}
	}

	var components []string
	picker := &survey.MultiSelect{
		Message: "Components to include:",
		Options: env.service.Store().AllNames(),
	}
	if err := survey.AskOne(picker, &components, survey.WithValidator(survey.MinItems(1))); err != nil {
		return "", nil, err
	}

	return projectName, components, nil
}

// writeTree materializes the plan under dir, refusing to clobber an
// existing non-empty directory. Remote-reference files are skipped; the
// generated setup script fetches them.
func writeTree(dir string, plan *scaffold.Plan) error {
	if entries, err := os.ReadDir(dir); err == nil && len(entries) > 0 {
		return fmt.Errorf("output directory %s already exists and is not empty", dir)
	}

	for _, f := range plan.Files {
		if f.RemoteURL != "" {
			continue
		}
		path := filepath.Join(dir, filepath.FromSlash(f.Path))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
		mode := os.FileMode(0o644)
		if f.Path == "setup.sh" {
			mode = 0o755
		}
		if err := os.WriteFile(path, []byte(f.Content), mode); err != nil {
			return err
		}
	}
	return nil
}

// writeArchive packs the plan into a gzipped tarball.
func writeArchive(path string, plan *scaffold.Plan) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()

	gz := gzip.NewWriter(out)
	tw := tar.NewWriter(gz)
	now := time.Now()

	for _, f := range plan.Files {
		if f.RemoteURL != "" {
			continue
		}
		mode := int64(0o644)
		if f.Path == "setup.sh" {
			mode = 0o755
		}
		header := &tar.Header{
			Name:    plan.ProjectName + "/" + f.Path,
			Mode:    mode,
			Size:    int64(len(f.Content)),
			ModTime: now,
		}
		if err := tw.WriteHeader(header); err != nil {
			return err
		}
		if _, err := tw.Write([]byte(f.Content)); err != nil {
			return err
		}
	}

	if err := tw.Close(); err != nil {
		return err
	}
	return gz.Close()
}
