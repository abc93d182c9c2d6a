package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/esmtools/tes3db/internal/archive"
	"github.com/esmtools/tes3db/internal/catalog"
	"github.com/esmtools/tes3db/internal/depgraph"
	"github.com/esmtools/tes3db/internal/loader"
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*RootOptions
	Output string
	Graph  string
	Report string
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export <input>",
		Short: "Materialize archives into a relational artifact",
		Long: `Materialize TES3 archives into a relational SQLite artifact.

The input is a single archive or a directory of archives; a directory
loads in modification-time order, oldest first. Records become rows in
typed tables, collection fields become join rows, and every row names the
archive it came from. A run that loses individual records still
completes; losses are logged and counted in the report.

Example:
  tes3db export ./plugins
  tes3db export ./plugins -o out/tes3.db3 --report out/report.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, opts, args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", loader.DefaultOutputName, "artifact path")
	cmd.Flags().StringVar(&opts.Graph, "graph", "", "dependency graph path (default <output>.dot, empty disables)")
	cmd.Flags().StringVar(&opts.Report, "report", "", "write a YAML run report to this path")

	return cmd
}

func runExport(cmd *cobra.Command, opts *ExportOptions, input string) error {
	logger, cleanup, err := newLogger(cmd, opts.RootOptions)
	if err != nil {
		return err
	}
	defer cleanup()

	cat := catalog.Default()
	l := loader.New(cat, &archive.JSONParser{}, logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	report, err := l.Run(ctx, input, opts.Output)
	if err != nil {
		return WrapExitError(ExitCommandError, "export failed", err)
	}

	graphPath := opts.Graph
	if !cmd.Flags().Changed("graph") {
		graphPath = report.Output + ".dot"
	}
	if graphPath != "" {
		if err := writeGraph(cat, graphPath); err != nil {
			return WrapExitError(ExitCommandError, "failed to write dependency graph", err)
		}
		logger.Infof("dependency graph written to %s", graphPath)
	}

	if opts.Report != "" {
		if err := writeReport(report, opts.Report); err != nil {
			return WrapExitError(ExitCommandError, "failed to write report", err)
		}
		logger.Infof("run report written to %s", opts.Report)
	}

	return nil
}

func writeGraph(cat *catalog.Catalog, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := depgraph.Build(cat).WriteDOT(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeReport(report *loader.Report, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := report.WriteYAML(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
