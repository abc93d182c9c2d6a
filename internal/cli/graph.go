package cli

import (
	"github.com/spf13/cobra"

	"github.com/esmtools/tes3db/internal/catalog"
	"github.com/esmtools/tes3db/internal/depgraph"
)

// GraphOptions holds flags for the graph command.
type GraphOptions struct {
	Output string
}

// NewGraphCommand creates the graph command.
func NewGraphCommand() *cobra.Command {
	opts := &GraphOptions{}

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Write the table dependency graph as DOT",
		Long: `Write the dependency graph between generated tables in Graphviz DOT form.

Edges point from referencing tables to the tables they reference, except
collection tables, where the edge runs from the owning entity table to
its collection. Without --output the graph goes to stdout.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat := catalog.Default()
			if opts.Output == "" {
				return depgraph.Build(cat).WriteDOT(cmd.OutOrStdout())
			}
			if err := writeGraph(cat, opts.Output); err != nil {
				return WrapExitError(ExitCommandError, "failed to write dependency graph", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write DOT here instead of stdout")

	return cmd
}
