package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/esmtools/tes3db/internal/catalog"
	"github.com/esmtools/tes3db/internal/schema"
)

// NewSchemaCommand creates the schema command.
func NewSchemaCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the synthesized DDL",
		Long: `Print the CREATE TABLE script synthesized from the type catalog.

The script is exactly what export applies to a fresh staging database, so
it doubles as the artifact's schema reference.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprint(cmd.OutOrStdout(), schema.Script(catalog.Default()))
			return nil
		},
	}
}
