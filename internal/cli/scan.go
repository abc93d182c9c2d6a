package cli

import (
	"context"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/esmtools/tes3db/internal/meshscan"
)

// ScanOptions holds flags for the scan command.
type ScanOptions struct {
	*RootOptions
	Output  string
	Workers int
}

// NewScanCommand creates the scan command.
func NewScanCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ScanOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "scan <meshes-dir>",
		Short: "Report texture-atlas coverage across meshes",
		Long: `Scan a tree of NIF meshes and report texture-atlas coverage.

Meshes are read concurrently and classified by whether any texture path
points into textures\atl. Two YAML reports land in the output directory:
atlas_coverage.yaml with the per-mesh texture lists and
atlas_coverage_stats.yaml with counts and the coverage percentage.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, opts, args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", ".", "report directory")
	cmd.Flags().IntVar(&opts.Workers, "workers", runtime.NumCPU(), "concurrent mesh reads")

	return cmd
}

func runScan(cmd *cobra.Command, opts *ScanOptions, root string) error {
	logger, cleanup, err := newLogger(cmd, opts.RootOptions)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cov, err := meshscan.New(opts.Workers, logger).Scan(ctx, root)
	if err != nil {
		return WrapExitError(ExitCommandError, "scan failed", err)
	}
	if err := cov.WriteReport(opts.Output); err != nil {
		return WrapExitError(ExitCommandError, "failed to write coverage reports", err)
	}

	st := cov.Stats()
	logger.Infof("atlas coverage %.1f%% (%d of %d meshes)",
		st.Coverage, st.WithAtlas, st.WithAtlas+st.WithoutAtlas)
	return nil
}
