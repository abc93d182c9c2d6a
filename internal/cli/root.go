package cli

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/esmtools/tes3db/internal/loader"
	"github.com/esmtools/tes3db/internal/log"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	LogFile string
}

// NewRootCommand creates the root command for the tes3db CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:     "tes3db",
		Short:   "TES3 plugin data as a relational database",
		Long:    "Export TES3 plugin archives into a normalized, query-ready SQLite database.",
		Version: loader.Version,
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.LogFile, "log-file", "", "append full logs to this file")

	cmd.AddCommand(NewExportCommand(opts))
	cmd.AddCommand(NewSchemaCommand())
	cmd.AddCommand(NewGraphCommand())
	cmd.AddCommand(NewScanCommand(opts))

	return cmd
}

// newLogger builds the run logger from the global flags. The returned
// cleanup flushes the logger and closes the log file, if any.
func newLogger(cmd *cobra.Command, opts *RootOptions) (*zap.SugaredLogger, func(), error) {
	var logFile *os.File
	if opts.LogFile != "" {
		f, err := os.OpenFile(opts.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, WrapExitError(ExitCommandError, "failed to open log file", err)
		}
		logFile = f
	}

	logger := log.NewLogger(cmd.OutOrStdout(), cmd.ErrOrStderr(), logFile, opts.Verbose)
	cleanup := func() {
		_ = logger.Sync()
		if logFile != nil {
			_ = logFile.Close()
		}
	}
	return logger, cleanup, nil
}
