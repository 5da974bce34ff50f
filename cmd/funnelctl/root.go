package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/hivelog/hivelog-api/internal/platform/logger"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:   "funnelctl",
		Short: "Compute queen-rearing funnel analytics from a snapshot file",
		Long: `funnelctl reads a JSON or YAML snapshot of batches and cells and prints
batch metrics or fleet analytics as JSON.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if _, ok := logger.ParseLevel(logLevel); !ok {
				return errInvalidLogLevel(logLevel)
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	newLogger := func(cmd *cobra.Command) *slog.Logger {
		return logger.New(logLevel, cmd.ErrOrStderr())
	}
	root.AddCommand(newBatchCmd(newLogger), newFleetCmd(newLogger))
	return root
}

func errInvalidLogLevel(level string) error {
	return fmt.Errorf("invalid log level %q", level)
}

// writeJSON prints v as indented JSON.
func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
