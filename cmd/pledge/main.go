// Command pledge checks, watches and submits donation allocation drafts.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/zoobzio/capitan"
	"github.com/zoobzio/pledge"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	verbose bool
	format  string
	delay   time.Duration

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "pledge",
	Short: "Validate and submit donation allocation forms",
	Long: `pledge validates donation allocation drafts stored as JSON or YAML.

A draft names the donor, the amount, and how the amount is split across
institutions. The percentages must add up to exactly 100.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		hookSignals(logger)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		capitan.Shutdown()
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&format, "format", "f", "yaml", "Report format (json|yaml)")
	rootCmd.PersistentFlags().DurationVar(&delay, "delay", pledge.DefaultSubmitDelay, "Time a submission stays in flight")

	rootCmd.AddCommand(checkCmd, watchCmd, submitCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
