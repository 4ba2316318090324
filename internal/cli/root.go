// Package cli wires the scorecard-audit command tree.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sciencedex/scorecard-audit/pkg/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var logLevel string

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "scorecard-audit",
	Short: "Statement-independence and bias audits for scorecard pipelines",
	Long: `scorecard-audit examines a corpus of scored public statements and
measures whether the scores depend only on statement content.

It runs five statement-independence probes against a scoring function
(ordering, prior context, attribution, batching, sequence position) and
four statistical bias probes over the recorded scores (party skew,
source skew, temporal drift, semantic consistency), then merges the
results into one weighted assessment.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := logger.Init(logLevel); err != nil {
			return fmt.Errorf("init logging: %w", err)
		}
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd prints build information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("scorecard-audit %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(auditCmd)
	rootCmd.AddCommand(genCmd)
}
