// Package cli implements the pitchctl subcommands.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pitchpulse/pitchpulse/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:   "pitchctl",
	Short: "Match feed tooling",
	Long:  "Generate synthetic match feeds, replay them against a running service and report on exported snapshots.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logger.Init()
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(reportCmd)
}
