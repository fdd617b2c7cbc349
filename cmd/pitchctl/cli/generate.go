package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pitchpulse/pitchpulse/internal/replay"
)

var (
	genPlayers int
	genMatches int
	genEvents  int
	genOutput  string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a synthetic match feed as JSONL",
	Args:  cobra.NoArgs,
	RunE:  runGenerate,
}

func init() {
	generateCmd.Flags().IntVar(&genPlayers, "players", 50, "number of distinct players")
	generateCmd.Flags().IntVar(&genMatches, "matches", 2, "number of matches")
	generateCmd.Flags().IntVar(&genEvents, "events", 1000, "player events per match")
	generateCmd.Flags().StringVarP(&genOutput, "output", "o", "", "output file (default: stdout)")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg := replay.Config{
		Players:        genPlayers,
		Matches:        genMatches,
		EventsPerMatch: genEvents,
	}
	records := replay.GenerateMatches(cmd.Context(), cfg)

	out := os.Stdout
	if genOutput != "" {
		f, err := os.Create(genOutput)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		out = f
	}
	if err := replay.WriteJSONL(out, records); err != nil {
		return fmt.Errorf("write feed: %w", err)
	}
	if genOutput != "" {
		fmt.Fprintf(os.Stderr, "wrote %d records to %s\n", len(records), genOutput)
	}
	return nil
}
