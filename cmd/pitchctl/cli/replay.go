package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pitchpulse/pitchpulse/internal/domain/model"
	"github.com/pitchpulse/pitchpulse/internal/replay"
)

var (
	replayInput  string
	replaySocket string
	replayURL    string
	replayDelay  time.Duration

	replayPlayers int
	replayMatches int
	replayEvents  int
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay a feed against a running service",
	Long:  "Replay a JSONL feed file, or a freshly generated one, over the raw socket feed or the HTTP API.",
	Args:  cobra.NoArgs,
	RunE:  runReplay,
}

func init() {
	replayCmd.Flags().StringVarP(&replayInput, "input", "i", "", "JSONL feed file (default: generate in memory)")
	replayCmd.Flags().StringVar(&replaySocket, "socket", "", "socket feed address, e.g. localhost:6100")
	replayCmd.Flags().StringVar(&replayURL, "url", "", "HTTP base URL, e.g. http://localhost:9090")
	replayCmd.Flags().DurationVar(&replayDelay, "delay", 0, "delay between records")
	replayCmd.Flags().IntVar(&replayPlayers, "players", 50, "players for generated feeds")
	replayCmd.Flags().IntVar(&replayMatches, "matches", 2, "matches for generated feeds")
	replayCmd.Flags().IntVar(&replayEvents, "events", 1000, "player events per match for generated feeds")
}

func runReplay(cmd *cobra.Command, args []string) error {
	if (replaySocket == "") == (replayURL == "") {
		return fmt.Errorf("exactly one of --socket or --url is required")
	}

	var records []model.Record
	if replayInput != "" {
		f, err := os.Open(replayInput)
		if err != nil {
			return fmt.Errorf("open feed file: %w", err)
		}
		defer f.Close()
		records, err = replay.ReadJSONL(f)
		if err != nil {
			return fmt.Errorf("read feed file: %w", err)
		}
	} else {
		records = replay.GenerateMatches(cmd.Context(), replay.Config{
			Players:        replayPlayers,
			Matches:        replayMatches,
			EventsPerMatch: replayEvents,
		})
	}

	if replaySocket != "" {
		return replay.StreamSocket(cmd.Context(), replaySocket, records, replayDelay)
	}
	return replay.StreamHTTP(cmd.Context(), replayURL, records, replayDelay)
}
