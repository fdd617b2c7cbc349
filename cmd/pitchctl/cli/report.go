package cli

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/pitchpulse/pitchpulse/internal/adapters/export"
)

var (
	reportDB    string
	reportLimit int
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show top rated players from an exported snapshot database",
	Args:  cobra.NoArgs,
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportDB, "db", "pitchpulse.db", "path to the snapshot SQLite database")
	reportCmd.Flags().IntVar(&reportLimit, "limit", 20, "number of players to show")
}

func runReport(cmd *cobra.Command, args []string) error {
	db, err := export.Open(reportDB)
	if err != nil {
		return fmt.Errorf("open snapshot db: %w", err)
	}
	defer db.Close()

	total, err := db.CountSnapshots(cmd.Context())
	if err != nil {
		return err
	}
	if total == 0 {
		fmt.Fprintln(os.Stdout, "No snapshots exported yet. Run the service with export_path set.")
		return nil
	}

	players, err := db.TopPlayers(cmd.Context(), reportLimit)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "\n--- Top Rated Players (%d of %d) ---\n\n", len(players), total)
	table := tablewriter.NewTable(os.Stdout, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
	table.Header("PLAYER", "NAME", "ROLE", "RATING", "PASSES", "PASS%", "DUELS", "DUEL%", "FKS", "SHOTS", "FOULS")
	for _, p := range players {
		table.Append(
			p.PlayerID,
			p.Name,
			p.Role,
			fmt.Sprintf("%.4f", p.Rating),
			fmt.Sprintf("%d", p.TotalPasses),
			pct(p.PassAccuracy),
			fmt.Sprintf("%d", p.DuelsTotal),
			pct(p.DuelEffectiveness),
			fmt.Sprintf("%d", p.TotalFreeKicks),
			fmt.Sprintf("%d", p.TotalShots),
			fmt.Sprintf("%d", p.Fouls),
		)
	}
	table.Render()
	return nil
}

func pct(v sql.NullFloat64) string {
	if !v.Valid {
		return "-"
	}
	return fmt.Sprintf("%.1f%%", v.Float64*100)
}
