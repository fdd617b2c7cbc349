package export

import (
	"context"
	"database/sql"
	"fmt"
)

// ReportRow is the read shape for exported snapshots, used by the CLI
// report command.
type ReportRow struct {
	PlayerID              string
	Name                  string
	Role                  string
	Rating                float64
	TotalPasses           int64
	DuelsTotal            int64
	TotalFreeKicks        int64
	TotalShots            int64
	Fouls                 int64
	OwnGoals              int64
	PassAccuracy          sql.NullFloat64
	DuelEffectiveness     sql.NullFloat64
	FreeKickEffectiveness sql.NullFloat64
	ShotsEffectiveness    sql.NullFloat64
	ExportedAt            string
}

// TopPlayers returns the highest rated exported snapshots, rating
// descending with player id as the tie breaker.
func (e *Exporter) TopPlayers(ctx context.Context, limit int) ([]ReportRow, error) {
	const q = `
SELECT player_id, name, role, rating,
       total_normal_passes + total_key_passes,
       duels_total, total_free_kicks, total_shots, fouls, own_goals,
       pass_accuracy, duel_effectiveness, free_kick_effectiveness, shots_effectiveness,
       exported_at
FROM player_snapshots
ORDER BY rating DESC, player_id ASC
LIMIT ?`

	rows, err := e.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	var out []ReportRow
	for rows.Next() {
		var r ReportRow
		if err := rows.Scan(
			&r.PlayerID, &r.Name, &r.Role, &r.Rating,
			&r.TotalPasses, &r.DuelsTotal, &r.TotalFreeKicks, &r.TotalShots, &r.Fouls, &r.OwnGoals,
			&r.PassAccuracy, &r.DuelEffectiveness, &r.FreeKickEffectiveness, &r.ShotsEffectiveness,
			&r.ExportedAt,
		); err != nil {
			return nil, fmt.Errorf("scan snapshot row: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshots: %w", err)
	}
	return out, nil
}

// CountSnapshots returns the number of exported player rows.
func (e *Exporter) CountSnapshots(ctx context.Context) (int, error) {
	var n int
	if err := e.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM player_snapshots`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count snapshots: %w", err)
	}
	return n, nil
}
