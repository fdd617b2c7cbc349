// Package export persists committed player snapshots to an embedded SQLite
// database for offline querying and reporting.
package export

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/pitchpulse/pitchpulse/internal/domain/formula"
	"github.com/pitchpulse/pitchpulse/internal/domain/stats"
	"github.com/pitchpulse/pitchpulse/pkg/metrics"
)

//go:embed schema.sql
var schemaSQL string

const upsertSnapshot = `
INSERT OR REPLACE INTO player_snapshots (
    player_id, name, role, rating,
    accurate_normal_passes, accurate_key_passes, total_normal_passes, total_key_passes,
    duels_won, duels_neutral, duels_total,
    effective_free_kicks, penalties_scored, total_free_kicks,
    shots_on_target_or_goal, shots_off_target, total_shots,
    fouls, own_goals,
    pass_accuracy, duel_effectiveness, free_kick_effectiveness, shots_effectiveness,
    exported_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// Exporter writes career-scope snapshots to SQLite.
type Exporter struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and applies the schema.
func Open(path string) (*Exporter, error) {
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open export db: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply export schema: %w", err)
	}
	return &Exporter{db: db}, nil
}

// Close closes the underlying connection.
func (e *Exporter) Close() error {
	return e.db.Close()
}

// Export upserts the given snapshots in one transaction.
func (e *Exporter) Export(ctx context.Context, snaps []stats.Snapshot) error {
	if len(snaps) == 0 {
		return nil
	}

	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin export tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	stmt, err := tx.PrepareContext(ctx, upsertSnapshot)
	if err != nil {
		return fmt.Errorf("prepare export stmt: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, s := range snaps {
		c := s.Career
		d := s.CareerMetrics
		_, err := stmt.ExecContext(ctx,
			s.Key, s.Profile.Name, s.Profile.Role, s.Rating,
			c.AccurateNormalPasses, c.AccurateKeyPasses, c.TotalNormalPasses, c.TotalKeyPasses,
			c.DuelsWon, c.DuelsNeutral, c.DuelsTotal,
			c.EffectiveFreeKicks, c.PenaltiesScored, c.TotalFreeKicks,
			c.ShotsOnTargetOrGoal, c.ShotsOffTarget, c.TotalShots,
			c.Fouls, c.OwnGoals,
			nullable(d.PassAccuracy), nullable(d.DuelEffectiveness),
			nullable(d.FreeKickEffectiveness), nullable(d.ShotsEffectiveness),
			now,
		)
		if err != nil {
			return fmt.Errorf("export snapshot %s: %w", s.Key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit export tx: %w", err)
	}

	metrics.RecordExportedSnapshots(len(snaps), float64(time.Now().Unix()))
	return nil
}

// nullable maps an undefined metric to SQL NULL.
func nullable(m formula.Metric) any {
	if !m.Valid {
		return nil
	}
	return m.Value
}
