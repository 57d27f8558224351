package storage

import (
	"fmt"
	"time"

	"github.com/pable/go-ignobel-metrics/internal/model"
)

// HistoryEntry is one award placement of a player in one stored run.
type HistoryEntry struct {
	RunID      string
	CreatedAt  time.Time
	AwardID    string
	Score      float64
	Rank       int
	Percentile float64
}

// PlayerHistory returns a player's placements across every run created at or
// after since, newest run first.
func (db *DB) PlayerHistory(playerID int64, since time.Time) ([]HistoryEntry, error) {
	rows, err := db.conn.Query(`
		SELECT r.id, r.created_at, s.award_id, s.score, s.rank, s.percentile
		FROM award_scores s
		JOIN runs r ON r.id = s.run_id
		WHERE s.player_id = ?
		  AND r.created_at >= ?
		ORDER BY r.created_at DESC, s.award_id`,
		playerID, since.UTC().Format(timeLayout))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []HistoryEntry
	for rows.Next() {
		var h HistoryEntry
		var created string
		if err := rows.Scan(&h.RunID, &created, &h.AwardID, &h.Score, &h.Rank, &h.Percentile); err != nil {
			return nil, err
		}
		if h.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
			return nil, fmt.Errorf("run %s: bad created_at %q: %w", h.RunID, created, err)
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// GetScoresForPlayers returns the placements of the given players in one
// run, grouped by player then best rank.
func (db *DB) GetScoresForPlayers(runID string, playerIDs []int64) ([]model.AwardScore, error) {
	if len(playerIDs) == 0 {
		return nil, nil
	}
	args := make([]any, 0, len(playerIDs)+1)
	args = append(args, runID)
	for _, id := range playerIDs {
		args = append(args, id)
	}
	where := fmt.Sprintf("WHERE run_id = ? AND player_id IN (%s) ORDER BY player_id, rank, award_id",
		placeholders(len(playerIDs)))
	return selectRows(db, "award_scores", model.AwardScoreFields, where, args...)
}
