package awards

import (
	"math"
	"sort"

	"github.com/pable/go-ignobel-metrics/internal/model"
)

// DefaultLeaderboardSize is the deepest rank kept on the leaderboard.
const DefaultLeaderboardSize = 10

func sortIDs(ids []int64) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}

// Rank scores every player that clears the award's threshold. Ties share
// the lowest rank of the group (1, 2, 2, 4). For "high" awards rank 1 is the
// largest score and percentile is the share of the field scoring at or
// below; "low" awards mirror both. No qualifying player gives no rows.
func Rank(rows []model.PlayerMetrics, award model.Award) []model.AwardScore {
	type entry struct {
		key   model.PlayerKey
		score float64
	}
	var field []entry
	for i := range rows {
		r := &rows[i]
		if award.Denominator != "" {
			if den, ok := r.Value(award.Denominator); ok && den < float64(award.MinAttempts) {
				continue
			}
		}
		v, ok := r.Value(award.Metric)
		if !ok {
			return nil
		}
		if math.IsNaN(v) {
			v = 0
		}
		field = append(field, entry{r.PlayerKey, v})
	}
	if len(field) == 0 {
		return nil
	}

	sorted := make([]float64, len(field))
	for i, e := range field {
		sorted[i] = e.score
	}
	sort.Float64s(sorted)
	n := len(sorted)
	low := award.Direction == model.DirectionLow

	out := make([]model.AwardScore, 0, n)
	for _, e := range field {
		below := sort.Search(n, func(i int) bool { return sorted[i] >= e.score }) // strictly less
		atOrBelow := sort.Search(n, func(i int) bool { return sorted[i] > e.score })
		rank := n - atOrBelow + 1
		pct := float64(atOrBelow) / float64(n) * 100
		if low {
			rank = below + 1
			pct = float64(n-below) / float64(n) * 100
		}
		out = append(out, model.AwardScore{
			AwardID:    award.ID,
			PlayerID:   e.key.PlayerID,
			PlayerName: e.key.PlayerName,
			TeamName:   e.key.TeamName,
			Score:      e.score,
			Rank:       rank,
			Percentile: pct,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Rank != out[j].Rank {
			return out[i].Rank < out[j].Rank
		}
		return out[i].PlayerID < out[j].PlayerID
	})
	return out
}

// Leaderboard keeps rows ranked size or better, ordered by award, rank and
// player id. size <= 0 uses DefaultLeaderboardSize.
func Leaderboard(scores []model.AwardScore, size int) []model.AwardScore {
	if size <= 0 {
		size = DefaultLeaderboardSize
	}
	out := make([]model.AwardScore, 0, len(scores))
	for _, s := range scores {
		if s.Rank <= size {
			out = append(out, s)
		}
	}
	SortScores(out)
	return out
}

// SortScores orders scores by award id, rank and player id.
func SortScores(scores []model.AwardScore) {
	sort.SliceStable(scores, func(i, j int) bool {
		a, b := scores[i], scores[j]
		if a.AwardID != b.AwardID {
			return a.AwardID < b.AwardID
		}
		if a.Rank != b.Rank {
			return a.Rank < b.Rank
		}
		return a.PlayerID < b.PlayerID
	})
}

// Top returns the rows of one award ranked n or better from a sorted
// leaderboard.
func Top(board []model.AwardScore, awardID string, n int) []model.AwardScore {
	start := sort.Search(len(board), func(i int) bool { return board[i].AwardID >= awardID })
	var out []model.AwardScore
	for i := start; i < len(board) && board[i].AwardID == awardID; i++ {
		if board[i].Rank > n {
			break
		}
		out = append(out, board[i])
	}
	return out
}
