package profile

import (
	"sort"

	"github.com/pable/go-ignobel-metrics/internal/awards"
	"github.com/pable/go-ignobel-metrics/internal/model"
)

// PodiumRank is the worst rank that still counts as a podium finish.
const PodiumRank = 3

// Teams sums the defensive counts of each team's players and recomputes the
// fail rates from the sums. TeamID is the first id seen for the team name in
// events.
func Teams(defense []model.PlayerAggregate, events []model.Event) []model.TeamStats {
	teamIDs := make(map[string]int64)
	for _, e := range events {
		if e.TeamName == "" {
			continue
		}
		if _, ok := teamIDs[e.TeamName]; !ok {
			teamIDs[e.TeamName] = e.TeamID
		}
	}

	byName := make(map[string]*model.TeamStats)
	for _, p := range defense {
		if p.TeamName == "" {
			continue
		}
		t := byName[p.TeamName]
		if t == nil {
			t = &model.TeamStats{TeamName: p.TeamName, TeamID: teamIDs[p.TeamName]}
			byName[p.TeamName] = t
		}
		t.Players++
		t.DefenseCounts.Add(p.DefenseCounts)
	}

	out := make([]model.TeamStats, 0, len(byName))
	for _, t := range byName {
		t.TackleFailRate = awards.Ratio(float64(t.TackleFail), float64(t.TackleAttempt))
		t.DuelFailRate = awards.Ratio(float64(t.DuelFail), float64(t.DuelAttempt))
		t.BlockFailRate = awards.Ratio(float64(t.BlockFail), float64(t.BlockAttempt))
		t.InterceptionFailRate = awards.Ratio(float64(t.InterceptionFail), float64(t.InterceptionAttempt))
		t.DangerFoulRatio = awards.Ratio(float64(t.DangerFoulCount), float64(t.FoulCount))
		t.CardPerDef = awards.Ratio(float64(t.CardCount), float64(t.DefActions))
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TeamName < out[j].TeamName })
	return out
}

// Players summarises each player's placements: how many awards ranked them,
// how many podiums, and their best placement (lowest rank, then highest
// percentile, then award id).
func Players(metrics []model.PlayerMetrics, scores []model.AwardScore) []model.PlayerProfile {
	byPlayer := make(map[int64][]model.AwardScore)
	for _, s := range scores {
		byPlayer[s.PlayerID] = append(byPlayer[s.PlayerID], s)
	}

	out := make([]model.PlayerProfile, 0, len(metrics))
	for _, m := range metrics {
		p := model.PlayerProfile{PlayerKey: m.PlayerKey}
		placed := byPlayer[m.PlayerID]
		p.AwardsRanked = len(placed)
		for i, s := range placed {
			if s.Rank <= PodiumRank {
				p.Podiums++
			}
			if i == 0 || better(s, p) {
				p.BestAwardID = s.AwardID
				p.BestRank = s.Rank
				p.BestPercentile = s.Percentile
			}
		}
		out = append(out, p)
	}
	return out
}

func better(s model.AwardScore, p model.PlayerProfile) bool {
	if s.Rank != p.BestRank {
		return s.Rank < p.BestRank
	}
	if s.Percentile != p.BestPercentile {
		return s.Percentile > p.BestPercentile
	}
	return s.AwardID < p.BestAwardID
}

// Placements returns a player's award rows ordered by rank then award id.
func Placements(scores []model.AwardScore, playerID int64) []model.AwardScore {
	var out []model.AwardScore
	for _, s := range scores {
		if s.PlayerID == playerID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Rank != out[j].Rank {
			return out[i].Rank < out[j].Rank
		}
		return out[i].AwardID < out[j].AwardID
	})
	return out
}
