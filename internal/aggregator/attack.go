package aggregator

import "github.com/pable/go-ignobel-metrics/internal/model"

// Penalty box in event-log coordinates (attacking left to right).
const (
	PenaltyBoxMinX = 88.5
	PenaltyBoxMinY = 13.84
	PenaltyBoxMaxY = 54.16
)

func inPenaltyBox(e model.Event) bool {
	return e.StartX >= PenaltyBoxMinX && e.StartY >= PenaltyBoxMinY && e.StartY <= PenaltyBoxMaxY
}

// Attack counts the attacking categories per player. Games is the number of
// distinct games the player has any event in, never less than 1.
func Attack(events []model.Event) []model.AttackAggregate {
	ids := Identities(events)

	// ---- Pass 1: games played, over every event of the player. ----

	games := make(map[int64]map[int64]struct{})
	for _, e := range events {
		if !e.HasPlayer() {
			continue
		}
		g := games[e.PlayerID]
		if g == nil {
			g = make(map[int64]struct{})
			games[e.PlayerID] = g
		}
		g[e.GameID] = struct{}{}
	}

	// ---- Pass 2: attacking categories. ----

	counts := make(map[int64]*model.AttackCounts)
	get := func(id int64) *model.AttackCounts {
		c := counts[id]
		if c == nil {
			c = &model.AttackCounts{}
			counts[id] = c
		}
		return c
	}

	for _, e := range events {
		if !e.HasPlayer() {
			continue
		}
		switch {
		case shotTypes[e.TypeName]:
			c := get(e.PlayerID)
			c.TotalShots++
			c.OffTargetShots += b2i(e.ResultName == model.ResultOffTarget)
			if inPenaltyBox(e) {
				c.PenaltyBoxShots++
				c.PenaltyBoxMiss += b2i(e.ResultName != model.ResultGoal && e.ResultName != model.ResultOnTarget)
			}
		case e.TypeName == model.TypeOffside:
			get(e.PlayerID).Offsides++
		case e.TypeName == model.TypePassReceived:
			get(e.PlayerID).PassReceived++
		case e.TypeName == model.TypePass:
			get(e.PlayerID).PassGiven++
		case e.TypeName == model.TypeCross:
			c := get(e.PlayerID)
			c.TotalCrosses++
			c.CrossFail += b2i(e.ResultName != model.ResultSuccessful)
		case e.TypeName == model.TypeDuel:
			c := get(e.PlayerID)
			c.TotalDuelsAttack++
			c.DuelFailAttack += b2i(e.IsFail)
			c.AerialFail += b2i(e.IsFail)
		}
	}

	out := make([]model.AttackAggregate, 0, len(counts))
	for _, id := range sortedIDs(counts) {
		c := *counts[id]
		c.Games = max(len(games[id]), 1)
		out = append(out, model.AttackAggregate{PlayerKey: ids[id], AttackCounts: c})
	}
	return out
}
