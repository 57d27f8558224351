// Package aggregator turns preprocessed events into per-player count tables.
// Every function expects events in the order produced by preprocess.Events.
package aggregator

import (
	"sort"

	"github.com/pable/go-ignobel-metrics/internal/model"
)

// Event type families.
var (
	foulTypes      = typeSet(model.TypeFoul, model.TypeHandballFoul, model.TypeHit)
	clearanceTypes = typeSet(model.TypeClearance, model.TypeAerialClearance)
	defActionTypes = typeSet(
		model.TypeTackle, model.TypeDuel, model.TypeFoul, model.TypeInterception, model.TypeBlock,
		model.TypeClearance, model.TypeIntervention, model.TypeError, model.TypeAerialClearance,
	)
	shotTypes     = typeSet(model.TypeShot, model.TypeShotFreekick)
	turnoverTypes = typeSet(model.TypePass, model.TypeCarry)
)

func typeSet(names ...string) map[string]bool {
	s := make(map[string]bool, len(names))
	for _, n := range names {
		s[n] = true
	}
	return s
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Identities resolves each player's name and team: the first non-empty value
// seen in temporal order, so gaps in either column are filled from the
// player's other rows. Events without a player are skipped.
func Identities(events []model.Event) map[int64]model.PlayerKey {
	ids := make(map[int64]model.PlayerKey)
	for _, e := range events {
		if !e.HasPlayer() {
			continue
		}
		k, ok := ids[e.PlayerID]
		if !ok {
			k.PlayerID = e.PlayerID
		}
		if k.PlayerName == "" {
			k.PlayerName = e.PlayerName
		}
		if k.TeamName == "" {
			k.TeamName = e.TeamName
		}
		ids[e.PlayerID] = k
	}
	return ids
}

// sortedIDs returns the keys of m in ascending order.
func sortedIDs[V any](m map[int64]V) []int64 {
	out := make([]int64, 0, len(m))
	for id := range m {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Defense counts attempts and fails per defensive category. A player appears
// once if they triggered any category; categories they never triggered are 0.
func Defense(events []model.Event) []model.PlayerAggregate {
	ids := Identities(events)
	counts := make(map[int64]*model.DefenseCounts)

	for _, e := range events {
		if !e.HasPlayer() {
			continue
		}
		t := e.TypeName
		if !defActionTypes[t] && !foulTypes[t] && !e.IsCard {
			continue
		}
		c := counts[e.PlayerID]
		if c == nil {
			c = &model.DefenseCounts{}
			counts[e.PlayerID] = c
		}

		switch t {
		case model.TypeTackle:
			c.TackleAttempt++
			c.TackleFail += b2i(e.IsFail)
		case model.TypeDuel:
			c.DuelAttempt++
			c.DuelFail += b2i(e.IsFail)
		case model.TypeBlock:
			c.BlockAttempt++
			c.BlockFail += b2i(e.IsFail)
		case model.TypeInterception:
			c.InterceptionAttempt++
			c.InterceptionFail += b2i(e.IsFail)
		}
		if foulTypes[t] {
			c.FoulCount++
			c.DangerFoulCount += b2i(e.InDefThird)
		}
		if clearanceTypes[t] {
			c.ClearanceAttempt++
		}
		if e.IsCard {
			c.CardCount++
		}
		if defActionTypes[t] {
			c.DefActions++
		}
	}

	out := make([]model.PlayerAggregate, 0, len(counts))
	for _, id := range sortedIDs(counts) {
		out = append(out, model.PlayerAggregate{PlayerKey: ids[id], DefenseCounts: *counts[id]})
	}
	return out
}

// Turnover counts passes and carries started in the defensive third and how
// many of them failed.
func Turnover(events []model.Event) []model.TurnoverCount {
	ids := Identities(events)
	type tally struct{ attempts, fails int }
	tallies := make(map[int64]*tally)

	for _, e := range events {
		if !e.HasPlayer() || !turnoverTypes[e.TypeName] || !e.InDefThird {
			continue
		}
		t := tallies[e.PlayerID]
		if t == nil {
			t = &tally{}
			tallies[e.PlayerID] = t
		}
		t.attempts++
		t.fails += b2i(e.IsFail)
	}

	out := make([]model.TurnoverCount, 0, len(tallies))
	for _, id := range sortedIDs(tallies) {
		t := tallies[id]
		out = append(out, model.TurnoverCount{PlayerKey: ids[id], DefThirdAttempts: t.attempts, DefThirdFails: t.fails})
	}
	return out
}
