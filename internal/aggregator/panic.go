package aggregator

import (
	"sort"

	"github.com/pable/go-ignobel-metrics/internal/model"
)

// ConcedeWindowSeconds is how soon after a clearance an opposing shot counts
// against the clearing player. Both ends are inclusive.
const ConcedeWindowSeconds = 10.0

type periodKey struct {
	game   int64
	period int
}

func byClock(evs []model.Event) {
	sort.SliceStable(evs, func(i, j int) bool {
		if c := model.CompareTime(evs[i].TimeSeconds, evs[j].TimeSeconds); c != 0 {
			return c < 0
		}
		return evs[i].ActionID < evs[j].ActionID
	})
}

// ClearancePanic pairs every clearance with the first shot at or after it in
// the same game and period and counts how often that shot came from the
// other team within ConcedeWindowSeconds. Periods without a shot contribute
// nothing.
func ClearancePanic(events []model.Event) []model.PanicCount {
	ids := Identities(events)

	clearances := make(map[periodKey][]model.Event)
	shots := make(map[periodKey][]model.Event)
	for _, e := range events {
		k := periodKey{e.GameID, e.PeriodID}
		switch {
		case clearanceTypes[e.TypeName] && e.HasPlayer():
			clearances[k] = append(clearances[k], e)
		case e.TypeName == model.TypeShot:
			shots[k] = append(shots[k], e)
		}
	}

	type tally struct{ clearance, conceded int }
	tallies := make(map[int64]*tally)

	for k, clr := range clearances {
		sh := shots[k]
		if len(sh) == 0 {
			continue
		}
		byClock(clr)
		byClock(sh)

		// Two-pointer merge: j only moves forward, so each period is O(n+m).
		j := 0
		for _, c := range clr {
			for j < len(sh) && sh[j].TimeSeconds < c.TimeSeconds {
				j++
			}
			t := tallies[c.PlayerID]
			if t == nil {
				t = &tally{}
				tallies[c.PlayerID] = t
			}
			t.clearance++
			if j == len(sh) {
				continue
			}
			next := sh[j]
			dt := next.TimeSeconds - c.TimeSeconds
			if dt >= 0 && dt <= ConcedeWindowSeconds && next.TeamID != c.TeamID {
				t.conceded++
			}
		}
	}

	out := make([]model.PanicCount, 0, len(tallies))
	for _, id := range sortedIDs(tallies) {
		t := tallies[id]
		out = append(out, model.PanicCount{PlayerKey: ids[id], Clearance: t.clearance, ConcedeShot10: t.conceded})
	}
	return out
}
