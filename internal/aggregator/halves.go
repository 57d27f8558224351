package aggregator

import "github.com/pable/go-ignobel-metrics/internal/model"

// Halves computes each player's defensive fail rate in periods 1 and 2. A
// defensive action fails when it is Unsuccessful or is itself an Error. A half
// without actions has rate 0.
func Halves(events []model.Event) []model.HalfRates {
	ids := Identities(events)

	type half struct{ actions, fails int }
	type halves [2]half
	tallies := make(map[int64]*halves)

	for _, e := range events {
		if !e.HasPlayer() || !defActionTypes[e.TypeName] {
			continue
		}
		h := tallies[e.PlayerID]
		if h == nil {
			h = &halves{}
			tallies[e.PlayerID] = h
		}
		if e.PeriodID != 1 && e.PeriodID != 2 {
			continue
		}
		p := &h[e.PeriodID-1]
		p.actions++
		p.fails += b2i(e.IsFail || e.TypeName == model.TypeError)
	}

	rate := func(h half) float64 {
		if h.actions == 0 {
			return 0
		}
		return float64(h.fails) / float64(h.actions)
	}

	out := make([]model.HalfRates, 0, len(tallies))
	for _, id := range sortedIDs(tallies) {
		h := tallies[id]
		out = append(out, model.HalfRates{
			PlayerKey:         ids[id],
			FirstHalfActions:  h[0].actions,
			SecondHalfActions: h[1].actions,
			FirstHalfRate:     rate(h[0]),
			SecondHalfRate:    rate(h[1]),
		})
	}
	return out
}
