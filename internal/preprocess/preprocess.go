// Package preprocess normalizes raw event rows into temporal order and
// derives the boolean flags every later stage reads.
package preprocess

import (
	"sort"

	"github.com/pable/go-ignobel-metrics/internal/model"
)

// DefThirdMaxX is the largest start_x still inside a team's defensive third.
const DefThirdMaxX = 35.0

// Events returns a sorted copy of events with derived flags set. The input
// slice is left untouched and no row is dropped.
func Events(events []model.Event) []model.Event {
	out := make([]model.Event, len(events))
	copy(out, events)

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.GameID != b.GameID {
			return a.GameID < b.GameID
		}
		if a.PeriodID != b.PeriodID {
			return a.PeriodID < b.PeriodID
		}
		if c := model.CompareTime(a.TimeSeconds, b.TimeSeconds); c != 0 {
			return c < 0
		}
		return a.ActionID < b.ActionID
	})

	for i := range out {
		Flag(&out[i])
	}
	return out
}

// Flag sets the derived fields of e from its source fields.
func Flag(e *model.Event) {
	e.IsSuccess = e.ResultName == model.ResultSuccessful
	e.IsFail = e.ResultName == model.ResultUnsuccessful
	e.IsCard = model.IsCardResult(e.ResultName)
	// NaN compares false, so a missing start_x is never in the defensive third.
	e.InDefThird = e.StartX <= DefThirdMaxX
}
