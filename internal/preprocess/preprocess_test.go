package preprocess

import (
	"math"
	"testing"

	"github.com/pable/go-ignobel-metrics/internal/model"
)

func ev(game int64, period int, t float64, action int64, result string, x float64) model.Event {
	return model.Event{
		GameID: game, PeriodID: period, TimeSeconds: t, ActionID: action,
		PlayerID: 1, TypeName: model.TypeTackle, ResultName: result,
		StartX: x, StartY: 30, EndX: math.NaN(), EndY: math.NaN(),
	}
}

func TestEventsSortsTemporally(t *testing.T) {
	in := []model.Event{
		ev(2, 1, 5, 1, "", 50),
		ev(1, 2, 1, 7, "", 50),
		ev(1, 1, 9, 3, "", 50),
		ev(1, 1, 9, 2, "", 50),
		ev(1, 1, 3, 9, "", 50),
	}
	out := Events(in)
	if len(out) != len(in) {
		t.Fatalf("got %d rows, want %d", len(out), len(in))
	}
	want := []int64{9, 2, 3, 7, 1}
	for i, e := range out {
		if e.ActionID != want[i] {
			t.Errorf("row %d: action_id %d, want %d", i, e.ActionID, want[i])
		}
	}
	if in[0].ActionID != 1 || in[0].GameID != 2 {
		t.Error("input slice was reordered")
	}
}

func TestEventsMissingTimeSortsLast(t *testing.T) {
	out := Events([]model.Event{
		ev(1, 1, 10, 1, "", 50),
		ev(1, 1, 25, 2, "", 50),
		ev(1, 1, math.NaN(), 3, "", 50),
		ev(1, 1, 12, 4, "", 50),
		ev(1, 2, 1, 5, "", 50),
	})
	want := []int64{1, 4, 2, 3, 5}
	for i, e := range out {
		if e.ActionID != want[i] {
			t.Errorf("row %d: action_id %d, want %d", i, e.ActionID, want[i])
		}
	}
}

func TestEventsFlags(t *testing.T) {
	cases := []struct {
		result                     string
		x                          float64
		success, fail, card, third bool
	}{
		{model.ResultSuccessful, 10, true, false, false, true},
		{model.ResultUnsuccessful, 35, false, true, false, true},
		{model.ResultYellowCard, 35.01, false, false, true, false},
		{model.ResultSecondYellowCard, 80, false, false, true, false},
		{model.ResultDirectRedCard, 0, false, false, true, true},
		{model.ResultGoal, math.NaN(), false, false, false, false},
	}
	for _, c := range cases {
		out := Events([]model.Event{ev(1, 1, 0, 1, c.result, c.x)})
		e := out[0]
		if e.IsSuccess != c.success || e.IsFail != c.fail || e.IsCard != c.card || e.InDefThird != c.third {
			t.Errorf("%q x=%v: got success=%v fail=%v card=%v third=%v",
				c.result, c.x, e.IsSuccess, e.IsFail, e.IsCard, e.InDefThird)
		}
	}
}

func TestEventsIdempotent(t *testing.T) {
	in := []model.Event{
		ev(1, 1, 4, 2, model.ResultUnsuccessful, 20),
		ev(1, 1, 4, 1, model.ResultSuccessful, 60),
		ev(1, 2, 0, 3, model.ResultYellowCard, 34),
	}
	once := Events(in)
	// Corrupt a derived flag; a second pass must recompute it from source fields.
	once[0].IsCard = true
	twice := Events(once)
	for i := range twice {
		a, b := Events(in)[i], twice[i]
		if a.IsSuccess != b.IsSuccess || a.IsFail != b.IsFail || a.IsCard != b.IsCard || a.InDefThird != b.InDefThird {
			t.Errorf("row %d: derived flags differ after second pass", i)
		}
	}
}

func TestEventsEmpty(t *testing.T) {
	if out := Events(nil); len(out) != 0 {
		t.Errorf("got %d rows for nil input", len(out))
	}
}
