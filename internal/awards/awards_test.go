package awards

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/go-ignobel-metrics/internal/aggregator"
	"github.com/pable/go-ignobel-metrics/internal/model"
	"github.com/pable/go-ignobel-metrics/internal/preprocess"
)

func key(id int64) model.PlayerKey {
	return model.PlayerKey{PlayerID: id, PlayerName: "p", TeamName: "t"}
}

func award(metric, den string, min int) model.Award {
	return model.Award{ID: "x", Metric: metric, Denominator: den, MinAttempts: min, Direction: model.DirectionHigh}
}

// ---- Catalog ----

func TestDefaultsValidate(t *testing.T) {
	c, err := NewCatalog(Defaults())
	require.NoError(t, err)
	assert.Equal(t, 16, c.Len())

	a, ok := c.Get("clearance_panic")
	require.True(t, ok)
	assert.Equal(t, "clearance_panic_rate", a.Metric)
	assert.Equal(t, "clearance", a.Denominator)
	assert.Equal(t, 5, a.MinAttempts)

	for _, a := range c.All() {
		assert.NotEmpty(t, a.Denominator, a.ID)
		assert.Equal(t, model.DirectionHigh, a.Direction, a.ID)
	}
}

func TestNewCatalogRejects(t *testing.T) {
	cases := map[string][]model.Award{
		"empty id":          {{Metric: "tackle_fail_rate"}},
		"duplicate":         {{ID: "a", Metric: "tackle_fail_rate"}, {ID: "a", Metric: "duel_fail_rate"}},
		"unknown metric":    {{ID: "a", Metric: "goals_per_nap"}},
		"unknown column":    {{ID: "a", Metric: "tackle_fail_rate", Denominator: "naps"}},
		"negative min":      {{ID: "a", Metric: "tackle_fail_rate", MinAttempts: -1}},
		"bad direction":     {{ID: "a", Metric: "tackle_fail_rate", Direction: "sideways"}},
		"identity as metric": {{ID: "a", Metric: "player_id"}},
	}
	for name, list := range cases {
		_, err := NewCatalog(list)
		assert.Error(t, err, name)
	}
}

func TestNewCatalogFillsDefaults(t *testing.T) {
	c, err := NewCatalog([]model.Award{{ID: "mine", Metric: "duel_fail_rate"}})
	require.NoError(t, err)
	a, _ := c.Get("mine")
	assert.Equal(t, "duel_attempt", a.Denominator)
	assert.Equal(t, model.DirectionHigh, a.Direction)
	assert.Equal(t, "mine", a.Title)
}

// ---- Metrics ----

func TestRatioZeroGuard(t *testing.T) {
	assert.Equal(t, 0.0, Ratio(5, 0))
	assert.Equal(t, 0.0, Ratio(0, 0))
	assert.Equal(t, 0.25, Ratio(1, 4))
}

// Every metric is exactly 0 when its denominator is 0.
func TestComputeMetricsZeroDenominators(t *testing.T) {
	rows := ComputeMetrics(Inputs{
		Defense: []model.PlayerAggregate{{PlayerKey: key(1), DefenseCounts: model.DefenseCounts{
			TackleFail: 3, DuelFail: 2, DangerFoulCount: 1, BlockFail: 1, InterceptionFail: 1, CardCount: 1,
		}}},
		Attack: []model.AttackAggregate{{PlayerKey: key(1), AttackCounts: model.AttackCounts{
			OffTargetShots: 2, PassReceived: 9, CrossFail: 1,
		}}},
		Panic:    []model.PanicCount{{PlayerKey: key(1), ConcedeShot10: 1}},
		Turnover: []model.TurnoverCount{{PlayerKey: key(1), DefThirdFails: 1}},
	})
	require.Len(t, rows, 1)
	m := rows[0]
	for metric := range Denominators {
		v, ok := m.Value(metric)
		require.True(t, ok, metric)
		assert.Equal(t, 0.0, v, metric)
		assert.False(t, math.IsNaN(v), metric)
	}
}

func TestComputeMetricsUnionPopulation(t *testing.T) {
	rows := ComputeMetrics(Inputs{
		Defense: []model.PlayerAggregate{
			{PlayerKey: key(3), DefenseCounts: model.DefenseCounts{TackleAttempt: 4, TackleFail: 1}},
		},
		Attack: []model.AttackAggregate{
			{PlayerKey: key(1), AttackCounts: model.AttackCounts{Games: 2, Offsides: 3, PassReceived: 4, PassGiven: 2}},
		},
		Halves: []model.HalfRates{
			{PlayerKey: key(2), FirstHalfRate: 0.1, SecondHalfRate: 0.4},
		},
		Panic: []model.PanicCount{
			{PlayerKey: key(3), Clearance: 4, ConcedeShot10: 1},
		},
	})
	require.Len(t, rows, 3)
	assert.Equal(t, []int64{1, 2, 3}, []int64{rows[0].PlayerID, rows[1].PlayerID, rows[2].PlayerID})

	assert.Equal(t, 1.5, rows[0].OffsidePerGame)
	assert.Equal(t, 2.0, rows[0].ReceiveToGiveRatio)
	assert.Equal(t, 0.0, rows[0].TackleFailRate)

	assert.InDelta(t, 0.3, rows[1].SecondHalfDrop, 1e-9)

	assert.Equal(t, 0.25, rows[2].TackleFailRate)
	assert.Equal(t, 0.25, rows[2].ClearancePanicRate)
	assert.Equal(t, 0.0, rows[2].OffsidePerGame)
}

// ---- Ranking ----

func scored(vals ...float64) []model.PlayerMetrics {
	rows := make([]model.PlayerMetrics, len(vals))
	for i, v := range vals {
		rows[i] = model.PlayerMetrics{PlayerKey: key(int64(i + 1))}
		rows[i].TackleAttempt = 10
		rows[i].TackleFailRate = v
	}
	return rows
}

func TestRankTiesShareMinimum(t *testing.T) {
	out := Rank(scored(0.5, 0.9, 0.5, 0.1), award("tackle_fail_rate", "tackle_attempt", 5))
	require.Len(t, out, 4)

	byPlayer := map[int64]model.AwardScore{}
	for _, s := range out {
		byPlayer[s.PlayerID] = s
	}
	assert.Equal(t, 1, byPlayer[2].Rank)
	assert.Equal(t, 2, byPlayer[1].Rank)
	assert.Equal(t, 2, byPlayer[3].Rank)
	assert.Equal(t, 4, byPlayer[4].Rank)

	assert.Equal(t, 100.0, byPlayer[2].Percentile)
	assert.Equal(t, 75.0, byPlayer[1].Percentile)
	assert.Equal(t, 25.0, byPlayer[4].Percentile)

	// Output order: rank, then player id.
	assert.Equal(t, []int64{2, 1, 3, 4}, []int64{out[0].PlayerID, out[1].PlayerID, out[2].PlayerID, out[3].PlayerID})
}

func TestRankMonotoneAndBounded(t *testing.T) {
	vals := []float64{0.3, 0.3, 0.1, 0.7, 0, 0.7, 0.2, math.NaN()}
	out := Rank(scored(vals...), award("tackle_fail_rate", "", 0))
	require.Len(t, out, len(vals))
	for i, s := range out {
		assert.GreaterOrEqual(t, s.Rank, 1)
		assert.LessOrEqual(t, s.Rank, len(vals))
		assert.Greater(t, s.Percentile, 0.0)
		assert.LessOrEqual(t, s.Percentile, 100.0)
		if i > 0 {
			assert.GreaterOrEqual(t, s.Rank, out[i-1].Rank)
			assert.LessOrEqual(t, s.Score, out[i-1].Score)
		}
	}
}

func TestRankThreshold(t *testing.T) {
	rows := scored(0.9, 0.2)
	rows[0].TackleAttempt = 4
	out := Rank(rows, award("tackle_fail_rate", "tackle_attempt", 5))
	require.Len(t, out, 1)
	assert.Equal(t, int64(2), out[0].PlayerID)
	assert.Equal(t, 1, out[0].Rank)
	assert.Equal(t, 100.0, out[0].Percentile)
}

func TestRankNoQualifiers(t *testing.T) {
	assert.Empty(t, Rank(scored(0.5), award("tackle_fail_rate", "tackle_attempt", 50)))
	assert.Empty(t, Rank(nil, award("tackle_fail_rate", "tackle_attempt", 0)))
}

func TestRankLowDirection(t *testing.T) {
	a := award("tackle_fail_rate", "", 0)
	a.Direction = model.DirectionLow
	out := Rank(scored(0.5, 0.1, 0.9), a)
	require.Len(t, out, 3)
	assert.Equal(t, int64(2), out[0].PlayerID)
	assert.Equal(t, 1, out[0].Rank)
	assert.Equal(t, 100.0, out[0].Percentile)
	assert.Equal(t, 3, out[2].Rank)
}

func TestLeaderboardAndTop(t *testing.T) {
	var scores []model.AwardScore
	for i := 1; i <= 12; i++ {
		scores = append(scores, model.AwardScore{AwardID: "b", PlayerID: int64(i), Rank: i})
	}
	scores = append(scores,
		model.AwardScore{AwardID: "a", PlayerID: 7, Rank: 1},
		model.AwardScore{AwardID: "a", PlayerID: 3, Rank: 1},
	)
	board := Leaderboard(scores, 0)
	require.Len(t, board, 12)
	assert.Equal(t, "a", board[0].AwardID)
	assert.Equal(t, int64(3), board[0].PlayerID)
	assert.Equal(t, 10, board[len(board)-1].Rank)

	top := Top(board, "b", 3)
	require.Len(t, top, 3)
	assert.Equal(t, 3, top[2].Rank)
	assert.Len(t, Top(board, "a", 1), 2)
	assert.Empty(t, Top(board, "zzz", 3))
}

// ---- End to end ----

func tackle(player, action int64, result string) model.Event {
	return model.Event{
		GameID: 1, PeriodID: 1, TimeSeconds: float64(action), ActionID: action,
		PlayerID: player, PlayerName: "p", TeamID: 1, TeamName: "t",
		TypeName: model.TypeTackle, ResultName: result, StartX: 50, StartY: 30,
	}
}

func TestTackleAwardEndToEnd(t *testing.T) {
	var evs []model.Event
	results := []string{
		model.ResultUnsuccessful, model.ResultUnsuccessful,
		model.ResultSuccessful, model.ResultSuccessful, model.ResultSuccessful,
	}
	for i, r := range results {
		evs = append(evs, tackle(1, int64(i+1), r))
	}
	for i := 0; i < 3; i++ {
		evs = append(evs, tackle(2, int64(10+i), model.ResultUnsuccessful))
	}
	clr := tackle(3, 20, "")
	clr.TypeName = model.TypeBlock
	evs = append(evs, clr)

	pre := preprocess.Events(evs)
	rows := ComputeMetrics(Inputs{
		Defense:  aggregator.Defense(pre),
		Attack:   aggregator.Attack(pre),
		Panic:    aggregator.ClearancePanic(pre),
		Halves:   aggregator.Halves(pre),
		Turnover: aggregator.Turnover(pre),
	})
	require.Len(t, rows, 3)
	for _, r := range rows {
		assert.Equal(t, 0.0, r.ClearancePanicRate, "player %d", r.PlayerID)
	}

	c, err := NewCatalog(Defaults())
	require.NoError(t, err)
	a, _ := c.Get("tackle_fail")
	out := Rank(rows, a)
	require.Len(t, out, 1, "only the player with five tackles qualifies")
	assert.Equal(t, int64(1), out[0].PlayerID)
	assert.InDelta(t, 0.4, out[0].Score, 1e-12)
	assert.Equal(t, 1, out[0].Rank)
}
