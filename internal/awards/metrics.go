package awards

import (
	"math"

	"github.com/pable/go-ignobel-metrics/internal/model"
)

// Inputs are the per-player tables the metrics are derived from. Any of
// them may be empty.
type Inputs struct {
	Defense  []model.PlayerAggregate
	Attack   []model.AttackAggregate
	Panic    []model.PanicCount
	Halves   []model.HalfRates
	Turnover []model.TurnoverCount
}

// Ratio divides num by den, returning 0 when den is 0.
func Ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	r := num / den
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	return r
}

func ratio(num, den int) float64 { return Ratio(float64(num), float64(den)) }

// ComputeMetrics joins the input tables on player id and derives every
// metric. The population is every player in any input; a player missing from
// an input keeps zero counts for it. Rows are ordered by player id.
func ComputeMetrics(in Inputs) []model.PlayerMetrics {
	byID := make(map[int64]*model.PlayerMetrics)
	var order []int64
	row := func(k model.PlayerKey) *model.PlayerMetrics {
		m := byID[k.PlayerID]
		if m == nil {
			m = &model.PlayerMetrics{PlayerKey: k}
			byID[k.PlayerID] = m
			order = append(order, k.PlayerID)
			return m
		}
		if m.PlayerName == "" {
			m.PlayerName = k.PlayerName
		}
		if m.TeamName == "" {
			m.TeamName = k.TeamName
		}
		return m
	}

	for _, d := range in.Defense {
		row(d.PlayerKey).DefenseCounts = d.DefenseCounts
	}
	for _, a := range in.Attack {
		row(a.PlayerKey).AttackCounts = a.AttackCounts
	}
	for _, p := range in.Panic {
		m := row(p.PlayerKey)
		m.Clearance = p.Clearance
		m.ConcedeShot10 = p.ConcedeShot10
	}
	for _, h := range in.Halves {
		m := row(h.PlayerKey)
		m.FirstHalfActions = h.FirstHalfActions
		m.SecondHalfActions = h.SecondHalfActions
		m.FirstHalfRate = h.FirstHalfRate
		m.SecondHalfRate = h.SecondHalfRate
	}
	for _, t := range in.Turnover {
		m := row(t.PlayerKey)
		m.DefThirdAttempts = t.DefThirdAttempts
		m.DefThirdFails = t.DefThirdFails
	}

	sortIDs(order)
	out := make([]model.PlayerMetrics, 0, len(order))
	for _, id := range order {
		m := byID[id]
		derive(m)
		out = append(out, *m)
	}
	return out
}

// derive fills the metric fields of m from its counts.
func derive(m *model.PlayerMetrics) {
	m.TackleFailRate = ratio(m.TackleFail, m.TackleAttempt)
	m.CardPerDef = ratio(m.CardCount, m.DefActions)
	m.DangerFoulRatio = ratio(m.DangerFoulCount, m.FoulCount)
	m.ClearancePanicRate = ratio(m.ConcedeShot10, m.Clearance)
	m.BlockFailRate = ratio(m.BlockFail, m.BlockAttempt)
	m.InterceptionFailRate = ratio(m.InterceptionFail, m.InterceptionAttempt)
	m.DuelFailRate = ratio(m.DuelFail, m.DuelAttempt)
	m.DefThirdTurnoverRate = ratio(m.DefThirdFails, m.DefThirdAttempts)
	m.SecondHalfDrop = m.SecondHalfRate - m.FirstHalfRate

	// Per-game metrics need at least one game; players with no attacking
	// events have Games 0 and every numerator 0.
	m.OffTargetPerGame = ratio(m.OffTargetShots, m.Games)
	m.PenaltyBoxMissPerGame = ratio(m.PenaltyBoxMiss, m.Games)
	m.OffsidePerGame = ratio(m.Offsides, m.Games)
	m.CrossFailPerGame = ratio(m.CrossFail, m.Games)
	m.DuelFailPerGameAttack = ratio(m.DuelFailAttack, m.Games)
	m.AerialFailPerGame = ratio(m.AerialFail, m.Games)
	m.ReceiveToGiveRatio = ratio(m.PassReceived, m.PassGiven)
}
