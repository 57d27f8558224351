package model

import (
	"math"
	"time"
)

// ---- Event vocabulary ----

// Action type names as they appear in the event log.
const (
	TypePass            = "Pass"
	TypePassReceived    = "Pass Received"
	TypeCarry           = "Carry"
	TypeShot            = "Shot"
	TypeShotFreekick    = "Shot_Freekick"
	TypeCross           = "Cross"
	TypeDuel            = "Duel"
	TypeTackle          = "Tackle"
	TypeInterception    = "Interception"
	TypeFoul            = "Foul"
	TypeHandballFoul    = "Handball_Foul"
	TypeHit             = "Hit"
	TypeClearance       = "Clearance"
	TypeAerialClearance = "Aerial Clearance"
	TypeBlock           = "Block"
	TypeIntervention    = "Intervention"
	TypeError           = "Error"
	TypeOffside         = "Offside"
)

// Result names as they appear in the event log.
const (
	ResultSuccessful       = "Successful"
	ResultUnsuccessful     = "Unsuccessful"
	ResultGoal             = "Goal"
	ResultOnTarget         = "On Target"
	ResultOffTarget        = "Off Target"
	ResultYellowCard       = "Yellow_Card"
	ResultSecondYellowCard = "Second_Yellow_Card"
	ResultDirectRedCard    = "Direct_Red_Card"
)

// IsCardResult reports whether a result name records a booking.
func IsCardResult(result string) bool {
	switch result {
	case ResultYellowCard, ResultSecondYellowCard, ResultDirectRedCard:
		return true
	}
	return false
}

// ---- Raw input rows ----

// Event is one observed action from the match event log. Coordinates are NaN
// when the source cell was empty. PlayerID is 0 for rows without a player.
type Event struct {
	GameID      int64
	PeriodID    int
	TimeSeconds float64
	ActionID    int64
	PlayerID    int64
	PlayerName  string
	TeamID      int64
	TeamName    string
	TypeName    string
	ResultName  string
	StartX      float64
	StartY      float64
	EndX        float64
	EndY        float64

	// Derived by the preprocessor; depend only on the fields above.
	IsSuccess  bool
	IsFail     bool
	IsCard     bool
	InDefThird bool
}

// HasPlayer reports whether the event is attributed to a player.
func (e Event) HasPlayer() bool { return e.PlayerID != 0 }

// CompareTime orders match clocks ascending with missing (NaN) times last.
func CompareTime(a, b float64) int {
	an, bn := math.IsNaN(a), math.IsNaN(b)
	switch {
	case an && bn:
		return 0
	case an:
		return 1
	case bn:
		return -1
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// HasStart reports whether both start coordinates are present.
func (e Event) HasStart() bool { return !math.IsNaN(e.StartX) && !math.IsNaN(e.StartY) }

// Match is one row of the match-info table.
type Match struct {
	GameID       int64
	GameDate     string
	HomeTeamID   int64
	HomeTeamName string
	AwayTeamID   int64
	AwayTeamName string
	HomeScore    int
	AwayScore    int
}

// MatchIndex looks matches up by game id.
type MatchIndex map[int64]Match

// NewMatchIndex indexes matches by game id. Later duplicates win.
func NewMatchIndex(matches []Match) MatchIndex {
	idx := make(MatchIndex, len(matches))
	for _, m := range matches {
		idx[m.GameID] = m
	}
	return idx
}

// Opponent returns the team facing teamID in the given game.
func (idx MatchIndex) Opponent(gameID, teamID int64) (int64, string, bool) {
	m, ok := idx[gameID]
	if !ok {
		return 0, "", false
	}
	switch teamID {
	case m.HomeTeamID:
		return m.AwayTeamID, m.AwayTeamName, true
	case m.AwayTeamID:
		return m.HomeTeamID, m.HomeTeamName, true
	}
	return 0, "", false
}

// ---- Zones ----

// Zone is one cell of the 4x3 pitch grid.
type Zone struct {
	X string // D, DM, AM, A
	Y string // L, C, R
}

func (z Zone) String() string { return z.X + "-" + z.Y }

// ZonedEvent is an event whose start coordinates fell inside the pitch.
type ZonedEvent struct {
	Event
	Zone Zone
}

// ---- Aggregates ----

// PlayerKey identifies a player in every per-player table.
type PlayerKey struct {
	PlayerID   int64  `json:"player_id"`
	PlayerName string `json:"player_name"`
	TeamName   string `json:"team_name"`
}

// DefenseCounts are the defensive category counts of one player.
type DefenseCounts struct {
	TackleAttempt       int `json:"tackle_attempt"`
	TackleFail          int `json:"tackle_fail"`
	DuelAttempt         int `json:"duel_attempt"`
	DuelFail            int `json:"duel_fail"`
	FoulCount           int `json:"foul_count"`
	DangerFoulCount     int `json:"danger_foul_count"`
	ClearanceAttempt    int `json:"clearance_attempt"`
	BlockAttempt        int `json:"block_attempt"`
	BlockFail           int `json:"block_fail"`
	InterceptionAttempt int `json:"interception_attempt"`
	InterceptionFail    int `json:"interception_fail"`
	CardCount           int `json:"card_count"`
	DefActions          int `json:"def_actions"`
}

// Add accumulates o into c.
func (c *DefenseCounts) Add(o DefenseCounts) {
	c.TackleAttempt += o.TackleAttempt
	c.TackleFail += o.TackleFail
	c.DuelAttempt += o.DuelAttempt
	c.DuelFail += o.DuelFail
	c.FoulCount += o.FoulCount
	c.DangerFoulCount += o.DangerFoulCount
	c.ClearanceAttempt += o.ClearanceAttempt
	c.BlockAttempt += o.BlockAttempt
	c.BlockFail += o.BlockFail
	c.InterceptionAttempt += o.InterceptionAttempt
	c.InterceptionFail += o.InterceptionFail
	c.CardCount += o.CardCount
	c.DefActions += o.DefActions
}

// PlayerAggregate is the defensive aggregate row of one player.
type PlayerAggregate struct {
	PlayerKey
	DefenseCounts
}

// AttackCounts are the attacking counts of one player.
type AttackCounts struct {
	Games            int `json:"games"`
	TotalShots       int `json:"total_shots"`
	OffTargetShots   int `json:"off_target_shots"`
	PenaltyBoxShots  int `json:"penalty_box_shots"`
	PenaltyBoxMiss   int `json:"penalty_box_miss"`
	Offsides         int `json:"offsides"`
	PassReceived     int `json:"pass_received"`
	PassGiven        int `json:"pass_given"`
	TotalCrosses     int `json:"total_crosses"`
	CrossFail        int `json:"cross_fail"`
	TotalDuelsAttack int `json:"total_duels_attack"`
	DuelFailAttack   int `json:"duel_fail_attack"`
	AerialFail       int `json:"aerial_fail"`
}

// AttackAggregate is the attacking aggregate row of one player.
type AttackAggregate struct {
	PlayerKey
	AttackCounts
}

// PanicCount is the clearance-panic tally of one player.
type PanicCount struct {
	PlayerKey
	Clearance     int `json:"clearance"`
	ConcedeShot10 int `json:"concede_shot10"`
}

// HalfRates holds a player's defensive fail rate per half.
type HalfRates struct {
	PlayerKey
	FirstHalfActions  int     `json:"first_half_actions"`
	SecondHalfActions int     `json:"second_half_actions"`
	FirstHalfRate     float64 `json:"first_half_rate"`
	SecondHalfRate    float64 `json:"second_half_rate"`
}

// Drop is the second-half fail rate minus the first-half one.
func (h HalfRates) Drop() float64 { return h.SecondHalfRate - h.FirstHalfRate }

// TurnoverCount tallies passes and carries started in the defensive third.
type TurnoverCount struct {
	PlayerKey
	DefThirdAttempts int `json:"def_third_attempts"`
	DefThirdFails    int `json:"def_third_fails"`
}

// ---- Metrics ----

// PlayerMetrics is the wide per-player row: every input count and every
// derived metric. Absent inputs are zero, never missing.
type PlayerMetrics struct {
	PlayerKey
	DefenseCounts
	AttackCounts

	Clearance         int `json:"clearance"`           // clearances in periods that had a shot
	ConcedeShot10     int `json:"concede_shot10"`
	FirstHalfActions  int `json:"first_half_actions"`
	SecondHalfActions int `json:"second_half_actions"`
	DefThirdAttempts  int `json:"def_third_attempts"`
	DefThirdFails     int `json:"def_third_fails"`

	TackleFailRate        float64 `json:"tackle_fail_rate"`
	CardPerDef            float64 `json:"card_per_def"`
	DangerFoulRatio       float64 `json:"danger_foul_ratio"`
	ClearancePanicRate    float64 `json:"clearance_panic_rate"`
	BlockFailRate         float64 `json:"block_fail_rate"`
	InterceptionFailRate  float64 `json:"interception_fail_rate"`
	DuelFailRate          float64 `json:"duel_fail_rate"`
	DefThirdTurnoverRate  float64 `json:"def_third_turnover_rate"`
	FirstHalfRate         float64 `json:"first_half_rate"`
	SecondHalfRate        float64 `json:"second_half_rate"`
	SecondHalfDrop        float64 `json:"second_half_drop"`
	OffTargetPerGame      float64 `json:"off_target_per_game"`
	PenaltyBoxMissPerGame float64 `json:"penalty_box_miss_per_game"`
	OffsidePerGame        float64 `json:"offside_per_game"`
	ReceiveToGiveRatio    float64 `json:"receive_to_give_ratio"`
	CrossFailPerGame      float64 `json:"cross_fail_per_game"`
	DuelFailPerGameAttack float64 `json:"duel_fail_per_game_attack"`
	AerialFailPerGame     float64 `json:"aerial_fail_per_game"`
}

// ---- Awards ----

// Ranking directions.
const (
	DirectionHigh = "high"
	DirectionLow  = "low"
)

// Award is one configured award: a metric, a filter column and threshold,
// and display metadata.
type Award struct {
	ID          string `koanf:"id" json:"id"`
	Title       string `koanf:"title" json:"title"`
	Category    string `koanf:"category" json:"category"`
	Metric      string `koanf:"metric" json:"metric"`
	Denominator string `koanf:"denominator" json:"denominator"`
	MinAttempts int    `koanf:"min_attempts" json:"min_attempts"`
	Direction   string `koanf:"direction" json:"direction"`
	Description string `koanf:"description" json:"description"`
}

// AwardScore is one (award, player) placement.
type AwardScore struct {
	AwardID    string  `json:"award_id"`
	PlayerID   int64   `json:"player_id"`
	PlayerName string  `json:"player_name"`
	TeamName   string  `json:"team_name"`
	Score      float64 `json:"score"`
	Rank       int     `json:"rank"`
	Percentile float64 `json:"percentile"`
}

// PlayerProfile summarises a player's placements across all awards.
type PlayerProfile struct {
	PlayerKey
	AwardsRanked   int     `json:"awards_ranked"`
	Podiums        int     `json:"podiums"`
	BestAwardID    string  `json:"best_award_id"`
	BestRank       int     `json:"best_rank"`
	BestPercentile float64 `json:"best_percentile"`
}

// ---- Team and zone profiles ----

// TeamStats is the team aggregate: summed defensive counts with rates
// recomputed from the sums.
type TeamStats struct {
	TeamName string `json:"team_name"`
	TeamID   int64  `json:"team_id"`
	Players  int    `json:"players"`
	DefenseCounts

	TackleFailRate       float64 `json:"tackle_fail_rate"`
	DuelFailRate         float64 `json:"duel_fail_rate"`
	BlockFailRate        float64 `json:"block_fail_rate"`
	InterceptionFailRate float64 `json:"interception_fail_rate"`
	DangerFoulRatio      float64 `json:"danger_foul_ratio"`
	CardPerDef           float64 `json:"card_per_def"`
}

// TeamZone is one (team, zone, event type) cell.
type TeamZone struct {
	TeamName     string  `json:"team_name"`
	Zone         string  `json:"zone"`
	EventType    string  `json:"event_type"`
	EventCount   int     `json:"event_count"`
	SuccessCount int     `json:"success_count"`
	SuccessRate  float64 `json:"success_rate"`
}

// PlayerZone is one (player, zone, event type) cell.
type PlayerZone struct {
	PlayerKey
	Zone         string  `json:"zone"`
	EventType    string  `json:"event_type"`
	EventCount   int     `json:"event_count"`
	SuccessCount int     `json:"success_count"`
	FailCount    int     `json:"fail_count"`
	SuccessRate  float64 `json:"success_rate"`
}

// LeagueZone is one league-wide (zone, event type) cell.
type LeagueZone struct {
	Zone              string  `json:"zone"`
	EventType         string  `json:"event_type"`
	LeagueCount       int     `json:"league_count"`
	LeagueSuccess     int     `json:"league_success"`
	LeagueSuccessRate float64 `json:"league_success_rate"`
	AvgEventsPerTeam  float64 `json:"avg_events_per_team"`
}

// ---- Runs ----

// RunSummary describes one stored pipeline run.
type RunSummary struct {
	ID          string    `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	EventsPath  string    `json:"events_path"`
	MatchesPath string    `json:"matches_path"`
	Events      int       `json:"events"`
	Matches     int       `json:"matches"`
	Players     int       `json:"players"`
	Teams       int       `json:"teams"`
	Awards      int       `json:"awards"`
}
