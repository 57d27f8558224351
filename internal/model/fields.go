package model

import "fmt"

// Field is one exported column of a row type. Ref returns a pointer to the
// column's value inside the row, so the same layout drives inserts, scans and
// CSV export.
type Field[T any] struct {
	Name string
	Ref  func(*T) any
}

// Names returns the column names of a layout in order.
func Names[T any](fields []Field[T]) []string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	return names
}

// Deref returns the value behind a Field pointer.
func Deref(p any) any {
	switch v := p.(type) {
	case *int:
		return *v
	case *int64:
		return *v
	case *float64:
		return *v
	case *string:
		return *v
	case *bool:
		return *v
	}
	panic(fmt.Sprintf("model: unsupported field pointer %T", p))
}

// PlayerMetricsFields is the column layout of the wide player table.
var PlayerMetricsFields = []Field[PlayerMetrics]{
	{"player_id", func(r *PlayerMetrics) any { return &r.PlayerID }},
	{"player_name", func(r *PlayerMetrics) any { return &r.PlayerName }},
	{"team_name", func(r *PlayerMetrics) any { return &r.TeamName }},
	{"tackle_attempt", func(r *PlayerMetrics) any { return &r.TackleAttempt }},
	{"tackle_fail", func(r *PlayerMetrics) any { return &r.TackleFail }},
	{"duel_attempt", func(r *PlayerMetrics) any { return &r.DuelAttempt }},
	{"duel_fail", func(r *PlayerMetrics) any { return &r.DuelFail }},
	{"foul_count", func(r *PlayerMetrics) any { return &r.FoulCount }},
	{"danger_foul_count", func(r *PlayerMetrics) any { return &r.DangerFoulCount }},
	{"clearance_attempt", func(r *PlayerMetrics) any { return &r.ClearanceAttempt }},
	{"block_attempt", func(r *PlayerMetrics) any { return &r.BlockAttempt }},
	{"block_fail", func(r *PlayerMetrics) any { return &r.BlockFail }},
	{"interception_attempt", func(r *PlayerMetrics) any { return &r.InterceptionAttempt }},
	{"interception_fail", func(r *PlayerMetrics) any { return &r.InterceptionFail }},
	{"card_count", func(r *PlayerMetrics) any { return &r.CardCount }},
	{"def_actions", func(r *PlayerMetrics) any { return &r.DefActions }},
	{"games", func(r *PlayerMetrics) any { return &r.Games }},
	{"total_shots", func(r *PlayerMetrics) any { return &r.TotalShots }},
	{"off_target_shots", func(r *PlayerMetrics) any { return &r.OffTargetShots }},
	{"penalty_box_shots", func(r *PlayerMetrics) any { return &r.PenaltyBoxShots }},
	{"penalty_box_miss", func(r *PlayerMetrics) any { return &r.PenaltyBoxMiss }},
	{"offsides", func(r *PlayerMetrics) any { return &r.Offsides }},
	{"pass_received", func(r *PlayerMetrics) any { return &r.PassReceived }},
	{"pass_given", func(r *PlayerMetrics) any { return &r.PassGiven }},
	{"total_crosses", func(r *PlayerMetrics) any { return &r.TotalCrosses }},
	{"cross_fail", func(r *PlayerMetrics) any { return &r.CrossFail }},
	{"total_duels_attack", func(r *PlayerMetrics) any { return &r.TotalDuelsAttack }},
	{"duel_fail_attack", func(r *PlayerMetrics) any { return &r.DuelFailAttack }},
	{"aerial_fail", func(r *PlayerMetrics) any { return &r.AerialFail }},
	{"clearance", func(r *PlayerMetrics) any { return &r.Clearance }},
	{"concede_shot10", func(r *PlayerMetrics) any { return &r.ConcedeShot10 }},
	{"first_half_actions", func(r *PlayerMetrics) any { return &r.FirstHalfActions }},
	{"second_half_actions", func(r *PlayerMetrics) any { return &r.SecondHalfActions }},
	{"def_third_attempts", func(r *PlayerMetrics) any { return &r.DefThirdAttempts }},
	{"def_third_fails", func(r *PlayerMetrics) any { return &r.DefThirdFails }},
	{"tackle_fail_rate", func(r *PlayerMetrics) any { return &r.TackleFailRate }},
	{"card_per_def", func(r *PlayerMetrics) any { return &r.CardPerDef }},
	{"danger_foul_ratio", func(r *PlayerMetrics) any { return &r.DangerFoulRatio }},
	{"clearance_panic_rate", func(r *PlayerMetrics) any { return &r.ClearancePanicRate }},
	{"block_fail_rate", func(r *PlayerMetrics) any { return &r.BlockFailRate }},
	{"interception_fail_rate", func(r *PlayerMetrics) any { return &r.InterceptionFailRate }},
	{"duel_fail_rate", func(r *PlayerMetrics) any { return &r.DuelFailRate }},
	{"def_third_turnover_rate", func(r *PlayerMetrics) any { return &r.DefThirdTurnoverRate }},
	{"first_half_rate", func(r *PlayerMetrics) any { return &r.FirstHalfRate }},
	{"second_half_rate", func(r *PlayerMetrics) any { return &r.SecondHalfRate }},
	{"second_half_drop", func(r *PlayerMetrics) any { return &r.SecondHalfDrop }},
	{"off_target_per_game", func(r *PlayerMetrics) any { return &r.OffTargetPerGame }},
	{"penalty_box_miss_per_game", func(r *PlayerMetrics) any { return &r.PenaltyBoxMissPerGame }},
	{"offside_per_game", func(r *PlayerMetrics) any { return &r.OffsidePerGame }},
	{"receive_to_give_ratio", func(r *PlayerMetrics) any { return &r.ReceiveToGiveRatio }},
	{"cross_fail_per_game", func(r *PlayerMetrics) any { return &r.CrossFailPerGame }},
	{"duel_fail_per_game_attack", func(r *PlayerMetrics) any { return &r.DuelFailPerGameAttack }},
	{"aerial_fail_per_game", func(r *PlayerMetrics) any { return &r.AerialFailPerGame }},
}

// AwardScoreFields is the long-format leaderboard layout.
var AwardScoreFields = []Field[AwardScore]{
	{"award_id", func(r *AwardScore) any { return &r.AwardID }},
	{"player_id", func(r *AwardScore) any { return &r.PlayerID }},
	{"player_name", func(r *AwardScore) any { return &r.PlayerName }},
	{"team_name", func(r *AwardScore) any { return &r.TeamName }},
	{"score", func(r *AwardScore) any { return &r.Score }},
	{"rank", func(r *AwardScore) any { return &r.Rank }},
	{"percentile", func(r *AwardScore) any { return &r.Percentile }},
}

var PlayerProfileFields = []Field[PlayerProfile]{
	{"player_id", func(r *PlayerProfile) any { return &r.PlayerID }},
	{"player_name", func(r *PlayerProfile) any { return &r.PlayerName }},
	{"team_name", func(r *PlayerProfile) any { return &r.TeamName }},
	{"awards_ranked", func(r *PlayerProfile) any { return &r.AwardsRanked }},
	{"podiums", func(r *PlayerProfile) any { return &r.Podiums }},
	{"best_award_id", func(r *PlayerProfile) any { return &r.BestAwardID }},
	{"best_rank", func(r *PlayerProfile) any { return &r.BestRank }},
	{"best_percentile", func(r *PlayerProfile) any { return &r.BestPercentile }},
}

var TeamStatsFields = []Field[TeamStats]{
	{"team_name", func(r *TeamStats) any { return &r.TeamName }},
	{"team_id", func(r *TeamStats) any { return &r.TeamID }},
	{"players", func(r *TeamStats) any { return &r.Players }},
	{"tackle_attempt", func(r *TeamStats) any { return &r.TackleAttempt }},
	{"tackle_fail", func(r *TeamStats) any { return &r.TackleFail }},
	{"duel_attempt", func(r *TeamStats) any { return &r.DuelAttempt }},
	{"duel_fail", func(r *TeamStats) any { return &r.DuelFail }},
	{"foul_count", func(r *TeamStats) any { return &r.FoulCount }},
	{"danger_foul_count", func(r *TeamStats) any { return &r.DangerFoulCount }},
	{"clearance_attempt", func(r *TeamStats) any { return &r.ClearanceAttempt }},
	{"block_attempt", func(r *TeamStats) any { return &r.BlockAttempt }},
	{"block_fail", func(r *TeamStats) any { return &r.BlockFail }},
	{"interception_attempt", func(r *TeamStats) any { return &r.InterceptionAttempt }},
	{"interception_fail", func(r *TeamStats) any { return &r.InterceptionFail }},
	{"card_count", func(r *TeamStats) any { return &r.CardCount }},
	{"def_actions", func(r *TeamStats) any { return &r.DefActions }},
	{"tackle_fail_rate", func(r *TeamStats) any { return &r.TackleFailRate }},
	{"duel_fail_rate", func(r *TeamStats) any { return &r.DuelFailRate }},
	{"block_fail_rate", func(r *TeamStats) any { return &r.BlockFailRate }},
	{"interception_fail_rate", func(r *TeamStats) any { return &r.InterceptionFailRate }},
	{"danger_foul_ratio", func(r *TeamStats) any { return &r.DangerFoulRatio }},
	{"card_per_def", func(r *TeamStats) any { return &r.CardPerDef }},
}

var TeamZoneFields = []Field[TeamZone]{
	{"team_name", func(r *TeamZone) any { return &r.TeamName }},
	{"zone", func(r *TeamZone) any { return &r.Zone }},
	{"event_type", func(r *TeamZone) any { return &r.EventType }},
	{"event_count", func(r *TeamZone) any { return &r.EventCount }},
	{"success_count", func(r *TeamZone) any { return &r.SuccessCount }},
	{"success_rate", func(r *TeamZone) any { return &r.SuccessRate }},
}

var PlayerZoneFields = []Field[PlayerZone]{
	{"player_id", func(r *PlayerZone) any { return &r.PlayerID }},
	{"player_name", func(r *PlayerZone) any { return &r.PlayerName }},
	{"team_name", func(r *PlayerZone) any { return &r.TeamName }},
	{"zone", func(r *PlayerZone) any { return &r.Zone }},
	{"event_type", func(r *PlayerZone) any { return &r.EventType }},
	{"event_count", func(r *PlayerZone) any { return &r.EventCount }},
	{"success_count", func(r *PlayerZone) any { return &r.SuccessCount }},
	{"fail_count", func(r *PlayerZone) any { return &r.FailCount }},
	{"success_rate", func(r *PlayerZone) any { return &r.SuccessRate }},
}

var LeagueZoneFields = []Field[LeagueZone]{
	{"zone", func(r *LeagueZone) any { return &r.Zone }},
	{"event_type", func(r *LeagueZone) any { return &r.EventType }},
	{"league_count", func(r *LeagueZone) any { return &r.LeagueCount }},
	{"league_success", func(r *LeagueZone) any { return &r.LeagueSuccess }},
	{"league_success_rate", func(r *LeagueZone) any { return &r.LeagueSuccessRate }},
	{"avg_events_per_team", func(r *LeagueZone) any { return &r.AvgEventsPerTeam }},
}

var playerMetricsIndex = func() map[string]int {
	idx := make(map[string]int, len(PlayerMetricsFields))
	for i, f := range PlayerMetricsFields {
		idx[f.Name] = i
	}
	return idx
}()

// HasNumericColumn reports whether name is a numeric column of the wide
// player table (any count or metric).
func HasNumericColumn(name string) bool {
	var m PlayerMetrics
	_, ok := m.Value(name)
	return ok
}

// Value returns the numeric column called name.
func (m *PlayerMetrics) Value(name string) (float64, bool) {
	i, ok := playerMetricsIndex[name]
	if !ok {
		return 0, false
	}
	switch v := PlayerMetricsFields[i].Ref(m).(type) {
	case *int:
		return float64(*v), true
	case *float64:
		return *v, true
	}
	return 0, false
}

// AwardFields is the award catalogue layout.
var AwardFields = []Field[Award]{
	{"id", func(r *Award) any { return &r.ID }},
	{"title", func(r *Award) any { return &r.Title }},
	{"category", func(r *Award) any { return &r.Category }},
	{"metric", func(r *Award) any { return &r.Metric }},
	{"denominator", func(r *Award) any { return &r.Denominator }},
	{"min_attempts", func(r *Award) any { return &r.MinAttempts }},
	{"direction", func(r *Award) any { return &r.Direction }},
	{"description", func(r *Award) any { return &r.Description }},
}
