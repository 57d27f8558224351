// Package awards derives per-player metrics and ranks players for each
// configured award.
package awards

import (
	"fmt"

	"github.com/pable/go-ignobel-metrics/internal/model"
)

// Denominators maps each built-in metric to the count column its award
// threshold is checked against.
var Denominators = map[string]string{
	"tackle_fail_rate":          "tackle_attempt",
	"block_fail_rate":           "block_attempt",
	"interception_fail_rate":    "interception_attempt",
	"duel_fail_rate":            "duel_attempt",
	"clearance_panic_rate":      "clearance",
	"card_per_def":              "def_actions",
	"danger_foul_ratio":         "foul_count",
	"def_third_turnover_rate":   "def_third_attempts",
	"second_half_drop":          "def_actions",
	"off_target_per_game":       "total_shots",
	"penalty_box_miss_per_game": "penalty_box_shots",
	"offside_per_game":          "offsides",
	"receive_to_give_ratio":     "pass_received",
	"cross_fail_per_game":       "total_crosses",
	"duel_fail_per_game_attack": "total_duels_attack",
	"aerial_fail_per_game":      "aerial_fail",
}

// Defaults returns the built-in award list.
func Defaults() []model.Award {
	list := []model.Award{
		{ID: "tackle_fail", Title: "Tackled, But...", Category: "fail rate", Metric: "tackle_fail_rate", MinAttempts: 5,
			Description: "Tackles a lot, wins few of them."},
		{ID: "card_per_def", Title: "Only Cards Left Behind", Category: "cards", Metric: "card_per_def", MinAttempts: 10,
			Description: "Collects bookings at an alarming rate per defensive action."},
		{ID: "danger_foul", Title: "Danger Zone Regular", Category: "fouls", Metric: "danger_foul_ratio", MinAttempts: 3,
			Description: "Fouls mostly inside their own defensive third."},
		{ID: "clearance_panic", Title: "Panic Clearance", Category: "clearances", Metric: "clearance_panic_rate", MinAttempts: 5,
			Description: "Clears the ball and watches the opponent shoot within ten seconds."},
		{ID: "block_fail", Title: "Blocked, Sort Of", Category: "fail rate", Metric: "block_fail_rate", MinAttempts: 3,
			Description: "Throws themself in front of the ball, mostly in vain."},
		{ID: "interception_fail", Title: "Interception Air Kick", Category: "fail rate", Metric: "interception_fail_rate", MinAttempts: 5,
			Description: "Reads the pass, misses the ball."},
		{ID: "duel_fail", Title: "Loves a Duel, Loses It", Category: "fail rate", Metric: "duel_fail_rate", MinAttempts: 10,
			Description: "Enters many duels and loses most of them."},
		{ID: "def_third_turnover", Title: "Gift in Our Own Half", Category: "turnovers", Metric: "def_third_turnover_rate", MinAttempts: 10,
			Description: "Loses passes and carries inside the defensive third."},
		{ID: "second_half_drop", Title: "Second Half Collapse", Category: "stamina", Metric: "second_half_drop", MinAttempts: 20,
			Description: "Defensive fail rate climbs after the break."},
		{ID: "cannon_shot", Title: "Cannonball", Category: "shooting", Metric: "off_target_per_game", MinAttempts: 10,
			Description: "Shoots often, rarely on target."},
		{ID: "chicken_chest", Title: "Chicken Heart", Category: "shooting", Metric: "penalty_box_miss_per_game", MinAttempts: 5,
			Description: "Misses from inside the penalty box."},
		{ID: "offside_line", Title: "Over the Line", Category: "offside", Metric: "offside_per_game", MinAttempts: 1,
			Description: "Caught offside again."},
		{ID: "selfish_player", Title: "Takes, Never Gives", Category: "passing", Metric: "receive_to_give_ratio", MinAttempts: 50,
			Description: "Receives far more passes than they play."},
		{ID: "cross_fail", Title: "Cross to Nobody", Category: "crossing", Metric: "cross_fail_per_game", MinAttempts: 10,
			Description: "Crosses plenty, finds nobody."},
		{ID: "duel_loser_attack", Title: "Losing Is Routine", Category: "duels", Metric: "duel_fail_per_game_attack", MinAttempts: 20,
			Description: "Loses duels every game."},
		{ID: "aerial_fail", Title: "If Only I Were Taller", Category: "aerial", Metric: "aerial_fail_per_game", MinAttempts: 1,
			Description: "Loses contested balls week in, week out."},
	}
	for i := range list {
		list[i].Denominator = Denominators[list[i].Metric]
		list[i].Direction = model.DirectionHigh
	}
	return list
}

// Catalog is the configured award list with lookup by id.
type Catalog struct {
	list []model.Award
	byID map[string]model.Award
}

// NewCatalog validates awards and indexes them. Missing denominators are
// filled from Denominators and an empty direction means "high".
func NewCatalog(list []model.Award) (*Catalog, error) {
	c := &Catalog{byID: make(map[string]model.Award, len(list))}
	for i, a := range list {
		if a.ID == "" {
			return nil, fmt.Errorf("award #%d: empty id", i)
		}
		if _, dup := c.byID[a.ID]; dup {
			return nil, fmt.Errorf("award %q: duplicate id", a.ID)
		}
		if !model.HasNumericColumn(a.Metric) {
			return nil, fmt.Errorf("award %q: unknown metric %q", a.ID, a.Metric)
		}
		if a.Denominator == "" {
			a.Denominator = Denominators[a.Metric]
		}
		if a.Denominator != "" && !model.HasNumericColumn(a.Denominator) {
			return nil, fmt.Errorf("award %q: unknown denominator %q", a.ID, a.Denominator)
		}
		if a.MinAttempts < 0 {
			return nil, fmt.Errorf("award %q: negative min_attempts %d", a.ID, a.MinAttempts)
		}
		switch a.Direction {
		case "":
			a.Direction = model.DirectionHigh
		case model.DirectionHigh, model.DirectionLow:
		default:
			return nil, fmt.Errorf("award %q: direction %q is not high or low", a.ID, a.Direction)
		}
		if a.Title == "" {
			a.Title = a.ID
		}
		c.list = append(c.list, a)
		c.byID[a.ID] = a
	}
	return c, nil
}

// Get returns the award with the given id.
func (c *Catalog) Get(id string) (model.Award, bool) {
	a, ok := c.byID[id]
	return a, ok
}

// All returns the awards in configured order.
func (c *Catalog) All() []model.Award { return append([]model.Award(nil), c.list...) }

// Len is the number of configured awards.
func (c *Catalog) Len() int { return len(c.list) }
