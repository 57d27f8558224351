// Package profile builds team, player and league views over zoned events
// and the team and player summary tables.
package profile

import (
	"sort"

	"github.com/pable/go-ignobel-metrics/internal/model"
)

// KeyEventTypes are the event types profiled per zone.
var KeyEventTypes = []string{
	model.TypePass, model.TypeShot, model.TypeShotFreekick, model.TypeCross, model.TypeDuel,
	model.TypeTackle, model.TypeInterception, model.TypeFoul, model.TypeClearance, model.TypeBlock,
}

var keyEventSet = func() map[string]bool {
	s := make(map[string]bool, len(KeyEventTypes))
	for _, t := range KeyEventTypes {
		s[t] = true
	}
	return s
}()

// IsKeyEvent reports whether typeName is profiled per zone.
func IsKeyEvent(typeName string) bool { return keyEventSet[typeName] }

// Succeeded is the success rule shared by every zone view: a Shot succeeds
// only when it is a Goal, anything else when its result is Successful.
func Succeeded(e model.Event) bool {
	if e.TypeName == model.TypeShot {
		return e.ResultName == model.ResultGoal
	}
	return e.IsSuccess
}

type cell struct {
	events, success, fail int
}

func (c *cell) add(e model.Event) {
	c.events++
	if Succeeded(e) {
		c.success++
	}
	if e.IsFail {
		c.fail++
	}
}

func (c cell) rate() float64 {
	if c.events == 0 {
		return 0
	}
	return float64(c.success) / float64(c.events)
}

type teamCell struct{ team, zone, typ string }

// TeamZones counts key events per (team, zone, event type).
func TeamZones(events []model.ZonedEvent) []model.TeamZone {
	return teamZones(events, func(e model.ZonedEvent) (string, bool) {
		return e.TeamName, e.TeamName != ""
	})
}

// TeamZonesAgainst builds the same profile from the opposing side: each key
// event is credited to the team it was performed against.
func TeamZonesAgainst(events []model.ZonedEvent, matches model.MatchIndex) []model.TeamZone {
	return teamZones(events, func(e model.ZonedEvent) (string, bool) {
		_, name, ok := matches.Opponent(e.GameID, e.TeamID)
		return name, ok && name != ""
	})
}

func teamZones(events []model.ZonedEvent, teamOf func(model.ZonedEvent) (string, bool)) []model.TeamZone {
	cells := make(map[teamCell]*cell)
	for _, e := range events {
		if !keyEventSet[e.TypeName] {
			continue
		}
		team, ok := teamOf(e)
		if !ok {
			continue
		}
		k := teamCell{team, e.Zone.String(), e.TypeName}
		c := cells[k]
		if c == nil {
			c = &cell{}
			cells[k] = c
		}
		c.add(e.Event)
	}

	out := make([]model.TeamZone, 0, len(cells))
	for k, c := range cells {
		out = append(out, model.TeamZone{
			TeamName:     k.team,
			Zone:         k.zone,
			EventType:    k.typ,
			EventCount:   c.events,
			SuccessCount: c.success,
			SuccessRate:  c.rate(),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.TeamName != b.TeamName {
			return a.TeamName < b.TeamName
		}
		if a.Zone != b.Zone {
			return a.Zone < b.Zone
		}
		return a.EventType < b.EventType
	})
	return out
}

// PlayerZones counts key events per (player, zone, event type). Names come
// from identities so every row of a player carries the same name and team.
func PlayerZones(events []model.ZonedEvent, identities map[int64]model.PlayerKey) []model.PlayerZone {
	type playerCell struct {
		player    int64
		zone, typ string
	}
	cells := make(map[playerCell]*cell)
	for _, e := range events {
		if !e.HasPlayer() || !keyEventSet[e.TypeName] {
			continue
		}
		k := playerCell{e.PlayerID, e.Zone.String(), e.TypeName}
		c := cells[k]
		if c == nil {
			c = &cell{}
			cells[k] = c
		}
		c.add(e.Event)
	}

	out := make([]model.PlayerZone, 0, len(cells))
	for k, c := range cells {
		id, ok := identities[k.player]
		if !ok {
			id = model.PlayerKey{PlayerID: k.player}
		}
		out = append(out, model.PlayerZone{
			PlayerKey:    id,
			Zone:         k.zone,
			EventType:    k.typ,
			EventCount:   c.events,
			SuccessCount: c.success,
			FailCount:    c.fail,
			SuccessRate:  c.rate(),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.PlayerID != b.PlayerID {
			return a.PlayerID < b.PlayerID
		}
		if a.Zone != b.Zone {
			return a.Zone < b.Zone
		}
		return a.EventType < b.EventType
	})
	return out
}

// LeagueZones aggregates key events per (zone, event type) across the
// league. AvgEventsPerTeam averages over the teams that have the cell.
func LeagueZones(events []model.ZonedEvent) []model.LeagueZone {
	type leagueCell struct{ zone, typ string }
	cells := make(map[leagueCell]*cell)
	teams := make(map[leagueCell]map[string]struct{})
	teamEvents := make(map[leagueCell]int)
	for _, e := range events {
		if !keyEventSet[e.TypeName] {
			continue
		}
		k := leagueCell{e.Zone.String(), e.TypeName}
		c := cells[k]
		if c == nil {
			c = &cell{}
			cells[k] = c
			teams[k] = make(map[string]struct{})
		}
		c.add(e.Event)
		if e.TeamName != "" {
			teams[k][e.TeamName] = struct{}{}
			teamEvents[k]++
		}
	}

	out := make([]model.LeagueZone, 0, len(cells))
	for k, c := range cells {
		avg := 0.0
		if n := len(teams[k]); n > 0 {
			avg = float64(teamEvents[k]) / float64(n)
		}
		out = append(out, model.LeagueZone{
			Zone:              k.zone,
			EventType:         k.typ,
			LeagueCount:       c.events,
			LeagueSuccess:     c.success,
			LeagueSuccessRate: c.rate(),
			AvgEventsPerTeam:  avg,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Zone != out[j].Zone {
			return out[i].Zone < out[j].Zone
		}
		return out[i].EventType < out[j].EventType
	})
	return out
}
