// Package report renders stored runs as terminal tables.
package report

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pable/go-ignobel-metrics/internal/model"
	"github.com/pable/go-ignobel-metrics/internal/profile"
	"github.com/pable/go-ignobel-metrics/internal/zone"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func pct(v float64) string { return fmt.Sprintf("%.0f%%", v*100) }

// PrintRunSummary prints a one-line header for a run.
func PrintRunSummary(w io.Writer, s model.RunSummary) {
	fmt.Fprintf(w, "\nRun: %s  |  %s  |  Events: %d  |  Matches: %d  |  Players: %d  |  Teams: %d\n\n",
		shortID(s.ID), s.CreatedAt.Local().Format("2006-01-02 15:04"), s.Events, s.Matches, s.Players, s.Teams)
}

// PrintRuns lists stored runs.
func PrintRuns(w io.Writer, runs []model.RunSummary) {
	table := newTable(w)
	table.Header("RUN", "CREATED", "EVENTS", "MATCHES", "PLAYERS", "TEAMS", "AWARDS", "SOURCE")
	for _, r := range runs {
		table.Append(
			shortID(r.ID),
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
			strconv.Itoa(r.Events),
			strconv.Itoa(r.Matches),
			strconv.Itoa(r.Players),
			strconv.Itoa(r.Teams),
			strconv.Itoa(r.Awards),
			r.EventsPath,
		)
	}
	table.Render()
}

// PrintAwards lists an award catalogue.
func PrintAwards(w io.Writer, awards []model.Award) {
	table := newTable(w)
	table.Header("ID", "TITLE", "CATEGORY", "METRIC", "FILTER", "MIN", "DIR")
	for _, a := range awards {
		table.Append(a.ID, a.Title, a.Category, a.Metric, a.Denominator, strconv.Itoa(a.MinAttempts), a.Direction)
	}
	table.Render()
}

// PrintLeaderboard prints one table per award, in catalogue order. Awards
// with no qualifying player are listed as such.
func PrintLeaderboard(w io.Writer, awards []model.Award, scores []model.AwardScore) {
	byAward := make(map[string][]model.AwardScore)
	for _, s := range scores {
		byAward[s.AwardID] = append(byAward[s.AwardID], s)
	}
	for _, a := range awards {
		rows := byAward[a.ID]
		fmt.Fprintf(w, "%s  (%s, %s)\n", a.Title, a.ID, a.Metric)
		if len(rows) == 0 {
			fmt.Fprintf(w, "  no player reached %d %s\n\n", a.MinAttempts, a.Denominator)
			continue
		}
		table := newTable(w)
		table.Header("RANK", "PLAYER", "TEAM", "SCORE", "PCTL")
		for _, s := range rows {
			table.Append(strconv.Itoa(s.Rank), s.PlayerName, s.TeamName,
				fmt.Sprintf("%.3f", s.Score), fmt.Sprintf("%.1f", s.Percentile))
		}
		table.Render()
		fmt.Fprintln(w)
	}
}

// sampleFlag grades a player's denominator against an award threshold.
func sampleFlag(n, min int) string {
	switch {
	case n < min:
		return "-"
	case n >= 4*min:
		return "OK"
	case n >= 2*min:
		return "LOW"
	default:
		return "VERY_LOW"
	}
}

// wilsonCI computes the 95% Wilson score confidence interval for a proportion.
// Returns (lo, hi) as fractions in [0, 1].
func wilsonCI(hits, n int) (lo, hi float64) {
	if n == 0 {
		return 0, 1
	}
	z := 1.96
	p := float64(hits) / float64(n)
	nf := float64(n)
	denom := 1 + z*z/nf
	center := (p + z*z/(2*nf)) / denom
	half := z * math.Sqrt(p*(1-p)/nf+z*z/(4*nf*nf)) / denom
	return math.Max(0, center-half), math.Min(1, center+half)
}

// PrintPlayerCard prints a player's defensive fail rates and every award
// they placed in. Podium places are marked with "*".
func PrintPlayerCard(w io.Writer, m model.PlayerMetrics, awards []model.Award, placements []model.AwardScore) {
	fmt.Fprintf(w, "\n%s (%d)  |  %s  |  Games: %d  |  Defensive actions: %d\n\n",
		m.PlayerName, m.PlayerID, m.TeamName, m.Games, m.DefActions)

	table := newTable(w)
	table.Header("CATEGORY", "ATTEMPTS", "FAILS", "RATE", "95% CI")
	for _, c := range []struct {
		name            string
		attempts, fails int
	}{
		{"tackle", m.TackleAttempt, m.TackleFail},
		{"duel", m.DuelAttempt, m.DuelFail},
		{"block", m.BlockAttempt, m.BlockFail},
		{"interception", m.InterceptionAttempt, m.InterceptionFail},
		{"clearance panic", m.Clearance, m.ConcedeShot10},
		{"def third turnover", m.DefThirdAttempts, m.DefThirdFails},
	} {
		ci := "—"
		if c.attempts > 0 {
			lo, hi := wilsonCI(c.fails, c.attempts)
			ci = pct(lo) + "–" + pct(hi)
		}
		rate := 0.0
		if c.attempts > 0 {
			rate = float64(c.fails) / float64(c.attempts)
		}
		table.Append(c.name, strconv.Itoa(c.attempts), strconv.Itoa(c.fails), pct(rate), ci)
	}
	table.Render()
	fmt.Fprintln(w)

	if len(placements) == 0 {
		fmt.Fprintln(w, "No award placements.")
		return
	}
	byID := make(map[string]model.Award, len(awards))
	for _, a := range awards {
		byID[a.ID] = a
	}
	table = newTable(w)
	table.Header(" ", "AWARD", "RANK", "SCORE", "PCTL", "SAMPLE")
	for _, s := range placements {
		a := byID[s.AwardID]
		marker := " "
		if s.Rank <= profile.PodiumRank {
			marker = "*"
		}
		sample := "—"
		if n, ok := m.Value(a.Denominator); ok {
			sample = sampleFlag(int(n), a.MinAttempts)
		}
		title := a.Title
		if title == "" {
			title = s.AwardID
		}
		table.Append(marker, title, strconv.Itoa(s.Rank),
			fmt.Sprintf("%.3f", s.Score), fmt.Sprintf("%.1f", s.Percentile), sample)
	}
	table.Render()
}

// PrintTeamTable prints the team aggregate.
func PrintTeamTable(w io.Writer, teams []model.TeamStats) {
	table := newTable(w)
	table.Header("TEAM", "PLAYERS", "DEF_ACT", "TACKLE_F%", "DUEL_F%", "BLOCK_F%", "INT_F%", "DANGER_FOUL", "CARD/DEF")
	for _, t := range teams {
		table.Append(
			t.TeamName,
			strconv.Itoa(t.Players),
			strconv.Itoa(t.DefActions),
			pct(t.TackleFailRate),
			pct(t.DuelFailRate),
			pct(t.BlockFailRate),
			pct(t.InterceptionFailRate),
			pct(t.DangerFoulRatio),
			fmt.Sprintf("%.3f", t.CardPerDef),
		)
	}
	table.Render()
}

// PrintZoneTable lists zone cells for one or more teams.
func PrintZoneTable(w io.Writer, cells []model.TeamZone) {
	table := newTable(w)
	table.Header("TEAM", "ZONE", "EVENT", "COUNT", "SUCCESS", "RATE")
	for _, c := range cells {
		table.Append(c.TeamName, c.Zone, c.EventType,
			strconv.Itoa(c.EventCount), strconv.Itoa(c.SuccessCount), pct(c.SuccessRate))
	}
	table.Render()
}

// ZoneCell is one value drawn on the pitch grid.
type ZoneCell struct {
	Count int
	Rate  float64
}

// PrintZoneGrid draws the pitch grid with one row per x band, own goal at
// the top. Cells missing from the map render as "·".
func PrintZoneGrid(w io.Writer, title string, cells map[string]ZoneCell) {
	fmt.Fprintln(w, title)
	table := newTable(w)
	header := []any{" "}
	for _, y := range zone.YBands() {
		header = append(header, y)
	}
	table.Header(header...)
	for _, x := range zone.XBands() {
		row := []any{x}
		for _, y := range zone.YBands() {
			c, ok := cells[model.Zone{X: x, Y: y}.String()]
			if !ok {
				row = append(row, "·")
				continue
			}
			row = append(row, fmt.Sprintf("%d (%s)", c.Count, pct(c.Rate)))
		}
		table.Append(row...)
	}
	table.Render()
}

// LeagueGrid collects league cells of one event type for PrintZoneGrid.
func LeagueGrid(cells []model.LeagueZone, eventType string) map[string]ZoneCell {
	out := make(map[string]ZoneCell)
	for _, c := range cells {
		if c.EventType == eventType {
			out[c.Zone] = ZoneCell{Count: c.LeagueCount, Rate: c.LeagueSuccessRate}
		}
	}
	return out
}

// TeamGrid collects one team's cells of one event type for PrintZoneGrid.
func TeamGrid(cells []model.TeamZone, eventType string) map[string]ZoneCell {
	out := make(map[string]ZoneCell)
	for _, c := range cells {
		if c.EventType == eventType {
			out[c.Zone] = ZoneCell{Count: c.EventCount, Rate: c.SuccessRate}
		}
	}
	return out
}

// PrintPlayerZoneTable lists a player's zone cells.
func PrintPlayerZoneTable(w io.Writer, cells []model.PlayerZone) {
	table := newTable(w)
	table.Header("ZONE", "EVENT", "COUNT", "SUCCESS", "FAIL", "RATE")
	for _, c := range cells {
		table.Append(c.Zone, c.EventType, strconv.Itoa(c.EventCount),
			strconv.Itoa(c.SuccessCount), strconv.Itoa(c.FailCount), pct(c.SuccessRate))
	}
	table.Render()
}
