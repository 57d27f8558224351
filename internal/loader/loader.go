// Package loader reads the event log and match table from CSV and writes
// result tables back out as CSV.
package loader

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/pable/go-ignobel-metrics/internal/model"
)

// ErrSchema reports an input table missing a required column.
var ErrSchema = errors.New("schema error")

// column names one logical input column and the header names accepted for it.
type column struct {
	name     string
	aliases  []string
	required bool
}

var eventColumns = []column{
	{name: "game_id", required: true},
	{name: "period_id", required: true},
	{name: "time_seconds", required: true},
	{name: "action_id", required: true},
	{name: "player_id", required: true},
	{name: "player_name", aliases: []string{"player_name_ko"}, required: true},
	{name: "team_id", required: true},
	{name: "team_name", aliases: []string{"team_name_ko"}, required: true},
	{name: "type_name", required: true},
	{name: "result_name", required: true},
	{name: "start_x", required: true},
	{name: "start_y", required: true},
	{name: "end_x"},
	{name: "end_y"},
}

var matchColumns = []column{
	{name: "game_id", required: true},
	{name: "home_team_id", required: true},
	{name: "away_team_id", required: true},
	{name: "home_team_name", aliases: []string{"home_team_name_ko"}},
	{name: "away_team_name", aliases: []string{"away_team_name_ko"}},
	{name: "home_score"},
	{name: "away_score"},
	{name: "game_date"},
}

// table is a loaded CSV with every cell kept as a string.
type table struct {
	what string
	rows int
	cols map[string][]string
}

func readTable(r io.Reader, what string, layout []column) (*table, error) {
	data, err := io.ReadAll(stripBOM(r))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", what, err)
	}

	// gota cannot build a frame from a header without records, so the
	// header-only case is resolved from the first CSV line.
	cr := csv.NewReader(bytes.NewReader(data))
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", what, ErrSchema, err)
	}
	if _, err := cr.Read(); errors.Is(err, io.EOF) {
		return resolve(what, layout, header, 0, func(string) []string { return nil })
	}

	df := dataframe.ReadCSV(bytes.NewReader(data),
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("%s: %w: %v", what, ErrSchema, df.Err)
	}
	return resolve(what, layout, df.Names(), df.Nrow(), func(n string) []string { return df.Col(n).Records() })
}

// resolve maps layout columns (or their aliases) onto the header names and
// fails with ErrSchema when a required column is absent.
func resolve(what string, layout []column, names []string, rows int, records func(string) []string) (*table, error) {
	present := make(map[string]string)
	for _, n := range names {
		present[strings.TrimSpace(n)] = n
	}

	t := &table{what: what, rows: rows, cols: make(map[string][]string)}
	var missing []string
	for _, c := range layout {
		found, ok := "", false
		for _, n := range append([]string{c.name}, c.aliases...) {
			if found, ok = present[n]; ok {
				break
			}
		}
		if !ok {
			if c.required {
				missing = append(missing, c.name)
			}
			continue
		}
		t.cols[c.name] = records(found)
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%s: %w: missing column(s) %s", what, ErrSchema, strings.Join(missing, ", "))
	}
	return t, nil
}

// stripBOM drops a leading UTF-8 byte order mark so the first header name
// matches.
func stripBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if b, err := br.Peek(3); err == nil && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF {
		_, _ = br.Discard(3)
	}
	return br
}

func missingCell(s string) bool {
	switch strings.TrimSpace(s) {
	case "", "NaN", "NA", "nan", "<nil>":
		return true
	}
	return false
}

func (t *table) str(col string, i int) string {
	v, ok := t.cols[col]
	if !ok || missingCell(v[i]) {
		return ""
	}
	return strings.TrimSpace(v[i])
}

// float parses a numeric cell; missing cells are NaN.
func (t *table) float(col string, i int) (float64, error) {
	s := t.str(col, i)
	if s == "" {
		return math.NaN(), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%s row %d: %s: %w", t.what, i+1, col, err)
	}
	return f, nil
}

// id parses an integer cell, accepting float spellings such as "12.0".
// Missing cells are 0.
func (t *table) id(col string, i int) (int64, error) {
	s := t.str(col, i)
	if s == "" {
		return 0, nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) {
		return 0, fmt.Errorf("%s row %d: %s: %q is not an integer", t.what, i+1, col, s)
	}
	return int64(f), nil
}

// ReadEvents loads the event log. A missing required column is an
// ErrSchema; an unparseable numeric cell is an error naming its row.
func ReadEvents(r io.Reader) ([]model.Event, error) {
	t, err := readTable(r, "events", eventColumns)
	if err != nil {
		return nil, err
	}
	out := make([]model.Event, t.rows)
	for i := range out {
		e := &out[i]
		var period int64
		for _, f := range []struct {
			col string
			dst *int64
		}{
			{"game_id", &e.GameID}, {"period_id", &period}, {"action_id", &e.ActionID},
			{"player_id", &e.PlayerID}, {"team_id", &e.TeamID},
		} {
			if *f.dst, err = t.id(f.col, i); err != nil {
				return nil, err
			}
		}
		e.PeriodID = int(period)
		for _, f := range []struct {
			col string
			dst *float64
		}{
			{"time_seconds", &e.TimeSeconds}, {"start_x", &e.StartX}, {"start_y", &e.StartY},
			{"end_x", &e.EndX}, {"end_y", &e.EndY},
		} {
			if *f.dst, err = t.float(f.col, i); err != nil {
				return nil, err
			}
		}
		e.PlayerName = t.str("player_name", i)
		e.TeamName = t.str("team_name", i)
		e.TypeName = t.str("type_name", i)
		e.ResultName = t.str("result_name", i)
	}
	return out, nil
}

// ReadMatches loads the match table.
func ReadMatches(r io.Reader) ([]model.Match, error) {
	t, err := readTable(r, "matches", matchColumns)
	if err != nil {
		return nil, err
	}
	out := make([]model.Match, t.rows)
	for i := range out {
		m := &out[i]
		var home, away int64
		for _, f := range []struct {
			col string
			dst *int64
		}{
			{"game_id", &m.GameID}, {"home_team_id", &m.HomeTeamID}, {"away_team_id", &m.AwayTeamID},
			{"home_score", &home}, {"away_score", &away},
		} {
			if *f.dst, err = t.id(f.col, i); err != nil {
				return nil, err
			}
		}
		m.HomeScore, m.AwayScore = int(home), int(away)
		m.HomeTeamName = t.str("home_team_name", i)
		m.AwayTeamName = t.str("away_team_name", i)
		m.GameDate = t.str("game_date", i)
	}
	return out, nil
}
