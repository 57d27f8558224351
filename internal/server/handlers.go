package server

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/pable/go-ignobel-metrics/internal/model"
	"github.com/pable/go-ignobel-metrics/internal/storage"
)

type leaderboardResponse struct {
	Run    model.RunSummary   `json:"run"`
	Awards []model.Award      `json:"awards"`
	Scores []model.AwardScore `json:"scores"`
}

type playerResponse struct {
	Run        model.RunSummary    `json:"run"`
	Player     model.PlayerMetrics `json:"player"`
	Placements []model.AwardScore  `json:"placements"`
}

// Runs lists every stored run, newest first.
func (s *Server) Runs(c echo.Context) error {
	runs, err := s.db.ListRuns()
	if err != nil {
		return serverError(err)
	}
	return c.JSON(http.StatusOK, nonNil(runs))
}

// Awards returns the catalogue a run was ranked with.
func (s *Server) Awards(c echo.Context) error {
	run, err := s.run(c)
	if err != nil {
		return err
	}
	list, err := s.db.GetRunAwards(run.ID)
	if err != nil {
		return serverError(err)
	}
	return c.JSON(http.StatusOK, nonNil(list))
}

// Leaderboard returns placements down to ?limit= (default the configured
// leaderboard size), optionally for one ?award=.
func (s *Server) Leaderboard(c echo.Context) error {
	limit := s.boardSize
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be a positive integer")
		}
		limit = n
	}
	run, err := s.run(c)
	if err != nil {
		return err
	}
	list, err := s.db.GetRunAwards(run.ID)
	if err != nil {
		return serverError(err)
	}
	awardID := c.QueryParam("award")
	if awardID != "" {
		var keep []model.Award
		for _, a := range list {
			if a.ID == awardID {
				keep = append(keep, a)
			}
		}
		if len(keep) == 0 {
			return echo.NewHTTPError(http.StatusNotFound, "unknown award "+awardID)
		}
		list = keep
	}
	scores, err := s.db.GetAwardScores(run.ID, awardID, limit)
	if err != nil {
		return serverError(err)
	}
	return c.JSON(http.StatusOK, leaderboardResponse{Run: *run, Awards: list, Scores: nonNil(scores)})
}

// Player returns one player's wide row and award placements.
func (s *Server) Player(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "player id must be a non-zero integer")
	}
	run, err := s.run(c)
	if err != nil {
		return err
	}
	m, err := s.db.GetPlayer(run.ID, id)
	if errors.Is(err, storage.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	if err != nil {
		return serverError(err)
	}
	placements, err := s.db.GetPlayerAwards(run.ID, id)
	if err != nil {
		return serverError(err)
	}
	return c.JSON(http.StatusOK, playerResponse{Run: *run, Player: *m, Placements: nonNil(placements)})
}

// Teams returns the team aggregate.
func (s *Server) Teams(c echo.Context) error {
	run, err := s.run(c)
	if err != nil {
		return err
	}
	teams, err := s.db.GetTeamStats(run.ID)
	if err != nil {
		return serverError(err)
	}
	return c.JSON(http.StatusOK, nonNil(teams))
}

// TeamZones returns a team's zone cells; ?against=true returns what its
// opponents did against it.
func (s *Server) TeamZones(c echo.Context) error {
	against, _ := strconv.ParseBool(c.QueryParam("against"))
	name, err := url.PathUnescape(c.Param("name"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "bad team name")
	}
	run, err := s.run(c)
	if err != nil {
		return err
	}
	cells, err := s.db.GetTeamZones(run.ID, name, against)
	if err != nil {
		return serverError(err)
	}
	return c.JSON(http.StatusOK, nonNil(cells))
}

// LeagueZones returns the league-wide zone cells.
func (s *Server) LeagueZones(c echo.Context) error {
	run, err := s.run(c)
	if err != nil {
		return err
	}
	cells, err := s.db.GetLeagueZones(run.ID)
	if err != nil {
		return serverError(err)
	}
	return c.JSON(http.StatusOK, nonNil(cells))
}

// nonNil keeps empty tables encoding as [] rather than null.
func nonNil[T any](rows []T) []T {
	if rows == nil {
		return []T{}
	}
	return rows
}
