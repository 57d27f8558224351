// Package server exposes stored runs over a read-only JSON API.
package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/pable/go-ignobel-metrics/internal/awards"
	"github.com/pable/go-ignobel-metrics/internal/model"
	"github.com/pable/go-ignobel-metrics/internal/storage"
	"github.com/pable/go-ignobel-metrics/internal/telemetry"
)

// Server holds shared dependencies used by all route handlers.
type Server struct {
	db        *storage.DB
	log       *zap.Logger
	rec       *telemetry.Recorder
	boardSize int
	echo      *echo.Echo
}

// New builds the router. rec may be nil, in which case /metrics is not served.
func New(db *storage.DB, log *zap.Logger, rec *telemetry.Recorder, boardSize int) *Server {
	if boardSize <= 0 {
		boardSize = awards.DefaultLeaderboardSize
	}
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{db: db, log: log, rec: rec, boardSize: boardSize}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogError:     true,
		LogLatency:   true,
		LogRoutePath: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			rec.CountRequest(v.RoutePath, strconv.Itoa(v.Status))
			fields := []zap.Field{
				zap.Int("status", v.Status),
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
			}
			switch {
			case v.Status >= 500:
				log.Error("http request", fields...)
			case v.Status >= 400:
				log.Warn("http request", fields...)
			default:
				log.Debug("http request", fields...)
			}
			return nil
		},
	}))
	e.Use(echomw.Recover())

	api := e.Group("/api")
	api.GET("/runs", s.Runs)
	api.GET("/awards", s.Awards)
	api.GET("/leaderboard", s.Leaderboard)
	api.GET("/players/:id", s.Player)
	api.GET("/teams", s.Teams)
	api.GET("/teams/:name/zones", s.TeamZones)
	api.GET("/league/zones", s.LeagueZones)
	if rec != nil {
		e.GET("/metrics", echo.WrapHandler(rec.Handler()))
	}
	s.echo = e
	return s
}

// ServeHTTP lets the server be mounted or tested as a plain handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// Run listens on addr until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context, addr string) error {
	errc := make(chan error, 1)
	go func() {
		s.log.Info("api listening", zap.String("addr", addr))
		errc <- s.echo.Start(addr)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.log.Info("api stopped")
	return nil
}

// run resolves the ?run= prefix, defaulting to the newest run.
func (s *Server) run(c echo.Context) (*model.RunSummary, error) {
	run, err := s.db.GetRun(c.QueryParam("run"))
	if errors.Is(err, storage.ErrNoRun) {
		return nil, echo.NewHTTPError(http.StatusNotFound, "no matching run")
	}
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return run, nil
}

func serverError(err error) error {
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}
