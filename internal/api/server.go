// Package api exposes the latest forecast cycle over HTTP as JSON.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/wajo666/homeassistant-local-weather-forecast-sub002/internal/forecast"
)

// ForecastSource yields the most recent completed forecast cycle.
// Satisfied by ingest.Scheduler.
type ForecastSource interface {
	Latest() (forecast.Result, time.Time, bool)
}

type Server struct {
	source ForecastSource
	addr   string
}

func NewServer(source ForecastSource, addr string) *Server {
	return &Server{source: source, addr: addr}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/current", s.handleCurrent)
	mux.HandleFunc("/api/forecast/hourly", s.handleHourly)
	mux.HandleFunc("/api/forecast/daily", s.handleDaily)
	mux.HandleFunc("/health", s.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:    s.addr,
		Handler: s.Handler(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", s.addr).Msg("http server listening")
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) handleCurrent(w http.ResponseWriter, r *http.Request) {
	result, at, ok := s.source.Latest()
	if !ok {
		http.Error(w, `{"error":"no forecast yet"}`, http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, struct {
		UpdatedAt time.Time   `json:"updated_at"`
		Current   interface{} `json:"current"`
	}{at, result.Current})
}

func (s *Server) handleHourly(w http.ResponseWriter, r *http.Request) {
	result, at, ok := s.source.Latest()
	if !ok {
		http.Error(w, `{"error":"no forecast yet"}`, http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, struct {
		UpdatedAt time.Time   `json:"updated_at"`
		Hourly    interface{} `json:"hourly"`
	}{at, result.Hourly})
}

func (s *Server) handleDaily(w http.ResponseWriter, r *http.Request) {
	result, at, ok := s.source.Latest()
	if !ok {
		http.Error(w, `{"error":"no forecast yet"}`, http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, struct {
		UpdatedAt time.Time   `json:"updated_at"`
		Daily     interface{} `json:"daily"`
	}{at, result.Daily})
}

// handleHealth reports degraded when the forecast is older than an hour;
// the scheduler should have produced several cycles in that window.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	_, at, ok := s.source.Latest()
	status := "ok"
	code := http.StatusOK
	switch {
	case !ok:
		status = "starting"
	case time.Since(at) > time.Hour:
		status = "stale"
		code = http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"status": status})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("encode response")
	}
}
