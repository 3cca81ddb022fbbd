// Package ingest runs the poll cycle: fetch a snapshot from the station,
// quality-control it, feed the history trackers, run the forecast engine
// and persist everything.
package ingest

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/wajo666/homeassistant-local-weather-forecast-sub002/internal/forecast"
	"github.com/wajo666/homeassistant-local-weather-forecast-sub002/internal/history"
	"github.com/wajo666/homeassistant-local-weather-forecast-sub002/internal/metrics"
	"github.com/wajo666/homeassistant-local-weather-forecast-sub002/internal/models"
	"github.com/wajo666/homeassistant-local-weather-forecast-sub002/internal/store"
)

const (
	observationRetention = 14 * 24 * time.Hour
	forecastRunRetention = 7 * 24 * time.Hour

	pressureSnapshotName    = "pressure"
	temperatureSnapshotName = "temperature"
)

// Poller fetches one snapshot from the station. Satisfied by
// station.Client; stubbed in tests.
type Poller interface {
	FetchCurrent(ctx context.Context) (*models.SensorSnapshot, error)
}

type Scheduler struct {
	store       *store.Store
	poller      Poller
	pressure    *history.Tracker
	temperature *history.Tracker
	engine      *forecast.Orchestrator
	interval    time.Duration

	mu     sync.RWMutex
	latest *forecast.Result
	lastAt time.Time
}

func NewScheduler(st *store.Store, poller Poller, site models.Site, interval time.Duration) *Scheduler {
	pressure := history.New(history.PressureConfig())
	temperature := history.New(history.TemperatureConfig())
	return &Scheduler{
		store:       st,
		poller:      poller,
		pressure:    pressure,
		temperature: temperature,
		engine: &forecast.Orchestrator{
			Site:        site,
			Pressure:    pressure,
			Temperature: temperature,
		},
		interval: interval,
	}
}

// RestoreHistory reloads the tracker state persisted by the previous run.
// A missing or partly unreadable snapshot only shortens the history; the
// trackers refill from live polls either way.
func (s *Scheduler) RestoreHistory() error {
	for _, t := range []struct {
		name    string
		tracker *history.Tracker
	}{
		{pressureSnapshotName, s.pressure},
		{temperatureSnapshotName, s.temperature},
	} {
		payload, err := s.store.GetTrackerSnapshot(t.name)
		if err != nil {
			return fmt.Errorf("load %s snapshot: %w", t.name, err)
		}
		if payload == nil {
			continue
		}
		skipped, err := t.tracker.Restore(payload)
		if err != nil {
			log.Warn().Str("tracker", t.name).Err(err).Msg("discarding unreadable history snapshot")
			continue
		}
		if skipped > 0 {
			log.Warn().Str("tracker", t.name).Int("skipped", skipped).Msg("skipped malformed history entries")
			metrics.RestoreEntriesSkipped.WithLabelValues(t.name).Add(float64(skipped))
		}
		log.Info().Str("tracker", t.name).Int("samples", t.tracker.Len()).Msg("restored history")
	}
	return nil
}

func (s *Scheduler) Run(ctx context.Context) {
	s.UpdateOnce(ctx)

	ticker := time.NewTicker(s.interval)
	pruneTicker := time.NewTicker(6 * time.Hour)
	defer ticker.Stop()
	defer pruneTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("scheduler shutting down")
			return
		case <-ticker.C:
			s.UpdateOnce(ctx)
		case <-pruneTicker.C:
			s.pruneStorage()
		}
	}
}

// UpdateOnce runs one full cycle. Errors are logged, not returned up the
// loop; a failed poll leaves the previous forecast in place.
func (s *Scheduler) UpdateOnce(ctx context.Context) {
	snap, err := s.poller.FetchCurrent(ctx)
	if err != nil {
		log.Error().Err(err).Msg("station poll failed")
		metrics.ForecastRunsTotal.WithLabelValues("poll_error").Inc()
		return
	}

	warnings := ValidateSnapshot(snap)
	for _, w := range warnings {
		log.Warn().Str("sensor", w.Sensor).Float64("value", w.Value).Msg(w.Error())
	}

	if snap.Pressure != nil {
		s.pressure.Record(*snap.Pressure, snap.At)
	}
	if snap.Temperature != nil {
		s.temperature.Record(*snap.Temperature, snap.At)
	}
	metrics.TrackerSamples.WithLabelValues(pressureSnapshotName).Set(float64(s.pressure.Len()))
	metrics.TrackerSamples.WithLabelValues(temperatureSnapshotName).Set(float64(s.temperature.Len()))

	if err := s.store.InsertObservation(observationFrom(snap, warnings)); err != nil {
		log.Error().Err(err).Msg("store observation")
	} else {
		metrics.ObservationsRecorded.Inc()
	}

	result := s.engine.Run(*snap)

	s.mu.Lock()
	s.latest = &result
	s.lastAt = snap.At
	s.mu.Unlock()

	metrics.ForecastUniversalIndex.Set(float64(result.Current.UniversalIndex))
	metrics.ForecastRainProbability.Set(float64(result.Current.RainProbability))
	metrics.ForecastRunsTotal.WithLabelValues("ok").Inc()

	s.persistState(snap.At, result)

	log.Info().
		Str("condition", string(result.Current.Condition)).
		Int("universal_index", result.Current.UniversalIndex).
		Int("rain_probability", result.Current.RainProbability).
		Str("confidence", string(result.Current.Confidence)).
		Msg("forecast updated")
}

// Latest returns the most recent forecast cycle, if one has completed.
func (s *Scheduler) Latest() (forecast.Result, time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.latest == nil {
		return forecast.Result{}, time.Time{}, false
	}
	return *s.latest, s.lastAt, true
}

func (s *Scheduler) persistState(at time.Time, result forecast.Result) {
	for _, t := range []struct {
		name    string
		tracker *history.Tracker
	}{
		{pressureSnapshotName, s.pressure},
		{temperatureSnapshotName, s.temperature},
	} {
		payload, err := t.tracker.Snapshot()
		if err != nil {
			log.Error().Str("tracker", t.name).Err(err).Msg("snapshot history")
			continue
		}
		if err := s.store.SaveTrackerSnapshot(t.name, payload); err != nil {
			log.Error().Str("tracker", t.name).Err(err).Msg("save history snapshot")
		}
	}

	hourly, err := json.Marshal(result.Hourly)
	if err != nil {
		log.Error().Err(err).Msg("marshal hourly series")
		return
	}
	daily, err := json.Marshal(result.Daily)
	if err != nil {
		log.Error().Err(err).Msg("marshal daily series")
		return
	}

	run := models.ForecastRun{
		RanAt:          at,
		UniversalIndex: result.Current.UniversalIndex,
		Condition:      string(result.Current.Condition),
		RainProb:       result.Current.RainProbability,
		Confidence:     string(result.Current.Confidence),
		HourlyJSON:     string(hourly),
		DailyJSON:      string(daily),
	}
	if err := s.store.InsertForecastRun(run); err != nil {
		log.Error().Err(err).Msg("store forecast run")
	}
}

func (s *Scheduler) pruneStorage() {
	now := time.Now().UTC()
	if n, err := s.store.PruneObservations(now.Add(-observationRetention)); err != nil {
		log.Error().Err(err).Msg("prune observations")
	} else if n > 0 {
		log.Info().Int64("rows", n).Msg("pruned old observations")
	}
	if n, err := s.store.PruneForecastRuns(now.Add(-forecastRunRetention)); err != nil {
		log.Error().Err(err).Msg("prune forecast runs")
	} else if n > 0 {
		log.Info().Int64("rows", n).Msg("pruned old forecast runs")
	}
}

func observationFrom(snap *models.SensorSnapshot, warnings []OutOfRangeWarning) models.Observation {
	obs := models.Observation{
		ObservedAt: snap.At,
		QCFlags:    QualityFlagsToJSON(warnings),
	}
	set := func(dst *sql.NullFloat64, src *float64) {
		if src != nil {
			*dst = sql.NullFloat64{Float64: *src, Valid: true}
		}
	}
	set(&obs.Pressure, snap.Pressure)
	set(&obs.Temperature, snap.Temperature)
	set(&obs.Humidity, snap.Humidity)
	set(&obs.WindSpeed, snap.WindSpeed)
	set(&obs.WindGust, snap.WindGust)
	set(&obs.WindBearing, snap.WindBearing)
	set(&obs.PrecipRate, snap.PrecipRate)
	set(&obs.SolarRadiation, snap.SolarRadiation)
	set(&obs.UVIndex, snap.UVIndex)
	return obs
}
