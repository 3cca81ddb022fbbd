package store

import (
	"database/sql"
	"time"

	"github.com/wajo666/homeassistant-local-weather-forecast-sub002/internal/models"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) InsertObservation(obs models.Observation) error {
	_, err := s.db.Exec(`
		INSERT INTO observations (observed_at, pressure, temperature, humidity, wind_speed, wind_gust, wind_bearing, precip_rate, solar_radiation, uv_index, qc_flags)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(observed_at) DO NOTHING
	`, obs.ObservedAt, obs.Pressure, obs.Temperature, obs.Humidity, obs.WindSpeed, obs.WindGust, obs.WindBearing, obs.PrecipRate, obs.SolarRadiation, obs.UVIndex, obs.QCFlags)
	return err
}

func (s *Store) GetLatestObservation() (*models.Observation, error) {
	row := s.db.QueryRow(`
		SELECT id, observed_at, pressure, temperature, humidity, wind_speed, wind_gust, wind_bearing, precip_rate, solar_radiation, uv_index, qc_flags, created_at
		FROM observations
		ORDER BY observed_at DESC
		LIMIT 1
	`)

	var obs models.Observation
	err := row.Scan(&obs.ID, &obs.ObservedAt, &obs.Pressure, &obs.Temperature, &obs.Humidity, &obs.WindSpeed, &obs.WindGust, &obs.WindBearing, &obs.PrecipRate, &obs.SolarRadiation, &obs.UVIndex, &obs.QCFlags, &obs.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &obs, nil
}

func (s *Store) GetObservations(start, end time.Time) ([]models.Observation, error) {
	rows, err := s.db.Query(`
		SELECT id, observed_at, pressure, temperature, humidity, wind_speed, wind_gust, wind_bearing, precip_rate, solar_radiation, uv_index, qc_flags, created_at
		FROM observations
		WHERE observed_at >= ? AND observed_at <= ?
		ORDER BY observed_at ASC
	`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var observations []models.Observation
	for rows.Next() {
		var obs models.Observation
		if err := rows.Scan(&obs.ID, &obs.ObservedAt, &obs.Pressure, &obs.Temperature, &obs.Humidity, &obs.WindSpeed, &obs.WindGust, &obs.WindBearing, &obs.PrecipRate, &obs.SolarRadiation, &obs.UVIndex, &obs.QCFlags, &obs.CreatedAt); err != nil {
			return nil, err
		}
		observations = append(observations, obs)
	}
	return observations, rows.Err()
}

// PruneObservations drops rows older than the retention window so the
// database stays bounded on long-lived installs.
func (s *Store) PruneObservations(olderThan time.Time) (int64, error) {
	res, err := s.db.Exec(`DELETE FROM observations WHERE observed_at < ?`, olderThan)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// SaveTrackerSnapshot upserts the serialized rolling history for one
// tracker, keyed by name ("pressure", "temperature").
func (s *Store) SaveTrackerSnapshot(name string, payload []byte) error {
	_, err := s.db.Exec(`
		INSERT INTO tracker_snapshots (name, payload, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			payload = excluded.payload,
			updated_at = excluded.updated_at
	`, name, string(payload), time.Now().UTC())
	return err
}

func (s *Store) GetTrackerSnapshot(name string) ([]byte, error) {
	var payload string
	err := s.db.QueryRow(`SELECT payload FROM tracker_snapshots WHERE name = ?`, name).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return []byte(payload), nil
}

func (s *Store) InsertForecastRun(run models.ForecastRun) error {
	_, err := s.db.Exec(`
		INSERT INTO forecast_runs (ran_at, universal_index, condition, rain_probability, confidence, hourly_json, daily_json)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, run.RanAt, run.UniversalIndex, run.Condition, run.RainProb, run.Confidence, run.HourlyJSON, run.DailyJSON)
	return err
}

func (s *Store) GetLatestForecastRun() (*models.ForecastRun, error) {
	row := s.db.QueryRow(`
		SELECT id, ran_at, universal_index, condition, rain_probability, confidence, hourly_json, daily_json
		FROM forecast_runs
		ORDER BY ran_at DESC
		LIMIT 1
	`)

	var run models.ForecastRun
	err := row.Scan(&run.ID, &run.RanAt, &run.UniversalIndex, &run.Condition, &run.RainProb, &run.Confidence, &run.HourlyJSON, &run.DailyJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

func (s *Store) PruneForecastRuns(olderThan time.Time) (int64, error) {
	res, err := s.db.Exec(`DELETE FROM forecast_runs WHERE ran_at < ?`, olderThan)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
