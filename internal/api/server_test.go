package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/wajo666/homeassistant-local-weather-forecast-sub002/internal/forecast"
	"github.com/wajo666/homeassistant-local-weather-forecast-sub002/internal/models"
)

type stubSource struct {
	result forecast.Result
	at     time.Time
	ok     bool
}

func (s *stubSource) Latest() (forecast.Result, time.Time, bool) {
	return s.result, s.at, s.ok
}

func sampleResult(at time.Time) forecast.Result {
	idx := 7.0
	return forecast.Result{
		Current: models.CurrentConditions{
			At:              at,
			Condition:       models.ConditionPartlyCloudy,
			UniversalIndex:  7,
			TextKey:         "fairly_fine_showers_likely",
			RainProbability: 28,
			Confidence:      models.ConfidenceHigh,
			Temperature:     &idx,
		},
		Hourly: []models.ForecastPoint{
			{At: at, Temperature: 14.6, Condition: models.ConditionPartlyCloudy, Confidence: models.ConfidenceHigh},
		},
		Daily: []models.DailyForecast{
			{Date: at.Truncate(24 * time.Hour), TempMin: 9.1, TempMax: 17.3, Condition: models.ConditionPartlyCloudy},
		},
	}
}

func TestHandleCurrent(t *testing.T) {
	at := time.Date(2026, 5, 20, 10, 0, 0, 0, time.UTC)
	srv := NewServer(&stubSource{result: sampleResult(at), at: at, ok: true}, ":0")

	req := httptest.NewRequest(http.MethodGet, "/api/current", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	var body struct {
		UpdatedAt time.Time                `json:"updated_at"`
		Current   models.CurrentConditions `json:"current"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Current.UniversalIndex != 7 {
		t.Errorf("UniversalIndex = %d, want 7", body.Current.UniversalIndex)
	}
	if body.Current.Condition != models.ConditionPartlyCloudy {
		t.Errorf("Condition = %q", body.Current.Condition)
	}
}

func TestHandleHourlyAndDaily(t *testing.T) {
	at := time.Date(2026, 5, 20, 10, 0, 0, 0, time.UTC)
	srv := NewServer(&stubSource{result: sampleResult(at), at: at, ok: true}, ":0")

	for _, path := range []string{"/api/forecast/hourly", "/api/forecast/daily"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("%s status = %d, want 200", path, rec.Code)
		}
	}
}

func TestNoForecastYet(t *testing.T) {
	srv := NewServer(&stubSource{}, ":0")

	for _, path := range []string{"/api/current", "/api/forecast/hourly", "/api/forecast/daily"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)
		if rec.Code != http.StatusServiceUnavailable {
			t.Errorf("%s status = %d, want 503", path, rec.Code)
		}
	}
}

func TestHealth(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name       string
		source     *stubSource
		wantCode   int
		wantStatus string
	}{
		{"starting", &stubSource{}, http.StatusOK, "starting"},
		{"fresh", &stubSource{at: now, ok: true}, http.StatusOK, "ok"},
		{"stale", &stubSource{at: now.Add(-2 * time.Hour), ok: true}, http.StatusServiceUnavailable, "stale"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := NewServer(tt.source, ":0")
			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			rec := httptest.NewRecorder()
			srv.Handler().ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body["status"] != tt.wantStatus {
				t.Errorf("status = %q, want %q", body["status"], tt.wantStatus)
			}
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv := NewServer(&stubSource{}, ":0")
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}
