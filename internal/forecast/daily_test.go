package forecast

import (
	"testing"
	"time"

	"github.com/wajo666/homeassistant-local-weather-forecast-sub002/internal/models"
)

func hourlyPoint(at time.Time, temp float64, cond models.Condition, prob int) models.ForecastPoint {
	return models.ForecastPoint{
		At:              at,
		Temperature:     temp,
		Condition:       cond,
		RainProbability: prob,
		Confidence:      models.ConfidenceHigh,
	}
}

func TestDailyTieBreakPrefersSevere(t *testing.T) {
	day := time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)
	points := []models.ForecastPoint{
		hourlyPoint(day.Add(9*time.Hour), 12, models.ConditionLightningRainy, 90),
		hourlyPoint(day.Add(12*time.Hour), 16, models.ConditionSunny, 10),
		hourlyPoint(day.Add(15*time.Hour), 17, models.ConditionSunny, 10),
		hourlyPoint(day.Add(18*time.Hour), 13, models.ConditionLightningRainy, 90),
	}

	daily := AggregateDaily(points)
	if len(daily) != 1 {
		t.Fatalf("len = %d, want 1", len(daily))
	}
	if daily[0].Condition != models.ConditionLightningRainy {
		t.Errorf("condition = %s, want lightning-rainy on frequency tie", daily[0].Condition)
	}
}

func TestDailyFullTieIsDeterministic(t *testing.T) {
	// A clear day splits evenly into sunny daytime hours and clear night
	// hours; both have severity 0, so count and severity both tie. The pick
	// must be sunny, and stable across repeated runs on the same input.
	day := time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)
	var points []models.ForecastPoint
	for h := 0; h < 24; h++ {
		cond := models.ConditionSunny
		if h%2 == 0 {
			cond = models.ConditionClearNight
		}
		points = append(points, hourlyPoint(day.Add(time.Duration(h)*time.Hour), 10, cond, 5))
	}

	for i := 0; i < 200; i++ {
		daily := AggregateDaily(points)
		if len(daily) != 1 {
			t.Fatalf("len = %d, want 1", len(daily))
		}
		if daily[0].Condition != models.ConditionSunny {
			t.Fatalf("run %d: condition = %s, want sunny on a full tie", i, daily[0].Condition)
		}
	}
}

func TestDailyAggregation(t *testing.T) {
	day := time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)
	var points []models.ForecastPoint
	for h := 0; h < 24; h++ {
		temp := 8 + float64(h%12)
		cond := models.ConditionPartlyCloudy
		prob := 20
		if h >= 18 {
			cond = models.ConditionRainy
			prob = 80
		}
		points = append(points, hourlyPoint(day.Add(time.Duration(h)*time.Hour), temp, cond, prob))
	}

	daily := AggregateDaily(points)
	if len(daily) != 1 {
		t.Fatalf("len = %d, want 1", len(daily))
	}
	d := daily[0]

	if d.TempMin != 8 || d.TempMax != 19 {
		t.Errorf("temps = [%v, %v], want [8, 19]", d.TempMin, d.TempMax)
	}
	// 18 hours at 20% + 6 at 80% = 35%.
	if d.RainProbability != 35 {
		t.Errorf("rain probability = %d, want 35", d.RainProbability)
	}
	// Partly cloudy is the clear majority; no tie to break.
	if d.Condition != models.ConditionPartlyCloudy {
		t.Errorf("condition = %s, want partlycloudy by frequency", d.Condition)
	}
}

func TestDailySplitsAcrossDates(t *testing.T) {
	start := time.Date(2026, 4, 2, 12, 0, 0, 0, time.UTC)
	var points []models.ForecastPoint
	for h := 0; h < 72; h++ {
		points = append(points, hourlyPoint(start.Add(time.Duration(h)*time.Hour), 10, models.ConditionCloudy, 30))
	}

	daily := AggregateDaily(points)
	if len(daily) < 3 {
		t.Fatalf("len = %d, want at least 3 days", len(daily))
	}
	for i := 1; i < len(daily); i++ {
		if !daily[i].Date.After(daily[i-1].Date) {
			t.Errorf("days out of order: %v then %v", daily[i-1].Date, daily[i].Date)
		}
	}
}

func TestDailyConfidenceTakesWorst(t *testing.T) {
	day := time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)
	points := []models.ForecastPoint{
		hourlyPoint(day.Add(1*time.Hour), 10, models.ConditionCloudy, 30),
		hourlyPoint(day.Add(2*time.Hour), 10, models.ConditionCloudy, 30),
	}
	points[1].Confidence = models.ConfidenceLow

	daily := AggregateDaily(points)
	if daily[0].Confidence != models.ConfidenceLow {
		t.Errorf("confidence = %s, want low", daily[0].Confidence)
	}
}
