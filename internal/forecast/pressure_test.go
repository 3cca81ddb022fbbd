package forecast

import (
	"math"
	"testing"

	"github.com/wajo666/homeassistant-local-weather-forecast-sub002/internal/history"
)

func fallingTrend(deltaHPa float64) *history.Trend {
	return &history.Trend{Delta: deltaHPa, WindowMinutes: 180, Direction: history.Falling}
}

func TestPressureLinearShortRange(t *testing.T) {
	// -3 hPa over 3 h is -1 hPa/h; the first three horizons track it exactly.
	m := PressureModel{Current: 1013, Trend: fallingTrend(-3)}
	for h := 1; h <= 3; h++ {
		want := 1013 - float64(h)
		if got := m.At(float64(h)); math.Abs(got-want) > 1e-9 {
			t.Errorf("At(%d) = %.2f, want %.2f", h, got, want)
		}
	}
}

func TestPressureDampingPreventsDrift(t *testing.T) {
	m := PressureModel{Current: 1013, Trend: fallingTrend(-6)}

	// Undamped, -2 hPa/h for 48 h would hit 917. The damped model converges
	// to current + slope*(linear + tau) = 1013 - 2*9 = 995.
	at48 := m.At(48)
	if at48 < 990 || at48 > 1000 {
		t.Errorf("At(48) = %.1f, want damped toward ~995", at48)
	}

	// Monotone in h for a steady falling trend.
	prev := m.At(0)
	for h := 1.0; h <= 48; h++ {
		cur := m.At(h)
		if cur > prev+1e-9 {
			t.Fatalf("pressure rose at h=%v despite falling trend", h)
		}
		prev = cur
	}
}

func TestPressureAbsoluteClamp(t *testing.T) {
	m := PressureModel{Current: 905, Trend: fallingTrend(-30)}
	for h := 0.0; h <= 72; h++ {
		if got := m.At(h); got < pressureFloorHPa {
			t.Fatalf("At(%v) = %.1f, below floor", h, got)
		}
	}

	high := PressureModel{Current: 1082, Trend: &history.Trend{Delta: 30, WindowMinutes: 180, Direction: history.Rising}}
	for h := 0.0; h <= 72; h++ {
		if got := high.At(h); got > pressureCeilHPa {
			t.Fatalf("At(%v) = %.1f, above ceiling", h, got)
		}
	}
}

func TestPressureSpikeSuppression(t *testing.T) {
	// A bogus 40 hPa jump in 10 minutes reads as 240 hPa/h; the hourly rate
	// cap keeps the one-hour prediction within ±10 hPa of current.
	m := PressureModel{Current: 1013, Trend: &history.Trend{Delta: 40, WindowMinutes: 10, Direction: history.Rising}}
	if got := m.At(1); got > 1013+maxHourlyDeltaHPa {
		t.Errorf("At(1) = %.1f, spike not suppressed", got)
	}
}

func TestPressureNilTrendIsFlat(t *testing.T) {
	m := PressureModel{Current: 1013}
	for _, h := range []float64{1, 6, 24} {
		if got := m.At(h); got != 1013 {
			t.Errorf("At(%v) = %.1f, want flat 1013 with no trend", h, got)
		}
	}
}

func TestLongRangeDecaysTowardClimatology(t *testing.T) {
	m := PressureModel{Current: 990, Trend: fallingTrend(-4)}

	near := m.LongRangeAt(7)
	far := m.LongRangeAt(72)
	if math.Abs(far-climatologicalHPa) > math.Abs(near-climatologicalHPa) {
		t.Errorf("long range should approach climatology: |%.1f| vs |%.1f|", far-climatologicalHPa, near-climatologicalHPa)
	}
	if math.Abs(far-climatologicalHPa) > 5 {
		t.Errorf("LongRangeAt(72) = %.1f, want near %.1f", far, climatologicalHPa)
	}
}
