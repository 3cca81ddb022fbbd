package forecast

import (
	"math"

	"github.com/wajo666/homeassistant-local-weather-forecast-sub002/internal/history"
)

// Pressure model bounds. Linear extrapolation of the observed trend holds
// for the first hours, then the slope decays exponentially so a strong
// 3-hour tendency cannot drift the forecast off the barometer's scale.
const (
	pressureLinearHours = 3.0
	pressureDecayTau    = 6.0 // hours
	pressureFloorHPa    = 900.0
	pressureCeilHPa     = 1085.0
	maxHourlyDeltaHPa   = 10.0
)

// climatologicalHPa is the long-range attractor once the trend contribution
// has decayed away.
const climatologicalHPa = 1013.25

// PressureModel extrapolates sea-level pressure from the tracked trend.
type PressureModel struct {
	Current float64 // sea-level, hPa
	Trend   *history.Trend
}

// slopePerHour converts the windowed trend delta into an hourly rate, capped
// so one noisy sample cannot inject a spike.
func (m PressureModel) slopePerHour() float64 {
	if m.Trend == nil || m.Trend.WindowMinutes <= 0 {
		return 0
	}
	slope := m.Trend.Delta / (m.Trend.WindowMinutes / 60)
	return clamp(slope, -maxHourlyDeltaHPa, maxHourlyDeltaHPa)
}

// At predicts the sea-level pressure h hours out. The cumulative change is
// the integral of the damped slope: linear to pressureLinearHours, then
// exp(-t/tau) toward zero net change.
func (m PressureModel) At(h float64) float64 {
	if h <= 0 {
		return clamp(m.Current, pressureFloorHPa, pressureCeilHPa)
	}

	slope := m.slopePerHour()
	var delta float64
	if h <= pressureLinearHours {
		delta = slope * h
	} else {
		decayed := pressureDecayTau * (1 - math.Exp(-(h-pressureLinearHours)/pressureDecayTau))
		delta = slope * (pressureLinearHours + decayed)
	}

	return clamp(m.Current+delta, pressureFloorHPa, pressureCeilHPa)
}

// LongRangeAt blends the damped extrapolation toward the climatological
// baseline with the trend's influence decaying per hour past the horizon.
func (m PressureModel) LongRangeAt(h float64) float64 {
	decay := math.Exp(-math.Max(0, h-pressureLinearHours) / (2 * pressureDecayTau))
	target := climatologicalHPa + (m.At(h)-climatologicalHPa)*decay
	return clamp(target, pressureFloorHPa, pressureCeilHPa)
}
