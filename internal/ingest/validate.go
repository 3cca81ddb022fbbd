package ingest

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/wajo666/homeassistant-local-weather-forecast-sub002/internal/metrics"
	"github.com/wajo666/homeassistant-local-weather-forecast-sub002/internal/models"
)

// OutOfRangeWarning records a reading that was clamped to its physical
// range. The clamped value is still used; the warning travels with the
// stored observation so surprises can be audited later.
type OutOfRangeWarning struct {
	Sensor string
	Value  float64
	Min    float64
	Max    float64
}

func (w OutOfRangeWarning) Error() string {
	return fmt.Sprintf("ingest: %s reading %g outside [%g, %g], clamped", w.Sensor, w.Value, w.Min, w.Max)
}

// Flag is the short token stored in the observation's qc_flags column.
func (w OutOfRangeWarning) Flag() string {
	return w.Sensor + "_clamped"
}

// ValidateSnapshot clamps each reading to its physical range in place and
// returns a warning per touched sensor.
func ValidateSnapshot(snap *models.SensorSnapshot) []OutOfRangeWarning {
	var warnings []OutOfRangeWarning

	clamp := func(v *float64, lo, hi float64, sensor string) {
		if v == nil {
			return
		}
		if *v < lo || *v > hi {
			warnings = append(warnings, OutOfRangeWarning{Sensor: sensor, Value: *v, Min: lo, Max: hi})
			*v = math.Min(hi, math.Max(lo, *v))
			metrics.QCClampsTotal.WithLabelValues(sensor).Inc()
		}
	}

	clamp(snap.Pressure, 900, 1085, "pressure")
	clamp(snap.Temperature, -60, 60, "temperature")
	clamp(snap.Humidity, 0, 100, "humidity")
	clamp(snap.WindSpeed, 0, 75, "wind_speed")
	clamp(snap.WindGust, 0, 90, "wind_gust")
	clamp(snap.PrecipRate, 0, 300, "precip_rate")
	clamp(snap.SolarRadiation, 0, 1500, "solar_radiation")
	clamp(snap.UVIndex, 0, 16, "uv_index")
	clamp(snap.CloudCover, 0, 100, "cloud_cover")

	// A bearing is cyclic, not clamped: wrap it into [0, 360).
	if snap.WindBearing != nil {
		b := math.Mod(*snap.WindBearing, 360)
		if b < 0 {
			b += 360
		}
		if b != *snap.WindBearing {
			warnings = append(warnings, OutOfRangeWarning{Sensor: "wind_bearing", Value: *snap.WindBearing, Min: 0, Max: 360})
			*snap.WindBearing = b
		}
	}

	return warnings
}

func QualityFlagsToJSON(warnings []OutOfRangeWarning) string {
	if len(warnings) == 0 {
		return ""
	}
	flags := make([]string, len(warnings))
	for i, w := range warnings {
		flags[i] = w.Flag()
	}
	b, _ := json.Marshal(flags)
	return string(b)
}
