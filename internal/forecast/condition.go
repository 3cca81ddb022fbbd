package forecast

import (
	"github.com/wajo666/homeassistant-local-weather-forecast-sub002/internal/models"
)

const (
	// Snow threshold: predicted temperatures at or below this turn rain
	// variants into snow variants. 1 °C leaves margin for wet snow.
	snowTempC      = 1.0
	sleetTempC     = 3.0
	pouringRateMMH = 7.6
	windyMS        = 10.8 // Beaufort 6

	// Fog criteria: either pair triggers.
	fogSpreadTight   = 1.0
	fogHumidityTight = 80.0
	fogSpreadLoose   = 1.5
	fogHumidityLoose = 85.0
)

// severity ranks conditions for the daily tie-break. Higher is worse.
var severity = map[models.Condition]int{
	models.ConditionSunny:          0,
	models.ConditionClearNight:     0,
	models.ConditionPartlyCloudy:   1,
	models.ConditionCloudy:         2,
	models.ConditionWindy:          3,
	models.ConditionFog:            4,
	models.ConditionRainy:          5,
	models.ConditionSnowyRainy:     6,
	models.ConditionSnowy:          7,
	models.ConditionPouring:        8,
	models.ConditionLightningRainy: 9,
	models.ConditionExceptional:    10,
}

// Severity returns the tie-break rank of a condition.
func Severity(c models.Condition) int {
	return severity[c]
}

// conditionOrder is the canonical enumeration of conditions. Daily picks
// that still tie after count and severity resolve to the earliest entry, so
// a clear day split between sunny hours and clear night hours reads as
// sunny.
var conditionOrder = []models.Condition{
	models.ConditionSunny,
	models.ConditionClearNight,
	models.ConditionPartlyCloudy,
	models.ConditionCloudy,
	models.ConditionWindy,
	models.ConditionFog,
	models.ConditionRainy,
	models.ConditionSnowyRainy,
	models.ConditionSnowy,
	models.ConditionPouring,
	models.ConditionLightningRainy,
	models.ConditionExceptional,
}

// ConditionInputs are the already-resolved values condition resolution runs
// over. Pointers are optional sensors; absent ones skip their branch.
type ConditionInputs struct {
	PrecipRate     *float64
	SolarRadiation *float64
	WindSpeed      *float64
	Temperature    float64
	Humidity       float64
	DewPoint       float64
	// ClearSky is the cloudless radiation expected right now; zero at night.
	ClearSky       float64
	UniversalIndex int
	Night          bool
}

// ResolveCondition applies the strict priority order: active precipitation,
// then fog criteria, then solar-derived cloud cover, then the classic code.
// The universal index is the single source of truth for the pressure-derived
// branch; letters never feed condition text.
func ResolveCondition(in ConditionInputs) models.Condition {
	if in.PrecipRate != nil && *in.PrecipRate > 0 {
		return precipCondition(*in.PrecipRate, in.Temperature, in.UniversalIndex)
	}

	spread := DewPointSpread(in.Temperature, in.DewPoint)
	if (spread < fogSpreadTight && in.Humidity > fogHumidityTight) ||
		(spread < fogSpreadLoose && in.Humidity > fogHumidityLoose) {
		return models.ConditionFog
	}

	if c, ok := solarCondition(in); ok {
		return windOverlay(c, in.WindSpeed)
	}

	return windOverlay(indexCondition(in.UniversalIndex, in.Night), in.WindSpeed)
}

func precipCondition(rate, tempC float64, universalIndex int) models.Condition {
	if tempC <= snowTempC {
		return models.ConditionSnowy
	}
	if tempC <= sleetTempC {
		return models.ConditionSnowyRainy
	}
	if universalIndex >= 24 {
		return models.ConditionLightningRainy
	}
	if rate >= pouringRateMMH {
		return models.ConditionPouring
	}
	return models.ConditionRainy
}

// solarCondition derives cloud cover from measured vs clear-sky radiation.
// Only meaningful with the sun reasonably high; at night or with no sensor
// it defers to the classic code.
func solarCondition(in ConditionInputs) (models.Condition, bool) {
	if in.Night || in.SolarRadiation == nil || in.ClearSky < 50 {
		return "", false
	}
	ratio := *in.SolarRadiation / in.ClearSky
	switch {
	case ratio >= 0.8:
		return models.ConditionSunny, true
	case ratio >= 0.45:
		return models.ConditionPartlyCloudy, true
	default:
		return models.ConditionCloudy, true
	}
}

// indexCondition is the pressure-derived fallback mapping from the universal
// index. More unsettled classes map to wetter conditions.
func indexCondition(idx int, night bool) models.Condition {
	switch {
	case idx <= 2:
		if night {
			return models.ConditionClearNight
		}
		return models.ConditionSunny
	case idx <= 9:
		return models.ConditionPartlyCloudy
	case idx <= 17:
		return models.ConditionCloudy
	case idx <= 23:
		return models.ConditionRainy
	default:
		return models.ConditionLightningRainy
	}
}

// windOverlay upgrades cloud-family conditions to windy in strong wind.
// Precipitation and fog outrank wind and are never replaced.
func windOverlay(c models.Condition, windMS *float64) models.Condition {
	if windMS == nil || *windMS < windyMS {
		return c
	}
	switch c {
	case models.ConditionSunny, models.ConditionClearNight,
		models.ConditionPartlyCloudy, models.ConditionCloudy:
		return models.ConditionWindy
	}
	return c
}

// RainProbability maps the universal index onto 0–100 and applies the
// bounded humidity and dew-point-spread nudges. The nudge can tilt a
// borderline forecast wetter but never dominates the classic classification.
func RainProbability(universalIndex int, futureHumidity, spread float64) int {
	prob := float64(universalIndex) * 4

	var nudge float64
	if futureHumidity > 90 {
		nudge += 10
	} else if futureHumidity > 80 {
		nudge += 5
	}
	if spread < 2 {
		nudge += 5
	}
	nudge = clamp(nudge, -15, 15)

	return int(clamp(prob+nudge, 0, 100))
}
