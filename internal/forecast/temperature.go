package forecast

import (
	"math"
	"time"

	"github.com/wajo666/homeassistant-local-weather-forecast-sub002/internal/astro"
	"github.com/wajo666/homeassistant-local-weather-forecast-sub002/internal/models"
)

// ClimateZone is the latitude band that sets the seasonal amplitude.
type ClimateZone string

const (
	ZoneTropical  ClimateZone = "tropical"
	ZoneTemperate ClimateZone = "temperate"
	ZonePolar     ClimateZone = "polar"
)

// ZoneOf classifies a latitude by the tropic and polar circles.
func ZoneOf(latitude float64) ClimateZone {
	abs := math.Abs(latitude)
	switch {
	case abs < 23.44:
		return ZoneTropical
	case abs < 66.56:
		return ZoneTemperate
	default:
		return ZonePolar
	}
}

// oceanCenters are coarse reference points for the major ocean basins, used
// to infer continentality from coordinates alone.
var oceanCenters = [][2]float64{
	{25, -40},   // North Atlantic
	{-25, -25},  // South Atlantic
	{30, -160},  // North Pacific
	{-30, -130}, // South Pacific
	{10, 160},   // West Pacific
	{-25, 80},   // Indian
	{-60, 0},    // Southern
}

// Continentality returns 0 (maritime) to 1 (deep continental) from the
// angular distance to the nearest ocean basin center. Coarse, but it only
// has to pick an amplitude multiplier and an inertia constant.
func Continentality(latitude, longitude float64) float64 {
	minDist := math.MaxFloat64
	for _, c := range oceanCenters {
		d := angularDistance(latitude, longitude, c[0], c[1])
		if d < minDist {
			minDist = d
		}
	}
	// Basin centers are ~30° from their coasts; beyond ~75° is deep interior.
	return clamp((minDist-30)/45, 0, 1)
}

func angularDistance(lat1, lon1, lat2, lon2 float64) float64 {
	const deg = math.Pi / 180
	s := math.Sin(lat1*deg)*math.Sin(lat2*deg) +
		math.Cos(lat1*deg)*math.Cos(lat2*deg)*math.Cos((lon1-lon2)*deg)
	return math.Acos(clamp(s, -1, 1)) / deg
}

// TemperatureModel predicts the diurnal temperature course for the site.
// Optional sensor inputs fall back to neutral defaults; the model degrades
// in fidelity, never in availability.
type TemperatureModel struct {
	Site    models.Site
	Now     time.Time
	Current float64 // °C, smoothed

	Humidity       *float64
	WindSpeed      *float64
	SolarRadiation *float64
	CloudCover     *float64
}

const (
	diurnalLagHours  = 1.5 // peak lags solar noon
	baseNightTau     = 3.5 // hours, e-folding of post-sunset cooling
	solarBoostMax    = 1.5 // °C
	solarBoostDecayH = 6.0
)

// amplitude is the expected sunrise-to-peak diurnal swing for the site and
// season.
func (m TemperatureModel) amplitude() float64 {
	var base float64
	switch ZoneOf(m.Site.Latitude) {
	case ZoneTropical:
		base = 5.5
	case ZoneTemperate:
		base = 6.5
	default:
		base = 3.5
	}

	seasonal := 1.0
	summer := m.Now.Month() >= time.May && m.Now.Month() <= time.August
	if m.Site.Latitude < 0 {
		summer = m.Now.Month() <= time.February || m.Now.Month() >= time.November
	}
	if summer {
		seasonal = 1.3
	} else if ZoneOf(m.Site.Latitude) != ZoneTropical {
		seasonal = 0.8
	}

	continental := 0.7 + 0.8*Continentality(m.Site.Latitude, m.Site.Longitude)
	elevation := 1 + clamp(m.Site.Elevation/3000, 0, 1)*0.3

	return base * seasonal * continental * elevation
}

// sunAnchors returns the diurnal anchor instants, preferring the
// platform-supplied values over the computed ones. ok is false under
// polar day or night, where the cycle flattens out.
func (m TemperatureModel) sunAnchors() (rise, set time.Time, ok bool) {
	if m.Site.Sunrise != nil && m.Site.Sunset != nil {
		return *m.Site.Sunrise, *m.Site.Sunset, true
	}
	return astro.SunTimes(m.Now, m.Site.Latitude, m.Site.Longitude)
}

// nightTau scales radiative cooling speed: clear, dry, calm nights cool
// fastest, so their decay constant is shortest.
func (m TemperatureModel) nightTau() float64 {
	cloud := 50.0
	if m.CloudCover != nil {
		cloud = clamp(*m.CloudCover, 0, 100)
	}
	rh := 60.0
	if m.Humidity != nil {
		rh = clamp(*m.Humidity, 0, 100)
	}
	wind := 2.0
	if m.WindSpeed != nil {
		wind = math.Max(0, *m.WindSpeed)
	}

	// Each term slows cooling: full overcast roughly halves it again, as
	// does strong mixing wind.
	factor := (1 + cloud/100) * (1 + clamp((rh-50)/100, 0, 0.5)) * (1 + wind/8)
	return baseNightTau * factor
}

// shape maps an instant to the unitless diurnal position in [0, 1]:
// 0 at sunrise (coldest), 1 at the afternoon peak, decaying through the
// night back toward 0.
func (m TemperatureModel) shape(t time.Time, rise, set time.Time) float64 {
	dayLen := set.Sub(rise).Hours()
	lag := diurnalLagHours

	x := math.Mod(t.Sub(rise).Hours(), 24)
	if x < 0 {
		x += 24
	}

	warmSpan := dayLen + 2*lag
	if x <= dayLen+lag {
		return math.Sin(math.Pi * x / warmSpan)
	}
	dusk := math.Sin(math.Pi * (dayLen + lag) / warmSpan)
	return dusk * math.Exp(-(x-(dayLen+lag))/m.nightTau())
}

// solarBoost is the warming correction from the radiation sensor: a sky
// brighter or dimmer than the hour's clear-sky expectation shifts the short
// horizons, decaying away as the measurement goes stale.
func (m TemperatureModel) solarBoost(h float64) float64 {
	if m.SolarRadiation == nil {
		return 0
	}
	clearSky := astro.ClearSkyRadiation(m.Now, m.Site.Latitude, m.Site.Longitude)
	if clearSky < 50 {
		return 0
	}
	boost := clamp((*m.SolarRadiation/clearSky-0.5)*2*solarBoostMax, -solarBoostMax, solarBoostMax)
	return boost * math.Exp(-h/solarBoostDecayH)
}

// Series predicts hourly temperatures for the next n hours, anchored at the
// smoothed current value. A thermal-inertia low-pass keeps successive
// intervals free of step discontinuities; maritime sites respond slower.
func (m TemperatureModel) Series(n int) []float64 {
	rise, set, ok := m.sunAnchors()

	amp := m.amplitude()
	if !ok {
		// Polar day or night: no usable diurnal anchor, flatten the cycle.
		amp = 0
		rise = time.Date(m.Now.Year(), m.Now.Month(), m.Now.Day(), 6, 0, 0, 0, m.Now.Location())
		set = rise.Add(12 * time.Hour)
	}

	alpha := 0.35 + 0.4*Continentality(m.Site.Latitude, m.Site.Longitude)
	sNow := m.shape(m.Now, rise, set)

	out := make([]float64, n)
	prev := m.Current
	for h := 1; h <= n; h++ {
		t := m.Now.Add(time.Duration(h) * time.Hour)
		target := m.Current + amp*(m.shape(t, rise, set)-sNow) + m.solarBoost(float64(h))
		prev += alpha * (target - prev)
		out[h-1] = prev
	}
	return out
}
