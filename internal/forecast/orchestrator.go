package forecast

import (
	"errors"
	"math"
	"time"

	"github.com/wajo666/homeassistant-local-weather-forecast-sub002/internal/astro"
	"github.com/wajo666/homeassistant-local-weather-forecast-sub002/internal/history"
	"github.com/wajo666/homeassistant-local-weather-forecast-sub002/internal/models"
	"github.com/wajo666/homeassistant-local-weather-forecast-sub002/internal/zambretti"
)

const (
	defaultHourlyPoints = 24
	defaultDailyDays    = 3
	computeHorizonHours = 72

	// Persistence smoothing window for the horizon-0 point.
	persistenceWindow = 15 * time.Minute

	// Sensor staleness horizons: beyond these, a live reading no longer
	// constrains the forecast point.
	precipHorizonHours = 1
	solarHorizonHours  = 2
	windHorizonHours   = 6
)

// horizonBucket gives the short-range model's blend weight across a span of
// horizons, interpolated linearly inside the bucket. Policy per bucket:
// 1–3 h pure nowcast, 4–6 h transitional blend, 7+ h long-range only.
type horizonBucket struct {
	fromHour, toHour       int
	startWeight, endWeight float64
}

var horizonBuckets = []horizonBucket{
	{fromHour: 1, toHour: 3, startWeight: 1, endWeight: 1},
	{fromHour: 4, toHour: 6, startWeight: 0.75, endWeight: 0.25},
	{fromHour: 7, toHour: computeHorizonHours, startWeight: 0, endWeight: 0},
}

// shortWeight returns the nowcast share of the blend at horizon h.
func shortWeight(h int) float64 {
	for _, b := range horizonBuckets {
		if h >= b.fromHour && h <= b.toHour {
			if b.toHour == b.fromHour {
				return b.startWeight
			}
			frac := float64(h-b.fromHour) / float64(b.toHour-b.fromHour)
			return b.startWeight + frac*(b.endWeight-b.startWeight)
		}
	}
	return 0
}

// Orchestrator assembles forecast series from the trackers and the latest
// sensor snapshot. It only reads tracker state; all inputs are captured once
// at the top of Run so a concurrent tracker update cannot be observed
// mid-computation.
type Orchestrator struct {
	Site        models.Site
	Pressure    *history.Tracker
	Temperature *history.Tracker

	HourlyPoints int
	DailyDays    int
}

// Result is one complete forecast cycle. Pure function of tracker state,
// snapshot and site: identical inputs reproduce identical results.
type Result struct {
	Current models.CurrentConditions
	Hourly  []models.ForecastPoint
	Daily   []models.DailyForecast
}

// inputs is the immutable capture Run computes over.
type inputs struct {
	now  time.Time
	snap models.SensorSnapshot

	temperature float64 // smoothed, °C
	seaLevel    float64 // smoothed, hPa
	humidity    float64
	dewPoint    float64

	pressureTrend    history.Trend
	temperatureTrend history.Trend
	trendKnown       bool

	havePressure bool
	haveHumidity bool
	exceptional  bool
}

// Run computes the current classification plus hourly and daily series.
func (o *Orchestrator) Run(snap models.SensorSnapshot) Result {
	in := o.capture(snap)

	hours := o.HourlyPoints
	if hours <= 0 {
		hours = defaultHourlyPoints
	}
	days := o.DailyDays
	if days <= 0 {
		days = defaultDailyDays
	}

	temps := o.temperatureModel(in).Series(computeHorizonHours)
	pm := PressureModel{Current: in.seaLevel, Trend: &in.pressureTrend}

	all := make([]models.ForecastPoint, 0, computeHorizonHours+1)
	all = append(all, o.persistencePoint(in))
	for h := 1; h <= computeHorizonHours; h++ {
		all = append(all, o.pointAt(in, pm, temps, h))
	}

	if hours > len(all) {
		hours = len(all)
	}
	hourly := all[:hours]
	daily := AggregateDaily(all)
	if len(daily) > days {
		daily = daily[:days]
	}

	return Result{
		Current: o.currentConditions(in),
		Hourly:  hourly,
		Daily:   daily,
	}
}

// capture snapshots every input the computation will touch. The trackers are
// not read again afterwards.
func (o *Orchestrator) capture(snap models.SensorSnapshot) inputs {
	in := inputs{now: snap.At, snap: snap}

	in.temperature, _ = o.smoothed(o.Temperature, snap.Temperature, snap.At)
	stationPressure, havePressure := o.smoothed(o.Pressure, snap.Pressure, snap.At)
	in.havePressure = havePressure

	in.seaLevel = SeaLevelPressure(stationPressure, o.Site.Elevation, in.temperature)
	if !havePressure {
		in.seaLevel = climatologicalHPa
	}
	if in.seaLevel < pressureFloorHPa || in.seaLevel > pressureCeilHPa {
		in.seaLevel = clamp(in.seaLevel, pressureFloorHPa, pressureCeilHPa)
		in.exceptional = true
	}

	trend, err := o.Pressure.Trend()
	in.pressureTrend = trend
	in.trendKnown = err == nil
	if errors.Is(err, history.ErrInsufficientHistory) {
		// Not enough samples reads as steady, never as a failed cycle.
		in.pressureTrend = history.Trend{Direction: history.Steady}
	}
	if tTrend, err := o.Temperature.Trend(); err == nil {
		in.temperatureTrend = tTrend
	}

	in.humidity = 60
	if snap.Humidity != nil {
		in.humidity = clamp(*snap.Humidity, 0, 100)
		in.haveHumidity = true
	}
	if snap.DewPoint != nil {
		in.dewPoint = *snap.DewPoint
	} else {
		in.dewPoint = DewPoint(in.temperature, in.humidity)
	}
	return in
}

// smoothed averages a tracker's samples inside the persistence window to damp
// single-sample noise, falling back to the raw snapshot value.
func (o *Orchestrator) smoothed(t *history.Tracker, raw *float64, now time.Time) (float64, bool) {
	cutoff := now.Add(-persistenceWindow)
	var sum float64
	var n int
	for _, s := range t.Samples() {
		if !s.At.Before(cutoff) {
			sum += s.Value
			n++
		}
	}
	if n > 0 {
		return sum / float64(n), true
	}
	if raw != nil {
		return *raw, true
	}
	if last, ok := t.Latest(); ok {
		return last.Value, true
	}
	return 0, false
}

func (o *Orchestrator) temperatureModel(in inputs) TemperatureModel {
	return TemperatureModel{
		Site:           o.Site,
		Now:            in.now,
		Current:        in.temperature,
		Humidity:       in.snap.Humidity,
		WindSpeed:      in.snap.WindSpeed,
		SolarRadiation: in.snap.SolarRadiation,
		CloudCover:     in.snap.CloudCover,
	}
}

// classicAt recomputes the classic code from the predicted pressure and the
// predicted tendency at a horizon, not from the current observation.
func (o *Orchestrator) classicAt(in inputs, pm PressureModel, h int) zambretti.Code {
	pAt := o.blendedPressure(pm, h)
	prev := o.blendedPressure(pm, h-3)

	dir := history.Steady
	if delta := pAt - prev; delta > 1.6 {
		dir = history.Rising
	} else if delta < -1.6 {
		dir = history.Falling
	}
	if h == 0 {
		dir = in.pressureTrend.Direction
	}

	var bearing *float64
	if h <= windHorizonHours {
		bearing = in.snap.WindBearing
	}

	return zambretti.Forecast(zambretti.MethodZambretti, zambretti.Input{
		SeaLevelPressure: pAt,
		Trend:            dir,
		Month:            in.now.Month(),
		Latitude:         o.Site.Latitude,
		WindBearing:      bearing,
	})
}

// blendedPressure mixes the nowcast extrapolation and the long-range decayed
// model by the horizon bucket weights.
func (o *Orchestrator) blendedPressure(pm PressureModel, h int) float64 {
	if h <= 0 {
		return pm.At(0)
	}
	w := shortWeight(h)
	return w*pm.At(float64(h)) + (1-w)*pm.LongRangeAt(float64(h))
}

// pointAt builds one hourly ForecastPoint.
func (o *Orchestrator) pointAt(in inputs, pm PressureModel, temps []float64, h int) models.ForecastPoint {
	at := in.now.Add(time.Duration(h) * time.Hour)

	temp := temps[h-1]
	// Short-range temperature trend rides on top of the diurnal baseline and
	// decays away toward the long-range model.
	if in.temperatureTrend.WindowMinutes > 0 {
		slope := in.temperatureTrend.Delta / (in.temperatureTrend.WindowMinutes / 60)
		slope = clamp(slope, -3, 3)
		temp += slope * math.Min(float64(h), 3) * math.Exp(-float64(h-1)/4) * shortWeight(h)
	}

	pressure := o.blendedPressure(pm, h)
	code := o.classicAt(in, pm, h)

	futureRH := RelativeHumidity(temp, in.dewPoint)
	futureDew := DewPoint(temp, futureRH)
	spread := DewPointSpread(temp, futureDew)

	var precip, solar, wind *float64
	if h <= precipHorizonHours {
		precip = in.snap.PrecipRate
	}
	if h <= solarHorizonHours {
		solar = in.snap.SolarRadiation
	}
	if h <= windHorizonHours {
		wind = in.snap.WindSpeed
	}

	night := astro.Elevation(at, o.Site.Latitude, o.Site.Longitude) < 0

	cond := ResolveCondition(ConditionInputs{
		PrecipRate:     precip,
		SolarRadiation: solar,
		WindSpeed:      wind,
		Temperature:    temp,
		Humidity:       futureRH,
		DewPoint:       futureDew,
		ClearSky:       astro.ClearSkyRadiation(at, o.Site.Latitude, o.Site.Longitude),
		UniversalIndex: code.UniversalIndex,
		Night:          night,
	})

	windMS := 0.0
	if in.snap.WindSpeed != nil {
		windMS = *in.snap.WindSpeed
	}

	return models.ForecastPoint{
		At:                  at,
		Temperature:         round1(temp),
		Pressure:            round1(pressure),
		Humidity:            math.Round(futureRH),
		DewPoint:            round1(futureDew),
		ApparentTemperature: round1(ApparentTemperature(temp, futureRH, windMS)),
		Condition:           cond,
		RainProbability:     RainProbability(code.UniversalIndex, futureRH, spread),
		Confidence:          o.confidenceAt(in, code, h),
	}
}

// persistencePoint is horizon 0: smoothed current conditions.
func (o *Orchestrator) persistencePoint(in inputs) models.ForecastPoint {
	cur := o.currentConditions(in)

	windMS := 0.0
	if in.snap.WindSpeed != nil {
		windMS = *in.snap.WindSpeed
	}

	return models.ForecastPoint{
		At:                  in.now,
		Temperature:         round1(in.temperature),
		Pressure:            round1(in.seaLevel),
		Humidity:            math.Round(in.humidity),
		DewPoint:            round1(in.dewPoint),
		ApparentTemperature: round1(ApparentTemperature(in.temperature, in.humidity, windMS)),
		Condition:           cur.Condition,
		RainProbability:     cur.RainProbability,
		Confidence:          cur.Confidence,
	}
}

// currentConditions classifies the present from smoothed values and both
// classic methods. Method agreement feeds the confidence tag.
func (o *Orchestrator) currentConditions(in inputs) models.CurrentConditions {
	base := zambretti.Input{
		SeaLevelPressure: in.seaLevel,
		Trend:            in.pressureTrend.Direction,
		Month:            in.now.Month(),
		Latitude:         o.Site.Latitude,
		WindBearing:      in.snap.WindBearing,
	}
	primary := zambretti.Forecast(zambretti.MethodZambretti, base)

	night := astro.Elevation(in.now, o.Site.Latitude, o.Site.Longitude) < 0
	cond := ResolveCondition(ConditionInputs{
		PrecipRate:     in.snap.PrecipRate,
		SolarRadiation: in.snap.SolarRadiation,
		WindSpeed:      in.snap.WindSpeed,
		Temperature:    in.temperature,
		Humidity:       in.humidity,
		DewPoint:       in.dewPoint,
		ClearSky:       astro.ClearSkyRadiation(in.now, o.Site.Latitude, o.Site.Longitude),
		UniversalIndex: primary.UniversalIndex,
		Night:          night,
	})

	spread := DewPointSpread(in.temperature, in.dewPoint)

	temp := in.temperature
	press := in.seaLevel
	hum := in.humidity
	dew := in.dewPoint

	out := models.CurrentConditions{
		At:              in.now,
		Condition:       cond,
		UniversalIndex:  primary.UniversalIndex,
		TextKey:         primary.TextKey,
		RainProbability: RainProbability(primary.UniversalIndex, in.humidity, spread),
		Confidence:      o.confidenceAt(in, primary, 0),
		Temperature:     &temp,
		Pressure:        &press,
		Humidity:        &hum,
		DewPoint:        &dew,
		WindSpeed:       in.snap.WindSpeed,
	}
	return out
}

// confidenceAt degrades with missing inputs, disagreement between the two
// classic methods, off-scale pressure and growing horizon.
func (o *Orchestrator) confidenceAt(in inputs, primary zambretti.Code, h int) models.Confidence {
	if !in.trendKnown || !in.havePressure || in.exceptional || primary.Exceptional || h >= 7 {
		return models.ConfidenceLow
	}

	secondary := zambretti.Forecast(zambretti.MethodNegretti, zambretti.Input{
		SeaLevelPressure: in.seaLevel,
		Trend:            in.pressureTrend.Direction,
		Month:            in.now.Month(),
		Latitude:         o.Site.Latitude,
	})
	disagree := math.Abs(float64(primary.UniversalIndex-secondary.UniversalIndex)) > 4

	if h >= 4 || disagree || !in.haveHumidity || in.snap.WindSpeed == nil {
		return models.ConfidenceMedium
	}
	return models.ConfidenceHigh
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
