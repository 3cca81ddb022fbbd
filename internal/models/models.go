package models

import (
	"database/sql"
	"time"
)

// SensorSnapshot is one poll of the site's sensors, already normalized to
// canonical units (hPa, °C, m/s, mm/h, W/m²). Every field except the
// timestamp is optional; consumers degrade rather than fail when one is nil.
type SensorSnapshot struct {
	At             time.Time
	Pressure       *float64 // station-level, hPa
	Temperature    *float64 // °C
	Humidity       *float64 // percent 0–100
	WindSpeed      *float64 // m/s
	WindGust       *float64 // m/s
	WindBearing    *float64 // degrees, 0 = north
	PrecipRate     *float64 // mm/h
	SolarRadiation *float64 // W/m²
	UVIndex        *float64
	CloudCover     *float64 // percent 0–100
	DewPoint       *float64 // °C
}

// Site describes the single deployment location. Sunrise and sunset are the
// platform-supplied instants for the current day; when nil the engine
// computes its own.
type Site struct {
	Latitude  float64
	Longitude float64
	Elevation float64 // meters
	Sunrise   *time.Time
	Sunset    *time.Time
}

// Condition is the resolved weather classification exposed to consumers.
type Condition string

const (
	ConditionSunny          Condition = "sunny"
	ConditionClearNight     Condition = "clear-night"
	ConditionPartlyCloudy   Condition = "partlycloudy"
	ConditionCloudy         Condition = "cloudy"
	ConditionWindy          Condition = "windy"
	ConditionFog            Condition = "fog"
	ConditionRainy          Condition = "rainy"
	ConditionPouring        Condition = "pouring"
	ConditionSnowyRainy     Condition = "snowy-rainy"
	ConditionSnowy          Condition = "snowy"
	ConditionLightningRainy Condition = "lightning-rainy"
	ConditionExceptional    Condition = "exceptional"
)

// Confidence tags how much of the input set backed a given output.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// ForecastPoint is one hourly prediction. Points are rebuilt from scratch on
// every cycle and never mutated afterwards.
type ForecastPoint struct {
	At                  time.Time  `json:"at"`
	Temperature         float64    `json:"temperature"`
	Pressure            float64    `json:"pressure"`
	Humidity            float64    `json:"humidity"`
	DewPoint            float64    `json:"dew_point"`
	ApparentTemperature float64    `json:"apparent_temperature"`
	Condition           Condition  `json:"condition"`
	RainProbability     int        `json:"rain_probability"`
	Confidence          Confidence `json:"confidence"`
}

// DailyForecast is the reduction of one day's hourly points.
type DailyForecast struct {
	Date            time.Time  `json:"date"`
	TempMin         float64    `json:"temp_min"`
	TempMax         float64    `json:"temp_max"`
	RainProbability int        `json:"rain_probability"`
	Condition       Condition  `json:"condition"`
	Confidence      Confidence `json:"confidence"`
}

// CurrentConditions is the nowcast: smoothed present state plus the classic
// classification that produced it.
type CurrentConditions struct {
	At              time.Time  `json:"at"`
	Condition       Condition  `json:"condition"`
	UniversalIndex  int        `json:"universal_index"`
	TextKey         string     `json:"text_key"`
	RainProbability int        `json:"rain_probability"`
	Confidence      Confidence `json:"confidence"`
	Temperature     *float64   `json:"temperature,omitempty"`
	Pressure        *float64   `json:"pressure,omitempty"`
	Humidity        *float64   `json:"humidity,omitempty"`
	DewPoint        *float64   `json:"dew_point,omitempty"`
	WindSpeed       *float64   `json:"wind_speed,omitempty"`
}

// Observation is a stored sensor poll, one row per cycle.
type Observation struct {
	ID             int64
	ObservedAt     time.Time
	Pressure       sql.NullFloat64
	Temperature    sql.NullFloat64
	Humidity       sql.NullFloat64
	WindSpeed      sql.NullFloat64
	WindGust       sql.NullFloat64
	WindBearing    sql.NullFloat64
	PrecipRate     sql.NullFloat64
	SolarRadiation sql.NullFloat64
	UVIndex        sql.NullFloat64
	QCFlags        string
	CreatedAt      time.Time
}

// ForecastRun records one orchestration cycle for diagnostics.
type ForecastRun struct {
	ID             int64
	RanAt          time.Time
	UniversalIndex int
	Condition      string
	RainProb       int
	Confidence     string
	HourlyJSON     string
	DailyJSON      string
}
