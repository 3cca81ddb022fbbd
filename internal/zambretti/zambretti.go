// Package zambretti implements the two classical pressure-based forecast
// methods: the Negretti & Zambra pocket forecaster and the Zambretti
// forecaster with wind-direction correction. Both are pure functions of
// sea-level pressure, trend, season and wind; each owns its own code tables.
package zambretti

import (
	"math"
	"time"

	"github.com/wajo666/homeassistant-local-weather-forecast-sub002/internal/history"
)

// Method selects which classical forecaster computes the code.
type Method string

const (
	MethodNegretti  Method = "negretti"
	MethodZambretti Method = "zambretti"
)

// Calibration range of the original instruments. Readings outside it get the
// exceptional-pressure handling.
const (
	calibrationMin = 947.0
	calibrationMax = 1050.0
)

// Input carries everything either method consumes. WindBearing is optional
// and only folded in by the Zambretti method.
type Input struct {
	SeaLevelPressure float64 // hPa
	Trend            history.Direction
	Month            time.Month
	Latitude         float64
	WindBearing      *float64 // degrees, 0 = north
}

// Code is one method's classification. UniversalIndex (0–25) is the
// cross-method normalized value all downstream consumers key on; RawNumber
// and Letter are method-native diagnostics.
type Code struct {
	Method         Method
	RawNumber      int
	Letter         byte
	UniversalIndex int
	TextKey        string
	Exceptional    bool
}

// Forecast computes the code for one method. Deterministic: identical inputs
// always produce identical codes.
func Forecast(m Method, in Input) Code {
	p0 := in.SeaLevelPressure
	exceptional := p0 < calibrationMin || p0 > calibrationMax
	p0 = math.Min(math.Max(p0, calibrationMin), calibrationMax)

	raw := rawNumber(p0, in.Trend, season(in.Month, in.Latitude))

	if m == MethodZambretti {
		raw += windAdjustment(in.WindBearing, in.Latitude)
		if exceptional {
			// Off-scale readings push one step toward the matching terminal
			// class: above calibration toward settled, below toward stormy.
			if in.SeaLevelPressure > calibrationMax {
				raw--
			} else {
				raw++
			}
		}
	}

	letter := table(m).lookup(in.Trend, raw)
	return Code{
		Method:         m,
		RawNumber:      raw,
		Letter:         letter,
		UniversalIndex: int(letter - 'A'),
		TextKey:        textKeys[letter-'A'],
		Exceptional:    exceptional,
	}
}

// rawNumber applies the historical formulas with their seasonal adjustments.
func rawNumber(p0 float64, trend history.Direction, s seasonKind) int {
	switch trend {
	case history.Falling:
		return int(math.Round(127 - 0.12*p0))
	case history.Rising:
		raw := int(math.Round(185 - 0.16*p0))
		if s == seasonSummer {
			raw++
		}
		return raw
	default:
		raw := int(math.Round(144 - 0.13*p0))
		if s == seasonWinter {
			raw--
		}
		return raw
	}
}

type seasonKind int

const (
	seasonOther seasonKind = iota
	seasonWinter
	seasonSummer
)

func season(m time.Month, latitude float64) seasonKind {
	var s seasonKind
	switch m {
	case time.December, time.January, time.February:
		s = seasonWinter
	case time.June, time.July, time.August:
		s = seasonSummer
	default:
		return seasonOther
	}
	if latitude < 0 {
		if s == seasonWinter {
			return seasonSummer
		}
		return seasonWinter
	}
	return s
}

// windAdjustment shifts the raw code by wind sector. Winds from the
// equatorward quadrant carry moist air and worsen the outlook; poleward
// winds leave it unchanged. Mirrored for the southern hemisphere.
func windAdjustment(bearing *float64, latitude float64) int {
	if bearing == nil {
		return 0
	}
	b := math.Mod(*bearing, 360)
	if b < 0 {
		b += 360
	}
	if latitude < 0 {
		// Mirror across the east-west axis so "equatorward" stays correct.
		b = math.Mod(540-b, 360)
	}
	sector := int(math.Mod(b+22.5, 360) / 45) // 0=N .. 7=NW
	return [8]int{0, 1, 2, 3, 3, 2, 1, 0}[sector]
}
