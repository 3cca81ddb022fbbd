// Package astro computes sun geometry for the site: sunrise and sunset
// instants, solar elevation and a clear-sky radiation estimate. It backs the
// diurnal temperature model and the cloud-cover derivation when the external
// platform does not hand in sun times of its own.
package astro

import (
	"math"
	"time"
)

const (
	deg = math.Pi / 180
	// Standard refraction-corrected altitude of the sun's center at rise/set.
	riseSetAltitude = -0.833
)

// declination returns the solar declination in degrees for a day of year.
func declination(dayOfYear int) float64 {
	return -23.44 * math.Cos(2*math.Pi/365.0*(float64(dayOfYear)+10))
}

// equationOfTime returns the solar-vs-clock offset in minutes.
func equationOfTime(dayOfYear int) float64 {
	b := 2 * math.Pi * float64(dayOfYear-81) / 364.0
	return 9.87*math.Sin(2*b) - 7.53*math.Cos(b) - 1.5*math.Sin(b)
}

// SolarNoon returns the instant the sun crosses the site meridian on the
// given date.
func SolarNoon(date time.Time, longitude float64) time.Time {
	doy := date.YearDay()
	offsetMinutes := -4*longitude - equationOfTime(doy)
	midnight := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	return midnight.Add(time.Duration((720 + offsetMinutes) * float64(time.Minute)))
}

// SunTimes returns sunrise and sunset for the date. ok is false during polar
// day or polar night, when the sun never crosses the horizon.
func SunTimes(date time.Time, latitude, longitude float64) (sunrise, sunset time.Time, ok bool) {
	doy := date.YearDay()
	decl := declination(doy)

	cosHourAngle := (math.Sin(riseSetAltitude*deg) - math.Sin(latitude*deg)*math.Sin(decl*deg)) /
		(math.Cos(latitude*deg) * math.Cos(decl*deg))
	if cosHourAngle < -1 || cosHourAngle > 1 {
		return time.Time{}, time.Time{}, false
	}

	halfDay := time.Duration(math.Acos(cosHourAngle) / deg * 4 * float64(time.Minute))
	noon := SolarNoon(date, longitude)
	return noon.Add(-halfDay), noon.Add(halfDay), true
}

// Elevation returns the solar elevation angle in degrees at an instant.
func Elevation(t time.Time, latitude, longitude float64) float64 {
	utc := t.UTC()
	decl := declination(utc.YearDay())

	solarMinutes := float64(utc.Hour()*60+utc.Minute()) + float64(utc.Second())/60 +
		4*longitude + equationOfTime(utc.YearDay())
	hourAngle := (solarMinutes/4 - 180) * deg

	sinElev := math.Sin(latitude*deg)*math.Sin(decl*deg) +
		math.Cos(latitude*deg)*math.Cos(decl*deg)*math.Cos(hourAngle)
	return math.Asin(sinElev) / deg
}

// ClearSkyRadiation estimates global horizontal irradiance in W/m² for a
// cloudless sky (Haurwitz model). Zero when the sun is below the horizon.
func ClearSkyRadiation(t time.Time, latitude, longitude float64) float64 {
	elev := Elevation(t, latitude, longitude)
	if elev <= 0 {
		return 0
	}
	sinE := math.Sin(elev * deg)
	return 1098 * sinE * math.Exp(-0.057/sinE)
}
