package forecast

import "math"

// Magnus formula constants over liquid water.
const (
	magnusA = 17.625
	magnusB = 243.04 // °C
)

// saturationVaporPressure returns e_s in hPa for a temperature in °C.
func saturationVaporPressure(tempC float64) float64 {
	return 6.1094 * math.Exp(magnusA*tempC/(magnusB+tempC))
}

// DewPoint computes the dew point in °C from temperature and relative
// humidity (0–100).
func DewPoint(tempC, humidity float64) float64 {
	if humidity < 1 {
		humidity = 1
	}
	alpha := math.Log(humidity/100) + magnusA*tempC/(magnusB+tempC)
	return magnusB * alpha / (magnusA - alpha)
}

// RelativeHumidity inverts DewPoint: the humidity a fixed dew point implies
// at a different temperature. This is the Clausius–Clapeyron estimate the
// orchestrator uses to project humidity onto predicted temperatures.
func RelativeHumidity(tempC, dewPointC float64) float64 {
	rh := 100 * saturationVaporPressure(dewPointC) / saturationVaporPressure(tempC)
	return math.Min(100, math.Max(1, rh))
}

// SeaLevelPressure reduces a station-level pressure to sea level using the
// barometric formula with a standard 6.5 K/km lapse rate.
func SeaLevelPressure(stationHPa, elevationM, tempC float64) float64 {
	if elevationM == 0 {
		return stationHPa
	}
	kelvin := tempC + 273.15
	return stationHPa * math.Pow(1-(0.0065*elevationM)/(kelvin+0.0065*elevationM), -5.257)
}

// ApparentTemperature is the Australian apparent temperature: air temperature
// adjusted for humidity-held heat and wind cooling.
func ApparentTemperature(tempC, humidity, windMS float64) float64 {
	vapor := humidity / 100 * saturationVaporPressure(tempC)
	return tempC + 0.33*vapor - 0.70*windMS - 4.0
}

// DewPointSpread is the temperature excess over the dew point, the primary
// fog discriminator.
func DewPointSpread(tempC, dewPointC float64) float64 {
	return tempC - dewPointC
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}
