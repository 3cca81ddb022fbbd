// Package units converts sensor readings between their native units and the
// canonical internal unit system (hPa, °C, m/s, mm). Everything downstream of
// this package works in canonical units only.
package units

import "fmt"

// Quantity identifies the physical quantity a value measures.
type Quantity string

const (
	QuantityPressure      Quantity = "pressure"
	QuantityTemperature   Quantity = "temperature"
	QuantityWindSpeed     Quantity = "wind_speed"
	QuantityPrecipitation Quantity = "precipitation"
)

// Unit is a measurement unit accepted on input or requested on output.
type Unit string

const (
	// Pressure units. Canonical: hPa.
	UnitHPa  Unit = "hPa"
	UnitMbar Unit = "mbar"
	UnitInHg Unit = "inHg"
	UnitMmHg Unit = "mmHg"
	UnitKPa  Unit = "kPa"
	UnitPa   Unit = "Pa"
	UnitPsi  Unit = "psi"

	// Temperature units. Canonical: °C.
	UnitCelsius    Unit = "°C"
	UnitFahrenheit Unit = "°F"
	UnitKelvin     Unit = "K"

	// Wind speed units. Canonical: m/s.
	UnitMetersPerSecond Unit = "m/s"
	UnitKmPerHour       Unit = "km/h"
	UnitMilesPerHour    Unit = "mph"
	UnitKnot            Unit = "kn"
	UnitFeetPerSecond   Unit = "ft/s"

	// Precipitation units. Canonical: mm (mm/h for rates).
	UnitMillimeters       Unit = "mm"
	UnitMillimetersPerHour Unit = "mm/h"
	UnitInches            Unit = "in"
	UnitInchesPerHour     Unit = "in/h"
)

// UnsupportedUnitError reports a unit that has no conversion for the given
// quantity. It fails the single conversion, never the whole cycle.
type UnsupportedUnitError struct {
	Unit     Unit
	Quantity Quantity
}

func (e *UnsupportedUnitError) Error() string {
	return fmt.Sprintf("units: unsupported unit %q for quantity %q", e.Unit, e.Quantity)
}

// conversion maps a native value v to canonical units as v*Factor + Offset.
type conversion struct {
	Factor float64
	Offset float64
}

// Conversion constants: 1 inHg = 33.8639 hPa, 1 mmHg = 1.333224 hPa,
// 1 psi = 68.9476 hPa, 1 kn = 0.514444 m/s, 1 in = 25.4 mm.
var conversions = map[Quantity]map[Unit]conversion{
	QuantityPressure: {
		UnitHPa:  {Factor: 1},
		UnitMbar: {Factor: 1},
		UnitInHg: {Factor: 33.8639},
		UnitMmHg: {Factor: 1.333224},
		UnitKPa:  {Factor: 10},
		UnitPa:   {Factor: 0.01},
		UnitPsi:  {Factor: 68.9476},
	},
	QuantityTemperature: {
		UnitCelsius:    {Factor: 1},
		UnitFahrenheit: {Factor: 5.0 / 9.0, Offset: -32.0 * 5.0 / 9.0},
		UnitKelvin:     {Factor: 1, Offset: -273.15},
	},
	QuantityWindSpeed: {
		UnitMetersPerSecond: {Factor: 1},
		UnitKmPerHour:       {Factor: 1.0 / 3.6},
		UnitMilesPerHour:    {Factor: 0.44704},
		UnitKnot:            {Factor: 0.514444},
		UnitFeetPerSecond:   {Factor: 0.3048},
	},
	QuantityPrecipitation: {
		UnitMillimeters:        {Factor: 1},
		UnitMillimetersPerHour: {Factor: 1},
		UnitInches:             {Factor: 25.4},
		UnitInchesPerHour:      {Factor: 25.4},
	},
}

// Normalize converts a value from its source unit to the canonical unit for
// the quantity. An unrecognized unit/quantity pair is an error; there is no
// default unit.
func Normalize(value float64, source Unit, q Quantity) (float64, error) {
	c, ok := lookup(source, q)
	if !ok {
		return 0, &UnsupportedUnitError{Unit: source, Quantity: q}
	}
	return value*c.Factor + c.Offset, nil
}

// Denormalize converts a canonical value back to the target unit.
func Denormalize(value float64, target Unit, q Quantity) (float64, error) {
	c, ok := lookup(target, q)
	if !ok {
		return 0, &UnsupportedUnitError{Unit: target, Quantity: q}
	}
	return (value - c.Offset) / c.Factor, nil
}

// Supported reports whether the unit is valid for the quantity.
func Supported(u Unit, q Quantity) bool {
	_, ok := lookup(u, q)
	return ok
}

// Canonical returns the canonical unit for a quantity.
func Canonical(q Quantity) Unit {
	switch q {
	case QuantityPressure:
		return UnitHPa
	case QuantityTemperature:
		return UnitCelsius
	case QuantityWindSpeed:
		return UnitMetersPerSecond
	case QuantityPrecipitation:
		return UnitMillimeters
	}
	return ""
}

func lookup(u Unit, q Quantity) (conversion, bool) {
	byUnit, ok := conversions[q]
	if !ok {
		return conversion{}, false
	}
	c, ok := byUnit[u]
	return c, ok
}
