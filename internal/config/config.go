// Package config loads the site and sensor description from a YAML file.
// Everything the engine cannot derive on its own lives here: where the
// station is, what units its sensors report, and how often to poll it.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/wajo666/homeassistant-local-weather-forecast-sub002/internal/units"
)

type Config struct {
	Site    SiteConfig    `yaml:"site"`
	Station StationConfig `yaml:"station"`
	Sensors SensorsConfig `yaml:"sensors"`
	Logging LoggingConfig `yaml:"logging"`
}

// SiteConfig fixes the deployment location. Latitude and longitude are
// required; elevation defaults to sea level.
type SiteConfig struct {
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
	Elevation float64 `yaml:"elevation"`
}

// StationConfig points at the local weather station console.
type StationConfig struct {
	URL          string        `yaml:"url"`
	PollInterval time.Duration `yaml:"poll_interval"`
	Timeout      time.Duration `yaml:"timeout"`
}

// SensorsConfig declares the unit each sensor reports in, so readings can
// be normalized before any math sees them. Empty values mean the canonical
// unit for that quantity.
type SensorsConfig struct {
	PressureUnit    string `yaml:"pressure_unit"`
	TemperatureUnit string `yaml:"temperature_unit"`
	WindSpeedUnit   string `yaml:"wind_speed_unit"`
	PrecipUnit      string `yaml:"precip_unit"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Station.PollInterval == 0 {
		c.Station.PollInterval = 5 * time.Minute
	}
	if c.Station.Timeout == 0 {
		c.Station.Timeout = 15 * time.Second
	}
	if c.Sensors.PressureUnit == "" {
		c.Sensors.PressureUnit = string(units.UnitHPa)
	}
	if c.Sensors.TemperatureUnit == "" {
		c.Sensors.TemperatureUnit = string(units.UnitCelsius)
	}
	if c.Sensors.WindSpeedUnit == "" {
		c.Sensors.WindSpeedUnit = string(units.UnitMetersPerSecond)
	}
	if c.Sensors.PrecipUnit == "" {
		c.Sensors.PrecipUnit = string(units.UnitMillimetersPerHour)
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}
}

// Validate rejects configurations the engine cannot run with. An unknown
// sensor unit is a startup failure, not a per-reading one.
func (c *Config) Validate() error {
	if c.Site.Latitude < -90 || c.Site.Latitude > 90 {
		return fmt.Errorf("site latitude %.3f out of range [-90, 90]", c.Site.Latitude)
	}
	if c.Site.Longitude < -180 || c.Site.Longitude > 180 {
		return fmt.Errorf("site longitude %.3f out of range [-180, 180]", c.Site.Longitude)
	}
	if c.Station.URL == "" {
		return fmt.Errorf("station url is required")
	}
	if c.Station.PollInterval < 30*time.Second {
		return fmt.Errorf("station poll_interval %s too short, minimum 30s", c.Station.PollInterval)
	}

	checks := []struct {
		quantity units.Quantity
		unit     string
		field    string
	}{
		{units.QuantityPressure, c.Sensors.PressureUnit, "pressure_unit"},
		{units.QuantityTemperature, c.Sensors.TemperatureUnit, "temperature_unit"},
		{units.QuantityWindSpeed, c.Sensors.WindSpeedUnit, "wind_speed_unit"},
		{units.QuantityPrecipitation, c.Sensors.PrecipUnit, "precip_unit"},
	}
	for _, chk := range checks {
		if !units.Supported(units.Unit(chk.unit), chk.quantity) {
			return fmt.Errorf("sensors.%s: %w", chk.field, &units.UnsupportedUnitError{
				Unit:     units.Unit(chk.unit),
				Quantity: chk.quantity,
			})
		}
	}
	return nil
}
