// Package station polls the local weather station console over HTTP and
// maps its native readings into normalized sensor snapshots. No external
// weather service is involved; the console lives on the LAN.
package station

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"

	"github.com/wajo666/homeassistant-local-weather-forecast-sub002/internal/config"
	"github.com/wajo666/homeassistant-local-weather-forecast-sub002/internal/metrics"
	"github.com/wajo666/homeassistant-local-weather-forecast-sub002/internal/models"
	"github.com/wajo666/homeassistant-local-weather-forecast-sub002/internal/units"
)

type Client struct {
	url     string
	sensors config.SensorsConfig
	client  *http.Client
}

func NewClient(url string, timeout time.Duration, sensors config.SensorsConfig) *Client {
	return &Client{
		url:     url,
		sensors: sensors,
		client:  &http.Client{Timeout: timeout},
	}
}

// liveData is the console's JSON payload. Every reading is optional; the
// console omits sensors it does not have. Values arrive in whatever units
// the sensors block of the config declares.
type liveData struct {
	Time           string   `json:"time"`
	Pressure       *float64 `json:"pressure"`
	Temperature    *float64 `json:"temperature"`
	Humidity       *float64 `json:"humidity"`
	WindSpeed      *float64 `json:"wind_speed"`
	WindGust       *float64 `json:"wind_gust"`
	WindBearing    *float64 `json:"wind_bearing"`
	PrecipRate     *float64 `json:"precip_rate"`
	SolarRadiation *float64 `json:"solar_radiation"`
	UVIndex        *float64 `json:"uv_index"`
	CloudCover     *float64 `json:"cloud_cover"`
	DewPoint       *float64 `json:"dew_point"`
}

// FetchCurrent polls the console once, retrying transient failures with
// exponential backoff. Connection errors are retryable (the console reboots
// on firmware updates); malformed payloads are not.
func (c *Client) FetchCurrent(ctx context.Context) (*models.SensorSnapshot, error) {
	start := time.Now()

	var body []byte
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("build request: %w", err))
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return fmt.Errorf("fetch live data: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusServiceUnavailable || resp.StatusCode == http.StatusTooManyRequests {
			return fmt.Errorf("console busy: status %d", resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			b, _ := io.ReadAll(resp.Body)
			return backoff.Permanent(fmt.Errorf("fetch live data: status %d: %s", resp.StatusCode, string(b)))
		}

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("read body: %w", err)
		}
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 90 * time.Second
	if err := backoff.Retry(operation, backoff.WithContext(bo, ctx)); err != nil {
		metrics.StationPollsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	metrics.StationPollsTotal.WithLabelValues("ok").Inc()
	metrics.StationPollLatency.Observe(time.Since(start).Seconds())

	var data liveData
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("unmarshal live data: %w", err)
	}

	return c.normalize(data)
}

// normalize converts each present reading from its declared native unit to
// canonical units. A reading that fails conversion is dropped with a warning
// rather than failing the poll; the rest of the snapshot survives.
func (c *Client) normalize(data liveData) (*models.SensorSnapshot, error) {
	snap := &models.SensorSnapshot{At: time.Now().UTC()}
	if data.Time != "" {
		if at, err := time.Parse(time.RFC3339, data.Time); err == nil {
			snap.At = at.UTC()
		}
	}

	snap.Pressure = c.convert(data.Pressure, units.Unit(c.sensors.PressureUnit), units.QuantityPressure, "pressure")
	snap.Temperature = c.convert(data.Temperature, units.Unit(c.sensors.TemperatureUnit), units.QuantityTemperature, "temperature")
	snap.DewPoint = c.convert(data.DewPoint, units.Unit(c.sensors.TemperatureUnit), units.QuantityTemperature, "dew_point")
	snap.WindSpeed = c.convert(data.WindSpeed, units.Unit(c.sensors.WindSpeedUnit), units.QuantityWindSpeed, "wind_speed")
	snap.WindGust = c.convert(data.WindGust, units.Unit(c.sensors.WindSpeedUnit), units.QuantityWindSpeed, "wind_gust")
	snap.PrecipRate = c.convert(data.PrecipRate, units.Unit(c.sensors.PrecipUnit), units.QuantityPrecipitation, "precip_rate")

	// Dimensionless readings pass through untouched.
	snap.Humidity = data.Humidity
	snap.WindBearing = data.WindBearing
	snap.SolarRadiation = data.SolarRadiation
	snap.UVIndex = data.UVIndex
	snap.CloudCover = data.CloudCover

	return snap, nil
}

func (c *Client) convert(value *float64, from units.Unit, q units.Quantity, name string) *float64 {
	if value == nil {
		return nil
	}
	v, err := units.Normalize(*value, from, q)
	if err != nil {
		log.Warn().Str("sensor", name).Err(err).Msg("dropping unconvertible reading")
		metrics.SensorConversionErrors.WithLabelValues(name).Inc()
		return nil
	}
	return &v
}
