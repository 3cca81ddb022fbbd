package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	StationPollsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "localweather_station_polls_total",
			Help: "Total polls of the local station console",
		},
		[]string{"status"},
	)

	StationPollLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "localweather_station_poll_latency_seconds",
			Help:    "Station console poll latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	SensorConversionErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "localweather_sensor_conversion_errors_total",
			Help: "Readings dropped because their unit could not be converted",
		},
		[]string{"sensor"},
	)

	QCClampsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "localweather_qc_clamps_total",
			Help: "Readings clamped to their physical range during quality control",
		},
		[]string{"sensor"},
	)

	RestoreEntriesSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "localweather_restore_entries_skipped_total",
			Help: "Malformed history snapshot entries skipped during restore",
		},
		[]string{"tracker"},
	)

	ObservationsRecorded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "localweather_observations_recorded_total",
			Help: "Observations stored after normalization and quality control",
		},
	)

	ForecastRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "localweather_forecast_runs_total",
			Help: "Forecast orchestration cycles",
		},
		[]string{"status"},
	)

	TrackerSamples = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "localweather_tracker_samples",
			Help: "Samples currently held in each rolling history tracker",
		},
		[]string{"tracker"},
	)

	ForecastUniversalIndex = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "localweather_forecast_universal_index",
			Help: "Latest universal severity index (0 settled to 25 stormy)",
		},
	)

	ForecastRainProbability = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "localweather_forecast_rain_probability",
			Help: "Latest current-conditions rain probability percent",
		},
	)
)
