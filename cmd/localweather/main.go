package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	kongdotenv "github.com/titusjaka/kong-dotenv-go"
	_ "modernc.org/sqlite"

	"github.com/wajo666/homeassistant-local-weather-forecast-sub002/internal/api"
	"github.com/wajo666/homeassistant-local-weather-forecast-sub002/internal/config"
	"github.com/wajo666/homeassistant-local-weather-forecast-sub002/internal/ingest"
	"github.com/wajo666/homeassistant-local-weather-forecast-sub002/internal/models"
	"github.com/wajo666/homeassistant-local-weather-forecast-sub002/internal/station"
	"github.com/wajo666/homeassistant-local-weather-forecast-sub002/internal/store"
)

var cli struct {
	Config   string        `name:"config" default:"config.yaml" env:"LOCALWEATHER_CONFIG" help:"Path to the YAML configuration file."`
	DB       string        `name:"db" default:"data/localweather.db" env:"LOCALWEATHER_DB" help:"Path to the SQLite database."`
	Listen   string        `name:"listen" default:":8080" env:"LOCALWEATHER_LISTEN" help:"HTTP listen address."`
	Interval time.Duration `name:"interval" env:"LOCALWEATHER_INTERVAL" help:"Override the configured poll interval."`
	Once     bool          `name:"once" help:"Run a single poll and forecast cycle, then exit."`
	NoPoll   bool          `name:"no-poll" help:"Serve the stored forecast without polling the station."`
}

func main() {
	kong.Parse(&cli,
		kong.Name("localweather"),
		kong.Description("Local weather forecast engine driven by on-site sensors."),
		kong.Configuration(kongdotenv.ENVFileReader, ".env"),
	)

	cfg, err := config.Load(cli.Config)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	setupLogging(cfg.Logging)

	db, err := sql.Open("sqlite", cli.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	defer db.Close()

	db.Exec("PRAGMA journal_mode=WAL")
	db.Exec("PRAGMA busy_timeout=5000")

	st := store.New(db)
	if err := st.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	site := models.Site{
		Latitude:  cfg.Site.Latitude,
		Longitude: cfg.Site.Longitude,
		Elevation: cfg.Site.Elevation,
	}
	interval := cfg.Station.PollInterval
	if cli.Interval > 0 {
		interval = cli.Interval
	}
	poller := station.NewClient(cfg.Station.URL, cfg.Station.Timeout, cfg.Sensors)
	scheduler := ingest.NewScheduler(st, poller, site, interval)

	if err := scheduler.RestoreHistory(); err != nil {
		log.Fatal().Err(err).Msg("restore history")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cli.Once {
		scheduler.UpdateOnce(ctx)
		return
	}

	if !cli.NoPoll {
		go scheduler.Run(ctx)
	}

	server := api.NewServer(scheduler, cli.Listen)
	if err := server.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("http server")
	}
}

func setupLogging(cfg config.LoggingConfig) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	if cfg.Format == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})
	}
}
