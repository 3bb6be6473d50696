package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/i474232898/weather-watchface/internal/logging"
)

var validate = validator.New()

type AppConfig struct {
	Port string `validate:"required,numeric"`

	// Persistence backend for the watch snapshot.
	StoreDriver   string `validate:"oneof=memory sqlite redis"`
	SQLitePath    string `validate:"required_if=StoreDriver sqlite"`
	RedisAddr     string `validate:"required_if=StoreDriver redis"`
	RedisPassword string
	RedisDB       int `validate:"gte=0"`

	// Zone is the watch's local calendar zone.
	Zone     *time.Location `validate:"required"`
	Clock24h bool

	UpdateInterval time.Duration `validate:"required"`
	DataLostAfter  time.Duration `validate:"required"`
	ShowSecondsFor time.Duration `validate:"required"`

	OpenWeatherAPIKey string
	WeatherAPIKey     string
	GeocoderAPIKey    string

	City    string `validate:"required_without=Lat"`
	Country string
	Lat     *float64 `validate:"omitempty,latitude"`
	Lon     *float64 `validate:"omitempty,longitude"`

	// Settings the companion pushes with every bundle; empty means unset.
	TemperatureUnits string `validate:"omitempty,oneof=F C"`
	WindSpeedUnits   string `validate:"omitempty,oneof=KNOTS MPH KPH"`
	WeekNumbers      string `validate:"omitempty,oneof=ENABLED DISABLED"`
	MondayFirst      string `validate:"omitempty,oneof=ENABLED DISABLED"`

	// RateLimit caps outbound provider fetches per second.
	RateLimit float64 `validate:"gte=0"`

	LogLevel        string `validate:"oneof=debug info warn error"`
	TerminalDisplay bool
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		logging.Info("config: no .env file loaded", "err", err)
	}

	cfg := &AppConfig{
		Port:          getenvDefault("PORT", "8080"),
		StoreDriver:   strings.ToLower(getenvDefault("STORE_DRIVER", "sqlite")),
		SQLitePath:    getenvDefault("SQLITE_PATH", "watchface.db"),
		RedisAddr:     getenvDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getenvInt("REDIS_DB", 0),
		Clock24h:      getenvBool("CLOCK_24H", false),

		OpenWeatherAPIKey: os.Getenv("OPENWEATHER_API_KEY"),
		WeatherAPIKey:     os.Getenv("WEATHERAPI_API_KEY"),
		GeocoderAPIKey:    os.Getenv("GEOCODER_API_KEY"),

		City:    os.Getenv("WEATHER_LOCATION_CITY"),
		Country: os.Getenv("WEATHER_LOCATION_COUNTRY"),

		TemperatureUnits: strings.ToUpper(os.Getenv("COMPANION_TEMPERATURE_UNITS")),
		WindSpeedUnits:   strings.ToUpper(os.Getenv("COMPANION_WIND_SPEED_UNITS")),
		WeekNumbers:      strings.ToUpper(os.Getenv("COMPANION_WEEK_NUMBERS")),
		MondayFirst:      strings.ToUpper(os.Getenv("COMPANION_MONDAY_FIRST")),

		LogLevel:        strings.ToLower(getenvDefault("LOG_LEVEL", "info")),
		TerminalDisplay: getenvBool("TERMINAL_DISPLAY", true),
	}

	zone, err := time.LoadLocation(getenvDefault("WATCH_TIMEZONE", "Local"))
	if err != nil {
		return nil, fmt.Errorf("invalid WATCH_TIMEZONE: %w", err)
	}
	cfg.Zone = zone

	durations := []struct {
		key string
		def string
		dst *time.Duration
	}{
		{"WEATHER_UPDATE_INTERVAL", "30m", &cfg.UpdateInterval},
		{"DATA_LOST_AFTER", "60s", &cfg.DataLostAfter},
		{"SHOW_SECONDS_FOR", "180s", &cfg.ShowSecondsFor},
	}
	for _, d := range durations {
		v, err := time.ParseDuration(getenvDefault(d.key, d.def))
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", d.key, err)
		}
		*d.dst = v
	}

	if cfg.Lat, err = getenvFloatPtr("WEATHER_LOCATION_LAT"); err != nil {
		return nil, err
	}
	if cfg.Lon, err = getenvFloatPtr("WEATHER_LOCATION_LON"); err != nil {
		return nil, err
	}

	rateLimit, err := strconv.ParseFloat(getenvDefault("COMPANION_RATE_LIMIT", "0.2"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid COMPANION_RATE_LIMIT: %w", err)
	}
	cfg.RateLimit = rateLimit

	if (cfg.Lat == nil) != (cfg.Lon == nil) {
		return nil, fmt.Errorf("WEATHER_LOCATION_LAT and WEATHER_LOCATION_LON must be set together")
	}
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getenvFloatPtr(key string) (*float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", key, err)
	}
	return &f, nil
}
