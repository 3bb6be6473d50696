package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/i474232898/weather-watchface/internal/api/http"
	"github.com/i474232898/weather-watchface/internal/companion"
	"github.com/i474232898/weather-watchface/internal/companion/providers"
	"github.com/i474232898/weather-watchface/internal/config"
	"github.com/i474232898/weather-watchface/internal/display"
	"github.com/i474232898/weather-watchface/internal/face"
	"github.com/i474232898/weather-watchface/internal/logging"
	"github.com/i474232898/weather-watchface/internal/scheduler"
	"github.com/i474232898/weather-watchface/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Logger.Fatal("failed to load config", "err", err)
	}
	logging.Init(os.Stderr, cfg.LogLevel)

	kv, err := openStore(cfg)
	if err != nil {
		logging.Logger.Fatal("failed to open store", "driver", cfg.StoreDriver, "err", err)
	}
	defer kv.Close()

	// The recorder backs GET /api/v1/display; the terminal is optional.
	recorder := display.NewRecorder()
	var screen display.Display = recorder
	if cfg.TerminalDisplay {
		screen = display.Multi{recorder, display.NewTerminal(os.Stdout, true)}
	}

	// Companion side: providers with resilience (backoff + circuit breaker).
	service := companion.NewService(buildProviders(cfg), companion.Options{
		Location: resolveLocation(cfg),
		Zone:     cfg.Zone,
		Settings: companion.Settings{
			TemperatureUnits: cfg.TemperatureUnits,
			WindSpeedUnits:   cfg.WindSpeedUnits,
			WeekNumbers:      cfg.WeekNumbers,
			MondayFirst:      cfg.MondayFirst,
		},
		RateLimit: cfg.RateLimit,
	})
	link := companion.NewLink(service, 30*time.Second)

	var engine *face.Engine
	sched := scheduler.New(cfg.Zone, func(at time.Time) { engine.Tick(at) })

	engine = face.NewEngine(face.Options{
		Clock24h:           cfg.Clock24h,
		Location:           cfg.Zone,
		UpdateInterval:     cfg.UpdateInterval,
		DataLostAfter:      cfg.DataLostAfter,
		ShowSecondsFor:     cfg.ShowSecondsFor,
		BluetoothConnected: true, // the in-process companion is always attached
	}, kv, screen, sched, link)
	link.Attach(engine)

	engineCtx, stopEngine := context.WithCancel(context.Background())
	engineDone := make(chan struct{})
	go func() {
		engine.Run(engineCtx)
		close(engineDone)
	}()

	if err := sched.Start(); err != nil {
		logging.Logger.Fatal("failed to start scheduler", "err", err)
	}
	engine.RequestNow()

	app := fiber.New(fiber.Config{
		AppName:               "weather-watchface",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Access logs share stderr with the app log; stdout belongs to the terminal face.
	app.Use(logger.New(logger.Config{Output: os.Stderr}))
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "weather-watchface",
		})
	})

	httpapi.RegisterRoutes(app, engine, recorder)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			logging.Error("fiber server stopped", "err", err)
		}
	}()
	logging.Info("watchface started", "port", cfg.Port, "store", cfg.StoreDriver, "zone", cfg.Zone.String())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logging.Error("error during shutdown", "err", err)
	}
	sched.Stop()

	// The engine persists its snapshot on the way out.
	stopEngine()
	select {
	case <-engineDone:
	case <-shutdownCtx.Done():
		logging.Warn("engine did not stop in time; snapshot may be stale")
	}
}

func openStore(cfg *config.AppConfig) (store.KV, error) {
	switch cfg.StoreDriver {
	case "memory":
		return store.NewMemoryStore(), nil
	case "redis":
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return store.NewRedisStore(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	default:
		return store.NewSQLiteStore(cfg.SQLitePath)
	}
}

func resolveLocation(cfg *config.AppConfig) companion.Location {
	loc := companion.Location{City: cfg.City, Country: cfg.Country, Lat: cfg.Lat, Lon: cfg.Lon}

	resolved, err := companion.ResolveLocation(loc, cfg.GeocoderAPIKey)
	if err != nil {
		// Name-based providers still work without coordinates.
		logging.Warn("could not resolve coordinates; open-meteo requests will fail", "location", loc.Key(), "err", err)
		return loc
	}
	return resolved
}

func buildProviders(cfg *config.AppConfig) []companion.Provider {
	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{Timeout: 10 * time.Second}

	var provs []companion.Provider
	if cfg.OpenWeatherAPIKey != "" {
		provs = append(provs, providers.NewOpenWeatherProvider(httpClient, cfg.OpenWeatherAPIKey))
	}
	if cfg.WeatherAPIKey != "" {
		provs = append(provs, providers.NewWeatherAPIProvider(httpClient, cfg.WeatherAPIKey))
	}
	// Open-Meteo needs no key but does need coordinates, so it is always
	// added and fails fast when none could be resolved.
	provs = append(provs, providers.NewOpenMeteoProvider(httpClient))

	if len(provs) == 1 {
		logging.Warn("no provider api keys configured; only open-meteo is available")
	}
	return provs
}
