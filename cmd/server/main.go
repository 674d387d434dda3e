package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/smartcity/corridor/internal/config"
	"github.com/smartcity/corridor/internal/delivery/http"
	"github.com/smartcity/corridor/internal/domain"
	"github.com/smartcity/corridor/internal/logging"
	"github.com/smartcity/corridor/internal/observability"
	"github.com/smartcity/corridor/internal/publisher"
	"github.com/smartcity/corridor/internal/service"
)

func main() {
	// Configuration; bad ranges stop the process before anything is served
	cfg, dotenv, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	log := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(log)
	if !dotenv {
		log.Info("no .env file found, using system environment")
	}

	// Randomness
	rnd := service.NewGlobalRand()
	if cfg.Seed != nil {
		rnd = service.NewSeededRand(*cfg.Seed)
		log.Info("deterministic generation enabled", "seed", *cfg.Seed)
	}

	// Dependency Injection: Services
	metrics := observability.NewMetrics()
	gen := service.NewGenerator(rnd, service.WithRanges(cfg.Ranges))
	dashboardSvc := service.NewDashboardService(gen, metrics)

	locator, err := service.NewSectionLocator(domain.Markers())
	if err != nil {
		log.Error("failed to index section markers", "err", err)
		os.Exit(1)
	}

	// Dependency Injection: Publishers
	publishers := buildPublishers(cfg, log)
	defer func() {
		for _, p := range publishers {
			if err := p.Close(); err != nil {
				log.Warn("failed to close publisher", "sink", p.Name(), "err", err)
			}
		}
	}()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	refresher := service.NewRefresher(dashboardSvc, publishers, cfg.RefreshInterval, cfg.PublishTimeout, log, metrics)
	refresher.Start(ctx)

	// Fiber App
	app := fiber.New(fiber.Config{
		AppName:      "Corridor Metrics API v1.0",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorHandler: http.ErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} (${latency})\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))

	// Routes
	http.SetupRoutes(app, dashboardSvc, locator, metrics.Handler())

	// Graceful shutdown
	go func() {
		log.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	stop()
	refresher.Wait()
	if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
		log.Warn("server forced to shutdown", "err", err)
	}
	log.Info("server exited gracefully")
}

// buildPublishers connects every configured sink. A sink that cannot be
// reached is skipped so the HTTP API still comes up.
func buildPublishers(cfg *config.Config, log *slog.Logger) []service.SnapshotPublisher {
	var pubs []service.SnapshotPublisher

	if cfg.MQTTBrokerURL != "" {
		p, err := publisher.NewMQTTPublisher(publisher.MQTTConfig{
			BrokerURL: cfg.MQTTBrokerURL,
			ClientID:  cfg.MQTTClientID,
			Topic:     cfg.MQTTTopic,
		}, log)
		if err != nil {
			log.Warn("mqtt publisher disabled", "err", err)
		} else {
			pubs = append(pubs, p)
		}
	}

	if len(cfg.KafkaBrokers) > 0 {
		pubs = append(pubs, publisher.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic))
		log.Info("kafka publisher enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}

	if len(pubs) == 0 {
		log.Info("no broker configured, snapshots are generated but not pushed")
		pubs = append(pubs, publisher.NewNopPublisher(log))
	}
	return pubs
}
