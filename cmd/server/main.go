// cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/pitchside/fieldbook/internal/booking"
	"github.com/pitchside/fieldbook/internal/config"
	"github.com/pitchside/fieldbook/internal/db"
	"github.com/pitchside/fieldbook/internal/email"
	"github.com/pitchside/fieldbook/internal/events"
	"github.com/pitchside/fieldbook/internal/notify"
	"github.com/pitchside/fieldbook/internal/scheduler"
	"github.com/pitchside/fieldbook/internal/weather"
)

const shutdownTimeout = 30 * time.Second

func setupLogger(environment string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if environment == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", configPath).Msg("Failed to load configuration")
	}

	setupLogger(cfg.App.Environment)

	database, err := db.NewFromConfig(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer database.Close()

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
	}

	var forecast booking.WeatherLookup
	if cfg.Weather.APIKey != "" {
		forecast = weather.NewClient(
			cfg.Weather.BaseURL,
			cfg.Weather.APIKey,
			redisClient,
			time.Duration(cfg.Weather.CacheTTLSeconds)*time.Second,
		)
	} else {
		log.Warn().Msg("OPENWEATHER_API_KEY not set, weather advisories disabled")
	}

	var sender notify.Sender
	if cfg.Email.Enabled {
		sesClient, err := email.NewSESClient(
			cfg.Email.AccessKeyID,
			cfg.Email.SecretAccessKey,
			cfg.Email.Region,
			cfg.Email.Sender,
		)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize SES client")
		}
		sender = sesClient
	} else {
		log.Warn().Msg("Email disabled, notifications will not be delivered")
	}

	var publisher events.Publisher
	if cfg.Events.Enabled {
		publisher = events.NewAMQPPublisher(cfg.Events.URL)
	}

	dispatcher := notify.NewQueueDispatcher(database)
	service := booking.NewService(database, dispatcher, forecast, publisher)

	if err := scheduler.Init(); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize scheduler")
	}
	if err := scheduler.RegisterNotificationJob(database, sender, cfg.Jobs.NotificationCron); err != nil {
		log.Fatal().Err(err).Msg("Failed to register notification job")
	}
	if err := scheduler.RegisterWaitlistCleanupJob(database, cfg.Jobs.WaitlistCleanupCron); err != nil {
		log.Fatal().Err(err).Msg("Failed to register waitlist cleanup job")
	}
	if err := scheduler.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start scheduler")
	}

	server := newServer(cfg, database, service, redisClient, forecast)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Int("port", cfg.App.Port).Str("app", cfg.App.Name).Msg("Starting server")
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		log.Info().Msg("Shutting down server")
		if err := scheduler.Stop(); err != nil {
			log.Error().Err(err).Msg("Failed to stop scheduler")
		}
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("Server terminated with error")
		os.Exit(1)
	}
}
