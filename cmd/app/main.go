package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fastpace/flightapi/api"
	"github.com/fastpace/flightapi/config"
	"github.com/fastpace/flightapi/internal/bootstrap"
	"github.com/fastpace/flightapi/internal/kafka"
	applog "github.com/fastpace/flightapi/internal/log"
	"github.com/fastpace/flightapi/internal/repository"
	"github.com/fastpace/flightapi/internal/service/auth"
	"github.com/fastpace/flightapi/internal/service/flights"
	"github.com/fastpace/flightapi/internal/service/tickets"
	"github.com/fastpace/flightapi/internal/service/users"
	"github.com/fastpace/flightapi/internal/storage"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		bootLogger := zerolog.New(os.Stderr)
		bootLogger.Fatal().Err(err).Msg("load config")
	}

	logger := applog.New(cfg.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		logger.Fatal().Err(err).Msg("connect postgres")
	}
	defer pool.Close()

	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	photoStore, err := storage.NewObjectStore(cfg.Storage)
	if err != nil {
		logger.Fatal().Err(err).Msg("init object store")
	}
	if err := photoStore.EnsureBucket(ctx); err != nil {
		logger.Fatal().Err(err).Msg("ensure photo bucket")
	}

	userRepo := repository.NewUserRepository(pool)
	flightRepo := repository.NewFlightRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)

	authService := auth.NewAuthService(userRepo, cfg.Auth.SecretKey, time.Duration(cfg.Auth.TokenTTLMins)*time.Minute)
	flightService := flights.NewFlightService(flightRepo, ticketRepo, producer, cfg.Kafka.NotificationsTopic, logger)
	ticketService := tickets.NewTicketService(ticketRepo, flightRepo, producer, cfg.Kafka.NotificationsTopic, logger)
	userService := users.NewUserService(userRepo, photoStore)

	router := api.NewRouter(authService,
		api.NewAuthHandler(authService),
		api.NewFlightHandler(flightService),
		api.NewTicketHandler(ticketService),
		api.NewUserHandler(userService),
	)

	logger.Info().Str("address", cfg.HTTP.Address).Msg("starting api server")
	if err := bootstrap.Run(ctx, cfg, router); err != nil {
		logger.Fatal().Err(err).Msg("server error")
	}
}
