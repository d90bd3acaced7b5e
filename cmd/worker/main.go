package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fastpace/flightapi/config"
	"github.com/fastpace/flightapi/internal/cache"
	"github.com/fastpace/flightapi/internal/email"
	"github.com/fastpace/flightapi/internal/kafka"
	applog "github.com/fastpace/flightapi/internal/log"
	"github.com/fastpace/flightapi/internal/repository"
	"github.com/fastpace/flightapi/internal/service/reminder"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/robfig/cron/v3"
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

	marks := cache.NewReminderMarks(cfg.Redis, 24*time.Hour)
	defer marks.Close()

	userRepo := repository.NewUserRepository(pool)
	flightRepo := repository.NewFlightRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	reminderService := reminder.NewService(userRepo, ticketRepo, flightRepo, producer, marks, cfg.Kafka.NotificationsTopic, logger)

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic, logger)
	defer consumer.Close()

	sender := email.NewSender(cfg.Mail)

	go func() {
		if err := consumer.Consume(ctx, func(_ context.Context, event kafka.NotificationEvent) error {
			return sender.Send(event)
		}); err != nil {
			logger.Error().Err(err).Msg("consumer stopped")
		}
	}()

	scheduler := cron.New(cron.WithSeconds())
	if _, err := scheduler.AddFunc(cfg.Worker.ReminderCron, func() {
		sent, err := reminderService.Sweep(ctx)
		if err != nil {
			logger.Error().Err(err).Msg("reminder sweep failed")
			return
		}
		logger.Info().Int("sent", sent).Msg("reminder sweep finished")
	}); err != nil {
		logger.Fatal().Err(err).Str("cron", cfg.Worker.ReminderCron).Msg("schedule reminder sweep")
	}
	scheduler.Start()
	defer scheduler.Stop()

	logger.Info().Str("topic", cfg.Kafka.NotificationsTopic).Msg("worker started")
	<-ctx.Done()
	logger.Info().Msg("shutting down")
}
