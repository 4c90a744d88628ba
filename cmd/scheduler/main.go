package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/odimsom/managemymoney-backend/internal/adapter/notify"
	"github.com/odimsom/managemymoney-backend/internal/adapter/repository/postgres"
	"github.com/odimsom/managemymoney-backend/internal/config"
	"github.com/odimsom/managemymoney-backend/internal/usecase/recurring"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	db, err := postgres.NewDB(cfg.DSN())
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	publisher, err := notify.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange)
	if err != nil {
		logger.Fatal("failed to connect to message broker", zap.Error(err))
	}
	defer publisher.Close()

	service := recurring.NewService(
		postgres.NewRecurringExpenseRepository(db),
		postgres.NewRecurringIncomeRepository(db),
		publisher,
		logger,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	logger.Info("scheduler started", zap.Duration("interval", cfg.SchedulerInterval))
	run(ctx, service, cfg.SchedulerInterval, logger)
	logger.Info("scheduler stopped")
}

// run processes due schedules immediately and then on every tick until the
// context is cancelled.
func run(ctx context.Context, service *recurring.Service, interval time.Duration, logger *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	processOnce(ctx, service, logger)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			processOnce(ctx, service, logger)
		}
	}
}

// processOnce runs the expense and income batches concurrently.
func processOnce(ctx context.Context, service *recurring.Service, logger *zap.Logger) {
	now := time.Now().UTC()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := service.ProcessDueExpenses(gctx, now)
		return err
	})
	g.Go(func() error {
		_, err := service.ProcessDueIncomes(gctx, now)
		return err
	})

	if err := g.Wait(); err != nil {
		logger.Error("scheduler run failed", zap.Error(err))
	}
}

func newLogger(level string) (*zap.Logger, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}
