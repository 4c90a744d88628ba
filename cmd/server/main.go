package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	httpapi "github.com/odimsom/managemymoney-backend/internal/adapter/http"
	"github.com/odimsom/managemymoney-backend/internal/adapter/notify"
	"github.com/odimsom/managemymoney-backend/internal/adapter/repository/postgres"
	"github.com/odimsom/managemymoney-backend/internal/config"
	"github.com/odimsom/managemymoney-backend/internal/usecase/budget"
	"github.com/odimsom/managemymoney-backend/internal/usecase/goal"
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

	budgetRepo := postgres.NewBudgetRepository(db)
	goalRepo := postgres.NewSavingsGoalRepository(db)
	expenseRepo := postgres.NewRecurringExpenseRepository(db)
	incomeRepo := postgres.NewRecurringIncomeRepository(db)

	publisher, err := notify.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange)
	if err != nil {
		logger.Fatal("failed to connect to message broker", zap.Error(err))
	}
	defer publisher.Close()

	budgetService := budget.NewService(budgetRepo, publisher, logger)
	goalService := goal.NewService(goalRepo, publisher, logger)
	recurringService := recurring.NewService(expenseRepo, incomeRepo, publisher, logger)

	server := httpapi.NewServer(":"+cfg.Port, cfg.APIToken, budgetService, goalService, recurringService, logger)

	go func() {
		if err := server.Start(); err != nil {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	waitForShutdown(server, logger)
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

// waitForShutdown waits for SIGTERM or SIGINT and drains in-flight requests.
func waitForShutdown(server *httpapi.Server, logger *zap.Logger) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	logger.Info("shutting down", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown did not complete cleanly", zap.Error(err))
		return
	}
	logger.Info("http server stopped")
}
