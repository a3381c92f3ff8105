package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/consorcia/consorcia/internal/app"
	"github.com/consorcia/consorcia/internal/consortium"
	"github.com/consorcia/consorcia/internal/expenses"
	"github.com/consorcia/consorcia/internal/reports"
	"github.com/consorcia/consorcia/internal/settlement"
	"github.com/consorcia/consorcia/internal/units"
	"github.com/consorcia/consorcia/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := pgxpool.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	repo := consortium.NewPGRepository(dbpool)
	if err := repo.Migrate(ctx); err != nil {
		logger.Error("migrate schema", slog.Any("error", err))
		os.Exit(1)
	}

	policy, err := cfg.SettlementPolicy()
	if err != nil {
		logger.Error("settlement policy", slog.Any("error", err))
		os.Exit(1)
	}

	reportsCache := reports.NewCache(redisClient, cfg.ReportsCacheTTL)
	classifier := reports.NewClassifier(reports.DefaultRules)

	buildingService := consortium.NewService(repo, logger)
	expenseService := expenses.NewService(repo, logger, reportsCache)
	unitService := units.NewService(repo, logger, reportsCache)
	settlementService := settlement.NewService(repo, settlement.NewEngine(policy), logger, reportsCache)
	reportsService := reports.NewService(repo, reportsCache, classifier)

	buildingHandler := consortium.NewHandler(logger, buildingService)
	expenseHandler := expenses.NewHandler(logger, expenseService)
	unitHandler := units.NewHandler(logger, unitService, policy.CoefficientEpsilon)
	settlementHandler := settlement.NewHandler(logger, settlementService)
	reportsHandler := reports.NewHandler(logger, reportsService)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:            logger,
		Config:            cfg,
		BuildingHandler:   buildingHandler,
		ExpenseHandler:    expenseHandler,
		UnitHandler:       unitHandler,
		SettlementHandler: settlementHandler,
		ReportsHandler:    reportsHandler,
		JobHandler:        jobHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
