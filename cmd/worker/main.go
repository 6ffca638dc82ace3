package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/tindahan/tindahan/internal/app"
	jobmetrics "github.com/tindahan/tindahan/internal/jobs"
	"github.com/tindahan/tindahan/internal/notify"
	"github.com/tindahan/tindahan/internal/platform/db"
	"github.com/tindahan/tindahan/internal/rbac"
	"github.com/tindahan/tindahan/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
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

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	rbacRepo := rbac.NewRepository(pool)
	directory := rbac.NewDirectory(rbacRepo, logger)
	directory.Initialize(ctx)

	notifyRepo := notify.NewRepository(pool)
	dispatcher := notify.NewDispatcher(directory, notifyRepo, logger, nil)

	cleanupHandler := jobs.NewNotifyCleanupHandler(jobs.NotifyCleanupDeps{
		Pruner:    notifyRepo,
		Announcer: dispatcher,
		Logger:    logger,
		Metrics:   jobmetrics.NewMetrics(nil),
	})

	cleanupTask, err := jobs.NewNotifyCleanupTask(jobs.NotifyCleanupPayload{RetentionDays: cfg.NotifyRetentionDays})
	if err != nil {
		logger.Error("build cleanup task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskTypeNotifyCleanup, Handler: cleanupHandler},
		},
		Cron: []jobs.CronRegistration{
			{Spec: cfg.NotifyCleanupCron, Task: cleanupTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
