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

	"github.com/tindahan/tindahan/internal/app"
	"github.com/tindahan/tindahan/internal/auth"
	"github.com/tindahan/tindahan/internal/catalog"
	"github.com/tindahan/tindahan/internal/notify"
	"github.com/tindahan/tindahan/internal/observability"
	"github.com/tindahan/tindahan/internal/orders"
	"github.com/tindahan/tindahan/internal/platform/cache"
	"github.com/tindahan/tindahan/internal/platform/db"
	"github.com/tindahan/tindahan/internal/rbac"
	"github.com/tindahan/tindahan/internal/shared"
	"github.com/tindahan/tindahan/internal/users"
	"github.com/tindahan/tindahan/jobs"
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

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, "tindahan_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())

	table := rbac.DefaultPermissionTable()
	if cfg.PermissionsFile != "" {
		table, err = rbac.LoadPermissionTable(cfg.PermissionsFile)
		if err != nil {
			logger.Error("load permission table", slog.Any("error", err))
			os.Exit(1)
		}
	}

	rbacRepo := rbac.NewRepository(dbpool)
	directory := rbac.NewDirectory(rbacRepo, logger)
	directory.Initialize(ctx)
	engine := rbac.NewEngine(table)
	guard := rbac.NewGuard(engine, rbac.DefaultRouteTable(), rbac.DefaultConfinements(), rbac.DestLogin)
	guardMiddleware := rbac.Middleware{Guard: guard, Logger: logger}

	metrics := observability.NewMetrics()
	notifyMetrics := notify.NewMetrics(metrics.Registerer())
	notifyRepo := notify.NewRepository(dbpool)
	dispatcher := notify.NewDispatcher(directory, notifyRepo, logger, notifyMetrics)
	notifyHandler := notify.NewHandler(logger, notifyRepo)

	authRepo := auth.NewRepository(dbpool)
	authService := auth.NewService(authRepo, rbacRepo)
	authHandler := auth.NewHandler(logger, authService, sessionManager, dispatcher)

	usersRepo := users.NewRepository(dbpool)
	usersService := users.NewService(usersRepo, rbacRepo, directory, rbac.RoleUser)
	usersHandler := users.NewHandler(logger, usersService)

	notifier := orders.NewNotifier(dispatcher, logger)

	catalogRepo := catalog.NewRepository(dbpool)
	catalogService := catalog.NewService(catalogRepo, notifier)
	catalogHandler := catalog.NewHandler(logger, catalogService)

	ordersRepo := orders.NewRepository(dbpool)
	ordersService := orders.NewService(ordersRepo, catalogService, notifier)
	ordersHandler := orders.NewHandler(logger, ordersService)

	rbacHandler := rbac.NewHandler(logger, rbacRepo, directory, table)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	jobClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("job client init", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()

	router := app.NewRouter(app.RouterParams{
		Logger:         logger,
		Config:         cfg,
		SessionManager: sessionManager,
		Guard:          guardMiddleware,
		AuthHandler:    authHandler,
		UsersHandler:   usersHandler,
		CatalogHandler: catalogHandler,
		OrdersHandler:  ordersHandler,
		NotifyHandler:  notifyHandler,
		RBACHandler:    rbacHandler,
		JobHandler:     jobHandler,
		JobClient:      jobClient,
		Metrics:        metrics,
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
