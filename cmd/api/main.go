package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/angelmondragon/juniorgolf-backend/api/responses"
	"github.com/angelmondragon/juniorgolf-backend/api/routes"
	"github.com/angelmondragon/juniorgolf-backend/internal/auth"
	"github.com/angelmondragon/juniorgolf-backend/internal/avatar"
	"github.com/angelmondragon/juniorgolf-backend/internal/children"
	"github.com/angelmondragon/juniorgolf-backend/internal/drills"
	"github.com/angelmondragon/juniorgolf-backend/internal/parents"
	"github.com/angelmondragon/juniorgolf-backend/internal/permissions"
	"github.com/angelmondragon/juniorgolf-backend/internal/progress"
	"github.com/angelmondragon/juniorgolf-backend/internal/sessions"
	"github.com/angelmondragon/juniorgolf-backend/internal/settings"
	"github.com/angelmondragon/juniorgolf-backend/internal/users"
	"github.com/angelmondragon/juniorgolf-backend/pkg/config"
	"github.com/angelmondragon/juniorgolf-backend/pkg/db"
	"github.com/angelmondragon/juniorgolf-backend/pkg/logger"
	"github.com/angelmondragon/juniorgolf-backend/pkg/metrics"
	"github.com/angelmondragon/juniorgolf-backend/pkg/migrate"
	"github.com/angelmondragon/juniorgolf-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})
	responses.ExposeInternalErrors(cfg.App.IsDev())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	requireResource(ctx, logg, "database", err)

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	requireResource(ctx, logg, "redis", err)

	defer func() {
		if err := multierr.Combine(dbClient.Close(), redisClient.Close()); err != nil {
			logg.Error(context.Background(), "error closing resources", err)
		}
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	location, err := cfg.App.Location()
	requireResource(ctx, logg, "timezone", err)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)
	rewardMetrics := metrics.NewRewardMetrics(registry)

	gdb := dbClient.DB()
	userRepo := users.NewRepository(gdb)
	parentRepo := parents.NewRepository(gdb)
	roleRepo := permissions.NewRepository(gdb)
	childRepo := children.NewRepository(gdb)
	drillRepo := drills.NewRepository(gdb)

	authorizer, err := permissions.NewAuthorizer(roleRepo, redisClient, cfg.Permissions.CacheTTL, logg)
	requireResource(ctx, logg, "authorizer", err)

	authService, err := auth.NewService(auth.ServiceParams{
		TxRunner:       dbClient,
		UserRepo:       userRepo,
		ParentRepo:     parentRepo,
		RoleRepo:       roleRepo,
		TokenRepo:      auth.NewTokenRepository(gdb),
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
		Logger:         logg,
	})
	requireResource(ctx, logg, "auth service", err)

	childrenService, err := children.NewService(childRepo)
	requireResource(ctx, logg, "children service", err)

	drillsService, err := drills.NewService(drillRepo)
	requireResource(ctx, logg, "drills service", err)

	sessionsService, err := sessions.NewService(sessions.ServiceParams{
		TxRunner:    dbClient,
		SessionRepo: sessions.NewRepository(gdb),
		ChildRepo:   childRepo,
		DrillRepo:   drillRepo,
		Metrics:     rewardMetrics,
		Logger:      logg,
	})
	requireResource(ctx, logg, "sessions service", err)

	progressService, err := progress.NewService(progress.ServiceParams{
		TxRunner:   dbClient,
		Repo:       progress.NewRepository(gdb),
		ChildRepo:  childRepo,
		ParentRepo: parentRepo,
		Location:   location,
		Logger:     logg,
	})
	requireResource(ctx, logg, "progress service", err)

	avatarService, err := avatar.NewService(avatar.ServiceParams{
		TxRunner:  dbClient,
		Repo:      avatar.NewRepository(gdb),
		ChildRepo: childRepo,
		Metrics:   rewardMetrics,
		Logger:    logg,
	})
	requireResource(ctx, logg, "avatar service", err)

	settingsService, err := settings.NewService(dbClient, settings.NewRepository(gdb), parentRepo)
	requireResource(ctx, logg, "settings service", err)

	addr := ":" + cfg.App.Port
	ctx = logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, routes.Deps{
			DB:          dbClient,
			Redis:       redisClient,
			Parents:     parentRepo,
			Authorizer:  authorizer,
			HTTPMetrics: httpMetrics,
			Gatherer:    registry,
			Auth:        authService,
			Children:    childrenService,
			Drills:      drillsService,
			Sessions:    sessionsService,
			Progress:    progressService,
			Avatar:      avatarService,
			Settings:    settingsService,
		}),
	}

	errCh := make(chan error, 1)
	go func() {
		logg.Info(ctx, "starting api server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()
	logg.Info(shutdownCtx, "shutting down api server")
	if err := server.Shutdown(shutdownCtx); err != nil {
		logg.Error(shutdownCtx, "graceful shutdown failed", err)
	}
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, "resource not working: "+resource, err)
	os.Exit(1)
}
