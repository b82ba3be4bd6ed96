package main

import (
	"context"
	"log"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/fastygo/habits/api/handler"
	"github.com/fastygo/habits/domain"
	"github.com/fastygo/habits/internal/config"
	"github.com/fastygo/habits/internal/infrastructure/monitor"
	"github.com/fastygo/habits/internal/middleware"
	"github.com/fastygo/habits/internal/router"
	"github.com/fastygo/habits/internal/services/lifecycle"
	"github.com/fastygo/habits/pkg/httpcontext"
	"github.com/fastygo/habits/pkg/logger"
	adminUC "github.com/fastygo/habits/usecase/admin"
	completionUC "github.com/fastygo/habits/usecase/completion"
	dashboardUC "github.com/fastygo/habits/usecase/dashboard"
	insightsUC "github.com/fastygo/habits/usecase/insights"
	leaderboardUC "github.com/fastygo/habits/usecase/leaderboard"
	profileUC "github.com/fastygo/habits/usecase/profile"
	taskUC "github.com/fastygo/habits/usecase/task"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	appCtx, cancel := manager.Listen(context.Background())
	defer cancel()

	mon := monitor.New(10*time.Second, zapLogger)

	var st *storage
	if cfg.UsesMemory() {
		st = newMemoryStorage(zapLogger)
	} else {
		st, err = newPostgresStorage(appCtx, cfg, mon, manager, zapLogger)
		if err != nil {
			zapLogger.Fatal("storage initialization failed", zap.Error(err))
		}
	}

	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	clock := domain.NewClock(cfg.Tracking.Location)

	profileUseCase := profileUC.New(st.users, st.buffer, st.cache, zapLogger)
	taskUseCase := taskUC.New(st.tasks, st.completions, profileUseCase, st.buffer, st.cache, zapLogger)
	completionUseCase := completionUC.New(st.tasks, st.completions, st.cache, zapLogger)
	dashboardUseCase := dashboardUC.New(st.tasks, st.completions, zapLogger)
	insightsUseCase := insightsUC.New(st.tasks, st.completions, cfg.Tracking.InsightsLookback, zapLogger)
	leaderboardUseCase := leaderboardUC.New(st.stats, st.cache, zapLogger)
	adminUseCase := adminUC.New(st.stats, st.counters, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Profile:    apiHandler.NewProfileHandler(profileUseCase, ctxAdapter, clock, zapLogger),
		Task:       apiHandler.NewTaskHandler(taskUseCase, ctxAdapter, clock, zapLogger),
		Completion: apiHandler.NewCompletionHandler(completionUseCase, ctxAdapter, clock, zapLogger),
		Stats: apiHandler.NewStatsHandler(
			dashboardUseCase,
			insightsUseCase,
			leaderboardUseCase,
			adminUseCase,
			ctxAdapter,
			clock,
			zapLogger,
		),
		Health: apiHandler.NewHealthHandler(mon, cfg.Storage.Driver, ctxAdapter, clock, zapLogger),
	}

	authMiddleware := middleware.JWTAuth(middleware.JWTConfig{
		Secret: cfg.JWT.Secret,
		Issuer: cfg.JWT.Issuer,
	}, zapLogger)
	r := router.New(handlers, authMiddleware)

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Concurrency:  cfg.HTTP.MaxConn,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started",
			zap.String("address", cfg.Address()),
			zap.String("storage", cfg.Storage.Driver),
			zap.String("timezone", cfg.Tracking.Location.String()),
		)
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Error("server stopped", zap.Error(err))
			cancel()
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.ShutdownWithContext(ctx)
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
