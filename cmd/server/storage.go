package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/habits/internal/config"
	"github.com/fastygo/habits/internal/infrastructure/buffer"
	"github.com/fastygo/habits/internal/infrastructure/monitor"
	pgInfra "github.com/fastygo/habits/internal/infrastructure/postgres"
	redisInfra "github.com/fastygo/habits/internal/infrastructure/redis"
	"github.com/fastygo/habits/internal/services"
	"github.com/fastygo/habits/internal/services/lifecycle"
	"github.com/fastygo/habits/repository"
	"github.com/fastygo/habits/repository/memory"
	"github.com/fastygo/habits/repository/postgres"
	redisRepo "github.com/fastygo/habits/repository/redis"
	"github.com/fastygo/habits/usecase"
)

// storage groups the repositories handed to the use cases. Optional parts stay
// nil interfaces when the backing service is not configured.
type storage struct {
	users       repository.UserRepository
	tasks       repository.TaskRepository
	completions repository.CompletionRepository
	stats       repository.StatsRepository
	cache       repository.LeaderboardCache
	counters    repository.CounterReader
	buffer      usecase.OperationBuffer
}

func newMemoryStorage(logger *zap.Logger) *storage {
	logger.Warn("using in-memory storage; data is lost on restart")
	store := memory.NewStore()
	return &storage{
		users:       store.Users(),
		tasks:       store.Tasks(),
		completions: store.Completions(),
		stats:       store.Stats(),
	}
}

func newPostgresStorage(
	ctx context.Context,
	cfg *config.Config,
	mon *monitor.Monitor,
	manager *lifecycle.Manager,
	logger *zap.Logger,
) (*storage, error) {
	if err := pgInfra.RunMigrations(cfg, logger); err != nil {
		return nil, fmt.Errorf("migrations: %w", err)
	}

	pool, err := pgInfra.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("postgres: %w", err)
	}
	manager.Register("postgres", func(context.Context) error {
		pgInfra.Close(pool, logger)
		return nil
	})
	mon.Register(monitor.ServicePostgres, monitor.PostgresProbe(pool))

	st := &storage{
		users:       postgres.NewUserRepository(pool),
		tasks:       postgres.NewTaskRepository(pool),
		completions: postgres.NewCompletionRepository(pool),
		stats:       postgres.NewStatsRepository(pool),
	}

	redisClient, err := redisInfra.NewClient(ctx, cfg.Redis, logger)
	if err != nil {
		logger.Warn("redis unavailable; leaderboard cache and admin counters disabled", zap.Error(err))
	} else {
		manager.RegisterCloser("redis", redisClient)
		mon.Register(monitor.ServiceRedis, monitor.RedisProbe(redisClient))
		st.cache = redisRepo.NewLeaderboardCache(redisClient, cfg.Tracking.LeaderboardCacheTTL)
		st.counters = redisRepo.NewCounterReader(redisClient, cfg.Tracking.CountersPrefix)
	}

	bufferStore, err := buffer.Open(cfg.Buffer.Path, "buffer", cfg.Buffer.MaxSize)
	if err != nil {
		return nil, fmt.Errorf("buffer store: %w", err)
	}
	manager.RegisterCloser("buffer", bufferStore)
	mon.WatchBuffer(bufferStore)

	processor, err := services.NewBufferProcessor(
		bufferStore,
		mon,
		st.users,
		st.tasks,
		logger,
		services.ProcessorConfig{
			Interval:   cfg.Buffer.SyncInterval,
			BatchSize:  50,
			MaxRetries: cfg.Buffer.MaxRetry,
			Retention:  time.Duration(cfg.Buffer.RetentionHours) * time.Hour,
		},
	)
	if err != nil {
		return nil, err
	}
	processor.Start()
	manager.Register("buffer_processor", processor.Stop)

	st.buffer = services.NewBufferBridge(processor)
	return st, nil
}
