package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/fastygo/habits/domain"
	"github.com/fastygo/habits/internal/infrastructure/buffer"
	"github.com/fastygo/habits/internal/infrastructure/monitor"
	"github.com/fastygo/habits/repository"
)

// ConnectionHealth abstracts the connection monitor.
type ConnectionHealth interface {
	Healthy(service string) bool
}

// ProcessorConfig controls how frequently the buffer is drained.
type ProcessorConfig struct {
	Interval   time.Duration
	BatchSize  int
	MaxRetries int
	Retention  time.Duration
}

// BufferProcessor replays buffered user and task writes into Postgres.
type BufferProcessor struct {
	store    *buffer.Store
	monitor  ConnectionHealth
	userRepo repository.UserRepository
	taskRepo repository.TaskRepository
	logger   *zap.Logger
	cron     *cron.Cron
	cfg      ProcessorConfig
}

func NewBufferProcessor(
	store *buffer.Store,
	monitor ConnectionHealth,
	userRepo repository.UserRepository,
	taskRepo repository.TaskRepository,
	logger *zap.Logger,
	cfg ProcessorConfig,
) (*BufferProcessor, error) {
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	bp := &BufferProcessor{
		store:    store,
		monitor:  monitor,
		userRepo: userRepo,
		taskRepo: taskRepo,
		logger:   logger,
		cfg:      cfg,
		cron:     cron.New(cron.WithSeconds()),
	}

	schedule := "@every " + cfg.Interval.String()
	if _, err := bp.cron.AddFunc(schedule, bp.tick); err != nil {
		return nil, fmt.Errorf("schedule buffer drain: %w", err)
	}
	return bp, nil
}

func (bp *BufferProcessor) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), bp.cfg.Interval)
	defer cancel()
	if err := bp.Drain(ctx); err != nil {
		bp.logger.Error("buffer drain failed", zap.Error(err))
	}
	if bp.cfg.Retention > 0 {
		removed, err := bp.store.Cleanup(time.Now().Add(-bp.cfg.Retention))
		if err != nil {
			bp.logger.Warn("buffer cleanup failed", zap.Error(err))
		} else if removed > 0 {
			bp.logger.Warn("expired buffer items dropped", zap.Int("count", removed))
		}
	}
}

// Start launches the cron scheduler.
func (bp *BufferProcessor) Start() {
	if bp == nil || bp.cron == nil {
		return
	}
	bp.cron.Start()
	bp.logger.Info("buffer processor started", zap.Duration("interval", bp.cfg.Interval))
}

// Stop waits for a running drain or for ctx, whichever ends first.
func (bp *BufferProcessor) Stop(ctx context.Context) error {
	if bp == nil || bp.cron == nil {
		return nil
	}
	stopCtx := bp.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
		return ctx.Err()
	}
	bp.logger.Info("buffer processor stopped")
	return nil
}

func (bp *BufferProcessor) online() bool {
	return bp.monitor == nil || bp.monitor.Healthy(monitor.ServicePostgres)
}

// Drain replays one batch synchronously.
func (bp *BufferProcessor) Drain(ctx context.Context) error {
	if bp == nil || bp.store == nil {
		return nil
	}
	if !bp.online() {
		bp.logger.Debug("skipping buffer drain (postgres offline)")
		return nil
	}

	items, err := bp.store.GetBatch(bp.cfg.BatchSize)
	if err != nil {
		return err
	}

	for _, item := range items {
		err := bp.processItem(ctx, item)
		if err == nil || isPermanent(err) {
			if err != nil {
				bp.logger.Warn("dropping rejected buffer item",
					zap.String("item_id", item.ID),
					zap.String("entity", item.Entity),
					zap.Error(err))
			}
			if err := bp.store.Remove(item); err != nil {
				bp.logger.Warn("failed to purge processed buffer item", zap.Error(err))
			}
			continue
		}

		bp.logger.Error("failed to process buffer item",
			zap.String("item_id", item.ID),
			zap.String("entity", item.Entity),
			zap.Error(err))

		if err := bp.store.Remove(item); err != nil {
			bp.logger.Warn("failed to remove buffer item", zap.Error(err))
		}
		item.Retries++
		if item.Retries >= bp.cfg.MaxRetries {
			bp.logger.Warn("dropping buffer item (max retries reached)", zap.String("item_id", item.ID))
			continue
		}
		if err := bp.store.Requeue(item); err != nil {
			bp.logger.Error("failed to requeue buffer item", zap.Error(err))
		}
	}
	return nil
}

// BufferOperation runs the write immediately when Postgres looks healthy and
// persists it to the buffer otherwise.
func (bp *BufferProcessor) BufferOperation(ctx context.Context, item buffer.Item) error {
	if bp == nil || bp.store == nil {
		return fmt.Errorf("buffer processor not configured")
	}

	if bp.online() {
		err := bp.processItem(ctx, item)
		if err == nil || isPermanent(err) {
			return err
		}
		bp.logger.Warn("immediate processing failed, buffering", zap.Error(err))
	}
	return bp.store.Enqueue(item)
}

func (bp *BufferProcessor) Size() int {
	if bp == nil || bp.store == nil {
		return 0
	}
	size, err := bp.store.Size()
	if err != nil {
		return 0
	}
	return size
}

func (bp *BufferProcessor) processItem(ctx context.Context, item buffer.Item) error {
	if ctx == nil {
		ctx = context.Background()
	}

	switch item.Entity {
	case buffer.EntityUser:
		var user domain.User
		if err := json.Unmarshal(item.Data, &user); err != nil {
			return err
		}
		return bp.userRepo.Upsert(ctx, &user)

	case buffer.EntityTask:
		var task domain.Task
		if err := json.Unmarshal(item.Data, &task); err != nil {
			return err
		}
		switch item.Operation {
		case buffer.OperationCreate:
			_, err := bp.taskRepo.Create(ctx, &task)
			return err
		case buffer.OperationUpdate:
			return bp.taskRepo.Update(ctx, &task)
		default:
			return fmt.Errorf("unsupported operation %s", item.Operation)
		}
	default:
		return fmt.Errorf("unsupported entity %s", item.Entity)
	}
}

// isPermanent reports errors that retrying cannot fix, such as a title conflict.
func isPermanent(err error) bool {
	var dErr *domain.Error
	return errors.As(err, &dErr)
}
