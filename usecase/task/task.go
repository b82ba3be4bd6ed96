package task

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/fastygo/habits/domain"
	"github.com/fastygo/habits/repository"
	"github.com/fastygo/habits/usecase"
	"github.com/fastygo/habits/usecase/streak"
)

// CreateInput is the caller-supplied part of a new task.
type CreateInput struct {
	Title            string
	Description      string
	Category         string
	ScheduledMinutes *int
}

type UseCase struct {
	tasks       repository.TaskRepository
	completions repository.CompletionRepository
	users       usecase.UserDirectory
	buffer      usecase.OperationBuffer
	cache       repository.LeaderboardCache
	logger      *zap.Logger
}

func New(
	tasks repository.TaskRepository,
	completions repository.CompletionRepository,
	users usecase.UserDirectory,
	buffer usecase.OperationBuffer,
	cache repository.LeaderboardCache,
	logger *zap.Logger,
) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		tasks:       tasks,
		completions: completions,
		users:       users,
		buffer:      buffer,
		cache:       cache,
		logger:      logger,
	}
}

// ListTasks returns the user's active tasks merged with their streak state as of today.
func (uc *UseCase) ListTasks(ctx context.Context, userID string, today domain.Day) ([]domain.TaskWithStatus, error) {
	var (
		tasks []domain.Task
		done  []domain.Completion
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		tasks, err = uc.tasks.List(gctx, repository.TaskFilter{UserID: userID, ActiveOnly: true})
		return err
	})
	g.Go(func() (err error) {
		done, err = uc.completions.List(gctx, repository.CompletionFilter{UserID: userID})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byTask := streak.ByTask(done)
	out := make([]domain.TaskWithStatus, 0, len(tasks))
	for _, t := range tasks {
		days := byTask[t.ID]
		out = append(out, domain.TaskWithStatus{
			Task:             t,
			CurrentStreak:    streak.Current(days, today),
			LongestStreak:    streak.Longest(days),
			IsCompletedToday: days.Has(today),
		})
	}
	return out, nil
}

// GetTask loads a task owned by userID. Tasks of other users are reported as missing.
func (uc *UseCase) GetTask(ctx context.Context, userID, id string) (*domain.Task, error) {
	if id == "" {
		return nil, domain.ErrTaskNotFound
	}
	t, err := uc.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !t.OwnedBy(userID) {
		return nil, domain.ErrTaskNotFound
	}
	return t, nil
}

func (uc *UseCase) CreateTask(ctx context.Context, identity domain.Identity, in CreateInput) (*domain.Task, error) {
	category, err := domain.ParseCategory(in.Category)
	if err != nil {
		return nil, err
	}
	t := &domain.Task{
		ID:               uuid.NewString(),
		UserID:           identity.UserID,
		Title:            in.Title,
		Description:      in.Description,
		Category:         category,
		ScheduledMinutes: in.ScheduledMinutes,
		Active:           true,
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}

	if uc.users != nil {
		if _, err := uc.users.Ensure(ctx, identity); err != nil {
			return nil, err
		}
	}

	created, err := uc.tasks.Create(ctx, t)
	if err != nil {
		if uc.shouldBuffer(ctx, usecase.OperationCreate, t, err) {
			return t, nil
		}
		return nil, err
	}
	uc.logger.Debug("task created", zap.String("task_id", created.ID), zap.String("user_id", created.UserID))
	uc.invalidate(ctx)
	return created, nil
}

func (uc *UseCase) UpdateTask(ctx context.Context, userID, id string, patch domain.TaskPatch) (*domain.Task, error) {
	t, err := uc.GetTask(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := patch.Apply(t); err != nil {
		return nil, err
	}
	return uc.update(ctx, t)
}

// ArchiveTask hides a task from the active set. Its completion history is kept.
func (uc *UseCase) ArchiveTask(ctx context.Context, userID, id string) (*domain.Task, error) {
	t, err := uc.GetTask(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if !t.Active {
		return t, nil
	}
	t.Active = false
	return uc.update(ctx, t)
}

func (uc *UseCase) update(ctx context.Context, t *domain.Task) (*domain.Task, error) {
	if err := uc.tasks.Update(ctx, t); err != nil {
		if uc.shouldBuffer(ctx, usecase.OperationUpdate, t, err) {
			return t, nil
		}
		return nil, err
	}
	uc.invalidate(ctx)
	return t, nil
}

func (uc *UseCase) shouldBuffer(ctx context.Context, operation string, t *domain.Task, cause error) bool {
	var dErr *domain.Error
	if uc.buffer == nil || errors.As(cause, &dErr) {
		return false
	}
	if err := uc.buffer.BufferTask(ctx, operation, t); err != nil {
		uc.logger.Error("failed to buffer task operation", zap.String("operation", operation), zap.Error(err))
		return false
	}
	uc.logger.Warn("task operation buffered", zap.String("operation", operation), zap.Error(cause))
	return true
}

func (uc *UseCase) invalidate(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Invalidate(ctx); err != nil {
		uc.logger.Warn("leaderboard cache invalidation failed", zap.Error(err))
	}
}
