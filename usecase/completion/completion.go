package completion

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/habits/domain"
	"github.com/fastygo/habits/pkg/logger"
	"github.com/fastygo/habits/repository"
	"github.com/fastygo/habits/usecase/streak"
)

// UseCase owns the completion log. Writes are serialized per (task, day) by the
// repository's unique key; nothing else is written on the way.
type UseCase struct {
	tasks       repository.TaskRepository
	completions repository.CompletionRepository
	cache       repository.LeaderboardCache
	logger      *zap.Logger
	now         func() time.Time
}

func New(tasks repository.TaskRepository, completions repository.CompletionRepository, cache repository.LeaderboardCache, log *zap.Logger) *UseCase {
	if log == nil {
		log = zap.NewNop()
	}
	return &UseCase{
		tasks:       tasks,
		completions: completions,
		cache:       cache,
		logger:      log,
		now:         time.Now,
	}
}

// LogCompletion records that userID completed taskID on day (today when nil).
// A repeated call for the same task and day is a successful no-op reported as
// already_logged together with the stored event.
func (uc *UseCase) LogCompletion(ctx context.Context, userID, taskID string, day *domain.Day, today domain.Day) (*domain.CompletionResult, error) {
	target := today
	if day != nil {
		target = *day
	}
	if target > today {
		return nil, domain.ErrFutureDay
	}
	if taskID == "" {
		return nil, domain.ErrTaskNotFound
	}

	t, err := uc.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !t.OwnedBy(userID) {
		return nil, domain.ErrTaskNotFound
	}
	if !t.Active {
		return nil, domain.ErrTaskArchived
	}

	event := &domain.Completion{
		TaskID:      t.ID,
		UserID:      userID,
		Day:         target,
		CompletedAt: uc.now(),
	}
	outcome, err := uc.completions.Insert(ctx, event)
	if err != nil {
		return nil, err
	}

	log := logger.WithRequestID(ctx, uc.logger)
	if outcome == domain.OutcomeCreated {
		log.Info("completion logged", zap.String("task_id", t.ID), zap.Stringer("day", target))
		if uc.cache != nil {
			if err := uc.cache.Invalidate(ctx); err != nil {
				log.Warn("leaderboard cache invalidation failed", zap.Error(err))
			}
		}
	} else {
		log.Debug("completion already logged", zap.String("task_id", t.ID), zap.Stringer("day", target))
	}

	to := today
	history, err := uc.completions.List(ctx, repository.CompletionFilter{TaskID: t.ID, To: &to})
	if err != nil {
		return nil, err
	}
	current := streak.Current(streak.NewDays(history), today)

	result := &domain.CompletionResult{
		Outcome:       outcome,
		Completion:    *event,
		CurrentStreak: current,
	}
	if outcome == domain.OutcomeCreated && target == today {
		result.Reward = streak.Reward(current)
	}
	return result, nil
}

// ListCompletions returns the caller's own events, optionally narrowed to one task and a day range.
func (uc *UseCase) ListCompletions(ctx context.Context, userID, taskID string, from, to *domain.Day) ([]domain.Completion, error) {
	if from != nil && to != nil && *from > *to {
		return nil, domain.NewError(domain.ErrCodeInvalid, "from must not be after to")
	}
	if taskID != "" {
		t, err := uc.tasks.GetByID(ctx, taskID)
		if err != nil {
			return nil, err
		}
		if !t.OwnedBy(userID) {
			return nil, domain.ErrTaskNotFound
		}
	}
	return uc.completions.List(ctx, repository.CompletionFilter{
		UserID: userID,
		TaskID: taskID,
		From:   from,
		To:     to,
	})
}
