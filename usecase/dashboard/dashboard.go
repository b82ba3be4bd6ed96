package dashboard

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/fastygo/habits/domain"
	"github.com/fastygo/habits/repository"
	"github.com/fastygo/habits/usecase/streak"
)

// UseCase computes dashboard snapshots on read. It holds no counters of its own.
type UseCase struct {
	tasks       repository.TaskRepository
	completions repository.CompletionRepository
	logger      *zap.Logger
}

func New(tasks repository.TaskRepository, completions repository.CompletionRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		tasks:       tasks,
		completions: completions,
		logger:      logger,
	}
}

func (uc *UseCase) Snapshot(ctx context.Context, userID string, today domain.Day) (*domain.DashboardSnapshot, error) {
	var (
		tasks   []domain.Task
		history []domain.Completion
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		tasks, err = uc.tasks.List(gctx, repository.TaskFilter{UserID: userID})
		return err
	})
	g.Go(func() (err error) {
		history, err = uc.completions.List(gctx, repository.CompletionFilter{UserID: userID})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return Summarize(tasks, history, today), nil
}

// Summarize is the pure part of Snapshot: active tasks are partitioned by
// today's event, while all-time counts cover archived tasks too.
func Summarize(tasks []domain.Task, history []domain.Completion, today domain.Day) *domain.DashboardSnapshot {
	byTask := streak.ByTask(history)
	snap := &domain.DashboardSnapshot{
		Day:              today,
		CompletedAllTime: len(history),
		TotalRewards:     len(history),
		TotalTasks:       len(tasks),
	}

	for _, t := range tasks {
		days := byTask[t.ID]
		if longest := streak.Longest(days); longest > snap.LongestStreak {
			snap.LongestStreak = longest
		}
		if !t.Active {
			continue
		}
		snap.ActiveTasks++
		if days.Has(today) {
			snap.CompletedToday++
		}
		if streak.Current(days, today) >= 1 {
			snap.ActiveStreaks++
		}
	}
	snap.UnfinishedToday = snap.ActiveTasks - snap.CompletedToday
	return snap
}
