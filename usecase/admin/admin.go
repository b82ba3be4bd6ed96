package admin

import (
	"context"

	"go.uber.org/zap"

	"github.com/fastygo/habits/domain"
	"github.com/fastygo/habits/repository"
)

// Counters maintained outside the engine.
var Counters = []string{"visits", "logins", "registrations"}

type UseCase struct {
	stats    repository.StatsRepository
	counters repository.CounterReader
	logger   *zap.Logger
}

// New builds the admin reader. counters may be nil, in which case every counter reads zero.
func New(stats repository.StatsRepository, counters repository.CounterReader, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{stats: stats, counters: counters, logger: logger}
}

func (uc *UseCase) Analytics(ctx context.Context, identity domain.Identity, today domain.Day) (*domain.Analytics, error) {
	if !identity.IsAdmin() {
		return nil, domain.ErrForbidden
	}

	totals, err := uc.stats.Totals(ctx, today)
	if err != nil {
		return nil, err
	}

	counters := make(map[string]int64, len(Counters))
	for _, name := range Counters {
		counters[name] = 0
	}
	if uc.counters != nil {
		read, err := uc.counters.Read(ctx, Counters...)
		if err != nil {
			uc.logger.Warn("external counters unavailable", zap.Error(err))
		} else {
			for name, v := range read {
				counters[name] = v
			}
		}
	}

	return &domain.Analytics{
		Counters:         counters,
		Users:            totals.Users,
		Tasks:            totals.Tasks,
		ActiveTasks:      totals.ActiveTasks,
		Completions:      totals.Completions,
		CompletionsToday: totals.CompletionsToday,
	}, nil
}
