package leaderboard

import (
	"context"
	"sort"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/fastygo/habits/domain"
	"github.com/fastygo/habits/repository"
)

// computeTimeout bounds a shared computation, which outlives the caller that started it.
const computeTimeout = 10 * time.Second

var medals = [...]string{domain.MedalGold, domain.MedalSilver, domain.MedalBronze}

type UseCase struct {
	stats  repository.StatsRepository
	cache  repository.LeaderboardCache
	group  singleflight.Group
	logger *zap.Logger
}

// New builds the ranker. cache may be nil.
func New(stats repository.StatsRepository, cache repository.LeaderboardCache, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		stats:  stats,
		cache:  cache,
		logger: logger,
	}
}

// Leaderboard ranks every user as of today. Concurrent misses under the same
// cache generation share one computation.
func (uc *UseCase) Leaderboard(ctx context.Context, today domain.Day) ([]domain.LeaderboardEntry, error) {
	if uc.cache == nil {
		return uc.compute(ctx, today)
	}

	entries, ok, err := uc.cache.Get(ctx, today)
	if err != nil {
		uc.logger.Warn("leaderboard cache read failed", zap.Error(err))
	} else if ok {
		return entries, nil
	}

	// Read before Standings so a write landing mid-computation outdates the result.
	gen, err := uc.cache.Generation(ctx)
	if err != nil {
		uc.logger.Warn("leaderboard cache generation read failed", zap.Error(err))
		return uc.compute(ctx, today)
	}

	key := today.String() + "#" + strconv.FormatInt(gen, 10)
	ch := uc.group.DoChan(key, func() (interface{}, error) {
		flightCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), computeTimeout)
		defer cancel()

		entries, err := uc.compute(flightCtx, today)
		if err != nil {
			return nil, err
		}
		if err := uc.cache.Set(flightCtx, today, gen, entries); err != nil {
			uc.logger.Warn("leaderboard cache write failed", zap.Error(err))
		}
		return entries, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]domain.LeaderboardEntry), nil
	}
}

func (uc *UseCase) compute(ctx context.Context, today domain.Day) ([]domain.LeaderboardEntry, error) {
	standings, err := uc.stats.Standings(ctx, today)
	if err != nil {
		return nil, err
	}
	return Rank(standings), nil
}

// Rank orders standings by completions, then active streaks (both descending),
// then username and user id ascending, and numbers them from 1.
func Rank(standings []repository.Standing) []domain.LeaderboardEntry {
	sorted := make([]repository.Standing, len(standings))
	copy(sorted, standings)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Completions != b.Completions {
			return a.Completions > b.Completions
		}
		if a.ActiveStreaks != b.ActiveStreaks {
			return a.ActiveStreaks > b.ActiveStreaks
		}
		if a.Username != b.Username {
			return a.Username < b.Username
		}
		return a.UserID < b.UserID
	})

	entries := make([]domain.LeaderboardEntry, len(sorted))
	for i, s := range sorted {
		entries[i] = domain.LeaderboardEntry{
			Rank:          i + 1,
			UserID:        s.UserID,
			Username:      s.Username,
			Completions:   s.Completions,
			ActiveStreaks: s.ActiveStreaks,
		}
		if i < len(medals) {
			entries[i].Medal = medals[i]
		}
	}
	return entries
}
