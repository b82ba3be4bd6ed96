package repository

import (
	"context"

	"github.com/fastygo/habits/domain"
)

// Standing is the raw per-user tally behind a leaderboard row.
type Standing struct {
	UserID        string
	Username      string
	Completions   int
	ActiveStreaks int
}

// Totals are engine-wide counts for the admin view.
type Totals struct {
	Users            int
	Tasks            int
	ActiveTasks      int
	Completions      int
	CompletionsToday int
}

type StatsRepository interface {
	// Standings tallies every known user. A task counts toward ActiveStreaks when it is
	// active and has an event on today or the day before.
	Standings(ctx context.Context, today domain.Day) ([]Standing, error)
	Totals(ctx context.Context, today domain.Day) (Totals, error)
}

// LeaderboardCache keeps the last computed leaderboard until a write invalidates it.
//
// Invalidate advances the generation. A board stored by Set under an older
// generation than the current one is never returned by Get, so a computation
// that raced with a write cannot repopulate the cache with stale standings.
type LeaderboardCache interface {
	Generation(ctx context.Context) (int64, error)
	Get(ctx context.Context, day domain.Day) ([]domain.LeaderboardEntry, bool, error)
	Set(ctx context.Context, day domain.Day, generation int64, entries []domain.LeaderboardEntry) error
	Invalidate(ctx context.Context) error
}

// CounterReader reads externally maintained counters.
type CounterReader interface {
	Read(ctx context.Context, names ...string) (map[string]int64, error)
}
