package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/habits/domain"
	"github.com/fastygo/habits/repository"
)

type statsRepository struct {
	pool *pgxpool.Pool
}

// NewStatsRepository returns the cross-user read model used by the leaderboard and admin views.
func NewStatsRepository(pool *pgxpool.Pool) repository.StatsRepository {
	return &statsRepository{pool: pool}
}

func (r *statsRepository) Standings(ctx context.Context, today domain.Day) ([]repository.Standing, error) {
	const query = `
	SELECT u.id,
	       u.username,
	       COUNT(c.id) AS completions,
	       COUNT(DISTINCT c.task_id) FILTER (WHERE c.day BETWEEN $1::date AND $2::date AND t.is_active) AS active_streaks
	FROM users u
	LEFT JOIN completions c ON c.user_id = u.id
	LEFT JOIN tasks t ON t.id = c.task_id
	GROUP BY u.id, u.username
	`
	yesterday := today.AddDays(-1)
	rows, err := r.pool.Query(ctx, query, yesterday.Time(), today.Time())
	if err != nil {
		return nil, fmt.Errorf("query standings: %w", err)
	}
	defer rows.Close()

	var out []repository.Standing
	for rows.Next() {
		var s repository.Standing
		if err := rows.Scan(&s.UserID, &s.Username, &s.Completions, &s.ActiveStreaks); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *statsRepository) Totals(ctx context.Context, today domain.Day) (repository.Totals, error) {
	const query = `
	SELECT (SELECT COUNT(*) FROM users),
	       (SELECT COUNT(*) FROM tasks),
	       (SELECT COUNT(*) FROM tasks WHERE is_active),
	       (SELECT COUNT(*) FROM completions),
	       (SELECT COUNT(*) FROM completions WHERE day = $1::date)
	`
	var t repository.Totals
	if err := r.pool.QueryRow(ctx, query, today.Time()).Scan(
		&t.Users, &t.Tasks, &t.ActiveTasks, &t.Completions, &t.CompletionsToday,
	); err != nil {
		return repository.Totals{}, fmt.Errorf("query totals: %w", err)
	}
	return t, nil
}
