package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/habits/domain"
	"github.com/fastygo/habits/repository"
)

type completionRepository struct {
	pool *pgxpool.Pool
}

// NewCompletionRepository returns the Postgres completion log. Uniqueness of
// (task_id, day) is enforced by the uix_completions_task_day constraint.
func NewCompletionRepository(pool *pgxpool.Pool) repository.CompletionRepository {
	return &completionRepository{pool: pool}
}

const completionColumns = `id, task_id, user_id, day, completed_at`

func (r *completionRepository) Insert(ctx context.Context, completion *domain.Completion) (domain.CompletionOutcome, error) {
	if completion == nil || completion.TaskID == "" {
		return "", domain.ErrInvalidPayload
	}
	if completion.ID == "" {
		completion.ID = uuid.NewString()
	}
	if completion.CompletedAt.IsZero() {
		completion.CompletedAt = time.Now()
	}

	const insert = `
	INSERT INTO completions (id, task_id, user_id, day, completed_at)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (task_id, day) DO NOTHING
	`
	tag, err := r.pool.Exec(ctx, insert,
		completion.ID,
		completion.TaskID,
		completion.UserID,
		completion.Day.Time(),
		completion.CompletedAt,
	)
	if err != nil {
		return "", fmt.Errorf("insert completion: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return domain.OutcomeCreated, nil
	}

	query := `SELECT ` + completionColumns + ` FROM completions WHERE task_id = $1 AND day = $2`
	stored, err := scanCompletion(r.pool.QueryRow(ctx, query, completion.TaskID, completion.Day.Time()))
	if err != nil {
		return "", fmt.Errorf("load logged completion: %w", err)
	}
	*completion = *stored
	return domain.OutcomeAlreadyLogged, nil
}

func (r *completionRepository) List(ctx context.Context, filter repository.CompletionFilter) ([]domain.Completion, error) {
	query := `
	SELECT ` + completionColumns + `
	FROM completions
	WHERE ($1 = '' OR user_id = $1)
	  AND ($2 = '' OR task_id::text = $2)
	  AND ($3::date IS NULL OR day >= $3::date)
	  AND ($4::date IS NULL OR day <= $4::date)
	ORDER BY day ASC, task_id ASC
	`
	rows, err := r.pool.Query(ctx, query, filter.UserID, filter.TaskID, dayArg(filter.From), dayArg(filter.To))
	if err != nil {
		return nil, fmt.Errorf("list completions: %w", err)
	}
	defer rows.Close()

	var out []domain.Completion
	for rows.Next() {
		c, err := scanCompletion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (r *completionRepository) Count(ctx context.Context, filter repository.CompletionFilter) (int, error) {
	const query = `
	SELECT COUNT(*)
	FROM completions
	WHERE ($1 = '' OR user_id = $1)
	  AND ($2 = '' OR task_id::text = $2)
	  AND ($3::date IS NULL OR day >= $3::date)
	  AND ($4::date IS NULL OR day <= $4::date)
	`
	var count int
	if err := r.pool.QueryRow(ctx, query, filter.UserID, filter.TaskID, dayArg(filter.From), dayArg(filter.To)).Scan(&count); err != nil {
		return 0, fmt.Errorf("count completions: %w", err)
	}
	return count, nil
}

func scanCompletion(row pgx.Row) (*domain.Completion, error) {
	var (
		c   domain.Completion
		day time.Time
	)
	if err := row.Scan(&c.ID, &c.TaskID, &c.UserID, &day, &c.CompletedAt); err != nil {
		return nil, err
	}
	c.Day = domain.NewDay(day.Date())
	return &c, nil
}
