package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/habits/domain"
	"github.com/fastygo/habits/repository"
)

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository instantiates a Postgres-backed user repository.
func NewUserRepository(pool *pgxpool.Pool) repository.UserRepository {
	return &userRepository{pool: pool}
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	const query = `
		SELECT id, username, role, status, created_at, updated_at
		FROM users
		WHERE id = $1
	`
	var user domain.User
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&user.ID, &user.Username, &user.Role, &user.Status, &user.CreatedAt, &user.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &user, nil
}

func (r *userRepository) Upsert(ctx context.Context, user *domain.User) error {
	if user == nil || user.ID == "" {
		return domain.ErrInvalidPayload
	}

	const query = `
	INSERT INTO users (id, username, role, status, created_at, updated_at)
	VALUES ($1, $2, $3, $4, COALESCE($5, NOW()), NOW())
	ON CONFLICT (id) DO UPDATE
	SET username = EXCLUDED.username,
		role = EXCLUDED.role,
		status = EXCLUDED.status,
		updated_at = NOW()
	RETURNING created_at, updated_at;
	`

	// NULL falls back to NOW() on first registration.
	var createdAt *time.Time
	if !user.CreatedAt.IsZero() {
		createdAt = &user.CreatedAt
	}

	if err := r.pool.QueryRow(ctx, query,
		user.ID,
		user.Username,
		user.Role,
		user.Status,
		createdAt,
	).Scan(&user.CreatedAt, &user.UpdatedAt); err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}
