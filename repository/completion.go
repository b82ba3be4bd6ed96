package repository

import (
	"context"

	"github.com/fastygo/habits/domain"
)

// CompletionFilter narrows completion reads. Zero values mean "no bound".
type CompletionFilter struct {
	UserID string
	TaskID string
	From   *domain.Day
	To     *domain.Day
}

// CompletionRepository is the append-only completion log.
type CompletionRepository interface {
	// Insert stores the event unless one already exists for (task, day). On
	// OutcomeAlreadyLogged the stored event is copied into completion.
	Insert(ctx context.Context, completion *domain.Completion) (domain.CompletionOutcome, error)
	List(ctx context.Context, filter CompletionFilter) ([]domain.Completion, error)
	Count(ctx context.Context, filter CompletionFilter) (int, error)
}
