package usecase

import (
	"context"

	"github.com/fastygo/habits/domain"
)

const (
	OperationCreate = "create"
	OperationUpdate = "update"
)

// OperationBuffer abstracts the write-behind buffer so use cases stay storage-agnostic.
// Only task and profile writes are buffered; completions never are.
type OperationBuffer interface {
	BufferUser(ctx context.Context, operation string, user *domain.User) error
	BufferTask(ctx context.Context, operation string, task *domain.Task) error
}

// UserDirectory registers the caller's identity before their first write.
type UserDirectory interface {
	Ensure(ctx context.Context, identity domain.Identity) (*domain.User, error)
}
