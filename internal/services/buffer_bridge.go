package services

import (
	"context"
	"encoding/json"

	"github.com/fastygo/habits/domain"
	"github.com/fastygo/habits/internal/infrastructure/buffer"
	"github.com/fastygo/habits/usecase"
)

// Users drain before tasks so replayed tasks find their owner row.
const (
	priorityUser = 1
	priorityTask = 3
)

type BufferBridge struct {
	processor *BufferProcessor
}

func NewBufferBridge(processor *BufferProcessor) *BufferBridge {
	return &BufferBridge{processor: processor}
}

func (b *BufferBridge) BufferUser(ctx context.Context, operation string, user *domain.User) error {
	if b.processor == nil || user == nil {
		return domain.ErrInvalidPayload
	}
	payload, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return b.processor.BufferOperation(ctx, buffer.Item{
		UserID:    user.ID,
		Entity:    buffer.EntityUser,
		Operation: operation,
		Data:      payload,
		Priority:  priorityUser,
	})
}

func (b *BufferBridge) BufferTask(ctx context.Context, operation string, task *domain.Task) error {
	if b.processor == nil || task == nil {
		return domain.ErrInvalidPayload
	}
	payload, err := json.Marshal(task)
	if err != nil {
		return err
	}
	return b.processor.BufferOperation(ctx, buffer.Item{
		UserID:    task.UserID,
		Entity:    buffer.EntityTask,
		Operation: operation,
		Data:      payload,
		Priority:  priorityTask,
	})
}

var _ usecase.OperationBuffer = (*BufferBridge)(nil)
