package memory

import (
	"context"

	"github.com/fastygo/habits/domain"
	"github.com/fastygo/habits/repository"
)

// Typed views over one Store so each satisfies exactly one repository interface.

type taskRepository struct{ s *Store }

func (s *Store) Tasks() repository.TaskRepository { return taskRepository{s} }

func (r taskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	return r.s.GetTask(ctx, id)
}

func (r taskRepository) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	return r.s.ListTasks(ctx, filter)
}

func (r taskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	return r.s.CreateTask(ctx, task)
}

func (r taskRepository) Update(ctx context.Context, task *domain.Task) error {
	return r.s.UpdateTask(ctx, task)
}

type userRepository struct{ s *Store }

func (s *Store) Users() repository.UserRepository { return userRepository{s} }

func (r userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.s.GetUser(ctx, id)
}

func (r userRepository) Upsert(ctx context.Context, user *domain.User) error {
	return r.s.UpsertUser(ctx, user)
}

type completionRepository struct{ s *Store }

func (s *Store) Completions() repository.CompletionRepository { return completionRepository{s} }

func (r completionRepository) Insert(ctx context.Context, completion *domain.Completion) (domain.CompletionOutcome, error) {
	return r.s.InsertCompletion(ctx, completion)
}

func (r completionRepository) List(ctx context.Context, filter repository.CompletionFilter) ([]domain.Completion, error) {
	return r.s.ListCompletions(ctx, filter)
}

func (r completionRepository) Count(ctx context.Context, filter repository.CompletionFilter) (int, error) {
	return r.s.CountCompletions(ctx, filter)
}

func (s *Store) Stats() repository.StatsRepository { return s }

var _ repository.StatsRepository = (*Store)(nil)
