// Package memory keeps every repository in process memory. It backs the "memory"
// storage driver and the use case tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fastygo/habits/domain"
	"github.com/fastygo/habits/repository"
)

type completionKey struct {
	taskID string
	day    domain.Day
}

// Store implements the task, user, completion and stats repositories.
type Store struct {
	mu sync.RWMutex

	now func() time.Time

	users       map[string]domain.User
	tasks       map[string]domain.Task
	completions map[completionKey]domain.Completion
}

func NewStore() *Store {
	return &Store{
		now:         time.Now,
		users:       make(map[string]domain.User),
		tasks:       make(map[string]domain.Task),
		completions: make(map[completionKey]domain.Completion),
	}
}

func cloneTask(t domain.Task) domain.Task {
	out := t
	if t.ScheduledMinutes != nil {
		minutes := *t.ScheduledMinutes
		out.ScheduledMinutes = &minutes
	}
	return out
}

// Users

func (s *Store) GetUser(_ context.Context, id string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &user, nil
}

func (s *Store) UpsertUser(_ context.Context, user *domain.User) error {
	if user == nil || user.ID == "" {
		return domain.ErrInvalidPayload
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if existing, ok := s.users[user.ID]; ok {
		user.CreatedAt = existing.CreatedAt
	} else if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	s.users[user.ID] = *user
	return nil
}

// Tasks

func (s *Store) GetTask(_ context.Context, id string) (*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	task, ok := s.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	out := cloneTask(task)
	return &out, nil
}

func (s *Store) ListTasks(_ context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Task
	for _, task := range s.tasks {
		if filter.UserID != "" && task.UserID != filter.UserID {
			continue
		}
		if filter.ActiveOnly && !task.Active {
			continue
		}
		out = append(out, cloneTask(task))
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	if filter.Offset > 0 {
		if filter.Offset >= len(out) {
			return nil, nil
		}
		out = out[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(out) {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (s *Store) CreateTask(_ context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	if _, exists := s.tasks[task.ID]; exists {
		return nil, domain.ErrTaskTitleTaken
	}
	if s.titleTakenLocked(task.UserID, task.Title, task.ID) {
		return nil, domain.ErrTaskTitleTaken
	}

	now := s.now()
	task.CreatedAt = now
	task.UpdatedAt = now
	s.tasks[task.ID] = cloneTask(*task)
	return task, nil
}

func (s *Store) UpdateTask(_ context.Context, task *domain.Task) error {
	if task == nil {
		return domain.ErrInvalidPayload
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.tasks[task.ID]
	if !ok {
		return domain.ErrTaskNotFound
	}
	if s.titleTakenLocked(existing.UserID, task.Title, task.ID) {
		return domain.ErrTaskTitleTaken
	}

	existing.Title = task.Title
	existing.Description = task.Description
	existing.Category = task.Category
	existing.ScheduledMinutes = task.ScheduledMinutes
	existing.Active = task.Active
	existing.UpdatedAt = s.now()
	s.tasks[task.ID] = cloneTask(existing)

	task.UserID = existing.UserID
	task.CreatedAt = existing.CreatedAt
	task.UpdatedAt = existing.UpdatedAt
	return nil
}

func (s *Store) titleTakenLocked(userID, title, exceptID string) bool {
	for id, other := range s.tasks {
		if id != exceptID && other.UserID == userID && strings.EqualFold(other.Title, title) {
			return true
		}
	}
	return false
}

// Completions

func (s *Store) InsertCompletion(_ context.Context, completion *domain.Completion) (domain.CompletionOutcome, error) {
	if completion == nil || completion.TaskID == "" {
		return "", domain.ErrInvalidPayload
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := completionKey{taskID: completion.TaskID, day: completion.Day}
	if existing, ok := s.completions[key]; ok {
		*completion = existing
		return domain.OutcomeAlreadyLogged, nil
	}

	if completion.ID == "" {
		completion.ID = uuid.NewString()
	}
	if completion.CompletedAt.IsZero() {
		completion.CompletedAt = s.now()
	}
	s.completions[key] = *completion
	return domain.OutcomeCreated, nil
}

func (s *Store) ListCompletions(_ context.Context, filter repository.CompletionFilter) ([]domain.Completion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Completion
	for _, c := range s.completions {
		if matches(c, filter) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Day == out[j].Day {
			return out[i].TaskID < out[j].TaskID
		}
		return out[i].Day < out[j].Day
	})
	return out, nil
}

func (s *Store) CountCompletions(_ context.Context, filter repository.CompletionFilter) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, c := range s.completions {
		if matches(c, filter) {
			count++
		}
	}
	return count, nil
}

func matches(c domain.Completion, filter repository.CompletionFilter) bool {
	if filter.UserID != "" && c.UserID != filter.UserID {
		return false
	}
	if filter.TaskID != "" && c.TaskID != filter.TaskID {
		return false
	}
	if filter.From != nil && c.Day < *filter.From {
		return false
	}
	if filter.To != nil && c.Day > *filter.To {
		return false
	}
	return true
}

// Stats

func (s *Store) Standings(_ context.Context, today domain.Day) ([]repository.Standing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tallies := make(map[string]*repository.Standing, len(s.users))
	for id, user := range s.users {
		tallies[id] = &repository.Standing{UserID: id, Username: user.Username}
	}

	streaking := make(map[string]struct{})
	for key, c := range s.completions {
		tally, ok := tallies[c.UserID]
		if !ok {
			continue
		}
		tally.Completions++

		if key.day != today && key.day != today.AddDays(-1) {
			continue
		}
		if task, ok := s.tasks[key.taskID]; ok && task.Active {
			if _, seen := streaking[key.taskID]; !seen {
				streaking[key.taskID] = struct{}{}
				tally.ActiveStreaks++
			}
		}
	}

	out := make([]repository.Standing, 0, len(tallies))
	for _, tally := range tallies {
		out = append(out, *tally)
	}
	return out, nil
}

func (s *Store) Totals(_ context.Context, today domain.Day) (repository.Totals, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	totals := repository.Totals{
		Users:       len(s.users),
		Tasks:       len(s.tasks),
		Completions: len(s.completions),
	}
	for _, task := range s.tasks {
		if task.Active {
			totals.ActiveTasks++
		}
	}
	for key := range s.completions {
		if key.day == today {
			totals.CompletionsToday++
		}
	}
	return totals, nil
}
