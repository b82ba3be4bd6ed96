package task

import (
	"context"
	"errors"
	"testing"

	"github.com/fastygo/habits/domain"
	"github.com/fastygo/habits/repository"
	"github.com/fastygo/habits/repository/memory"
	"github.com/fastygo/habits/usecase/profile"
)

var today = domain.NewDay(2024, 5, 10)

type recordingBuffer struct {
	tasks []string
}

func (b *recordingBuffer) BufferUser(context.Context, string, *domain.User) error { return nil }

func (b *recordingBuffer) BufferTask(_ context.Context, operation string, task *domain.Task) error {
	b.tasks = append(b.tasks, operation+":"+task.Title)
	return nil
}

type downTaskRepo struct{ repository.TaskRepository }

func (downTaskRepo) Create(context.Context, *domain.Task) (*domain.Task, error) {
	return nil, errors.New("connection refused")
}

func newUseCase(t *testing.T) (*memory.Store, *UseCase) {
	t.Helper()
	store := memory.NewStore()
	users := profile.New(store.Users(), nil, nil, nil)
	return store, New(store.Tasks(), store.Completions(), users, nil, nil, nil)
}

func mustCreate(t *testing.T, uc *UseCase, userID, title string) *domain.Task {
	t.Helper()
	created, err := uc.CreateTask(context.Background(), domain.Identity{UserID: userID, Username: userID}, CreateInput{Title: title})
	if err != nil {
		t.Fatalf("CreateTask(%q): %v", title, err)
	}
	return created
}

func TestCreateTaskDefaultsAndRegistersUser(t *testing.T) {
	t.Parallel()

	store, uc := newUseCase(t)
	created, err := uc.CreateTask(context.Background(), domain.Identity{UserID: "u1", Username: "alice"}, CreateInput{Title: "  Read  "})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if created.ID == "" || created.Title != "Read" || created.Category != domain.CategoryOthers || !created.Active {
		t.Fatalf("unexpected task %+v", created)
	}

	user, err := store.Users().GetByID(context.Background(), "u1")
	if err != nil {
		t.Fatalf("user was not registered: %v", err)
	}
	if user.Username != "alice" {
		t.Fatalf("expected username alice, got %q", user.Username)
	}
}

func TestCreateTaskValidation(t *testing.T) {
	t.Parallel()

	minutes := 2000
	tests := []struct {
		name   string
		input  CreateInput
		expect error
	}{
		{name: "blank title", input: CreateInput{Title: "   "}, expect: domain.ErrInvalidTitle},
		{name: "unknown category", input: CreateInput{Title: "Read", Category: "Gardening"}, expect: domain.ErrInvalidCategory},
		{name: "too long", input: CreateInput{Title: "Read", ScheduledMinutes: &minutes}, expect: domain.ErrInvalidDuration},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, uc := newUseCase(t)
			if _, err := uc.CreateTask(context.Background(), domain.Identity{UserID: "u1"}, tt.input); !errors.Is(err, tt.expect) {
				t.Fatalf("expected %v, got %v", tt.expect, err)
			}
		})
	}
}

func TestCreateTaskDuplicateTitle(t *testing.T) {
	t.Parallel()

	_, uc := newUseCase(t)
	mustCreate(t, uc, "u1", "Read")

	if _, err := uc.CreateTask(context.Background(), domain.Identity{UserID: "u1"}, CreateInput{Title: "read"}); !errors.Is(err, domain.ErrTaskTitleTaken) {
		t.Fatalf("expected ErrTaskTitleTaken, got %v", err)
	}
	mustCreate(t, uc, "u2", "Read")
}

func TestListTasksCarriesStreakState(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store, uc := newUseCase(t)
	read := mustCreate(t, uc, "u1", "Read")
	run := mustCreate(t, uc, "u1", "Run")
	archived := mustCreate(t, uc, "u1", "Archived")
	mustCreate(t, uc, "u2", "Foreign")

	for _, off := range []int{1, 2, 4, 5, 6} {
		if _, err := store.Completions().Insert(ctx, &domain.Completion{TaskID: read.ID, UserID: "u1", Day: today.AddDays(-off)}); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}
	if _, err := store.Completions().Insert(ctx, &domain.Completion{TaskID: run.ID, UserID: "u1", Day: today}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := uc.ArchiveTask(ctx, "u1", archived.ID); err != nil {
		t.Fatalf("archive: %v", err)
	}

	got, err := uc.ListTasks(ctx, "u1", today)
	if err != nil {
		t.Fatalf("ListTasks: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 active tasks, got %d", len(got))
	}
	byID := map[string]domain.TaskWithStatus{}
	for _, ts := range got {
		byID[ts.ID] = ts
	}
	if s := byID[read.ID]; s.CurrentStreak != 2 || s.LongestStreak != 3 || s.IsCompletedToday {
		t.Fatalf("unexpected state for Read: %+v", s)
	}
	if s := byID[run.ID]; s.CurrentStreak != 1 || !s.IsCompletedToday {
		t.Fatalf("unexpected state for Run: %+v", s)
	}
}

func TestUpdateTaskOwnership(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	_, uc := newUseCase(t)
	created := mustCreate(t, uc, "u1", "Read")

	title := "Read a book"
	category := string(domain.CategoryAcademics)
	updated, err := uc.UpdateTask(ctx, "u1", created.ID, domain.TaskPatch{Title: &title, Category: &category})
	if err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}
	if updated.Title != title || updated.Category != domain.CategoryAcademics {
		t.Fatalf("patch not applied: %+v", updated)
	}

	if _, err := uc.UpdateTask(ctx, "u2", created.ID, domain.TaskPatch{Title: &title}); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound for foreign update, got %v", err)
	}
	if _, err := uc.ArchiveTask(ctx, "u2", created.ID); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound for foreign archive, got %v", err)
	}
}

func TestCreateTaskBuffersWhenStorageIsDown(t *testing.T) {
	t.Parallel()

	store := memory.NewStore()
	buffer := &recordingBuffer{}
	uc := New(downTaskRepo{store.Tasks()}, store.Completions(), nil, buffer, nil, nil)

	created, err := uc.CreateTask(context.Background(), domain.Identity{UserID: "u1"}, CreateInput{Title: "Read"})
	if err != nil {
		t.Fatalf("expected buffered success, got %v", err)
	}
	if created.Title != "Read" {
		t.Fatalf("unexpected task %+v", created)
	}
	if len(buffer.tasks) != 1 || buffer.tasks[0] != "create:Read" {
		t.Fatalf("expected one buffered create, got %v", buffer.tasks)
	}
}
