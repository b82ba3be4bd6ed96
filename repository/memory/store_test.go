package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/fastygo/habits/domain"
	"github.com/fastygo/habits/repository"
)

func mustCreateTask(t *testing.T, s *Store, userID, title string, active bool) domain.Task {
	t.Helper()

	task, err := s.CreateTask(context.Background(), &domain.Task{
		UserID:   userID,
		Title:    title,
		Category: domain.CategoryOthers,
		Active:   active,
	})
	if err != nil {
		t.Fatalf("failed to prepare task: %v", err)
	}
	return *task
}

func TestInsertCompletionIsIdempotent(t *testing.T) {
	t.Parallel()

	s := NewStore()
	task := mustCreateTask(t, s, "u1", "Read", true)
	day := domain.NewDay(2024, 5, 1)

	first := &domain.Completion{TaskID: task.ID, UserID: "u1", Day: day}
	outcome, err := s.InsertCompletion(context.Background(), first)
	if err != nil || outcome != domain.OutcomeCreated {
		t.Fatalf("first insert: outcome=%s err=%v", outcome, err)
	}

	second := &domain.Completion{TaskID: task.ID, UserID: "u1", Day: day}
	outcome, err = s.InsertCompletion(context.Background(), second)
	if err != nil || outcome != domain.OutcomeAlreadyLogged {
		t.Fatalf("second insert: outcome=%s err=%v", outcome, err)
	}
	if second.ID != first.ID {
		t.Fatalf("expected stored event %s to be returned, got %s", first.ID, second.ID)
	}

	count, _ := s.CountCompletions(context.Background(), repository.CompletionFilter{TaskID: task.ID})
	if count != 1 {
		t.Fatalf("expected exactly one stored event, got %d", count)
	}
}

func TestInsertCompletionConcurrent(t *testing.T) {
	t.Parallel()

	s := NewStore()
	task := mustCreateTask(t, s, "u1", "Read", true)
	day := domain.NewDay(2024, 5, 1)

	const callers = 64
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
		logged  int
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			outcome, err := s.InsertCompletion(context.Background(), &domain.Completion{TaskID: task.ID, UserID: "u1", Day: day})
			if err != nil {
				t.Errorf("insert failed: %v", err)
				return
			}
			mu.Lock()
			defer mu.Unlock()
			if outcome == domain.OutcomeCreated {
				created++
			} else {
				logged++
			}
		}()
	}
	wg.Wait()

	if created != 1 || logged != callers-1 {
		t.Fatalf("expected 1 created and %d already_logged, got %d and %d", callers-1, created, logged)
	}
}

func TestCreateTaskRejectsDuplicateTitlePerUser(t *testing.T) {
	t.Parallel()

	s := NewStore()
	mustCreateTask(t, s, "u1", "Read", true)

	_, err := s.CreateTask(context.Background(), &domain.Task{UserID: "u1", Title: "read", Category: domain.CategoryOthers})
	if !errors.Is(err, domain.ErrTaskTitleTaken) {
		t.Fatalf("expected ErrTaskTitleTaken, got %v", err)
	}

	if _, err := s.CreateTask(context.Background(), &domain.Task{UserID: "u2", Title: "Read", Category: domain.CategoryOthers}); err != nil {
		t.Fatalf("other user should be allowed the same title: %v", err)
	}
}

func TestListCompletionsFiltersByRange(t *testing.T) {
	t.Parallel()

	s := NewStore()
	task := mustCreateTask(t, s, "u1", "Read", true)
	start := domain.NewDay(2024, 5, 1)
	for i := 0; i < 5; i++ {
		if _, err := s.InsertCompletion(context.Background(), &domain.Completion{TaskID: task.ID, UserID: "u1", Day: start.AddDays(i)}); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	from, to := start.AddDays(1), start.AddDays(3)
	got, err := s.ListCompletions(context.Background(), repository.CompletionFilter{UserID: "u1", From: &from, To: &to})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 3 || got[0].Day != from || got[2].Day != to {
		t.Fatalf("unexpected range result: %+v", got)
	}
}

func TestStandingsCountsRecentActiveTasksOnly(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewStore()
	_ = s.UpsertUser(ctx, &domain.User{ID: "u1", Username: "ann"})
	_ = s.UpsertUser(ctx, &domain.User{ID: "u2", Username: "bob"})

	today := domain.NewDay(2024, 5, 10)
	fresh := mustCreateTask(t, s, "u1", "Fresh", true)
	stale := mustCreateTask(t, s, "u1", "Stale", true)
	archived := mustCreateTask(t, s, "u1", "Archived", false)

	for _, c := range []domain.Completion{
		{TaskID: fresh.ID, UserID: "u1", Day: today.AddDays(-1)},
		{TaskID: stale.ID, UserID: "u1", Day: today.AddDays(-2)},
		{TaskID: archived.ID, UserID: "u1", Day: today},
	} {
		c := c
		if _, err := s.InsertCompletion(ctx, &c); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	standings, err := s.Standings(ctx, today)
	if err != nil {
		t.Fatalf("standings: %v", err)
	}
	byUser := map[string]repository.Standing{}
	for _, st := range standings {
		byUser[st.UserID] = st
	}
	if got := byUser["u1"]; got.Completions != 3 || got.ActiveStreaks != 1 || got.Username != "ann" {
		t.Fatalf("unexpected u1 standing: %+v", got)
	}
	if got := byUser["u2"]; got.Completions != 0 || got.ActiveStreaks != 0 {
		t.Fatalf("unexpected u2 standing: %+v", got)
	}
}
