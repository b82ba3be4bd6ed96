package insights

import (
	"context"
	"testing"

	"github.com/fastygo/habits/domain"
	"github.com/fastygo/habits/repository/memory"
)

// 2024-05-10 is a Friday.
var today = domain.NewDay(2024, 5, 10)

func completionsOn(taskID string, offsets ...int) []domain.Completion {
	out := make([]domain.Completion, 0, len(offsets))
	for _, off := range offsets {
		out = append(out, domain.Completion{TaskID: taskID, UserID: "u1", Day: today.AddDays(-off)})
	}
	return out
}

func TestComputeOneCompletionPerDay(t *testing.T) {
	t.Parallel()

	history := completionsOn("t1", 0, 1, 2, 3, 4, 5, 6)
	got := Compute(history, map[string]domain.Category{"t1": domain.CategoryAcademics}, today, nil)

	if len(got.Last7Days) != 7 {
		t.Fatalf("expected 7 days, got %d", len(got.Last7Days))
	}
	for i, dc := range got.Last7Days {
		if dc.Count != 1 {
			t.Fatalf("day %d: expected count 1, got %d", i, dc.Count)
		}
		if want := today.AddDays(i - 6); dc.Day != want {
			t.Fatalf("day %d: expected %s, got %s", i, want, dc.Day)
		}
	}
	if got.Last7Days[6].Weekday != "Friday" {
		t.Fatalf("expected today to be Friday, got %s", got.Last7Days[6].Weekday)
	}
	if got.Trend != domain.TrendSteady {
		t.Fatalf("expected steady trend, got %s", got.Trend)
	}

	if len(got.WeeklyPattern) != 7 || got.WeeklyPattern[0].Weekday != "Monday" || got.WeeklyPattern[6].Weekday != "Sunday" {
		t.Fatalf("weekly pattern must list Monday..Sunday, got %+v", got.WeeklyPattern)
	}
	for _, wc := range got.WeeklyPattern {
		if wc.Count != 1 {
			t.Fatalf("%s: expected 1, got %d", wc.Weekday, wc.Count)
		}
	}

	if len(got.CategoryDistribution) != 1 || got.CategoryDistribution[0] != (domain.CategoryCount{Category: domain.CategoryAcademics, Count: 7}) {
		t.Fatalf("unexpected distribution %+v", got.CategoryDistribution)
	}
}

func TestClassify(t *testing.T) {
	t.Parallel()

	counts := func(values ...int) []domain.DayCount {
		out := make([]domain.DayCount, len(values))
		for i, v := range values {
			out[i].Count = v
		}
		return out
	}

	tests := []struct {
		name   string
		last7  []domain.DayCount
		expect domain.Trend
	}{
		{name: "empty week", last7: counts(0, 0, 0, 0, 0, 0, 0), expect: domain.TrendSteady},
		{name: "more recently", last7: counts(0, 0, 1, 5, 1, 1, 1), expect: domain.TrendImproving},
		{name: "fewer recently", last7: counts(2, 1, 1, 0, 0, 1, 0), expect: domain.TrendDeclining},
		{name: "middle day ignored", last7: counts(1, 1, 1, 9, 1, 1, 1), expect: domain.TrendSteady},
		{name: "too short", last7: counts(1, 2), expect: domain.TrendSteady},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Classify(tt.last7); got != tt.expect {
				t.Fatalf("expected %s, got %s", tt.expect, got)
			}
		})
	}
}

func TestComputeDistributionOrderAndUnknownCategory(t *testing.T) {
	t.Parallel()

	var history []domain.Completion
	history = append(history, completionsOn("others", 0)...)
	history = append(history, completionsOn("career", 1, 2)...)
	history = append(history, completionsOn("personal", 3)...)
	history = append(history, completionsOn("gone", 4)...)

	categories := map[string]domain.Category{
		"others":   domain.CategoryOthers,
		"career":   domain.CategoryCareerDevelopment,
		"personal": domain.CategoryPersonalDevelopment,
	}
	got := Compute(history, categories, today, nil).CategoryDistribution

	want := []domain.CategoryCount{
		{Category: domain.CategoryPersonalDevelopment, Count: 1},
		{Category: domain.CategoryCareerDevelopment, Count: 2},
		{Category: domain.CategoryOthers, Count: 2},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d categories, got %+v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("position %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}
}

func TestInsightsLookbackWindow(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := memory.NewStore()
	task, err := store.Tasks().Create(ctx, &domain.Task{UserID: "u1", Title: "Run", Category: domain.CategoryHobbies, Active: true})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	for _, off := range []int{0, 7, 27, 28, 60} {
		if _, err := store.Completions().Insert(ctx, &domain.Completion{TaskID: task.ID, UserID: "u1", Day: today.AddDays(-off)}); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	windowed, err := New(store.Tasks(), store.Completions(), -1, nil).Insights(ctx, "u1", today)
	if err != nil {
		t.Fatalf("Insights: %v", err)
	}
	if windowed.WindowStart == nil || *windowed.WindowStart != today.AddDays(-27) {
		t.Fatalf("expected window to start 27 days ago, got %v", windowed.WindowStart)
	}
	if windowed.CategoryDistribution[0].Count != 3 {
		t.Fatalf("expected 3 events in window, got %+v", windowed.CategoryDistribution)
	}

	all, err := New(store.Tasks(), store.Completions(), 0, nil).Insights(ctx, "u1", today)
	if err != nil {
		t.Fatalf("Insights: %v", err)
	}
	if all.WindowStart != nil || all.CategoryDistribution[0].Count != 5 {
		t.Fatalf("expected all history, got start=%v dist=%+v", all.WindowStart, all.CategoryDistribution)
	}
}

func TestInsightsEmptyHistory(t *testing.T) {
	t.Parallel()

	store := memory.NewStore()
	got, err := New(store.Tasks(), store.Completions(), DefaultLookbackDays, nil).Insights(context.Background(), "u1", today)
	if err != nil {
		t.Fatalf("Insights: %v", err)
	}
	if got.Trend != domain.TrendSteady || len(got.CategoryDistribution) != 0 || len(got.WeeklyPattern) != 7 {
		t.Fatalf("unexpected empty insights %+v", got)
	}
}
