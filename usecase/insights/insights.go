// Package insights turns a user's completion history into trend and distribution analytics.
//
// last_7_days always covers the seven days ending today. The weekday pattern and
// the category distribution cover a lookback window ending today (28 days by
// default, so every weekday is sampled four times); a lookback of zero uses the
// whole history. Trend compares the three oldest against the three newest days of
// last_7_days, skipping the middle day so both halves have equal length.
package insights

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/fastygo/habits/domain"
	"github.com/fastygo/habits/repository"
)

const (
	DefaultLookbackDays = 28
	trendWindow         = 7
	trendHalf           = 3
)

// Weekdays in Monday-first order.
var Weekdays = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday,
}

type UseCase struct {
	tasks        repository.TaskRepository
	completions  repository.CompletionRepository
	lookbackDays int
	logger       *zap.Logger
}

// New builds the engine. lookbackDays < 0 selects the default; 0 means all history.
func New(tasks repository.TaskRepository, completions repository.CompletionRepository, lookbackDays int, logger *zap.Logger) *UseCase {
	if lookbackDays < 0 {
		lookbackDays = DefaultLookbackDays
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		tasks:        tasks,
		completions:  completions,
		lookbackDays: lookbackDays,
		logger:       logger,
	}
}

func (uc *UseCase) Insights(ctx context.Context, userID string, today domain.Day) (*domain.Insights, error) {
	filter := repository.CompletionFilter{UserID: userID, To: &today}
	if from := uc.windowStart(today); from != nil {
		filter.From = from
	}

	var (
		tasks   []domain.Task
		history []domain.Completion
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		tasks, err = uc.tasks.List(gctx, repository.TaskFilter{UserID: userID})
		return err
	})
	g.Go(func() (err error) {
		history, err = uc.completions.List(gctx, filter)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	categories := make(map[string]domain.Category, len(tasks))
	for _, t := range tasks {
		categories[t.ID] = t.Category
	}
	return Compute(history, categories, today, filter.From), nil
}

// windowStart returns the first day of the lookback window, or nil for all history.
// The window never starts after the seven-day trend window.
func (uc *UseCase) windowStart(today domain.Day) *domain.Day {
	if uc.lookbackDays == 0 {
		return nil
	}
	days := uc.lookbackDays
	if days < trendWindow {
		days = trendWindow
	}
	start := today.AddDays(-(days - 1))
	return &start
}

// Compute builds the insights bundle. history must already be limited to the
// lookback window; windowStart is echoed back for the client.
func Compute(history []domain.Completion, categories map[string]domain.Category, today domain.Day, windowStart *domain.Day) *domain.Insights {
	first := today.AddDays(-(trendWindow - 1))

	last7 := make([]domain.DayCount, trendWindow)
	for i := range last7 {
		day := first.AddDays(i)
		last7[i] = domain.DayCount{Day: day, Weekday: day.Weekday().String()}
	}

	perWeekday := make(map[time.Weekday]int, len(Weekdays))
	perCategory := make(map[domain.Category]int, len(domain.Categories))

	for _, c := range history {
		if c.Day > today {
			continue
		}
		if c.Day >= first {
			last7[int(c.Day-first)].Count++
		}
		perWeekday[c.Day.Weekday()]++

		category, ok := categories[c.TaskID]
		if !ok || !category.Valid() {
			category = domain.CategoryOthers
		}
		perCategory[category]++
	}

	pattern := make([]domain.WeekdayCount, 0, len(Weekdays))
	for _, wd := range Weekdays {
		pattern = append(pattern, domain.WeekdayCount{Weekday: wd.String(), Count: perWeekday[wd]})
	}

	var distribution []domain.CategoryCount
	for _, category := range domain.Categories {
		if n := perCategory[category]; n > 0 {
			distribution = append(distribution, domain.CategoryCount{Category: category, Count: n})
		}
	}
	if distribution == nil {
		distribution = []domain.CategoryCount{}
	}

	return &domain.Insights{
		Trend:                Classify(last7),
		Last7Days:            last7,
		WeeklyPattern:        pattern,
		CategoryDistribution: distribution,
		WindowStart:          windowStart,
		WindowEnd:            today,
	}
}

// Classify compares the newest three days against the oldest three.
func Classify(last7 []domain.DayCount) domain.Trend {
	if len(last7) < 2*trendHalf {
		return domain.TrendSteady
	}
	earlier, recent := 0, 0
	for i := 0; i < trendHalf; i++ {
		earlier += last7[i].Count
		recent += last7[len(last7)-1-i].Count
	}
	switch {
	case recent > earlier:
		return domain.TrendImproving
	case recent < earlier:
		return domain.TrendDeclining
	default:
		return domain.TrendSteady
	}
}
