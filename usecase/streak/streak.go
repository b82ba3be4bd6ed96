// Package streak derives streak counters from completion days.
//
// A task's current streak is the run of consecutive logged days ending today, or
// ending yesterday when today has not been logged yet: the streak stays intact
// until the current day is over. Two missing days in a row (today and yesterday)
// break it.
package streak

import (
	"sort"

	"github.com/fastygo/habits/domain"
)

// Milestones are the streak lengths that earn a streak_bonus reward.
var Milestones = []int{3, 7, 30}

const RewardStreakBonus = "streak_bonus"

// Days is the set of calendar days on which one task was completed.
type Days map[domain.Day]struct{}

// NewDays indexes completion events by day.
func NewDays(completions []domain.Completion) Days {
	days := make(Days, len(completions))
	for _, c := range completions {
		days[c.Day] = struct{}{}
	}
	return days
}

// ByTask groups completion days per task id.
func ByTask(completions []domain.Completion) map[string]Days {
	out := make(map[string]Days)
	for _, c := range completions {
		days, ok := out[c.TaskID]
		if !ok {
			days = make(Days)
			out[c.TaskID] = days
		}
		days[c.Day] = struct{}{}
	}
	return out
}

func (d Days) Has(day domain.Day) bool {
	_, ok := d[day]
	return ok
}

// Current returns the current streak as of today.
func Current(days Days, today domain.Day) int {
	cursor := today
	if !days.Has(cursor) {
		cursor = today.AddDays(-1)
		if !days.Has(cursor) {
			return 0
		}
	}

	count := 0
	for days.Has(cursor) {
		count++
		cursor = cursor.AddDays(-1)
	}
	return count
}

// Longest returns the longest run of consecutive days ever logged.
func Longest(days Days) int {
	if len(days) == 0 {
		return 0
	}
	sorted := make([]domain.Day, 0, len(days))
	for day := range days {
		sorted = append(sorted, day)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	longest, run := 1, 1
	for i := 1; i < len(sorted); i++ {
		if sorted[i] == sorted[i-1].AddDays(1) {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}

// Reward returns the streak bonus earned when a streak reaches exactly current.
func Reward(current int) *domain.Reward {
	for _, m := range Milestones {
		if current == m {
			return &domain.Reward{Type: RewardStreakBonus, Value: m}
		}
	}
	return nil
}
