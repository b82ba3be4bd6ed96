package domain

// DashboardSnapshot aggregates the per-user counters shown on the dashboard.
type DashboardSnapshot struct {
	Day              Day `json:"day"`
	CompletedToday   int `json:"completed_today"`
	UnfinishedToday  int `json:"unfinished_today"`
	CompletedAllTime int `json:"completed_all_time"`
	ActiveStreaks    int `json:"active_streaks"`
	LongestStreak    int `json:"longest_streak"`
	TotalRewards     int `json:"total_rewards"`
	TotalTasks       int `json:"total_tasks"`
	ActiveTasks      int `json:"active_tasks"`
}

// Trend classifies the direction of the last seven days.
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendSteady    Trend = "steady"
	TrendDeclining Trend = "declining"
)

type DayCount struct {
	Day     Day    `json:"day"`
	Weekday string `json:"weekday"`
	Count   int    `json:"count"`
}

type WeekdayCount struct {
	Weekday string `json:"weekday"`
	Count   int    `json:"count"`
}

type CategoryCount struct {
	Category Category `json:"category"`
	Count    int      `json:"count"`
}

// Insights bundles trend and distribution analytics for one user.
type Insights struct {
	Trend                Trend           `json:"trend"`
	Last7Days            []DayCount      `json:"last_7_days"`
	WeeklyPattern        []WeekdayCount  `json:"weekly_pattern"`
	CategoryDistribution []CategoryCount `json:"category_distribution"`
	WindowStart          *Day            `json:"window_start,omitempty"`
	WindowEnd            Day             `json:"window_end"`
}

const (
	MedalGold   = "gold"
	MedalSilver = "silver"
	MedalBronze = "bronze"
)

// LeaderboardEntry is one ranked user.
type LeaderboardEntry struct {
	Rank          int    `json:"rank"`
	Medal         string `json:"medal,omitempty"`
	UserID        string `json:"user_id"`
	Username      string `json:"username"`
	Completions   int    `json:"total_completions"`
	ActiveStreaks int    `json:"active_streaks"`
}

// Analytics is the admin view: external counters plus engine totals.
type Analytics struct {
	Counters         map[string]int64 `json:"counters"`
	Users            int              `json:"users"`
	Tasks            int              `json:"tasks"`
	ActiveTasks      int              `json:"active_tasks"`
	Completions      int              `json:"completions"`
	CompletionsToday int              `json:"completions_today"`
}
