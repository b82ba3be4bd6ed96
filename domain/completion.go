package domain

import "time"

// CompletionOutcome tells the caller whether LogCompletion wrote an event.
type CompletionOutcome string

const (
	OutcomeCreated       CompletionOutcome = "created"
	OutcomeAlreadyLogged CompletionOutcome = "already_logged"
)

// Completion records that a task was done on a calendar day. Immutable once stored.
type Completion struct {
	ID          string    `json:"id"`
	TaskID      string    `json:"task_id"`
	UserID      string    `json:"user_id"`
	Day         Day       `json:"day"`
	CompletedAt time.Time `json:"completed_at"`
}

// Reward is a streak milestone reached by a freshly logged completion.
type Reward struct {
	Type  string `json:"type"`
	Value int    `json:"value"`
}

// CompletionResult is returned by LogCompletion for both outcomes.
type CompletionResult struct {
	Outcome       CompletionOutcome `json:"outcome"`
	Completion    Completion        `json:"completion"`
	CurrentStreak int               `json:"current_streak"`
	Reward        *Reward           `json:"reward,omitempty"`
}
