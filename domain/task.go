package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

const (
	MaxTitleLength      = 200
	MaxScheduledMinutes = 24 * 60
)

// Task represents a user-owned habit tracked day by day.
type Task struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	Title            string    `json:"title"`
	Description      string    `json:"description,omitempty"`
	Category         Category  `json:"category"`
	ScheduledMinutes *int      `json:"scheduled_minutes,omitempty"`
	Active           bool      `json:"is_active"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// OwnedBy reports whether userID owns the task.
func (t *Task) OwnedBy(userID string) bool {
	return t != nil && userID != "" && t.UserID == userID
}

// Validate normalizes the title and checks every mutable field.
func (t *Task) Validate() error {
	if t == nil {
		return ErrInvalidPayload
	}
	t.Title = strings.TrimSpace(t.Title)
	if t.Title == "" {
		return ErrInvalidTitle
	}
	if utf8.RuneCountInString(t.Title) > MaxTitleLength {
		return ErrTitleTooLong
	}
	if !t.Category.Valid() {
		return ErrInvalidCategory
	}
	if t.ScheduledMinutes != nil && (*t.ScheduledMinutes < 0 || *t.ScheduledMinutes > MaxScheduledMinutes) {
		return ErrInvalidDuration
	}
	return nil
}

// TaskPatch carries the optional fields of an update. Nil means "keep".
type TaskPatch struct {
	Title            *string
	Description      *string
	Category         *string
	ScheduledMinutes *int
}

// Apply copies the patch onto the task and validates the result.
func (p TaskPatch) Apply(t *Task) error {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Category != nil {
		category, err := ParseCategory(*p.Category)
		if err != nil {
			return err
		}
		t.Category = category
	}
	if p.ScheduledMinutes != nil {
		minutes := *p.ScheduledMinutes
		t.ScheduledMinutes = &minutes
	}
	return t.Validate()
}

// TaskWithStatus is a task merged with its derived streak state for the current day.
type TaskWithStatus struct {
	Task
	CurrentStreak    int  `json:"current_streak"`
	LongestStreak    int  `json:"longest_streak"`
	IsCompletedToday bool `json:"is_completed_today"`
}
