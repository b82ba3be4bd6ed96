package transport

import "github.com/fastygo/habits/domain"

type ProfileUpdateRequest struct {
	Username string `json:"username"`
}

type TaskCreateRequest struct {
	Title            string `json:"title"`
	Description      string `json:"description"`
	Category         string `json:"category"`
	ScheduledMinutes *int   `json:"scheduled_minutes"`
}

// TaskUpdateRequest carries only the fields present in the body.
type TaskUpdateRequest struct {
	Title            *string `json:"title"`
	Description      *string `json:"description"`
	Category         *string `json:"category"`
	ScheduledMinutes *int    `json:"scheduled_minutes"`
}

func (r TaskUpdateRequest) Patch() domain.TaskPatch {
	return domain.TaskPatch{
		Title:            r.Title,
		Description:      r.Description,
		Category:         r.Category,
		ScheduledMinutes: r.ScheduledMinutes,
	}
}

// CompletionRequest logs a completion. Day defaults to today when omitted.
type CompletionRequest struct {
	TaskID string      `json:"task_id"`
	Day    *domain.Day `json:"day"`
}
