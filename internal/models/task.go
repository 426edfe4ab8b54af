package models

import "time"

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "Pending"
	TaskStatusInProgress TaskStatus = "In Progress"
	TaskStatusCompleted  TaskStatus = "Completed"
)

type Task struct {
	ID              int64      `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	PercentComplete float64    `json:"percent_complete"`
	StartDate       *time.Time `json:"start_date,omitempty"`
	FinishDate      *time.Time `json:"finish_date,omitempty"`
	ProjectID       int64      `json:"project_id"`
	AssignedUserID  *string    `json:"assigned_user_id,omitempty"`
	CreatedDate     time.Time  `json:"created_date"`
}

// Status is derived from completion percentage, not stored.
func (t *Task) Status() TaskStatus {
	return StatusForPercent(t.PercentComplete)
}

func StatusForPercent(percent float64) TaskStatus {
	switch {
	case percent == 0:
		return TaskStatusPending
	case percent < 100:
		return TaskStatusInProgress
	default:
		return TaskStatusCompleted
	}
}

type CreateTaskRequest struct {
	Title           string     `json:"title" binding:"required"`
	Description     string     `json:"description"`
	PercentComplete float64    `json:"percent_complete"`
	StartDate       *time.Time `json:"start_date"`
	FinishDate      *time.Time `json:"finish_date"`
	ProjectID       int64      `json:"project_id" binding:"required"`
	AssignedUserID  *string    `json:"assigned_user_id"`
}

// TaskUpdate carries only the fields the caller wants to change; nil
// means "leave as is".
type TaskUpdate struct {
	Title           *string  `json:"title"`
	Description     *string  `json:"description"`
	PercentComplete *float64 `json:"percent_complete"`
	AssignedUserID  *string  `json:"assigned_user_id"`
}

type TaskFilter struct {
	Keyword    string
	Status     TaskStatus
	ProjectID  *int64
	MinPercent *float64
	MaxPercent *float64
	Page       int
	PageSize   int
}
