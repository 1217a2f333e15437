package models

import (
	"time"

	"github.com/google/uuid"
)

// Task is one unit of work on a board.
type Task struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Description *string    `json:"description,omitempty"`
	ProjectID   *uuid.UUID `json:"project_id,omitempty"`
	AssigneeID  *uuid.UUID `json:"assignee_id,omitempty"`
	StatusID    *uuid.UUID `json:"status_id,omitempty"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
}

// TaskComment is a comment on a task.
type TaskComment struct {
	ID        uuid.UUID  `json:"id"`
	Content   string     `json:"content"`
	TaskID    *uuid.UUID `json:"task_id,omitempty"`
	UserID    *uuid.UUID `json:"user_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// TaskVelocityPoint is a per-day created/completed tally.
type TaskVelocityPoint struct {
	Date      string `json:"date"`
	Created   int    `json:"created"`
	Completed int    `json:"completed"`
}

// TaskCompletionRate is a per-month completion ratio. CompletionRate is a
// percentage and is 0 for months with no tasks.
type TaskCompletionRate struct {
	Month          string  `json:"month"`
	TotalTasks     int     `json:"total_tasks"`
	CompletedTasks int     `json:"completed_tasks"`
	CompletionRate float64 `json:"completion_rate"`
}

// TaskStatusMetric is a per-column tally with the average age in days of the
// tasks sitting in it. AvgCompletionDays is nil for empty columns.
type TaskStatusMetric struct {
	StatusName        string   `json:"status_name"`
	TaskCount         int      `json:"task_count"`
	AvgCompletionDays *float64 `json:"avg_completion_days,omitempty"`
}
