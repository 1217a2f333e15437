package models

import (
	"time"

	"github.com/google/uuid"
)

// Activity event types. The column is an open string; these constants cover
// the kinds the system itself emits.
const (
	ActivityTaskCreated         = "TASK_CREATED"
	ActivityTaskUpdated         = "TASK_UPDATED"
	ActivityTaskDeleted         = "TASK_DELETED"
	ActivityTaskStatusCreated   = "TASK_STATUS_CREATED"
	ActivityTaskStatusUpdated   = "TASK_STATUS_UPDATED"
	ActivityTaskStatusDeleted   = "TASK_STATUS_DELETED"
	ActivityTaskStatusReordered = "TASK_STATUS_REORDERED"
	ActivityTaskStatusChanged   = "TASK_STATUS_CHANGED"
	ActivityTaskCommentAdded    = "TASK_COMMENT_ADDED"
	ActivityTaskCommentDeleted  = "TASK_COMMENT_DELETED"
)

// Activity is one row of the append-only event ledger. Rows are never updated
// or deleted by the system; they deliberately outlive the project they
// reference so cascaded deletes keep their audit trail.
type Activity struct {
	ID          string     `json:"id"` // ULID, time-ordered
	ProjectID   uuid.UUID  `json:"project_id"`
	TaskID      *uuid.UUID `json:"task_id,omitempty"`
	UserID      uuid.UUID  `json:"user_id"`
	Type        string     `json:"type"`
	Description *string    `json:"description,omitempty"`
	Metadata    *string    `json:"metadata,omitempty"` // opaque serialized JSON
	CreatedAt   time.Time  `json:"created_at"`
}

// ActivityWithContext joins an activity to display names for feed rendering.
type ActivityWithContext struct {
	Activity
	Username    string `json:"username"`
	ProjectName string `json:"project_name"`
}

// DailyActivityCount buckets activity by calendar day.
type DailyActivityCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// HeatmapCell buckets activity by (day, hour) for the trailing 90 days.
type HeatmapCell struct {
	Date  string `json:"date"`
	Hour  int    `json:"hour"`
	Count int    `json:"count"`
}

// UserActivityCount is a global per-user activity tally.
type UserActivityCount struct {
	Username string `json:"username"`
	Count    int    `json:"count"`
}

// ActivityTrendPoint buckets activity by (day, type) for the trailing 30 days.
type ActivityTrendPoint struct {
	Date  string `json:"date"`
	Type  string `json:"type"`
	Count int    `json:"count"`
}
