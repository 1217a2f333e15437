package models

import "github.com/google/uuid"

// TaskStatus is a board column. Within a project the Order values of the full
// column set are always the dense sequence 1..n; every mutation that touches
// ordering rewrites the whole sequence rather than patching single rows.
type TaskStatus struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Order     int        `json:"order"`
	ProjectID *uuid.UUID `json:"project_id,omitempty"`
}

// StatusTaskCount is a per-column task tally.
type StatusTaskCount struct {
	StatusID   uuid.UUID `json:"status_id"`
	StatusName string    `json:"status_name"`
	TaskCount  int       `json:"task_count"`
}
