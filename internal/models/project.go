package models

import "github.com/google/uuid"

// Project is a board of tasks, optionally owned by an organization.
type Project struct {
	ID             uuid.UUID  `json:"id"`
	Name           string     `json:"name"`
	Description    *string    `json:"description,omitempty"`
	Slug           *string    `json:"slug,omitempty"`
	OrganizationID *uuid.UUID `json:"organization_id,omitempty"`
	IsPublic       bool       `json:"is_public"`
}

// ProjectMember links a user to a project.
type ProjectMember struct {
	ProjectID uuid.UUID `json:"project_id"`
	UserID    uuid.UUID `json:"user_id"`
}

// ProjectTaskCount is a per-project task tally.
type ProjectTaskCount struct {
	ProjectID   uuid.UUID `json:"project_id"`
	ProjectName string    `json:"project_name"`
	TaskCount   int       `json:"task_count"`
}
