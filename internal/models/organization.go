package models

import "github.com/google/uuid"

// Organization groups projects under a common owner.
type Organization struct {
	ID      uuid.UUID  `json:"id"`
	Name    string     `json:"name"`
	OwnerID *uuid.UUID `json:"owner_id,omitempty"`
}

// OrganizationMember links a user to an organization.
type OrganizationMember struct {
	OrganizationID uuid.UUID `json:"organization_id"`
	UserID         uuid.UUID `json:"user_id"`
}
