package models

import (
	"time"

	"github.com/google/uuid"
)

// MembershipType is a purchasable plan tier.
type MembershipType struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"` // free, pro, team
	Description *string `json:"description,omitempty"`
	Price       string  `json:"price"`
	Currency    string  `json:"currency"`
	IsDefault   bool    `json:"is_default"`
}

// UserMembership is a user's enrollment in a plan. A nil or future EndDate
// means the membership is active.
type UserMembership struct {
	ID               uuid.UUID  `json:"id"`
	UserID           uuid.UUID  `json:"user_id"`
	MembershipTypeID string     `json:"membership_type_id"`
	StartDate        time.Time  `json:"start_date"`
	EndDate          *time.Time `json:"end_date,omitempty"`
	IsActive         bool       `json:"is_active"`
}

// MembershipCount is an active-membership tally per plan.
type MembershipCount struct {
	MembershipType string `json:"membership_type"`
	Count          int    `json:"count"`
}

// UpgradeConversion counts non-free membership starts per month and plan.
type UpgradeConversion struct {
	Month          string `json:"month"`
	MembershipType string `json:"membership_type"`
	Conversions    int    `json:"conversions"`
}

// ChurnRiskLevel is a coarse disengagement classification.
type ChurnRiskLevel string

// Churn risk levels.
const (
	ChurnRiskHigh   ChurnRiskLevel = "high"
	ChurnRiskMedium ChurnRiskLevel = "medium"
	ChurnRiskLow    ChurnRiskLevel = "low"
)

// ChurnRiskEntry pairs an active member with the recency of their last
// recorded activity. LastActivityDate falls back to the signup date when the
// user has no activity rows at all.
type ChurnRiskEntry struct {
	UserID           uuid.UUID      `json:"user_id"`
	Username         string         `json:"username"`
	Email            string         `json:"email"`
	MembershipType   *string        `json:"membership_type,omitempty"`
	LastActivityDate time.Time      `json:"last_activity_date"`
	RiskLevel        ChurnRiskLevel `json:"risk_level"`
}

// FunnelStage is one step of the user journey funnel.
type FunnelStage struct {
	Stage      string  `json:"stage"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// RetentionCohort groups users by signup month and reports how many were
// active in the trailing 30 days.
type RetentionCohort struct {
	CohortMonth   string  `json:"cohort_month"`
	TotalUsers    int     `json:"total_users"`
	ActiveUsers   int     `json:"active_users"`
	RetentionRate float64 `json:"retention_rate"`
}
