package models

import (
	"time"

	"github.com/google/uuid"
)

// PaymentStatus is the lifecycle state of a payment.
type PaymentStatus string

// Payment statuses.
const (
	PaymentPending   PaymentStatus = "pending"
	PaymentSucceeded PaymentStatus = "succeeded"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

// Payment is one monetary transaction. Amount is a NUMERIC(12,2) column and is
// carried as its decimal-string text form end to end; no float conversion
// happens anywhere in the core. CompletedAt is set exactly when the status
// transitions to succeeded.
type Payment struct {
	ID           uuid.UUID      `json:"id"`
	UserID       uuid.UUID      `json:"user_id"`
	GatewayID    *uuid.UUID     `json:"gateway_id,omitempty"`
	Amount       string         `json:"amount"`
	Currency     string         `json:"currency"`
	Status       PaymentStatus  `json:"status"`
	IntentID     *string        `json:"intent_id,omitempty"`
	ExternalID   *string        `json:"external_id,omitempty"`
	Description  *string        `json:"description,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
	ErrorCode    *string        `json:"error_code,omitempty"`
	ErrorMessage *string        `json:"error_message,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	CompletedAt  *time.Time     `json:"completed_at,omitempty"`
}

// PaymentWithGateway joins a payment to its gateway's display fields.
type PaymentWithGateway struct {
	Payment
	GatewayName     *string `json:"gateway_name,omitempty"`
	GatewayProvider *string `json:"gateway_provider,omitempty"`
}

// RevenueSummary is the unwindowed all-time payment summary.
type RevenueSummary struct {
	TotalRevenue       string `json:"total_revenue"`
	PendingValue       string `json:"pending_value"`
	SuccessfulPayments int    `json:"successful_payments"`
	FailedPayments     int    `json:"failed_payments"`
	TotalPayments      int    `json:"total_payments"`
}

// EmptyRevenueSummary returns the zero-valued summary used when no payment
// rows exist; sums are "0", never empty or missing.
func EmptyRevenueSummary() RevenueSummary {
	return RevenueSummary{TotalRevenue: "0", PendingValue: "0"}
}

// MonthlyRevenue is a succeeded-amount sum for one calendar month.
type MonthlyRevenue struct {
	Month   string `json:"month"`
	Revenue string `json:"revenue"`
}

// StatusCount is a payment count grouped by status.
type StatusCount struct {
	Status PaymentStatus `json:"status"`
	Count  int           `json:"count"`
}

// GatewayContribution is a per-gateway succeeded revenue share.
type GatewayContribution struct {
	Name               *string `json:"name"`
	Provider           *string `json:"provider"`
	Revenue            string  `json:"revenue"`
	SuccessfulPayments int     `json:"successful_payments"`
}

// DashboardSnapshot is the full set of payment analytics computed together.
// All sub-metrics are read inside one transaction so they reflect the same
// logical point in time.
type DashboardSnapshot struct {
	RecentPayments      []PaymentWithGateway  `json:"recent_payments"`
	RevenueSummary      RevenueSummary        `json:"revenue_summary"`
	MonthlyRevenue      []MonthlyRevenue      `json:"monthly_revenue"`
	StatusBreakdown     []StatusCount         `json:"status_breakdown"`
	GatewayContribution []GatewayContribution `json:"gateway_contribution"`
	RecentFailures      []Payment             `json:"recent_failures"`
	GatewayPerformance  []GatewayPerformance  `json:"gateway_performance"`
	ActiveGateways      []PaymentGateway      `json:"active_gateways"`
}
