package models

import (
	"time"

	"github.com/google/uuid"
)

// GatewayProvider identifies the upstream payment processor.
type GatewayProvider string

// Supported gateway providers.
const (
	ProviderCustom   GatewayProvider = "custom"
	ProviderManual   GatewayProvider = "manual"
	ProviderStripe   GatewayProvider = "stripe"
	ProviderPayPal   GatewayProvider = "paypal"
	ProviderAdyen    GatewayProvider = "adyen"
	ProviderRazorpay GatewayProvider = "razorpay"
)

// GatewayStatus is the operational state of a gateway.
type GatewayStatus string

// Gateway statuses.
const (
	GatewayInactive GatewayStatus = "inactive"
	GatewayTest     GatewayStatus = "test"
	GatewayActive   GatewayStatus = "active"
)

// PaymentGateway is a configured payment processor. Credentials and metadata
// are opaque JSON objects; the core never inspects their structure.
type PaymentGateway struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	Provider      GatewayProvider `json:"provider"`
	Status        GatewayStatus   `json:"status"`
	Credentials   map[string]any  `json:"credentials"`
	WebhookSecret *string         `json:"webhook_secret,omitempty"`
	Metadata      map[string]any  `json:"metadata,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// GatewayPerformance reports per-gateway success/failure counts and succeeded
// volume over a trailing window (unwindowed when the window is zero days).
type GatewayPerformance struct {
	ID                 uuid.UUID       `json:"id"`
	Name               string          `json:"name"`
	Provider           GatewayProvider `json:"provider"`
	Status             GatewayStatus   `json:"status"`
	SuccessfulPayments int             `json:"successful_payments"`
	FailedPayments     int             `json:"failed_payments"`
	TotalPayments      int             `json:"total_payments"`
	TotalVolume        string          `json:"total_volume"`
}
