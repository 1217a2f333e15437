package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/boardpulse/boardpulse/internal/cache"
	"github.com/boardpulse/boardpulse/internal/config"
	"github.com/boardpulse/boardpulse/internal/middleware"
	"github.com/boardpulse/boardpulse/internal/models"
	apierrors "github.com/boardpulse/boardpulse/internal/pkg/errors"
	"github.com/boardpulse/boardpulse/internal/repository"
)

// Dashboard option defaults.
const (
	defaultMonthlyRevenueMonths   = 6
	defaultGatewayPerformanceDays = 30
	defaultRecentPaymentsLimit    = 20
	defaultRecentFailuresLimit    = 10
	defaultDashboardCacheTTL      = 30 * time.Second
)

// DashboardOptions parameterize one dashboard snapshot. All fields are
// optional; nil means the default.
type DashboardOptions struct {
	MonthlyRevenueMonths   *int
	GatewayPerformanceDays *int
	RecentPaymentsLimit    *int
	RecentFailuresLimit    *int
	CacheTTLMillis         *int
}

// clamp resolves defaults and coerces each option into its legal range.
// Configured analytics defaults win over the built-in ones; explicit options
// win over both.
func (o DashboardOptions) clamp(cfg config.AnalyticsConfig) (repository.DashboardParams, time.Duration) {
	params := repository.DashboardParams{
		MonthlyRevenueMonths:   orDefault(cfg.MonthlyRevenueMonths, defaultMonthlyRevenueMonths),
		GatewayPerformanceDays: orDefault(cfg.GatewayPerformanceDays, defaultGatewayPerformanceDays),
		RecentPaymentsLimit:    orDefault(cfg.RecentPaymentsLimit, defaultRecentPaymentsLimit),
		RecentFailuresLimit:    orDefault(cfg.RecentFailuresLimit, defaultRecentFailuresLimit),
	}
	ttl := defaultDashboardCacheTTL
	if cfg.CacheTTL > 0 {
		ttl = cfg.CacheTTL
	}

	if o.MonthlyRevenueMonths != nil {
		params.MonthlyRevenueMonths = max(1, *o.MonthlyRevenueMonths)
	}
	if o.GatewayPerformanceDays != nil {
		params.GatewayPerformanceDays = max(0, *o.GatewayPerformanceDays)
	}
	if o.RecentPaymentsLimit != nil {
		params.RecentPaymentsLimit = max(1, *o.RecentPaymentsLimit)
	}
	if o.RecentFailuresLimit != nil {
		params.RecentFailuresLimit = max(1, *o.RecentFailuresLimit)
	}
	if o.CacheTTLMillis != nil {
		ttl = time.Duration(max(0, *o.CacheTTLMillis)) * time.Millisecond
	}
	return params, ttl
}

func orDefault(v, fallback int) int {
	if v > 0 {
		return v
	}
	return fallback
}

// CreatePaymentRequest is the request for creating a new payment.
type CreatePaymentRequest struct {
	UserID      uuid.UUID      `json:"user_id" validate:"required"`
	GatewayID   *uuid.UUID     `json:"gateway_id"`
	Amount      string         `json:"amount" validate:"required"`
	Currency    string         `json:"currency" validate:"required,len=3"`
	IntentID    *string        `json:"intent_id"`
	ExternalID  *string        `json:"external_id"`
	Description *string        `json:"description"`
	Metadata    map[string]any `json:"metadata"`
}

// PaymentService defines the interface for payment lifecycle and analytics
// operations.
type PaymentService interface {
	Create(ctx context.Context, req CreatePaymentRequest) (*models.Payment, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Payment, error)
	Update(ctx context.Context, payment *models.Payment) error
	MarkSucceeded(ctx context.Context, id uuid.UUID) (*models.Payment, error)
	RecordFailure(ctx context.Context, id uuid.UUID, errorCode, errorMessage string) (*models.Payment, error)
	AppendMetadata(ctx context.Context, id uuid.UUID, metadata map[string]any) error
	ListWithGateway(ctx context.Context, limit int) ([]*models.PaymentWithGateway, error)

	GetDashboardAnalytics(ctx context.Context, opts DashboardOptions) (*models.DashboardSnapshot, error)
	GetRevenueSummary(ctx context.Context) (models.RevenueSummary, error)
	GetMonthlyRevenue(ctx context.Context, months int) ([]*models.MonthlyRevenue, error)
	GetStatusBreakdown(ctx context.Context, months int) ([]*models.StatusCount, error)
	GetGatewayContribution(ctx context.Context, months int) ([]*models.GatewayContribution, error)
	GetRecentFailures(ctx context.Context, limit int) ([]*models.Payment, error)
}

type paymentService struct {
	payments repository.PaymentRepository
	cache    cache.Cache
	cfg      config.AnalyticsConfig
	logger   *slog.Logger
}

// NewPaymentService creates a new payment service.
func NewPaymentService(payments repository.PaymentRepository, snapshotCache cache.Cache, cfg config.AnalyticsConfig, logger *slog.Logger) PaymentService {
	return &paymentService{
		payments: payments,
		cache:    snapshotCache,
		cfg:      cfg,
		logger:   logger,
	}
}

// Create records a new payment in pending state.
func (s *paymentService) Create(ctx context.Context, req CreatePaymentRequest) (*models.Payment, error) {
	payment := &models.Payment{
		UserID:      req.UserID,
		GatewayID:   req.GatewayID,
		Amount:      req.Amount,
		Currency:    req.Currency,
		Status:      models.PaymentPending,
		IntentID:    req.IntentID,
		ExternalID:  req.ExternalID,
		Description: req.Description,
		Metadata:    req.Metadata,
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, err
	}
	return payment, nil
}

// Get retrieves a payment by id. Returns nil when not found.
func (s *paymentService) Get(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	return s.payments.GetByID(ctx, id)
}

// Update modifies a payment's mutable fields.
func (s *paymentService) Update(ctx context.Context, payment *models.Payment) error {
	return s.payments.Update(ctx, payment)
}

// MarkSucceeded transitions a payment to succeeded, stamping completed_at.
func (s *paymentService) MarkSucceeded(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	payment, err := s.payments.UpdateStatus(ctx, id, models.PaymentSucceeded, nil, nil)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, apierrors.NewNotFoundError("Payment")
	}
	return payment, nil
}

// RecordFailure transitions a payment to failed with the gateway's error.
func (s *paymentService) RecordFailure(ctx context.Context, id uuid.UUID, errorCode, errorMessage string) (*models.Payment, error) {
	payment, err := s.payments.UpdateStatus(ctx, id, models.PaymentFailed, &errorCode, &errorMessage)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, apierrors.NewNotFoundError("Payment")
	}
	return payment, nil
}

// AppendMetadata merges keys into a payment's metadata object.
func (s *paymentService) AppendMetadata(ctx context.Context, id uuid.UUID, metadata map[string]any) error {
	return s.payments.AppendMetadata(ctx, id, metadata)
}

// ListWithGateway returns the most recent payments with gateway context.
func (s *paymentService) ListWithGateway(ctx context.Context, limit int) ([]*models.PaymentWithGateway, error) {
	if limit < 1 {
		limit = orDefault(s.cfg.RecentPaymentsLimit, defaultRecentPaymentsLimit)
	}
	return s.payments.ListWithGateway(ctx, limit)
}

// dashboardCacheKey is the canonical serialization of the four window
// parameters. The TTL is deliberately not part of the key.
func dashboardCacheKey(params repository.DashboardParams) string {
	key, _ := json.Marshal(struct {
		Months   int `json:"months"`
		Days     int `json:"days"`
		Payments int `json:"payments"`
		Failures int `json:"failures"`
	}{
		Months:   params.MonthlyRevenueMonths,
		Days:     params.GatewayPerformanceDays,
		Payments: params.RecentPaymentsLimit,
		Failures: params.RecentFailuresLimit,
	})
	return fmt.Sprintf("dashboard:%s", key)
}

// GetDashboardAnalytics returns the full analytics snapshot for the given
// options. An unexpired cached snapshot for the same parameters is returned
// verbatim; otherwise the snapshot is recomputed in one read transaction and
// cached for the requested TTL (a zero TTL disables caching for the call).
func (s *paymentService) GetDashboardAnalytics(ctx context.Context, opts DashboardOptions) (*models.DashboardSnapshot, error) {
	params, ttl := opts.clamp(s.cfg)
	key := dashboardCacheKey(params)

	if cached, err := s.cache.Get(ctx, key); err == nil {
		var snapshot models.DashboardSnapshot
		if err := json.Unmarshal(cached, &snapshot); err == nil {
			middleware.RecordDashboardCache("hit")
			return &snapshot, nil
		}
		// Undecodable entry: fall through to recompute.
		s.logger.WarnContext(ctx, "discarding corrupt dashboard cache entry", "key", key)
	} else if !errors.Is(err, cache.ErrMiss) {
		s.logger.WarnContext(ctx, "dashboard cache read failed", "error", err)
	}

	middleware.RecordDashboardCache("miss")
	snapshot, err := s.payments.GetDashboard(ctx, params)
	if err != nil {
		return nil, err
	}

	if ttl > 0 {
		encoded, err := json.Marshal(snapshot)
		if err == nil {
			if err := s.cache.Set(ctx, key, encoded, ttl); err != nil {
				s.logger.WarnContext(ctx, "dashboard cache write failed", "error", err)
			}
		}
	}
	return snapshot, nil
}

// GetRevenueSummary returns the all-time payment summary.
func (s *paymentService) GetRevenueSummary(ctx context.Context) (models.RevenueSummary, error) {
	return s.payments.GetRevenueSummary(ctx)
}

// GetMonthlyRevenue returns the monthly succeeded-revenue trend.
func (s *paymentService) GetMonthlyRevenue(ctx context.Context, months int) ([]*models.MonthlyRevenue, error) {
	return s.payments.GetMonthlyRevenue(ctx, max(1, months))
}

// GetStatusBreakdown returns payment counts per status in the monthly window.
func (s *paymentService) GetStatusBreakdown(ctx context.Context, months int) ([]*models.StatusCount, error) {
	return s.payments.GetStatusBreakdown(ctx, max(1, months))
}

// GetGatewayContribution returns per-gateway revenue shares in the monthly
// window.
func (s *paymentService) GetGatewayContribution(ctx context.Context, months int) ([]*models.GatewayContribution, error) {
	return s.payments.GetGatewayContribution(ctx, max(1, months))
}

// GetRecentFailures returns the most recently updated failed payments.
func (s *paymentService) GetRecentFailures(ctx context.Context, limit int) ([]*models.Payment, error) {
	if limit < 1 {
		limit = orDefault(s.cfg.RecentFailuresLimit, defaultRecentFailuresLimit)
	}
	return s.payments.GetRecentFailures(ctx, limit)
}
