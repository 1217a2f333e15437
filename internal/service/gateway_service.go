package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/boardpulse/boardpulse/internal/models"
	apierrors "github.com/boardpulse/boardpulse/internal/pkg/errors"
	"github.com/boardpulse/boardpulse/internal/repository"
)

// CreateGatewayRequest is the request for registering a payment gateway.
type CreateGatewayRequest struct {
	Name          string                 `json:"name" validate:"required,min=1,max=255"`
	Provider      models.GatewayProvider `json:"provider" validate:"required,oneof=custom manual stripe paypal adyen razorpay"`
	Credentials   map[string]any         `json:"credentials"`
	WebhookSecret *string                `json:"webhook_secret"`
	Metadata      map[string]any         `json:"metadata"`
}

// GatewayService defines the interface for payment gateway management.
type GatewayService interface {
	Create(ctx context.Context, req CreateGatewayRequest) (*models.PaymentGateway, error)
	Get(ctx context.Context, id uuid.UUID) (*models.PaymentGateway, error)
	List(ctx context.Context) ([]*models.PaymentGateway, error)
	ListActive(ctx context.Context) ([]*models.PaymentGateway, error)
	Update(ctx context.Context, gateway *models.PaymentGateway) error
	UpdateCredentials(ctx context.Context, id uuid.UUID, credentials map[string]any) error
	SetStatus(ctx context.Context, id uuid.UUID, status models.GatewayStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetPerformance(ctx context.Context, days int) ([]*models.GatewayPerformance, error)
}

type gatewayService struct {
	gateways repository.GatewayRepository
	logger   *slog.Logger
}

// NewGatewayService creates a new gateway service.
func NewGatewayService(gateways repository.GatewayRepository, logger *slog.Logger) GatewayService {
	return &gatewayService{gateways: gateways, logger: logger}
}

// Create registers a new gateway in inactive state.
func (s *gatewayService) Create(ctx context.Context, req CreateGatewayRequest) (*models.PaymentGateway, error) {
	gateway := &models.PaymentGateway{
		Name:          req.Name,
		Provider:      req.Provider,
		Status:        models.GatewayInactive,
		Credentials:   req.Credentials,
		WebhookSecret: req.WebhookSecret,
		Metadata:      req.Metadata,
	}
	if err := s.gateways.Create(ctx, gateway); err != nil {
		return nil, err
	}
	return gateway, nil
}

// Get retrieves a gateway by id. Returns nil when not found.
func (s *gatewayService) Get(ctx context.Context, id uuid.UUID) (*models.PaymentGateway, error) {
	return s.gateways.GetByID(ctx, id)
}

// List retrieves all gateways.
func (s *gatewayService) List(ctx context.Context) ([]*models.PaymentGateway, error) {
	return s.gateways.List(ctx)
}

// ListActive retrieves all active gateways.
func (s *gatewayService) ListActive(ctx context.Context) ([]*models.PaymentGateway, error) {
	return s.gateways.ListActive(ctx)
}

// Update modifies a gateway's mutable fields.
func (s *gatewayService) Update(ctx context.Context, gateway *models.PaymentGateway) error {
	existing, err := s.gateways.GetByID(ctx, gateway.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return apierrors.NewNotFoundError("Gateway")
	}
	return s.gateways.Update(ctx, gateway)
}

// UpdateCredentials replaces a gateway's credentials object.
func (s *gatewayService) UpdateCredentials(ctx context.Context, id uuid.UUID, credentials map[string]any) error {
	return s.gateways.UpdateCredentials(ctx, id, credentials)
}

// SetStatus transitions a gateway's operational status.
func (s *gatewayService) SetStatus(ctx context.Context, id uuid.UUID, status models.GatewayStatus) error {
	return s.gateways.SetStatus(ctx, id, status)
}

// Delete removes a gateway. A gateway with associated payments refuses
// deletion with a has_dependents error, distinct from not-found, so the
// caller can render the right message.
func (s *gatewayService) Delete(ctx context.Context, id uuid.UUID) error {
	gateway, err := s.gateways.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if gateway == nil {
		return apierrors.NewNotFoundError("Gateway")
	}

	hasPayments, err := s.gateways.HasPayments(ctx, id)
	if err != nil {
		return err
	}
	if hasPayments {
		return apierrors.NewHasDependentsError("Gateway", "payments")
	}

	if err := s.gateways.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "gateway deleted",
		"gateway_id", id,
		"name", gateway.Name,
	)
	return nil
}

// GetPerformance returns per-gateway success/failure/volume over the trailing
// window. A non-positive days value means all time.
func (s *gatewayService) GetPerformance(ctx context.Context, days int) ([]*models.GatewayPerformance, error) {
	return s.gateways.GetPerformance(ctx, max(0, days))
}
