package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/boardpulse/boardpulse/internal/database"
	"github.com/boardpulse/boardpulse/internal/models"
)

// GatewayRepository defines the interface for payment gateway data operations.
type GatewayRepository interface {
	Create(ctx context.Context, gateway *models.PaymentGateway) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.PaymentGateway, error)
	List(ctx context.Context) ([]*models.PaymentGateway, error)
	ListActive(ctx context.Context) ([]*models.PaymentGateway, error)
	Update(ctx context.Context, gateway *models.PaymentGateway) error
	UpdateCredentials(ctx context.Context, id uuid.UUID, credentials map[string]any) error
	SetStatus(ctx context.Context, id uuid.UUID, status models.GatewayStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
	HasPayments(ctx context.Context, id uuid.UUID) (bool, error)
	GetPerformance(ctx context.Context, days int) ([]*models.GatewayPerformance, error)
}

type gatewayRepo struct {
	db database.DB
	// GetPerformance shares its query with the dashboard snapshot.
	payments *paymentRepo
}

// NewGatewayRepository creates a new gateway repository.
func NewGatewayRepository(db database.DB) GatewayRepository {
	return &gatewayRepo{db: db, payments: &paymentRepo{db: db}}
}

const gatewayColumns = `id, name, provider, status, credentials, webhook_secret, metadata, created_at, updated_at`

// Create inserts a new gateway.
func (r *gatewayRepo) Create(ctx context.Context, gateway *models.PaymentGateway) error {
	if gateway.ID == uuid.Nil {
		gateway.ID = uuid.New()
	}
	if gateway.Status == "" {
		gateway.Status = models.GatewayInactive
	}
	if gateway.Credentials == nil {
		gateway.Credentials = map[string]any{}
	}

	query := `
		INSERT INTO payment_gateways (id, name, provider, status, credentials, webhook_secret, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`

	return r.db.QueryRow(ctx, query,
		gateway.ID, gateway.Name, gateway.Provider, gateway.Status,
		gateway.Credentials, gateway.WebhookSecret, gateway.Metadata,
	).Scan(&gateway.CreatedAt, &gateway.UpdatedAt)
}

// GetByID retrieves a gateway by its UUID.
func (r *gatewayRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.PaymentGateway, error) {
	query := `SELECT ` + gatewayColumns + ` FROM payment_gateways WHERE id = $1`

	var g models.PaymentGateway
	err := r.db.QueryRow(ctx, query, id).Scan(
		&g.ID, &g.Name, &g.Provider, &g.Status, &g.Credentials,
		&g.WebhookSecret, &g.Metadata, &g.CreatedAt, &g.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// List retrieves all gateways, newest first.
func (r *gatewayRepo) List(ctx context.Context) ([]*models.PaymentGateway, error) {
	query := `SELECT ` + gatewayColumns + ` FROM payment_gateways ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	return scanGateways(rows)
}

// ListActive retrieves all active gateways, newest first.
func (r *gatewayRepo) ListActive(ctx context.Context) ([]*models.PaymentGateway, error) {
	return r.payments.activeGateways(ctx, r.db)
}

func scanGateways(rows pgx.Rows) ([]*models.PaymentGateway, error) {
	defer rows.Close()

	var gateways []*models.PaymentGateway
	for rows.Next() {
		var g models.PaymentGateway
		if err := rows.Scan(
			&g.ID, &g.Name, &g.Provider, &g.Status, &g.Credentials,
			&g.WebhookSecret, &g.Metadata, &g.CreatedAt, &g.UpdatedAt,
		); err != nil {
			return nil, err
		}
		gateways = append(gateways, &g)
	}
	return gateways, rows.Err()
}

// Update modifies a gateway's mutable fields.
func (r *gatewayRepo) Update(ctx context.Context, gateway *models.PaymentGateway) error {
	query := `
		UPDATE payment_gateways
		SET name = $2, provider = $3, webhook_secret = $4, metadata = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	return r.db.QueryRow(ctx, query,
		gateway.ID, gateway.Name, gateway.Provider, gateway.WebhookSecret, gateway.Metadata,
	).Scan(&gateway.UpdatedAt)
}

// UpdateCredentials replaces a gateway's credentials object.
func (r *gatewayRepo) UpdateCredentials(ctx context.Context, id uuid.UUID, credentials map[string]any) error {
	_, err := r.db.Exec(ctx,
		`UPDATE payment_gateways SET credentials = $2, updated_at = NOW() WHERE id = $1`,
		id, credentials,
	)
	return err
}

// SetStatus transitions a gateway's operational status.
func (r *gatewayRepo) SetStatus(ctx context.Context, id uuid.UUID, status models.GatewayStatus) error {
	_, err := r.db.Exec(ctx,
		`UPDATE payment_gateways SET status = $2, updated_at = NOW() WHERE id = $1`,
		id, status,
	)
	return err
}

// Delete removes a gateway row. Callers must check HasPayments first; the
// business rule lives in the service.
func (r *gatewayRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM payment_gateways WHERE id = $1`, id)
	return err
}

// HasPayments reports whether any payment references the gateway.
func (r *gatewayRepo) HasPayments(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM payments WHERE gateway_id = $1)`,
		id,
	).Scan(&exists)
	return exists, err
}

// GetPerformance reports per-gateway success/failure counts and succeeded
// volume over the trailing window. days = 0 means all time.
func (r *gatewayRepo) GetPerformance(ctx context.Context, days int) ([]*models.GatewayPerformance, error) {
	return r.payments.gatewayPerformance(ctx, r.db, days)
}
