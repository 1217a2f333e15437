package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/boardpulse/boardpulse/internal/database"
	"github.com/boardpulse/boardpulse/internal/models"
)

// DashboardParams are the clamped window parameters for one dashboard
// snapshot computation.
type DashboardParams struct {
	MonthlyRevenueMonths   int
	GatewayPerformanceDays int
	RecentPaymentsLimit    int
	RecentFailuresLimit    int
}

// PaymentRepository defines the interface for payment data and analytics
// operations.
type PaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Payment, error)
	Update(ctx context.Context, payment *models.Payment) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.PaymentStatus, errorCode, errorMessage *string) (*models.Payment, error)
	AppendMetadata(ctx context.Context, id uuid.UUID, metadata map[string]any) error
	ListWithGateway(ctx context.Context, limit int) ([]*models.PaymentWithGateway, error)

	GetRevenueSummary(ctx context.Context) (models.RevenueSummary, error)
	GetMonthlyRevenue(ctx context.Context, months int) ([]*models.MonthlyRevenue, error)
	GetStatusBreakdown(ctx context.Context, months int) ([]*models.StatusCount, error)
	GetGatewayContribution(ctx context.Context, months int) ([]*models.GatewayContribution, error)
	GetRecentFailures(ctx context.Context, limit int) ([]*models.Payment, error)

	// GetDashboard computes every snapshot sub-metric inside one read
	// transaction so they all reflect the same logical point in time.
	GetDashboard(ctx context.Context, params DashboardParams) (*models.DashboardSnapshot, error)
}

type paymentRepo struct {
	db database.DB
}

// NewPaymentRepository creates a new payment repository.
func NewPaymentRepository(db database.DB) PaymentRepository {
	return &paymentRepo{db: db}
}

const paymentColumns = `id, user_id, gateway_id, amount::text, currency, status, intent_id, external_id,
	description, metadata, error_code, error_message, created_at, updated_at, completed_at`

func scanPayment(row pgx.Row, p *models.Payment) error {
	return row.Scan(
		&p.ID, &p.UserID, &p.GatewayID, &p.Amount, &p.Currency, &p.Status,
		&p.IntentID, &p.ExternalID, &p.Description, &p.Metadata,
		&p.ErrorCode, &p.ErrorMessage, &p.CreatedAt, &p.UpdatedAt, &p.CompletedAt,
	)
}

// Create inserts a new payment.
func (r *paymentRepo) Create(ctx context.Context, payment *models.Payment) error {
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	if payment.Status == "" {
		payment.Status = models.PaymentPending
	}

	query := `
		INSERT INTO payments (id, user_id, gateway_id, amount, currency, status, intent_id, external_id, description, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at`

	return r.db.QueryRow(ctx, query,
		payment.ID, payment.UserID, payment.GatewayID, payment.Amount, payment.Currency,
		payment.Status, payment.IntentID, payment.ExternalID, payment.Description, payment.Metadata,
	).Scan(&payment.CreatedAt, &payment.UpdatedAt)
}

// GetByID retrieves a payment by its UUID.
func (r *paymentRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`

	var p models.Payment
	err := scanPayment(r.db.QueryRow(ctx, query, id), &p)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Update modifies a payment's mutable fields.
func (r *paymentRepo) Update(ctx context.Context, payment *models.Payment) error {
	query := `
		UPDATE payments
		SET amount = $2, currency = $3, description = $4, intent_id = $5, external_id = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	return r.db.QueryRow(ctx, query,
		payment.ID, payment.Amount, payment.Currency, payment.Description,
		payment.IntentID, payment.ExternalID,
	).Scan(&payment.UpdatedAt)
}

// UpdateStatus transitions a payment's status. completed_at is stamped exactly
// when the status becomes succeeded.
func (r *paymentRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status models.PaymentStatus, errorCode, errorMessage *string) (*models.Payment, error) {
	query := `
		UPDATE payments
		SET status = $2,
		    error_code = $3,
		    error_message = $4,
		    completed_at = CASE WHEN $2 = 'succeeded' THEN NOW() ELSE completed_at END,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING ` + paymentColumns

	var p models.Payment
	err := scanPayment(r.db.QueryRow(ctx, query, id, status, errorCode, errorMessage), &p)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// AppendMetadata merges the given keys into the payment's metadata object.
func (r *paymentRepo) AppendMetadata(ctx context.Context, id uuid.UUID, metadata map[string]any) error {
	_, err := r.db.Exec(ctx,
		`UPDATE payments SET metadata = COALESCE(metadata, '{}'::jsonb) || $2, updated_at = NOW() WHERE id = $1`,
		id, metadata,
	)
	return err
}

// ListWithGateway retrieves the most recent payments joined to their gateway's
// display fields.
func (r *paymentRepo) ListWithGateway(ctx context.Context, limit int) ([]*models.PaymentWithGateway, error) {
	return r.listWithGateway(ctx, r.db, limit)
}

func (r *paymentRepo) listWithGateway(ctx context.Context, q database.Querier, limit int) ([]*models.PaymentWithGateway, error) {
	query := `
		SELECT p.id, p.user_id, p.gateway_id, p.amount::text, p.currency, p.status, p.intent_id, p.external_id,
		       p.description, p.metadata, p.error_code, p.error_message, p.created_at, p.updated_at, p.completed_at,
		       g.name, g.provider::text
		FROM payments p
		LEFT JOIN payment_gateways g ON g.id = p.gateway_id
		ORDER BY p.created_at DESC
		LIMIT $1`

	rows, err := q.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*models.PaymentWithGateway
	for rows.Next() {
		var p models.PaymentWithGateway
		if err := rows.Scan(
			&p.ID, &p.UserID, &p.GatewayID, &p.Amount, &p.Currency, &p.Status,
			&p.IntentID, &p.ExternalID, &p.Description, &p.Metadata,
			&p.ErrorCode, &p.ErrorMessage, &p.CreatedAt, &p.UpdatedAt, &p.CompletedAt,
			&p.GatewayName, &p.GatewayProvider,
		); err != nil {
			return nil, err
		}
		payments = append(payments, &p)
	}
	return payments, rows.Err()
}

// GetRevenueSummary computes the unwindowed all-time payment summary.
func (r *paymentRepo) GetRevenueSummary(ctx context.Context) (models.RevenueSummary, error) {
	return r.revenueSummary(ctx, r.db)
}

func (r *paymentRepo) revenueSummary(ctx context.Context, q database.Querier) (models.RevenueSummary, error) {
	query := `
		SELECT COALESCE(SUM(amount) FILTER (WHERE status = 'succeeded'), 0)::text,
		       COALESCE(SUM(amount) FILTER (WHERE status = 'pending'), 0)::text,
		       COUNT(*) FILTER (WHERE status = 'succeeded'),
		       COUNT(*) FILTER (WHERE status = 'failed'),
		       COUNT(*)
		FROM payments`

	summary := models.EmptyRevenueSummary()
	err := q.QueryRow(ctx, query).Scan(
		&summary.TotalRevenue,
		&summary.PendingValue,
		&summary.SuccessfulPayments,
		&summary.FailedPayments,
		&summary.TotalPayments,
	)
	if err != nil {
		return models.EmptyRevenueSummary(), err
	}
	return summary, nil
}

// GetMonthlyRevenue sums succeeded amounts by calendar month over the trailing
// window, oldest month first. The window is anchored to the start of the
// current month going back months-1 additional months.
func (r *paymentRepo) GetMonthlyRevenue(ctx context.Context, months int) ([]*models.MonthlyRevenue, error) {
	return r.monthlyRevenue(ctx, r.db, months)
}

func (r *paymentRepo) monthlyRevenue(ctx context.Context, q database.Querier, months int) ([]*models.MonthlyRevenue, error) {
	query := `
		SELECT to_char(date_trunc('month', created_at), 'YYYY-MM'),
		       SUM(amount)::text
		FROM payments
		WHERE status = 'succeeded'
		  AND created_at >= date_trunc('month', NOW()) - make_interval(months => $1 - 1)
		GROUP BY 1
		ORDER BY 1 ASC`

	rows, err := q.Query(ctx, query, months)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var revenue []*models.MonthlyRevenue
	for rows.Next() {
		var m models.MonthlyRevenue
		if err := rows.Scan(&m.Month, &m.Revenue); err != nil {
			return nil, err
		}
		revenue = append(revenue, &m)
	}
	return revenue, rows.Err()
}

// GetStatusBreakdown counts payments per status within the trailing monthly
// window.
func (r *paymentRepo) GetStatusBreakdown(ctx context.Context, months int) ([]*models.StatusCount, error) {
	return r.statusBreakdown(ctx, r.db, months)
}

func (r *paymentRepo) statusBreakdown(ctx context.Context, q database.Querier, months int) ([]*models.StatusCount, error) {
	query := `
		SELECT status, COUNT(*)
		FROM payments
		WHERE created_at >= date_trunc('month', NOW()) - make_interval(months => $1 - 1)
		GROUP BY status
		ORDER BY COUNT(*) DESC`

	rows, err := q.Query(ctx, query, months)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []*models.StatusCount
	for rows.Next() {
		var c models.StatusCount
		if err := rows.Scan(&c.Status, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, &c)
	}
	return counts, rows.Err()
}

// GetGatewayContribution sums succeeded revenue per gateway within the
// trailing monthly window, largest contributor first.
func (r *paymentRepo) GetGatewayContribution(ctx context.Context, months int) ([]*models.GatewayContribution, error) {
	return r.gatewayContribution(ctx, r.db, months)
}

func (r *paymentRepo) gatewayContribution(ctx context.Context, q database.Querier, months int) ([]*models.GatewayContribution, error) {
	query := `
		SELECT g.name, g.provider::text, SUM(p.amount)::text, COUNT(*)
		FROM payments p
		LEFT JOIN payment_gateways g ON g.id = p.gateway_id
		WHERE p.status = 'succeeded'
		  AND p.created_at >= date_trunc('month', NOW()) - make_interval(months => $1 - 1)
		GROUP BY g.name, g.provider
		ORDER BY SUM(p.amount) DESC`

	rows, err := q.Query(ctx, query, months)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contributions []*models.GatewayContribution
	for rows.Next() {
		var c models.GatewayContribution
		if err := rows.Scan(&c.Name, &c.Provider, &c.Revenue, &c.SuccessfulPayments); err != nil {
			return nil, err
		}
		contributions = append(contributions, &c)
	}
	return contributions, rows.Err()
}

// GetRecentFailures retrieves the most recently updated failed payments.
func (r *paymentRepo) GetRecentFailures(ctx context.Context, limit int) ([]*models.Payment, error) {
	return r.recentFailures(ctx, r.db, limit)
}

func (r *paymentRepo) recentFailures(ctx context.Context, q database.Querier, limit int) ([]*models.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE status = 'failed' ORDER BY updated_at DESC LIMIT $1`

	rows, err := q.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		var p models.Payment
		if err := rows.Scan(
			&p.ID, &p.UserID, &p.GatewayID, &p.Amount, &p.Currency, &p.Status,
			&p.IntentID, &p.ExternalID, &p.Description, &p.Metadata,
			&p.ErrorCode, &p.ErrorMessage, &p.CreatedAt, &p.UpdatedAt, &p.CompletedAt,
		); err != nil {
			return nil, err
		}
		payments = append(payments, &p)
	}
	return payments, rows.Err()
}

func (r *paymentRepo) gatewayPerformance(ctx context.Context, q database.Querier, days int) ([]*models.GatewayPerformance, error) {
	// days = 0 means unwindowed; the join condition degenerates to the plain
	// gateway match.
	query := `
		SELECT g.id, g.name, g.provider, g.status,
		       COUNT(p.id) FILTER (WHERE p.status = 'succeeded'),
		       COUNT(p.id) FILTER (WHERE p.status = 'failed'),
		       COUNT(p.id),
		       COALESCE(SUM(p.amount) FILTER (WHERE p.status = 'succeeded'), 0)::text
		FROM payment_gateways g
		LEFT JOIN payments p ON p.gateway_id = g.id
		  AND ($1 = 0 OR p.created_at >= NOW() - make_interval(days => $1))
		GROUP BY g.id, g.name, g.provider, g.status
		ORDER BY COALESCE(SUM(p.amount) FILTER (WHERE p.status = 'succeeded'), 0) DESC,
		         COUNT(p.id) FILTER (WHERE p.status = 'succeeded') DESC`

	rows, err := q.Query(ctx, query, days)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var performance []*models.GatewayPerformance
	for rows.Next() {
		var g models.GatewayPerformance
		if err := rows.Scan(
			&g.ID, &g.Name, &g.Provider, &g.Status,
			&g.SuccessfulPayments, &g.FailedPayments, &g.TotalPayments, &g.TotalVolume,
		); err != nil {
			return nil, err
		}
		performance = append(performance, &g)
	}
	return performance, rows.Err()
}

func (r *paymentRepo) activeGateways(ctx context.Context, q database.Querier) ([]*models.PaymentGateway, error) {
	query := `
		SELECT id, name, provider, status, credentials, webhook_secret, metadata, created_at, updated_at
		FROM payment_gateways
		WHERE status = 'active'
		ORDER BY created_at DESC`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	return scanGateways(rows)
}

// GetDashboard computes the full analytics snapshot. All eight sub-metrics run
// inside one transaction so the snapshot is internally consistent.
func (r *paymentRepo) GetDashboard(ctx context.Context, params DashboardParams) (*models.DashboardSnapshot, error) {
	var snapshot models.DashboardSnapshot

	err := r.db.InTx(ctx, func(q database.Querier) error {
		recent, err := r.listWithGateway(ctx, q, params.RecentPaymentsLimit)
		if err != nil {
			return err
		}
		summary, err := r.revenueSummary(ctx, q)
		if err != nil {
			return err
		}
		monthly, err := r.monthlyRevenue(ctx, q, params.MonthlyRevenueMonths)
		if err != nil {
			return err
		}
		breakdown, err := r.statusBreakdown(ctx, q, params.MonthlyRevenueMonths)
		if err != nil {
			return err
		}
		contribution, err := r.gatewayContribution(ctx, q, params.MonthlyRevenueMonths)
		if err != nil {
			return err
		}
		failures, err := r.recentFailures(ctx, q, params.RecentFailuresLimit)
		if err != nil {
			return err
		}
		performance, err := r.gatewayPerformance(ctx, q, params.GatewayPerformanceDays)
		if err != nil {
			return err
		}
		active, err := r.activeGateways(ctx, q)
		if err != nil {
			return err
		}

		snapshot = models.DashboardSnapshot{
			RecentPayments:      derefSlice(recent),
			RevenueSummary:      summary,
			MonthlyRevenue:      derefSlice(monthly),
			StatusBreakdown:     derefSlice(breakdown),
			GatewayContribution: derefSlice(contribution),
			RecentFailures:      derefSlice(failures),
			GatewayPerformance:  derefSlice(performance),
			ActiveGateways:      derefSlice(active),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// derefSlice converts a slice of pointers into a non-nil slice of values so
// empty snapshot fields serialize as [] rather than null.
func derefSlice[T any](in []*T) []T {
	out := make([]T, 0, len(in))
	for _, v := range in {
		out = append(out, *v)
	}
	return out
}
