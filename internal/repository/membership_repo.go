package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/boardpulse/boardpulse/internal/database"
	"github.com/boardpulse/boardpulse/internal/models"
)

// ChurnRiskRow is the raw per-member recency row; the service layer attaches
// the risk classification.
type ChurnRiskRow struct {
	UserID           uuid.UUID
	Username         string
	Email            string
	MembershipType   *string
	LastActivityDate time.Time
}

// RetentionCohortRow is the raw per-cohort count pair; the service computes
// the rate.
type RetentionCohortRow struct {
	CohortMonth string
	TotalUsers  int
	ActiveUsers int
}

// FunnelCounts are the four raw journey-stage tallies.
type FunnelCounts struct {
	TotalUsers      int
	ProjectCreators int
	TaskAssignees   int
	ActiveInTeam    int
}

// MembershipRepository defines the interface for membership and engagement
// analytics queries.
type MembershipRepository interface {
	GetDistribution(ctx context.Context) ([]*models.MembershipCount, error)
	GetUpgradeConversions(ctx context.Context) ([]*models.UpgradeConversion, error)
	GetChurnRiskRows(ctx context.Context) ([]*ChurnRiskRow, error)
	GetRetentionCohorts(ctx context.Context) ([]*RetentionCohortRow, error)
	GetFunnelCounts(ctx context.Context) (FunnelCounts, error)
}

type membershipRepo struct {
	db database.DB
}

// NewMembershipRepository creates a new membership repository.
func NewMembershipRepository(db database.DB) MembershipRepository {
	return &membershipRepo{db: db}
}

// GetDistribution tallies active memberships per plan, largest first.
func (r *membershipRepo) GetDistribution(ctx context.Context) ([]*models.MembershipCount, error) {
	query := `
		SELECT mt.name::text, COUNT(*)
		FROM user_memberships um
		JOIN membership_types mt ON mt.id = um.membership_type_id
		WHERE um.is_active AND (um.end_date IS NULL OR um.end_date > NOW())
		GROUP BY mt.name
		ORDER BY COUNT(*) DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []*models.MembershipCount
	for rows.Next() {
		var c models.MembershipCount
		if err := rows.Scan(&c.MembershipType, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, &c)
	}
	return counts, rows.Err()
}

// GetUpgradeConversions counts non-free membership starts per month and plan.
func (r *membershipRepo) GetUpgradeConversions(ctx context.Context) ([]*models.UpgradeConversion, error) {
	query := `
		SELECT to_char(date_trunc('month', um.start_date), 'YYYY-MM'), mt.name::text, COUNT(*)
		FROM user_memberships um
		JOIN membership_types mt ON mt.id = um.membership_type_id
		WHERE mt.name <> 'free'
		GROUP BY 1, 2
		ORDER BY 1 ASC, 2 ASC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var conversions []*models.UpgradeConversion
	for rows.Next() {
		var c models.UpgradeConversion
		if err := rows.Scan(&c.Month, &c.MembershipType, &c.Conversions); err != nil {
			return nil, err
		}
		conversions = append(conversions, &c)
	}
	return conversions, rows.Err()
}

// GetChurnRiskRows retrieves every active member with the timestamp of their
// most recent activity, falling back to their signup date when they have no
// activity rows. Ordered oldest activity first.
func (r *membershipRepo) GetChurnRiskRows(ctx context.Context) ([]*ChurnRiskRow, error) {
	query := `
		SELECT u.id, u.username, u.email, mt.name::text,
		       COALESCE(MAX(a.created_at), u.created_at) AS last_activity
		FROM user_memberships um
		JOIN users u ON u.id = um.user_id
		JOIN membership_types mt ON mt.id = um.membership_type_id
		LEFT JOIN activities a ON a.user_id = u.id
		WHERE um.is_active AND (um.end_date IS NULL OR um.end_date > NOW())
		GROUP BY u.id, u.username, u.email, u.created_at, mt.name
		ORDER BY last_activity ASC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*ChurnRiskRow
	for rows.Next() {
		var row ChurnRiskRow
		if err := rows.Scan(&row.UserID, &row.Username, &row.Email, &row.MembershipType, &row.LastActivityDate); err != nil {
			return nil, err
		}
		result = append(result, &row)
	}
	return result, rows.Err()
}

// GetRetentionCohorts groups users by signup month over the trailing 12
// months, counting how many had at least one activity row in the trailing 30
// days.
func (r *membershipRepo) GetRetentionCohorts(ctx context.Context) ([]*RetentionCohortRow, error) {
	query := `
		SELECT to_char(date_trunc('month', u.created_at), 'YYYY-MM') AS cohort,
		       COUNT(*),
		       COUNT(*) FILTER (WHERE EXISTS (
		           SELECT 1 FROM activities a
		           WHERE a.user_id = u.id AND a.created_at >= NOW() - INTERVAL '30 days'
		       ))
		FROM users u
		WHERE u.created_at >= date_trunc('month', NOW()) - INTERVAL '11 months'
		GROUP BY 1
		ORDER BY 1 ASC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cohorts []*RetentionCohortRow
	for rows.Next() {
		var c RetentionCohortRow
		if err := rows.Scan(&c.CohortMonth, &c.TotalUsers, &c.ActiveUsers); err != nil {
			return nil, err
		}
		cohorts = append(cohorts, &c)
	}
	return cohorts, rows.Err()
}

// GetFunnelCounts computes the four user-journey stage tallies in one query.
func (r *membershipRepo) GetFunnelCounts(ctx context.Context) (FunnelCounts, error) {
	query := `
		SELECT (SELECT COUNT(*) FROM users),
		       (SELECT COUNT(DISTINCT user_id) FROM project_members),
		       (SELECT COUNT(DISTINCT assignee_id) FROM tasks WHERE assignee_id IS NOT NULL),
		       (SELECT COUNT(DISTINCT user_id) FROM activities WHERE created_at >= NOW() - INTERVAL '30 days')`

	var counts FunnelCounts
	err := r.db.QueryRow(ctx, query).Scan(
		&counts.TotalUsers,
		&counts.ProjectCreators,
		&counts.TaskAssignees,
		&counts.ActiveInTeam,
	)
	return counts, err
}
