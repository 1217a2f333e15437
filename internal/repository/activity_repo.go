package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/boardpulse/boardpulse/internal/database"
	"github.com/boardpulse/boardpulse/internal/models"
)

// ActivityRepository defines the interface for the append-only event ledger.
type ActivityRepository interface {
	Create(ctx context.Context, activity *models.Activity) error
	GetByProject(ctx context.Context, projectID uuid.UUID, limit int) ([]*models.Activity, error)
	GetByTask(ctx context.Context, taskID uuid.UUID, limit int) ([]*models.Activity, error)
	GetRecentForUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.ActivityWithContext, error)
	GetDailyActivity(ctx context.Context, projectID uuid.UUID) ([]*models.DailyActivityCount, error)
	GetHeatmap(ctx context.Context) ([]*models.HeatmapCell, error)
	GetCountPerUser(ctx context.Context) ([]*models.UserActivityCount, error)
	GetRealTimeFeed(ctx context.Context, limit int) ([]*models.ActivityWithContext, error)
	GetTrends(ctx context.Context) ([]*models.ActivityTrendPoint, error)
}

type activityRepo struct {
	db database.DB
}

// NewActivityRepository creates a new activity repository.
func NewActivityRepository(db database.DB) ActivityRepository {
	return &activityRepo{db: db}
}

// Create appends one activity row.
func (r *activityRepo) Create(ctx context.Context, activity *models.Activity) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO activities (id, project_id, task_id, user_id, type, description, metadata, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		activity.ID, activity.ProjectID, activity.TaskID, activity.UserID,
		activity.Type, activity.Description, activity.Metadata, activity.CreatedAt,
	)
	return err
}

// GetByProject retrieves the most recent activity for a project.
func (r *activityRepo) GetByProject(ctx context.Context, projectID uuid.UUID, limit int) ([]*models.Activity, error) {
	query := `
		SELECT id, project_id, task_id, user_id, type, description, metadata, created_at
		FROM activities
		WHERE project_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.db.Query(ctx, query, projectID, limit)
	if err != nil {
		return nil, err
	}
	return scanActivities(rows)
}

// GetByTask retrieves the most recent activity for a task.
func (r *activityRepo) GetByTask(ctx context.Context, taskID uuid.UUID, limit int) ([]*models.Activity, error) {
	query := `
		SELECT id, project_id, task_id, user_id, type, description, metadata, created_at
		FROM activities
		WHERE task_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.db.Query(ctx, query, taskID, limit)
	if err != nil {
		return nil, err
	}
	return scanActivities(rows)
}

func scanActivities(rows pgx.Rows) ([]*models.Activity, error) {
	defer rows.Close()

	var activities []*models.Activity
	for rows.Next() {
		var a models.Activity
		if err := rows.Scan(&a.ID, &a.ProjectID, &a.TaskID, &a.UserID, &a.Type, &a.Description, &a.Metadata, &a.CreatedAt); err != nil {
			return nil, err
		}
		activities = append(activities, &a)
	}
	return activities, rows.Err()
}

// GetRecentForUser retrieves the most recent activity across every project the
// user is a member of, joined to author and project names.
func (r *activityRepo) GetRecentForUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.ActivityWithContext, error) {
	query := `
		SELECT a.id, a.project_id, a.task_id, a.user_id, a.type, a.description, a.metadata, a.created_at,
		       u.username, COALESCE(p.name, '')
		FROM activities a
		JOIN project_members pm ON pm.project_id = a.project_id AND pm.user_id = $1
		JOIN users u ON u.id = a.user_id
		LEFT JOIN projects p ON p.id = a.project_id
		ORDER BY a.created_at DESC
		LIMIT $2`

	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	return scanActivitiesWithContext(rows)
}

// GetRealTimeFeed retrieves the most recent activity globally, joined to
// author and project names.
func (r *activityRepo) GetRealTimeFeed(ctx context.Context, limit int) ([]*models.ActivityWithContext, error) {
	query := `
		SELECT a.id, a.project_id, a.task_id, a.user_id, a.type, a.description, a.metadata, a.created_at,
		       u.username, COALESCE(p.name, '')
		FROM activities a
		JOIN users u ON u.id = a.user_id
		LEFT JOIN projects p ON p.id = a.project_id
		ORDER BY a.created_at DESC
		LIMIT $1`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	return scanActivitiesWithContext(rows)
}

func scanActivitiesWithContext(rows pgx.Rows) ([]*models.ActivityWithContext, error) {
	defer rows.Close()

	var activities []*models.ActivityWithContext
	for rows.Next() {
		var a models.ActivityWithContext
		if err := rows.Scan(
			&a.ID, &a.ProjectID, &a.TaskID, &a.UserID, &a.Type, &a.Description, &a.Metadata, &a.CreatedAt,
			&a.Username, &a.ProjectName,
		); err != nil {
			return nil, err
		}
		activities = append(activities, &a)
	}
	return activities, rows.Err()
}

// GetDailyActivity buckets a project's activity by calendar day, ascending.
func (r *activityRepo) GetDailyActivity(ctx context.Context, projectID uuid.UUID) ([]*models.DailyActivityCount, error) {
	query := `
		SELECT to_char(date_trunc('day', created_at), 'YYYY-MM-DD'), COUNT(*)
		FROM activities
		WHERE project_id = $1
		GROUP BY 1
		ORDER BY 1 ASC`

	rows, err := r.db.Query(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []*models.DailyActivityCount
	for rows.Next() {
		var c models.DailyActivityCount
		if err := rows.Scan(&c.Date, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, &c)
	}
	return counts, rows.Err()
}

// GetHeatmap buckets global activity by (day, hour) over the trailing 90 days.
func (r *activityRepo) GetHeatmap(ctx context.Context) ([]*models.HeatmapCell, error) {
	query := `
		SELECT to_char(date_trunc('day', created_at), 'YYYY-MM-DD'),
		       EXTRACT(HOUR FROM created_at)::int,
		       COUNT(*)
		FROM activities
		WHERE created_at >= NOW() - INTERVAL '90 days'
		GROUP BY 1, 2
		ORDER BY 1 ASC, 2 ASC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cells []*models.HeatmapCell
	for rows.Next() {
		var c models.HeatmapCell
		if err := rows.Scan(&c.Date, &c.Hour, &c.Count); err != nil {
			return nil, err
		}
		cells = append(cells, &c)
	}
	return cells, rows.Err()
}

// GetCountPerUser tallies global activity per username, busiest first.
func (r *activityRepo) GetCountPerUser(ctx context.Context) ([]*models.UserActivityCount, error) {
	query := `
		SELECT u.username, COUNT(*)
		FROM activities a
		JOIN users u ON u.id = a.user_id
		GROUP BY u.username
		ORDER BY COUNT(*) DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []*models.UserActivityCount
	for rows.Next() {
		var c models.UserActivityCount
		if err := rows.Scan(&c.Username, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, &c)
	}
	return counts, rows.Err()
}

// GetTrends buckets global activity by (day, type) over the trailing 30 days.
func (r *activityRepo) GetTrends(ctx context.Context) ([]*models.ActivityTrendPoint, error) {
	query := `
		SELECT to_char(date_trunc('day', created_at), 'YYYY-MM-DD'), type, COUNT(*)
		FROM activities
		WHERE created_at >= NOW() - INTERVAL '30 days'
		GROUP BY 1, 2
		ORDER BY 1 ASC, 2 ASC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []*models.ActivityTrendPoint
	for rows.Next() {
		var p models.ActivityTrendPoint
		if err := rows.Scan(&p.Date, &p.Type, &p.Count); err != nil {
			return nil, err
		}
		points = append(points, &p)
	}
	return points, rows.Err()
}
