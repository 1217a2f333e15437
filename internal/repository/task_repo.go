package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/boardpulse/boardpulse/internal/database"
	"github.com/boardpulse/boardpulse/internal/models"
)

// TaskRepository defines the interface for task and comment data operations
// plus velocity analytics.
type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Task, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*models.Task, error)
	ListByAssignee(ctx context.Context, assigneeID uuid.UUID) ([]*models.Task, error)
	Update(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, id uuid.UUID) error

	CreateComment(ctx context.Context, comment *models.TaskComment) error
	GetCommentByID(ctx context.Context, id uuid.UUID) (*models.TaskComment, error)
	ListCommentsByTask(ctx context.Context, taskID uuid.UUID) ([]*models.TaskComment, error)
	DeleteComment(ctx context.Context, id uuid.UUID) error

	GetVelocity(ctx context.Context) ([]*models.TaskVelocityPoint, error)
	GetCompletionRate(ctx context.Context) ([]*models.TaskCompletionRate, error)
	GetStatusMetrics(ctx context.Context) ([]*models.TaskStatusMetric, error)
}

type taskRepo struct {
	db database.DB
}

// NewTaskRepository creates a new task repository.
func NewTaskRepository(db database.DB) TaskRepository {
	return &taskRepo{db: db}
}

const taskColumns = `id, name, description, project_id, assignee_id, status_id, start_date, end_date`

// Create inserts a new task.
func (r *taskRepo) Create(ctx context.Context, task *models.Task) error {
	if task.ID == uuid.Nil {
		task.ID = uuid.New()
	}

	_, err := r.db.Exec(ctx,
		`INSERT INTO tasks (id, name, description, project_id, assignee_id, status_id, start_date, end_date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		task.ID, task.Name, task.Description, task.ProjectID,
		task.AssigneeID, task.StatusID, task.StartDate, task.EndDate,
	)
	return err
}

// GetByID retrieves a task by its UUID.
func (r *taskRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`

	var t models.Task
	err := r.db.QueryRow(ctx, query, id).Scan(
		&t.ID, &t.Name, &t.Description, &t.ProjectID,
		&t.AssigneeID, &t.StatusID, &t.StartDate, &t.EndDate,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ListByProject retrieves all tasks under a project.
func (r *taskRepo) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE project_id = $1 ORDER BY name ASC`
	return r.list(ctx, query, projectID)
}

// ListByAssignee retrieves all tasks assigned to a user.
func (r *taskRepo) ListByAssignee(ctx context.Context, assigneeID uuid.UUID) ([]*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE assignee_id = $1 ORDER BY name ASC`
	return r.list(ctx, query, assigneeID)
}

func (r *taskRepo) list(ctx context.Context, query string, args ...any) ([]*models.Task, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []*models.Task
	for rows.Next() {
		var t models.Task
		if err := rows.Scan(
			&t.ID, &t.Name, &t.Description, &t.ProjectID,
			&t.AssigneeID, &t.StatusID, &t.StartDate, &t.EndDate,
		); err != nil {
			return nil, err
		}
		tasks = append(tasks, &t)
	}
	return tasks, rows.Err()
}

// Update modifies a task's mutable fields.
func (r *taskRepo) Update(ctx context.Context, task *models.Task) error {
	_, err := r.db.Exec(ctx,
		`UPDATE tasks
		 SET name = $2, description = $3, assignee_id = $4, status_id = $5, start_date = $6, end_date = $7
		 WHERE id = $1`,
		task.ID, task.Name, task.Description, task.AssigneeID,
		task.StatusID, task.StartDate, task.EndDate,
	)
	return err
}

// Delete removes a task and its comments.
func (r *taskRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.InTx(ctx, func(q database.Querier) error {
		if _, err := q.Exec(ctx, `DELETE FROM task_comments WHERE task_id = $1`, id); err != nil {
			return err
		}
		_, err := q.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
		return err
	})
}

// CreateComment inserts a new comment.
func (r *taskRepo) CreateComment(ctx context.Context, comment *models.TaskComment) error {
	if comment.ID == uuid.Nil {
		comment.ID = uuid.New()
	}

	query := `
		INSERT INTO task_comments (id, content, task_id, user_id)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`

	return r.db.QueryRow(ctx, query,
		comment.ID, comment.Content, comment.TaskID, comment.UserID,
	).Scan(&comment.CreatedAt)
}

// GetCommentByID retrieves a comment by its UUID.
func (r *taskRepo) GetCommentByID(ctx context.Context, id uuid.UUID) (*models.TaskComment, error) {
	query := `SELECT id, content, task_id, user_id, created_at FROM task_comments WHERE id = $1`

	var c models.TaskComment
	err := r.db.QueryRow(ctx, query, id).Scan(&c.ID, &c.Content, &c.TaskID, &c.UserID, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListCommentsByTask retrieves a task's comments, oldest first.
func (r *taskRepo) ListCommentsByTask(ctx context.Context, taskID uuid.UUID) ([]*models.TaskComment, error) {
	query := `SELECT id, content, task_id, user_id, created_at FROM task_comments WHERE task_id = $1 ORDER BY created_at ASC`

	rows, err := r.db.Query(ctx, query, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []*models.TaskComment
	for rows.Next() {
		var c models.TaskComment
		if err := rows.Scan(&c.ID, &c.Content, &c.TaskID, &c.UserID, &c.CreatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, &c)
	}
	return comments, rows.Err()
}

// DeleteComment removes a comment.
func (r *taskRepo) DeleteComment(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM task_comments WHERE id = $1`, id)
	return err
}

// GetVelocity reports daily created vs completed counts over the trailing 30
// days, using ledger events as the signal.
func (r *taskRepo) GetVelocity(ctx context.Context) ([]*models.TaskVelocityPoint, error) {
	query := `
		SELECT to_char(date_trunc('day', created_at), 'YYYY-MM-DD'),
		       COUNT(*) FILTER (WHERE type = 'TASK_CREATED'),
		       COUNT(*) FILTER (WHERE type = 'TASK_STATUS_CHANGED')
		FROM activities
		WHERE created_at >= NOW() - INTERVAL '30 days'
		  AND type IN ('TASK_CREATED', 'TASK_STATUS_CHANGED')
		GROUP BY 1
		ORDER BY 1 ASC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []*models.TaskVelocityPoint
	for rows.Next() {
		var p models.TaskVelocityPoint
		if err := rows.Scan(&p.Date, &p.Created, &p.Completed); err != nil {
			return nil, err
		}
		points = append(points, &p)
	}
	return points, rows.Err()
}

// GetCompletionRate groups tasks by start month over the trailing 12 months
// and reports the fraction with an end date set.
func (r *taskRepo) GetCompletionRate(ctx context.Context) ([]*models.TaskCompletionRate, error) {
	query := `
		SELECT to_char(date_trunc('month', start_date), 'YYYY-MM'),
		       COUNT(*),
		       COUNT(*) FILTER (WHERE end_date IS NOT NULL),
		       COALESCE(ROUND(100.0 * COUNT(*) FILTER (WHERE end_date IS NOT NULL) / NULLIF(COUNT(*), 0), 2), 0)
		FROM tasks
		WHERE start_date IS NOT NULL
		  AND start_date >= date_trunc('month', NOW()) - INTERVAL '11 months'
		GROUP BY 1
		ORDER BY 1 ASC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rates []*models.TaskCompletionRate
	for rows.Next() {
		var rate models.TaskCompletionRate
		if err := rows.Scan(&rate.Month, &rate.TotalTasks, &rate.CompletedTasks, &rate.CompletionRate); err != nil {
			return nil, err
		}
		rates = append(rates, &rate)
	}
	return rates, rows.Err()
}

// GetStatusMetrics reports per-column task counts and the average days between
// start and end date for tasks that have both.
func (r *taskRepo) GetStatusMetrics(ctx context.Context) ([]*models.TaskStatusMetric, error) {
	query := `
		SELECT ts.name,
		       COUNT(t.id),
		       AVG(EXTRACT(EPOCH FROM (t.end_date - t.start_date)) / 86400.0)
		         FILTER (WHERE t.start_date IS NOT NULL AND t.end_date IS NOT NULL)
		FROM task_statuses ts
		LEFT JOIN tasks t ON t.status_id = ts.id
		GROUP BY ts.id, ts.name
		ORDER BY ts."order" ASC, ts.name ASC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var metrics []*models.TaskStatusMetric
	for rows.Next() {
		var m models.TaskStatusMetric
		if err := rows.Scan(&m.StatusName, &m.TaskCount, &m.AvgCompletionDays); err != nil {
			return nil, err
		}
		metrics = append(metrics, &m)
	}
	return metrics, rows.Err()
}
