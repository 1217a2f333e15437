// Package repository provides data access layer implementations.
package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/boardpulse/boardpulse/internal/database"
	"github.com/boardpulse/boardpulse/internal/models"
)

// TaskStatusRepository defines the interface for board column data operations.
type TaskStatusRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.TaskStatus, error)
	GetByProject(ctx context.Context, projectID uuid.UUID) ([]*models.TaskStatus, error)
	CreateForProject(ctx context.Context, projectID uuid.UUID, name string) (*models.TaskStatus, error)
	UpdateName(ctx context.Context, id uuid.UUID, name string) error
	UpdateOrders(ctx context.Context, orderedIDs []uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
	TaskCountByStatus(ctx context.Context, projectID *uuid.UUID) ([]*models.StatusTaskCount, error)
}

type taskStatusRepo struct {
	db database.DB
}

// NewTaskStatusRepository creates a new task status repository.
func NewTaskStatusRepository(db database.DB) TaskStatusRepository {
	return &taskStatusRepo{db: db}
}

// GetByID retrieves a status by its UUID.
func (r *taskStatusRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.TaskStatus, error) {
	query := `SELECT id, name, "order", project_id FROM task_statuses WHERE id = $1`

	var status models.TaskStatus
	err := r.db.QueryRow(ctx, query, id).Scan(
		&status.ID,
		&status.Name,
		&status.Order,
		&status.ProjectID,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &status, nil
}

// GetByProject retrieves all statuses for a project in column order.
func (r *taskStatusRepo) GetByProject(ctx context.Context, projectID uuid.UUID) ([]*models.TaskStatus, error) {
	query := `
		SELECT id, name, "order", project_id
		FROM task_statuses
		WHERE project_id = $1
		ORDER BY "order" ASC`

	rows, err := r.db.Query(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var statuses []*models.TaskStatus
	for rows.Next() {
		var status models.TaskStatus
		if err := rows.Scan(&status.ID, &status.Name, &status.Order, &status.ProjectID); err != nil {
			return nil, err
		}
		statuses = append(statuses, &status)
	}
	return statuses, rows.Err()
}

// CreateForProject inserts a new status at the end of the project's columns.
// The next order value is read inside the same transaction as the insert so
// sequential creates never assign a duplicate.
func (r *taskStatusRepo) CreateForProject(ctx context.Context, projectID uuid.UUID, name string) (*models.TaskStatus, error) {
	status := &models.TaskStatus{
		ID:        uuid.New(),
		Name:      name,
		ProjectID: &projectID,
	}

	err := r.db.InTx(ctx, func(q database.Querier) error {
		var maxOrder int
		err := q.QueryRow(ctx,
			`SELECT COALESCE(MAX("order"), 0) FROM task_statuses WHERE project_id = $1`,
			projectID,
		).Scan(&maxOrder)
		if err != nil {
			return err
		}
		status.Order = maxOrder + 1

		_, err = q.Exec(ctx,
			`INSERT INTO task_statuses (id, name, "order", project_id) VALUES ($1, $2, $3, $4)`,
			status.ID, status.Name, status.Order, status.ProjectID,
		)
		return err
	})
	if err != nil {
		return nil, err
	}
	return status, nil
}

// UpdateName renames a status.
func (r *taskStatusRepo) UpdateName(ctx context.Context, id uuid.UUID, name string) error {
	_, err := r.db.Exec(ctx, `UPDATE task_statuses SET name = $2 WHERE id = $1`, id, name)
	return err
}

// UpdateOrders assigns order = position + 1 to each id in orderedIDs, all
// inside one transaction. Either every row updates or none do.
func (r *taskStatusRepo) UpdateOrders(ctx context.Context, orderedIDs []uuid.UUID) error {
	if len(orderedIDs) == 0 {
		return nil
	}

	return r.db.InTx(ctx, func(q database.Querier) error {
		for i, id := range orderedIDs {
			if _, err := q.Exec(ctx,
				`UPDATE task_statuses SET "order" = $2 WHERE id = $1`,
				id, i+1,
			); err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes the status row. Tasks referencing it are not touched and
// remaining orders are not compacted.
func (r *taskStatusRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM task_statuses WHERE id = $1`, id)
	return err
}

// TaskCountByStatus tallies tasks per column, optionally scoped to a project.
func (r *taskStatusRepo) TaskCountByStatus(ctx context.Context, projectID *uuid.UUID) ([]*models.StatusTaskCount, error) {
	query := `
		SELECT ts.id, ts.name, COUNT(t.id)
		FROM task_statuses ts
		LEFT JOIN tasks t ON t.status_id = ts.id
		WHERE ($1::uuid IS NULL OR ts.project_id = $1)
		GROUP BY ts.id, ts.name
		ORDER BY ts."order" ASC`

	rows, err := r.db.Query(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []*models.StatusTaskCount
	for rows.Next() {
		var c models.StatusTaskCount
		if err := rows.Scan(&c.StatusID, &c.StatusName, &c.TaskCount); err != nil {
			return nil, err
		}
		counts = append(counts, &c)
	}
	return counts, rows.Err()
}
