package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/boardpulse/boardpulse/internal/database"
	"github.com/boardpulse/boardpulse/internal/models"
)

// ProjectRepository defines the interface for project data operations.
type ProjectRepository interface {
	Create(ctx context.Context, project *models.Project) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error)
	GetBySlug(ctx context.Context, slug string) (*models.Project, error)
	List(ctx context.Context) ([]*models.Project, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*models.Project, error)
	Update(ctx context.Context, project *models.Project) error
	DeleteCascade(ctx context.Context, id uuid.UUID) error
	AddMember(ctx context.Context, projectID, userID uuid.UUID) error
	RemoveMember(ctx context.Context, projectID, userID uuid.UUID) error
	TaskCountPerProject(ctx context.Context) ([]*models.ProjectTaskCount, error)
}

type projectRepo struct {
	db database.DB
}

// NewProjectRepository creates a new project repository.
func NewProjectRepository(db database.DB) ProjectRepository {
	return &projectRepo{db: db}
}

// Create inserts a new project.
func (r *projectRepo) Create(ctx context.Context, project *models.Project) error {
	if project.ID == uuid.Nil {
		project.ID = uuid.New()
	}

	_, err := r.db.Exec(ctx,
		`INSERT INTO projects (id, name, description, slug, organization_id, is_public)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		project.ID, project.Name, project.Description, project.Slug,
		project.OrganizationID, project.IsPublic,
	)
	return err
}

// GetByID retrieves a project by its UUID.
func (r *projectRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	return r.getOne(ctx, `SELECT id, name, description, slug, organization_id, is_public FROM projects WHERE id = $1`, id)
}

// GetBySlug retrieves a project by its unique slug.
func (r *projectRepo) GetBySlug(ctx context.Context, slug string) (*models.Project, error) {
	return r.getOne(ctx, `SELECT id, name, description, slug, organization_id, is_public FROM projects WHERE slug = $1`, slug)
}

func (r *projectRepo) getOne(ctx context.Context, query string, arg any) (*models.Project, error) {
	var project models.Project
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&project.ID,
		&project.Name,
		&project.Description,
		&project.Slug,
		&project.OrganizationID,
		&project.IsPublic,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// List retrieves all projects.
func (r *projectRepo) List(ctx context.Context) ([]*models.Project, error) {
	query := `SELECT id, name, description, slug, organization_id, is_public FROM projects ORDER BY name ASC`
	return r.list(ctx, query)
}

// ListForUser retrieves projects the user is a member of.
func (r *projectRepo) ListForUser(ctx context.Context, userID uuid.UUID) ([]*models.Project, error) {
	query := `
		SELECT p.id, p.name, p.description, p.slug, p.organization_id, p.is_public
		FROM projects p
		JOIN project_members pm ON pm.project_id = p.id
		WHERE pm.user_id = $1
		ORDER BY p.name ASC`
	return r.list(ctx, query, userID)
}

func (r *projectRepo) list(ctx context.Context, query string, args ...any) ([]*models.Project, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []*models.Project
	for rows.Next() {
		var p models.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Slug, &p.OrganizationID, &p.IsPublic); err != nil {
			return nil, err
		}
		projects = append(projects, &p)
	}
	return projects, rows.Err()
}

// Update modifies a project's mutable fields.
func (r *projectRepo) Update(ctx context.Context, project *models.Project) error {
	_, err := r.db.Exec(ctx,
		`UPDATE projects SET name = $2, description = $3, slug = $4, is_public = $5 WHERE id = $1`,
		project.ID, project.Name, project.Description, project.Slug, project.IsPublic,
	)
	return err
}

// DeleteCascade removes a project and everything transitively owned by it in
// one transaction: comments under its tasks, the tasks, the statuses, the
// membership rows, then the project itself. Activity rows referencing the
// project are intentionally kept as an audit trail.
func (r *projectRepo) DeleteCascade(ctx context.Context, id uuid.UUID) error {
	return r.db.InTx(ctx, func(q database.Querier) error {
		rows, err := q.Query(ctx, `SELECT id FROM tasks WHERE project_id = $1`, id)
		if err != nil {
			return err
		}
		var taskIDs []uuid.UUID
		for rows.Next() {
			var taskID uuid.UUID
			if err := rows.Scan(&taskID); err != nil {
				rows.Close()
				return err
			}
			taskIDs = append(taskIDs, taskID)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}

		if len(taskIDs) > 0 {
			if _, err := q.Exec(ctx, `DELETE FROM task_comments WHERE task_id = ANY($1)`, taskIDs); err != nil {
				return err
			}
		}
		if _, err := q.Exec(ctx, `DELETE FROM tasks WHERE project_id = $1`, id); err != nil {
			return err
		}
		if _, err := q.Exec(ctx, `DELETE FROM task_statuses WHERE project_id = $1`, id); err != nil {
			return err
		}
		if _, err := q.Exec(ctx, `DELETE FROM project_members WHERE project_id = $1`, id); err != nil {
			return err
		}
		if _, err := q.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id); err != nil {
			return err
		}
		return nil
	})
}

// AddMember links a user to a project.
func (r *projectRepo) AddMember(ctx context.Context, projectID, userID uuid.UUID) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO project_members (project_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		projectID, userID,
	)
	return err
}

// RemoveMember unlinks a user from a project.
func (r *projectRepo) RemoveMember(ctx context.Context, projectID, userID uuid.UUID) error {
	_, err := r.db.Exec(ctx,
		`DELETE FROM project_members WHERE project_id = $1 AND user_id = $2`,
		projectID, userID,
	)
	return err
}

// TaskCountPerProject tallies tasks per project, busiest first.
func (r *projectRepo) TaskCountPerProject(ctx context.Context) ([]*models.ProjectTaskCount, error) {
	query := `
		SELECT p.id, p.name, COUNT(t.id)
		FROM projects p
		LEFT JOIN tasks t ON t.project_id = p.id
		GROUP BY p.id, p.name
		ORDER BY COUNT(t.id) DESC, p.name ASC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []*models.ProjectTaskCount
	for rows.Next() {
		var c models.ProjectTaskCount
		if err := rows.Scan(&c.ProjectID, &c.ProjectName, &c.TaskCount); err != nil {
			return nil, err
		}
		counts = append(counts, &c)
	}
	return counts, rows.Err()
}
