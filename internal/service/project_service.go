package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/boardpulse/boardpulse/internal/models"
	apierrors "github.com/boardpulse/boardpulse/internal/pkg/errors"
	"github.com/boardpulse/boardpulse/internal/repository"
)

// ProjectService defines the interface for project operations.
type ProjectService interface {
	Create(ctx context.Context, project *models.Project) (*models.Project, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Project, error)
	GetBySlug(ctx context.Context, slug string) (*models.Project, error)
	List(ctx context.Context) ([]*models.Project, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*models.Project, error)
	Update(ctx context.Context, project *models.Project) (*models.Project, error)
	DeleteCascade(ctx context.Context, id uuid.UUID) error
	AddMember(ctx context.Context, projectID, userID uuid.UUID) error
	RemoveMember(ctx context.Context, projectID, userID uuid.UUID) error
	TaskCountPerProject(ctx context.Context) ([]*models.ProjectTaskCount, error)
}

type projectService struct {
	projects repository.ProjectRepository
	logger   *slog.Logger
}

// NewProjectService creates a new project service.
func NewProjectService(projects repository.ProjectRepository, logger *slog.Logger) ProjectService {
	return &projectService{projects: projects, logger: logger}
}

// Create inserts a new project.
func (s *projectService) Create(ctx context.Context, project *models.Project) (*models.Project, error) {
	if project.Name == "" {
		return nil, apierrors.NewValidationError("name", "name is required")
	}
	if err := s.projects.Create(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

// Get retrieves a project by id. Returns nil when not found.
func (s *projectService) Get(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	return s.projects.GetByID(ctx, id)
}

// GetBySlug retrieves a project by slug. Returns nil when not found.
func (s *projectService) GetBySlug(ctx context.Context, slug string) (*models.Project, error) {
	return s.projects.GetBySlug(ctx, slug)
}

// List retrieves all projects.
func (s *projectService) List(ctx context.Context) ([]*models.Project, error) {
	return s.projects.List(ctx)
}

// ListForUser retrieves the projects the user is a member of.
func (s *projectService) ListForUser(ctx context.Context, userID uuid.UUID) ([]*models.Project, error) {
	return s.projects.ListForUser(ctx, userID)
}

// Update modifies a project.
func (s *projectService) Update(ctx context.Context, project *models.Project) (*models.Project, error) {
	existing, err := s.projects.GetByID(ctx, project.ID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, apierrors.NewNotFoundError("Project")
	}
	if err := s.projects.Update(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

// DeleteCascade removes a project together with its statuses, tasks, comments
// and membership rows in one atomic unit. Activity rows are kept.
func (s *projectService) DeleteCascade(ctx context.Context, id uuid.UUID) error {
	existing, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return apierrors.NewNotFoundError("Project")
	}

	if err := s.projects.DeleteCascade(ctx, id); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "project deleted",
		"project_id", id,
		"name", existing.Name,
	)
	return nil
}

// AddMember links a user to a project.
func (s *projectService) AddMember(ctx context.Context, projectID, userID uuid.UUID) error {
	return s.projects.AddMember(ctx, projectID, userID)
}

// RemoveMember unlinks a user from a project.
func (s *projectService) RemoveMember(ctx context.Context, projectID, userID uuid.UUID) error {
	return s.projects.RemoveMember(ctx, projectID, userID)
}

// TaskCountPerProject tallies tasks per project.
func (s *projectService) TaskCountPerProject(ctx context.Context) ([]*models.ProjectTaskCount, error) {
	return s.projects.TaskCountPerProject(ctx)
}
