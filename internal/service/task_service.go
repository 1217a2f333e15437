package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/boardpulse/boardpulse/internal/models"
	apierrors "github.com/boardpulse/boardpulse/internal/pkg/errors"
	"github.com/boardpulse/boardpulse/internal/repository"
)

// TaskService defines the interface for task, comment, and velocity
// operations.
type TaskService interface {
	Create(ctx context.Context, task *models.Task, actorID *uuid.UUID) (*models.Task, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Task, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*models.Task, error)
	ListByAssignee(ctx context.Context, assigneeID uuid.UUID) ([]*models.Task, error)
	Update(ctx context.Context, task *models.Task, actorID *uuid.UUID) (*models.Task, error)
	Delete(ctx context.Context, id uuid.UUID, actorID *uuid.UUID) error

	AddComment(ctx context.Context, comment *models.TaskComment) (*models.TaskComment, error)
	ListComments(ctx context.Context, taskID uuid.UUID) ([]*models.TaskComment, error)
	DeleteComment(ctx context.Context, id uuid.UUID, actorID *uuid.UUID) error

	Velocity(ctx context.Context) ([]*models.TaskVelocityPoint, error)
	CompletionRate(ctx context.Context) ([]*models.TaskCompletionRate, error)
	StatusMetrics(ctx context.Context) ([]*models.TaskStatusMetric, error)
}

type taskService struct {
	tasks      repository.TaskRepository
	activities ActivityService
	logger     *slog.Logger
}

// NewTaskService creates a new task service.
func NewTaskService(tasks repository.TaskRepository, activities ActivityService, logger *slog.Logger) TaskService {
	return &taskService{
		tasks:      tasks,
		activities: activities,
		logger:     logger,
	}
}

// Create inserts a new task and records a TASK_CREATED event.
func (s *taskService) Create(ctx context.Context, task *models.Task, actorID *uuid.UUID) (*models.Task, error) {
	if task.Name == "" {
		return nil, apierrors.NewValidationError("name", "name is required")
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}

	recordOrLog(ctx, s.activities, s.logger, RecordActivityInput{
		ProjectID: task.ProjectID,
		TaskID:    &task.ID,
		UserID:    actorID,
		Type:      models.ActivityTaskCreated,
		Metadata:  map[string]any{"name": task.Name},
	})
	return task, nil
}

// Get retrieves a task by id. Returns nil when not found.
func (s *taskService) Get(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	return s.tasks.GetByID(ctx, id)
}

// ListByProject retrieves a project's tasks.
func (s *taskService) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*models.Task, error) {
	return s.tasks.ListByProject(ctx, projectID)
}

// ListByAssignee retrieves a user's assigned tasks.
func (s *taskService) ListByAssignee(ctx context.Context, assigneeID uuid.UUID) ([]*models.Task, error) {
	return s.tasks.ListByAssignee(ctx, assigneeID)
}

// Update modifies a task. A status change records TASK_STATUS_CHANGED in
// addition to TASK_UPDATED; the former feeds the velocity metric.
func (s *taskService) Update(ctx context.Context, task *models.Task, actorID *uuid.UUID) (*models.Task, error) {
	existing, err := s.tasks.GetByID(ctx, task.ID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, apierrors.NewNotFoundError("Task")
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, err
	}

	if statusChanged(existing.StatusID, task.StatusID) {
		metadata := map[string]any{}
		if existing.StatusID != nil {
			metadata["from"] = existing.StatusID.String()
		}
		if task.StatusID != nil {
			metadata["to"] = task.StatusID.String()
		}
		recordOrLog(ctx, s.activities, s.logger, RecordActivityInput{
			ProjectID: existing.ProjectID,
			TaskID:    &task.ID,
			UserID:    actorID,
			Type:      models.ActivityTaskStatusChanged,
			Metadata:  metadata,
		})
	} else {
		recordOrLog(ctx, s.activities, s.logger, RecordActivityInput{
			ProjectID: existing.ProjectID,
			TaskID:    &task.ID,
			UserID:    actorID,
			Type:      models.ActivityTaskUpdated,
			Metadata:  map[string]any{"name": task.Name},
		})
	}
	return task, nil
}

func statusChanged(before, after *uuid.UUID) bool {
	if before == nil && after == nil {
		return false
	}
	if before == nil || after == nil {
		return true
	}
	return *before != *after
}

// Delete removes a task and its comments, recording TASK_DELETED.
func (s *taskService) Delete(ctx context.Context, id uuid.UUID, actorID *uuid.UUID) error {
	existing, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return nil
	}

	if err := s.tasks.Delete(ctx, id); err != nil {
		return err
	}

	recordOrLog(ctx, s.activities, s.logger, RecordActivityInput{
		ProjectID: existing.ProjectID,
		TaskID:    &id,
		UserID:    actorID,
		Type:      models.ActivityTaskDeleted,
		Metadata:  map[string]any{"name": existing.Name},
	})
	return nil
}

// AddComment inserts a comment and records TASK_COMMENT_ADDED.
func (s *taskService) AddComment(ctx context.Context, comment *models.TaskComment) (*models.TaskComment, error) {
	if comment.Content == "" {
		return nil, apierrors.NewValidationError("content", "content is required")
	}
	if err := s.tasks.CreateComment(ctx, comment); err != nil {
		return nil, err
	}

	var projectID *uuid.UUID
	if comment.TaskID != nil {
		task, err := s.tasks.GetByID(ctx, *comment.TaskID)
		if err == nil && task != nil {
			projectID = task.ProjectID
		}
	}
	recordOrLog(ctx, s.activities, s.logger, RecordActivityInput{
		ProjectID: projectID,
		TaskID:    comment.TaskID,
		UserID:    comment.UserID,
		Type:      models.ActivityTaskCommentAdded,
	})
	return comment, nil
}

// ListComments retrieves a task's comments.
func (s *taskService) ListComments(ctx context.Context, taskID uuid.UUID) ([]*models.TaskComment, error) {
	return s.tasks.ListCommentsByTask(ctx, taskID)
}

// DeleteComment removes a comment and records TASK_COMMENT_DELETED.
func (s *taskService) DeleteComment(ctx context.Context, id uuid.UUID, actorID *uuid.UUID) error {
	comment, err := s.tasks.GetCommentByID(ctx, id)
	if err != nil {
		return err
	}
	if comment == nil {
		return nil
	}

	if err := s.tasks.DeleteComment(ctx, id); err != nil {
		return err
	}

	var projectID *uuid.UUID
	if comment.TaskID != nil {
		task, err := s.tasks.GetByID(ctx, *comment.TaskID)
		if err == nil && task != nil {
			projectID = task.ProjectID
		}
	}
	recordOrLog(ctx, s.activities, s.logger, RecordActivityInput{
		ProjectID: projectID,
		TaskID:    comment.TaskID,
		UserID:    actorID,
		Type:      models.ActivityTaskCommentDeleted,
	})
	return nil
}

// Velocity reports daily created vs completed counts over the trailing month.
func (s *taskService) Velocity(ctx context.Context) ([]*models.TaskVelocityPoint, error) {
	return s.tasks.GetVelocity(ctx)
}

// CompletionRate reports monthly completion ratios over the trailing year.
func (s *taskService) CompletionRate(ctx context.Context) ([]*models.TaskCompletionRate, error) {
	return s.tasks.GetCompletionRate(ctx)
}

// StatusMetrics reports per-column counts and average completion age.
func (s *taskService) StatusMetrics(ctx context.Context) ([]*models.TaskStatusMetric, error) {
	return s.tasks.GetStatusMetrics(ctx)
}
