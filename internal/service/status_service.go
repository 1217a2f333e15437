package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/boardpulse/boardpulse/internal/models"
	"github.com/boardpulse/boardpulse/internal/repository"
)

// TaskStatusService defines the interface for board column operations.
type TaskStatusService interface {
	Create(ctx context.Context, projectID uuid.UUID, name string, actorID *uuid.UUID) (*models.TaskStatus, error)
	Rename(ctx context.Context, id uuid.UUID, name string, actorID *uuid.UUID) (*models.TaskStatus, error)
	GetByProject(ctx context.Context, projectID uuid.UUID) ([]*models.TaskStatus, error)
	Reorder(ctx context.Context, projectID uuid.UUID, orderedIDs []uuid.UUID, actorID *uuid.UUID) ([]uuid.UUID, error)
	Delete(ctx context.Context, id uuid.UUID, actorID *uuid.UUID) error
	TaskCountByStatus(ctx context.Context, projectID *uuid.UUID) ([]*models.StatusTaskCount, error)
}

type taskStatusService struct {
	statuses   repository.TaskStatusRepository
	activities ActivityService
	logger     *slog.Logger
}

// NewTaskStatusService creates a new task status service.
func NewTaskStatusService(statuses repository.TaskStatusRepository, activities ActivityService, logger *slog.Logger) TaskStatusService {
	return &taskStatusService{
		statuses:   statuses,
		activities: activities,
		logger:     logger,
	}
}

// Create appends a new column at the end of the project's board. The order
// value is derived from a fresh read inside the insert transaction, so
// sequential creates always yield the dense sequence 1..n.
func (s *taskStatusService) Create(ctx context.Context, projectID uuid.UUID, name string, actorID *uuid.UUID) (*models.TaskStatus, error) {
	status, err := s.statuses.CreateForProject(ctx, projectID, name)
	if err != nil {
		return nil, err
	}

	recordOrLog(ctx, s.activities, s.logger, RecordActivityInput{
		ProjectID: &projectID,
		UserID:    actorID,
		Type:      models.ActivityTaskStatusCreated,
		Metadata:  map[string]any{"status_id": status.ID.String(), "name": status.Name},
	})
	return status, nil
}

// Rename changes a column's display name.
func (s *taskStatusService) Rename(ctx context.Context, id uuid.UUID, name string, actorID *uuid.UUID) (*models.TaskStatus, error) {
	status, err := s.statuses.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if status == nil {
		return nil, nil
	}

	if err := s.statuses.UpdateName(ctx, id, name); err != nil {
		return nil, err
	}
	status.Name = name

	recordOrLog(ctx, s.activities, s.logger, RecordActivityInput{
		ProjectID: status.ProjectID,
		UserID:    actorID,
		Type:      models.ActivityTaskStatusUpdated,
		Metadata:  map[string]any{"status_id": id.String(), "name": name},
	})
	return status, nil
}

// GetByProject returns a project's columns in board order.
func (s *taskStatusService) GetByProject(ctx context.Context, projectID uuid.UUID) ([]*models.TaskStatus, error) {
	return s.statuses.GetByProject(ctx, projectID)
}

// Reorder applies a caller-supplied column permutation. The input is
// normalized before anything is written: duplicates keep their first
// occurrence, ids not belonging to the project are dropped, and project
// columns omitted from the input are appended in their existing relative
// order. The final permutation therefore always covers exactly the project's
// columns, and orders 1..n are assigned in one transaction. Returns the final
// id order as applied; an empty permutation is a no-op.
func (s *taskStatusService) Reorder(ctx context.Context, projectID uuid.UUID, orderedIDs []uuid.UUID, actorID *uuid.UUID) ([]uuid.UUID, error) {
	current, err := s.statuses.GetByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	belonging := make(map[uuid.UUID]bool, len(current))
	for _, status := range current {
		belonging[status.ID] = true
	}

	final := make([]uuid.UUID, 0, len(current))
	seen := make(map[uuid.UUID]bool, len(current))
	for _, id := range orderedIDs {
		if !belonging[id] || seen[id] {
			continue
		}
		seen[id] = true
		final = append(final, id)
	}
	for _, status := range current {
		if !seen[status.ID] {
			final = append(final, status.ID)
		}
	}

	if len(final) == 0 {
		return []uuid.UUID{}, nil
	}

	if err := s.statuses.UpdateOrders(ctx, final); err != nil {
		return nil, err
	}

	recordOrLog(ctx, s.activities, s.logger, RecordActivityInput{
		ProjectID: &projectID,
		UserID:    actorID,
		Type:      models.ActivityTaskStatusReordered,
		Metadata:  map[string]any{"count": len(final)},
	})
	return final, nil
}

// Delete removes a column. Tasks still pointing at it keep their dangling
// reference and remaining orders are not compacted.
func (s *taskStatusService) Delete(ctx context.Context, id uuid.UUID, actorID *uuid.UUID) error {
	status, err := s.statuses.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if status == nil {
		return nil
	}

	if err := s.statuses.Delete(ctx, id); err != nil {
		return err
	}

	recordOrLog(ctx, s.activities, s.logger, RecordActivityInput{
		ProjectID: status.ProjectID,
		UserID:    actorID,
		Type:      models.ActivityTaskStatusDeleted,
		Metadata:  map[string]any{"status_id": id.String(), "name": status.Name},
	})
	return nil
}

// TaskCountByStatus tallies tasks per column, optionally project-scoped.
func (s *taskStatusService) TaskCountByStatus(ctx context.Context, projectID *uuid.UUID) ([]*models.StatusTaskCount, error) {
	return s.statuses.TaskCountByStatus(ctx, projectID)
}
