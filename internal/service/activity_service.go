// Package service provides business logic implementations.
package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/boardpulse/boardpulse/internal/middleware"
	"github.com/boardpulse/boardpulse/internal/models"
	"github.com/boardpulse/boardpulse/internal/pkg/ulid"
	"github.com/boardpulse/boardpulse/internal/repository"
)

// Default projection limits.
const (
	defaultActivityLimit = 50
	defaultRecentLimit   = 10
	defaultFeedLimit     = 20
)

// RecordActivityInput describes one ledger event. ProjectID and UserID are
// both required for the event to be persisted; Record silently drops the
// event otherwise.
type RecordActivityInput struct {
	ProjectID   *uuid.UUID
	TaskID      *uuid.UUID
	UserID      *uuid.UUID
	Type        string
	Description *string
	Metadata    map[string]any
}

// ActivityService defines the interface for the append-only event ledger.
type ActivityService interface {
	Record(ctx context.Context, input RecordActivityInput) error
	GetByProject(ctx context.Context, projectID uuid.UUID, limit int) ([]*models.Activity, error)
	GetByTask(ctx context.Context, taskID uuid.UUID, limit int) ([]*models.Activity, error)
	GetRecentForUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.ActivityWithContext, error)
	GetDailyActivity(ctx context.Context, projectID *uuid.UUID) ([]*models.DailyActivityCount, error)
	GetHeatmap(ctx context.Context) ([]*models.HeatmapCell, error)
	GetCountPerUser(ctx context.Context) ([]*models.UserActivityCount, error)
	GetRealTimeFeed(ctx context.Context, limit int) ([]*models.ActivityWithContext, error)
	GetTrends(ctx context.Context) ([]*models.ActivityTrendPoint, error)
}

type activityService struct {
	activities repository.ActivityRepository
	logger     *slog.Logger
	now        func() time.Time
}

// NewActivityService creates a new activity service.
func NewActivityService(activities repository.ActivityRepository, logger *slog.Logger) ActivityService {
	return &activityService{
		activities: activities,
		logger:     logger,
		now:        time.Now,
	}
}

// Record appends one event to the ledger. Events missing a project or user
// are dropped without error; callers are expected to pre-filter but the
// ledger is defensive.
func (s *activityService) Record(ctx context.Context, input RecordActivityInput) error {
	if input.ProjectID == nil || input.UserID == nil {
		return nil
	}

	activity := &models.Activity{
		ID:          ulid.New(),
		ProjectID:   *input.ProjectID,
		TaskID:      input.TaskID,
		UserID:      *input.UserID,
		Type:        input.Type,
		Description: input.Description,
		CreatedAt:   s.now(),
	}

	if input.Metadata != nil {
		raw, err := json.Marshal(input.Metadata)
		if err != nil {
			return err
		}
		serialized := string(raw)
		activity.Metadata = &serialized
	}

	if err := s.activities.Create(ctx, activity); err != nil {
		return err
	}
	middleware.RecordActivityEvent(activity.Type)
	return nil
}

// GetByProject returns a project's most recent activity.
func (s *activityService) GetByProject(ctx context.Context, projectID uuid.UUID, limit int) ([]*models.Activity, error) {
	if limit < 1 {
		limit = defaultActivityLimit
	}
	return s.activities.GetByProject(ctx, projectID, limit)
}

// GetByTask returns a task's most recent activity.
func (s *activityService) GetByTask(ctx context.Context, taskID uuid.UUID, limit int) ([]*models.Activity, error) {
	if limit < 1 {
		limit = defaultActivityLimit
	}
	return s.activities.GetByTask(ctx, taskID, limit)
}

// GetRecentForUser returns recent activity across the user's projects.
func (s *activityService) GetRecentForUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.ActivityWithContext, error) {
	if limit < 1 {
		limit = defaultRecentLimit
	}
	return s.activities.GetRecentForUser(ctx, userID, limit)
}

// GetDailyActivity buckets a project's activity by calendar day. A missing
// project yields an empty result, not a global rollup.
func (s *activityService) GetDailyActivity(ctx context.Context, projectID *uuid.UUID) ([]*models.DailyActivityCount, error) {
	if projectID == nil {
		return []*models.DailyActivityCount{}, nil
	}
	return s.activities.GetDailyActivity(ctx, *projectID)
}

// GetHeatmap returns the global (day, hour) activity grid for the trailing 90
// days.
func (s *activityService) GetHeatmap(ctx context.Context) ([]*models.HeatmapCell, error) {
	return s.activities.GetHeatmap(ctx)
}

// GetCountPerUser returns the global per-user activity tally.
func (s *activityService) GetCountPerUser(ctx context.Context) ([]*models.UserActivityCount, error) {
	return s.activities.GetCountPerUser(ctx)
}

// GetRealTimeFeed returns the most recent activity globally with author and
// project context.
func (s *activityService) GetRealTimeFeed(ctx context.Context, limit int) ([]*models.ActivityWithContext, error) {
	if limit < 1 {
		limit = defaultFeedLimit
	}
	return s.activities.GetRealTimeFeed(ctx, limit)
}

// GetTrends returns the trailing 30-day (day, type) activity buckets.
func (s *activityService) GetTrends(ctx context.Context) ([]*models.ActivityTrendPoint, error) {
	return s.activities.GetTrends(ctx)
}
