package service

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/boardpulse/boardpulse/internal/models"
	"github.com/boardpulse/boardpulse/internal/repository"
)

// Churn classification thresholds in days since last activity.
const (
	churnHighThresholdDays   = 30
	churnMediumThresholdDays = 14
)

// EngagementService defines the interface for user engagement and cohort
// analytics.
type EngagementService interface {
	UserJourneyFunnel(ctx context.Context) ([]*models.FunnelStage, error)
	RetentionByCohort(ctx context.Context) ([]*models.RetentionCohort, error)
	ChurnRisk(ctx context.Context) ([]*models.ChurnRiskEntry, error)
	MembershipDistribution(ctx context.Context) ([]*models.MembershipCount, error)
	UpgradeConversions(ctx context.Context) ([]*models.UpgradeConversion, error)
}

type engagementService struct {
	memberships repository.MembershipRepository
	logger      *slog.Logger
	now         func() time.Time
}

// NewEngagementService creates a new engagement service.
func NewEngagementService(memberships repository.MembershipRepository, logger *slog.Logger) EngagementService {
	return &engagementService{
		memberships: memberships,
		logger:      logger,
		now:         time.Now,
	}
}

// UserJourneyFunnel reports the four fixed journey stages with each stage's
// share of the total user count. All percentages are 0 when there are no
// users.
func (s *engagementService) UserJourneyFunnel(ctx context.Context) ([]*models.FunnelStage, error) {
	counts, err := s.memberships.GetFunnelCounts(ctx)
	if err != nil {
		return nil, err
	}

	percentage := func(count int) float64 {
		if counts.TotalUsers == 0 {
			return 0
		}
		return round2(100 * float64(count) / float64(counts.TotalUsers))
	}

	return []*models.FunnelStage{
		{Stage: "Total Users", Count: counts.TotalUsers, Percentage: percentage(counts.TotalUsers)},
		{Stage: "Created Project", Count: counts.ProjectCreators, Percentage: percentage(counts.ProjectCreators)},
		{Stage: "Added Tasks", Count: counts.TaskAssignees, Percentage: percentage(counts.TaskAssignees)},
		{Stage: "Active in Team", Count: counts.ActiveInTeam, Percentage: percentage(counts.ActiveInTeam)},
	}, nil
}

// RetentionByCohort groups users by signup month over the trailing year and
// reports each cohort's share active in the trailing 30 days.
func (s *engagementService) RetentionByCohort(ctx context.Context) ([]*models.RetentionCohort, error) {
	rows, err := s.memberships.GetRetentionCohorts(ctx)
	if err != nil {
		return nil, err
	}

	cohorts := make([]*models.RetentionCohort, 0, len(rows))
	for _, row := range rows {
		cohort := &models.RetentionCohort{
			CohortMonth: row.CohortMonth,
			TotalUsers:  row.TotalUsers,
			ActiveUsers: row.ActiveUsers,
		}
		if row.TotalUsers > 0 {
			cohort.RetentionRate = round2(100 * float64(row.ActiveUsers) / float64(row.TotalUsers))
		}
		cohorts = append(cohorts, cohort)
	}
	return cohorts, nil
}

// ChurnRisk classifies every active member by how long ago they were last
// seen, oldest activity first.
func (s *engagementService) ChurnRisk(ctx context.Context) ([]*models.ChurnRiskEntry, error) {
	rows, err := s.memberships.GetChurnRiskRows(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	entries := make([]*models.ChurnRiskEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, &models.ChurnRiskEntry{
			UserID:           row.UserID,
			Username:         row.Username,
			Email:            row.Email,
			MembershipType:   row.MembershipType,
			LastActivityDate: row.LastActivityDate,
			RiskLevel:        classifyChurnRisk(row.LastActivityDate, now),
		})
	}
	return entries, nil
}

// classifyChurnRisk maps recency of last activity to a risk level: more than
// 30 days is high, more than 14 is medium, anything else is low.
func classifyChurnRisk(lastActivity, now time.Time) models.ChurnRiskLevel {
	inactive := now.Sub(lastActivity)
	switch {
	case inactive > churnHighThresholdDays*24*time.Hour:
		return models.ChurnRiskHigh
	case inactive > churnMediumThresholdDays*24*time.Hour:
		return models.ChurnRiskMedium
	default:
		return models.ChurnRiskLow
	}
}

// MembershipDistribution tallies active memberships per plan.
func (s *engagementService) MembershipDistribution(ctx context.Context) ([]*models.MembershipCount, error) {
	return s.memberships.GetDistribution(ctx)
}

// UpgradeConversions counts paid-plan starts per month and plan.
func (s *engagementService) UpgradeConversions(ctx context.Context) ([]*models.UpgradeConversion, error) {
	return s.memberships.GetUpgradeConversions(ctx)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
