package service

import (
	"context"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/boardpulse/boardpulse/internal/models"
	"github.com/boardpulse/boardpulse/internal/repository"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// --- Ledger spy ---

// ledgerSpy records every event a service emits so tests can assert on the
// fire-and-forget ledger writes without a real activity pipeline.
type ledgerSpy struct {
	inputs []RecordActivityInput
	err    error
}

func (l *ledgerSpy) Record(ctx context.Context, input RecordActivityInput) error {
	if l.err != nil {
		return l.err
	}
	if input.ProjectID == nil || input.UserID == nil {
		return nil
	}
	l.inputs = append(l.inputs, input)
	return nil
}

func (l *ledgerSpy) GetByProject(ctx context.Context, projectID uuid.UUID, limit int) ([]*models.Activity, error) {
	return nil, nil
}

func (l *ledgerSpy) GetByTask(ctx context.Context, taskID uuid.UUID, limit int) ([]*models.Activity, error) {
	return nil, nil
}

func (l *ledgerSpy) GetRecentForUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.ActivityWithContext, error) {
	return nil, nil
}

func (l *ledgerSpy) GetDailyActivity(ctx context.Context, projectID *uuid.UUID) ([]*models.DailyActivityCount, error) {
	return nil, nil
}

func (l *ledgerSpy) GetHeatmap(ctx context.Context) ([]*models.HeatmapCell, error) {
	return nil, nil
}

func (l *ledgerSpy) GetCountPerUser(ctx context.Context) ([]*models.UserActivityCount, error) {
	return nil, nil
}

func (l *ledgerSpy) GetRealTimeFeed(ctx context.Context, limit int) ([]*models.ActivityWithContext, error) {
	return nil, nil
}

func (l *ledgerSpy) GetTrends(ctx context.Context) ([]*models.ActivityTrendPoint, error) {
	return nil, nil
}

var _ ActivityService = (*ledgerSpy)(nil)

// --- Mock activity repository ---

type mockActivityRepo struct {
	activities []*models.Activity
	lastLimit  int
	createErr  error
}

func newMockActivityRepo() *mockActivityRepo {
	return &mockActivityRepo{}
}

func (m *mockActivityRepo) Create(ctx context.Context, activity *models.Activity) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.activities = append(m.activities, activity)
	return nil
}

func (m *mockActivityRepo) GetByProject(ctx context.Context, projectID uuid.UUID, limit int) ([]*models.Activity, error) {
	m.lastLimit = limit
	var result []*models.Activity
	for _, a := range m.activities {
		if a.ProjectID == projectID {
			result = append(result, a)
		}
	}
	return result, nil
}

func (m *mockActivityRepo) GetByTask(ctx context.Context, taskID uuid.UUID, limit int) ([]*models.Activity, error) {
	m.lastLimit = limit
	var result []*models.Activity
	for _, a := range m.activities {
		if a.TaskID != nil && *a.TaskID == taskID {
			result = append(result, a)
		}
	}
	return result, nil
}

func (m *mockActivityRepo) GetRecentForUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.ActivityWithContext, error) {
	m.lastLimit = limit
	return nil, nil
}

func (m *mockActivityRepo) GetDailyActivity(ctx context.Context, projectID uuid.UUID) ([]*models.DailyActivityCount, error) {
	counts := make(map[string]int)
	for _, a := range m.activities {
		if a.ProjectID == projectID {
			counts[a.CreatedAt.Format("2006-01-02")]++
		}
	}
	var result []*models.DailyActivityCount
	for date, count := range counts {
		result = append(result, &models.DailyActivityCount{Date: date, Count: count})
	}
	return result, nil
}

func (m *mockActivityRepo) GetHeatmap(ctx context.Context) ([]*models.HeatmapCell, error) {
	return nil, nil
}

func (m *mockActivityRepo) GetCountPerUser(ctx context.Context) ([]*models.UserActivityCount, error) {
	return nil, nil
}

func (m *mockActivityRepo) GetRealTimeFeed(ctx context.Context, limit int) ([]*models.ActivityWithContext, error) {
	m.lastLimit = limit
	return nil, nil
}

func (m *mockActivityRepo) GetTrends(ctx context.Context) ([]*models.ActivityTrendPoint, error) {
	return nil, nil
}

var _ repository.ActivityRepository = (*mockActivityRepo)(nil)

// --- Mock task status repository ---

type mockStatusRepo struct {
	statuses   []*models.TaskStatus
	lastOrders []uuid.UUID
	ordersSet  int
}

func newMockStatusRepo() *mockStatusRepo {
	return &mockStatusRepo{}
}

func (m *mockStatusRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.TaskStatus, error) {
	for _, s := range m.statuses {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, nil
}

func (m *mockStatusRepo) GetByProject(ctx context.Context, projectID uuid.UUID) ([]*models.TaskStatus, error) {
	var result []*models.TaskStatus
	for _, s := range m.statuses {
		if s.ProjectID != nil && *s.ProjectID == projectID {
			result = append(result, s)
		}
	}
	return result, nil
}

func (m *mockStatusRepo) CreateForProject(ctx context.Context, projectID uuid.UUID, name string) (*models.TaskStatus, error) {
	maxOrder := 0
	for _, s := range m.statuses {
		if s.ProjectID != nil && *s.ProjectID == projectID && s.Order > maxOrder {
			maxOrder = s.Order
		}
	}
	status := &models.TaskStatus{
		ID:        uuid.New(),
		Name:      name,
		Order:     maxOrder + 1,
		ProjectID: &projectID,
	}
	m.statuses = append(m.statuses, status)
	return status, nil
}

func (m *mockStatusRepo) UpdateName(ctx context.Context, id uuid.UUID, name string) error {
	for _, s := range m.statuses {
		if s.ID == id {
			s.Name = name
		}
	}
	return nil
}

func (m *mockStatusRepo) UpdateOrders(ctx context.Context, orderedIDs []uuid.UUID) error {
	m.ordersSet++
	m.lastOrders = orderedIDs
	for i, id := range orderedIDs {
		for _, s := range m.statuses {
			if s.ID == id {
				s.Order = i + 1
			}
		}
	}
	return nil
}

func (m *mockStatusRepo) Delete(ctx context.Context, id uuid.UUID) error {
	for i, s := range m.statuses {
		if s.ID == id {
			m.statuses = append(m.statuses[:i], m.statuses[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *mockStatusRepo) TaskCountByStatus(ctx context.Context, projectID *uuid.UUID) ([]*models.StatusTaskCount, error) {
	return nil, nil
}

var _ repository.TaskStatusRepository = (*mockStatusRepo)(nil)

// --- Mock payment repository ---

type mockPaymentRepo struct {
	payments       map[uuid.UUID]*models.Payment
	snapshot       *models.DashboardSnapshot
	summary        models.RevenueSummary
	dashboardCalls int
	lastParams     repository.DashboardParams
}

func newMockPaymentRepo() *mockPaymentRepo {
	return &mockPaymentRepo{
		payments: make(map[uuid.UUID]*models.Payment),
		snapshot: &models.DashboardSnapshot{RevenueSummary: models.EmptyRevenueSummary()},
		summary:  models.EmptyRevenueSummary(),
	}
}

func (m *mockPaymentRepo) Create(ctx context.Context, payment *models.Payment) error {
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	m.payments[payment.ID] = payment
	return nil
}

func (m *mockPaymentRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	return m.payments[id], nil
}

func (m *mockPaymentRepo) Update(ctx context.Context, payment *models.Payment) error {
	m.payments[payment.ID] = payment
	return nil
}

func (m *mockPaymentRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status models.PaymentStatus, errorCode, errorMessage *string) (*models.Payment, error) {
	payment, ok := m.payments[id]
	if !ok {
		return nil, nil
	}
	payment.Status = status
	payment.ErrorCode = errorCode
	payment.ErrorMessage = errorMessage
	return payment, nil
}

func (m *mockPaymentRepo) AppendMetadata(ctx context.Context, id uuid.UUID, metadata map[string]any) error {
	payment, ok := m.payments[id]
	if !ok {
		return nil
	}
	if payment.Metadata == nil {
		payment.Metadata = make(map[string]any)
	}
	for k, v := range metadata {
		payment.Metadata[k] = v
	}
	return nil
}

func (m *mockPaymentRepo) ListWithGateway(ctx context.Context, limit int) ([]*models.PaymentWithGateway, error) {
	return nil, nil
}

func (m *mockPaymentRepo) GetRevenueSummary(ctx context.Context) (models.RevenueSummary, error) {
	return m.summary, nil
}

func (m *mockPaymentRepo) GetMonthlyRevenue(ctx context.Context, months int) ([]*models.MonthlyRevenue, error) {
	return nil, nil
}

func (m *mockPaymentRepo) GetStatusBreakdown(ctx context.Context, months int) ([]*models.StatusCount, error) {
	return nil, nil
}

func (m *mockPaymentRepo) GetGatewayContribution(ctx context.Context, months int) ([]*models.GatewayContribution, error) {
	return nil, nil
}

func (m *mockPaymentRepo) GetRecentFailures(ctx context.Context, limit int) ([]*models.Payment, error) {
	return nil, nil
}

func (m *mockPaymentRepo) GetDashboard(ctx context.Context, params repository.DashboardParams) (*models.DashboardSnapshot, error) {
	m.dashboardCalls++
	m.lastParams = params
	return m.snapshot, nil
}

var _ repository.PaymentRepository = (*mockPaymentRepo)(nil)

// --- Mock gateway repository ---

type mockGatewayRepo struct {
	gateways    map[uuid.UUID]*models.PaymentGateway
	withHistory map[uuid.UUID]bool
	deleted     []uuid.UUID
}

func newMockGatewayRepo() *mockGatewayRepo {
	return &mockGatewayRepo{
		gateways:    make(map[uuid.UUID]*models.PaymentGateway),
		withHistory: make(map[uuid.UUID]bool),
	}
}

func (m *mockGatewayRepo) Create(ctx context.Context, gateway *models.PaymentGateway) error {
	if gateway.ID == uuid.Nil {
		gateway.ID = uuid.New()
	}
	m.gateways[gateway.ID] = gateway
	return nil
}

func (m *mockGatewayRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.PaymentGateway, error) {
	return m.gateways[id], nil
}

func (m *mockGatewayRepo) List(ctx context.Context) ([]*models.PaymentGateway, error) {
	var result []*models.PaymentGateway
	for _, g := range m.gateways {
		result = append(result, g)
	}
	return result, nil
}

func (m *mockGatewayRepo) ListActive(ctx context.Context) ([]*models.PaymentGateway, error) {
	var result []*models.PaymentGateway
	for _, g := range m.gateways {
		if g.Status == models.GatewayActive {
			result = append(result, g)
		}
	}
	return result, nil
}

func (m *mockGatewayRepo) Update(ctx context.Context, gateway *models.PaymentGateway) error {
	m.gateways[gateway.ID] = gateway
	return nil
}

func (m *mockGatewayRepo) UpdateCredentials(ctx context.Context, id uuid.UUID, credentials map[string]any) error {
	if g, ok := m.gateways[id]; ok {
		g.Credentials = credentials
	}
	return nil
}

func (m *mockGatewayRepo) SetStatus(ctx context.Context, id uuid.UUID, status models.GatewayStatus) error {
	if g, ok := m.gateways[id]; ok {
		g.Status = status
	}
	return nil
}

func (m *mockGatewayRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(m.gateways, id)
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockGatewayRepo) HasPayments(ctx context.Context, id uuid.UUID) (bool, error) {
	return m.withHistory[id], nil
}

func (m *mockGatewayRepo) GetPerformance(ctx context.Context, days int) ([]*models.GatewayPerformance, error) {
	return nil, nil
}

var _ repository.GatewayRepository = (*mockGatewayRepo)(nil)

// --- Mock membership repository ---

type mockMembershipRepo struct {
	distribution []*models.MembershipCount
	conversions  []*models.UpgradeConversion
	churnRows    []*repository.ChurnRiskRow
	cohorts      []*repository.RetentionCohortRow
	funnel       repository.FunnelCounts
}

func newMockMembershipRepo() *mockMembershipRepo {
	return &mockMembershipRepo{}
}

func (m *mockMembershipRepo) GetDistribution(ctx context.Context) ([]*models.MembershipCount, error) {
	return m.distribution, nil
}

func (m *mockMembershipRepo) GetUpgradeConversions(ctx context.Context) ([]*models.UpgradeConversion, error) {
	return m.conversions, nil
}

func (m *mockMembershipRepo) GetChurnRiskRows(ctx context.Context) ([]*repository.ChurnRiskRow, error) {
	return m.churnRows, nil
}

func (m *mockMembershipRepo) GetRetentionCohorts(ctx context.Context) ([]*repository.RetentionCohortRow, error) {
	return m.cohorts, nil
}

func (m *mockMembershipRepo) GetFunnelCounts(ctx context.Context) (repository.FunnelCounts, error) {
	return m.funnel, nil
}

var _ repository.MembershipRepository = (*mockMembershipRepo)(nil)

// --- Mock task repository ---

type mockTaskRepo struct {
	tasks    map[uuid.UUID]*models.Task
	comments map[uuid.UUID]*models.TaskComment
	deleted  []uuid.UUID
}

func newMockTaskRepo() *mockTaskRepo {
	return &mockTaskRepo{
		tasks:    make(map[uuid.UUID]*models.Task),
		comments: make(map[uuid.UUID]*models.TaskComment),
	}
}

func (m *mockTaskRepo) Create(ctx context.Context, task *models.Task) error {
	if task.ID == uuid.Nil {
		task.ID = uuid.New()
	}
	m.tasks[task.ID] = task
	return nil
}

func (m *mockTaskRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	return m.tasks[id], nil
}

func (m *mockTaskRepo) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*models.Task, error) {
	var result []*models.Task
	for _, t := range m.tasks {
		if t.ProjectID != nil && *t.ProjectID == projectID {
			result = append(result, t)
		}
	}
	return result, nil
}

func (m *mockTaskRepo) ListByAssignee(ctx context.Context, assigneeID uuid.UUID) ([]*models.Task, error) {
	var result []*models.Task
	for _, t := range m.tasks {
		if t.AssigneeID != nil && *t.AssigneeID == assigneeID {
			result = append(result, t)
		}
	}
	return result, nil
}

func (m *mockTaskRepo) Update(ctx context.Context, task *models.Task) error {
	m.tasks[task.ID] = task
	return nil
}

func (m *mockTaskRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(m.tasks, id)
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockTaskRepo) CreateComment(ctx context.Context, comment *models.TaskComment) error {
	if comment.ID == uuid.Nil {
		comment.ID = uuid.New()
	}
	m.comments[comment.ID] = comment
	return nil
}

func (m *mockTaskRepo) GetCommentByID(ctx context.Context, id uuid.UUID) (*models.TaskComment, error) {
	return m.comments[id], nil
}

func (m *mockTaskRepo) ListCommentsByTask(ctx context.Context, taskID uuid.UUID) ([]*models.TaskComment, error) {
	var result []*models.TaskComment
	for _, c := range m.comments {
		if c.TaskID != nil && *c.TaskID == taskID {
			result = append(result, c)
		}
	}
	return result, nil
}

func (m *mockTaskRepo) DeleteComment(ctx context.Context, id uuid.UUID) error {
	delete(m.comments, id)
	return nil
}

func (m *mockTaskRepo) GetVelocity(ctx context.Context) ([]*models.TaskVelocityPoint, error) {
	return nil, nil
}

func (m *mockTaskRepo) GetCompletionRate(ctx context.Context) ([]*models.TaskCompletionRate, error) {
	return nil, nil
}

func (m *mockTaskRepo) GetStatusMetrics(ctx context.Context) ([]*models.TaskStatusMetric, error) {
	return nil, nil
}

var _ repository.TaskRepository = (*mockTaskRepo)(nil)
