package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/boardpulse/boardpulse/internal/pkg/response"
	"github.com/boardpulse/boardpulse/internal/service"
)

// AnalyticsHandler handles the admin analytics dashboard endpoints.
type AnalyticsHandler struct {
	payments   service.PaymentService
	engagement service.EngagementService
	tasks      service.TaskService
}

// NewAnalyticsHandler creates a new analytics handler.
func NewAnalyticsHandler(payments service.PaymentService, engagement service.EngagementService, tasks service.TaskService) *AnalyticsHandler {
	return &AnalyticsHandler{
		payments:   payments,
		engagement: engagement,
		tasks:      tasks,
	}
}

// Routes returns a chi router with analytics routes.
func (h *AnalyticsHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/dashboard", h.Dashboard)
	r.Get("/revenue-summary", h.RevenueSummary)
	r.Get("/monthly-revenue", h.MonthlyRevenue)
	r.Get("/status-breakdown", h.StatusBreakdown)
	r.Get("/gateway-contribution", h.GatewayContribution)
	r.Get("/recent-failures", h.RecentFailures)

	r.Get("/funnel", h.Funnel)
	r.Get("/retention", h.Retention)
	r.Get("/churn-risk", h.ChurnRisk)
	r.Get("/membership-distribution", h.MembershipDistribution)
	r.Get("/upgrade-conversions", h.UpgradeConversions)

	r.Get("/task-velocity", h.TaskVelocity)
	r.Get("/task-completion-rate", h.TaskCompletionRate)
	r.Get("/task-status-metrics", h.TaskStatusMetrics)

	return r
}

// Dashboard handles GET /v1/admin/analytics/dashboard. Query parameters map
// onto the snapshot windows; anything omitted takes its default.
func (h *AnalyticsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	var opts service.DashboardOptions
	var err error

	if opts.MonthlyRevenueMonths, err = queryInt(r, "months"); err != nil {
		response.Error(w, err)
		return
	}
	if opts.GatewayPerformanceDays, err = queryInt(r, "days"); err != nil {
		response.Error(w, err)
		return
	}
	if opts.RecentPaymentsLimit, err = queryInt(r, "payments_limit"); err != nil {
		response.Error(w, err)
		return
	}
	if opts.RecentFailuresLimit, err = queryInt(r, "failures_limit"); err != nil {
		response.Error(w, err)
		return
	}
	if opts.CacheTTLMillis, err = queryInt(r, "cache_ttl_ms"); err != nil {
		response.Error(w, err)
		return
	}

	snapshot, err := h.payments.GetDashboardAnalytics(r.Context(), opts)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, snapshot)
}

// RevenueSummary handles GET /v1/admin/analytics/revenue-summary
func (h *AnalyticsHandler) RevenueSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.payments.GetRevenueSummary(r.Context())
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, summary)
}

// MonthlyRevenue handles GET /v1/admin/analytics/monthly-revenue?months=...
func (h *AnalyticsHandler) MonthlyRevenue(w http.ResponseWriter, r *http.Request) {
	months, err := queryIntDefault(r, "months", 6)
	if err != nil {
		response.Error(w, err)
		return
	}

	revenue, err := h.payments.GetMonthlyRevenue(r.Context(), months)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, revenue)
}

// StatusBreakdown handles GET /v1/admin/analytics/status-breakdown?months=...
func (h *AnalyticsHandler) StatusBreakdown(w http.ResponseWriter, r *http.Request) {
	months, err := queryIntDefault(r, "months", 6)
	if err != nil {
		response.Error(w, err)
		return
	}

	breakdown, err := h.payments.GetStatusBreakdown(r.Context(), months)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, breakdown)
}

// GatewayContribution handles GET /v1/admin/analytics/gateway-contribution?months=...
func (h *AnalyticsHandler) GatewayContribution(w http.ResponseWriter, r *http.Request) {
	months, err := queryIntDefault(r, "months", 6)
	if err != nil {
		response.Error(w, err)
		return
	}

	contribution, err := h.payments.GetGatewayContribution(r.Context(), months)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, contribution)
}

// RecentFailures handles GET /v1/admin/analytics/recent-failures?limit=...
func (h *AnalyticsHandler) RecentFailures(w http.ResponseWriter, r *http.Request) {
	limit, err := queryIntDefault(r, "limit", 0)
	if err != nil {
		response.Error(w, err)
		return
	}

	failures, err := h.payments.GetRecentFailures(r.Context(), limit)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, failures)
}

// Funnel handles GET /v1/admin/analytics/funnel
func (h *AnalyticsHandler) Funnel(w http.ResponseWriter, r *http.Request) {
	stages, err := h.engagement.UserJourneyFunnel(r.Context())
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, stages)
}

// Retention handles GET /v1/admin/analytics/retention
func (h *AnalyticsHandler) Retention(w http.ResponseWriter, r *http.Request) {
	cohorts, err := h.engagement.RetentionByCohort(r.Context())
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, cohorts)
}

// ChurnRisk handles GET /v1/admin/analytics/churn-risk
func (h *AnalyticsHandler) ChurnRisk(w http.ResponseWriter, r *http.Request) {
	entries, err := h.engagement.ChurnRisk(r.Context())
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, entries)
}

// MembershipDistribution handles GET /v1/admin/analytics/membership-distribution
func (h *AnalyticsHandler) MembershipDistribution(w http.ResponseWriter, r *http.Request) {
	distribution, err := h.engagement.MembershipDistribution(r.Context())
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, distribution)
}

// UpgradeConversions handles GET /v1/admin/analytics/upgrade-conversions
func (h *AnalyticsHandler) UpgradeConversions(w http.ResponseWriter, r *http.Request) {
	conversions, err := h.engagement.UpgradeConversions(r.Context())
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, conversions)
}

// TaskVelocity handles GET /v1/admin/analytics/task-velocity
func (h *AnalyticsHandler) TaskVelocity(w http.ResponseWriter, r *http.Request) {
	points, err := h.tasks.Velocity(r.Context())
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, points)
}

// TaskCompletionRate handles GET /v1/admin/analytics/task-completion-rate
func (h *AnalyticsHandler) TaskCompletionRate(w http.ResponseWriter, r *http.Request) {
	rates, err := h.tasks.CompletionRate(r.Context())
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, rates)
}

// TaskStatusMetrics handles GET /v1/admin/analytics/task-status-metrics
func (h *AnalyticsHandler) TaskStatusMetrics(w http.ResponseWriter, r *http.Request) {
	metrics, err := h.tasks.StatusMetrics(r.Context())
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, metrics)
}
