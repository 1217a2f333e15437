package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/boardpulse/boardpulse/internal/cache"
	"github.com/boardpulse/boardpulse/internal/config"
	"github.com/boardpulse/boardpulse/internal/models"
	apierrors "github.com/boardpulse/boardpulse/internal/pkg/errors"
)

func intPtr(v int) *int { return &v }

func newTestPaymentService() (*mockPaymentRepo, PaymentService) {
	repo := newMockPaymentRepo()
	return repo, NewPaymentService(repo, cache.NewMemory(), config.AnalyticsConfig{}, testLogger())
}

func TestDashboardOptions_Clamp(t *testing.T) {
	cases := []struct {
		name     string
		opts     DashboardOptions
		months   int
		days     int
		payments int
		failures int
		ttl      time.Duration
	}{
		{
			name:     "all nil takes defaults",
			opts:     DashboardOptions{},
			months:   6,
			days:     30,
			payments: 20,
			failures: 10,
			ttl:      30 * time.Second,
		},
		{
			name: "months floor is one",
			opts: DashboardOptions{MonthlyRevenueMonths: intPtr(-5)},
			months:   1,
			days:     30,
			payments: 20,
			failures: 10,
			ttl:      30 * time.Second,
		},
		{
			name: "zero days means all time",
			opts: DashboardOptions{GatewayPerformanceDays: intPtr(0)},
			months:   6,
			days:     0,
			payments: 20,
			failures: 10,
			ttl:      30 * time.Second,
		},
		{
			name: "negative days clamp to zero",
			opts: DashboardOptions{GatewayPerformanceDays: intPtr(-7)},
			months:   6,
			days:     0,
			payments: 20,
			failures: 10,
			ttl:      30 * time.Second,
		},
		{
			name: "limits floor at one",
			opts: DashboardOptions{
				RecentPaymentsLimit: intPtr(0),
				RecentFailuresLimit: intPtr(-1),
			},
			months:   6,
			days:     30,
			payments: 1,
			failures: 1,
			ttl:      30 * time.Second,
		},
		{
			name: "zero ttl disables caching",
			opts: DashboardOptions{CacheTTLMillis: intPtr(0)},
			months:   6,
			days:     30,
			payments: 20,
			failures: 10,
			ttl:      0,
		},
		{
			name: "explicit values pass through",
			opts: DashboardOptions{
				MonthlyRevenueMonths:   intPtr(12),
				GatewayPerformanceDays: intPtr(90),
				RecentPaymentsLimit:    intPtr(5),
				RecentFailuresLimit:    intPtr(3),
				CacheTTLMillis:         intPtr(1500),
			},
			months:   12,
			days:     90,
			payments: 5,
			failures: 3,
			ttl:      1500 * time.Millisecond,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			params, ttl := tc.opts.clamp(config.AnalyticsConfig{})
			if params.MonthlyRevenueMonths != tc.months {
				t.Errorf("months = %d, want %d", params.MonthlyRevenueMonths, tc.months)
			}
			if params.GatewayPerformanceDays != tc.days {
				t.Errorf("days = %d, want %d", params.GatewayPerformanceDays, tc.days)
			}
			if params.RecentPaymentsLimit != tc.payments {
				t.Errorf("payments limit = %d, want %d", params.RecentPaymentsLimit, tc.payments)
			}
			if params.RecentFailuresLimit != tc.failures {
				t.Errorf("failures limit = %d, want %d", params.RecentFailuresLimit, tc.failures)
			}
			if ttl != tc.ttl {
				t.Errorf("ttl = %v, want %v", ttl, tc.ttl)
			}
		})
	}

	t.Run("configured defaults win over built-ins", func(t *testing.T) {
		cfg := config.AnalyticsConfig{
			MonthlyRevenueMonths:   12,
			GatewayPerformanceDays: 7,
			CacheTTL:               time.Minute,
		}

		params, ttl := DashboardOptions{}.clamp(cfg)
		if params.MonthlyRevenueMonths != 12 {
			t.Errorf("months = %d, want 12", params.MonthlyRevenueMonths)
		}
		if params.GatewayPerformanceDays != 7 {
			t.Errorf("days = %d, want 7", params.GatewayPerformanceDays)
		}
		if params.RecentPaymentsLimit != 20 {
			t.Errorf("payments limit = %d, want built-in 20", params.RecentPaymentsLimit)
		}
		if ttl != time.Minute {
			t.Errorf("ttl = %v, want 1m", ttl)
		}

		explicit, _ := DashboardOptions{MonthlyRevenueMonths: intPtr(3)}.clamp(cfg)
		if explicit.MonthlyRevenueMonths != 3 {
			t.Errorf("explicit months = %d, want 3", explicit.MonthlyRevenueMonths)
		}
	})
}

func TestPaymentService_GetDashboardAnalytics(t *testing.T) {
	ctx := context.Background()

	t.Run("second call with same options is a cache hit", func(t *testing.T) {
		repo, svc := newTestPaymentService()
		repo.snapshot = &models.DashboardSnapshot{
			RevenueSummary: models.RevenueSummary{
				TotalRevenue:       "100.00",
				PendingValue:       "50.00",
				SuccessfulPayments: 1,
				FailedPayments:     1,
				TotalPayments:      3,
			},
		}

		first, err := svc.GetDashboardAnalytics(ctx, DashboardOptions{})
		if err != nil {
			t.Fatalf("GetDashboardAnalytics() error = %v", err)
		}
		second, err := svc.GetDashboardAnalytics(ctx, DashboardOptions{})
		if err != nil {
			t.Fatalf("GetDashboardAnalytics() error = %v", err)
		}

		if repo.dashboardCalls != 1 {
			t.Errorf("repo called %d times, want 1", repo.dashboardCalls)
		}
		if second.RevenueSummary != first.RevenueSummary {
			t.Errorf("cached summary = %+v, want %+v", second.RevenueSummary, first.RevenueSummary)
		}
	})

	t.Run("different window parameters miss the cache", func(t *testing.T) {
		repo, svc := newTestPaymentService()

		if _, err := svc.GetDashboardAnalytics(ctx, DashboardOptions{}); err != nil {
			t.Fatalf("GetDashboardAnalytics() error = %v", err)
		}
		if _, err := svc.GetDashboardAnalytics(ctx, DashboardOptions{MonthlyRevenueMonths: intPtr(12)}); err != nil {
			t.Fatalf("GetDashboardAnalytics() error = %v", err)
		}

		if repo.dashboardCalls != 2 {
			t.Errorf("repo called %d times, want 2", repo.dashboardCalls)
		}
	})

	t.Run("zero ttl recomputes every call", func(t *testing.T) {
		repo, svc := newTestPaymentService()
		opts := DashboardOptions{CacheTTLMillis: intPtr(0)}

		for i := 0; i < 3; i++ {
			if _, err := svc.GetDashboardAnalytics(ctx, opts); err != nil {
				t.Fatalf("GetDashboardAnalytics() error = %v", err)
			}
		}
		if repo.dashboardCalls != 3 {
			t.Errorf("repo called %d times, want 3", repo.dashboardCalls)
		}
	})

	t.Run("ttl is not part of the cache key", func(t *testing.T) {
		repo, svc := newTestPaymentService()

		if _, err := svc.GetDashboardAnalytics(ctx, DashboardOptions{CacheTTLMillis: intPtr(60000)}); err != nil {
			t.Fatalf("GetDashboardAnalytics() error = %v", err)
		}
		if _, err := svc.GetDashboardAnalytics(ctx, DashboardOptions{CacheTTLMillis: intPtr(90000)}); err != nil {
			t.Fatalf("GetDashboardAnalytics() error = %v", err)
		}

		if repo.dashboardCalls != 1 {
			t.Errorf("repo called %d times, want 1", repo.dashboardCalls)
		}
	})

	t.Run("clamped parameters reach the repository", func(t *testing.T) {
		repo, svc := newTestPaymentService()

		_, err := svc.GetDashboardAnalytics(ctx, DashboardOptions{
			MonthlyRevenueMonths:   intPtr(-2),
			GatewayPerformanceDays: intPtr(-1),
		})
		if err != nil {
			t.Fatalf("GetDashboardAnalytics() error = %v", err)
		}
		if repo.lastParams.MonthlyRevenueMonths != 1 {
			t.Errorf("months = %d, want 1", repo.lastParams.MonthlyRevenueMonths)
		}
		if repo.lastParams.GatewayPerformanceDays != 0 {
			t.Errorf("days = %d, want 0", repo.lastParams.GatewayPerformanceDays)
		}
	})
}

func TestPaymentService_Lifecycle(t *testing.T) {
	ctx := context.Background()

	t.Run("create starts pending", func(t *testing.T) {
		_, svc := newTestPaymentService()

		payment, err := svc.Create(ctx, CreatePaymentRequest{
			UserID:   uuid.New(),
			Amount:   "49.99",
			Currency: "USD",
		})
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if payment.Status != models.PaymentPending {
			t.Errorf("Status = %q, want %q", payment.Status, models.PaymentPending)
		}
		if payment.Amount != "49.99" {
			t.Errorf("Amount = %q, want %q", payment.Amount, "49.99")
		}
	})

	t.Run("mark succeeded on missing payment is not found", func(t *testing.T) {
		_, svc := newTestPaymentService()

		_, err := svc.MarkSucceeded(ctx, uuid.New())
		if err == nil {
			t.Fatal("MarkSucceeded() error = nil, want not found")
		}
		if apierrors.AsAPIError(err).Code != "not_found" {
			t.Errorf("Code = %q, want not_found", apierrors.AsAPIError(err).Code)
		}
	})

	t.Run("record failure stores the gateway error", func(t *testing.T) {
		_, svc := newTestPaymentService()

		payment, err := svc.Create(ctx, CreatePaymentRequest{
			UserID:   uuid.New(),
			Amount:   "10.00",
			Currency: "EUR",
		})
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}

		failed, err := svc.RecordFailure(ctx, payment.ID, "card_declined", "Insufficient funds")
		if err != nil {
			t.Fatalf("RecordFailure() error = %v", err)
		}
		if failed.Status != models.PaymentFailed {
			t.Errorf("Status = %q, want %q", failed.Status, models.PaymentFailed)
		}
		if failed.ErrorCode == nil || *failed.ErrorCode != "card_declined" {
			t.Errorf("ErrorCode = %v, want card_declined", failed.ErrorCode)
		}
	})
}
