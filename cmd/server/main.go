// Package main is the entry point for the boardpulse API server.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/boardpulse/boardpulse/internal/cache"
	"github.com/boardpulse/boardpulse/internal/config"
	"github.com/boardpulse/boardpulse/internal/database"
	"github.com/boardpulse/boardpulse/internal/handler"
	"github.com/boardpulse/boardpulse/internal/middleware"
	"github.com/boardpulse/boardpulse/internal/pkg/response"
	"github.com/boardpulse/boardpulse/internal/repository"
	"github.com/boardpulse/boardpulse/internal/service"
)

func main() {
	// Setup structured logger
	logLevel := slog.LevelInfo
	if os.Getenv("DEBUG") == "true" {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Info("Starting boardpulse API",
		slog.String("environment", cfg.Server.Environment),
		slog.Int("port", cfg.Server.Port),
	)

	// Connect to PostgreSQL
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	logger.Info("Connected to PostgreSQL")

	// Run migrations
	if err := db.RunMigrations(cfg.Database); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	logger.Info("Database migrations completed")

	// Connect to Redis
	redis, err := database.NewRedis(cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redis.Close()
	logger.Info("Connected to Redis")

	// Dashboard snapshot cache: in-process by default, Redis-backed when
	// running multiple replicas.
	var snapshotCache cache.Cache
	if cfg.Analytics.UseRedisCache {
		snapshotCache = cache.NewRedis(redis, "analytics:")
	} else {
		snapshotCache = cache.NewMemory()
	}

	// Repositories
	projectRepo := repository.NewProjectRepository(db)
	statusRepo := repository.NewTaskStatusRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	gatewayRepo := repository.NewGatewayRepository(db)
	membershipRepo := repository.NewMembershipRepository(db)
	userRepo := repository.NewUserRepository(db)

	// Services
	activitySvc := service.NewActivityService(activityRepo, logger)
	userSvc := service.NewUserService(userRepo, logger)
	projectSvc := service.NewProjectService(projectRepo, logger)
	statusSvc := service.NewTaskStatusService(statusRepo, activitySvc, logger)
	taskSvc := service.NewTaskService(taskRepo, activitySvc, logger)
	paymentSvc := service.NewPaymentService(paymentRepo, snapshotCache, cfg.Analytics, logger)
	gatewaySvc := service.NewGatewayService(gatewayRepo, logger)
	engagementSvc := service.NewEngagementService(membershipRepo, logger)

	// Setup router
	r := chi.NewRouter()

	// Global middleware stack
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(logger))
	r.Use(middleware.Metrics())
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS())
	r.Use(chimiddleware.Timeout(30 * time.Second))

	// Health check endpoints
	r.Get("/health", healthHandler())
	r.Get("/ready", readyHandler(db, redis))
	r.Handle("/metrics", promhttp.Handler())

	// API v1 routes
	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.RateLimit(redis, middleware.DefaultRateLimitConfig()))

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			response.OK(w, map[string]string{
				"name":    "boardpulse API",
				"version": "1.0.0",
			})
		})

		r.Mount("/users", handler.NewUserHandler(userSvc).Routes())
		r.Mount("/projects", handler.NewProjectHandler(projectSvc).Routes())
		r.Mount("/task-statuses", handler.NewStatusHandler(statusSvc).Routes())
		r.Mount("/tasks", handler.NewTaskHandler(taskSvc).Routes())
		r.Mount("/activities", handler.NewActivityHandler(activitySvc).Routes())
		r.Mount("/payments", handler.NewPaymentHandler(paymentSvc).Routes())
		r.Mount("/gateways", handler.NewGatewayHandler(gatewaySvc).Routes())
		r.Mount("/admin/analytics", handler.NewAnalyticsHandler(paymentSvc, engagementSvc, taskSvc).Routes())
	})

	// Create server
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  time.Minute,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("Shutting down server", slog.String("signal", sig.String()))

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}

	logger.Info("Server stopped gracefully")
}

// healthHandler returns a simple health check that always succeeds if the
// server is running.
func healthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}
}

// readyHandler returns a readiness check that verifies database and Redis
// connections.
func readyHandler(db *database.Postgres, redis *database.Redis) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"error","component":"database"}`))
			return
		}

		if err := redis.Ping(ctx); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"error","component":"redis"}`))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","database":"connected","redis":"connected"}`))
	}
}
