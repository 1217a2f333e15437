package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/boardpulse/boardpulse/internal/pkg/response"
	"github.com/boardpulse/boardpulse/internal/service"
)

// ActivityHandler handles activity feed HTTP requests.
type ActivityHandler struct {
	activities service.ActivityService
}

// NewActivityHandler creates a new activity handler.
func NewActivityHandler(activities service.ActivityService) *ActivityHandler {
	return &ActivityHandler{activities: activities}
}

// Routes returns a chi router with activity routes.
func (h *ActivityHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/feed", h.Feed)
	r.Get("/daily", h.Daily)
	r.Get("/heatmap", h.Heatmap)
	r.Get("/per-user", h.PerUser)
	r.Get("/trends", h.Trends)
	r.Get("/project/{projectID}", h.ByProject)
	r.Get("/task/{taskID}", h.ByTask)
	r.Get("/user/{userID}/recent", h.RecentForUser)

	return r
}

// Feed handles GET /v1/activities/feed?limit=...
func (h *ActivityHandler) Feed(w http.ResponseWriter, r *http.Request) {
	limit, err := queryIntDefault(r, "limit", 0)
	if err != nil {
		response.Error(w, err)
		return
	}

	feed, err := h.activities.GetRealTimeFeed(r.Context(), limit)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, feed)
}

// ByProject handles GET /v1/activities/project/{projectID}?limit=...
func (h *ActivityHandler) ByProject(w http.ResponseWriter, r *http.Request) {
	projectID, err := pathUUID(r, "projectID")
	if err != nil {
		response.Error(w, err)
		return
	}
	limit, err := queryIntDefault(r, "limit", 0)
	if err != nil {
		response.Error(w, err)
		return
	}

	activities, err := h.activities.GetByProject(r.Context(), projectID, limit)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, activities)
}

// ByTask handles GET /v1/activities/task/{taskID}?limit=...
func (h *ActivityHandler) ByTask(w http.ResponseWriter, r *http.Request) {
	taskID, err := pathUUID(r, "taskID")
	if err != nil {
		response.Error(w, err)
		return
	}
	limit, err := queryIntDefault(r, "limit", 0)
	if err != nil {
		response.Error(w, err)
		return
	}

	activities, err := h.activities.GetByTask(r.Context(), taskID, limit)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, activities)
}

// RecentForUser handles GET /v1/activities/user/{userID}/recent?limit=...
func (h *ActivityHandler) RecentForUser(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUUID(r, "userID")
	if err != nil {
		response.Error(w, err)
		return
	}
	limit, err := queryIntDefault(r, "limit", 0)
	if err != nil {
		response.Error(w, err)
		return
	}

	activities, err := h.activities.GetRecentForUser(r.Context(), userID, limit)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, activities)
}

// Daily handles GET /v1/activities/daily?project_id=... A missing project id
// yields an empty series rather than a global rollup.
func (h *ActivityHandler) Daily(w http.ResponseWriter, r *http.Request) {
	projectID, err := queryUUID(r, "project_id")
	if err != nil {
		response.Error(w, err)
		return
	}

	counts, err := h.activities.GetDailyActivity(r.Context(), projectID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, counts)
}

// Heatmap handles GET /v1/activities/heatmap
func (h *ActivityHandler) Heatmap(w http.ResponseWriter, r *http.Request) {
	cells, err := h.activities.GetHeatmap(r.Context())
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, cells)
}

// PerUser handles GET /v1/activities/per-user
func (h *ActivityHandler) PerUser(w http.ResponseWriter, r *http.Request) {
	counts, err := h.activities.GetCountPerUser(r.Context())
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, counts)
}

// Trends handles GET /v1/activities/trends
func (h *ActivityHandler) Trends(w http.ResponseWriter, r *http.Request) {
	points, err := h.activities.GetTrends(r.Context())
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, points)
}
