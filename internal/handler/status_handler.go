package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	apierrors "github.com/boardpulse/boardpulse/internal/pkg/errors"
	"github.com/boardpulse/boardpulse/internal/pkg/response"
	"github.com/boardpulse/boardpulse/internal/service"
)

// StatusHandler handles board column HTTP requests.
type StatusHandler struct {
	statuses service.TaskStatusService
	validate *validator.Validate
}

// NewStatusHandler creates a new status handler.
func NewStatusHandler(statuses service.TaskStatusService) *StatusHandler {
	return &StatusHandler{
		statuses: statuses,
		validate: validator.New(),
	}
}

// Routes returns a chi router with task status routes.
func (h *StatusHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Post("/reorder", h.Reorder)
	r.Get("/task-counts", h.TaskCounts)
	r.Put("/{id}", h.Rename)
	r.Delete("/{id}", h.Delete)

	return r
}

// CreateStatusHTTPRequest is the HTTP request body for creating a column.
type CreateStatusHTTPRequest struct {
	ProjectID string `json:"project_id" validate:"required,uuid"`
	Name      string `json:"name" validate:"required,min=1,max=255"`
}

// Create handles POST /v1/task-statuses
func (h *StatusHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateStatusHTTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierrors.ErrBadRequest.WithMessage("Invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Error(w, apierrors.NewValidationError("project_id", "project_id and name are required"))
		return
	}
	projectID, err := uuid.Parse(req.ProjectID)
	if err != nil {
		response.Error(w, apierrors.NewValidationError("project_id", "invalid UUID format"))
		return
	}

	status, err := h.statuses.Create(r.Context(), projectID, req.Name, actorID(r))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Created(w, status)
}

// List handles GET /v1/task-statuses?project_id=...
func (h *StatusHandler) List(w http.ResponseWriter, r *http.Request) {
	projectID, err := queryUUID(r, "project_id")
	if err != nil {
		response.Error(w, err)
		return
	}
	if projectID == nil {
		response.Error(w, apierrors.NewValidationError("project_id", "project_id is required"))
		return
	}

	statuses, err := h.statuses.GetByProject(r.Context(), *projectID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, statuses)
}

// ReorderHTTPRequest is the HTTP request body for reordering columns.
type ReorderHTTPRequest struct {
	ProjectID  string   `json:"project_id" validate:"required,uuid"`
	OrderedIDs []string `json:"ordered_ids" validate:"required"`
}

// Reorder handles POST /v1/task-statuses/reorder. Ids not belonging to the
// project are dropped and omitted columns keep their relative order; the
// response carries the permutation as actually applied.
func (h *StatusHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	var req ReorderHTTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierrors.ErrBadRequest.WithMessage("Invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Error(w, apierrors.NewValidationError("project_id", "project_id and ordered_ids are required"))
		return
	}
	projectID, err := uuid.Parse(req.ProjectID)
	if err != nil {
		response.Error(w, apierrors.NewValidationError("project_id", "invalid UUID format"))
		return
	}

	orderedIDs := make([]uuid.UUID, 0, len(req.OrderedIDs))
	for _, raw := range req.OrderedIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			// Malformed ids are treated like foreign ids and dropped.
			continue
		}
		orderedIDs = append(orderedIDs, id)
	}

	final, err := h.statuses.Reorder(r.Context(), projectID, orderedIDs, actorID(r))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, map[string]any{"ordered_ids": final})
}

// RenameStatusHTTPRequest is the HTTP request body for renaming a column.
type RenameStatusHTTPRequest struct {
	Name string `json:"name" validate:"required,min=1,max=255"`
}

// Rename handles PUT /v1/task-statuses/{id}
func (h *StatusHandler) Rename(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		response.Error(w, err)
		return
	}

	var req RenameStatusHTTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierrors.ErrBadRequest.WithMessage("Invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Error(w, apierrors.NewValidationError("name", "name is required"))
		return
	}

	status, err := h.statuses.Rename(r.Context(), id, req.Name, actorID(r))
	if err != nil {
		response.Error(w, err)
		return
	}
	if status == nil {
		response.NotFound(w, "Status")
		return
	}
	response.OK(w, status)
}

// Delete handles DELETE /v1/task-statuses/{id}
func (h *StatusHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		response.Error(w, err)
		return
	}

	if err := h.statuses.Delete(r.Context(), id, actorID(r)); err != nil {
		response.Error(w, err)
		return
	}
	response.NoContent(w)
}

// TaskCounts handles GET /v1/task-statuses/task-counts?project_id=...
func (h *StatusHandler) TaskCounts(w http.ResponseWriter, r *http.Request) {
	projectID, err := queryUUID(r, "project_id")
	if err != nil {
		response.Error(w, err)
		return
	}

	counts, err := h.statuses.TaskCountByStatus(r.Context(), projectID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, counts)
}
