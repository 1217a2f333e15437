package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/boardpulse/boardpulse/internal/models"
	apierrors "github.com/boardpulse/boardpulse/internal/pkg/errors"
	"github.com/boardpulse/boardpulse/internal/pkg/response"
	"github.com/boardpulse/boardpulse/internal/service"
)

// ProjectHandler handles project-related HTTP requests.
type ProjectHandler struct {
	projects service.ProjectService
	validate *validator.Validate
}

// NewProjectHandler creates a new project handler.
func NewProjectHandler(projects service.ProjectService) *ProjectHandler {
	return &ProjectHandler{
		projects: projects,
		validate: validator.New(),
	}
}

// Routes returns a chi router with project routes.
func (h *ProjectHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/task-counts", h.TaskCounts)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	r.Post("/{id}/members/{userID}", h.AddMember)
	r.Delete("/{id}/members/{userID}", h.RemoveMember)

	return r
}

// CreateProjectHTTPRequest is the HTTP request body for creating a project.
type CreateProjectHTTPRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=255"`
	Description *string `json:"description"`
	Slug        *string `json:"slug"`
	IsPublic    bool    `json:"is_public"`
}

// Create handles POST /v1/projects
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateProjectHTTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierrors.ErrBadRequest.WithMessage("Invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Error(w, apierrors.NewValidationError("name", "name is required"))
		return
	}

	project, err := h.projects.Create(r.Context(), &models.Project{
		Name:        req.Name,
		Description: req.Description,
		Slug:        req.Slug,
		IsPublic:    req.IsPublic,
	})
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Created(w, project)
}

// List handles GET /v1/projects
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	if userID, err := queryUUID(r, "user_id"); err != nil {
		response.Error(w, err)
		return
	} else if userID != nil {
		projects, err := h.projects.ListForUser(r.Context(), *userID)
		if err != nil {
			response.Error(w, err)
			return
		}
		response.OK(w, projects)
		return
	}

	projects, err := h.projects.List(r.Context())
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, projects)
}

// Get handles GET /v1/projects/{id}
func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		response.Error(w, err)
		return
	}

	project, err := h.projects.Get(r.Context(), id)
	if err != nil {
		response.Error(w, err)
		return
	}
	if project == nil {
		response.NotFound(w, "Project")
		return
	}
	response.OK(w, project)
}

// Update handles PUT /v1/projects/{id}
func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		response.Error(w, err)
		return
	}

	var req CreateProjectHTTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierrors.ErrBadRequest.WithMessage("Invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Error(w, apierrors.NewValidationError("name", "name is required"))
		return
	}

	project, err := h.projects.Update(r.Context(), &models.Project{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Slug:        req.Slug,
		IsPublic:    req.IsPublic,
	})
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, project)
}

// Delete handles DELETE /v1/projects/{id}. The whole board is removed in one
// transaction; activity history is preserved.
func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		response.Error(w, err)
		return
	}

	if err := h.projects.DeleteCascade(r.Context(), id); err != nil {
		response.Error(w, err)
		return
	}
	response.NoContent(w)
}

// AddMember handles POST /v1/projects/{id}/members/{userID}
func (h *ProjectHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		response.Error(w, err)
		return
	}
	userID, err := pathUUID(r, "userID")
	if err != nil {
		response.Error(w, err)
		return
	}

	if err := h.projects.AddMember(r.Context(), id, userID); err != nil {
		response.Error(w, err)
		return
	}
	response.NoContent(w)
}

// RemoveMember handles DELETE /v1/projects/{id}/members/{userID}
func (h *ProjectHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		response.Error(w, err)
		return
	}
	userID, err := pathUUID(r, "userID")
	if err != nil {
		response.Error(w, err)
		return
	}

	if err := h.projects.RemoveMember(r.Context(), id, userID); err != nil {
		response.Error(w, err)
		return
	}
	response.NoContent(w)
}

// TaskCounts handles GET /v1/projects/task-counts
func (h *ProjectHandler) TaskCounts(w http.ResponseWriter, r *http.Request) {
	counts, err := h.projects.TaskCountPerProject(r.Context())
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, counts)
}
