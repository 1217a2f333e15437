package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/boardpulse/boardpulse/internal/models"
	apierrors "github.com/boardpulse/boardpulse/internal/pkg/errors"
	"github.com/boardpulse/boardpulse/internal/pkg/response"
	"github.com/boardpulse/boardpulse/internal/service"
)

// TaskHandler handles task and comment HTTP requests.
type TaskHandler struct {
	tasks    service.TaskService
	validate *validator.Validate
}

// NewTaskHandler creates a new task handler.
func NewTaskHandler(tasks service.TaskService) *TaskHandler {
	return &TaskHandler{
		tasks:    tasks,
		validate: validator.New(),
	}
}

// Routes returns a chi router with task routes.
func (h *TaskHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	r.Get("/{id}/comments", h.ListComments)
	r.Post("/{id}/comments", h.AddComment)
	r.Delete("/comments/{commentID}", h.DeleteComment)

	return r
}

// TaskHTTPRequest is the HTTP request body for creating or updating a task.
type TaskHTTPRequest struct {
	Name        string     `json:"name" validate:"required,min=1,max=255"`
	Description *string    `json:"description"`
	ProjectID   *string    `json:"project_id" validate:"omitempty,uuid"`
	AssigneeID  *string    `json:"assignee_id" validate:"omitempty,uuid"`
	StatusID    *string    `json:"status_id" validate:"omitempty,uuid"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
}

func (req TaskHTTPRequest) toModel(id uuid.UUID) (*models.Task, error) {
	task := &models.Task{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	}
	for _, field := range []struct {
		raw  *string
		dest **uuid.UUID
		name string
	}{
		{req.ProjectID, &task.ProjectID, "project_id"},
		{req.AssigneeID, &task.AssigneeID, "assignee_id"},
		{req.StatusID, &task.StatusID, "status_id"},
	} {
		if field.raw == nil {
			continue
		}
		parsed, err := uuid.Parse(*field.raw)
		if err != nil {
			return nil, apierrors.NewValidationError(field.name, "invalid UUID format")
		}
		*field.dest = &parsed
	}
	return task, nil
}

// Create handles POST /v1/tasks
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req TaskHTTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierrors.ErrBadRequest.WithMessage("Invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Error(w, apierrors.NewValidationError("name", "name is required"))
		return
	}
	task, err := req.toModel(uuid.Nil)
	if err != nil {
		response.Error(w, err)
		return
	}

	created, err := h.tasks.Create(r.Context(), task, actorID(r))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Created(w, created)
}

// List handles GET /v1/tasks?project_id=... or ?assignee_id=...
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	projectID, err := queryUUID(r, "project_id")
	if err != nil {
		response.Error(w, err)
		return
	}
	assigneeID, err := queryUUID(r, "assignee_id")
	if err != nil {
		response.Error(w, err)
		return
	}

	var tasks []*models.Task
	switch {
	case projectID != nil:
		tasks, err = h.tasks.ListByProject(r.Context(), *projectID)
	case assigneeID != nil:
		tasks, err = h.tasks.ListByAssignee(r.Context(), *assigneeID)
	default:
		response.Error(w, apierrors.NewValidationError("project_id", "project_id or assignee_id is required"))
		return
	}
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, tasks)
}

// Get handles GET /v1/tasks/{id}
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		response.Error(w, err)
		return
	}

	task, err := h.tasks.Get(r.Context(), id)
	if err != nil {
		response.Error(w, err)
		return
	}
	if task == nil {
		response.NotFound(w, "Task")
		return
	}
	response.OK(w, task)
}

// Update handles PUT /v1/tasks/{id}
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		response.Error(w, err)
		return
	}

	var req TaskHTTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierrors.ErrBadRequest.WithMessage("Invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Error(w, apierrors.NewValidationError("name", "name is required"))
		return
	}
	task, err := req.toModel(id)
	if err != nil {
		response.Error(w, err)
		return
	}

	updated, err := h.tasks.Update(r.Context(), task, actorID(r))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, updated)
}

// Delete handles DELETE /v1/tasks/{id}
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		response.Error(w, err)
		return
	}

	if err := h.tasks.Delete(r.Context(), id, actorID(r)); err != nil {
		response.Error(w, err)
		return
	}
	response.NoContent(w)
}

// CommentHTTPRequest is the HTTP request body for adding a comment.
type CommentHTTPRequest struct {
	Content string `json:"content" validate:"required,min=1"`
}

// AddComment handles POST /v1/tasks/{id}/comments
func (h *TaskHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	taskID, err := pathUUID(r, "id")
	if err != nil {
		response.Error(w, err)
		return
	}

	var req CommentHTTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierrors.ErrBadRequest.WithMessage("Invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Error(w, apierrors.NewValidationError("content", "content is required"))
		return
	}

	comment, err := h.tasks.AddComment(r.Context(), &models.TaskComment{
		Content: req.Content,
		TaskID:  &taskID,
		UserID:  actorID(r),
	})
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Created(w, comment)
}

// ListComments handles GET /v1/tasks/{id}/comments
func (h *TaskHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	taskID, err := pathUUID(r, "id")
	if err != nil {
		response.Error(w, err)
		return
	}

	comments, err := h.tasks.ListComments(r.Context(), taskID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, comments)
}

// DeleteComment handles DELETE /v1/tasks/comments/{commentID}
func (h *TaskHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	commentID, err := pathUUID(r, "commentID")
	if err != nil {
		response.Error(w, err)
		return
	}

	if err := h.tasks.DeleteComment(r.Context(), commentID, actorID(r)); err != nil {
		response.Error(w, err)
		return
	}
	response.NoContent(w)
}
