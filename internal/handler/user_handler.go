package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	apierrors "github.com/boardpulse/boardpulse/internal/pkg/errors"
	"github.com/boardpulse/boardpulse/internal/pkg/response"
	"github.com/boardpulse/boardpulse/internal/service"
)

// UserHandler handles user account HTTP requests.
type UserHandler struct {
	users    service.UserService
	validate *validator.Validate
}

// NewUserHandler creates a new user handler.
func NewUserHandler(users service.UserService) *UserHandler {
	return &UserHandler{
		users:    users,
		validate: validator.New(),
	}
}

// Routes returns a chi router with user routes.
func (h *UserHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Get("/by-username/{username}", h.GetByUsername)

	return r
}

// Create handles POST /v1/users
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierrors.ErrBadRequest.WithMessage("Invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Error(w, apierrors.NewValidationError("username", "username and a valid email are required"))
		return
	}

	user, err := h.users.Create(r.Context(), req)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Created(w, user)
}

// Get handles GET /v1/users/{id}
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		response.Error(w, err)
		return
	}

	user, err := h.users.Get(r.Context(), id)
	if err != nil {
		response.Error(w, err)
		return
	}
	if user == nil {
		response.NotFound(w, "User")
		return
	}
	response.OK(w, user)
}

// GetByUsername handles GET /v1/users/by-username/{username}
func (h *UserHandler) GetByUsername(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	if username == "" {
		response.Error(w, apierrors.NewValidationError("username", "must not be empty"))
		return
	}

	user, err := h.users.GetByUsername(r.Context(), username)
	if err != nil {
		response.Error(w, err)
		return
	}
	if user == nil {
		response.NotFound(w, "User")
		return
	}
	response.OK(w, user)
}
