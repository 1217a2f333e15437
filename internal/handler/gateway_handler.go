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

// GatewayHandler handles payment gateway HTTP requests.
type GatewayHandler struct {
	gateways service.GatewayService
	validate *validator.Validate
}

// NewGatewayHandler creates a new gateway handler.
func NewGatewayHandler(gateways service.GatewayService) *GatewayHandler {
	return &GatewayHandler{
		gateways: gateways,
		validate: validator.New(),
	}
}

// Routes returns a chi router with gateway routes.
func (h *GatewayHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/performance", h.Performance)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	r.Put("/{id}/credentials", h.UpdateCredentials)
	r.Post("/{id}/status", h.SetStatus)

	return r
}

// Create handles POST /v1/gateways
func (h *GatewayHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.CreateGatewayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierrors.ErrBadRequest.WithMessage("Invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Error(w, apierrors.NewValidationError("provider", "name and a known provider are required"))
		return
	}

	gateway, err := h.gateways.Create(r.Context(), req)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Created(w, gateway)
}

// List handles GET /v1/gateways?status=active
func (h *GatewayHandler) List(w http.ResponseWriter, r *http.Request) {
	var (
		gateways []*models.PaymentGateway
		err      error
	)
	if r.URL.Query().Get("status") == "active" {
		gateways, err = h.gateways.ListActive(r.Context())
	} else {
		gateways, err = h.gateways.List(r.Context())
	}
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, gateways)
}

// Get handles GET /v1/gateways/{id}
func (h *GatewayHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		response.Error(w, err)
		return
	}

	gateway, err := h.gateways.Get(r.Context(), id)
	if err != nil {
		response.Error(w, err)
		return
	}
	if gateway == nil {
		response.NotFound(w, "Gateway")
		return
	}
	response.OK(w, gateway)
}

// UpdateGatewayHTTPRequest is the HTTP request body for updating a gateway.
type UpdateGatewayHTTPRequest struct {
	Name          string                 `json:"name" validate:"required,min=1,max=255"`
	Provider      models.GatewayProvider `json:"provider" validate:"required,oneof=custom manual stripe paypal adyen razorpay"`
	WebhookSecret *string                `json:"webhook_secret"`
	Metadata      map[string]any         `json:"metadata"`
}

// Update handles PUT /v1/gateways/{id}
func (h *GatewayHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		response.Error(w, err)
		return
	}

	var req UpdateGatewayHTTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierrors.ErrBadRequest.WithMessage("Invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Error(w, apierrors.NewValidationError("provider", "name and a known provider are required"))
		return
	}

	gateway := &models.PaymentGateway{
		ID:            id,
		Name:          req.Name,
		Provider:      req.Provider,
		WebhookSecret: req.WebhookSecret,
		Metadata:      req.Metadata,
	}
	if err := h.gateways.Update(r.Context(), gateway); err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, gateway)
}

// Delete handles DELETE /v1/gateways/{id}. Gateways with payment history
// refuse deletion with a 409.
func (h *GatewayHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		response.Error(w, err)
		return
	}

	if err := h.gateways.Delete(r.Context(), id); err != nil {
		response.Error(w, err)
		return
	}
	response.NoContent(w)
}

// UpdateCredentials handles PUT /v1/gateways/{id}/credentials
func (h *GatewayHandler) UpdateCredentials(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		response.Error(w, err)
		return
	}

	var credentials map[string]any
	if err := json.NewDecoder(r.Body).Decode(&credentials); err != nil {
		response.Error(w, apierrors.ErrBadRequest.WithMessage("Invalid request body"))
		return
	}

	if err := h.gateways.UpdateCredentials(r.Context(), id, credentials); err != nil {
		response.Error(w, err)
		return
	}
	response.NoContent(w)
}

// SetStatusHTTPRequest is the HTTP request body for a status transition.
type SetStatusHTTPRequest struct {
	Status models.GatewayStatus `json:"status" validate:"required,oneof=inactive test active"`
}

// SetStatus handles POST /v1/gateways/{id}/status
func (h *GatewayHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		response.Error(w, err)
		return
	}

	var req SetStatusHTTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierrors.ErrBadRequest.WithMessage("Invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Error(w, apierrors.NewValidationError("status", "status must be inactive, test, or active"))
		return
	}

	if err := h.gateways.SetStatus(r.Context(), id, req.Status); err != nil {
		response.Error(w, err)
		return
	}
	response.NoContent(w)
}

// Performance handles GET /v1/gateways/performance?days=...
func (h *GatewayHandler) Performance(w http.ResponseWriter, r *http.Request) {
	days, err := queryIntDefault(r, "days", 30)
	if err != nil {
		response.Error(w, err)
		return
	}
	if days < 0 {
		response.Error(w, apierrors.NewValidationError("days", "must not be negative"))
		return
	}

	performance, err := h.gateways.GetPerformance(r.Context(), days)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, performance)
}
