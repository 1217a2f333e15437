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

// PaymentHandler handles payment lifecycle HTTP requests.
type PaymentHandler struct {
	payments service.PaymentService
	validate *validator.Validate
}

// NewPaymentHandler creates a new payment handler.
func NewPaymentHandler(payments service.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		payments: payments,
		validate: validator.New(),
	}
}

// Routes returns a chi router with payment routes.
func (h *PaymentHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Post("/{id}/succeed", h.MarkSucceeded)
	r.Post("/{id}/fail", h.RecordFailure)
	r.Patch("/{id}/metadata", h.AppendMetadata)

	return r
}

// Create handles POST /v1/payments
func (h *PaymentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.CreatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierrors.ErrBadRequest.WithMessage("Invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Error(w, apierrors.NewValidationError("amount", "user_id, amount, and a 3-letter currency are required"))
		return
	}

	payment, err := h.payments.Create(r.Context(), req)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Created(w, payment)
}

// List handles GET /v1/payments?limit=...
func (h *PaymentHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, err := queryIntDefault(r, "limit", 0)
	if err != nil {
		response.Error(w, err)
		return
	}

	payments, err := h.payments.ListWithGateway(r.Context(), limit)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, payments)
}

// Get handles GET /v1/payments/{id}
func (h *PaymentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		response.Error(w, err)
		return
	}

	payment, err := h.payments.Get(r.Context(), id)
	if err != nil {
		response.Error(w, err)
		return
	}
	if payment == nil {
		response.NotFound(w, "Payment")
		return
	}
	response.OK(w, payment)
}

// MarkSucceeded handles POST /v1/payments/{id}/succeed
func (h *PaymentHandler) MarkSucceeded(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		response.Error(w, err)
		return
	}

	payment, err := h.payments.MarkSucceeded(r.Context(), id)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, payment)
}

// FailureHTTPRequest is the HTTP request body for recording a failure.
type FailureHTTPRequest struct {
	ErrorCode    string `json:"error_code" validate:"required"`
	ErrorMessage string `json:"error_message" validate:"required"`
}

// RecordFailure handles POST /v1/payments/{id}/fail
func (h *PaymentHandler) RecordFailure(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		response.Error(w, err)
		return
	}

	var req FailureHTTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierrors.ErrBadRequest.WithMessage("Invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Error(w, apierrors.NewValidationError("error_code", "error_code and error_message are required"))
		return
	}

	payment, err := h.payments.RecordFailure(r.Context(), id, req.ErrorCode, req.ErrorMessage)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, payment)
}

// AppendMetadata handles PATCH /v1/payments/{id}/metadata
func (h *PaymentHandler) AppendMetadata(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		response.Error(w, err)
		return
	}

	var metadata map[string]any
	if err := json.NewDecoder(r.Body).Decode(&metadata); err != nil {
		response.Error(w, apierrors.ErrBadRequest.WithMessage("Invalid request body"))
		return
	}

	if err := h.payments.AppendMetadata(r.Context(), id, metadata); err != nil {
		response.Error(w, err)
		return
	}
	response.NoContent(w)
}
