// Package handler provides HTTP handlers for the boardpulse API.
package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	apierrors "github.com/boardpulse/boardpulse/internal/pkg/errors"
)

// pathUUID parses the named chi URL parameter as a UUID.
func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, apierrors.NewValidationError(name, "invalid UUID format")
	}
	return id, nil
}

// queryInt parses an optional integer query parameter. Absent or blank
// returns nil; malformed returns a validation error.
func queryInt(r *http.Request, name string) (*int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, apierrors.NewValidationError(name, "must be an integer")
	}
	return &v, nil
}

// queryIntDefault parses an optional integer query parameter with a fallback.
func queryIntDefault(r *http.Request, name string, def int) (int, error) {
	v, err := queryInt(r, name)
	if err != nil {
		return 0, err
	}
	if v == nil {
		return def, nil
	}
	return *v, nil
}

// queryUUID parses an optional UUID query parameter. Absent returns nil.
func queryUUID(r *http.Request, name string) (*uuid.UUID, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, apierrors.NewValidationError(name, "invalid UUID format")
	}
	return &id, nil
}

// actorID extracts the acting user set by the authorization layer. The API
// trusts the caller here; membership and ownership checks happen before a
// request reaches these handlers.
func actorID(r *http.Request) *uuid.UUID {
	raw := r.Header.Get("X-User-ID")
	if raw == "" {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	return &id
}
