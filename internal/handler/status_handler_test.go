package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/boardpulse/boardpulse/internal/models"
	"github.com/boardpulse/boardpulse/internal/service"
)

// MockStatusService is a mock implementation of service.TaskStatusService.
type MockStatusService struct {
	mock.Mock
}

func (m *MockStatusService) Create(ctx context.Context, projectID uuid.UUID, name string, actorID *uuid.UUID) (*models.TaskStatus, error) {
	args := m.Called(ctx, projectID, name, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TaskStatus), args.Error(1)
}

func (m *MockStatusService) Rename(ctx context.Context, id uuid.UUID, name string, actorID *uuid.UUID) (*models.TaskStatus, error) {
	args := m.Called(ctx, id, name, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TaskStatus), args.Error(1)
}

func (m *MockStatusService) GetByProject(ctx context.Context, projectID uuid.UUID) ([]*models.TaskStatus, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.TaskStatus), args.Error(1)
}

func (m *MockStatusService) Reorder(ctx context.Context, projectID uuid.UUID, orderedIDs []uuid.UUID, actorID *uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, projectID, orderedIDs, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockStatusService) Delete(ctx context.Context, id uuid.UUID, actorID *uuid.UUID) error {
	args := m.Called(ctx, id, actorID)
	return args.Error(0)
}

func (m *MockStatusService) TaskCountByStatus(ctx context.Context, projectID *uuid.UUID) ([]*models.StatusTaskCount, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.StatusTaskCount), args.Error(1)
}

var _ service.TaskStatusService = (*MockStatusService)(nil)

func TestStatusHandler_Reorder(t *testing.T) {
	t.Run("malformed ids are dropped before the service sees them", func(t *testing.T) {
		mockService := new(MockStatusService)
		handler := NewStatusHandler(mockService)

		projectID := uuid.New()
		a := uuid.New()
		b := uuid.New()
		final := []uuid.UUID{b, a}

		mockService.On("Reorder", mock.Anything, projectID, []uuid.UUID{b, a}, (*uuid.UUID)(nil)).Return(final, nil)

		body := `{"project_id":"` + projectID.String() + `","ordered_ids":["` + b.String() + `","not-a-uuid","` + a.String() + `"]}`
		req := httptest.NewRequest(http.MethodPost, "/reorder", strings.NewReader(body))
		rec := httptest.NewRecorder()

		handler.Routes().ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		mockService.AssertExpectations(t)

		var envelope struct {
			Data struct {
				OrderedIDs []uuid.UUID `json:"ordered_ids"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
		assert.Equal(t, final, envelope.Data.OrderedIDs)
	})

	t.Run("missing project id is a validation error", func(t *testing.T) {
		mockService := new(MockStatusService)
		handler := NewStatusHandler(mockService)

		req := httptest.NewRequest(http.MethodPost, "/reorder", strings.NewReader(`{"ordered_ids":[]}`))
		rec := httptest.NewRecorder()

		handler.Routes().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		mockService.AssertNotCalled(t, "Reorder", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestStatusHandler_Create(t *testing.T) {
	t.Run("actor header reaches the service", func(t *testing.T) {
		mockService := new(MockStatusService)
		handler := NewStatusHandler(mockService)

		projectID := uuid.New()
		actor := uuid.New()
		created := &models.TaskStatus{ID: uuid.New(), Name: "Done", Order: 3, ProjectID: &projectID}

		mockService.On("Create", mock.Anything, projectID, "Done", &actor).Return(created, nil)

		body := `{"project_id":"` + projectID.String() + `","name":"Done"}`
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		req.Header.Set("X-User-ID", actor.String())
		rec := httptest.NewRecorder()

		handler.Routes().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("empty name is rejected", func(t *testing.T) {
		mockService := new(MockStatusService)
		handler := NewStatusHandler(mockService)

		body := `{"project_id":"` + uuid.NewString() + `","name":""}`
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		rec := httptest.NewRecorder()

		handler.Routes().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestStatusHandler_Rename(t *testing.T) {
	t.Run("missing column is 404", func(t *testing.T) {
		mockService := new(MockStatusService)
		handler := NewStatusHandler(mockService)

		id := uuid.New()
		mockService.On("Rename", mock.Anything, id, "Backlog", (*uuid.UUID)(nil)).Return(nil, nil)

		req := httptest.NewRequest(http.MethodPut, "/"+id.String(), strings.NewReader(`{"name":"Backlog"}`))
		rec := httptest.NewRecorder()

		handler.Routes().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
