package plans

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/clueapp/subscription-api/internal/models"
	"github.com/clueapp/subscription-api/internal/storage/repository"
)

type CatalogServiceMock struct {
	mock.Mock
}

func (m *CatalogServiceMock) ListActive(ctx context.Context) ([]*models.Plan, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Plan), args.Error(1)
}

func (m *CatalogServiceMock) Create(ctx context.Context, req models.CreatePlanRequest) (*models.Plan, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Plan), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestPlansHandler_List(t *testing.T) {
	plans := []*models.Plan{
		{ID: 1, Name: "Basic", Price: 9.99, DurationDays: 30, IsActive: true},
		{ID: 2, Name: "Premium", Price: 19.99, DurationDays: 30, IsActive: true},
	}

	t.Run("returns plans ordered by price", func(t *testing.T) {
		svcMock := new(CatalogServiceMock)
		svcMock.On("ListActive", mock.Anything).Return(plans, nil).Once()

		handler := New(newNoopLogger(), svcMock)
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/subscription/plans/", nil)
		req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))

		handler.List(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var got []map[string]any
		assert.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		assert.Len(t, got, 2)
		assert.Equal(t, "Basic", got[0]["name"])
		assert.Equal(t, "Premium", got[1]["name"])

		svcMock.AssertExpectations(t)
	})

	t.Run("empty catalog returns empty array", func(t *testing.T) {
		svcMock := new(CatalogServiceMock)
		svcMock.On("ListActive", mock.Anything).Return(nil, nil).Once()

		handler := New(newNoopLogger(), svcMock)
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/subscription/plans/", nil)

		handler.List(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, "[]", rec.Body.String())
	})

	t.Run("repository error", func(t *testing.T) {
		svcMock := new(CatalogServiceMock)
		svcMock.On("ListActive", mock.Anything).Return(nil, errors.New("db error")).Once()

		handler := New(newNoopLogger(), svcMock)
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/subscription/plans/", nil)

		handler.List(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestPlansHandler_Create(t *testing.T) {
	validReq := models.CreatePlanRequest{
		Name:         "Premium",
		Price:        19.99,
		DurationDays: 30,
	}

	tests := []struct {
		name           string
		requestBody    any
		setupMocks     func(m *CatalogServiceMock)
		wantStatusCode int
		wantError      string
	}{
		{
			name:        "valid plan",
			requestBody: validReq,
			setupMocks: func(m *CatalogServiceMock) {
				m.On("Create", mock.Anything, validReq).Return(&models.Plan{
					ID:           2,
					Name:         "Premium",
					Price:        19.99,
					DurationDays: 30,
					IsActive:     true,
				}, nil).Once()
			},
			wantStatusCode: http.StatusCreated,
		},
		{
			name:           "invalid json body",
			requestBody:    "not a json",
			setupMocks:     func(_ *CatalogServiceMock) {},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "invalid request body",
		},
		{
			name: "missing name",
			requestBody: models.CreatePlanRequest{
				Price:        19.99,
				DurationDays: 30,
			},
			setupMocks:     func(_ *CatalogServiceMock) {},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "field Name is a required field",
		},
		{
			name: "negative duration",
			requestBody: models.CreatePlanRequest{
				Name:         "Premium",
				Price:        19.99,
				DurationDays: -1,
			},
			setupMocks:     func(_ *CatalogServiceMock) {},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "field DurationDays is out of range",
		},
		{
			name:        "duplicate name",
			requestBody: validReq,
			setupMocks: func(m *CatalogServiceMock) {
				m.On("Create", mock.Anything, validReq).
					Return(nil, repository.ErrPlanExists).Once()
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "plan with this name already exists",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svcMock := new(CatalogServiceMock)
			tt.setupMocks(svcMock)

			handler := New(newNoopLogger(), svcMock)

			var bodyBytes []byte
			var err error
			switch v := tt.requestBody.(type) {
			case string:
				bodyBytes = []byte(v)
			default:
				bodyBytes, err = json.Marshal(tt.requestBody)
				if err != nil {
					t.Fatal(err)
				}
			}

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/subscription/plans/", bytes.NewReader(bodyBytes))
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))

			handler.Create(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			err = json.NewDecoder(rec.Body).Decode(&got)
			assert.NoError(t, err)

			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, got["error"])
			}
			if tt.wantStatusCode == http.StatusCreated {
				assert.Equal(t, "Premium", got["name"])
				assert.Equal(t, true, got["is_active"])
			}

			svcMock.AssertExpectations(t)
		})
	}
}
