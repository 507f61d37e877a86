package subscribe

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/clueapp/subscription-api/internal/http/middlewarectx"
	"github.com/clueapp/subscription-api/internal/models"
	"github.com/clueapp/subscription-api/internal/storage/repository"
)

type LedgerServiceMock struct {
	mock.Mock
}

func (m *LedgerServiceMock) Subscribe(ctx context.Context, userUID string, planID int64) (*models.Subscription, error) {
	args := m.Called(ctx, userUID, planID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscription), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func newRequest(planID, uid string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/subscription/subscribe/"+planID+"/", nil)

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("plan_id", planID)

	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	ctx = context.WithValue(ctx, middleware.RequestIDKey, "reqid123")
	if uid != "" {
		ctx = context.WithValue(ctx, middlewarectx.UserUID, uid)
	}
	return req.WithContext(ctx)
}

func TestSubscribeHandler_ServeHTTP(t *testing.T) {
	const userUID = "11111111-2222-3333-4444-555555555555"
	now := time.Now()
	created := &models.Subscription{
		ID:        42,
		UserUID:   userUID,
		PlanID:    1,
		PlanName:  "Basic",
		PlanPrice: 9.99,
		StartDate: now,
		EndDate:   now.AddDate(0, 0, 30),
		IsActive:  true,
	}

	tests := []struct {
		name           string
		planID         string
		uid            string
		setupMocks     func(m *LedgerServiceMock)
		wantStatusCode int
		wantError      string
	}{
		{
			name:   "successful subscribe",
			planID: "1",
			uid:    userUID,
			setupMocks: func(m *LedgerServiceMock) {
				m.On("Subscribe", mock.Anything, userUID, int64(1)).Return(created, nil).Once()
			},
			wantStatusCode: http.StatusCreated,
		},
		{
			name:           "missing uid in context",
			planID:         "1",
			uid:            "",
			setupMocks:     func(_ *LedgerServiceMock) {},
			wantStatusCode: http.StatusUnauthorized,
			wantError:      "unauthorized",
		},
		{
			name:           "invalid plan id",
			planID:         "abc",
			uid:            userUID,
			setupMocks:     func(_ *LedgerServiceMock) {},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "invalid plan id",
		},
		{
			name:   "plan not found",
			planID: "99",
			uid:    userUID,
			setupMocks: func(m *LedgerServiceMock) {
				m.On("Subscribe", mock.Anything, userUID, int64(99)).
					Return(nil, repository.ErrPlanNotFound).Once()
			},
			wantStatusCode: http.StatusNotFound,
			wantError:      "Plan does not exist.",
		},
		{
			name:   "active subscription already exists",
			planID: "1",
			uid:    userUID,
			setupMocks: func(m *LedgerServiceMock) {
				m.On("Subscribe", mock.Anything, userUID, int64(1)).
					Return(nil, repository.ErrActiveSubscriptionExists).Once()
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "You already have an active subscription. Please cancel it before subscribing to a new plan.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svcMock := new(LedgerServiceMock)
			tt.setupMocks(svcMock)

			handler := New(newNoopLogger(), svcMock)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, newRequest(tt.planID, tt.uid))

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			assert.NoError(t, json.NewDecoder(rec.Body).Decode(&got))

			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, got["error"])
			}
			if tt.wantStatusCode == http.StatusCreated {
				assert.Equal(t, float64(42), got["id"])
				assert.Equal(t, true, got["is_active"])
			}

			svcMock.AssertExpectations(t)
		})
	}
}
