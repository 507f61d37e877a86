package history

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/clueapp/subscription-api/internal/http/middlewarectx"
	"github.com/clueapp/subscription-api/internal/models"
)

type LedgerServiceMock struct {
	mock.Mock
}

func (m *LedgerServiceMock) History(ctx context.Context, userUID string) ([]*models.Subscription, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Subscription), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func newRequest(uid string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/subscription/history/", nil)
	ctx := context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123")
	if uid != "" {
		ctx = context.WithValue(ctx, middlewarectx.UserUID, uid)
	}
	return req.WithContext(ctx)
}

func TestHistoryHandler_ServeHTTP(t *testing.T) {
	const userUID = "11111111-2222-3333-4444-555555555555"
	now := time.Now()
	history := []*models.Subscription{
		{ID: 43, UserUID: userUID, PlanID: 2, PlanName: "Premium", StartDate: now, IsActive: true},
		{ID: 42, UserUID: userUID, PlanID: 1, PlanName: "Basic", StartDate: now.AddDate(0, 0, -10), EndDate: now, IsActive: false},
	}

	t.Run("returns full history newest first", func(t *testing.T) {
		svcMock := new(LedgerServiceMock)
		svcMock.On("History", mock.Anything, userUID).Return(history, nil).Once()

		handler := New(newNoopLogger(), svcMock)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, newRequest(userUID))

		assert.Equal(t, http.StatusOK, rec.Code)

		var got []map[string]any
		assert.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		assert.Len(t, got, 2)
		assert.Equal(t, float64(43), got[0]["id"])
		assert.Equal(t, false, got[1]["is_active"])

		svcMock.AssertExpectations(t)
	})

	t.Run("empty history returns empty array", func(t *testing.T) {
		svcMock := new(LedgerServiceMock)
		svcMock.On("History", mock.Anything, userUID).Return(nil, nil).Once()

		handler := New(newNoopLogger(), svcMock)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, newRequest(userUID))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, "[]", rec.Body.String())
	})

	t.Run("missing uid in context", func(t *testing.T) {
		svcMock := new(LedgerServiceMock)
		handler := New(newNoopLogger(), svcMock)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, newRequest(""))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		svcMock.AssertNotCalled(t, "History", mock.Anything, mock.Anything)
	})

	t.Run("internal error", func(t *testing.T) {
		svcMock := new(LedgerServiceMock)
		svcMock.On("History", mock.Anything, userUID).
			Return(nil, errors.New("db error")).Once()

		handler := New(newNoopLogger(), svcMock)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, newRequest(userUID))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)

		svcMock.AssertExpectations(t)
	})
}
