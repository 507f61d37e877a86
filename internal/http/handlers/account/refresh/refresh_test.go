package refresh

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
)

type AuthServiceMock struct {
	mock.Mock
}

func (m *AuthServiceMock) Refresh(ctx context.Context, refreshToken string) (string, error) {
	args := m.Called(ctx, refreshToken)
	return args.String(0), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestRefreshHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    any
		setupMocks     func(m *AuthServiceMock)
		wantStatusCode int
		wantAccess     string
		wantError      string
	}{
		{
			name:        "valid refresh token",
			requestBody: Request{Refresh: "valid-refresh"},
			setupMocks: func(m *AuthServiceMock) {
				m.On("Refresh", mock.Anything, "valid-refresh").Return("new-access", nil).Once()
			},
			wantStatusCode: http.StatusOK,
			wantAccess:     "new-access",
		},
		{
			name:           "invalid json body",
			requestBody:    "not a json",
			setupMocks:     func(_ *AuthServiceMock) {},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "invalid request body",
		},
		{
			name:           "missing refresh token",
			requestBody:    Request{},
			setupMocks:     func(_ *AuthServiceMock) {},
			wantStatusCode: http.StatusUnauthorized,
			wantError:      "refresh token required",
		},
		{
			name:        "expired refresh token",
			requestBody: Request{Refresh: "expired-refresh"},
			setupMocks: func(m *AuthServiceMock) {
				m.On("Refresh", mock.Anything, "expired-refresh").
					Return("", errors.New("token is expired")).Once()
			},
			wantStatusCode: http.StatusUnauthorized,
			wantError:      "invalid or expired refresh token",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svcMock := new(AuthServiceMock)
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

			req := httptest.NewRequest(http.MethodPost, "/account/login/refresh/", bytes.NewReader(bodyBytes))
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))

			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			err = json.NewDecoder(rec.Body).Decode(&got)
			assert.NoError(t, err)

			if tt.wantAccess != "" {
				assert.Equal(t, tt.wantAccess, got["access"])
			}
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, got["error"])
			}

			svcMock.AssertExpectations(t)
		})
	}
}
