package ledger

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/clueapp/subscription-api/internal/models"
	"github.com/clueapp/subscription-api/internal/storage/repository"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateSubscription(ctx context.Context, userUID string, planID int64) (*models.Subscription, error) {
	args := m.Called(ctx, userUID, planID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscription), args.Error(1)
}

func (m *RepoMock) UpgradeSubscription(ctx context.Context, userUID string, newPlanID int64) (*models.Subscription, error) {
	args := m.Called(ctx, userUID, newPlanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscription), args.Error(1)
}

func (m *RepoMock) CancelSubscription(ctx context.Context, userUID string) (*models.Subscription, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscription), args.Error(1)
}

func (m *RepoMock) FindActiveSubscription(ctx context.Context, userUID string) (*models.Subscription, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscription), args.Error(1)
}

func (m *RepoMock) ListSubscriptions(ctx context.Context, userUID string) ([]*models.Subscription, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Subscription), args.Error(1)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}
func (m *CacheMock) Set(key string, value any, expiration time.Duration) error {
	return m.Called(key, value, expiration).Error(0)
}
func (m *CacheMock) Invalidate(key string) error {
	return m.Called(key).Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

const testUserUID = "11111111-2222-3333-4444-555555555555"

func TestLedgerService_Subscribe(t *testing.T) {
	now := time.Now()
	sub := &models.Subscription{
		ID:        42,
		UserUID:   testUserUID,
		PlanID:    1,
		PlanName:  "Basic",
		PlanPrice: 9.99,
		StartDate: now,
		EndDate:   now.AddDate(0, 0, 30),
		IsActive:  true,
	}

	tests := []struct {
		name       string
		planID     int64
		setupMocks func(r *RepoMock, c *CacheMock)
		wantErr    error
	}{
		{
			name:   "success subscribe",
			planID: 1,
			setupMocks: func(r *RepoMock, c *CacheMock) {
				r.On("CreateSubscription", mock.Anything, testUserUID, int64(1)).Return(sub, nil).Once()
				c.On("Invalidate", "subscription:active:"+testUserUID).Return(nil).Once()
			},
		},
		{
			name:   "plan not found",
			planID: 99,
			setupMocks: func(r *RepoMock, _ *CacheMock) {
				r.On("CreateSubscription", mock.Anything, testUserUID, int64(99)).
					Return(nil, repository.ErrPlanNotFound).Once()
			},
			wantErr: repository.ErrPlanNotFound,
		},
		{
			name:   "already has active subscription",
			planID: 1,
			setupMocks: func(r *RepoMock, _ *CacheMock) {
				r.On("CreateSubscription", mock.Anything, testUserUID, int64(1)).
					Return(nil, repository.ErrActiveSubscriptionExists).Once()
			},
			wantErr: repository.ErrActiveSubscriptionExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			cache := new(CacheMock)
			svc := NewLedgerService(repo, cache, newNoopLogger())

			tt.setupMocks(repo, cache)

			got, err := svc.Subscribe(context.Background(), testUserUID, tt.planID)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, sub, got)
			}

			repo.AssertExpectations(t)
			cache.AssertExpectations(t)
		})
	}
}

func TestLedgerService_Upgrade(t *testing.T) {
	now := time.Now()
	upgraded := &models.Subscription{
		ID:        43,
		UserUID:   testUserUID,
		PlanID:    2,
		PlanName:  "Premium",
		PlanPrice: 19.99,
		StartDate: now,
		EndDate:   now.AddDate(0, 0, 30),
		IsActive:  true,
	}

	tests := []struct {
		name       string
		newPlanID  int64
		setupMocks func(r *RepoMock, c *CacheMock)
		wantErr    error
	}{
		{
			name:      "success upgrade",
			newPlanID: 2,
			setupMocks: func(r *RepoMock, c *CacheMock) {
				r.On("UpgradeSubscription", mock.Anything, testUserUID, int64(2)).Return(upgraded, nil).Once()
				c.On("Invalidate", "subscription:active:"+testUserUID).Return(nil).Once()
			},
		},
		{
			name:      "new plan is not higher",
			newPlanID: 1,
			setupMocks: func(r *RepoMock, _ *CacheMock) {
				r.On("UpgradeSubscription", mock.Anything, testUserUID, int64(1)).
					Return(nil, repository.ErrPriceNotHigher).Once()
			},
			wantErr: repository.ErrPriceNotHigher,
		},
		{
			name:      "new plan not found",
			newPlanID: 99,
			setupMocks: func(r *RepoMock, _ *CacheMock) {
				r.On("UpgradeSubscription", mock.Anything, testUserUID, int64(99)).
					Return(nil, repository.ErrPlanNotFound).Once()
			},
			wantErr: repository.ErrPlanNotFound,
		},
		{
			name:      "without active subscription works as subscribe",
			newPlanID: 2,
			setupMocks: func(r *RepoMock, c *CacheMock) {
				r.On("UpgradeSubscription", mock.Anything, testUserUID, int64(2)).Return(upgraded, nil).Once()
				c.On("Invalidate", "subscription:active:"+testUserUID).Return(nil).Once()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			cache := new(CacheMock)
			svc := NewLedgerService(repo, cache, newNoopLogger())

			tt.setupMocks(repo, cache)

			got, err := svc.Upgrade(context.Background(), testUserUID, tt.newPlanID)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, upgraded, got)
			}

			repo.AssertExpectations(t)
			cache.AssertExpectations(t)
		})
	}
}

func TestLedgerService_Cancel(t *testing.T) {
	now := time.Now()
	cancelled := &models.Subscription{
		ID:        42,
		UserUID:   testUserUID,
		PlanID:    1,
		PlanName:  "Basic",
		PlanPrice: 9.99,
		StartDate: now.AddDate(0, 0, -10),
		EndDate:   now,
		IsActive:  false,
	}

	t.Run("success cancel", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		svc := NewLedgerService(repo, cache, newNoopLogger())

		repo.On("CancelSubscription", mock.Anything, testUserUID).Return(cancelled, nil).Once()
		cache.On("Invalidate", "subscription:active:"+testUserUID).Return(nil).Once()

		got, err := svc.Cancel(context.Background(), testUserUID)
		assert.NoError(t, err)
		require.NotNil(t, got)
		assert.False(t, got.IsActive)

		repo.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("no active subscription", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		svc := NewLedgerService(repo, cache, newNoopLogger())

		repo.On("CancelSubscription", mock.Anything, testUserUID).
			Return(nil, repository.ErrNoActiveSubscription).Once()

		got, err := svc.Cancel(context.Background(), testUserUID)
		assert.ErrorIs(t, err, repository.ErrNoActiveSubscription)
		assert.Nil(t, got)

		repo.AssertExpectations(t)
		cache.AssertExpectations(t)
	})
}

func TestLedgerService_GetActive(t *testing.T) {
	now := time.Now()
	active := &models.Subscription{
		ID:        42,
		UserUID:   testUserUID,
		PlanID:    1,
		PlanName:  "Basic",
		PlanPrice: 9.99,
		StartDate: now,
		EndDate:   now.AddDate(0, 0, 30),
		IsActive:  true,
	}

	t.Run("cache miss then store", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		svc := NewLedgerService(repo, cache, newNoopLogger())

		cacheKey := "subscription:active:" + testUserUID
		cache.On("Get", cacheKey, mock.Anything).Return(false, nil).Once()
		repo.On("FindActiveSubscription", mock.Anything, testUserUID).Return(active, nil).Once()
		cache.On("Set", cacheKey, active, time.Hour).Return(nil).Once()

		got, err := svc.GetActive(context.Background(), testUserUID)
		assert.NoError(t, err)
		assert.Equal(t, active, got)

		repo.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("cache hit skips repository", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		svc := NewLedgerService(repo, cache, newNoopLogger())

		cacheKey := "subscription:active:" + testUserUID
		cache.On("Get", cacheKey, mock.Anything).Return(true, nil).Once()

		_, err := svc.GetActive(context.Background(), testUserUID)
		assert.NoError(t, err)

		repo.AssertNotCalled(t, "FindActiveSubscription", mock.Anything, mock.Anything)
		cache.AssertExpectations(t)
	})

	t.Run("no active subscription is not an error", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		svc := NewLedgerService(repo, cache, newNoopLogger())

		cacheKey := "subscription:active:" + testUserUID
		cache.On("Get", cacheKey, mock.Anything).Return(false, nil).Once()
		repo.On("FindActiveSubscription", mock.Anything, testUserUID).Return(nil, nil).Once()

		got, err := svc.GetActive(context.Background(), testUserUID)
		assert.NoError(t, err)
		assert.Nil(t, got)

		repo.AssertExpectations(t)
		cache.AssertExpectations(t)
	})
}

func TestLedgerService_History(t *testing.T) {
	now := time.Now()
	history := []*models.Subscription{
		{ID: 43, UserUID: testUserUID, PlanID: 2, StartDate: now, IsActive: true},
		{ID: 42, UserUID: testUserUID, PlanID: 1, StartDate: now.AddDate(0, 0, -10), EndDate: now, IsActive: false},
	}

	repo := new(RepoMock)
	cache := new(CacheMock)
	svc := NewLedgerService(repo, cache, newNoopLogger())

	repo.On("ListSubscriptions", mock.Anything, testUserUID).Return(history, nil).Once()

	got, err := svc.History(context.Background(), testUserUID)
	assert.NoError(t, err)
	assert.Equal(t, history, got)

	repo.AssertExpectations(t)
}
