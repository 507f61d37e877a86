// Package ledger содержит бизнес-логику жизненного цикла подписки.
//
// Для каждого аккаунта действует инвариант: не более одной активной записи
// одновременно. Переходы subscribe/upgrade/cancel выполняются хранилищем
// атомарно; сервис добавляет логирование и кеширование активной записи.
// Истечение по end_date фоновым процессом не обрабатывается — активность
// снимается только явным действием пользователя.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/clueapp/subscription-api/internal/models"
)

// SubscriptionRepository определяет методы для работы с записями подписок.
// Транзитивные методы (Create/Upgrade/Cancel) обязаны выполнять проверку
// предусловий и запись в одной транзакции.
type SubscriptionRepository interface {
	CreateSubscription(ctx context.Context, userUID string, planID int64) (*models.Subscription, error)
	UpgradeSubscription(ctx context.Context, userUID string, newPlanID int64) (*models.Subscription, error)
	CancelSubscription(ctx context.Context, userUID string) (*models.Subscription, error)
	FindActiveSubscription(ctx context.Context, userUID string) (*models.Subscription, error)
	ListSubscriptions(ctx context.Context, userUID string) ([]*models.Subscription, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// LedgerService реализует операции над подписками пользователя.
type LedgerService struct {
	repo  SubscriptionRepository
	cache Cache
	log   *slog.Logger
}

// NewLedgerService создает новый экземпляр LedgerService.
func NewLedgerService(repo SubscriptionRepository, cache Cache, log *slog.Logger) *LedgerService {
	return &LedgerService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

func activeKey(userUID string) string {
	return fmt.Sprintf("subscription:active:%s", userUID)
}

// Subscribe оформляет подписку пользователя на план.
// Возвращает ошибку хранилища, если план не найден или активная
// подписка уже есть.
func (s *LedgerService) Subscribe(ctx context.Context, userUID string, planID int64) (*models.Subscription, error) {
	sub, err := s.repo.CreateSubscription(ctx, userUID, planID)
	if err != nil {
		return nil, err
	}

	s.log.Info("created new subscription",
		slog.Int64("id", sub.ID), slog.Int64("plan_id", sub.PlanID))

	s.invalidateActive(userUID)
	return sub, nil
}

// Upgrade переводит пользователя на более дорогой план. Без активной
// подписки ведёт себя как Subscribe — эта асимметрия сохранена намеренно.
func (s *LedgerService) Upgrade(ctx context.Context, userUID string, newPlanID int64) (*models.Subscription, error) {
	sub, err := s.repo.UpgradeSubscription(ctx, userUID, newPlanID)
	if err != nil {
		return nil, err
	}

	s.log.Info("upgraded subscription",
		slog.Int64("id", sub.ID), slog.Int64("plan_id", sub.PlanID))

	s.invalidateActive(userUID)
	return sub, nil
}

// Cancel деактивирует активную подписку пользователя.
func (s *LedgerService) Cancel(ctx context.Context, userUID string) (*models.Subscription, error) {
	sub, err := s.repo.CancelSubscription(ctx, userUID)
	if err != nil {
		return nil, err
	}

	s.log.Info("cancelled subscription", slog.Int64("id", sub.ID))

	s.invalidateActive(userUID)
	return sub, nil
}

// GetActive возвращает активную подписку пользователя или nil,
// используя кеш или репозиторий.
func (s *LedgerService) GetActive(ctx context.Context, userUID string) (*models.Subscription, error) {
	cacheKey := activeKey(userUID)
	var cached *models.Subscription
	found, err := s.cache.Get(cacheKey, &cached)
	if err != nil {
		s.log.Warn("failed to read active subscription from cache",
			slog.String("key", cacheKey), slog.Any("err", err))
	}
	if found {
		return cached, nil
	}

	sub, err := s.repo.FindActiveSubscription(ctx, userUID)
	if err != nil {
		return nil, err
	}
	if sub != nil {
		if err := s.cache.Set(cacheKey, sub, time.Hour); err != nil {
			s.log.Warn("failed to cache active subscription",
				slog.String("key", cacheKey), slog.Any("err", err))
		}
	}
	return sub, nil
}

// History возвращает всю историю подписок пользователя,
// самые свежие — первыми.
func (s *LedgerService) History(ctx context.Context, userUID string) ([]*models.Subscription, error) {
	return s.repo.ListSubscriptions(ctx, userUID)
}

func (s *LedgerService) invalidateActive(userUID string) {
	cacheKey := activeKey(userUID)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to invalidate active subscription cache",
			slog.String("key", cacheKey), slog.Any("err", err))
	}
}
