// Package catalog содержит бизнес-логику каталога тарифных планов.
// Список активных планов кешируется в Redis и инвалидируется при
// создании нового плана.
package catalog

import (
	"context"
	"log/slog"
	"time"

	"github.com/clueapp/subscription-api/internal/models"
)

// Ключ кеша списка активных планов.
const activePlansKey = "plans:active"

// PlanRepository определяет методы для работы с планами в хранилище.
type PlanRepository interface {
	// CreatePlan добавляет новый план и возвращает его с ID.
	CreatePlan(ctx context.Context, plan models.Plan) (*models.Plan, error)
	// ListActivePlans возвращает активные планы по возрастанию цены.
	ListActivePlans(ctx context.Context) ([]*models.Plan, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// CatalogService реализует операции каталога планов.
type CatalogService struct {
	repo  PlanRepository
	cache Cache
	log   *slog.Logger
}

// NewCatalogService создает новый экземпляр CatalogService.
func NewCatalogService(repo PlanRepository, cache Cache, log *slog.Logger) *CatalogService {
	return &CatalogService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// ListActive возвращает активные планы по возрастанию цены,
// используя кеш или репозиторий.
func (s *CatalogService) ListActive(ctx context.Context) ([]*models.Plan, error) {
	var cached []*models.Plan
	found, err := s.cache.Get(activePlansKey, &cached)
	if err != nil {
		s.log.Warn("failed to read plans from cache", slog.Any("err", err))
	}
	if found {
		return cached, nil
	}

	plans, err := s.repo.ListActivePlans(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(activePlansKey, plans, 5*time.Minute); err != nil {
		s.log.Warn("failed to cache plans", slog.Any("err", err))
	}
	return plans, nil
}

// Create создает новый тарифный план и инвалидирует кеш списка.
// Новые планы создаются активными.
func (s *CatalogService) Create(ctx context.Context, req models.CreatePlanRequest) (*models.Plan, error) {
	plan := models.Plan{
		Name:         req.Name,
		Price:        req.Price,
		DurationDays: req.DurationDays,
	}
	created, err := s.repo.CreatePlan(ctx, plan)
	if err != nil {
		return nil, err
	}

	s.log.Info("created new plan", slog.Int64("id", created.ID), slog.String("name", created.Name))

	if err := s.cache.Invalidate(activePlansKey); err != nil {
		s.log.Warn("failed to invalidate plans cache", slog.Any("err", err))
	}
	return created, nil
}
