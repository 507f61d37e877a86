package models

// Plan представляет тарифный план подписки.
// Цена и длительность после создания не редактируются,
// план можно только деактивировать.
type Plan struct {
	ID           int64   `json:"id"`            // Идентификатор плана
	Name         string  `json:"name"`          // Название (уникальное)
	Price        float64 `json:"price"`         // Цена, >= 0
	DurationDays int     `json:"duration_days"` // Длительность в днях, > 0
	IsActive     bool    `json:"is_active"`     // Доступен ли план для подписки
}

// CreatePlanRequest используется для приёма данных из JSON-запроса
// на создание нового тарифного плана.
type CreatePlanRequest struct {
	Name         string  `json:"name" validate:"required,min=1,max=50"`
	Price        float64 `json:"price" validate:"gte=0"`
	DurationDays int     `json:"duration_days" validate:"required,gt=0"`
}
