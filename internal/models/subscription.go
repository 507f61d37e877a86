package models

import "time"

// Subscription представляет одну запись подписки пользователя на план.
// История не удаляется: при отмене или апгрейде запись деактивируется,
// а end_date выставляется в момент деактивации.
type Subscription struct {
	ID        int64     `json:"id"`         // Идентификатор записи
	UserUID   string    `json:"-"`          // Владелец записи
	PlanID    int64     `json:"plan_id"`    // План, на который оформлена подписка
	PlanName  string    `json:"plan_name"`  // Название плана (читается по JOIN)
	PlanPrice float64   `json:"plan_price"` // Текущая цена плана (читается по JOIN)
	StartDate time.Time `json:"start_date"` // Дата начала
	EndDate   time.Time `json:"end_date"`   // Дата окончания или деактивации
	IsActive  bool      `json:"is_active"`  // Действует ли запись сейчас
}
