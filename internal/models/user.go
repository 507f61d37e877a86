// Package models содержит доменные структуры сервиса: учётные записи,
// тарифные планы и записи подписок, а также вспомогательные типы для
// приёма данных из JSON-запросов.
package models

import "time"

// User представляет учётную запись пользователя системы.
// Пароль хранится только в виде bcrypt-хэша.
type User struct {
	UID          string    `json:"id"`         // Уникальный идентификатор пользователя
	Email        string    `json:"email"`      // Электронная почта (уникальная)
	Phone        *string   `json:"phone"`      // Телефон (уникальный, необязательный)
	FullName     string    `json:"full_name"`  // Полное имя
	PasswordHash string    `json:"-"`          // Хэш пароля, наружу не отдаётся
	IsUser       bool      `json:"is_user"`    // Признак обычного пользователя
	IsAdmin      bool      `json:"is_admin"`   // Признак администратора
	IsActive     bool      `json:"is_active"`  // Активна ли учётная запись
	IsSuperuser  bool      `json:"-"`          // Суперпользователь
	IsStaff      bool      `json:"is_staff"`   // Доступ к административным операциям
	CreatedAt    time.Time `json:"created_at"` // Дата создания
	UpdatedAt    time.Time `json:"updated_at"` // Дата последнего обновления
}

// Role возвращает роль пользователя для JWT-клеймов: "admin" для
// административных учёток, иначе "user".
func (u *User) Role() string {
	if u.IsAdmin || u.IsStaff || u.IsSuperuser {
		return "admin"
	}
	return "user"
}

// UpdateUserRequest описывает частичное обновление профиля.
// Email и служебные флаги через этот запрос не меняются.
type UpdateUserRequest struct {
	FullName *string `json:"full_name,omitempty" validate:"omitempty,max=50"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,min=5,max=50"`
}
