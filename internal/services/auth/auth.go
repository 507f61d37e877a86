// Package auth содержит логику кредентиал-стора: регистрацию, аутентификацию
// по email или телефону, выпуск и обновление JWT, чтение и изменение профиля.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/clueapp/subscription-api/internal/lib/jwt"
	"github.com/clueapp/subscription-api/internal/lib/password"
	"github.com/clueapp/subscription-api/internal/models"
	"github.com/clueapp/subscription-api/internal/storage/repository"
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// CreateUser сохраняет нового пользователя и возвращает его с uid.
	CreateUser(ctx context.Context, user models.User) (*models.User, error)
	// GetUserByLogin возвращает пользователя по email или телефону.
	GetUserByLogin(ctx context.Context, identifier string) (*models.User, error)
	// GetUserByUID возвращает пользователя по uid.
	GetUserByUID(ctx context.Context, uid string) (*models.User, error)
	// UpdateUser выполняет частичное обновление профиля.
	UpdateUser(ctx context.Context, uid string, req models.UpdateUserRequest) (*models.User, error)
}

// TokenPair — выпущенные access и refresh токены.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// AuthService отвечает за регистрацию, авторизацию и работу с JWT.
type AuthService struct {
	users    UserRepository
	jwtMaker jwt.Maker
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, jwtMaker jwt.Maker) *AuthService {
	return &AuthService{
		users:    users,
		jwtMaker: jwtMaker,
	}
}

// Register создает нового пользователя с хэшированием пароля.
// Пользователь создаётся активным, с ролью обычного пользователя.
// Дубликат email или телефона возвращается как *Error с кодом;
// любая другая ошибка уходит наверх как есть — обработчик регистрации
// переводит её в 500 с текстом ошибки.
func (s *AuthService) Register(ctx context.Context, email, fullName string, phone *string, rawPassword string) (*models.User, error) {
	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return nil, err
	}
	user := models.User{
		Email:        email,
		Phone:        phone,
		FullName:     fullName,
		PasswordHash: hashed,
		IsUser:       true,
		IsActive:     true,
	}
	created, err := s.users.CreateUser(ctx, user)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEmailExists):
			return nil, ErrEmailExists
		case errors.Is(err, repository.ErrPhoneExists):
			return nil, ErrPhoneExists
		}
		return nil, err
	}
	return created, nil
}

// Login аутентифицирует пользователя по email или телефону и паролю,
// возвращает пользователя и пару токенов. Все отказы типизированы
// кодами: EMAIL_REQUIRED, PASSWORD_REQUIRED, USER_NOT_FOUND,
// INVALID_CREDENTIALS, ACCOUNT_INACTIVE.
func (s *AuthService) Login(ctx context.Context, identifier, rawPassword string) (*models.User, *TokenPair, error) {
	if identifier == "" {
		return nil, nil, ErrEmailRequired
	}
	if rawPassword == "" {
		return nil, nil, ErrPasswordRequired
	}

	user, err := s.users.GetUserByLogin(ctx, identifier)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, nil, ErrUserNotFound
		}
		return nil, nil, err
	}
	if err = password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return nil, nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, nil, ErrAccountInactive
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}
	return user, tokens, nil
}

// Refresh проверяет refresh-токен и выпускает новый access-токен.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	const op = "auth.Refresh"
	claims, err := s.jwtMaker.ParseRefreshToken(refreshToken)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	user, err := s.users.GetUserByUID(ctx, claims.UserUID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if !user.IsActive {
		return "", fmt.Errorf("%s: %w", op, ErrAccountInactive)
	}
	return s.jwtMaker.GenerateToken(user.UID, user.Email, user.Role())
}

// Profile возвращает профиль пользователя по uid.
func (s *AuthService) Profile(ctx context.Context, uid string) (*models.User, error) {
	return s.users.GetUserByUID(ctx, uid)
}

// UpdateProfile выполняет частичное обновление профиля: меняются только
// full_name и phone, email и служебные флаги неизменяемы.
func (s *AuthService) UpdateProfile(ctx context.Context, uid string, req models.UpdateUserRequest) (*models.User, error) {
	updated, err := s.users.UpdateUser(ctx, uid, req)
	if err != nil {
		if errors.Is(err, repository.ErrPhoneExists) {
			return nil, ErrPhoneExists
		}
		return nil, err
	}
	return updated, nil
}

// ValidateToken проверяет access-токен и возвращает его claims.
func (s *AuthService) ValidateToken(_ context.Context, token string) (*jwt.CustomClaims, error) {
	return s.jwtMaker.ParseToken(token)
}

func (s *AuthService) issueTokens(user *models.User) (*TokenPair, error) {
	access, err := s.jwtMaker.GenerateToken(user.UID, user.Email, user.Role())
	if err != nil {
		return nil, err
	}
	refresh, err := s.jwtMaker.GenerateRefreshToken(user.UID)
	if err != nil {
		return nil, err
	}
	return &TokenPair{Access: access, Refresh: refresh}, nil
}
