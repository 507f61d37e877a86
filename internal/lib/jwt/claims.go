// Package jwt реализует генерацию и парсинг JWT токенов с пользовательскими claim полями.
//
// Maker определяет интерфейс для создания и проверки access и refresh токенов.
// MakerImpl — конкретная реализация на секретном ключе HS256.
package jwt

import (
	"time"
)

// Типы токенов, записываемые в claim "token_type".
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Maker описывает интерфейс для генерации и парсинга JWT токенов.
type Maker interface {
	// GenerateToken создает access-токен с uid, email и ролью пользователя.
	GenerateToken(userUID, email, role string) (string, error)
	// GenerateRefreshToken создает refresh-токен с собственным TTL и jti.
	GenerateRefreshToken(userUID string) (string, error)
	// ParseToken возвращает *CustomClaims, если access-токен корректен.
	ParseToken(tokenStr string) (*CustomClaims, error)
	// ParseRefreshToken возвращает *CustomClaims, если refresh-токен корректен.
	ParseRefreshToken(tokenStr string) (*CustomClaims, error)
}

// MakerImpl реализует интерфейс Maker с использованием секретного ключа
// и времени жизни access и refresh токенов.
type MakerImpl struct {
	secretKey  string        // Секретный ключ для подписи токенов
	tokenTTL   time.Duration // Время жизни access-токена
	refreshTTL time.Duration // Время жизни refresh-токена
}

// NewJWTMaker создаёт новый экземпляр MakerImpl.
func NewJWTMaker(secretKey string, tokenTTL, refreshTTL time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey:  secretKey,
		tokenTTL:   tokenTTL,
		refreshTTL: refreshTTL,
	}
}
