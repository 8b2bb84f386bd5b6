// Package jwt реализует генерацию и парсинг JWT токенов доступа и обновления.
//
// Maker выпускает пару токенов: короткоживущий access и долгоживущий refresh.
// Тип токена хранится в claim "typ", что не даёт использовать refresh вместо access.
package jwt

import (
	"time"
)

// Типы токенов.
const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

// Pair — выданная пара токенов.
type Pair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Maker описывает интерфейс для генерации и парсинга JWT токенов.
type Maker interface {
	GeneratePair(userUID, phone, role string) (Pair, error)
	GenerateAccess(userUID, phone, role string) (string, error)
	ParseToken(tokenStr, tokenType string) (*CustomClaims, error)
}

// MakerImpl реализует Maker с подписью HS256 секретным ключом.
type MakerImpl struct {
	secretKey  string        // Секретный ключ для подписи токенов.
	accessTTL  time.Duration // Время жизни access-токена.
	refreshTTL time.Duration // Время жизни refresh-токена.
	now        func() time.Time
}

// NewJWTMaker создаёт новый экземпляр MakerImpl на основе секретного ключа и времён жизни токенов.
func NewJWTMaker(secretKey string, accessTTL, refreshTTL time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey:  secretKey,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}
