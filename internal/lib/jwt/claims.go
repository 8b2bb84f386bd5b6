package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrWrongTokenType возвращается, если тип токена не совпадает с ожидаемым.
var ErrWrongTokenType = errors.New("wrong token type")

// CustomClaims описывает пользовательские данные, хранящиеся в JWT.
type CustomClaims struct {
	UserUID              string `json:"uid"`
	Phone                string `json:"phone"`
	Role                 string `json:"role"`
	Type                 string `json:"typ"`
	jwt.RegisteredClaims        // ExpiresAt, IssuedAt, ID (jti)
}

// GeneratePair создаёт access и refresh токены для пользователя.
func (j *MakerImpl) GeneratePair(userUID, phone, role string) (Pair, error) {
	const op = "jwt.GeneratePair"
	access, err := j.sign(userUID, phone, role, TypeAccess, j.accessTTL)
	if err != nil {
		return Pair{}, fmt.Errorf("%s: %w", op, err)
	}
	refresh, err := j.sign(userUID, phone, role, TypeRefresh, j.refreshTTL)
	if err != nil {
		return Pair{}, fmt.Errorf("%s: %w", op, err)
	}
	return Pair{Access: access, Refresh: refresh}, nil
}

// GenerateAccess создаёт только access-токен, используется при обновлении по refresh-токену.
func (j *MakerImpl) GenerateAccess(userUID, phone, role string) (string, error) {
	return j.sign(userUID, phone, role, TypeAccess, j.accessTTL)
}

func (j *MakerImpl) sign(userUID, phone, role, tokenType string, ttl time.Duration) (string, error) {
	now := j.now()
	claims := CustomClaims{
		UserUID: userUID,
		Phone:   phone,
		Role:    role,
		Type:    tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userUID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.secretKey))
}

// ParseToken парсит JWT токен, проверяет подпись, срок действия и тип,
// возвращает CustomClaims, если токен корректен.
func (j *MakerImpl) ParseToken(tokenStr, tokenType string) (*CustomClaims, error) {
	const op = "jwt.ParseToken"
	token, err := jwt.ParseWithClaims(tokenStr, &CustomClaims{}, func(_ *jwt.Token) (any, error) {
		return []byte(j.secretKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%s: invalid token", op)
	}
	if claims.Type != tokenType {
		return nil, fmt.Errorf("%s: %w", op, ErrWrongTokenType)
	}
	return claims, nil
}
