package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/premium-blog/internal/models"
	"github.com/redis/go-redis/v9"
)

// ErrNotFound возвращается, если записи нет или истёк срок её жизни.
var ErrNotFound = errors.New("not found")

func registrationKey(token string) string { return "registration:" + token }
func attemptsKey(token string) string     { return "registration:" + token + ":attempts" }
func cooldownKey(phone string) string     { return "sms:cooldown:" + phone }
func revokedKey(jti string) string        { return "jwt:revoked:" + jti }

// SavePendingRegistration сохраняет незавершённую регистрацию до reg.ExpiresAt.
func (c *Cache) SavePendingRegistration(ctx context.Context, reg models.PendingRegistration) error {
	const op = "cache.SavePendingRegistration"
	ttl := time.Until(reg.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("%s: registration already expired", op)
	}
	if err := c.Set(ctx, registrationKey(reg.Token), reg, ttl); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := c.Db.Set(ctx, attemptsKey(reg.Token), 0, ttl).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetPendingRegistration возвращает регистрацию по токену или ErrNotFound.
func (c *Cache) GetPendingRegistration(ctx context.Context, token string) (*models.PendingRegistration, error) {
	const op = "cache.GetPendingRegistration"
	var reg models.PendingRegistration
	found, err := c.Get(ctx, registrationKey(token), &reg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !found {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	attempts, err := c.Db.Get(ctx, attemptsKey(token)).Int()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	reg.Attempts = attempts
	return &reg, nil
}

// incrExisting увеличивает счётчик, только если ключ ещё существует; иначе -1.
var incrExisting = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 0 then
	return -1
end
return redis.call("INCR", KEYS[1])
`)

// IncrementAttempts атомарно увеличивает счётчик попыток ввода кода и возвращает
// новое значение. Для удалённой или истёкшей регистрации возвращает ErrNotFound.
func (c *Cache) IncrementAttempts(ctx context.Context, token string) (int, error) {
	const op = "cache.IncrementAttempts"
	n, err := incrExisting.Run(ctx, c.Db, []string{attemptsKey(token)}).Int()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return n, nil
}

// DeletePendingRegistration удаляет регистрацию и её счётчик попыток.
func (c *Cache) DeletePendingRegistration(ctx context.Context, token string) error {
	const op = "cache.DeletePendingRegistration"
	if err := c.Db.Del(ctx, registrationKey(token), attemptsKey(token)).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// AcquireSMSCooldown занимает окно отправки SMS на номер phone.
// Возвращает false, если предыдущее окно ещё не истекло.
func (c *Cache) AcquireSMSCooldown(ctx context.Context, phone string, cooldown time.Duration) (bool, error) {
	const op = "cache.AcquireSMSCooldown"
	ok, err := c.Db.SetNX(ctx, cooldownKey(phone), 1, cooldown).Result()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return ok, nil
}

// ReleaseSMSCooldown снимает окно, если SMS так и не была отправлена.
func (c *Cache) ReleaseSMSCooldown(ctx context.Context, phone string) error {
	return c.Invalidate(ctx, cooldownKey(phone))
}

// RevokeToken помечает токен с идентификатором jti отозванным до истечения его срока.
func (c *Cache) RevokeToken(ctx context.Context, jti string, ttl time.Duration) error {
	const op = "cache.RevokeToken"
	if ttl <= 0 {
		return nil
	}
	if err := c.Db.Set(ctx, revokedKey(jti), 1, ttl).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// IsRevoked сообщает, отозван ли токен.
func (c *Cache) IsRevoked(ctx context.Context, jti string) (bool, error) {
	const op = "cache.IsRevoked"
	n, err := c.Db.Exists(ctx, revokedKey(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return n > 0, nil
}
