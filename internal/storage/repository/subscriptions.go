package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/premium-blog/internal/models"
)

const subscriptionColumns = `id, user_uid, subscription_level, price, starts_at, ends_at`

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func scanSubscription(row rowScanner) (*models.Subscription, error) {
	var (
		sub    models.Subscription
		endsAt sql.NullTime
	)
	if err := row.Scan(&sub.ID, &sub.UserUID, &sub.Level, &sub.Price, &sub.StartsAt, &endsAt); err != nil {
		return nil, err
	}
	sub.EndsAt = nullTime(endsAt)
	return &sub, nil
}

// GetSubscriptionByUser возвращает подписку пользователя или ErrNotFound.
func (s *Storage) GetSubscriptionByUser(ctx context.Context, userUID string) (*models.Subscription, error) {
	const op = "storage.GetSubscriptionByUser"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}
	sub, err := getSubscription(ctx, s.DB, userUID, false)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sub, nil
}

func getSubscription(ctx context.Context, q queryRower, userUID string, forUpdate bool) (*models.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE user_uid = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	sub, err := scanSubscription(q.QueryRowContext(ctx, query, userUID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return sub, err
}

// EnsureSubscription возвращает подписку пользователя, создавая её без срока действия, если её нет.
func (s *Storage) EnsureSubscription(ctx context.Context, userUID string, price int64) (*models.Subscription, error) {
	const op = "storage.EnsureSubscription"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}
	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO subscriptions (user_uid, subscription_level, price, starts_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_uid) DO NOTHING`,
		userUID, models.LevelSingle, price, s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	sub, err := getSubscription(ctx, s.DB, userUID, false)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sub, nil
}

// FindSubscriptionsExpiringTomorrow возвращает уведомления для подписок, которые заканчиваются завтра.
func (s *Storage) FindSubscriptionsExpiringTomorrow(ctx context.Context) ([]models.Notification, error) {
	const op = "storage.FindSubscriptionsExpiringTomorrow"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}
	query := `SELECT u.uid, u.phone_number, COALESCE(u.email, ''), s.ends_at
			  FROM subscriptions s
			  JOIN users u ON u.uid = s.user_uid
			  WHERE s.ends_at::DATE = CURRENT_DATE + 1`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.Notification
	for rows.Next() {
		var (
			n      models.Notification
			endsAt time.Time
		)
		if err := rows.Scan(&n.UserUID, &n.PhoneNumber, &n.Email, &endsAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		n.Kind = models.NotifySubscriptionExpiring
		n.EndsAt = &endsAt
		result = append(result, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
