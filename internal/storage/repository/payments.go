package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/premium-blog/internal/models"
)

const paymentColumns = `id, user_uid, amount, currency, method, paid_post_id, paid_series_id, subscription_id,
	provider_session_id, checkout_url, idempotency_key, status, created_at, updated_at`

func scanPayment(row rowScanner) (*models.Payment, error) {
	var (
		p                       models.Payment
		postID, seriesID, subID sql.NullInt64
		sessionID, checkoutURL  sql.NullString
	)
	if err := row.Scan(&p.ID, &p.UserUID, &p.Amount, &p.Currency, &p.Method, &postID, &seriesID, &subID,
		&sessionID, &checkoutURL, &p.IdempotencyKey, &p.Status, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.PaidPostID = nullInt64(postID)
	p.PaidSeriesID = nullInt64(seriesID)
	p.SubscriptionID = nullInt64(subID)
	p.ProviderSessionID = nullString(sessionID)
	p.CheckoutURL = nullString(checkoutURL)
	return &p, nil
}

// CreatePayment сохраняет платёж в статусе pending. Если платёж с тем же ключом идемпотентности
// у пользователя уже есть, возвращает существующий и created = false.
func (s *Storage) CreatePayment(ctx context.Context, p models.Payment) (payment *models.Payment, created bool, err error) {
	const op = "storage.CreatePayment"
	if err := checkCtx(ctx, op); err != nil {
		return nil, false, err
	}
	if p.Method == "" {
		p.Method = models.MethodCard
	}
	query := `INSERT INTO payments (user_uid, amount, currency, method, paid_post_id, paid_series_id,
			      subscription_id, idempotency_key, status)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			  ON CONFLICT (user_uid, idempotency_key) DO NOTHING
			  RETURNING ` + paymentColumns
	payment, err = scanPayment(s.DB.QueryRowContext(ctx, query,
		p.UserUID, p.Amount, p.Currency, p.Method, p.PaidPostID, p.PaidSeriesID, p.SubscriptionID,
		p.IdempotencyKey, models.PaymentPending))
	if err == nil {
		return payment, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}
	payment, err = scanPayment(s.DB.QueryRowContext(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE user_uid = $1 AND idempotency_key = $2`,
		p.UserUID, p.IdempotencyKey))
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}
	return payment, false, nil
}

// GetPayment возвращает платёж по ID.
func (s *Storage) GetPayment(ctx context.Context, id int64) (*models.Payment, error) {
	const op = "storage.GetPayment"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}
	p, err := scanPayment(s.DB.QueryRowContext(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// GetPaymentBySession возвращает платёж по идентификатору сессии провайдера.
func (s *Storage) GetPaymentBySession(ctx context.Context, sessionID string) (*models.Payment, error) {
	const op = "storage.GetPaymentBySession"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}
	p, err := scanPayment(s.DB.QueryRowContext(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE provider_session_id = $1`, sessionID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// AttachSession сохраняет сессию оплаты провайдера у платежа в статусе pending.
func (s *Storage) AttachSession(ctx context.Context, id int64, sessionID, checkoutURL string) error {
	const op = "storage.AttachSession"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}
	res, err := s.DB.ExecContext(ctx,
		`UPDATE payments SET provider_session_id = $2, checkout_url = $3, updated_at = NOW()
		 WHERE id = $1 AND status = $4`,
		id, sessionID, checkoutURL, models.PaymentPending)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, ErrStatusConflict)
	}
	return nil
}

// TransitionPayment переводит платёж из from в to, только если сейчас он в статусе from.
// Если статус уже другой, возвращает ErrStatusConflict и ничего не меняет.
func (s *Storage) TransitionPayment(ctx context.Context, id int64, from, to models.PaymentStatus) error {
	const op = "storage.TransitionPayment"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}
	if !models.CanTransition(from, to) {
		return fmt.Errorf("%s: %s -> %s: %w", op, from, to, ErrStatusConflict)
	}
	res, err := s.DB.ExecContext(ctx,
		`UPDATE payments SET status = $3, updated_at = NOW() WHERE id = $1 AND status = $2`, id, from, to)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, ErrStatusConflict)
	}
	return nil
}

// FulfillPayment в одной транзакции переводит оплаченный платёж в fulfilled, продлевает
// подписку пользователя на period и отмечает пользователя как оплатившего.
// Для платежа не в статусе paid возвращает ErrStatusConflict.
func (s *Storage) FulfillPayment(ctx context.Context, id int64, now time.Time, period time.Duration) (*models.Subscription, error) {
	const op = "storage.FulfillPayment"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var userUID string
	var price int64
	err = tx.QueryRowContext(ctx,
		`UPDATE payments SET status = $3, updated_at = NOW()
		 WHERE id = $1 AND status = $2
		 RETURNING user_uid, amount`,
		id, models.PaymentPaid, models.PaymentFulfilled).Scan(&userUID, &price)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrStatusConflict)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO subscriptions (user_uid, subscription_level, price, starts_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_uid) DO NOTHING`,
		userUID, models.LevelSingle, price, now); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	sub, err := getSubscription(ctx, tx, userUID, true)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	sub.Renew(now, period)
	if _, err = tx.ExecContext(ctx,
		`UPDATE subscriptions SET starts_at = $2, ends_at = $3 WHERE id = $1`,
		sub.ID, sub.StartsAt, sub.EndsAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if _, err = tx.ExecContext(ctx,
		`UPDATE payments SET subscription_id = $2 WHERE id = $1`, id, sub.ID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if _, err = tx.ExecContext(ctx,
		`UPDATE users SET subscription_status = $2 WHERE uid = $1`, userUID, models.SubscriptionStatusPaid); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sub, nil
}

// ListPaymentsByUser возвращает платежи пользователя, новые первыми.
func (s *Storage) ListPaymentsByUser(ctx context.Context, userUID string) ([]*models.Payment, error) {
	const op = "storage.ListPaymentsByUser"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}
	rows, err := s.DB.QueryContext(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE user_uid = $1 ORDER BY id DESC`, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]*models.Payment, 0)
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
