package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/premium-blog/internal/models"
)

const userColumns = `uid, phone_number, email, password_hash, avatar, country, token, is_active, role,
	can_delete_any_post, can_unpublish_post, subscription_status, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var (
		u                      models.User
		email, avatar, country sql.NullString
		token                  sql.NullString
	)
	if err := row.Scan(&u.UID, &u.PhoneNumber, &email, &u.PasswordHash, &avatar, &country, &token,
		&u.IsActive, &u.Role, &u.CanDeleteAnyPost, &u.CanUnpublishPost, &u.SubscriptionStatus, &u.CreatedAt); err != nil {
		return nil, err
	}
	u.Email = nullString(email)
	u.Avatar = nullString(avatar)
	u.Country = nullString(country)
	u.Token = nullString(token)
	return &u, nil
}

// CreateUser сохраняет нового пользователя и возвращает его UID.
// Занятый номер телефона возвращает ErrPhoneTaken.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.CreateUser"
	if err := checkCtx(ctx, op); err != nil {
		return "", err
	}
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	if user.SubscriptionStatus == "" {
		user.SubscriptionStatus = models.SubscriptionStatusNone
	}

	var newID string
	query := `INSERT INTO users (phone_number, email, password_hash, is_active, role, subscription_status)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING uid`
	if err := s.DB.QueryRowContext(ctx, query,
		user.PhoneNumber, user.Email, user.PasswordHash, user.IsActive, user.Role,
		user.SubscriptionStatus).Scan(&newID); err != nil {
		if isUniqueViolation(err, "") {
			return "", fmt.Errorf("%s: %w", op, ErrPhoneTaken)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetUser возвращает пользователя по его UID.
func (s *Storage) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	const op = "storage.GetUser"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}
	u, err := scanUser(s.DB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE uid = $1`, userUID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetUserByPhone возвращает пользователя по номеру телефона.
func (s *Storage) GetUserByPhone(ctx context.Context, phone string) (*models.User, error) {
	const op = "storage.GetUserByPhone"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}
	u, err := scanUser(s.DB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE phone_number = $1`, phone))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// PhoneExists сообщает, зарегистрирован ли номер.
func (s *Storage) PhoneExists(ctx context.Context, phone string) (bool, error) {
	const op = "storage.PhoneExists"
	if err := checkCtx(ctx, op); err != nil {
		return false, err
	}
	var exists bool
	if err := s.DB.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE phone_number = $1)`, phone).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// UpdateProfile обновляет заданные поля профиля. Поля со значением nil не меняются.
func (s *Storage) UpdateProfile(ctx context.Context, userUID string, upd models.ProfileUpdate) (*models.User, error) {
	const op = "storage.UpdateProfile"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}
	query := `UPDATE users SET
			      avatar  = COALESCE($2, avatar),
			      email   = COALESCE($3, email),
			      country = COALESCE($4, country)
			  WHERE uid = $1
			  RETURNING ` + userColumns
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, userUID, upd.Avatar, upd.Email, upd.Country))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}
