// Package auth содержит логику регистрации по телефону с подтверждением кодом из SMS,
// входа по паролю, выдачи и отзыва JWT и работы с профилем пользователя.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/magabrotheeeer/premium-blog/internal/cache"
	"github.com/magabrotheeeer/premium-blog/internal/lib/jwt"
	"github.com/magabrotheeeer/premium-blog/internal/lib/password"
	"github.com/magabrotheeeer/premium-blog/internal/lib/sl"
	"github.com/magabrotheeeer/premium-blog/internal/lib/verification"
	"github.com/magabrotheeeer/premium-blog/internal/metrics"
	"github.com/magabrotheeeer/premium-blog/internal/models"
	"github.com/magabrotheeeer/premium-blog/internal/smsgateway"
	"github.com/magabrotheeeer/premium-blog/internal/storage/repository"
)

var (
	ErrInvalidPhone        = errors.New("invalid phone number")
	ErrInvalidPassword     = errors.New("password must be at most 72 bytes")
	ErrPhoneTaken          = errors.New("phone number already registered")
	ErrTooManyRequests     = errors.New("code was sent recently, try later")
	ErrSMSDelivery         = errors.New("failed to deliver sms")
	ErrRegistrationExpired = errors.New("registration expired or not found")
	ErrInvalidCode         = errors.New("invalid verification code")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidToken        = errors.New("invalid token")
	ErrUserNotFound        = errors.New("user not found")
)

// CodeMessage — шаблон текста SMS с кодом подтверждения.
const CodeMessage = "Ваш код подтверждения: %s"

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) (string, error)
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	GetUserByPhone(ctx context.Context, phone string) (*models.User, error)
	PhoneExists(ctx context.Context, phone string) (bool, error)
	UpdateProfile(ctx context.Context, userUID string, upd models.ProfileUpdate) (*models.User, error)
}

// PendingStore хранит незавершённые регистрации, окна отправки SMS и отозванные токены.
type PendingStore interface {
	SavePendingRegistration(ctx context.Context, reg models.PendingRegistration) error
	GetPendingRegistration(ctx context.Context, token string) (*models.PendingRegistration, error)
	IncrementAttempts(ctx context.Context, token string) (int, error)
	DeletePendingRegistration(ctx context.Context, token string) error
	AcquireSMSCooldown(ctx context.Context, phone string, cooldown time.Duration) (bool, error)
	ReleaseSMSCooldown(ctx context.Context, phone string) error
	RevokeToken(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// SMSSender отправляет SMS.
type SMSSender interface {
	Send(ctx context.Context, phone, text string) (*smsgateway.Result, error)
}

// Options — параметры подтверждения телефона.
type Options struct {
	CodeTTL        time.Duration
	MaxAttempts    int
	ResendCooldown time.Duration
}

// Registration — выданный клиенту токен незавершённой регистрации.
type Registration struct {
	Token     string    `json:"registration_token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Service отвечает за регистрацию, авторизацию и валидацию JWT.
type Service struct {
	users    UserRepository
	pending  PendingStore
	sms      SMSSender
	jwtMaker jwt.Maker
	opts     Options
	log      *slog.Logger
	metrics  *metrics.Metrics
	now      func() time.Time
}

// New создает новый экземпляр Service.
func New(users UserRepository, pending PendingStore, sms SMSSender, jwtMaker jwt.Maker,
	opts Options, log *slog.Logger, m *metrics.Metrics) *Service {
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = 5
	}
	if opts.CodeTTL <= 0 {
		opts.CodeTTL = 10 * time.Minute
	}
	return &Service{
		users:    users,
		pending:  pending,
		sms:      sms,
		jwtMaker: jwtMaker,
		opts:     opts,
		log:      log,
		metrics:  m,
		now:      time.Now,
	}
}

func hashPassword(op, rawPassword string) (string, error) {
	hash, err := password.GetHash(rawPassword)
	if errors.Is(err, password.ErrTooLong) {
		return "", ErrInvalidPassword
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return hash, nil
}

func emailPtr(email string) *string {
	email = verification.NormalizeEmail(email)
	if email == "" {
		return nil
	}
	return &email
}

// StartRegistration проверяет номер, отправляет на него код подтверждения и сохраняет
// незавершённую регистрацию под новым токеном. Пароль хранится только в виде хэша.
func (s *Service) StartRegistration(ctx context.Context, phone, email, rawPassword string) (reg *Registration, err error) {
	const op = "auth.StartRegistration"
	defer func() { s.metrics.Registration("start", err) }()

	phone, err = verification.NormalizePhone(phone)
	if err != nil {
		return nil, ErrInvalidPhone
	}
	log := s.log.With(slog.String("op", op), sl.Phone(phone))

	taken, err := s.users.PhoneExists(ctx, phone)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if taken {
		return nil, ErrPhoneTaken
	}

	hash, err := hashPassword(op, rawPassword)
	if err != nil {
		return nil, err
	}

	ok, err := s.pending.AcquireSMSCooldown(ctx, phone, s.opts.ResendCooldown)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !ok {
		return nil, ErrTooManyRequests
	}
	// до успешной отправки SMS окно снимается при любой ошибке
	sent := false
	defer func() {
		if sent {
			return
		}
		if relErr := s.pending.ReleaseSMSCooldown(ctx, phone); relErr != nil {
			log.Error("failed to release sms cooldown", sl.Err(relErr))
		}
	}()

	code, err := verification.GenerateCode(verification.CodeLength)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	pending := models.PendingRegistration{
		Token:        uuid.NewString(),
		PhoneNumber:  phone,
		Email:        verification.NormalizeEmail(email),
		PasswordHash: hash,
		Code:         code,
		ExpiresAt:    s.now().Add(s.opts.CodeTTL),
	}
	if err := s.pending.SavePendingRegistration(ctx, pending); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	_, err = s.sms.Send(ctx, phone, fmt.Sprintf(CodeMessage, code))
	s.metrics.SMSSent(err)
	if err != nil {
		log.Error("verification code not delivered", sl.Err(err))
		if delErr := s.pending.DeletePendingRegistration(ctx, pending.Token); delErr != nil {
			log.Error("failed to drop pending registration", sl.Err(delErr))
		}
		return nil, fmt.Errorf("%s: %w: %w", op, ErrSMSDelivery, err)
	}
	sent = true

	log.Info("verification code sent")
	return &Registration{Token: pending.Token, ExpiresAt: pending.ExpiresAt}, nil
}

// ConfirmRegistration сверяет код и создаёт пользователя с сохранёнными данными.
// После MaxAttempts неудачных попыток регистрация удаляется.
func (s *Service) ConfirmRegistration(ctx context.Context, token, code string) (uid string, err error) {
	const op = "auth.ConfirmRegistration"
	defer func() { s.metrics.Registration("confirm", err) }()

	reg, err := s.pending.GetPendingRegistration(ctx, token)
	if errors.Is(err, cache.ErrNotFound) {
		return "", ErrRegistrationExpired
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if !s.now().Before(reg.ExpiresAt) {
		s.dropPending(ctx, op, token)
		return "", ErrRegistrationExpired
	}

	// попытка засчитывается до сравнения, иначе параллельные запросы
	// успевают проверить код сверх лимита
	attempts, err := s.pending.IncrementAttempts(ctx, token)
	if errors.Is(err, cache.ErrNotFound) {
		return "", ErrRegistrationExpired
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if attempts > s.opts.MaxAttempts {
		s.dropPending(ctx, op, token)
		return "", ErrRegistrationExpired
	}

	if !verification.CodesEqual(reg.Code, code) {
		if attempts >= s.opts.MaxAttempts {
			s.dropPending(ctx, op, token)
		}
		return "", ErrInvalidCode
	}

	uid, err = s.users.CreateUser(ctx, models.User{
		PhoneNumber:  reg.PhoneNumber,
		Email:        emailPtr(reg.Email),
		PasswordHash: reg.PasswordHash,
		IsActive:     true,
		Role:         models.RoleUser,
	})
	if errors.Is(err, repository.ErrPhoneTaken) {
		s.dropPending(ctx, op, token)
		return "", ErrPhoneTaken
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	s.dropPending(ctx, op, token)

	s.log.Info("user registered", slog.String("op", op), slog.String("user_uid", uid))
	return uid, nil
}

func (s *Service) dropPending(ctx context.Context, op, token string) {
	if err := s.pending.DeletePendingRegistration(ctx, token); err != nil {
		s.log.Error("failed to delete pending registration", slog.String("op", op), sl.Err(err))
	}
}

// CreateUser создаёт активного пользователя без подтверждения телефона (API-регистрация).
func (s *Service) CreateUser(ctx context.Context, phone, email, rawPassword string) (string, error) {
	const op = "auth.CreateUser"
	phone, err := verification.NormalizePhone(phone)
	if err != nil {
		return "", ErrInvalidPhone
	}
	hash, err := hashPassword(op, rawPassword)
	if err != nil {
		return "", err
	}
	uid, err := s.users.CreateUser(ctx, models.User{
		PhoneNumber:  phone,
		Email:        emailPtr(email),
		PasswordHash: hash,
		IsActive:     true,
		Role:         models.RoleUser,
	})
	if errors.Is(err, repository.ErrPhoneTaken) {
		return "", ErrPhoneTaken
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return uid, nil
}

// Login проверяет пароль пользователя и выдаёт пару JWT.
func (s *Service) Login(ctx context.Context, phone, rawPassword string) (jwt.Pair, error) {
	const op = "auth.Login"
	phone, err := verification.NormalizePhone(phone)
	if err != nil {
		return jwt.Pair{}, ErrInvalidCredentials
	}
	user, err := s.users.GetUserByPhone(ctx, phone)
	if errors.Is(err, repository.ErrNotFound) {
		return jwt.Pair{}, ErrInvalidCredentials
	}
	if err != nil {
		return jwt.Pair{}, fmt.Errorf("%s: %w", op, err)
	}
	if !user.IsActive {
		return jwt.Pair{}, ErrInvalidCredentials
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		if errors.Is(err, password.ErrMismatch) {
			return jwt.Pair{}, ErrInvalidCredentials
		}
		return jwt.Pair{}, fmt.Errorf("%s: %w", op, err)
	}
	pair, err := s.jwtMaker.GeneratePair(user.UID, user.PhoneNumber, user.Role)
	if err != nil {
		return jwt.Pair{}, fmt.Errorf("%s: %w", op, err)
	}
	return pair, nil
}

func (s *Service) parseRefresh(ctx context.Context, refreshToken string) (*jwt.CustomClaims, error) {
	claims, err := s.jwtMaker.ParseToken(refreshToken, jwt.TypeRefresh)
	if err != nil {
		return nil, ErrInvalidToken
	}
	revoked, err := s.pending.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Refresh выдаёт новый access-токен по действующему refresh-токену.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (string, error) {
	const op = "auth.Refresh"
	claims, err := s.parseRefresh(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, ErrInvalidToken) {
			return "", err
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	user, err := s.users.GetUser(ctx, claims.UserUID)
	if errors.Is(err, repository.ErrNotFound) {
		return "", ErrInvalidToken
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if !user.IsActive {
		return "", ErrInvalidToken
	}
	access, err := s.jwtMaker.GenerateAccess(user.UID, user.PhoneNumber, user.Role)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return access, nil
}

// Logout отзывает refresh-токен до конца срока его действия.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	const op = "auth.Logout"
	claims, err := s.parseRefresh(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, ErrInvalidToken) {
			return err
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if err := s.pending.RevokeToken(ctx, claims.ID, ttl); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ValidateToken проверяет access-токен и возвращает его claims.
func (s *Service) ValidateToken(_ context.Context, token string) (*jwt.CustomClaims, error) {
	claims, err := s.jwtMaker.ParseToken(token, jwt.TypeAccess)
	if err != nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// GetUser возвращает пользователя по UID.
func (s *Service) GetUser(ctx context.Context, uid string) (*models.User, error) {
	const op = "auth.GetUser"
	user, err := s.users.GetUser(ctx, uid)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

// UpdateProfile обновляет профиль пользователя, email приводится к нормальному виду.
func (s *Service) UpdateProfile(ctx context.Context, uid string, upd models.ProfileUpdate) (*models.User, error) {
	const op = "auth.UpdateProfile"
	if upd.Email != nil {
		upd.Email = emailPtr(*upd.Email)
	}
	user, err := s.users.UpdateProfile(ctx, uid, upd)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}
