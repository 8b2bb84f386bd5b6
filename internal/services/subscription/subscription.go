// Package subscription содержит бизнес-логику оплаты подписки: создание сессии оплаты
// у провайдера, сверку статуса после возврата пользователя, обработку вебхуков
// и продление подписки после оплаты.
package subscription

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/magabrotheeeer/premium-blog/internal/lib/sl"
	"github.com/magabrotheeeer/premium-blog/internal/metrics"
	"github.com/magabrotheeeer/premium-blog/internal/models"
	"github.com/magabrotheeeer/premium-blog/internal/paymentprovider"
	"github.com/magabrotheeeer/premium-blog/internal/storage/repository"
)

var (
	ErrProvider           = errors.New("payment provider error")
	ErrPaymentNotFound    = errors.New("payment not found")
	ErrCheckoutInProgress = errors.New("checkout with this idempotency key is in progress")
	ErrInvalidSignature   = errors.New("invalid webhook signature")
	ErrUserNotFound       = errors.New("user not found")
)

// Repository описывает хранилище подписок, платежей и пользователей.
type Repository interface {
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	GetSubscriptionByUser(ctx context.Context, userUID string) (*models.Subscription, error)
	EnsureSubscription(ctx context.Context, userUID string, price int64) (*models.Subscription, error)
	CreatePayment(ctx context.Context, p models.Payment) (*models.Payment, bool, error)
	GetPayment(ctx context.Context, id int64) (*models.Payment, error)
	GetPaymentBySession(ctx context.Context, sessionID string) (*models.Payment, error)
	AttachSession(ctx context.Context, id int64, sessionID, checkoutURL string) error
	TransitionPayment(ctx context.Context, id int64, from, to models.PaymentStatus) error
	FulfillPayment(ctx context.Context, id int64, now time.Time, period time.Duration) (*models.Subscription, error)
	ListPaymentsByUser(ctx context.Context, userUID string) ([]*models.Payment, error)
}

// Publisher публикует уведомления в брокер сообщений.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, message any) error
}

// Options — условия подписки.
type Options struct {
	Price       int64
	Currency    string
	Period      time.Duration
	ProductName string
}

// Offer — предложение подписки для страницы оформления.
type Offer struct {
	Price      int64  `json:"price"`
	Currency   string `json:"currency"`
	PeriodDays int    `json:"period_days"`
	Level      string `json:"subscription_level"`
}

// Cabinet — сводка личного кабинета пользователя.
type Cabinet struct {
	User         *models.User         `json:"user"`
	Subscription *models.Subscription `json:"subscription,omitempty"`
	Active       bool                 `json:"subscription_active"`
	Payments     []*models.Payment    `json:"payments"`
}

// Service реализует оформление и продление подписки.
type Service struct {
	repo      Repository
	provider  paymentprovider.Provider
	publisher Publisher
	opts      Options
	log       *slog.Logger
	metrics   *metrics.Metrics
	now       func() time.Time
}

// New создаёт сервис подписки. publisher может быть nil, тогда уведомления не отправляются.
func New(repo Repository, provider paymentprovider.Provider, publisher Publisher, opts Options,
	log *slog.Logger, m *metrics.Metrics) *Service {
	if opts.Period <= 0 {
		opts.Period = models.SubscriptionPeriod
	}
	return &Service{
		repo:      repo,
		provider:  provider,
		publisher: publisher,
		opts:      opts,
		log:       log,
		metrics:   m,
		now:       time.Now,
	}
}

// Offer возвращает текущие условия подписки.
func (s *Service) Offer() Offer {
	return Offer{
		Price:      s.opts.Price,
		Currency:   s.opts.Currency,
		PeriodDays: int(s.opts.Period / (24 * time.Hour)),
		Level:      models.LevelSingle,
	}
}

// Checkout создаёт платёж и сессию оплаты у провайдера. Повторный вызов с тем же
// idempotencyKey возвращает уже созданный платёж без новой сессии.
func (s *Service) Checkout(ctx context.Context, userUID, idempotencyKey string) (*models.Payment, error) {
	const op = "subscription.Checkout"
	log := s.log.With(slog.String("op", op), slog.String("user_uid", userUID))
	if idempotencyKey == "" {
		idempotencyKey = uuid.NewString()
	}

	sub, err := s.repo.EnsureSubscription(ctx, userUID, s.opts.Price)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	payment, created, err := s.repo.CreatePayment(ctx, models.Payment{
		UserUID:        userUID,
		Amount:         s.opts.Price,
		Currency:       s.opts.Currency,
		Method:         models.MethodCard,
		SubscriptionID: &sub.ID,
		IdempotencyKey: idempotencyKey,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !created {
		switch {
		case payment.CheckoutURL != nil:
			return payment, nil
		case payment.Status == models.PaymentFailed:
			return nil, ErrProvider
		default:
			return nil, ErrCheckoutInProgress
		}
	}

	session, err := s.provider.CreateCheckout(ctx, paymentprovider.CheckoutRequest{
		PaymentID:      payment.ID,
		Amount:         payment.Amount,
		Currency:       payment.Currency,
		ProductName:    s.opts.ProductName,
		Description:    fmt.Sprintf("Подписка на %d дней", s.Offer().PeriodDays),
		IdempotencyKey: "payment-" + strconv.FormatInt(payment.ID, 10),
	})
	if err != nil {
		log.Error("failed to create checkout session", slog.Int64("payment_id", payment.ID), sl.Err(err))
		s.transition(ctx, payment.ID, models.PaymentPending, models.PaymentFailed)
		return nil, fmt.Errorf("%w: %w", ErrProvider, err)
	}
	if err := s.repo.AttachSession(ctx, payment.ID, session.ID, session.URL); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	payment.ProviderSessionID = &session.ID
	payment.CheckoutURL = &session.URL

	log.Info("checkout session created", slog.Int64("payment_id", payment.ID))
	return payment, nil
}

// transition выполняет переход статуса. Если платёж уже в другом статусе, ничего не делает.
func (s *Service) transition(ctx context.Context, id int64, from, to models.PaymentStatus) bool {
	err := s.repo.TransitionPayment(ctx, id, from, to)
	if errors.Is(err, repository.ErrStatusConflict) {
		return false
	}
	if err != nil {
		s.log.Error("payment transition failed", slog.Int64("payment_id", id),
			slog.String("from", string(from)), slog.String("to", string(to)), sl.Err(err))
		return false
	}
	s.metrics.PaymentTransition(string(to))
	return true
}

// apply приводит платёж в соответствие с состоянием сессии у провайдера.
func (s *Service) apply(ctx context.Context, payment *models.Payment, session *paymentprovider.Session) error {
	const op = "subscription.apply"
	switch {
	case session.Paid:
		s.transition(ctx, payment.ID, models.PaymentPending, models.PaymentPaid)
		return s.fulfil(ctx, payment)
	case session.Expired:
		s.transition(ctx, payment.ID, models.PaymentPending, models.PaymentFailed)
	default:
		s.log.Debug("payment is not completed yet", slog.String("op", op), slog.Int64("payment_id", payment.ID))
	}
	return nil
}

// fulfil продлевает подписку по оплаченному платежу. Повторное исполнение ничего не меняет.
func (s *Service) fulfil(ctx context.Context, payment *models.Payment) error {
	const op = "subscription.fulfil"
	sub, err := s.repo.FulfillPayment(ctx, payment.ID, s.now().UTC(), s.opts.Period)
	if errors.Is(err, repository.ErrStatusConflict) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.metrics.PaymentTransition(string(models.PaymentFulfilled))
	s.log.Info("subscription renewed", slog.String("op", op),
		slog.Int64("payment_id", payment.ID), slog.String("user_uid", payment.UserUID))
	s.notifyActivated(ctx, payment.UserUID, sub)
	return nil
}

func (s *Service) notifyActivated(ctx context.Context, userUID string, sub *models.Subscription) {
	const op = "subscription.notifyActivated"
	if s.publisher == nil {
		return
	}
	log := s.log.With(slog.String("op", op), slog.String("user_uid", userUID))
	user, err := s.repo.GetUser(ctx, userUID)
	if err != nil {
		log.Error("failed to load user for notification", sl.Err(err))
		return
	}
	msg := models.Notification{
		Kind:        models.NotifySubscriptionActivated,
		UserUID:     userUID,
		PhoneNumber: user.PhoneNumber,
		EndsAt:      sub.EndsAt,
	}
	if user.Email != nil {
		msg.Email = *user.Email
	}
	if err := s.publisher.Publish(ctx, models.NotifySubscriptionActivated, msg); err != nil {
		log.Error("failed to publish notification", sl.Err(err))
	}
}

// ConfirmSession сверяет платёж с сессией провайдера после возврата пользователя со страницы оплаты.
func (s *Service) ConfirmSession(ctx context.Context, sessionID string) (*models.Payment, error) {
	const op = "subscription.ConfirmSession"
	payment, err := s.repo.GetPaymentBySession(ctx, sessionID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	session, err := s.provider.GetSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProvider, err)
	}
	if err := s.apply(ctx, payment, session); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	payment, err = s.repo.GetPayment(ctx, payment.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return payment, nil
}

// findEventPayment ищет платёж события по сессии, а если сессия ещё не сохранена, по client_reference_id.
func (s *Service) findEventPayment(ctx context.Context, session paymentprovider.Session) (*models.Payment, error) {
	payment, err := s.repo.GetPaymentBySession(ctx, session.ID)
	if err == nil || !errors.Is(err, repository.ErrNotFound) {
		return payment, err
	}
	id, convErr := strconv.ParseInt(session.ClientReferenceID, 10, 64)
	if convErr != nil {
		return nil, err
	}
	return s.repo.GetPayment(ctx, id)
}

// HandleWebhook проверяет подпись вебхука и применяет событие к платежу.
// Неизвестные события и платежи пропускаются.
func (s *Service) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	const op = "subscription.HandleWebhook"
	event, err := s.provider.ParseWebhook(payload, signature)
	if err != nil {
		if errors.Is(err, paymentprovider.ErrInvalidSignature) {
			return ErrInvalidSignature
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	log := s.log.With(slog.String("op", op), slog.String("event_id", event.ID), slog.String("type", event.Type))

	switch event.Type {
	case paymentprovider.EventSessionCompleted, paymentprovider.EventSessionAsyncSucceeded,
		paymentprovider.EventSessionExpired, paymentprovider.EventSessionAsyncFailed:
	default:
		log.Debug("webhook event ignored")
		return nil
	}

	payment, err := s.findEventPayment(ctx, event.Session)
	if errors.Is(err, repository.ErrNotFound) {
		log.Warn("webhook for unknown payment", slog.String("session_id", event.Session.ID))
		return nil
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	session := event.Session
	if event.Type == paymentprovider.EventSessionAsyncFailed {
		session.Expired = true
	}
	if err := s.apply(ctx, payment, &session); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListPayments возвращает платежи пользователя.
func (s *Service) ListPayments(ctx context.Context, userUID string) ([]*models.Payment, error) {
	const op = "subscription.ListPayments"
	list, err := s.repo.ListPaymentsByUser(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return list, nil
}

// Cabinet собирает профиль пользователя, его подписку и платежи.
func (s *Service) Cabinet(ctx context.Context, userUID string) (*Cabinet, error) {
	const op = "subscription.Cabinet"
	user, err := s.repo.GetUser(ctx, userUID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	c := &Cabinet{User: user}

	sub, err := s.repo.GetSubscriptionByUser(ctx, userUID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
	case err != nil:
		return nil, fmt.Errorf("%s: %w", op, err)
	default:
		c.Subscription = sub
		c.Active = sub.Active(s.now())
	}

	c.Payments, err = s.repo.ListPaymentsByUser(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}
