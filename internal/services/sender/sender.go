// Package sender доставляет уведомления о подписке пользователям по SMS и почте.
package sender

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/premium-blog/internal/lib/sl"
	"github.com/magabrotheeeer/premium-blog/internal/lib/smtp"
	"github.com/magabrotheeeer/premium-blog/internal/metrics"
	"github.com/magabrotheeeer/premium-blog/internal/models"
	"github.com/magabrotheeeer/premium-blog/internal/smsgateway"
)

const dateLayout = "02.01.2006"

// SMSSender отправляет SMS.
type SMSSender interface {
	Send(ctx context.Context, phone, text string) (*smsgateway.Result, error)
}

// Service обрабатывает уведомления из очереди.
type Service struct {
	sms     SMSSender
	mail    smtp.Mailer
	log     *slog.Logger
	metrics *metrics.Metrics
}

// New создаёт сервис уведомлений. mail может быть nil, тогда письма не отправляются.
func New(sms SMSSender, mail smtp.Mailer, log *slog.Logger, m *metrics.Metrics) *Service {
	return &Service{sms: sms, mail: mail, log: log, metrics: m}
}

// Compose возвращает тему письма и текст уведомления. ok = false для неизвестного вида.
func Compose(n models.Notification) (subject, text string, ok bool) {
	ends := ""
	if n.EndsAt != nil {
		ends = n.EndsAt.Format(dateLayout)
	}
	switch n.Kind {
	case models.NotifySubscriptionActivated:
		return "Подписка оформлена",
			fmt.Sprintf("Спасибо за оплату! Подписка на премиальные материалы действует до %s.", ends), true
	case models.NotifySubscriptionExpiring:
		return "Подписка заканчивается завтра",
			fmt.Sprintf("Ваша подписка заканчивается завтра (%s). Продлите её, чтобы сохранить доступ к премиальным материалам.", ends), true
	}
	return "", "", false
}

// Handle разбирает сообщение из очереди и отправляет уведомление.
// Ошибка возвращается только при сбое SMS, чтобы сообщение было доставлено повторно.
func (s *Service) Handle(ctx context.Context, body []byte) (err error) {
	const op = "sender.Handle"
	var n models.Notification
	if err := json.Unmarshal(body, &n); err != nil {
		s.log.Error("malformed notification dropped", slog.String("op", op), sl.Err(err))
		return nil
	}
	log := s.log.With(slog.String("op", op), slog.String("kind", n.Kind), slog.String("user_uid", n.UserUID))

	subject, text, ok := Compose(n)
	if !ok {
		log.Warn("unknown notification kind dropped")
		return nil
	}
	defer func() { s.metrics.Notification(n.Kind, err) }()

	_, err = s.sms.Send(ctx, n.PhoneNumber, text)
	s.metrics.SMSSent(err)
	if err != nil {
		log.Error("failed to send sms", sl.Phone(n.PhoneNumber), sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	if n.Email != "" && s.mail != nil {
		if mailErr := smtp.Send(s.mail, []string{n.Email}, subject, text); mailErr != nil {
			if errors.Is(mailErr, smtp.ErrNotConfigured) {
				log.Debug("smtp is not configured, email skipped")
			} else {
				log.Error("failed to send email", sl.Err(mailErr))
			}
		}
	}
	log.Info("notification sent")
	return nil
}
