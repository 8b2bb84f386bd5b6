// Package scheduler периодически ищет подписки, которые скоро закончатся,
// и ставит уведомления владельцам в очередь.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/premium-blog/internal/lib/sl"
	"github.com/magabrotheeeer/premium-blog/internal/models"
)

// DefaultInterval — период проверки подписок.
const DefaultInterval = 12 * time.Hour

// Repository ищет подписки с окончанием завтра.
type Repository interface {
	FindSubscriptionsExpiringTomorrow(ctx context.Context) ([]models.Notification, error)
}

// Publisher публикует уведомления в брокер сообщений.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, message any) error
}

// Service — планировщик уведомлений.
type Service struct {
	repo     Repository
	pub      Publisher
	log      *slog.Logger
	interval time.Duration
}

// New создаёт планировщик. interval <= 0 заменяется на DefaultInterval.
func New(repo Repository, pub Publisher, log *slog.Logger, interval time.Duration) *Service {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Service{repo: repo, pub: pub, log: log, interval: interval}
}

// Run выполняет проверку сразу и затем раз в interval, пока не отменён ctx.
func (s *Service) Run(ctx context.Context) {
	s.runOnceLogged(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.log.Info("scheduler stopped")
			return
		case <-ticker.C:
			s.runOnceLogged(ctx)
		}
	}
}

func (s *Service) runOnceLogged(ctx context.Context) {
	if _, err := s.RunOnce(ctx); err != nil {
		s.log.Error("expiring subscriptions check failed", sl.Err(err))
	}
}

// RunOnce публикует уведомления для подписок, которые заканчиваются завтра,
// и возвращает число опубликованных сообщений.
func (s *Service) RunOnce(ctx context.Context) (int, error) {
	const op = "scheduler.RunOnce"
	log := s.log.With(slog.String("op", op))

	list, err := s.repo.FindSubscriptionsExpiringTomorrow(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if len(list) == 0 {
		log.Info("no expiring subscriptions found")
		return 0, nil
	}
	log.Info("found expiring subscriptions", slog.Int("count", len(list)))

	published := 0
	for _, n := range list {
		if err := s.pub.Publish(ctx, models.NotifySubscriptionExpiring, n); err != nil {
			log.Error("failed to publish message", slog.String("user_uid", n.UserUID), sl.Err(err))
			continue
		}
		published++
	}
	return published, nil
}
