// Package sender собирает процесс, который читает уведомления из RabbitMQ
// и доставляет их по SMS или электронной почте.
package sender

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/premium-blog/internal/config"
	"github.com/magabrotheeeer/premium-blog/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/premium-blog/internal/lib/sl"
	"github.com/magabrotheeeer/premium-blog/internal/lib/smtp"
	"github.com/magabrotheeeer/premium-blog/internal/metrics"
	senderservice "github.com/magabrotheeeer/premium-blog/internal/services/sender"
	"github.com/magabrotheeeer/premium-blog/internal/smsgateway"
)

// App представляет приложение рассылки уведомлений.
type App struct {
	conn          *amqp.Connection
	ch            *amqp.Channel
	senderService *senderservice.Service
	logger        *slog.Logger
}

// New подключается к брокеру и собирает сервис доставки.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(ctx, cfg.RabbitMQ.URL, cfg.RabbitMQ.Retries, cfg.RabbitMQ.Delay)
	if err != nil {
		return nil, fmt.Errorf("failed to connect RabbitMQ: %w", err)
	}

	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.NotificationQueues())
	if err != nil {
		if cerr := conn.Close(); cerr != nil {
			logger.Error("failed to close connection", sl.Err(cerr))
		}
		return nil, fmt.Errorf("failed to setup RabbitMQ channel: %w", err)
	}

	sms := smsgateway.New(cfg.SMSAPIURL, cfg.SMSAPIKey, cfg.SMSTimeout, logger)
	mail := smtp.NewTransport(cfg.SMTP, logger)

	return &App{
		conn:          conn,
		ch:            ch,
		senderService: senderservice.New(sms, mail, logger, metrics.Default()),
		logger:        logger,
	}, nil
}

// Run подписывается на очередь уведомлений и блокируется до отмены ctx.
func (a *App) Run(ctx context.Context) error {
	err := rabbitmq.ConsumerMessage(ctx, a.logger, a.ch, rabbitmq.QueueNotifications, func(body []byte) error {
		return a.senderService.Handle(ctx, body)
	})
	if err != nil {
		a.close()
		return fmt.Errorf("failed to start consumer: %w", err)
	}
	a.logger.Info("notification sender started", slog.String("queue", rabbitmq.QueueNotifications))

	<-ctx.Done()

	a.logger.Info("shutting down notification sender")
	a.close()
	return nil
}

func (a *App) close() {
	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", sl.Err(err))
	}
	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", sl.Err(err))
	}
}
