// Package blog собирает HTTP-приложение блога: хранилище, кеш, брокер,
// внешние провайдеры, сервисы и маршруты, а также служебный gRPC health-сервер.
package blog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/streadway/amqp"
	"golang.org/x/sync/errgroup"

	"github.com/magabrotheeeer/premium-blog/internal/cache"
	"github.com/magabrotheeeer/premium-blog/internal/config"
	grpcserver "github.com/magabrotheeeer/premium-blog/internal/grpc/server"
	"github.com/magabrotheeeer/premium-blog/internal/lib/jwt"
	"github.com/magabrotheeeer/premium-blog/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/premium-blog/internal/lib/sl"
	"github.com/magabrotheeeer/premium-blog/internal/metrics"
	"github.com/magabrotheeeer/premium-blog/internal/migrations"
	"github.com/magabrotheeeer/premium-blog/internal/paymentprovider"
	"github.com/magabrotheeeer/premium-blog/internal/services/auth"
	"github.com/magabrotheeeer/premium-blog/internal/services/posts"
	"github.com/magabrotheeeer/premium-blog/internal/services/subscription"
	"github.com/magabrotheeeer/premium-blog/internal/smsgateway"
	"github.com/magabrotheeeer/premium-blog/internal/storage/repository"
)

const shutdownTimeout = 15 * time.Second

// App — HTTP-приложение блога.
type App struct {
	server *http.Server
	health *grpcserver.Server
	logger *slog.Logger
	db     *repository.Storage
	cache  *cache.Cache
	conn   *amqp.Connection
	ch     *amqp.Channel
}

// New подключает внешние ресурсы и собирает приложение.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "app.blog.New"

	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	a := &App{logger: logger, db: db}

	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		a.close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	a.cache, err = cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	a.conn, err = rabbitmq.Connect(ctx, cfg.RabbitMQ.URL, cfg.RabbitMQ.Retries, cfg.RabbitMQ.Delay)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	a.ch, err = rabbitmq.SetupChannel(a.conn, rabbitmq.NotificationQueues())
	if err != nil {
		a.close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	m := metrics.Default()
	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL, cfg.RefreshTokenTTL)
	sms := smsgateway.New(cfg.SMSAPIURL, cfg.SMSAPIKey, cfg.SMSTimeout, logger)
	provider := paymentprovider.NewStripe(paymentprovider.StripeConfig{
		SecretKey:     cfg.PaymentProvider.SecretKey,
		WebhookSecret: cfg.WebhookSecret,
		APIURL:        cfg.ProviderURL,
		SuccessURL:    cfg.SuccessURL,
		CancelURL:     cfg.CancelURL,
		Timeout:       cfg.ProviderTO,
	}, logger)

	authService := auth.New(db, a.cache, sms, jwtMaker, auth.Options{
		CodeTTL:        cfg.CodeTTL,
		MaxAttempts:    cfg.MaxAttempts,
		ResendCooldown: cfg.ResendCooldown,
	}, logger, m)
	postService := posts.New(db, db, a.cache, logger, m)
	subscriptionService := subscription.New(db, provider, rabbitmq.NewPublisher(a.ch), subscription.Options{
		Price:       cfg.Subscription.Price,
		Currency:    cfg.Currency,
		Period:      time.Duration(cfg.PeriodDays) * 24 * time.Hour,
		ProductName: cfg.ProductName,
	}, logger, m)

	router := NewRouter(logger, Deps{
		Auth:          authService,
		Posts:         postService,
		Subscription:  subscriptionService,
		Metrics:       m,
		Contacts:      cfg.Contacts,
		SubscribePath: cfg.SubscribePath,
		RateLimit:     cfg.RateLimit,
		RateBurst:     cfg.RateBurst,
	})

	a.health, err = grpcserver.New(cfg.AddressGRPC, logger, "blog")
	if err != nil {
		a.close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	a.server = &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return a, nil
}

// Run обслуживает HTTP и gRPC до отмены ctx, затем плавно останавливается.
func (a *App) Run(ctx context.Context) error {
	defer a.close()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.health.Run(ctx)
	})
	g.Go(func() error {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-ctx.Done()
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		return a.server.Shutdown(timeoutCtx)
	})
	return g.Wait()
}

func (a *App) close() {
	if a.ch != nil {
		if err := a.ch.Close(); err != nil {
			a.logger.Error("failed to close channel", sl.Err(err))
		}
	}
	if a.conn != nil {
		if err := a.conn.Close(); err != nil {
			a.logger.Error("failed to close connection", sl.Err(err))
		}
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Error("failed to close cache", sl.Err(err))
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Error("failed to close storage", sl.Err(err))
		}
	}
}
