package paymentprovider

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
)

// StripeConfig — параметры подключения к Stripe.
type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
	// APIURL переопределяет адрес API, пустое значение означает api.stripe.com.
	APIURL     string
	SuccessURL string
	CancelURL  string
	Timeout    time.Duration
}

// Stripe реализует Provider поверх stripe-go.
type Stripe struct {
	api           *client.API
	webhookSecret string
	successURL    string
	cancelURL     string
}

// NewStripe создаёт клиента Stripe с собственным HTTP-клиентом и логгером.
func NewStripe(cfg StripeConfig, log *slog.Logger) *Stripe {
	backendCfg := &stripe.BackendConfig{
		HTTPClient:        &http.Client{Timeout: cfg.Timeout},
		LeveledLogger:     &slogAdapter{log: log.With(slog.String("component", "stripe"))},
		MaxNetworkRetries: stripe.Int64(1),
	}
	if cfg.APIURL != "" {
		backendCfg.URL = stripe.String(cfg.APIURL)
	}
	api := &client.API{}
	api.Init(cfg.SecretKey, &stripe.Backends{
		API:     stripe.GetBackendWithConfig(stripe.APIBackend, backendCfg),
		Connect: stripe.GetBackendWithConfig(stripe.ConnectBackend, backendCfg),
		Uploads: stripe.GetBackendWithConfig(stripe.UploadsBackend, backendCfg),
	})
	return &Stripe{
		api:           api,
		webhookSecret: cfg.WebhookSecret,
		successURL:    cfg.SuccessURL,
		cancelURL:     cfg.CancelURL,
	}
}

// CreateCheckout создаёт продукт, цену и сессию оплаты. В client_reference_id
// сессии записывается ID платежа.
func (s *Stripe) CreateCheckout(ctx context.Context, req CheckoutRequest) (*Session, error) {
	const op = "paymentprovider.CreateCheckout"

	productParams := &stripe.ProductParams{
		Name:        stripe.String(req.ProductName),
		Description: stripe.String(req.Description),
	}
	productParams.Context = ctx
	if req.IdempotencyKey != "" {
		productParams.SetIdempotencyKey(req.IdempotencyKey + "-product")
	}
	product, err := s.api.Products.New(productParams)
	if err != nil {
		return nil, fmt.Errorf("%s: product: %w", op, err)
	}

	priceParams := &stripe.PriceParams{
		Currency:   stripe.String(req.Currency),
		UnitAmount: stripe.Int64(req.Amount),
		Product:    stripe.String(product.ID),
	}
	priceParams.Context = ctx
	if req.IdempotencyKey != "" {
		priceParams.SetIdempotencyKey(req.IdempotencyKey + "-price")
	}
	price, err := s.api.Prices.New(priceParams)
	if err != nil {
		return nil, fmt.Errorf("%s: price: %w", op, err)
	}

	sessionParams := &stripe.CheckoutSessionParams{
		SuccessURL:        stripe.String(s.successURL),
		CancelURL:         stripe.String(s.cancelURL),
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		ClientReferenceID: stripe.String(strconv.FormatInt(req.PaymentID, 10)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(price.ID), Quantity: stripe.Int64(1)},
		},
	}
	sessionParams.Context = ctx
	if req.IdempotencyKey != "" {
		sessionParams.SetIdempotencyKey(req.IdempotencyKey + "-session")
	}
	sess, err := s.api.CheckoutSessions.New(sessionParams)
	if err != nil {
		return nil, fmt.Errorf("%s: session: %w", op, err)
	}
	return toSession(sess), nil
}

// GetSession читает сессию оплаты.
func (s *Stripe) GetSession(ctx context.Context, sessionID string) (*Session, error) {
	const op = "paymentprovider.GetSession"
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx
	sess, err := s.api.CheckoutSessions.Get(sessionID, params)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return toSession(sess), nil
}

// ParseWebhook проверяет подпись вебхука и извлекает из события сессию оплаты.
func (s *Stripe) ParseWebhook(payload []byte, signature string) (*Event, error) {
	const op = "paymentprovider.ParseWebhook"
	event, err := webhook.ConstructEventWithOptions(payload, signature, s.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrInvalidSignature, err)
	}
	out := &Event{ID: event.ID, Type: string(event.Type)}
	if event.Data == nil || len(event.Data.Raw) == 0 {
		return out, nil
	}
	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	out.Session = *toSession(&sess)
	return out, nil
}

func toSession(sess *stripe.CheckoutSession) *Session {
	return &Session{
		ID:                sess.ID,
		URL:               sess.URL,
		ClientReferenceID: sess.ClientReferenceID,
		Paid:              sess.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid,
		Expired:           sess.Status == stripe.CheckoutSessionStatusExpired,
	}
}

// slogAdapter направляет журнал stripe-go в slog.
type slogAdapter struct {
	log *slog.Logger
}

func (a *slogAdapter) Debugf(format string, v ...any) { a.log.Debug(fmt.Sprintf(format, v...)) }
func (a *slogAdapter) Infof(format string, v ...any)  { a.log.Debug(fmt.Sprintf(format, v...)) }
func (a *slogAdapter) Warnf(format string, v ...any)  { a.log.Warn(fmt.Sprintf(format, v...)) }
func (a *slogAdapter) Errorf(format string, v ...any) { a.log.Error(fmt.Sprintf(format, v...)) }
