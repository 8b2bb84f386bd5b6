// Package paymentprovider оборачивает Stripe Checkout: создание продукта, цены
// и сессии оплаты, чтение сессии и проверку подписи вебхуков.
package paymentprovider

import (
	"context"
	"errors"
)

// ErrInvalidSignature возвращается для вебхука с неверной подписью.
var ErrInvalidSignature = errors.New("invalid webhook signature")

// Типы событий вебхука, которые влияют на платежи.
const (
	EventSessionCompleted      = "checkout.session.completed"
	EventSessionAsyncSucceeded = "checkout.session.async_payment_succeeded"
	EventSessionExpired        = "checkout.session.expired"
	EventSessionAsyncFailed    = "checkout.session.async_payment_failed"
)

// CheckoutRequest — параметры сессии оплаты.
type CheckoutRequest struct {
	PaymentID      int64
	Amount         int64 // в минимальных единицах валюты
	Currency       string
	ProductName    string
	Description    string
	IdempotencyKey string
}

// Session — состояние сессии оплаты у провайдера.
type Session struct {
	ID                string
	URL               string
	ClientReferenceID string
	Paid              bool
	Expired           bool
}

// Event — разобранный вебхук провайдера.
type Event struct {
	ID      string
	Type    string
	Session Session
}

// Provider описывает платёжного провайдера.
type Provider interface {
	CreateCheckout(ctx context.Context, req CheckoutRequest) (*Session, error)
	GetSession(ctx context.Context, sessionID string) (*Session, error)
	ParseWebhook(payload []byte, signature string) (*Event, error)
}
