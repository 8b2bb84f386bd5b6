package models

import "time"

// PaymentStatus — состояние платежа.
type PaymentStatus string

const (
	// PaymentPending — сессия оплаты создана, оплата не подтверждена.
	PaymentPending PaymentStatus = "pending"
	// PaymentPaid — провайдер подтвердил оплату.
	PaymentPaid PaymentStatus = "paid"
	// PaymentFulfilled — оплаченный период применён к подписке.
	PaymentFulfilled PaymentStatus = "fulfilled"
	// PaymentFailed — оплата не состоялась.
	PaymentFailed PaymentStatus = "failed"
)

var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentPending: {PaymentPaid, PaymentFailed},
	PaymentPaid:    {PaymentFulfilled},
}

// CanTransition сообщает, допустим ли переход из from в to.
func CanTransition(from, to PaymentStatus) bool {
	for _, next := range paymentTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Способы оплаты.
const (
	MethodCard     = "card"
	MethodCash     = "cash"
	MethodTransfer = "transfer"
)

// Payment — запись о платеже пользователя.
type Payment struct {
	ID                int64         `json:"id"`
	UserUID           string        `json:"user_uid"`
	Amount            int64         `json:"amount"`
	Currency          string        `json:"currency"`
	Method            string        `json:"method"`
	PaidPostID        *int64        `json:"paid_post_id,omitempty"`
	PaidSeriesID      *int64        `json:"paid_series_id,omitempty"`
	SubscriptionID    *int64        `json:"subscription_id,omitempty"`
	ProviderSessionID *string       `json:"provider_session_id,omitempty"`
	CheckoutURL       *string       `json:"checkout_url,omitempty"`
	IdempotencyKey    string        `json:"-"`
	Status            PaymentStatus `json:"status"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`
}

// Notification — сообщение для воркера уведомлений.
type Notification struct {
	Kind        string     `json:"kind"`
	UserUID     string     `json:"user_uid"`
	PhoneNumber string     `json:"phone_number"`
	Email       string     `json:"email,omitempty"`
	EndsAt      *time.Time `json:"ends_at,omitempty"`
}

// Виды уведомлений.
const (
	NotifySubscriptionActivated = "subscription.activated"
	NotifySubscriptionExpiring  = "subscription.expiring"
)
