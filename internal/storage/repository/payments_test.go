package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/magabrotheeeer/premium-blog/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPayment(userUID, key string) models.Payment {
	return models.Payment{UserUID: userUID, Amount: 100, Currency: "rub", IdempotencyKey: key}
}

func TestStorage_CreatePayment_Idempotent(t *testing.T) {
	storage := setupTestDatabase(t)
	factory := NewTestDataFactory(storage)
	ctx := context.Background()
	user := factory.CreateUser(t)

	first, created, err := storage.CreatePayment(ctx, newPayment(user, "key-1"))
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, models.PaymentPending, first.Status)
	assert.Equal(t, models.MethodCard, first.Method)

	second, created, err := storage.CreatePayment(ctx, newPayment(user, "key-1"))
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	list, err := storage.ListPaymentsByUser(ctx, user)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestStorage_PaymentTransitions(t *testing.T) {
	storage := setupTestDatabase(t)
	factory := NewTestDataFactory(storage)
	ctx := context.Background()
	user := factory.CreateUser(t)

	p, _, err := storage.CreatePayment(ctx, newPayment(user, "key"))
	require.NoError(t, err)

	require.NoError(t, storage.AttachSession(ctx, p.ID, "cs_test_1", "https://checkout.example/cs_test_1"))
	bySession, err := storage.GetPaymentBySession(ctx, "cs_test_1")
	require.NoError(t, err)
	assert.Equal(t, p.ID, bySession.ID)

	require.NoError(t, storage.TransitionPayment(ctx, p.ID, models.PaymentPending, models.PaymentPaid))
	assert.ErrorIs(t, storage.TransitionPayment(ctx, p.ID, models.PaymentPending, models.PaymentPaid), ErrStatusConflict)
	assert.ErrorIs(t, storage.TransitionPayment(ctx, p.ID, models.PaymentPaid, models.PaymentFailed), ErrStatusConflict)

	got, err := storage.GetPayment(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, got.Status)
}

func TestStorage_FulfillPayment(t *testing.T) {
	storage := setupTestDatabase(t)
	factory := NewTestDataFactory(storage)
	ctx := context.Background()
	user := factory.CreateUser(t)
	now := time.Now().UTC().Truncate(time.Second)

	pay := func(key string) int64 {
		p, _, err := storage.CreatePayment(ctx, newPayment(user, key))
		require.NoError(t, err)
		require.NoError(t, storage.TransitionPayment(ctx, p.ID, models.PaymentPending, models.PaymentPaid))
		return p.ID
	}

	id := pay("first")
	sub, err := storage.FulfillPayment(ctx, id, now, models.SubscriptionPeriod)
	require.NoError(t, err)
	require.NotNil(t, sub.EndsAt)
	assert.True(t, sub.EndsAt.Equal(now.Add(models.SubscriptionPeriod)))

	_, err = storage.FulfillPayment(ctx, id, now, models.SubscriptionPeriod)
	assert.ErrorIs(t, err, ErrStatusConflict, "fulfilment must happen once")

	u, err := storage.GetUser(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, models.SubscriptionStatusPaid, u.SubscriptionStatus)

	sub, err = storage.FulfillPayment(ctx, pay("second"), now, models.SubscriptionPeriod)
	require.NoError(t, err)
	assert.True(t, sub.EndsAt.Equal(now.Add(2*models.SubscriptionPeriod)), "valid subscription is extended")

	stored, err := storage.GetSubscriptionByUser(ctx, user)
	require.NoError(t, err)
	assert.True(t, stored.IsValid(now))
}

func TestStorage_FulfillPayment_ConcurrentDuplicates(t *testing.T) {
	storage := setupTestDatabase(t)
	factory := NewTestDataFactory(storage)
	ctx := context.Background()
	user := factory.CreateUser(t)
	now := time.Now().UTC()

	p, _, err := storage.CreatePayment(ctx, newPayment(user, "dup"))
	require.NoError(t, err)
	require.NoError(t, storage.TransitionPayment(ctx, p.ID, models.PaymentPending, models.PaymentPaid))

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for range 5 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := storage.FulfillPayment(ctx, p.ID, now, models.SubscriptionPeriod); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, successes)

	sub, err := storage.GetSubscriptionByUser(ctx, user)
	require.NoError(t, err)
	assert.WithinDuration(t, now.Add(models.SubscriptionPeriod), *sub.EndsAt, time.Second)
}

func TestStorage_EnsureSubscription(t *testing.T) {
	storage := setupTestDatabase(t)
	factory := NewTestDataFactory(storage)
	ctx := context.Background()
	user := factory.CreateUser(t)

	_, err := storage.GetSubscriptionByUser(ctx, user)
	assert.ErrorIs(t, err, ErrNotFound)

	sub, err := storage.EnsureSubscription(ctx, user, 100)
	require.NoError(t, err)
	assert.Nil(t, sub.EndsAt)
	assert.False(t, sub.IsValid(time.Now()))

	again, err := storage.EnsureSubscription(ctx, user, 500)
	require.NoError(t, err)
	assert.Equal(t, sub.ID, again.ID)
	assert.EqualValues(t, 100, again.Price)
}

func TestStorage_FindSubscriptionsExpiringTomorrow(t *testing.T) {
	storage := setupTestDatabase(t)
	factory := NewTestDataFactory(storage)
	ctx := context.Background()
	soon := factory.CreateUser(t)
	later := factory.CreateUser(t)

	_, err := storage.DB.Exec(`INSERT INTO subscriptions (user_uid, price, starts_at, ends_at) VALUES
		($1, 100, NOW() - INTERVAL '29 days', (CURRENT_DATE + 1) + TIME '12:00'),
		($2, 100, NOW(), NOW() + INTERVAL '20 days')`, soon, later)
	require.NoError(t, err)

	got, err := storage.FindSubscriptionsExpiringTomorrow(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, soon, got[0].UserUID)
	assert.Equal(t, models.NotifySubscriptionExpiring, got[0].Kind)
	assert.NotEmpty(t, got[0].PhoneNumber)
}
