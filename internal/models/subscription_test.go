package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscription_IsValid(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Second)
	future := now.Add(time.Second)

	tests := []struct {
		name string
		sub  *Subscription
		want bool
	}{
		{name: "nil subscription", sub: nil, want: false},
		{name: "ends_at unset", sub: &Subscription{}, want: false},
		{name: "ends_at in past", sub: &Subscription{EndsAt: &past}, want: false},
		{name: "ends_at equals now", sub: &Subscription{EndsAt: &now}, want: false},
		{name: "ends_at in future", sub: &Subscription{EndsAt: &future}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.sub.IsValid(now))
			assert.Equal(t, tt.want, tt.sub.Active(now))
		})
	}
}

func TestSubscription_SetEndDateAndExtend(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	sub := &Subscription{StartsAt: start}

	sub.Extend(SubscriptionPeriod)
	assert.Nil(t, sub.EndsAt, "extend must not set an absent end date")

	sub.SetEndDate(SubscriptionPeriod)
	require.NotNil(t, sub.EndsAt)
	assert.Equal(t, start.AddDate(0, 0, 30), *sub.EndsAt)

	sub.Extend(SubscriptionPeriod)
	assert.Equal(t, start.AddDate(0, 0, 60), *sub.EndsAt)
}

func TestSubscription_Renew(t *testing.T) {
	now := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	t.Run("valid subscription is extended", func(t *testing.T) {
		end := now.AddDate(0, 0, 5)
		sub := &Subscription{StartsAt: now.AddDate(0, 0, -25), EndsAt: &end}
		sub.Renew(now, SubscriptionPeriod)
		assert.Equal(t, now.AddDate(0, 0, 35), *sub.EndsAt)
	})

	t.Run("expired subscription restarts at now", func(t *testing.T) {
		end := now.AddDate(0, 0, -1)
		sub := &Subscription{StartsAt: now.AddDate(0, 0, -31), EndsAt: &end}
		sub.Renew(now, SubscriptionPeriod)
		assert.Equal(t, now, sub.StartsAt)
		assert.Equal(t, now.AddDate(0, 0, 30), *sub.EndsAt)
	})

	t.Run("new subscription starts at now", func(t *testing.T) {
		sub := &Subscription{}
		sub.Renew(now, SubscriptionPeriod)
		assert.True(t, sub.IsValid(now))
	})
}

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(PaymentPending, PaymentPaid))
	assert.True(t, CanTransition(PaymentPending, PaymentFailed))
	assert.True(t, CanTransition(PaymentPaid, PaymentFulfilled))

	assert.False(t, CanTransition(PaymentPending, PaymentFulfilled))
	assert.False(t, CanTransition(PaymentPaid, PaymentFailed))
	assert.False(t, CanTransition(PaymentFulfilled, PaymentPaid))
	assert.False(t, CanTransition(PaymentFailed, PaymentPaid))
}

func TestUser_HasPerm(t *testing.T) {
	var nobody *User
	assert.False(t, nobody.HasPerm(PermDeleteAnyPost))

	user := &User{Role: RoleUser, CanUnpublishPost: true}
	assert.True(t, user.HasPerm(PermUnpublishPost))
	assert.False(t, user.HasPerm(PermDeleteAnyPost))

	admin := &User{Role: RoleAdmin}
	assert.True(t, admin.HasPerm(PermDeleteAnyPost))
	assert.True(t, admin.HasPerm(PermUnpublishPost))
}
