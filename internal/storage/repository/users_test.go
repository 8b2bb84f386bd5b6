package repository

import (
	"context"
	"testing"

	"github.com/magabrotheeeer/premium-blog/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorage_CreateAndGetUser(t *testing.T) {
	storage := setupTestDatabase(t)
	ctx := context.Background()

	email := "user@example.com"
	uid, err := storage.CreateUser(ctx, models.User{
		PhoneNumber:  "+79991234567",
		Email:        &email,
		PasswordHash: "hash",
		IsActive:     true,
	})
	require.NoError(t, err)
	require.NotEmpty(t, uid)

	u, err := storage.GetUser(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, "+79991234567", u.PhoneNumber)
	require.NotNil(t, u.Email)
	assert.Equal(t, email, *u.Email)
	assert.Equal(t, models.RoleUser, u.Role)
	assert.Equal(t, models.SubscriptionStatusNone, u.SubscriptionStatus)
	assert.True(t, u.IsActive)

	byPhone, err := storage.GetUserByPhone(ctx, "+79991234567")
	require.NoError(t, err)
	assert.Equal(t, uid, byPhone.UID)

	exists, err := storage.PhoneExists(ctx, "+79991234567")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestStorage_CreateUser_PhoneTaken(t *testing.T) {
	storage := setupTestDatabase(t)
	ctx := context.Background()

	user := models.User{PhoneNumber: "+79990000000", PasswordHash: "hash"}
	_, err := storage.CreateUser(ctx, user)
	require.NoError(t, err)

	_, err = storage.CreateUser(ctx, user)
	assert.ErrorIs(t, err, ErrPhoneTaken)
}

func TestStorage_GetUser_NotFound(t *testing.T) {
	storage := setupTestDatabase(t)

	_, err := storage.GetUser(context.Background(), "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = storage.GetUserByPhone(context.Background(), "+70000000000")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStorage_UpdateProfile(t *testing.T) {
	storage := setupTestDatabase(t)
	factory := NewTestDataFactory(storage)
	uid := factory.CreateUser(t)

	country := "Russia"
	u, err := storage.UpdateProfile(context.Background(), uid, models.ProfileUpdate{Country: &country})
	require.NoError(t, err)
	require.NotNil(t, u.Country)
	assert.Equal(t, country, *u.Country)
	assert.Nil(t, u.Email)
}

func TestStorage_ContextCancelled(t *testing.T) {
	storage := setupTestDatabase(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := storage.GetUser(ctx, "any")
	assert.ErrorIs(t, err, context.Canceled)
}
