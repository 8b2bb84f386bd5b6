package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/premium-blog/internal/config"
	"github.com/magabrotheeeer/premium-blog/internal/models"
)

type testStruct struct {
	Name string
	Age  int
}

func setupTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	cfg := config.RedisConnection{AddressRedis: mr.Addr()}

	cache, err := InitServer(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cache.Close() })
	return cache, mr
}

func TestInitServer_Unreachable(t *testing.T) {
	_, err := InitServer(context.Background(), config.RedisConnection{
		AddressRedis: "127.0.0.1:1",
		DialTimeout:  100 * time.Millisecond,
	})
	require.Error(t, err)
}

func TestSetAndGet(t *testing.T) {
	ctx := context.Background()
	cache, _ := setupTestCache(t)

	expected := testStruct{Name: "Alice", Age: 30}
	require.NoError(t, cache.Set(ctx, "user:1", expected, time.Minute))

	var actual testStruct
	found, err := cache.Get(ctx, "user:1", &actual)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, expected, actual)
}

func TestGetNotFound(t *testing.T) {
	cache, _ := setupTestCache(t)

	var out testStruct
	found, err := cache.Get(context.Background(), "no_such_key", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestInvalidate(t *testing.T) {
	ctx := context.Background()
	cache, _ := setupTestCache(t)

	require.NoError(t, cache.Set(ctx, PostKey(7), "value", time.Minute))
	require.NoError(t, cache.Invalidate(ctx, PostKey(7)))

	var out string
	found, err := cache.Get(ctx, PostKey(7), &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestGetInvalidJSON(t *testing.T) {
	ctx := context.Background()
	cache, _ := setupTestCache(t)

	require.NoError(t, cache.Db.Set(ctx, "bad", "not-json", time.Minute).Err())

	var out testStruct
	found, err := cache.Get(ctx, "bad", &out)
	assert.Error(t, err)
	assert.False(t, found)
}

func TestPendingRegistration_Lifecycle(t *testing.T) {
	ctx := context.Background()
	cache, mr := setupTestCache(t)

	reg := models.PendingRegistration{
		Token:        "tok-1",
		PhoneNumber:  "+79991234567",
		PasswordHash: "hash",
		Code:         "123456",
		ExpiresAt:    time.Now().Add(10 * time.Minute),
	}
	require.NoError(t, cache.SavePendingRegistration(ctx, reg))

	got, err := cache.GetPendingRegistration(ctx, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, "123456", got.Code)
	assert.Equal(t, 0, got.Attempts)

	n, err := cache.IncrementAttempts(ctx, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err = cache.GetPendingRegistration(ctx, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, 1, got.Attempts)

	mr.FastForward(11 * time.Minute)
	_, err = cache.GetPendingRegistration(ctx, "tok-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPendingRegistration_Delete(t *testing.T) {
	ctx := context.Background()
	cache, mr := setupTestCache(t)

	reg := models.PendingRegistration{Token: "tok-2", Code: "000000", ExpiresAt: time.Now().Add(time.Minute)}
	require.NoError(t, cache.SavePendingRegistration(ctx, reg))
	require.NoError(t, cache.DeletePendingRegistration(ctx, "tok-2"))

	_, err := cache.GetPendingRegistration(ctx, "tok-2")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, mr.Exists(attemptsKey("tok-2")))
}

func TestIncrementAttempts_DeletedRegistration(t *testing.T) {
	ctx := context.Background()
	cache, mr := setupTestCache(t)

	_, err := cache.IncrementAttempts(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, mr.Exists(attemptsKey("missing")), "counter must not be recreated without ttl")
}

func TestSavePendingRegistration_Expired(t *testing.T) {
	cache, _ := setupTestCache(t)
	err := cache.SavePendingRegistration(context.Background(), models.PendingRegistration{
		Token:     "old",
		ExpiresAt: time.Now().Add(-time.Second),
	})
	assert.Error(t, err)
}

func TestSMSCooldown(t *testing.T) {
	ctx := context.Background()
	cache, mr := setupTestCache(t)

	ok, err := cache.AcquireSMSCooldown(ctx, "+79991234567", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = cache.AcquireSMSCooldown(ctx, "+79991234567", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	mr.FastForward(61 * time.Second)
	ok, err = cache.AcquireSMSCooldown(ctx, "+79991234567", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, cache.ReleaseSMSCooldown(ctx, "+79991234567"))
	ok, err = cache.AcquireSMSCooldown(ctx, "+79991234567", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRevokeToken(t *testing.T) {
	ctx := context.Background()
	cache, mr := setupTestCache(t)

	revoked, err := cache.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, cache.RevokeToken(ctx, "jti-1", time.Hour))
	revoked, err = cache.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	mr.FastForward(2 * time.Hour)
	revoked, err = cache.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, cache.RevokeToken(ctx, "jti-2", 0))
	revoked, err = cache.IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)
}
