package common

import (
	"context"
	"testing"
	"time"

	"clubhouse/internal/constants"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T) (*RedisSessionStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisSessionStore(client), mr
}

func TestSessionServiceRedisLifecycle(t *testing.T) {
	store, mr := newRedisStore(t)
	svc := NewSessionService(store, time.Hour)
	ctx := context.Background()

	session, err := svc.CreateSession(ctx, 3, "alice", constants.RoleAdmin)
	require.NoError(t, err)
	assert.NotEmpty(t, session.SessionID)
	assert.True(t, mr.Exists("session:"+session.SessionID))

	got, err := svc.GetSession(ctx, session.SessionID)
	require.NoError(t, err)
	assert.Equal(t, uint(3), got.UserID)
	assert.Equal(t, "alice", got.Username)
	assert.True(t, got.IsAdmin())

	require.NoError(t, svc.DeleteSession(ctx, session.SessionID))
	_, err = svc.GetSession(ctx, session.SessionID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionServiceRedisTTL(t *testing.T) {
	store, mr := newRedisStore(t)
	svc := NewSessionService(store, time.Minute)
	ctx := context.Background()

	session, err := svc.CreateSession(ctx, 1, "bob", constants.RoleUser)
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	_, err = svc.GetSession(ctx, session.SessionID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionServiceMemoryStore(t *testing.T) {
	svc := NewSessionService(NewMemorySessionStore(), time.Hour)
	ctx := context.Background()

	session, err := svc.CreateSession(ctx, 9, "carol", constants.RoleUser)
	require.NoError(t, err)

	got, err := svc.GetSession(ctx, session.SessionID)
	require.NoError(t, err)
	assert.False(t, got.IsAdmin())

	require.NoError(t, svc.RefreshSession(ctx, session.SessionID))

	_, err = svc.GetSession(ctx, "")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = svc.GetSession(ctx, "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionServiceRejectsExpiredPayload(t *testing.T) {
	store := NewMemorySessionStore()
	svc := NewSessionService(store, time.Hour)
	ctx := context.Background()

	session, err := svc.CreateSession(ctx, 1, "dave", constants.RoleUser)
	require.NoError(t, err)

	// a store that outlives the embedded expiry must still be rejected
	session.ExpiresAt = time.Now().Add(-time.Second)
	require.NoError(t, store.Save(ctx, session.SessionID, mustJSON(t, session), time.Hour))

	_, err = svc.GetSession(ctx, session.SessionID)
	assert.ErrorIs(t, err, ErrSessionExpired)

	_, err = store.Load(ctx, session.SessionID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
