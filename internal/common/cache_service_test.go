package common

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheServiceGetOrSet(t *testing.T) {
	cache := NewCacheService(time.Minute, time.Minute)
	calls := 0
	loader := func() (any, error) {
		calls++
		return 42, nil
	}

	val, err := cache.GetOrSet("k", time.Minute, loader)
	require.NoError(t, err)
	assert.Equal(t, 42, val)

	val, err = cache.GetOrSet("k", time.Minute, loader)
	require.NoError(t, err)
	assert.Equal(t, 42, val)
	assert.Equal(t, 1, calls)

	cache.Delete("k")
	_, found := cache.Get("k")
	assert.False(t, found)
}

func TestCacheServiceLoaderErrorIsNotCached(t *testing.T) {
	cache := NewCacheService(time.Minute, time.Minute)
	boom := errors.New("boom")

	_, err := cache.GetOrSet("k", time.Minute, func() (any, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)

	_, found := cache.Get("k")
	assert.False(t, found)
}
