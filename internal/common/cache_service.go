package common

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// CacheService backs CacheInterface with go-cache
type CacheService struct {
	cache *cache.Cache
}

var _ CacheInterface = (*CacheService)(nil)

func NewCacheService(defaultExpiration, cleanUpInterval time.Duration) *CacheService {
	return &CacheService{cache: cache.New(defaultExpiration, cleanUpInterval)}
}

func (cs *CacheService) Set(key string, value any, ttl time.Duration) {
	cs.cache.Set(key, value, ttl)
}

func (cs *CacheService) Get(key string) (any, bool) {
	return cs.cache.Get(key)
}

func (cs *CacheService) Delete(key string) {
	cs.cache.Delete(key)
}

func (cs *CacheService) GetOrSet(key string, ttl time.Duration, loader func() (any, error)) (any, error) {
	if val, found := cs.Get(key); found {
		return val, nil
	}

	val, err := loader()
	if err != nil {
		return nil, err
	}

	cs.Set(key, val, ttl)
	return val, nil
}
