package cacheapi

import (
	"context"
	"errors"
)

var (
	ErrCacheKeyNotExist = errors.New("cache key not exist")
)

type ICache[K comparable, V any] interface {
	Get(ctx context.Context, k K) (V, error)
	Set(ctx context.Context, k K, v V) error
	Del(ctx context.Context, k K) error
	Purge(ctx context.Context) error
}

type LoadCacheCallbackFunc[K comparable, V any] func(ctx context.Context, k K) (V, error)

// Load returns the cached value of k, filling the cache through cb on a miss.
// A failed Set is ignored, the loaded value is still returned.
func Load[K comparable, V any](ctx context.Context, c ICache[K, V], k K, cb LoadCacheCallbackFunc[K, V]) (V, bool, error) {
	v, err := c.Get(ctx, k)
	if err == nil {
		return v, true, nil
	}
	if !errors.Is(err, ErrCacheKeyNotExist) {
		return v, false, err
	}
	v, err = cb(ctx, k)
	if err != nil {
		return v, false, err
	}
	_ = c.Set(ctx, k, v)
	return v, false, nil
}
