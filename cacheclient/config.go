package cacheclient

import "time"

type CacheConfig struct {
	DisableListingCache bool
	ListingCacheSize    int           // max cached folders
	ListingCacheTTL     time.Duration // listings go stale quickly on shared servers
	DisableContentCache bool
	ContentCacheSize    int64 // total bytes kept in memory
	ContentKeySizeLimit int64 // larger downloads bypass the cache
}

func NewDefaultCacheConfig() *CacheConfig {
	return &CacheConfig{
		ListingCacheSize:    256,
		ListingCacheTTL:     30 * time.Second,
		ContentCacheSize:    32 * 1024 * 1024,
		ContentKeySizeLimit: 1024 * 1024,
	}
}
