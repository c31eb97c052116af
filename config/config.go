package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xxxsen/common/logger"
)

type CacheConfig struct {
	EnableListingCache  bool  `json:"enable_listing_cache"`
	ListingCacheSize    int   `json:"listing_cache_size"`
	ListingCacheTTL     int64 `json:"listing_cache_ttl"` //second
	EnableContentCache  bool  `json:"enable_content_cache"`
	ContentCacheSize    int64 `json:"content_cache_size"`
	ContentKeySizeLimit int64 `json:"content_key_size_limit"`
}

type Config struct {
	Location      string           `json:"location"`
	Username      string           `json:"username"`
	Password      string           `json:"password"`
	Timeout       int64            `json:"timeout"` //second
	Thread        int              `json:"thread"`
	RetryTimes    int              `json:"retry_times"`
	StrictListing bool             `json:"strict_listing"`
	LogInfo       logger.LogConfig `json:"log_info"`
	Cache         CacheConfig      `json:"cache"`
}

func Parse(f string) (*Config, error) {
	raw, err := os.ReadFile(f)
	if err != nil {
		return nil, fmt.Errorf("read file:%w", err)
	}
	c := &Config{
		Timeout:    30,
		Thread:     4,
		RetryTimes: 3,
		LogInfo: logger.LogConfig{
			Level:   "info",
			Console: true,
		},
		Cache: CacheConfig{
			ListingCacheSize:    256,
			ListingCacheTTL:     30,
			ContentCacheSize:    32 * 1024 * 1024,
			ContentKeySizeLimit: 1024 * 1024,
		},
	}
	if err := json.Unmarshal(raw, c); err != nil {
		return nil, fmt.Errorf("decode json failed, err:%w", err)
	}
	if len(c.Location) == 0 {
		return nil, fmt.Errorf("no location found")
	}
	return c, nil
}
