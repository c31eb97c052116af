package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, data string) string {
	f := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(f, []byte(data), 0644))
	return f
}

func TestParseDefault(t *testing.T) {
	f := writeConfig(t, `{"location":"http://127.0.0.1:8080/dav","username":"u","password":"p"}`)
	c, err := Parse(f)
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:8080/dav", c.Location)
	assert.Equal(t, "u", c.Username)
	assert.Equal(t, "p", c.Password)
	assert.Equal(t, int64(30), c.Timeout)
	assert.Equal(t, 4, c.Thread)
	assert.Equal(t, 3, c.RetryTimes)
	assert.False(t, c.StrictListing)
	assert.Equal(t, "info", c.LogInfo.Level)
	assert.True(t, c.LogInfo.Console)
	assert.False(t, c.Cache.EnableListingCache)
	assert.Equal(t, 256, c.Cache.ListingCacheSize)
}

func TestParseOverride(t *testing.T) {
	f := writeConfig(t, `{
		"location":"https://dav.example.com",
		"timeout":5,
		"thread":8,
		"strict_listing":true,
		"cache":{"enable_listing_cache":true,"listing_cache_ttl":3,"enable_content_cache":true,"content_cache_size":1024}
	}`)
	c, err := Parse(f)
	require.NoError(t, err)
	assert.Equal(t, int64(5), c.Timeout)
	assert.Equal(t, 8, c.Thread)
	assert.True(t, c.StrictListing)
	assert.True(t, c.Cache.EnableListingCache)
	assert.Equal(t, int64(3), c.Cache.ListingCacheTTL)
	assert.Equal(t, 256, c.Cache.ListingCacheSize)
	assert.True(t, c.Cache.EnableContentCache)
	assert.Equal(t, int64(1024), c.Cache.ContentCacheSize)
}

func TestParseInvalid(t *testing.T) {
	_, err := Parse(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
	_, err = Parse(writeConfig(t, `{"location":`))
	assert.Error(t, err)
	_, err = Parse(writeConfig(t, `{"username":"u"}`))
	assert.Error(t, err)
}
