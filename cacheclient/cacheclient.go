// Package cacheclient wraps a davclient.IClient with an in-memory listing and
// download cache. Writes issued through the wrapper invalidate what they touch;
// changes made by other clients are only seen once entries expire or get evicted.
package cacheclient

import (
	"context"
	"fmt"
	"path"

	"github.com/dgraph-io/ristretto/v2"
	explru "github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/davc/cacheapi"
	cachewrap "github.com/xxxsen/davc/cacheapi/adaptor"
	"github.com/xxxsen/davc/davclient"
	"go.uber.org/zap"
)

type cachedClient struct {
	davclient.IClient
	c       *CacheConfig
	listing cacheapi.ICache[string, []string] //folder => entries
	content cacheapi.ICache[string, []byte]   //clean remote path => body
}

func New(inner davclient.IClient, c *CacheConfig) (davclient.IClient, error) {
	if c == nil {
		c = NewDefaultCacheConfig()
	}
	impl := &cachedClient{IClient: inner, c: c}
	if err := impl.buildListingCache(c); err != nil {
		return nil, fmt.Errorf("build listing cache failed, err:%w", err)
	}
	if err := impl.buildContentCache(c); err != nil {
		return nil, fmt.Errorf("build content cache failed, err:%w", err)
	}
	return impl, nil
}

func (cc *cachedClient) buildListingCache(c *CacheConfig) error {
	if c.DisableListingCache {
		return nil
	}
	if c.ListingCacheSize <= 0 || c.ListingCacheTTL <= 0 {
		return fmt.Errorf("invalid listing cache config, size:%d, ttl:%s", c.ListingCacheSize, c.ListingCacheTTL)
	}
	cc.listing = cachewrap.WrapExpirableLruCache(explru.NewLRU[string, []string](c.ListingCacheSize, nil, c.ListingCacheTTL))
	return nil
}

func (cc *cachedClient) buildContentCache(c *CacheConfig) error {
	if c.DisableContentCache {
		return nil
	}
	if c.ContentCacheSize <= 0 || c.ContentKeySizeLimit <= 0 {
		return fmt.Errorf("invalid content cache config, size:%d, key limit:%d", c.ContentCacheSize, c.ContentKeySizeLimit)
	}
	rc, err := ristretto.NewCache(&ristretto.Config[string, []byte]{
		NumCounters: int64(float64(c.ContentCacheSize)/float64(c.ContentKeySizeLimit)*10) + 100,
		MaxCost:     c.ContentCacheSize,
		BufferItems: 64,
		Cost: func(value []byte) int64 {
			return int64(len(value))
		},
		OnEvict: func(item *ristretto.Item[[]byte]) {
			logutil.GetLogger(context.Background()).Debug("evict download from cache", zap.Int("size", len(item.Value)))
		},
	})
	if err != nil {
		return err
	}
	cc.content = cachewrap.WrapRistrettoCache(rc)
	return nil
}

func contentKey(file string) string {
	return path.Clean("/" + file)
}

func cloneStrings(in []string) []string {
	return append([]string(nil), in...)
}

func cloneBytes(in []byte) []byte {
	return append([]byte{}, in...)
}

func (cc *cachedClient) List(ctx context.Context, folder string) ([]string, error) {
	if cc.listing == nil {
		return cc.IClient.List(ctx, folder)
	}
	items, hit, err := cacheapi.Load[string, []string](ctx, cc.listing, folder, cc.IClient.List)
	if err != nil {
		return nil, err
	}
	if hit {
		logutil.GetLogger(ctx).Debug("read listing from cache", zap.String("folder", folder))
	}
	return cloneStrings(items), nil
}

func (cc *cachedClient) Download(ctx context.Context, file string) ([]byte, error) {
	if cc.content == nil {
		return cc.IClient.Download(ctx, file)
	}
	key := contentKey(file)
	if data, err := cc.content.Get(ctx, key); err == nil {
		logutil.GetLogger(ctx).Debug("read download from cache", zap.String("file", key))
		return cloneBytes(data), nil
	}
	data, err := cc.IClient.Download(ctx, file)
	if err != nil {
		return nil, err
	}
	if int64(len(data)) <= cc.c.ContentKeySizeLimit {
		_ = cc.content.Set(ctx, key, cloneBytes(data))
	}
	return data, nil
}

func (cc *cachedClient) invalidate(ctx context.Context, file string) {
	if cc.listing != nil {
		_ = cc.listing.Purge(ctx)
	}
	if cc.content != nil && len(file) != 0 {
		_ = cc.content.Del(ctx, contentKey(file))
	}
}

func (cc *cachedClient) Upload(ctx context.Context, data []byte, remotePath string) error {
	defer cc.invalidate(ctx, remotePath)
	return cc.IClient.Upload(ctx, data, remotePath)
}

func (cc *cachedClient) UploadFile(ctx context.Context, localPath string, remoteFile string) error {
	defer cc.invalidate(ctx, remoteFile)
	return cc.IClient.UploadFile(ctx, localPath, remoteFile)
}

func (cc *cachedClient) DeleteFile(ctx context.Context, remoteFile string) error {
	defer cc.invalidate(ctx, remoteFile)
	return cc.IClient.DeleteFile(ctx, remoteFile)
}

func (cc *cachedClient) CreateDirectory(ctx context.Context, dir string) error {
	defer cc.invalidate(ctx, "")
	return cc.IClient.CreateDirectory(ctx, dir)
}
