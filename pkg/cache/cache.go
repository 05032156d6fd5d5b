// Package cache stores derived bytes, such as rendered thumbnails and graph
// previews, so they are not recomputed on every request.
//
// A [Cache] maps string keys to byte slices with an optional time to live.
// Keys are built by a [Keyer] so that every producer names its entries the
// same way:
//
//	keys := cache.NewScopedKeyer(cache.NewDefaultKeyer(), cache.CatalogScope(c.Path))
//	key := keys.ThumbnailKey(ref.CacheKey(), 128)
//	if data, ok, _ := c.Get(ctx, key); ok {
//	    return data
//	}
//
// Three implementations are provided: [FileCache] for the CLI, [MemoryCache]
// for a single editor session, and [NullCache] to disable caching.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with expiring entries.
type Cache interface {
	// Get returns the entry for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// Keyer builds cache keys.
type Keyer interface {
	// ThumbnailKey names a resized asset image. ref is the asset's
	// "typeId.itemId" cache key.
	ThumbnailKey(ref string, size int) string

	// RenderKey names a rendered graph preview.
	RenderKey(graphHash string, opts RenderKeyOpts) string
}

// RenderKeyOpts are the render settings that change a preview's bytes.
type RenderKeyOpts struct {
	Format   string `json:"format"`
	Detailed bool   `json:"detailed"`
}

// DefaultKeyer is the standard [Keyer].
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) ThumbnailKey(ref string, size int) string {
	return hashKey("thumb", ref, size)
}

func (DefaultKeyer) RenderKey(graphHash string, opts RenderKeyOpts) string {
	return hashKey("render", graphHash, opts)
}

// CatalogScope returns a key prefix unique to a catalog path, so two
// catalogs with the same asset ids never share thumbnails.
func CatalogScope(catalogPath string) string {
	return "catalog:" + Hash([]byte(catalogPath))[:16] + ":"
}
