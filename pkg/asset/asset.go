// Package asset loads the images behind catalog asset references.
//
// An asset item's file lives at <catalog dir>/<asset type basePath>/<item
// path>. The [Resolver] reads it, scales it to fit a square thumbnail and
// caches the PNG bytes, so a thumbnail prop can be drawn every frame
// without touching the disk.
package asset

import (
	"bytes"
	"context"
	"image"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"

	"github.com/bploeckelman/nodes/pkg/cache"
	"github.com/bploeckelman/nodes/pkg/errors"
	"github.com/bploeckelman/nodes/pkg/meta"
	"github.com/bploeckelman/nodes/pkg/props"
)

// DefaultSize is the thumbnail edge length in pixels.
const DefaultSize = 128

// Resolver turns asset references into items, paths and thumbnails.
type Resolver struct {
	Catalog *meta.Catalog
	// Cache holds encoded thumbnails. Nil disables caching.
	Cache cache.Cache
	// TTL is the lifetime of cached thumbnails. Zero keeps them forever.
	TTL time.Duration
	// Size is the thumbnail edge length. Zero means DefaultSize.
	Size   int
	Logger *log.Logger

	keys cache.Keyer
}

// NewResolver returns a resolver for c that caches in store.
func NewResolver(c *meta.Catalog, store cache.Cache, logger *log.Logger) *Resolver {
	return &Resolver{Catalog: c, Cache: store, Logger: logger}
}

// Resolve returns the catalog item ref points at.
func (r *Resolver) Resolve(ctx context.Context, ref meta.AssetRef) (*meta.AssetItem, error) {
	item, ok := r.Catalog.Resolve(ref)
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "no asset %s", ref)
	}
	return item, nil
}

// Path returns the file an asset reference points at. Relative catalog
// paths resolve against the working directory.
func (r *Resolver) Path(ref meta.AssetRef) (string, error) {
	at, ok := r.Catalog.FindAssetType(ref.TypeID)
	if !ok {
		return "", errors.New(errors.ErrCodeNotFound, "no asset type %q", ref.TypeID)
	}
	item, ok := at.FindItem(ref.ItemID)
	if !ok {
		return "", errors.New(errors.ErrCodeNotFound, "no asset %s", ref)
	}
	if item.Path == "" {
		return "", errors.New(errors.ErrCodeInvalidCatalog, "asset %s has no path", ref)
	}
	dir := "."
	if r.Catalog.Path != "" {
		dir = filepath.Dir(r.Catalog.Path)
	}
	return filepath.Join(dir, at.BasePath, filepath.FromSlash(item.Path)), nil
}

// Thumbnail returns the asset's image scaled to fit a Size x Size square,
// encoded as PNG. The aspect ratio is kept.
func (r *Resolver) Thumbnail(ctx context.Context, ref meta.AssetRef) ([]byte, error) {
	size := r.size()
	key := r.keyer().ThumbnailKey(ref.CacheKey(), size)
	if r.Cache != nil {
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil {
			r.log().Warn("thumbnail cache read failed", "ref", ref, "err", err)
		} else if hit {
			r.log().Debug("thumbnail cache hit", "ref", ref)
			return data, nil
		}
	}

	path, err := r.Path(ref)
	if err != nil {
		return nil, err
	}
	src, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "asset %s", ref)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode asset %s", ref)
	}

	thumb := imaging.Fit(src, size, size, imaging.Lanczos)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.PNG); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode thumbnail %s", ref)
	}

	if r.Cache != nil {
		if err := r.Cache.Set(ctx, key, buf.Bytes(), r.TTL); err != nil {
			r.log().Warn("thumbnail cache write failed", "ref", ref, "err", err)
		}
	}
	r.log().Debug("rendered thumbnail", "ref", ref, "path", path, "bytes", buf.Len())
	return buf.Bytes(), nil
}

// ResolveImage decodes the asset's thumbnail. It lets a resolver back
// [props.Thumbnail.Image].
func (r *Resolver) ResolveImage(ctx context.Context, ref meta.AssetRef) (image.Image, error) {
	data, err := r.Thumbnail(ctx, ref)
	if err != nil {
		return nil, err
	}
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "decode thumbnail %s", ref)
	}
	return img, nil
}

func (r *Resolver) size() int {
	if r.Size <= 0 {
		return DefaultSize
	}
	return r.Size
}

func (r *Resolver) keyer() cache.Keyer {
	if r.keys == nil {
		r.keys = cache.NewScopedKeyer(cache.NewDefaultKeyer(), cache.CatalogScope(r.Catalog.Path))
	}
	return r.keys
}

func (r *Resolver) log() *log.Logger {
	if r.Logger == nil {
		return log.Default()
	}
	return r.Logger
}

var _ props.ImageResolver = (*Resolver)(nil)
