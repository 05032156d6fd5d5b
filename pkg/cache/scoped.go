package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation.
// The asset resolver scopes thumbnail keys by catalog:
//
//	keys := NewScopedKeyer(NewDefaultKeyer(), CatalogScope("/data/story.json"))
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// ThumbnailKey generates a prefixed key for a resized asset image.
func (k *ScopedKeyer) ThumbnailKey(ref string, size int) string {
	return k.prefix + k.inner.ThumbnailKey(ref, size)
}

// RenderKey generates a prefixed key for a rendered preview.
func (k *ScopedKeyer) RenderKey(graphHash string, opts RenderKeyOpts) string {
	return k.prefix + k.inner.RenderKey(graphHash, opts)
}
