package props

import (
	"bytes"
	"context"
	"encoding/json"
	"image"

	"github.com/bploeckelman/nodes/pkg/graph"
	"github.com/bploeckelman/nodes/pkg/meta"
)

const TagThumbnail = "thumbnail"

// ImageResolver loads the image for an asset reference.
type ImageResolver interface {
	ResolveImage(ctx context.Context, ref meta.AssetRef) (image.Image, error)
}

// Thumbnail previews the asset item it references. The image is derived
// state: it is loaded on first use and dropped whenever the reference
// changes.
type Thumbnail struct {
	graph.PropBase
	ref   *meta.AssetRef
	image image.Image
}

func NewThumbnail() *Thumbnail { return &Thumbnail{} }

func (*Thumbnail) TypeTag() string     { return TagThumbnail }
func (*Thumbnail) DefaultName() string { return "Thumbnail" }

// Data returns the current meta.AssetRef, or nil.
func (p *Thumbnail) Data() any {
	if p.ref == nil {
		return nil
	}
	return *p.ref
}

// Ref returns the current reference.
func (p *Thumbnail) Ref() (meta.AssetRef, bool) {
	if p.ref == nil {
		return meta.AssetRef{}, false
	}
	return *p.ref, true
}

// SetRef points the thumbnail at ref and drops the cached image.
func (p *Thumbnail) SetRef(ref meta.AssetRef) {
	p.ref = &ref
	p.image = nil
}

// ClearRef removes the reference and the cached image.
func (p *Thumbnail) ClearRef() {
	p.ref = nil
	p.image = nil
}

// ClearImage drops the cached image so the next call to Image reloads it.
func (p *Thumbnail) ClearImage() { p.image = nil }

// HasImage reports whether an image is cached.
func (p *Thumbnail) HasImage() bool { return p.image != nil }

// Image returns the cached image, loading it through r on first use.
// It returns nil and no error when there is no reference.
func (p *Thumbnail) Image(ctx context.Context, r ImageResolver) (image.Image, error) {
	if p.image != nil || p.ref == nil {
		return p.image, nil
	}
	img, err := r.ResolveImage(ctx, *p.ref)
	if err != nil {
		return nil, err
	}
	p.image = img
	return img, nil
}

func (p *Thumbnail) MarshalData() ([]byte, error) { return json.Marshal(p.ref) }

func (p *Thumbnail) UnmarshalData(data []byte) error {
	p.image = nil
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		p.ref = nil
		return nil
	}
	var ref meta.AssetRef
	if err := json.Unmarshal(data, &ref); err != nil {
		return err
	}
	p.ref = &ref
	return nil
}
