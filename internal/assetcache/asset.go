package assetcache

import (
	"crypto/md5" //nolint:gosec // MD5 used for cache key generation, not security
	"encoding/hex"
	"io"
)

// Asset is one indexed item: a display name plus image and thumbnail
// references. Thumbnail holds either an inline data URI or, once
// externalized, a path relative to the storage root.
type Asset struct {
	Name      string  `json:"name"`
	Image     *string `json:"img,omitempty"`
	Thumbnail *string `json:"thumb,omitempty"`
}

// Ref returns a pointer to s, for building optional Asset fields.
func Ref(s string) *string {
	return &s
}

// ImageRef returns the image reference or "" when absent.
func (a Asset) ImageRef() string {
	if a.Image == nil {
		return ""
	}
	return *a.Image
}

// ThumbnailRef returns the thumbnail reference or "" when absent.
func (a Asset) ThumbnailRef() string {
	if a.Thumbnail == nil {
		return ""
	}
	return *a.Thumbnail
}

func (a Asset) clone() Asset {
	if a.Image != nil {
		a.Image = Ref(*a.Image)
	}
	if a.Thumbnail != nil {
		a.Thumbnail = Ref(*a.Thumbnail)
	}
	return a
}

// Key returns the asset's content-derived cache key.
func (a Asset) Key() string {
	return AssetKey(a.Name, a.Image)
}

// AssetKey derives the stable item key from an asset's name and image
// reference. It does not depend on the asset's position in its source, so
// re-indexing the same logical asset always overwrites the same entry.
func AssetKey(name string, image *string) string {
	h := md5.New() //nolint:gosec
	_, _ = io.WriteString(h, name)
	_, _ = h.Write([]byte{0})
	if image != nil {
		_, _ = io.WriteString(h, *image)
	}
	return hex.EncodeToString(h.Sum(nil))
}
