package mediatypes

import (
	"strings"
)

// InlinePrefix marks a thumbnail reference that carries its image inline as
// a data URI rather than pointing at a file.
const InlinePrefix = "data:"

// ThumbnailExtensions maps the media types the externalizer can write to the
// file extension used for them.
var ThumbnailExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// MimeTypes maps file extensions to their MIME types.
var MimeTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".svg":  "image/svg+xml",
	".json": "application/json",
}

// DataURI is a parsed "data:" reference.
type DataURI struct {
	// MediaType is lowercase without parameters, e.g. "image/png".
	// Empty when the URI declares none.
	MediaType string
	// Base64 reports whether Data is base64 encoded.
	Base64 bool
	// Data is the raw payload after the comma.
	Data string
}

// IsInline reports whether ref holds an inline data URI.
func IsInline(ref string) bool {
	return strings.HasPrefix(ref, InlinePrefix)
}

// ParseDataURI splits a data URI of the form
// "data:[<mediatype>][;param=value...][;base64],<data>".
// ok is false when ref is not a data URI or has no comma.
func ParseDataURI(ref string) (uri DataURI, ok bool) {
	if !IsInline(ref) {
		return DataURI{}, false
	}
	header, data, found := strings.Cut(ref[len(InlinePrefix):], ",")
	if !found {
		return DataURI{}, false
	}

	params := strings.Split(header, ";")
	uri.MediaType = strings.ToLower(strings.TrimSpace(params[0]))
	for _, p := range params[1:] {
		if strings.EqualFold(strings.TrimSpace(p), "base64") {
			uri.Base64 = true
		}
	}
	uri.Data = data
	return uri, true
}

// ExtensionFor returns the file extension for a thumbnail media type.
// ok is false for types the externalizer does not write.
func ExtensionFor(mediaType string) (ext string, ok bool) {
	ext, ok = ThumbnailExtensions[strings.ToLower(mediaType)]
	return ext, ok
}

// GetMimeType returns the MIME type for a given file extension.
// The extension should include the leading dot (e.g., ".jpg").
// Returns "application/octet-stream" if the extension is not recognized.
func GetMimeType(ext string) string {
	if mime, ok := MimeTypes[strings.ToLower(ext)]; ok {
		return mime
	}
	return "application/octet-stream"
}
