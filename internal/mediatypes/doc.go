// Package mediatypes provides shared media type tables and inline thumbnail
// parsing for the asset browser.
//
// This package exists as a dependency-free foundation that can be imported by other
// packages without creating import cycles. It contains primitive types, constants,
// and pure utility functions with no external dependencies beyond the standard library.
//
// # Inline Thumbnails
//
// Scene records often embed their thumbnail as a data URI:
//
//	data:image/webp;base64,UklGRh4AAABXRUJQ...
//
// ParseDataURI splits such a reference into media type, encoding flag and
// payload. ExtensionFor maps the media type to the extension an externalized
// file gets; only types listed in ThumbnailExtensions are written out.
//
// # MIME Types
//
// GetMimeType maps a file extension back to its content type for serving
// externalized thumbnails and the cache document.
package mediatypes
