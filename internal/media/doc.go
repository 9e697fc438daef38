// Package media externalizes inline thumbnails.
//
// Scene records carry their thumbnail as a base64 data URI. Kept inline, a
// few thousand of them make the cache document huge, so before every save the
// Externalizer writes each inline thumbnail to
//
//	<cache dir>/thumbs/<slug(collection.pack.name)>.<ext>
//
// through a filesystem.Storage and rewrites the asset's reference to that
// relative path. References that are already paths are skipped. Payloads of
// an unknown media type stay inline and are logged.
//
// When a maximum dimension is configured, larger thumbnails are fitted with
// disintegration/imaging before they are written.
package media
