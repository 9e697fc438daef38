/*
Package filesystem provides the storage layer of the asset browser: the
Storage interface consumed by the cache store and thumbnail externalizer, and
an OS implementation with automatic retry for NFS stale file handle errors.

# Storage

OSStorage is rooted at the host data directory. Callers address files with
slash-separated relative paths ("asset-browser-cache/thumbs/x.png"), which
is also the form written into cached thumbnail references. Paths that would
escape the root are rejected.

	storage := filesystem.NewOSStorage("/srv/foundry/Data")
	if err := storage.CreateDirectory(ctx, "asset-browser-cache"); err != nil {
	    return err
	}
	err := storage.WriteFile(ctx, "asset-browser-cache/cache.json", data)

CreateDirectory treats an existing directory as success. WriteFile writes a
temporary sibling and renames it into place.

# Retry Behavior

The retry logic implements exponential backoff with the following defaults:
  - MaxRetries: 3 attempts
  - InitialBackoff: 50ms
  - MaxBackoff: 500ms

Only NFS stale file handle errors (ESTALE) trigger retries. All other errors
fail immediately without retry attempts. Backoff waits are cut short when the
context is cancelled.

# Metrics

Operation durations, errors and retry counts are reported through the
package-level Observer, which the metrics package implements and main
installs at startup. Without an observer nothing is recorded.
*/
package filesystem
