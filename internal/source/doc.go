/*
Package source defines what the indexer needs from the host environment and
provides the Foundry VTT implementation of it.

A Registry enumerates collections (modules) and their packs; a Fetcher reads
the raw, line-delimited JSON content of one pack. ModuleDir implements both
over a Foundry data directory:

	<data>/modules/<id>/module.json
	<data>/modules/<id>/<pack.path>

Manifests are read with the filesystem package's NFS retry. Collections are
enumerated in directory order and packs in manifest order. Both the current
manifest keys ("id", "type") and the legacy ones ("name", "entity") are
understood.

The sourcetest subpackage provides an in-memory Registry and Fetcher for tests.
*/
package source
