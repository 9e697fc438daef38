// Command assetctl indexes and inspects an asset browser data directory
// without running the HTTP service.
//
// It reads the same environment and .env file as the service, so by
// default it works on DATA_DIR and SELECTED_COLLECTIONS:
//
//	assetctl reindex                  # full reindex of SELECTED_COLLECTIONS
//	assetctl reindex mod-a --shallow  # register mod-a without reading packs
//	assetctl register mod-b
//	assetctl list mod-a scenes
//	assetctl stats
//	assetctl externalize
//	assetctl runs --limit 5
//
// Progress is written to stderr and results to stdout.
package main
