/*
Package store persists the asset cache as a single JSON document.

The document lives at <cache dir>/cache.json and mirrors the cache levels:

	{
	  "<collection>": {
	    "title": "...",
	    "onePack": false,
	    "packs": {
	      "<pack>": {
	        "title": "...",
	        "path": "modules/<id>/packs/scenes.db",
	        "assets": {
	          "<key>": {"name": "...", "img": "...", "thumb": "..."}
	        }
	      }
	    }
	  }
	}

Keys keep insertion order. Save first runs the thumbnail externalizer so
the document never carries inline images, then writes the indented document
through filesystem.Storage. Load replaces the cache wholesale, but only when
the document reads and parses; otherwise the cache is left as it was.

ScheduleSave coalesces bursts of save requests (one per reindexed
collection, for instance) into a single save after a short delay. Flush runs
a pending save immediately and is called on shutdown.
*/
package store
