package indexer

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/buger/jsonparser"

	"asset-browser/internal/assetcache"
	"asset-browser/internal/logging"
)

// PlaceholderName is the name the content-authoring tool gives its template
// records. Records with this name are never merged.
const PlaceholderName = "#[CF_tempEntity]"

var errMissingName = errors.New("record has no string name")

// DecodeStats counts what DecodeRecords did with its input.
type DecodeStats struct {
	Records      int
	Placeholders int
	Malformed    int
}

// DecodeRecords parses line-delimited JSON pack content into assets, in
// source order. Blank lines are skipped, placeholder records are dropped and
// malformed lines are logged and counted. Only the top-level name, img and
// thumb fields are kept.
func DecodeRecords(data []byte) ([]assetcache.Asset, DecodeStats) {
	var (
		assets []assetcache.Asset
		stats  DecodeStats
	)

	lineNo := 0
	for len(data) > 0 {
		var line []byte
		if i := bytes.IndexByte(data, '\n'); i >= 0 {
			line, data = data[:i], data[i+1:]
		} else {
			line, data = data, nil
		}
		lineNo++

		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}

		asset, err := decodeRecord(line)
		if err != nil {
			logging.Debug("Skipping malformed record on line %d: %v", lineNo, err)
			stats.Malformed++
			continue
		}
		if asset.Name == PlaceholderName {
			stats.Placeholders++
			continue
		}
		stats.Records++
		assets = append(assets, asset)
	}

	return assets, stats
}

// decodeRecord projects one JSON object onto an asset.
func decodeRecord(line []byte) (assetcache.Asset, error) {
	var (
		asset   assetcache.Asset
		hasName bool
	)

	err := jsonparser.ObjectEach(line, func(key, value []byte, dataType jsonparser.ValueType, _ int) error {
		switch string(key) {
		case "name":
			if dataType != jsonparser.String {
				return errMissingName
			}
			name, err := jsonparser.ParseString(value)
			if err != nil {
				return fmt.Errorf("name: %w", err)
			}
			asset.Name = name
			hasName = true
		case "img":
			ref, err := optionalString(value, dataType)
			if err != nil {
				return fmt.Errorf("img: %w", err)
			}
			asset.Image = ref
		case "thumb":
			ref, err := optionalString(value, dataType)
			if err != nil {
				return fmt.Errorf("thumb: %w", err)
			}
			asset.Thumbnail = ref
		}
		return nil
	})
	if err != nil {
		return assetcache.Asset{}, err
	}
	if !hasName {
		return assetcache.Asset{}, errMissingName
	}
	return asset, nil
}

// optionalString maps a JSON string to a reference and null to nil. Any
// other type is an error.
func optionalString(value []byte, dataType jsonparser.ValueType) (*string, error) {
	switch dataType {
	case jsonparser.Null:
		return nil, nil
	case jsonparser.String:
		s, err := jsonparser.ParseString(value)
		if err != nil {
			return nil, err
		}
		return &s, nil
	default:
		return nil, fmt.Errorf("unexpected %s", dataType)
	}
}
