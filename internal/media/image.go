package media

import (
	"bytes"
	"fmt"
	"image"

	"asset-browser/internal/logging"

	// Image format decoders
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // WebP format support
)

const (
	// MaxImagePixels is the maximum total pixels (width * height) we'll decode
	// for downscaling. Larger thumbnails are written unchanged.
	MaxImagePixels = 20_000_000 // ~20MP, uses ~80MB in RGBA
)

// ImageDimensions holds image width and height
type ImageDimensions struct {
	Width  int
	Height int
}

// GetImageDimensions returns image dimensions without fully decoding the image
func GetImageDimensions(data []byte) (*ImageDimensions, error) {
	config, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	return &ImageDimensions{
		Width:  config.Width,
		Height: config.Height,
	}, nil
}

// encodeFormats maps thumbnail extensions to the format they are re-encoded
// in after downscaling. WebP has no encoder and becomes PNG.
var encodeFormats = map[string]struct {
	format imaging.Format
	ext    string
}{
	".png":  {imaging.PNG, ".png"},
	".jpg":  {imaging.JPEG, ".jpg"},
	".gif":  {imaging.GIF, ".gif"},
	".webp": {imaging.PNG, ".png"},
}

// FitImage downscales an encoded image so neither side exceeds maxDimension.
// It returns the new bytes and extension, or the input unchanged when no
// resize is needed or possible.
func FitImage(data []byte, ext string, maxDimension int) ([]byte, string, error) {
	if maxDimension <= 0 {
		return data, ext, nil
	}

	dimensions, err := GetImageDimensions(data)
	if err != nil {
		return data, ext, fmt.Errorf("failed to read image dimensions: %w", err)
	}

	width, height := dimensions.Width, dimensions.Height
	if width <= maxDimension && height <= maxDimension {
		return data, ext, nil
	}
	if width*height > MaxImagePixels {
		logging.Warn("Thumbnail too large to downscale (%dx%d), keeping original", width, height)
		return data, ext, nil
	}

	target, ok := encodeFormats[ext]
	if !ok {
		return data, ext, nil
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return data, ext, fmt.Errorf("failed to decode image: %w", err)
	}

	thumb := imaging.Fit(img, maxDimension, maxDimension, imaging.Lanczos)
	logging.Debug("Downscaled thumbnail from %dx%d to %dx%d", width, height, thumb.Bounds().Dx(), thumb.Bounds().Dy())

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, target.format, imaging.JPEGQuality(85)); err != nil {
		return data, ext, fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	return buf.Bytes(), target.ext, nil
}
