package media

import (
	"strings"
	"unicode"

	"github.com/mozillazg/go-slugify"
)

// Slug turns s into a filesystem-safe name: transliterated to ASCII,
// lowercase, every run of non-alphanumeric characters collapsed to a single
// hyphen, no leading or trailing hyphen.
func Slug(s string) string {
	words := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})

	var b strings.Builder
	b.Grow(len(s))
	pendingHyphen := false
	for _, word := range words {
		pendingHyphen = true
		for _, r := range strings.ToLower(slugify.Slugify(word)) {
			if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
				if pendingHyphen && b.Len() > 0 {
					b.WriteByte('-')
				}
				pendingHyphen = false
				b.WriteRune(r)
				continue
			}
			pendingHyphen = true
		}
	}
	return b.String()
}

// ThumbnailName returns the file name an externalized thumbnail gets.
func ThumbnailName(collection, pack, assetName, ext string) string {
	name := Slug(collection + "." + pack + "." + assetName)
	if name == "" {
		name = "thumbnail"
	}
	return name + ext
}
