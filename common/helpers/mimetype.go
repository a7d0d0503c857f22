package helpers

import (
	"mime"
	"regexp"
	"sync"
)

var FileExtensionExtractor = regexp.MustCompile("(\\.[^\\.]+)$")
var once sync.Once

/**
works out a content type from the file extension alone. Used for text assets (css, js, svg)
that can't be identified by sniffing their content
*/
func ContentTypeForFilepath(filepath string) string {
	once.Do(func() {
		mime.AddExtensionType(".webmanifest", "application/manifest+json")
		mime.AddExtensionType(".map", "application/json")
	})

	matches := FileExtensionExtractor.FindStringSubmatch(filepath)
	if matches == nil {
		return "application/octet-stream"
	}
	mimeType := mime.TypeByExtension(matches[1])
	if mimeType == "" {
		return "application/octet-stream"
	}
	return mimeType
}
