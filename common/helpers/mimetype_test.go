package helpers

import (
	"strings"
	"testing"
)

func TestContentTypeForFilepath(t *testing.T) {
	//ContentTypeForFilepath should recognise a stylesheet
	result := ContentTypeForFilepath("path/to/some/style.css")
	if !strings.HasPrefix(result, "text/css") {
		t.Errorf("ContentTypeForFilepath returned incorrect type %s for css", result)
	}

	mResult := ContentTypeForFilepath("static/site.webmanifest")
	if mResult != "application/manifest+json" {
		t.Errorf("ContentTypeForFilepath returned incorrect type %s for webmanifest", mResult)
	}

	oResult := ContentTypeForFilepath("path/to/some/file.notarealextension")
	if oResult != "application/octet-stream" {
		t.Errorf("ContentTypeForFilepath returned incorrect type %s for unknown extension", oResult)
	}

	nResult := ContentTypeForFilepath("path/to/noextension")
	if nResult != "application/octet-stream" {
		t.Errorf("ContentTypeForFilepath returned incorrect type %s for no extension", nResult)
	}
}
