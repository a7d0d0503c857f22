package main

import (
	"errors"
	"github.com/guardian/gamesync/common/helpers"
	"github.com/h2non/filetype"
	"io"
	"log"
	"net/http"
	"os"
	"path"
	"strconv"
	"strings"
)

type StaticFilesHandler struct {
	basePath string
	uriTrim  int
}

/**
removes up to `uriTrim` segments from the URI and returns the result.
*/
func (h StaticFilesHandler) getTrimmedUriPath(uri string) (string, error) {
	if h.uriTrim == 0 {
		return uri, nil
	} else {
		pathParts := strings.Split(uri, "/")
		if len(pathParts) <= h.uriTrim {
			return "", errors.New("not enough parts in URL to trim")
		}
		return strings.Join(pathParts[h.uriTrim:], "/"), nil
	}
}

/**
binary assets are identified by sniffing their content; text assets have no magic numbers so we fall back
to the file extension
*/
func contentTypeFor(fileName string) string {
	fileTypeInfo, ftErr := filetype.MatchFile(fileName)
	if ftErr == nil && fileTypeInfo != filetype.Unknown {
		return fileTypeInfo.MIME.Value
	}
	return helpers.ContentTypeForFilepath(fileName)
}

func (h StaticFilesHandler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	trimmedUriPath, trimErr := h.getTrimmedUriPath(path.Clean(req.URL.Path))
	if trimErr != nil {
		log.Printf("Could not trim URL %s: %s", req.URL.Path, trimErr)
		w.WriteHeader(404)
		return
	}

	fileName := h.basePath + "/" + trimmedUriPath
	fileInfo, err := os.Stat(fileName)
	if err != nil || fileInfo.IsDir() {
		log.Printf("Could not serve '%s': %v", fileName, err)
		w.WriteHeader(404)
		return
	}

	mimeType := contentTypeFor(fileName)
	f, openErr := os.Open(fileName)
	if openErr != nil {
		log.Printf("Could not get %s: %s", fileName, openErr)
		w.WriteHeader(500)
		return
	}
	defer f.Close()

	w.Header().Add("Content-Length", strconv.FormatInt(fileInfo.Size(), 10))
	w.Header().Add("Content-Type", mimeType)

	w.WriteHeader(200)
	_, copyErr := io.Copy(w, f)

	if copyErr != nil {
		log.Printf("Could not (fully) output %s: %s", fileName, copyErr)
	}
}
