package main

import (
	"github.com/guardian/gamesync/common/helpers"
	"log"
	"net/http"
	"strings"
)

/**
the site root has no page of its own, it sends people on to the dashboard
*/
type IndexHandler struct {
	redirectTo     string
	exactMatchPath string
}

func (h IndexHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.exactMatchPath != "" && r.URL.Path != h.exactMatchPath {
		if strings.HasPrefix(r.URL.Path, "/api") {
			log.Printf("Access for invalid API path %s fell through to index handler, returning json 404", r.URL.Path)
			helpers.WriteJsonContent(helpers.GenericErrorResponse{
				Status: "not_found",
				Detail: "invalid api endpoint",
			}, w, 404)
			return
		}
		log.Printf("Requested URL %s did not match exactMatchPath %s for this controller", r.URL.Path, h.exactMatchPath)
		w.WriteHeader(404)
		return
	}

	http.Redirect(w, r, h.redirectTo, http.StatusFound)
}
