package helpers

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"log"
	"mime"
	"net/http"
)

const (
	CSRF_COOKIE_NAME = "csrftoken"
	CSRF_HEADER_NAME = "X-CSRFToken"
	CSRF_FORM_FIELD  = "csrfmiddlewaretoken"
)

func NewCsrfToken() (string, error) {
	buf := make([]byte, 32)
	_, err := rand.Read(buf)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

/**
returns the csrf token the client already holds, or issues a new one and sets the cookie on the response
*/
func EnsureCsrfCookie(w http.ResponseWriter, r *http.Request) (string, error) {
	existing, cookieErr := r.Cookie(CSRF_COOKIE_NAME)
	if cookieErr == nil && existing.Value != "" {
		return existing.Value, nil
	}

	token, genErr := NewCsrfToken()
	if genErr != nil {
		log.Printf("ERROR: Could not generate csrf token: %s", genErr)
		return "", genErr
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CSRF_COOKIE_NAME,
		Value:    token,
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
	})
	return token, nil
}

/**
double-submit check: the token sent with the request must match the cookie token.
scripts send it in the X-CSRFToken header, a plain form post sends it in the csrfmiddlewaretoken field.
writes a 403 response and returns false if the check fails
*/
func AssertCsrf(r *http.Request, w http.ResponseWriter) bool {
	cookie, cookieErr := r.Cookie(CSRF_COOKIE_NAME)
	headerToken := r.Header.Get(CSRF_HEADER_NAME)
	if headerToken == "" {
		headerToken = r.PostFormValue(CSRF_FORM_FIELD)
	}

	if cookieErr != nil || cookie.Value == "" || headerToken == "" {
		log.Printf("WARNING: Rejecting %s %s, csrf token missing", r.Method, r.URL.Path)
		WriteJsonContent(GenericErrorResponse{"forbidden", "CSRF token missing"}, w, 403)
		return false
	}

	if subtle.ConstantTimeCompare([]byte(cookie.Value), []byte(headerToken)) != 1 {
		log.Printf("WARNING: Rejecting %s %s, csrf token mismatch", r.Method, r.URL.Path)
		WriteJsonContent(GenericErrorResponse{"forbidden", "CSRF token incorrect"}, w, 403)
		return false
	}
	return true
}

//true if the request body is an html form rather than a script's request
func IsFormSubmission(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return mediaType == "application/x-www-form-urlencoded" || mediaType == "multipart/form-data"
}
