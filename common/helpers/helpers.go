package helpers

import (
	"encoding/json"
	"github.com/google/uuid"
	"log"
	"net/http"
	"strconv"
	"strings"
)

type GenericErrorResponse struct {
	Status string `json:"status"`
	Detail string `json:"detail"`
}

func WriteJsonContent(content interface{}, w http.ResponseWriter, statusCode int) {
	contentBytes, marshalErr := json.Marshal(content)
	if marshalErr != nil {
		log.Printf("Could not marshal content for json write: %s", marshalErr)
		return
	}

	w.Header().Add("Content-Type", "application/json")
	w.Header().Add("Content-Length", strconv.FormatInt(int64(len(contentBytes)), 10))
	w.WriteHeader(statusCode)
	_, writeErr := w.Write(contentBytes)
	if writeErr != nil {
		log.Printf("Could not write content to HTTP socket: %s", writeErr)
	}
}

func AssertHttpMethod(request *http.Request, w http.ResponseWriter, method string) bool {
	if request.Method != method {
		log.Printf("Got a %s request, expecting %s", request.Method, method)
		WriteJsonContent(GenericErrorResponse{"error", "wrong method type"}, w, 405)
		return false
	} else {
		return true
	}
}

/**
parses the given string as a task id.
if it is not a valid UUID, a GenericErrorResponse object is returned that is suitable
to be written directly to the outgoing response.
*/
func ParseTaskId(taskIdString string) (*uuid.UUID, *GenericErrorResponse) {
	taskId, uuidParseErr := uuid.Parse(taskIdString)
	if uuidParseErr != nil {
		log.Printf("Could not parse task ID string '%s' into a UUID: %s", taskIdString, uuidParseErr)
		return nil, &GenericErrorResponse{
			Status: "error",
			Detail: "malformed UUID",
		}
	}
	return &taskId, nil
}

/**
returns true if the client asked for json rather than a rendered page
*/
func WantsJson(request *http.Request) bool {
	return strings.Contains(request.Header.Get("Accept"), "application/json")
}
