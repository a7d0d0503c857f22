package games

import (
	"github.com/go-redis/redis/v7"
	"github.com/gorilla/mux"
	"github.com/guardian/gamesync/common/helpers"
	"github.com/guardian/gamesync/common/models"
	"log"
	"net/http"
)

type ImportStatusHandler struct {
	redisClient redis.Cmdable
}

type ImportStatusResponse struct {
	Status models.ImportStatus `json:"status"`
}

func (h ImportStatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !helpers.AssertHttpMethod(r, w, "GET") {
		return
	}

	taskId, errResponse := helpers.ParseTaskId(mux.Vars(r)["taskId"])
	if errResponse != nil {
		helpers.WriteJsonContent(errResponse, w, 400)
		return
	}

	task, getErr := models.ImportTaskForId(*taskId, h.redisClient)
	switch getErr {
	case nil:
		helpers.WriteJsonContent(ImportStatusResponse{task.Status}, w, 200)
	case models.ErrImportTaskNotFound:
		helpers.WriteJsonContent(helpers.GenericErrorResponse{Status: "not_found", Detail: "no such import task"}, w, 404)
	default:
		log.Printf("ERROR ImportStatusHandler could not get task %s: %s", taskId, getErr)
		helpers.WriteJsonContent(helpers.GenericErrorResponse{Status: "db_error", Detail: "Could not retrieve entry"}, w, 500)
	}
}
