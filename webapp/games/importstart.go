package games

import (
	"github.com/go-redis/redis/v7"
	"github.com/guardian/gamesync/common/helpers"
	"github.com/guardian/gamesync/common/models"
	"log"
	"net/http"
)

type ImportStartHandler struct {
	redisClient redis.Cmdable
	steamId     string
}

type ImportStartResponse struct {
	TaskId string `json:"task_id"`
}

//where a plain form post is sent once the import is queued, relative to the import-start route
const DASHBOARD_REDIRECT = "../dashboard/"

/**
queues a new import of the configured Steam library. If an import is already pending its id is returned
instead, so a double-click can't queue the same work twice.
a browser without scripting posts the dashboard form directly; it is sent back to the dashboard, which then
shows the import as pending
*/
func (h ImportStartHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !helpers.AssertHttpMethod(r, w, "POST") {
		return
	}
	if !helpers.AssertCsrf(r, w) {
		return
	}

	existing, existingErr := models.LatestPendingImportTask(h.redisClient)
	if existingErr != nil {
		log.Printf("ERROR ImportStartHandler could not check for pending imports: %s", existingErr)
		helpers.WriteJsonContent(helpers.GenericErrorResponse{Status: "db_error", Detail: "Could not check for pending imports"}, w, 500)
		return
	}
	if existing != nil {
		log.Printf("Import %s is already pending, not starting another", existing.Id)
		h.respond(ImportStartResponse{existing.Id.String()}, w, r)
		return
	}

	newTask := models.NewImportTask(h.steamId)
	storeErr := newTask.Store(h.redisClient)
	if storeErr != nil {
		helpers.WriteJsonContent(helpers.GenericErrorResponse{Status: "db_error", Detail: "Could not save record"}, w, 500)
		return
	}

	queueErr := models.AddToQueue(h.redisClient, models.REQUEST_QUEUE, models.ImportQueueEntry{
		TaskId:  newTask.Id,
		SteamId: newTask.SteamId,
	})
	if queueErr != nil {
		log.Printf("ERROR ImportStartHandler could not queue import %s: %s", newTask.Id, queueErr)
		models.ChangeImportStatus(newTask.Id, models.IMPORT_FAILED, "could not queue import", h.redisClient)
		helpers.WriteJsonContent(helpers.GenericErrorResponse{Status: "db_error", Detail: "Could not queue import"}, w, 500)
		return
	}

	log.Printf("Queued import %s for Steam user %s", newTask.Id, newTask.SteamId)
	h.respond(ImportStartResponse{newTask.Id.String()}, w, r)
}

func (h ImportStartHandler) respond(response ImportStartResponse, w http.ResponseWriter, r *http.Request) {
	if helpers.IsFormSubmission(r) && !helpers.WantsJson(r) {
		http.Redirect(w, r, DASHBOARD_REDIRECT, http.StatusSeeOther)
		return
	}
	helpers.WriteJsonContent(response, w, 200)
}
