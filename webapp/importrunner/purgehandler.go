package importrunner

import (
	"github.com/go-redis/redis/v7"
	"github.com/guardian/gamesync/common/helpers"
	"github.com/guardian/gamesync/common/models"
	"log"
	"net/http"
)

/**
empties the request queue. The tasks that were waiting on it are failed, otherwise they would stay pending forever
and the dashboard would never let anyone start another import
*/
type PurgeHandler struct {
	redisClient redis.Cmdable
}

func (h PurgeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !helpers.AssertHttpMethod(r, w, "DELETE") {
		return
	}

	purged, purgeErr := models.PurgeQueue(h.redisClient, models.REQUEST_QUEUE)
	if purgeErr != nil {
		log.Printf("ERROR: PurgeHandler could not purge %s: %s", models.REQUEST_QUEUE, purgeErr)
		helpers.WriteJsonContent(helpers.GenericErrorResponse{Status: "db_error", Detail: purgeErr.Error()}, w, 500)
		return
	}

	failed := 0
	for _, entry := range purged {
		_, changeErr := models.ChangeImportStatus(entry.TaskId, models.IMPORT_FAILED, "import was cancelled", h.redisClient)
		if changeErr != nil {
			log.Printf("ERROR: PurgeHandler could not fail purged import %s: %s", entry.TaskId, changeErr)
			continue
		}
		failed++
	}

	helpers.WriteJsonContent(map[string]interface{}{
		"status": "ok",
		"purged": len(purged),
		"failed": failed,
	}, w, 200)
}
