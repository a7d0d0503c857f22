package importrunner

import (
	"github.com/go-redis/redis/v7"
	"github.com/gorilla/mux"
	"github.com/guardian/gamesync/common/helpers"
	"github.com/guardian/gamesync/common/models"
	"log"
	"net/http"
)

type QueueStatsHandler struct {
	redisClient redis.Cmdable
}

func (h QueueStatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !helpers.AssertHttpMethod(r, w, "GET") {
		return
	}

	queueLength, getErr := models.GetQueueLength(h.redisClient, models.REQUEST_QUEUE)
	if getErr != nil {
		log.Printf("ERROR: QueueStatsHandler could not get queue length: %s", getErr)
		helpers.WriteJsonContent(helpers.GenericErrorResponse{Status: "db_error", Detail: getErr.Error()}, w, 500)
		return
	}
	summary, summaryErr := models.ImportStatusSummary(h.redisClient)
	if summaryErr != nil {
		log.Printf("ERROR: QueueStatsHandler could not get import statuses: %s", summaryErr)
		helpers.WriteJsonContent(helpers.GenericErrorResponse{Status: "db_error", Detail: summaryErr.Error()}, w, 500)
		return
	}

	helpers.WriteJsonContent(map[string]interface{}{
		"status":      "ok",
		"queueLength": queueLength,
		"imports": map[string]int64{
			"pending": summary[models.IMPORT_PENDING],
			"success": summary[models.IMPORT_SUCCESS],
			"failed":  summary[models.IMPORT_FAILED],
		},
	}, w, 200)
}

type ImportRunnerEndpoints struct {
	QueueStats QueueStatsHandler
	Purge      PurgeHandler
}

func NewImportRunnerEndpoints(redisClient redis.Cmdable) ImportRunnerEndpoints {
	return ImportRunnerEndpoints{
		QueueStats: QueueStatsHandler{redisClient: redisClient},
		Purge:      PurgeHandler{redisClient: redisClient},
	}
}

func (e ImportRunnerEndpoints) WireUp(router *mux.Router, baseUrl string) {
	router.Handle(baseUrl+"/queuestats", e.QueueStats)
	router.Handle(baseUrl+"/queue", e.Purge)
}
