package main

import (
	"github.com/go-redis/redis/v7"
	"github.com/guardian/gamesync/common/helpers"
	"github.com/guardian/gamesync/common/models"
	"log"
	"net/http"
)

/**
healthy means redis answers and the import request queue can be read, since without either no import can run
*/
type HealthcheckHandler struct {
	redisClient redis.Cmdable
}

func (h HealthcheckHandler) ServeHTTP(w http.ResponseWriter, request *http.Request) {
	if _, err := h.redisClient.Ping().Result(); err != nil {
		log.Printf("HEALTHCHECK FAILED: %s connecting to Redis", err)
		helpers.WriteJsonContent(helpers.GenericErrorResponse{Status: "error", Detail: "could not contact redis db"}, w, 500)
		return
	}

	queueLength, queueErr := models.GetQueueLength(h.redisClient, models.REQUEST_QUEUE)
	if queueErr != nil {
		log.Printf("HEALTHCHECK FAILED: could not read the import queue: %s", queueErr)
		helpers.WriteJsonContent(helpers.GenericErrorResponse{Status: "error", Detail: "could not read import queue"}, w, 500)
		return
	}

	helpers.WriteJsonContent(map[string]interface{}{
		"status":      "ok",
		"queueLength": queueLength,
	}, w, 200)
}
