package games

import (
	"github.com/go-redis/redis/v7"
	"github.com/gorilla/mux"
	"github.com/guardian/gamesync/common/helpers"
	"github.com/guardian/gamesync/common/models"
	"log"
	"net/http"
	"strconv"
	"time"
)

type GameDetailHandler struct {
	redisClient redis.Cmdable
}

type GameDetail struct {
	Game           models.Game           `json:"game"`
	HeaderImageUrl string                `json:"header_image_url"`
	LastPlayed     *time.Time            `json:"last_played"`
	History        []models.GameActivity `json:"history"`
}

func (h GameDetailHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !helpers.AssertHttpMethod(r, w, "GET") {
		return
	}

	appId, parseErr := strconv.ParseInt(mux.Vars(r)["appId"], 10, 64)
	if parseErr != nil {
		helpers.WriteJsonContent(helpers.GenericErrorResponse{Status: "error", Detail: "invalid app id"}, w, 400)
		return
	}

	game, getErr := models.GameForAppId(appId, h.redisClient)
	if getErr == models.ErrGameNotFound {
		helpers.WriteJsonContent(helpers.GenericErrorResponse{Status: "not_found", Detail: "no such game"}, w, 404)
		return
	} else if getErr != nil {
		helpers.WriteJsonContent(helpers.GenericErrorResponse{Status: "db_error", Detail: "Could not retrieve entry"}, w, 500)
		return
	}

	history, historyErr := models.HistoryForGame(appId, h.redisClient)
	if historyErr != nil {
		log.Printf("ERROR GameDetailHandler could not get history for %d: %s", appId, historyErr)
		helpers.WriteJsonContent(helpers.GenericErrorResponse{Status: "db_error", Detail: "Could not retrieve history"}, w, 500)
		return
	}

	detail := GameDetail{
		Game:           *game,
		HeaderImageUrl: game.HeaderImageUrl(),
		LastPlayed:     game.LastPlayed(),
		History:        history,
	}
	if helpers.WantsJson(r) {
		helpers.WriteJsonContent(detail, w, 200)
	} else {
		writeHtmlContent(detailPage, detail, w, 200)
	}
}
