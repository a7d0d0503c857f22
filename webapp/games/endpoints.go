package games

import (
	"github.com/go-redis/redis/v7"
	"github.com/gorilla/mux"
	"github.com/guardian/gamesync/common/helpers"
	"net/http"
)

type GamesEndpoints struct {
	StartHandler     ImportStartHandler
	StatusHandler    ImportStatusHandler
	DashboardHandler DashboardHandler
	ListHandler      ListGamesHandler
	DetailHandler    GameDetailHandler
}

func NewGamesEndpoints(redisClient redis.Cmdable, config *helpers.Config) GamesEndpoints {
	return GamesEndpoints{
		StartHandler:     ImportStartHandler{redisClient: redisClient, steamId: config.Steam.SteamId},
		StatusHandler:    ImportStatusHandler{redisClient: redisClient},
		DashboardHandler: DashboardHandler{redisClient: redisClient},
		ListHandler:      ListGamesHandler{redisClient: redisClient},
		DetailHandler:    GameDetailHandler{redisClient: redisClient},
	}
}

/**
registers the games handlers on the given router. The routes have trailing slashes, so a request without
one is redirected to the canonical path by the router
*/
func (e GamesEndpoints) WireUp(router *mux.Router, baseUrlPath string) {
	sub := router.PathPrefix(baseUrlPath).Subrouter()
	sub.StrictSlash(true)
	sub.Handle("/import-start/", e.StartHandler)
	sub.Handle("/import-status/{taskId}/", e.StatusHandler)
	sub.Handle("/dashboard/", e.DashboardHandler)
	sub.Handle("/{appId:[0-9]+}/", e.DetailHandler)
	sub.Handle("/", e.ListHandler)
}

//convenience for callers that just want a router with the games endpoints on it
func NewRouter(e GamesEndpoints, baseUrlPath string) http.Handler {
	r := mux.NewRouter()
	e.WireUp(r, baseUrlPath)
	return r
}
