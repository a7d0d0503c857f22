package games

import (
	"github.com/go-redis/redis/v7"
	"github.com/guardian/gamesync/common/helpers"
	"github.com/guardian/gamesync/common/models"
	"golang.org/x/text/language"
	"log"
	"net/http"
)

const DASHBOARD_TOP_GAMES = 5

type DashboardHandler struct {
	redisClient redis.Cmdable
}

//what the dashboard shows. TaskId is the pending import the page should pick up on load, if any
type PageState struct {
	TaskId        string        `json:"task_id"`
	CsrfToken     string        `json:"csrf_token"`
	GameCount     int64         `json:"game_count"`
	TotalPlaytime float64       `json:"total_playtime"`
	TopGames      []models.Game `json:"top_games"`
}

func (h DashboardHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !helpers.AssertHttpMethod(r, w, "GET") {
		return
	}

	token, tokenErr := helpers.EnsureCsrfCookie(w, r)
	if tokenErr != nil {
		helpers.WriteJsonContent(helpers.GenericErrorResponse{Status: "error", Detail: "Could not issue csrf token"}, w, 500)
		return
	}

	state, stateErr := h.loadState()
	if stateErr != nil {
		log.Printf("ERROR DashboardHandler could not load page state: %s", stateErr)
		helpers.WriteJsonContent(helpers.GenericErrorResponse{Status: "db_error", Detail: "Could not load dashboard"}, w, 500)
		return
	}
	state.CsrfToken = token

	if helpers.WantsJson(r) {
		helpers.WriteJsonContent(state, w, 200)
	} else {
		writeHtmlContent(dashboardPage, state, w, 200)
	}
}

func (h DashboardHandler) loadState() (*PageState, error) {
	var state PageState

	pending, err := models.LatestPendingImportTask(h.redisClient)
	if err != nil {
		return nil, err
	}
	if pending != nil {
		state.TaskId = pending.Id.String()
	}

	state.GameCount, err = models.GameCount(h.redisClient)
	if err != nil {
		return nil, err
	}
	state.TotalPlaytime, err = models.TotalPlaytime(h.redisClient)
	if err != nil {
		return nil, err
	}

	topGames, _, err := models.ListGames(h.redisClient, 1, models.SORT_PLAYTIME, language.Und)
	if err != nil {
		return nil, err
	}
	if len(topGames) > DASHBOARD_TOP_GAMES {
		topGames = topGames[:DASHBOARD_TOP_GAMES]
	}
	state.TopGames = topGames
	return &state, nil
}
