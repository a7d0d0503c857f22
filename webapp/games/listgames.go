package games

import (
	"github.com/go-redis/redis/v7"
	"github.com/guardian/gamesync/common/helpers"
	"github.com/guardian/gamesync/common/models"
	"golang.org/x/text/language"
	"log"
	"net/http"
	"strconv"
)

//languages we have collation rules for when sorting by name
var supportedLanguages = language.NewMatcher([]language.Tag{
	language.English,
	language.German,
	language.French,
	language.Spanish,
	language.Swedish,
	language.Polish,
	language.Russian,
	language.Japanese,
})

type ListGamesHandler struct {
	redisClient redis.Cmdable
}

type GameListPage struct {
	Games      []models.Game `json:"games"`
	Page       int           `json:"page"`
	PageCount  int           `json:"page_count"`
	Total      int64         `json:"total"`
	SortByName bool          `json:"sort_by_name"`
}

func (p GameListPage) HasPrevious() bool { return p.Page > 1 }
func (p GameListPage) HasNext() bool     { return p.Page < p.PageCount }
func (p GameListPage) PreviousPage() int { return p.Page - 1 }
func (p GameListPage) NextPage() int     { return p.Page + 1 }

func pageCount(total int64) int {
	if total == 0 {
		return 1
	}
	return int((total + models.GAMES_PER_PAGE - 1) / models.GAMES_PER_PAGE)
}

func (h ListGamesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !helpers.AssertHttpMethod(r, w, "GET") {
		return
	}

	page := 1
	if pageString := r.URL.Query().Get("page"); pageString != "" {
		parsed, parseErr := strconv.Atoi(pageString)
		if parseErr != nil || parsed < 1 {
			helpers.WriteJsonContent(helpers.GenericErrorResponse{Status: "error", Detail: "invalid page number"}, w, 400)
			return
		}
		page = parsed
	}

	order := models.SORT_PLAYTIME
	if r.URL.Query().Get("sort") == "name" {
		order = models.SORT_NAME
	}
	lang, _ := language.MatchStrings(supportedLanguages, r.Header.Get("Accept-Language"))

	games, total, listErr := models.ListGames(h.redisClient, page, order, lang)
	if listErr != nil {
		log.Printf("ERROR ListGamesHandler could not list games: %s", listErr)
		helpers.WriteJsonContent(helpers.GenericErrorResponse{Status: "db_error", Detail: "Could not list games"}, w, 500)
		return
	}

	result := GameListPage{
		Games:      games,
		Page:       page,
		PageCount:  pageCount(total),
		Total:      total,
		SortByName: order == models.SORT_NAME,
	}
	if page > result.PageCount {
		helpers.WriteJsonContent(helpers.GenericErrorResponse{Status: "not_found", Detail: "no such page"}, w, 404)
		return
	}

	if helpers.WantsJson(r) {
		helpers.WriteJsonContent(result, w, 200)
	} else {
		writeHtmlContent(listPage, result, w, 200)
	}
}
