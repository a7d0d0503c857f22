package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"github.com/davecgh/go-spew/spew"
	mapset "github.com/deckarep/golang-set"
	"github.com/go-redis/redis/v7"
	"github.com/guardian/gamesync/common/steam"
	"github.com/jinzhu/copier"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"log"
	"math"
	"sort"
	"strconv"
	"time"
)

const (
	GAMEIDX_PLAYTIME   = "gamesync:game:playtimeindex"
	gameKeyPattern     = "gamesync:Game:%d"
	activityKeyPattern = "gamesync:GameActivity:%d"
	UNKNOWN_GAME_NAME  = "Unknown Game"
	GAMES_PER_PAGE     = 30
)

var ErrGameNotFound = errors.New("no game with that app id")

//a game in the library. Playtime is in hours, to one decimal place
type Game struct {
	AppId        int64                  `json:"app_id"`
	Name         string                 `json:"name"`
	IconUrl      string                 `json:"icon_url"`
	Playtime     float64                `json:"playtime"`
	LastPlayedAt *time.Time             `json:"last_played_at,omitempty"`
	Developers   []string               `json:"developers,omitempty"`
	Publishers   []string               `json:"publishers,omitempty"`
	Genres       []string               `json:"genres,omitempty"`
	ReleaseDate  string                 `json:"release_date,omitempty"`
	RawData      map[string]interface{} `json:"raw_data"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
}

//one observation of a game's playtime. Playtime is in minutes
type GameActivity struct {
	AppId     int64     `json:"app_id"`
	Playtime  int       `json:"playtime"`
	CreatedAt time.Time `json:"created_at"`
}

func gameKey(appId int64) string {
	return fmt.Sprintf(gameKeyPattern, appId)
}

func activityKey(appId int64) string {
	return fmt.Sprintf(activityKeyPattern, appId)
}

func (g Game) String() string {
	return fmt.Sprintf("%s (Playtime: %.1f hours)", g.Name, g.Playtime)
}

func (g Game) HeaderImageUrl() string {
	return steam.HeaderImageUrlFor(g.AppId)
}

//the time the game was last played according to Steam, or nil if it never has been
func (g Game) LastPlayed() *time.Time {
	return g.LastPlayedAt
}

func (g Game) Store(redisClient redis.Cmdable) error {
	content, marshalErr := json.Marshal(g)
	if marshalErr != nil {
		log.Printf("Could not marshal data for game %d: %s", g.AppId, marshalErr)
		return marshalErr
	}

	p := redisClient.TxPipeline()
	p.Set(gameKey(g.AppId), string(content), -1)
	p.ZAdd(GAMEIDX_PLAYTIME, &redis.Z{
		Score:  g.Playtime,
		Member: strconv.FormatInt(g.AppId, 10),
	})
	_, err := p.Exec()
	if err != nil {
		log.Printf("Could not save game %d: %s", g.AppId, err)
	}
	return err
}

func GameForAppId(appId int64, redisClient redis.Cmdable) (*Game, error) {
	content, getErr := redisClient.Get(gameKey(appId)).Result()
	if getErr == redis.Nil {
		return nil, ErrGameNotFound
	}
	if getErr != nil {
		log.Printf("Could not retrieve game %d: %s", appId, getErr)
		return nil, getErr
	}

	var g Game
	marshalErr := json.Unmarshal([]byte(content), &g)
	if marshalErr != nil {
		log.Printf("Could not unmarshal game data from store: %s. Offending data was: %s", marshalErr, content)
		return nil, marshalErr
	}
	return &g, nil
}

func (a GameActivity) Store(redisClient redis.Cmdable) error {
	content, marshalErr := json.Marshal(a)
	if marshalErr != nil {
		return marshalErr
	}
	return redisClient.LPush(activityKey(a.AppId), string(content)).Err()
}

/**
builds the stored Game record from what Steam told us about it.
*/
func gameFromOwned(owned steam.OwnedGame) (Game, error) {
	var g Game
	copyErr := copier.Copy(&g, &owned)
	if copyErr != nil {
		return Game{}, copyErr
	}
	if g.Name == "" {
		g.Name = UNKNOWN_GAME_NAME
	}
	g.IconUrl = owned.IconUrl()
	g.Playtime = math.Round(float64(owned.PlaytimeForever)/6) / 10
	g.RawData = owned.Raw
	if !owned.LastPlayed.IsZero() {
		lastPlayed := owned.LastPlayed.UTC()
		g.LastPlayedAt = &lastPlayed
	}
	if owned.Store != nil {
		g.Developers = owned.Store.Developers
		g.Publishers = owned.Store.Publishers
		g.ReleaseDate = owned.Store.ReleaseDate.Date
		for _, genre := range owned.Store.Genres {
			g.Genres = append(g.Genres, genre.Description)
		}
	}
	return g, nil
}

/**
creates or updates a game record for each of the incoming games, and records a GameActivity for each with the
current total playtime.
returns the number of games that were newly created and the number that could not be saved. A failure on one
game does not stop the others from being saved. If the same app id turns up twice in one batch only the first is used.
*/
func SaveGames(redisClient redis.Cmdable, games []steam.OwnedGame) (int, int) {
	successCount := 0
	errorCount := 0
	seen := mapset.NewSet()
	now := time.Now()

	for _, owned := range games {
		if !seen.Add(owned.AppId) {
			log.Printf("WARNING: app id %d appeared more than once in this import, ignoring the repeat", owned.AppId)
			continue
		}

		g, buildErr := gameFromOwned(owned)
		if buildErr != nil {
			log.Printf("ERROR: Failed to save game: %s, error: %s", owned.Name, buildErr)
			log.Printf("DEBUG: Offending data was %s", spew.Sdump(owned))
			errorCount++
			continue
		}

		existing, getErr := GameForAppId(owned.AppId, redisClient)
		created := false
		switch getErr {
		case nil:
			g.CreatedAt = existing.CreatedAt
		case ErrGameNotFound:
			created = true
			g.CreatedAt = now
		default:
			log.Printf("ERROR: Failed to save game: %s, error: %s", g.Name, getErr)
			errorCount++
			continue
		}
		g.UpdatedAt = now

		if storeErr := g.Store(redisClient); storeErr != nil {
			log.Printf("ERROR: Failed to save game: %s, error: %s", g.Name, storeErr)
			errorCount++
			continue
		}

		activity := GameActivity{AppId: g.AppId, Playtime: owned.PlaytimeForever, CreatedAt: now}
		if actErr := activity.Store(redisClient); actErr != nil {
			log.Printf("ERROR: Failed to save game: %s, error: %s", g.Name, actErr)
			errorCount++
			continue
		}

		if created {
			successCount++
			log.Printf("Added new game: %s", g.Name)
		}
	}
	return successCount, errorCount
}

/**
gets the given games, in the order of the ids given. Ids with no record are skipped
*/
func gamesForIds(rawIds []string, redisClient redis.Cmdable) ([]Game, error) {
	if len(rawIds) == 0 {
		return []Game{}, nil
	}
	keys := make([]string, len(rawIds))
	for i, rawId := range rawIds {
		keys[i] = "gamesync:Game:" + rawId
	}
	values, err := redisClient.MGet(keys...).Result()
	if err != nil {
		return nil, err
	}

	result := make([]Game, 0, len(values))
	for i, v := range values {
		content, isString := v.(string)
		if !isString {
			log.Printf("WARNING: Playtime index refers to missing game %s", rawIds[i])
			continue
		}
		var g Game
		if marshalErr := json.Unmarshal([]byte(content), &g); marshalErr != nil {
			log.Printf("ERROR: Bad game data for %s: %s", rawIds[i], marshalErr)
			continue
		}
		result = append(result, g)
	}
	return result, nil
}

func GameCount(redisClient redis.Cmdable) (int64, error) {
	return redisClient.ZCard(GAMEIDX_PLAYTIME).Result()
}

/**
returns the total playtime in hours across the whole library
*/
func TotalPlaytime(redisClient redis.Cmdable) (float64, error) {
	entries, err := redisClient.ZRangeWithScores(GAMEIDX_PLAYTIME, 0, -1).Result()
	if err != nil {
		return 0, err
	}
	total := 0.0
	for _, e := range entries {
		total += e.Score
	}
	return math.Round(total*10) / 10, nil
}

type GameSortOrder int

const (
	SORT_PLAYTIME GameSortOrder = iota
	SORT_NAME
)

/**
returns one page of the library (pages count from 1) plus the total number of games.
playtime order comes straight from the index; name order needs the whole library so it is sorted in memory
using the collation rules for the given language
*/
func ListGames(redisClient redis.Cmdable, page int, order GameSortOrder, lang language.Tag) ([]Game, int64, error) {
	if page < 1 {
		page = 1
	}
	total, countErr := GameCount(redisClient)
	if countErr != nil {
		return nil, 0, countErr
	}
	start := int64((page - 1) * GAMES_PER_PAGE)
	if start >= total {
		return []Game{}, total, nil
	}

	if order == SORT_PLAYTIME {
		rawIds, err := redisClient.ZRevRange(GAMEIDX_PLAYTIME, start, start+GAMES_PER_PAGE-1).Result()
		if err != nil {
			return nil, 0, err
		}
		games, getErr := gamesForIds(rawIds, redisClient)
		return games, total, getErr
	}

	rawIds, err := redisClient.ZRevRange(GAMEIDX_PLAYTIME, 0, -1).Result()
	if err != nil {
		return nil, 0, err
	}
	all, getErr := gamesForIds(rawIds, redisClient)
	if getErr != nil {
		return nil, 0, getErr
	}
	SortGamesByName(all, lang)

	end := start + GAMES_PER_PAGE
	if end > int64(len(all)) {
		end = int64(len(all))
	}
	if start >= end {
		return []Game{}, total, nil
	}
	return all[start:end], total, nil
}

type gamesByName struct {
	games []Game
	keys  [][]byte
}

func (s gamesByName) Len() int { return len(s.games) }
func (s gamesByName) Swap(i, j int) {
	s.games[i], s.games[j] = s.games[j], s.games[i]
	s.keys[i], s.keys[j] = s.keys[j], s.keys[i]
}
func (s gamesByName) Less(i, j int) bool {
	return string(s.keys[i]) < string(s.keys[j])
}

func SortGamesByName(games []Game, lang language.Tag) {
	c := collate.New(lang, collate.IgnoreCase)
	buf := &collate.Buffer{}
	keys := make([][]byte, len(games))
	for i, g := range games {
		k := c.KeyFromString(buf, g.Name)
		keys[i] = append([]byte(nil), k...)
	}
	sort.Stable(gamesByName{games, keys})
}

/**
returns the recorded activity for the given game, newest first
*/
func HistoryForGame(appId int64, redisClient redis.Cmdable) ([]GameActivity, error) {
	rawEntries, err := redisClient.LRange(activityKey(appId), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	result := make([]GameActivity, 0, len(rawEntries))
	for _, raw := range rawEntries {
		var a GameActivity
		if marshalErr := json.Unmarshal([]byte(raw), &a); marshalErr != nil {
			log.Printf("ERROR: Bad activity data for %d: %s. Offending data was %s", appId, marshalErr, raw)
			continue
		}
		result = append(result, a)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}
