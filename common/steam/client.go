package steam

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/ioutil"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	STEAM_API_URL            = "https://api.steampowered.com/IPlayerService/GetOwnedGames/v0001/"
	STEAM_STORE_URL          = "https://store.steampowered.com/api/appdetails"
	STEAM_PLAYER_SUMMARY_URL = "https://api.steampowered.com/ISteamUser/GetPlayerSummaries/v0002/"

	DEFAULT_REQUEST_TIMEOUT = 10 * time.Second
	//the store API rate-limits aggressively, so detail lookups are spaced out
	DEFAULT_STORE_DELAY = 1200 * time.Millisecond
)

type GameService interface {
	GetUserGames(ctx context.Context, userId string, apiKey string) ([]OwnedGame, error)
}

type Client struct {
	HttpClient       *http.Client
	ApiUrl           string
	StoreUrl         string
	PlayerSummaryUrl string
	StoreDelay       time.Duration
}

func NewClient() *Client {
	return &Client{
		HttpClient:       &http.Client{Timeout: DEFAULT_REQUEST_TIMEOUT},
		ApiUrl:           STEAM_API_URL,
		StoreUrl:         STEAM_STORE_URL,
		PlayerSummaryUrl: STEAM_PLAYER_SUMMARY_URL,
		StoreDelay:       DEFAULT_STORE_DELAY,
	}
}

/**
returns the user's owned games. Games that have been played at least once get their store details merged in.
an error is only returned if the base library listing could not be obtained; failed detail lookups
are logged and the game is returned without store data
*/
func (c *Client) GetUserGames(ctx context.Context, userId string, apiKey string) ([]OwnedGame, error) {
	rawGames, listErr := c.getGamesBaseInfo(ctx, userId, apiKey)
	if listErr != nil {
		log.Printf("ERROR: Failed to get games for user %s: %s", userId, listErr)
		return nil, listErr
	}

	games := make([]OwnedGame, 0, len(rawGames))
	for _, rawGame := range rawGames {
		game, decodeErr := OwnedGameFromMap(rawGame)
		if decodeErr != nil {
			log.Printf("WARNING: Skipping game entry that could not be decoded: %s", decodeErr)
			continue
		}

		if game.PlaytimeForever > 0 {
			storeData, storeErr := c.getStoreDetails(ctx, game.AppId)
			if storeErr != nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				log.Printf("WARNING: Failed to get store details for game %d: %s", game.AppId, storeErr)
			} else if storeData != nil {
				game.MergeStoreData(storeData)
			}
		}
		games = append(games, game)
	}
	return games, nil
}

func (c *Client) getJson(ctx context.Context, target string, params url.Values, to interface{}) error {
	req, reqErr := http.NewRequest("GET", target+"?"+params.Encode(), nil)
	if reqErr != nil {
		return reqErr
	}
	req = req.WithContext(ctx)

	response, err := c.HttpClient.Do(req)
	if err != nil {
		return err
	}
	defer response.Body.Close()

	body, readErr := ioutil.ReadAll(response.Body)
	if readErr != nil {
		return readErr
	}
	if response.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned %d: %s", response.StatusCode, string(body))
	}
	return json.Unmarshal(body, to)
}

func (c *Client) getGamesBaseInfo(ctx context.Context, userId string, apiKey string) ([]map[string]interface{}, error) {
	params := url.Values{}
	params.Set("key", apiKey)
	params.Set("steamid", userId)
	params.Set("include_appinfo", "true")
	params.Set("include_played_free_games", "true")
	params.Set("format", "json")

	var content struct {
		Response struct {
			GameCount int                      `json:"game_count"`
			Games     []map[string]interface{} `json:"games"`
		} `json:"response"`
	}
	err := c.getJson(ctx, c.ApiUrl, params, &content)
	if err != nil {
		return nil, err
	}
	return content.Response.Games, nil
}

/**
returns the "data" section of the store listing for the given app, or nil if the store has nothing for it
*/
func (c *Client) getStoreDetails(ctx context.Context, appId int64) (map[string]interface{}, error) {
	if c.StoreDelay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.StoreDelay):
		}
	}

	params := url.Values{}
	params.Set("appids", strconv.FormatInt(appId, 10))

	var content map[string]struct {
		Success bool                   `json:"success"`
		Data    map[string]interface{} `json:"data"`
	}
	err := c.getJson(ctx, c.StoreUrl, params, &content)
	if err != nil {
		return nil, err
	}

	entry, haveEntry := content[strconv.FormatInt(appId, 10)]
	if !haveEntry || !entry.Success {
		return nil, nil
	}
	return entry.Data, nil
}

type PlayerSummary struct {
	SteamId     string `json:"steamid"`
	PersonaName string `json:"personaname"`
	ProfileUrl  string `json:"profileurl"`
	Avatar      string `json:"avatar"`
}

var ErrNoPlayerData = errors.New("got no player data for this Steam ID")

/**
looks up the public profile for the given steam id. Used to check that the configured credentials work.
*/
func (c *Client) PlayerSummary(ctx context.Context, userId string, apiKey string) (*PlayerSummary, error) {
	params := url.Values{}
	params.Set("key", apiKey)
	params.Set("steamids", userId)

	var content struct {
		Response struct {
			Players []PlayerSummary `json:"players"`
		} `json:"response"`
	}
	err := c.getJson(ctx, c.PlayerSummaryUrl, params, &content)
	if err != nil {
		return nil, err
	}
	if len(content.Response.Players) == 0 {
		return nil, ErrNoPlayerData
	}
	return &content.Response.Players[0], nil
}
