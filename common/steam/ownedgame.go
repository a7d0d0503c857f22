package steam

import (
	"fmt"
	"github.com/guardian/gamesync/common/helpers"
	"log"
	"time"
)

const (
	ICON_URL_PATTERN   = "https://media.steampowered.com/steamcommunity/public/images/apps/%d/%s.jpg"
	HEADER_URL_PATTERN = "https://cdn.cloudflare.steamstatic.com/steam/apps/%d/header.jpg"
)

//one entry from a user's library. PlaytimeForever is in minutes, as Steam reports it
type OwnedGame struct {
	AppId           int64                  `mapstructure:"appid"`
	Name            string                 `mapstructure:"name"`
	PlaytimeForever int                    `mapstructure:"playtime_forever"`
	ImgIconUrl      string                 `mapstructure:"img_icon_url"`
	LastPlayed      time.Time              `mapstructure:"rtime_last_played"`
	Store           *StoreDetails          `mapstructure:"-"`
	Raw             map[string]interface{} `mapstructure:"-"`
}

type Genre struct {
	Id          string `mapstructure:"id"`
	Description string `mapstructure:"description"`
}

type ReleaseDate struct {
	ComingSoon bool   `mapstructure:"coming_soon"`
	Date       string `mapstructure:"date"`
}

//the parts of a store listing we care about. Everything else stays in OwnedGame.Raw
type StoreDetails struct {
	Type             string      `mapstructure:"type"`
	Name             string      `mapstructure:"name"`
	IsFree           bool        `mapstructure:"is_free"`
	ShortDescription string      `mapstructure:"short_description"`
	HeaderImage      string      `mapstructure:"header_image"`
	Developers       []string    `mapstructure:"developers"`
	Publishers       []string    `mapstructure:"publishers"`
	Genres           []Genre     `mapstructure:"genres"`
	ReleaseDate      ReleaseDate `mapstructure:"release_date"`
}

func OwnedGameFromMap(raw map[string]interface{}) (OwnedGame, error) {
	var game OwnedGame
	err := helpers.CustomisedMapStructureDecode(raw, &game)
	if err != nil {
		return OwnedGame{}, err
	}
	if game.AppId == 0 {
		return OwnedGame{}, fmt.Errorf("game entry has no appid")
	}

	game.Raw = make(map[string]interface{}, len(raw))
	for k, v := range raw {
		game.Raw[k] = v
	}
	return game, nil
}

/**
merges a store listing into the game. Store keys take precedence over the library listing in Raw;
if the listing can't be decoded into StoreDetails it is still kept in Raw
*/
func (g *OwnedGame) MergeStoreData(storeData map[string]interface{}) {
	if g.Raw == nil {
		g.Raw = make(map[string]interface{}, len(storeData))
	}
	for k, v := range storeData {
		g.Raw[k] = v
	}

	var details StoreDetails
	err := helpers.CustomisedMapStructureDecode(storeData, &details)
	if err != nil {
		log.Printf("WARNING: Could not decode store details for %d: %s", g.AppId, err)
		return
	}
	g.Store = &details
}

/**
returns the full icon url, or an empty string if Steam gave us no icon hash
*/
func (g OwnedGame) IconUrl() string {
	return IconUrlFor(g.AppId, g.ImgIconUrl)
}

func IconUrlFor(appId int64, iconHash string) string {
	if iconHash == "" {
		return ""
	}
	return fmt.Sprintf(ICON_URL_PATTERN, appId, iconHash)
}

func HeaderImageUrlFor(appId int64) string {
	return fmt.Sprintf(HEADER_URL_PATTERN, appId)
}
