package main

import (
	"context"
	"flag"
	"fmt"
	"github.com/guardian/gamesync/common/helpers"
	"github.com/guardian/gamesync/common/steam"
	"log"
)

//checks that the configured Steam credentials work by printing the account's nickname
func main() {
	configFile := flag.String("config", "config/serverconfig.yaml", "path to the server config file")
	flag.Parse()

	config, configErr := helpers.ReadConfigOrEnvironment(*configFile)
	if configErr != nil {
		log.Fatal("Could not load config: ", configErr)
	}
	if config.Steam.ApiKey == "" || config.Steam.SteamId == "" {
		log.Fatal("STEAM_API_KEY and STEAM_ID must be set to test the Steam API connection.")
	}

	player, err := steam.NewClient().PlayerSummary(context.Background(), config.Steam.SteamId, config.Steam.ApiKey)
	if err == steam.ErrNoPlayerData {
		log.Print("WARNING: Got no player data for this Steam ID.")
		return
	} else if err != nil {
		log.Fatal("Connection error: ", err)
	}
	fmt.Println(player.PersonaName)
}
