package main

import (
	"context"
	"flag"
	"github.com/guardian/gamesync/common/helpers"
	"github.com/guardian/gamesync/common/steam"
	"github.com/guardian/gamesync/webapp/importrunner"
	"log"
	"os"
	"os/signal"
	"syscall"
)

/**
imports the configured user's Steam library straight into the database, without going through the webapp's
import queue
*/
func main() {
	configFile := flag.String("config", "config/serverconfig.yaml", "path to the server config file")
	flag.Parse()

	config, configErr := helpers.ReadConfigOrEnvironment(*configFile)
	if configErr != nil {
		log.Fatal("Could not load config: ", configErr)
	}
	if config.Steam.ApiKey == "" || config.Steam.SteamId == "" {
		log.Fatal("STEAM_API_KEY and STEAM_ID must be set (or steam.apikey and steam.steamid in the config) to import Steam games.")
	}

	redisClient, redisErr := helpers.SetupRedis(config)
	if redisErr != nil {
		log.Fatal("Could not connect to redis")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, importErr := importrunner.ImportLibrary(ctx, steam.NewClient(), redisClient, config.Steam.SteamId, config.Steam.ApiKey)
	if importErr == importrunner.ErrNoGames {
		log.Print("WARNING: No games found for this Steam ID.")
		return
	} else if importErr != nil {
		log.Fatal("Import failed: ", importErr)
	}

	log.Printf("Found %d games. Successfully imported %d games.", result.Found, result.Created)
	if result.Errors > 0 {
		log.Printf("WARNING: Failed to import %d games.", result.Errors)
	}
}
