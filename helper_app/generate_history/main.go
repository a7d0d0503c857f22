package main

import (
	"flag"
	"github.com/guardian/gamesync/common/helpers"
	"github.com/guardian/gamesync/common/models"
	"log"
	"math/rand"
	"time"
)

/**
replaces all play activity with made-up sessions over the last 30 days, so the detail pages have something to show
*/
func main() {
	configFile := flag.String("config", "config/serverconfig.yaml", "path to the server config file")
	seed := flag.Int64("seed", 0, "random seed, for repeatable history. Defaults to the current time")
	flag.Parse()

	config, configErr := helpers.ReadConfigOrEnvironment(*configFile)
	if configErr != nil {
		log.Fatal("Could not load config: ", configErr)
	}

	redisClient, redisErr := helpers.SetupRedis(config)
	if redisErr != nil {
		log.Fatal("Could not connect to redis")
	}

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	sessionCount, genErr := models.GenerateHistory(redisClient, rand.New(rand.NewSource(*seed)), time.Now())
	if genErr != nil {
		log.Fatal("Could not generate history: ", genErr)
	}
	log.Printf("Generated %d play sessions", sessionCount)
}
