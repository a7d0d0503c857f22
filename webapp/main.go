package main

import (
	"context"
	"flag"
	"github.com/gorilla/mux"
	"github.com/guardian/gamesync/common/helpers"
	"github.com/guardian/gamesync/common/steam"
	"github.com/guardian/gamesync/webapp/games"
	"github.com/guardian/gamesync/webapp/importrunner"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

type MyHttpApp struct {
	index       IndexHandler
	healthcheck HealthcheckHandler
	static      StaticFilesHandler
	games       games.GamesEndpoints
	imports     importrunner.ImportRunnerEndpoints
}

func NewRouter(app *MyHttpApp) *mux.Router {
	router := mux.NewRouter()
	router.Handle("/healthcheck", app.healthcheck)
	router.PathPrefix("/static/").Handler(app.static)
	app.games.WireUp(router, "/games")
	app.imports.WireUp(router, "/api/import")
	router.PathPrefix("/").Handler(app.index)
	return router
}

func main() {
	var app MyHttpApp
	configFile := flag.String("config", "config/serverconfig.yaml", "path to the server config file")
	flag.Parse()

	/*
		read in config and establish connection to persistence layer
	*/
	log.Printf("Reading config from %s", *configFile)
	config, configReadErr := helpers.ReadConfig(*configFile)
	if configReadErr != nil {
		log.Fatal("No configuration, can't continue")
	}
	if validErr := config.Validate(); validErr != nil {
		log.Fatal("Configuration is not valid: ", validErr)
	}
	log.Print("Done.")

	redisClient, redisErr := helpers.SetupRedis(config)
	if redisErr != nil {
		log.Fatal("Could not connect to redis")
	}

	runner := importrunner.NewImportRunner(redisClient, steam.NewClient(), config.Steam.ApiKey, config.MaxJobs)

	app.index.redirectTo = "/games/dashboard/"
	app.index.exactMatchPath = "/"
	app.healthcheck.redisClient = redisClient
	app.static.basePath = config.Server.StaticPath
	app.static.uriTrim = 2
	app.games = games.NewGamesEndpoints(redisClient, config)
	app.imports = importrunner.NewImportRunnerEndpoints(redisClient)

	server := &http.Server{
		Addr:    config.Server.ListenAddress,
		Handler: NewRouter(&app),
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		log.Print("Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("Starting server on %s", config.Server.ListenAddress)
	startServerErr := server.ListenAndServe()
	runner.Shutdown()

	if startServerErr != nil && startServerErr != http.ErrServerClosed {
		log.Fatal(startServerErr)
	}
}
