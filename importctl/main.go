package main

import (
	"context"
	"github.com/urfave/cli/v3"
	"log"
	"os"
	"os/signal"
	"syscall"
)

func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "env",
			Usage: "path to a .env file to load settings from",
			Value: ".env",
		},
		&cli.StringFlag{
			Name:  "base",
			Usage: "location of the gamesync webapp, overrides GAMESYNC_BASE_URL",
		},
		&cli.DurationFlag{
			Name:  "poll-interval",
			Usage: "how long to wait between status checks",
		},
		&cli.DurationFlag{
			Name:  "reload-delay",
			Usage: "how long to wait after success before reloading the dashboard",
		},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &cli.Command{
		Name:  "importctl",
		Usage: "start and follow Steam library imports from the terminal",
		Commands: []*cli.Command{
			{
				Name:   "watch",
				Usage:  "follow an import that is already running",
				Flags:  commonFlags(),
				Action: WatchAction,
			},
			{
				Name:   "start",
				Usage:  "start a new import and follow it",
				Flags:  commonFlags(),
				Action: StartAction,
			},
		},
	}

	if err := app.Run(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}
