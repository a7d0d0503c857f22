package main

import (
	"flag"
	"github.com/go-redis/redis/v7"
	"github.com/guardian/gamesync/common/helpers"
	"github.com/guardian/gamesync/common/models"
	"log"
	"time"
)

/**
removes finished import tasks that are older than the cutoff. Returns how many were (or in a dry run, would have been)
removed
*/
func ReapImportTasks(redisClient redis.Cmdable, cutoffTime time.Time, dryRun bool) (int, error) {
	tasks, err := models.FinishedImportTasksBefore(cutoffTime, redisClient)
	if err != nil {
		return 0, err
	}

	reaped := 0
	for _, t := range tasks {
		log.Printf("Removing old import task %s (%s, created %s)", t.Id, t.Status, t.CreatedAt)
		if !dryRun {
			delErr := models.DeleteImportTask(t.Id, redisClient)
			if delErr != nil {
				log.Printf("ERROR: Could not delete import task %s: %s", t.Id, delErr)
				//not a fatal error
				continue
			}
		}
		reaped++
	}
	return reaped, nil
}

func main() {
	maxAgeHours := flag.Int64("maxage", 720, "delete finished import tasks that were started longer ago than this many hours")
	dryRun := flag.Bool("dryrun", true, "don't actually delete anything")
	configFile := flag.String("config", "config/serverconfig.yaml", "path to the server config file")
	flag.Parse()

	log.Printf("Reading config from %s", *configFile)
	config, configReadErr := helpers.ReadConfigOrEnvironment(*configFile)
	if configReadErr != nil {
		log.Fatal("No configuration, can't continue")
	}
	log.Print("Done.")

	log.Printf("Dryrun is %t", *dryRun)
	redisClient, redisErr := helpers.SetupRedis(config)
	if redisErr != nil {
		log.Fatal("Could not connect to redis")
	}

	startTime := time.Now()
	log.Printf("Reaping of old data starting at %s", startTime)

	cutoffTime := startTime.Add(-time.Duration(*maxAgeHours) * time.Hour)
	log.Printf("Cutoff time is %s", cutoffTime)

	reaped, err := ReapImportTasks(redisClient, cutoffTime, *dryRun)
	if err != nil {
		log.Fatalf("ERROR: Could not retrieve old import tasks: %s", err)
	}

	endTime := time.Now()
	log.Printf("Reaping run removed %d tasks, completed at %s and took %d seconds", reaped, endTime, endTime.Unix()-startTime.Unix())
}
