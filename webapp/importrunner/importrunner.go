package importrunner

import (
	"context"
	mapset "github.com/deckarep/golang-set"
	"github.com/go-redis/redis/v7"
	"github.com/guardian/gamesync/common/models"
	"github.com/guardian/gamesync/common/steam"
	"log"
	"sync"
	"time"
)

type ImportRunner struct {
	redisClient     redis.Cmdable
	gameService     steam.GameService
	apiKey          string
	shutdownChan    chan bool
	queuePollTicker *time.Ticker
	maxJobs         int
	running         mapset.Set
	wg              sync.WaitGroup
	ctx             context.Context
	cancel          context.CancelFunc
}

func newImportRunner(redisClient redis.Cmdable, gameService steam.GameService, apiKey string, maxJobs int) *ImportRunner {
	ctx, cancel := context.WithCancel(context.Background())
	if maxJobs < 1 {
		maxJobs = 1
	}
	return &ImportRunner{
		redisClient:  redisClient,
		gameService:  gameService,
		apiKey:       apiKey,
		shutdownChan: make(chan bool),
		maxJobs:      maxJobs,
		running:      mapset.NewSet(),
		ctx:          ctx,
		cancel:       cancel,
	}
}

/**
create a new ImportRunner and start it processing the request queue.
any imports that were left pending without a queue entry (e.g. because the server went down mid-import) are failed
first, so the dashboard doesn't wait on them forever
*/
func NewImportRunner(redisClient redis.Cmdable, gameService steam.GameService, apiKey string, maxJobs int) *ImportRunner {
	runner := newImportRunner(redisClient, gameService, apiKey, maxJobs)

	failedCount, failErr := FailOrphanedImports(redisClient)
	if failErr != nil {
		log.Printf("ERROR: Could not check for orphaned imports: %s", failErr)
	} else if failedCount > 0 {
		log.Printf("WARNING: Marked %d orphaned imports as failed", failedCount)
	}

	runner.queuePollTicker = time.NewTicker(1 * time.Second)
	go runner.requestProcessor()
	return runner
}

/**
goroutine to process incoming requests
*/
func (r *ImportRunner) requestProcessor() {
	log.Print("Started requestProcessor routine")
	for {
		select {
		case <-r.queuePollTicker.C:
			r.queueTick()
		case <-r.shutdownChan:
			log.Print("requestProcessor routine shutting down")
			return
		}
	}
}

/**
stops taking new work, cancels any imports in progress and waits for them to wrap up
*/
func (r *ImportRunner) Shutdown() {
	if r.queuePollTicker != nil {
		r.queuePollTicker.Stop()
		r.shutdownChan <- true
	}
	r.cancel()
	r.wg.Wait()
}

/**
internal function to process items on the request queue, up until we either run out of items on the queue or have the
max running imports
*/
func (r *ImportRunner) queueTick() {
	for {
		if r.running.Cardinality() >= r.maxJobs {
			log.Printf("DEBUG: Max running imports reached")
			return
		}
		entry, getErr := models.NextFromQueue(r.redisClient, models.REQUEST_QUEUE)
		if getErr != nil {
			log.Printf("ERROR: Could not get next import to process: %s", getErr)
			return
		}
		if entry == nil {
			return
		}

		r.running.Add(entry.TaskId)
		r.wg.Add(1)
		go func(e models.ImportQueueEntry) {
			defer r.wg.Done()
			defer r.running.Remove(e.TaskId)
			r.runImport(e)
		}(*entry)
	}
}

/**
carries out one queued import and records the outcome on its task
*/
func (r *ImportRunner) runImport(entry models.ImportQueueEntry) {
	result, importErr := ImportLibrary(r.ctx, r.gameService, r.redisClient, entry.SteamId, r.apiKey)
	if importErr != nil {
		log.Printf("ERROR: Error during import %s: %s", entry.TaskId, importErr)
		_, statusErr := models.ChangeImportStatus(entry.TaskId, models.IMPORT_FAILED, importErr.Error(), r.redisClient)
		if statusErr != nil {
			log.Printf("ERROR: Could not mark import %s as failed: %s", entry.TaskId, statusErr)
		}
		return
	}

	_, statusErr := models.CompleteImportTask(entry.TaskId, result.Created, result.Errors, r.redisClient)
	if statusErr != nil {
		log.Printf("ERROR: Could not mark import %s as completed: %s", entry.TaskId, statusErr)
	}
}

/**
fails every pending import that is not waiting on the request queue. Must only be called when no imports are running.
returns the number of tasks that were failed
*/
func FailOrphanedImports(redisClient redis.Cmdable) (int, error) {
	pendingIds, err := models.ImportTaskIdsWithStatus(models.IMPORT_PENDING, redisClient)
	if err != nil {
		return 0, err
	}
	if len(pendingIds) == 0 {
		return 0, nil
	}

	queued, snapErr := models.SnapshotQueue(redisClient, models.REQUEST_QUEUE)
	if snapErr != nil {
		return 0, snapErr
	}
	queuedIds := mapset.NewSet()
	for _, q := range queued {
		queuedIds.Add(q.TaskId)
	}

	failed := 0
	for _, taskId := range pendingIds {
		if queuedIds.Contains(taskId) {
			continue
		}
		_, changeErr := models.ChangeImportStatus(taskId, models.IMPORT_FAILED, "import was interrupted", redisClient)
		if changeErr != nil {
			log.Printf("ERROR: Could not fail orphaned import %s: %s", taskId, changeErr)
			continue
		}
		failed++
	}
	return failed, nil
}
