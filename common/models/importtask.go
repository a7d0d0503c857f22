package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"github.com/go-redis/redis/v7"
	"github.com/google/uuid"
	"log"
	"time"
)

const (
	IMPORT_TASK_NAME     = "import_steam_games"
	IMPORTIDX_STATUS     = "gamesync:importtask:statusindex"
	IMPORTIDX_CTIME      = "gamesync:importtask:starttimeindex"
	importTaskKeyPattern = "gamesync:ImportTask:%s"
)

var ErrImportTaskNotFound = errors.New("no import task with that id")

//one background import of a user's Steam library
type ImportTask struct {
	Id           uuid.UUID    `json:"id"`
	TaskName     string       `json:"task_name"`
	SteamId      string       `json:"steam_id"`
	Status       ImportStatus `json:"status"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
	SuccessCount int          `json:"success_count"`
	ErrorCount   int          `json:"error_count"`
	ErrorMessage string       `json:"error_message"`
}

func NewImportTask(steamId string) ImportTask {
	nowTime := time.Now()
	return ImportTask{
		Id:        uuid.New(),
		TaskName:  IMPORT_TASK_NAME,
		SteamId:   steamId,
		Status:    IMPORT_PENDING,
		CreatedAt: nowTime,
		UpdatedAt: nowTime,
	}
}

func importTaskKey(forId uuid.UUID) string {
	return fmt.Sprintf(importTaskKeyPattern, forId)
}

func importStatusKey(status ImportStatus) string {
	return fmt.Sprintf("%s:%s", IMPORTIDX_STATUS, status)
}

func (t ImportTask) String() string {
	return fmt.Sprintf("Task: %s; Steam user: %s; Status: %s", t.TaskName, t.SteamId, t.Status)
}

/**
write the task record and its index entries. The record and the indices are updated in a single transaction
so a status change can never leave the task in two status indices at once.
*/
func (t ImportTask) Store(redisClient redis.Cmdable) error {
	content, marshalErr := json.Marshal(t)
	if marshalErr != nil {
		log.Printf("Could not marshal data for import task %s: %s", t.Id, marshalErr)
		return marshalErr
	}

	p := redisClient.TxPipeline()
	p.Set(importTaskKey(t.Id), string(content), -1)
	p.ZAdd(IMPORTIDX_CTIME, &redis.Z{
		Score:  float64(t.CreatedAt.UnixNano()),
		Member: t.Id.String(),
	})
	for _, s := range KnownImportStatuses {
		if s != t.Status {
			p.ZRem(importStatusKey(s), t.Id.String())
		}
	}
	p.ZAdd(importStatusKey(t.Status), &redis.Z{
		Score:  float64(t.CreatedAt.UnixNano()),
		Member: t.Id.String(),
	})

	_, saveErr := p.Exec()
	if saveErr != nil {
		log.Printf("Could not save data for import task %s: %s", t.Id, saveErr)
		return saveErr
	}
	return nil
}

func ImportTaskForId(forId uuid.UUID, redisClient redis.Cmdable) (*ImportTask, error) {
	content, getErr := redisClient.Get(importTaskKey(forId)).Result()
	if getErr == redis.Nil {
		return nil, ErrImportTaskNotFound
	}
	if getErr != nil {
		log.Printf("Could not retrieve import task with id %s: %s", forId, getErr)
		return nil, getErr
	}

	var t ImportTask
	marshalErr := json.Unmarshal([]byte(content), &t)
	if marshalErr != nil {
		log.Printf("Could not unmarshal data from store: %s. Offending data was: %s", marshalErr, content)
		return nil, marshalErr
	}
	return &t, nil
}

/**
moves the given task on to a new status, recording an error message if one is given
*/
func ChangeImportStatus(forId uuid.UUID, newStatus ImportStatus, errorMessage string, redisClient redis.Cmdable) (*ImportTask, error) {
	t, getErr := ImportTaskForId(forId, redisClient)
	if getErr != nil {
		return nil, getErr
	}

	log.Printf("Import task %s moving from %s to %s", forId, t.Status, newStatus)
	t.Status = newStatus
	t.UpdatedAt = time.Now()
	if errorMessage != "" {
		t.ErrorMessage = errorMessage
	}
	storeErr := t.Store(redisClient)
	if storeErr != nil {
		return nil, storeErr
	}
	return t, nil
}

/**
records the outcome counters from a completed import and marks it successful
*/
func CompleteImportTask(forId uuid.UUID, successCount int, errorCount int, redisClient redis.Cmdable) (*ImportTask, error) {
	t, getErr := ImportTaskForId(forId, redisClient)
	if getErr != nil {
		return nil, getErr
	}
	t.Status = IMPORT_SUCCESS
	t.SuccessCount = successCount
	t.ErrorCount = errorCount
	t.UpdatedAt = time.Now()
	return t, t.Store(redisClient)
}

/**
returns the ids of every task currently in the given status, most recent first
*/
func ImportTaskIdsWithStatus(status ImportStatus, redisClient redis.Cmdable) ([]uuid.UUID, error) {
	rawIds, err := redisClient.ZRevRange(importStatusKey(status), 0, -1).Result()
	if err != nil {
		log.Printf("Could not range status index for %s: %s", status, err)
		return nil, err
	}

	result := make([]uuid.UUID, 0, len(rawIds))
	for _, rawId := range rawIds {
		parsed, parseErr := uuid.Parse(rawId)
		if parseErr != nil {
			log.Printf("ERROR: Bad data in the %s index: %s. Offending data was %s.", status, parseErr, rawId)
			continue
		}
		result = append(result, parsed)
	}
	return result, nil
}

/**
returns the most recently created task that is still pending, or nil if there is none.
This is what the dashboard hands to the page as its in-flight task id
*/
func LatestPendingImportTask(redisClient redis.Cmdable) (*ImportTask, error) {
	rawIds, err := redisClient.ZRevRange(importStatusKey(IMPORT_PENDING), 0, 0).Result()
	if err != nil {
		return nil, err
	}
	if len(rawIds) == 0 {
		return nil, nil
	}
	taskId, parseErr := uuid.Parse(rawIds[0])
	if parseErr != nil {
		return nil, parseErr
	}
	t, getErr := ImportTaskForId(taskId, redisClient)
	if getErr == ErrImportTaskNotFound {
		log.Printf("WARNING: Pending index refers to missing task %s, removing it", taskId)
		redisClient.ZRem(importStatusKey(IMPORT_PENDING), rawIds[0])
		return nil, nil
	}
	return t, getErr
}

/**
counts how many tasks are in each status
*/
func ImportStatusSummary(redisClient redis.Cmdable) (map[ImportStatus]int64, error) {
	p := redisClient.Pipeline()
	cmds := make(map[ImportStatus]*redis.IntCmd, len(KnownImportStatuses))
	for _, s := range KnownImportStatuses {
		cmds[s] = p.ZCard(importStatusKey(s))
	}
	_, err := p.Exec()
	if err != nil {
		return nil, err
	}

	result := make(map[ImportStatus]int64, len(cmds))
	for s, cmd := range cmds {
		result[s] = cmd.Val()
	}
	return result, nil
}

/**
returns the tasks that were created before the cutoff and have since finished, oldest first.
pending tasks are never returned however old they are
*/
func FinishedImportTasksBefore(cutoff time.Time, redisClient redis.Cmdable) ([]ImportTask, error) {
	rawIds, err := redisClient.ZRangeByScore(IMPORTIDX_CTIME, &redis.ZRangeBy{
		Min: "-inf",
		Max: fmt.Sprintf("(%d", cutoff.UnixNano()),
	}).Result()
	if err != nil {
		log.Printf("Could not range start time index: %s", err)
		return nil, err
	}

	result := make([]ImportTask, 0, len(rawIds))
	for _, rawId := range rawIds {
		taskId, parseErr := uuid.Parse(rawId)
		if parseErr != nil {
			log.Printf("ERROR: Bad data in the start time index: %s. Offending data was %s.", parseErr, rawId)
			continue
		}
		t, getErr := ImportTaskForId(taskId, redisClient)
		if getErr == ErrImportTaskNotFound {
			continue
		} else if getErr != nil {
			return nil, getErr
		}
		if t.Status.IsTerminal() {
			result = append(result, *t)
		}
	}
	return result, nil
}

/**
removes the task record and every index entry that refers to it
*/
func DeleteImportTask(forId uuid.UUID, redisClient redis.Cmdable) error {
	p := redisClient.TxPipeline()
	p.Del(importTaskKey(forId))
	p.ZRem(IMPORTIDX_CTIME, forId.String())
	for _, s := range KnownImportStatuses {
		p.ZRem(importStatusKey(s), forId.String())
	}
	_, err := p.Exec()
	if err != nil {
		log.Printf("Could not delete import task %s: %s", forId, err)
	}
	return err
}
