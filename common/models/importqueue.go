package models

import (
	"errors"
	"fmt"
	"github.com/go-redis/redis/v7"
	"github.com/google/uuid"
	"log"
	"strings"
)

type QueueName string

const (
	REQUEST_QUEUE QueueName = "importrequestqueue"
)

/** -----------------
queue entry data
----------------
*/
type ImportQueueEntry struct {
	TaskId  uuid.UUID
	SteamId string
}

func (e ImportQueueEntry) Marshal() string {
	return e.TaskId.String() + "|" + e.SteamId
}

func UnmarshalImportQueueEntry(from string) (ImportQueueEntry, error) {
	parts := strings.Split(from, "|")
	if len(parts) != 2 {
		return ImportQueueEntry{}, errors.New("incorrect data, did not have 2 sections")
	}
	taskId, taskIdErr := uuid.Parse(parts[0])
	if taskIdErr != nil {
		return ImportQueueEntry{}, taskIdErr
	}
	if parts[1] == "" {
		return ImportQueueEntry{}, errors.New("incorrect data, no steam id")
	}

	return ImportQueueEntry{
		TaskId:  taskId,
		SteamId: parts[1],
	}, nil
}

func queueKey(queueName QueueName) string {
	return fmt.Sprintf("gamesync:%s", queueName)
}

/** -----------------
queue manipulation
----------------
*/
func GetQueueLength(client redis.Cmdable, queueName QueueName) (int64, error) {
	result := client.LLen(queueKey(queueName))

	count, err := result.Result()
	if err != nil {
		log.Printf("Could not retrieve queue length for %s: %s", queueName, err)
	}
	return count, err
}

/**
get a 'snapshot' of the queue state at this moment in time.
*/
func SnapshotQueue(client redis.Cmdable, queueName QueueName) ([]ImportQueueEntry, error) {
	jobKey := queueKey(queueName)

	rawData, err := client.LRange(jobKey, 0, -1).Result()

	if err != nil {
		log.Printf("Could not range %s: %s", jobKey, err)
		return nil, err
	}

	result := make([]ImportQueueEntry, len(rawData))
	for i, rawEntry := range rawData {
		ent, parseErr := UnmarshalImportQueueEntry(rawEntry)
		if parseErr != nil {
			log.Printf("ERROR: Bad data in the %s queue: %s. Offending data was %s.", jobKey, parseErr, rawEntry)
			return nil, parseErr
		}
		result[i] = ent
	}
	return result, nil
}

func AddToQueue(client redis.Cmdable, queueName QueueName, entry ImportQueueEntry) error {
	_, err := client.RPush(queueKey(queueName), entry.Marshal()).Result()
	return err
}

/**
pops the entry at the head of the queue. Returns nil with no error if the queue is empty.
entries that can't be parsed are logged and dropped, and the next one is tried
*/
func NextFromQueue(client redis.Cmdable, queueName QueueName) (*ImportQueueEntry, error) {
	jobKey := queueKey(queueName)
	for {
		rawEntry, err := client.LPop(jobKey).Result()
		if err == redis.Nil {
			return nil, nil
		}
		if err != nil {
			log.Printf("Could not pop from %s: %s", jobKey, err)
			return nil, err
		}

		ent, parseErr := UnmarshalImportQueueEntry(rawEntry)
		if parseErr != nil {
			log.Printf("ERROR: Dropping bad data from the %s queue: %s. Offending data was %s.", jobKey, parseErr, rawEntry)
			continue
		}
		return &ent, nil
	}
}

/**
empties the given queue, returning the entries that were in it so their tasks can be dealt with
*/
func PurgeQueue(client redis.Cmdable, queueName QueueName) ([]ImportQueueEntry, error) {
	p := client.TxPipeline()
	rangeCmd := p.LRange(queueKey(queueName), 0, -1)
	p.Del(queueKey(queueName))
	_, err := p.Exec()
	if err != nil {
		log.Printf("ERROR: Could not purge queue %s: %s", queueName, err)
		return nil, err
	}

	result := make([]ImportQueueEntry, 0, len(rangeCmd.Val()))
	for _, rawEntry := range rangeCmd.Val() {
		ent, parseErr := UnmarshalImportQueueEntry(rawEntry)
		if parseErr != nil {
			log.Printf("WARNING: Dropping bad data from %s: %s", queueName, parseErr)
			continue
		}
		result = append(result, ent)
	}
	return result, nil
}
