package models

import (
	"github.com/alicebob/miniredis"
	"github.com/go-redis/redis/v7"
	"github.com/google/uuid"
	"testing"
)

func TestAddToQueue(t *testing.T) {
	s, err := miniredis.Run()
	if err != nil {
		panic(err)
	}
	defer s.Close()

	testClient := redis.NewClient(&redis.Options{
		Addr: s.Addr(),
	})

	newEntry := ImportQueueEntry{
		TaskId:  uuid.MustParse("814d602e-fbc0-488d-9aa5-0e11556ff846"),
		SteamId: "76561198000000000",
	}

	addErr := AddToQueue(testClient, REQUEST_QUEUE, newEntry)
	if addErr != nil {
		t.Error("AddToQueue failed unexpectedly: ", addErr)
	} else {
		content, _ := testClient.LRange("gamesync:importrequestqueue", 0, 999).Result()
		if len(content) != 1 {
			t.Errorf("expected 1 item in the queue, got %d", len(content))
		} else if content[0] != "814d602e-fbc0-488d-9aa5-0e11556ff846|76561198000000000" {
			t.Errorf("returned content incorrect, got '%s'", content[0])
		}
	}

	length, _ := GetQueueLength(testClient, REQUEST_QUEUE)
	if length != 1 {
		t.Errorf("GetQueueLength returned %d, expected 1", length)
	}
}

func TestNextFromQueue(t *testing.T) {
	s, err := miniredis.Run()
	if err != nil {
		panic(err)
	}
	defer s.Close()

	testClient := redis.NewClient(&redis.Options{
		Addr: s.Addr(),
	})

	testClient.RPush("gamesync:importrequestqueue", "this is not valid")
	testClient.RPush("gamesync:importrequestqueue", "814d602e-fbc0-488d-9aa5-0e11556ff846|1234")
	testClient.RPush("gamesync:importrequestqueue", "987aaeb3-1b5d-4215-a0e3-e3b56017b530|5678")

	snapshot, snapErr := SnapshotQueue(testClient, REQUEST_QUEUE)
	if snapErr == nil {
		t.Errorf("SnapshotQueue should have failed on bad data, got %v", snapshot)
	}

	first, err := NextFromQueue(testClient, REQUEST_QUEUE)
	if err != nil {
		t.Error("NextFromQueue failed unexpectedly: ", err)
		t.FailNow()
	}
	if first == nil || first.TaskId.String() != "814d602e-fbc0-488d-9aa5-0e11556ff846" || first.SteamId != "1234" {
		t.Errorf("got wrong first entry %v", first)
	}

	snapshot, snapErr = SnapshotQueue(testClient, REQUEST_QUEUE)
	if snapErr != nil {
		t.Error("SnapshotQueue failed unexpectedly: ", snapErr)
	} else if len(snapshot) != 1 || snapshot[0].SteamId != "5678" {
		t.Errorf("got wrong snapshot %v", snapshot)
	}

	second, _ := NextFromQueue(testClient, REQUEST_QUEUE)
	if second == nil || second.SteamId != "5678" {
		t.Errorf("got wrong second entry %v", second)
	}

	empty, err := NextFromQueue(testClient, REQUEST_QUEUE)
	if err != nil || empty != nil {
		t.Errorf("expected nil, nil from an empty queue, got %v, %v", empty, err)
	}
}

func TestUnmarshalImportQueueEntry(t *testing.T) {
	_, err := UnmarshalImportQueueEntry("814d602e-fbc0-488d-9aa5-0e11556ff846|")
	if err == nil {
		t.Error("an entry with no steam id should not unmarshal")
	}
	_, err = UnmarshalImportQueueEntry("notauuid|1234")
	if err == nil {
		t.Error("an entry with a bad task id should not unmarshal")
	}
}

func TestPurgeQueue(t *testing.T) {
	s, err := miniredis.Run()
	if err != nil {
		panic(err)
	}
	defer s.Close()

	testClient := redis.NewClient(&redis.Options{
		Addr: s.Addr(),
	})

	taskId := uuid.MustParse("814d602e-fbc0-488d-9aa5-0e11556ff846")
	AddToQueue(testClient, REQUEST_QUEUE, ImportQueueEntry{TaskId: taskId, SteamId: "1234"})
	testClient.RPush(queueKey(REQUEST_QUEUE), "rubbish")

	purged, purgeErr := PurgeQueue(testClient, REQUEST_QUEUE)
	if purgeErr != nil {
		t.Fatal("PurgeQueue failed unexpectedly: ", purgeErr)
	}
	if len(purged) != 1 || purged[0].TaskId != taskId {
		t.Errorf("expected the one good entry back, got %v", purged)
	}

	length, _ := GetQueueLength(testClient, REQUEST_QUEUE)
	if length != 0 {
		t.Errorf("expected the queue to be empty after purge, got %d entries", length)
	}
}
