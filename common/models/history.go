package models

import (
	"encoding/json"
	"github.com/go-redis/redis/v7"
	"log"
	"math"
	"math/rand"
	"strconv"
	"time"
)

const (
	HISTORY_DAYS             = 30
	HISTORY_SESSION_CHANCE   = 0.2
	HISTORY_MIN_SESSION_MINS = 10
	HISTORY_MAX_SESSION_MINS = 180
	HISTORY_MONTH_LIMIT_MINS = 100 * 60
	//games with less playtime than this (in hours) get no history
	HISTORY_MIN_PLAYTIME = 0.1
)

/**
throws away all recorded activity and replaces it with a plausible-looking month of play sessions,
based on each game's total playtime. Returns the number of sessions generated.
*/
func GenerateHistory(redisClient redis.Cmdable, rng *rand.Rand, now time.Time) (int, error) {
	allIds, err := redisClient.ZRange(GAMEIDX_PLAYTIME, 0, -1).Result()
	if err != nil {
		return 0, err
	}
	if len(allIds) > 0 {
		keys := make([]string, len(allIds))
		for i, rawId := range allIds {
			keys[i] = "gamesync:GameActivity:" + rawId
		}
		if delErr := redisClient.Del(keys...).Err(); delErr != nil {
			log.Printf("ERROR: Could not clear existing history: %s", delErr)
			return 0, delErr
		}
	}

	playedIds, err := redisClient.ZRangeByScore(GAMEIDX_PLAYTIME, &redis.ZRangeBy{
		Min: "(" + strconv.FormatFloat(HISTORY_MIN_PLAYTIME, 'f', -1, 64),
		Max: "+inf",
	}).Result()
	if err != nil {
		return 0, err
	}
	games, err := gamesForIds(playedIds, redisClient)
	if err != nil {
		return 0, err
	}

	p := redisClient.Pipeline()
	generated := 0
	for _, g := range games {
		for _, a := range generateSessions(g, rng, now) {
			content, _ := json.Marshal(a)
			p.LPush(activityKey(g.AppId), string(content))
			generated++
		}
	}
	if generated > 0 {
		if _, execErr := p.Exec(); execErr != nil {
			log.Printf("ERROR: Could not save generated history: %s", execErr)
			return 0, execErr
		}
	}
	return generated, nil
}

func generateSessions(g Game, rng *rand.Rand, now time.Time) []GameActivity {
	minsRemaining := int(math.Min(g.Playtime*60, HISTORY_MONTH_LIMIT_MINS))
	var result []GameActivity

	for day := 0; day < HISTORY_DAYS; day++ {
		if minsRemaining <= 0 {
			break
		}
		if rng.Float64() > HISTORY_SESSION_CHANCE {
			continue
		}

		sessionMins := HISTORY_MIN_SESSION_MINS + rng.Intn(HISTORY_MAX_SESSION_MINS-HISTORY_MIN_SESSION_MINS+1)
		if sessionMins > minsRemaining {
			sessionMins = minsRemaining
		}
		minsRemaining -= sessionMins

		pastDay := now.AddDate(0, 0, -day)
		sessionTime := time.Date(pastDay.Year(), pastDay.Month(), pastDay.Day(), 10+rng.Intn(14), rng.Intn(60), 0, 0, now.Location())
		result = append(result, GameActivity{
			AppId:     g.AppId,
			Playtime:  sessionMins,
			CreatedAt: sessionTime,
		})
	}
	return result
}
