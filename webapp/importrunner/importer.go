package importrunner

import (
	"context"
	"errors"
	"github.com/go-redis/redis/v7"
	"github.com/guardian/gamesync/common/models"
	"github.com/guardian/gamesync/common/steam"
	"log"
)

var ErrNoGames = errors.New("no games found for this Steam ID")

type ImportResult struct {
	Found   int
	Created int
	Errors  int
}

/**
fetches the user's library from Steam and saves it. This is the whole of an import; the runner wraps it with
task status bookkeeping and the import_games command calls it directly.
*/
func ImportLibrary(ctx context.Context, gameService steam.GameService, redisClient redis.Cmdable, steamId string, apiKey string) (*ImportResult, error) {
	log.Printf("Starting Steam games import for user %s...", steamId)
	ownedGames, fetchErr := gameService.GetUserGames(ctx, steamId, apiKey)
	if fetchErr != nil {
		return nil, fetchErr
	}
	if len(ownedGames) == 0 {
		log.Printf("WARNING: No games found for Steam ID %s", steamId)
		return nil, ErrNoGames
	}

	created, errorCount := models.SaveGames(redisClient, ownedGames)
	log.Printf("Import finished. Successfully imported: %d, Errors: %d.", created, errorCount)
	return &ImportResult{
		Found:   len(ownedGames),
		Created: created,
		Errors:  errorCount,
	}, nil
}
