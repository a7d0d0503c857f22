package importrunner

import (
	"context"
	"github.com/guardian/gamesync/common/steam"
	"sync"
)

type GameServiceMock struct {
	Games      []steam.OwnedGame
	Err        error
	lock       sync.Mutex
	Calls      []string
	BlockUntil chan struct{}
}

func (m *GameServiceMock) GetUserGames(ctx context.Context, userId string, apiKey string) ([]steam.OwnedGame, error) {
	m.lock.Lock()
	m.Calls = append(m.Calls, userId)
	m.lock.Unlock()

	if m.BlockUntil != nil {
		select {
		case <-m.BlockUntil:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return m.Games, m.Err
}

func (m *GameServiceMock) CallCount() int {
	m.lock.Lock()
	defer m.lock.Unlock()
	return len(m.Calls)
}
