package steam

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(server *httptest.Server) *Client {
	c := NewClient()
	c.ApiUrl = server.URL + "/owned"
	c.StoreUrl = server.URL + "/store"
	c.PlayerSummaryUrl = server.URL + "/summary"
	c.StoreDelay = 0
	return c
}

func TestGetUserGames(t *testing.T) {
	storeRequests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/owned":
			if r.URL.Query().Get("key") != "testkey" || r.URL.Query().Get("steamid") != "76561198000000000" {
				w.WriteHeader(403)
				return
			}
			if r.URL.Query().Get("include_appinfo") != "true" {
				t.Errorf("include_appinfo was not requested")
			}
			w.Write([]byte(`{"response":{"game_count":2,"games":[
				{"appid":400,"name":"Portal","playtime_forever":120,"img_icon_url":"abc123","rtime_last_played":1600000000},
				{"appid":220,"name":"Half-Life 2","playtime_forever":0,"img_icon_url":""}
			]}}`))
		case "/store":
			storeRequests++
			if r.URL.Query().Get("appids") != "400" {
				t.Errorf("unexpected store lookup for %s", r.URL.Query().Get("appids"))
			}
			w.Write([]byte(`{"400":{"success":true,"data":{"type":"game","name":"Portal","is_free":false,
				"developers":["Valve"],"genres":[{"id":"1","description":"Action"}],
				"release_date":{"coming_soon":false,"date":"10 Oct, 2007"}}}}`))
		default:
			w.WriteHeader(404)
		}
	}))
	defer server.Close()

	c := newTestClient(server)
	games, err := c.GetUserGames(context.Background(), "76561198000000000", "testkey")
	if err != nil {
		t.Errorf("GetUserGames failed unexpectedly: %s", err)
		t.FailNow()
	}
	if len(games) != 2 {
		t.Errorf("expected 2 games, got %d", len(games))
		t.FailNow()
	}
	if storeRequests != 1 {
		t.Errorf("expected store details only for the played game, got %d lookups", storeRequests)
	}

	portal := games[0]
	if portal.AppId != 400 || portal.PlaytimeForever != 120 {
		t.Errorf("portal decoded incorrectly: %v", portal)
	}
	if portal.LastPlayed.Unix() != 1600000000 {
		t.Errorf("wrong last played time %s", portal.LastPlayed)
	}
	if portal.Store == nil {
		t.Error("portal should have had store details merged")
	} else {
		if len(portal.Store.Developers) != 1 || portal.Store.Developers[0] != "Valve" {
			t.Errorf("wrong developers %v", portal.Store.Developers)
		}
		if portal.Store.ReleaseDate.Date != "10 Oct, 2007" {
			t.Errorf("wrong release date %v", portal.Store.ReleaseDate)
		}
	}
	if portal.Raw["type"] != "game" || portal.Raw["img_icon_url"] != "abc123" {
		t.Errorf("raw data was not merged: %v", portal.Raw)
	}
	if portal.IconUrl() != "https://media.steampowered.com/steamcommunity/public/images/apps/400/abc123.jpg" {
		t.Errorf("wrong icon url %s", portal.IconUrl())
	}

	hl2 := games[1]
	if hl2.Store != nil {
		t.Error("an unplayed game should not have store details")
	}
	if hl2.IconUrl() != "" {
		t.Errorf("expected no icon url, got %s", hl2.IconUrl())
	}
	if !hl2.LastPlayed.IsZero() {
		t.Errorf("expected no last played time, got %s", hl2.LastPlayed)
	}
}

func TestGetUserGamesStoreFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/owned":
			w.Write([]byte(`{"response":{"games":[{"appid":400,"name":"Portal","playtime_forever":120}]}}`))
		case "/store":
			w.WriteHeader(429)
		}
	}))
	defer server.Close()

	games, err := newTestClient(server).GetUserGames(context.Background(), "1", "k")
	if err != nil {
		t.Errorf("a store failure should not fail the listing: %s", err)
	}
	if len(games) != 1 || games[0].Store != nil {
		t.Errorf("expected one game without store data, got %v", games)
	}
}

func TestGetUserGamesListFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(500)
	}))
	defer server.Close()

	games, err := newTestClient(server).GetUserGames(context.Background(), "1", "k")
	if err == nil {
		t.Error("expected an error when the library listing fails")
	}
	if games != nil {
		t.Errorf("expected no games, got %v", games)
	}
}

func TestGetUserGamesCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response":{"games":[{"appid":400,"name":"Portal","playtime_forever":120}]}}`))
	}))
	defer server.Close()

	c := newTestClient(server)
	c.StoreDelay = DEFAULT_STORE_DELAY
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.GetUserGames(ctx, "1", "k")
	if err == nil {
		t.Error("expected an error from a cancelled context")
	}
}

func TestPlayerSummary(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("steamids") == "1" {
			w.Write([]byte(`{"response":{"players":[{"steamid":"1","personaname":"gordon","profileurl":"http://x"}]}}`))
		} else {
			w.Write([]byte(`{"response":{"players":[]}}`))
		}
	}))
	defer server.Close()

	c := newTestClient(server)
	summary, err := c.PlayerSummary(context.Background(), "1", "k")
	if err != nil {
		t.Errorf("PlayerSummary failed unexpectedly: %s", err)
	} else if summary.PersonaName != "gordon" {
		t.Errorf("wrong persona name %s", summary.PersonaName)
	}

	_, err = c.PlayerSummary(context.Background(), "2", "k")
	if err != ErrNoPlayerData {
		t.Errorf("expected ErrNoPlayerData, got %v", err)
	}
}
