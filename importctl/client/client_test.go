package client

import (
	"context"
	"github.com/alicebob/miniredis"
	"github.com/go-redis/redis/v7"
	"github.com/guardian/gamesync/common/helpers"
	"github.com/guardian/gamesync/common/models"
	"github.com/guardian/gamesync/webapp/games"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClientAgainstWebapp(t *testing.T) {
	s, err := miniredis.Run()
	if err != nil {
		panic(err)
	}
	defer s.Close()

	testClient := redis.NewClient(&redis.Options{
		Addr: s.Addr(),
	})
	config := &helpers.Config{Steam: helpers.SteamConfig{SteamId: "1234"}}
	server := httptest.NewServer(games.NewRouter(games.NewGamesEndpoints(testClient, config), "/games"))
	defer server.Close()

	c, err := NewClient(Config{BaseUrl: server.URL})
	if err != nil {
		t.Fatal("NewClient failed unexpectedly: ", err)
	}

	//without the page's csrf token the start request is refused, and there is no task id
	refusedId, refusedErr := c.StartImport(context.Background())
	if refusedErr != nil || refusedId != "" {
		t.Errorf("expected an empty task id from a refused start, got %q, %v", refusedId, refusedErr)
	}

	state, loadErr := c.LoadPage(context.Background())
	if loadErr != nil {
		t.Fatal("LoadPage failed unexpectedly: ", loadErr)
	}
	if state.CsrfToken == "" || state.TaskId != "" {
		t.Errorf("got unexpected page state %v", state)
	}

	taskId, startErr := c.StartImport(context.Background())
	if startErr != nil || taskId == "" {
		t.Fatalf("StartImport failed: %q, %v", taskId, startErr)
	}

	status, statusErr := c.CheckStatus(context.Background(), taskId)
	if statusErr != nil || status != models.IMPORT_PENDING {
		t.Errorf("expected PENDING, got %s, %v", status, statusErr)
	}

	reloaded, _ := c.LoadPage(context.Background())
	if reloaded == nil || reloaded.TaskId != taskId {
		t.Errorf("dashboard should report the pending task %s, got %v", taskId, reloaded)
	}

	//an unknown task is reported by the server as not_found, which is not a status we know
	unknown, unknownErr := c.CheckStatus(context.Background(), "814d602e-fbc0-488d-9aa5-0e11556ff846")
	if unknownErr != nil || unknown != models.IMPORT_IDLE {
		t.Errorf("expected IDLE for an unknown task, got %s, %v", unknown, unknownErr)
	}
}

func TestClientErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/games/import-start/":
			w.WriteHeader(502)
			w.Write([]byte("<html>bad gateway</html>"))
		case "/games/import-status/abc/":
			w.Write([]byte("not json"))
		case "/games/import-status/def/":
			w.Write([]byte(`{"status":"SUCCESS"}`))
		default:
			w.WriteHeader(404)
		}
	}))
	defer server.Close()

	c, _ := NewClient(Config{BaseUrl: server.URL + "/"})

	_, startErr := c.StartImport(context.Background())
	if _, isStatusErr := startErr.(StatusCodeError); !isStatusErr {
		t.Errorf("expected a StatusCodeError for a non-json error page, got %v", startErr)
	}

	_, pollErr := c.CheckStatus(context.Background(), "abc")
	if pollErr == nil {
		t.Error("expected an error for a non-json status body")
	}

	status, _ := c.CheckStatus(context.Background(), "def")
	if status != models.IMPORT_SUCCESS {
		t.Errorf("expected SUCCESS, got %s", status)
	}

	_, loadErr := c.LoadPage(context.Background())
	if loadErr == nil {
		t.Error("expected LoadPage to fail on a 404")
	}

	server.Close()
	_, netErr := c.CheckStatus(context.Background(), "def")
	if netErr == nil {
		t.Error("expected a network error once the server has gone")
	}

	if _, cfgErr := NewClient(Config{}); cfgErr == nil {
		t.Error("expected NewClient to refuse an empty base url")
	}
}
