package main

import (
	"bytes"
	"context"
	"github.com/alicebob/miniredis"
	"github.com/go-redis/redis/v7"
	"github.com/guardian/gamesync/common/helpers"
	"github.com/guardian/gamesync/common/models"
	"github.com/guardian/gamesync/importctl/client"
	"github.com/guardian/gamesync/importctl/controller"
	"github.com/guardian/gamesync/webapp/games"
	"github.com/urfave/cli/v3"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"os"
	"path"
	"strings"
	"sync"
	"testing"
	"time"
)

//timers write from their own goroutines
type lockedBuffer struct {
	lock sync.Mutex
	buf  bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.buf.String()
}

func unsetForTest(t *testing.T, keys ...string) {
	for _, k := range keys {
		os.Unsetenv(k)
	}
	t.Cleanup(func() {
		for _, k := range keys {
			os.Unsetenv(k)
		}
	})
}

func TestLoadConfig(t *testing.T) {
	unsetForTest(t, "GAMESYNC_BASE_URL", "GAMESYNC_PATH_PREFIX", "GAMESYNC_HTTP_TIMEOUT")

	defaults, err := LoadConfig(path.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatal("a missing .env file should not be an error, got ", err)
	}
	if defaults.BaseUrl != "http://localhost:9000" || defaults.PathPrefix != "/games" || defaults.HttpTimeout != 30*time.Second {
		t.Errorf("got unexpected defaults %v", defaults)
	}

	envFile := path.Join(t.TempDir(), ".env")
	ioutil.WriteFile(envFile, []byte("GAMESYNC_BASE_URL=http://gamesync.local:8080\nGAMESYNC_HTTP_TIMEOUT=5s\n"), 0644)
	loaded, err := LoadConfig(envFile)
	if err != nil {
		t.Fatal("LoadConfig failed unexpectedly: ", err)
	}
	if loaded.BaseUrl != "http://gamesync.local:8080" {
		t.Errorf("expected base url from the .env file, got %s", loaded.BaseUrl)
	}
	if loaded.HttpTimeout != 5*time.Second {
		t.Errorf("expected 5s timeout, got %s", loaded.HttpTimeout)
	}
}

func TestLoadConfigBadTimeout(t *testing.T) {
	unsetForTest(t, "GAMESYNC_HTTP_TIMEOUT")
	os.Setenv("GAMESYNC_HTTP_TIMEOUT", "soon")

	_, err := LoadConfig("")
	if err == nil {
		t.Error("expected an invalid timeout to be rejected")
	}
}

func TestTerminalSurfaces(t *testing.T) {
	out := &bytes.Buffer{}
	button := &TerminalButton{out: out, taskId: "abc"}
	text := &TerminalStatusText{out: out}

	button.SetDisabled(true)
	button.SetLabel("Importing...")
	button.SetDisabled(false)
	button.SetLabel("Retry")
	text.SetText("")
	text.SetText("Import Error.")

	expected := "[button] Importing... (disabled)\n[button] Retry\n[status] Import Error.\n"
	if out.String() != expected {
		t.Errorf("got unexpected output %q", out.String())
	}
	if button.TaskId() != "abc" {
		t.Errorf("expected task id abc, got %s", button.TaskId())
	}
}

func setupWebapp(t *testing.T) (*redis.Client, *ImportctlConfig) {
	s, err := miniredis.Run()
	if err != nil {
		panic(err)
	}
	t.Cleanup(s.Close)

	testClient := redis.NewClient(&redis.Options{
		Addr: s.Addr(),
	})
	config := &helpers.Config{Steam: helpers.SteamConfig{SteamId: "1234"}}
	server := httptest.NewServer(games.NewRouter(games.NewGamesEndpoints(testClient, config), "/games"))
	t.Cleanup(server.Close)

	return testClient, &ImportctlConfig{BaseUrl: server.URL, PathPrefix: "/games", HttpTimeout: 5 * time.Second}
}

//finishes the first pending task it sees, the way the import runner would
func finishPendingImport(redisClient redis.Cmdable, succeed bool) {
	for i := 0; i < 200; i++ {
		ids, _ := models.ImportTaskIdsWithStatus(models.IMPORT_PENDING, redisClient)
		if len(ids) > 0 {
			if succeed {
				models.CompleteImportTask(ids[0], 3, 0, redisClient)
			} else {
				models.ChangeImportStatus(ids[0], models.IMPORT_FAILED, "steam said no", redisClient)
			}
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestStartFollowsImportToSuccess(t *testing.T) {
	redisClient, config := setupWebapp(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	out := &lockedBuffer{}
	s, err := newSession(ctx, config, sessionOptions{PollInterval: 20 * time.Millisecond, ReloadDelay: 10 * time.Millisecond}, out)
	if err != nil {
		t.Fatal("newSession failed unexpectedly: ", err)
	}

	go finishPendingImport(redisClient, true)
	followErr := s.start(ctx)
	if followErr != nil {
		t.Fatal("expected the import to be followed to success, got ", followErr)
	}

	content := out.String()
	for _, expected := range []string{"[button] Importing... (disabled)", "[status] Import completed.", "Library: 0 games"} {
		if !strings.Contains(content, expected) {
			t.Errorf("expected output to contain %q, got %q", expected, content)
		}
	}
}

func TestStartReportsFailure(t *testing.T) {
	redisClient, config := setupWebapp(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	out := &lockedBuffer{}
	s, err := newSession(ctx, config, sessionOptions{PollInterval: 20 * time.Millisecond}, out)
	if err != nil {
		t.Fatal("newSession failed unexpectedly: ", err)
	}

	go finishPendingImport(redisClient, false)
	followErr := s.start(ctx)
	exitErr, isExit := followErr.(cli.ExitCoder)
	if !isExit || exitErr.ExitCode() != 1 {
		t.Errorf("expected exit code 1 for a failed import, got %v", followErr)
	}
	if !strings.Contains(out.String(), "[button] Retry") {
		t.Errorf("expected the retry label to be shown, got %q", out.String())
	}
}

func TestWatchWithNothingRunning(t *testing.T) {
	_, config := setupWebapp(t)

	out := &lockedBuffer{}
	s, err := newSession(context.Background(), config, sessionOptions{}, out)
	if err != nil {
		t.Fatal("newSession failed unexpectedly: ", err)
	}
	watchOut := &bytes.Buffer{}
	if watchErr := s.watch(context.Background(), watchOut); watchErr != nil {
		t.Error("watch should succeed when nothing is running, got ", watchErr)
	}
	if watchOut.String() != "No import in progress.\n" {
		t.Errorf("got unexpected output %q", watchOut.String())
	}
}

func TestWatchFollowsPendingImport(t *testing.T) {
	redisClient, config := setupWebapp(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pending := models.NewImportTask("1234")
	if storeErr := pending.Store(redisClient); storeErr != nil {
		t.Fatal("could not store test task: ", storeErr)
	}

	out := &lockedBuffer{}
	s, err := newSession(ctx, config, sessionOptions{PollInterval: 20 * time.Millisecond, ReloadDelay: 10 * time.Millisecond}, out)
	if err != nil {
		t.Fatal("newSession failed unexpectedly: ", err)
	}
	if s.page.TaskId != pending.Id.String() {
		t.Fatalf("expected the dashboard to hand over task %s, got %q", pending.Id, s.page.TaskId)
	}

	go finishPendingImport(redisClient, true)
	watchOut := &lockedBuffer{}
	if watchErr := s.watch(ctx, watchOut); watchErr != nil {
		t.Fatal("expected the pending import to be followed to success, got ", watchErr)
	}

	content := out.String()
	for _, expected := range []string{"[button] Importing... (disabled)", "[status] Import in progress...", "[status] Import completed.", "Library: 0 games"} {
		if !strings.Contains(content, expected) {
			t.Errorf("expected output to contain %q, got %q", expected, content)
		}
	}
	if s.controller.TaskId() != pending.Id.String() {
		t.Errorf("controller followed %q instead of the pending task", s.controller.TaskId())
	}
}

func TestFollowReportsReloadFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(500)
		w.Write([]byte("<html>oops</html>"))
	}))
	defer server.Close()

	c, clientErr := client.NewClient(client.Config{BaseUrl: server.URL})
	if clientErr != nil {
		t.Fatal("NewClient failed unexpectedly: ", clientErr)
	}

	out := &lockedBuffer{}
	s := &session{
		client:   c,
		page:     &client.PageState{},
		reloader: NewDashboardReloader(context.Background(), c, out),
		statuses: make(chan models.ImportStatus, 1),
	}
	s.controller = controller.NewController(c, &TerminalButton{out: out}, &TerminalStatusText{out: out}, s.reloader, nil)

	s.statuses <- models.IMPORT_SUCCESS
	s.reloader.Reload()

	followErr := s.follow(context.Background())
	if followErr == nil {
		t.Error("expected a failed dashboard reload to be reported")
	}
	if strings.Contains(out.String(), "Library:") {
		t.Errorf("no library summary should be printed when the reload fails, got %q", out.String())
	}
}
