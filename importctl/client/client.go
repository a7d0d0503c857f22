package client

import (
	"context"
	"encoding/json"
	"fmt"
	"github.com/guardian/gamesync/common/helpers"
	"github.com/guardian/gamesync/common/models"
	"io/ioutil"
	"log"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"
)

const DEFAULT_PATH_PREFIX = "/games"
const DEFAULT_TIMEOUT = 30 * time.Second

type Config struct {
	BaseUrl    string
	PathPrefix string
	Timeout    time.Duration
}

/**
talks to the import endpoints the same way the dashboard page does: it picks up the csrf cookie when the page
is loaded and sends the token back on every start request
*/
type Client struct {
	httpClient *http.Client
	baseUrl    string
	lock       sync.Mutex
	csrfToken  string
}

//what the dashboard reports about the library when it is loaded
type PageState struct {
	TaskId        string  `json:"task_id"`
	CsrfToken     string  `json:"csrf_token"`
	GameCount     int64   `json:"game_count"`
	TotalPlaytime float64 `json:"total_playtime"`
}

type StatusCodeError struct {
	Url        string
	StatusCode int
	Body       string
}

func (e StatusCodeError) Error() string {
	return fmt.Sprintf("%s returned %d: %s", e.Url, e.StatusCode, e.Body)
}

func NewClient(config Config) (*Client, error) {
	if config.BaseUrl == "" {
		return nil, fmt.Errorf("no base url configured")
	}
	if _, parseErr := url.Parse(config.BaseUrl); parseErr != nil {
		return nil, parseErr
	}
	prefix := config.PathPrefix
	if prefix == "" {
		prefix = DEFAULT_PATH_PREFIX
	}
	timeout := config.Timeout
	if timeout == 0 {
		timeout = DEFAULT_TIMEOUT
	}

	jar, jarErr := cookiejar.New(nil)
	if jarErr != nil {
		return nil, jarErr
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout, Jar: jar},
		baseUrl:    strings.TrimSuffix(config.BaseUrl, "/") + "/" + strings.Trim(prefix, "/"),
	}, nil
}

func (c *Client) endpoint(parts ...string) string {
	return c.baseUrl + "/" + strings.Join(parts, "/") + "/"
}

/**
performs the request and decodes the JSON response body into `to`, whatever the status code was.
error responses from the webapp are JSON too, so the caller gets to see what they said.
a body that is not JSON at all is an error, and so is an error status with an empty body
*/
func (c *Client) doJson(req *http.Request, to interface{}) (int, error) {
	response, err := c.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer response.Body.Close()

	body, readErr := ioutil.ReadAll(response.Body)
	if readErr != nil {
		return response.StatusCode, readErr
	}
	if unmarshalErr := json.Unmarshal(body, to); unmarshalErr != nil {
		if response.StatusCode < 200 || response.StatusCode > 299 {
			return response.StatusCode, StatusCodeError{req.URL.String(), response.StatusCode, string(body)}
		}
		return response.StatusCode, unmarshalErr
	}
	return response.StatusCode, nil
}

/**
loads the dashboard state. This is the equivalent of the initial page render; the csrf token it carries is kept
for later start requests
*/
func (c *Client) LoadPage(ctx context.Context) (*PageState, error) {
	req, reqErr := http.NewRequest("GET", c.endpoint("dashboard"), nil)
	if reqErr != nil {
		return nil, reqErr
	}
	req = req.WithContext(ctx)
	req.Header.Set("Accept", "application/json")

	var state PageState
	statusCode, err := c.doJson(req, &state)
	if err != nil {
		return nil, err
	}
	if statusCode != 200 {
		return nil, StatusCodeError{req.URL.String(), statusCode, ""}
	}

	c.lock.Lock()
	c.csrfToken = state.CsrfToken
	c.lock.Unlock()
	return &state, nil
}

/**
asks the server to start an import, returning the new task id. An empty id with no error means the server
answered but did not give us a task.
*/
func (c *Client) StartImport(ctx context.Context) (string, error) {
	req, reqErr := http.NewRequest("POST", c.endpoint("import-start"), nil)
	if reqErr != nil {
		return "", reqErr
	}
	req = req.WithContext(ctx)
	c.lock.Lock()
	req.Header.Set(helpers.CSRF_HEADER_NAME, c.csrfToken)
	c.lock.Unlock()
	req.Header.Set("Content-Type", "application/json")

	var content map[string]interface{}
	statusCode, err := c.doJson(req, &content)
	if err != nil {
		return "", err
	}
	if statusCode != 200 {
		log.Printf("WARNING: Import start request returned %d: %v", statusCode, content)
	}

	switch taskId := content["task_id"].(type) {
	case string:
		return taskId, nil
	case float64:
		return fmt.Sprintf("%.0f", taskId), nil
	default:
		return "", nil
	}
}

/**
asks the server for the status of the given task. Any status the server reports that we don't recognise comes back
as IMPORT_IDLE
*/
func (c *Client) CheckStatus(ctx context.Context, taskId string) (models.ImportStatus, error) {
	req, reqErr := http.NewRequest("GET", c.endpoint("import-status", url.PathEscape(taskId)), nil)
	if reqErr != nil {
		return models.IMPORT_IDLE, reqErr
	}
	req = req.WithContext(ctx)

	var content struct {
		Status string `json:"status"`
	}
	_, err := c.doJson(req, &content)
	if err != nil {
		return models.IMPORT_IDLE, err
	}
	return models.ParseImportStatus(content.Status), nil
}
