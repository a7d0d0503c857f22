package controller

import (
	"context"
	"github.com/guardian/gamesync/common/models"
	"log"
	"sync"
	"time"
)

const (
	DEFAULT_POLL_INTERVAL = 3000 * time.Millisecond
	DEFAULT_RELOAD_DELAY  = 1500 * time.Millisecond
)

/**
drives the import button and status text for one import at a time.

each import the controller follows gets a new generation. Starting a new import (or calling Stop) cancels the
previous one's context and timers, and anything that arrives late for an old generation is dropped, so only one
chain of status checks ever drives the surfaces.
at most one status check and one reload are scheduled at any moment; rendering a status replaces whatever was
scheduled before.
*/
type Controller struct {
	PollInterval time.Duration
	ReloadDelay  time.Duration
	//called with each status after it has been rendered, if set
	OnRender func(status models.ImportStatus)

	service    ImportService
	button     Button
	statusText StatusText
	reloader   Reloader
	scheduler  Scheduler

	lock        sync.Mutex
	taskId      string
	status      models.ImportStatus
	generation  uint64
	ctx         context.Context
	cancel      context.CancelFunc
	pollTimer   Timer
	pollSeq     uint64
	reloadTimer Timer
}

func NewController(service ImportService, button Button, statusText StatusText, reloader Reloader, scheduler Scheduler) *Controller {
	if scheduler == nil {
		scheduler = RealScheduler{}
	}
	return &Controller{
		PollInterval: DEFAULT_POLL_INTERVAL,
		ReloadDelay:  DEFAULT_RELOAD_DELAY,
		service:      service,
		button:       button,
		statusText:   statusText,
		reloader:     reloader,
		scheduler:    scheduler,
		status:       models.IMPORT_IDLE,
		ctx:          context.Background(),
	}
}

func (c *Controller) TaskId() string {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.taskId
}

func (c *Controller) Status() models.ImportStatus {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.status
}

/**
picks up an import that was already running when the page was loaded. If the button carries a task id we go
straight to pending and check on it without waiting for the user. Returns the result of that first check.
*/
func (c *Controller) Init(ctx context.Context) error {
	taskId := c.button.TaskId()
	if taskId == "" {
		return nil
	}

	c.lock.Lock()
	gen, jobCtx := c.newGenerationLocked(ctx)
	c.taskId = taskId
	c.renderLocked(gen, models.IMPORT_PENDING)
	c.lock.Unlock()

	return c.poll(jobCtx, gen, taskId)
}

/**
the user asked for an import. Whatever we were following before is abandoned.
returns a *StartFailure if the server could not be reached or did not give us a task id, ErrSuperseded if another
Start or a Stop happened while we waited, or the result of the first status check.
*/
func (c *Controller) Start(ctx context.Context) error {
	c.lock.Lock()
	gen, jobCtx := c.newGenerationLocked(ctx)
	c.taskId = ""
	c.renderLocked(gen, models.IMPORT_PENDING)
	c.lock.Unlock()

	taskId, startErr := c.service.StartImport(jobCtx)

	c.lock.Lock()
	if gen != c.generation {
		c.lock.Unlock()
		return ErrSuperseded
	}
	if startErr != nil {
		log.Printf("ERROR: Could not start import: %s", startErr)
		c.failLocked(gen, MESSAGE_NETWORK_ERROR)
		c.lock.Unlock()
		return &StartFailure{Message: MESSAGE_NETWORK_ERROR, Err: startErr}
	}
	if taskId == "" {
		c.failLocked(gen, MESSAGE_NO_TASK_ID)
		c.lock.Unlock()
		return &StartFailure{Message: MESSAGE_NO_TASK_ID}
	}
	c.taskId = taskId
	c.lock.Unlock()

	return c.poll(jobCtx, gen, taskId)
}

/**
ends the controller's interest in the current import. Nothing scheduled before this will touch the surfaces
*/
func (c *Controller) Stop() {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.generation++
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.stopTimersLocked()
}

func (c *Controller) newGenerationLocked(parent context.Context) (uint64, context.Context) {
	if c.cancel != nil {
		c.cancel()
	}
	c.stopTimersLocked()
	c.generation++
	c.ctx, c.cancel = context.WithCancel(parent)
	return c.generation, c.ctx
}

func (c *Controller) stopTimersLocked() {
	if c.pollTimer != nil {
		c.pollTimer.Stop()
		c.pollTimer = nil
	}
	if c.reloadTimer != nil {
		c.reloadTimer.Stop()
		c.reloadTimer = nil
	}
}

func (c *Controller) failLocked(gen uint64, message string) {
	c.renderLocked(gen, models.IMPORT_FAILED)
	c.statusText.SetText(message)
}

/**
checks the status of the given task and renders it. A failed check leaves the surfaces alone; if we are still
pending another check is scheduled so a blip doesn't strand the page
*/
func (c *Controller) poll(ctx context.Context, gen uint64, taskId string) error {
	status, err := c.service.CheckStatus(ctx, taskId)

	c.lock.Lock()
	defer c.lock.Unlock()
	if gen != c.generation {
		return ErrSuperseded
	}
	if err != nil {
		log.Printf("ERROR: Checking import status error: %s", err)
		if c.status == models.IMPORT_PENDING {
			c.schedulePollLocked(gen, taskId)
		}
		return &PollFailure{TaskId: taskId, Err: err}
	}

	c.renderLocked(gen, status)
	return nil
}

func (c *Controller) renderLocked(gen uint64, status models.ImportStatus) {
	c.stopTimersLocked()
	c.status = status
	RenderState(status).Apply(c.button, c.statusText)

	switch status {
	case models.IMPORT_PENDING:
		if c.taskId != "" {
			c.schedulePollLocked(gen, c.taskId)
		}
	case models.IMPORT_SUCCESS:
		c.scheduleReloadLocked(gen)
	}

	if c.OnRender != nil {
		c.OnRender(status)
	}
}

func (c *Controller) schedulePollLocked(gen uint64, taskId string) {
	if c.pollTimer != nil {
		c.pollTimer.Stop()
	}
	c.pollSeq++
	seq := c.pollSeq
	c.pollTimer = c.scheduler.AfterFunc(c.PollInterval, func() {
		c.lock.Lock()
		if gen != c.generation || seq != c.pollSeq {
			c.lock.Unlock()
			return
		}
		c.pollTimer = nil
		ctx := c.ctx
		c.lock.Unlock()

		c.poll(ctx, gen, taskId)
	})
}

func (c *Controller) scheduleReloadLocked(gen uint64) {
	if c.reloadTimer != nil {
		c.reloadTimer.Stop()
	}
	var timer Timer
	timer = c.scheduler.AfterFunc(c.ReloadDelay, func() {
		c.lock.Lock()
		if gen != c.generation || c.reloadTimer != timer {
			c.lock.Unlock()
			return
		}
		c.reloadTimer = nil
		c.lock.Unlock()

		c.reloader.Reload()
	})
	c.reloadTimer = timer
}
