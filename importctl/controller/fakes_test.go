package controller

import (
	"context"
	"github.com/guardian/gamesync/common/models"
	"sync"
	"time"
)

type fakeTimer struct {
	delay   time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	wasActive := !t.stopped && !t.fired
	t.stopped = true
	return wasActive
}

//a Scheduler that only runs callbacks when the test fires them
type fakeScheduler struct {
	lock   sync.Mutex
	timers []*fakeTimer
}

func (s *fakeScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.lock.Lock()
	defer s.lock.Unlock()
	t := &fakeTimer{delay: d, f: f}
	s.timers = append(s.timers, t)
	return t
}

func (s *fakeScheduler) active() []*fakeTimer {
	s.lock.Lock()
	defer s.lock.Unlock()
	var result []*fakeTimer
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			result = append(result, t)
		}
	}
	return result
}

func (s *fakeScheduler) activeWithDelay(d time.Duration) []*fakeTimer {
	var result []*fakeTimer
	for _, t := range s.active() {
		if t.delay == d {
			result = append(result, t)
		}
	}
	return result
}

//runs the callback even if the timer was stopped, the way a timer that fired just before Stop would
func (s *fakeScheduler) fire(t *fakeTimer) {
	s.lock.Lock()
	t.fired = true
	s.lock.Unlock()
	t.f()
}

type fakeButton struct {
	label    string
	disabled bool
	taskId   string
	updates  int
}

func (b *fakeButton) SetDisabled(disabled bool) { b.disabled = disabled; b.updates++ }
func (b *fakeButton) SetLabel(label string)     { b.label = label; b.updates++ }
func (b *fakeButton) TaskId() string            { return b.taskId }

type fakeStatusText struct {
	text    string
	updates int
}

func (s *fakeStatusText) SetText(text string) { s.text = text; s.updates++ }

type fakeReloader struct {
	lock  sync.Mutex
	count int
}

func (r *fakeReloader) Reload() {
	r.lock.Lock()
	r.count++
	r.lock.Unlock()
}

type fakeService struct {
	lock      sync.Mutex
	startFunc func(ctx context.Context) (string, error)
	checkFunc func(ctx context.Context, taskId string) (models.ImportStatus, error)
	checks    []string
	starts    int
}

func (s *fakeService) StartImport(ctx context.Context) (string, error) {
	s.lock.Lock()
	s.starts++
	s.lock.Unlock()
	return s.startFunc(ctx)
}

func (s *fakeService) CheckStatus(ctx context.Context, taskId string) (models.ImportStatus, error) {
	s.lock.Lock()
	s.checks = append(s.checks, taskId)
	s.lock.Unlock()
	return s.checkFunc(ctx, taskId)
}

func (s *fakeService) checkCount() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return len(s.checks)
}

func returnsStatus(status models.ImportStatus) func(context.Context, string) (models.ImportStatus, error) {
	return func(context.Context, string) (models.ImportStatus, error) {
		return status, nil
	}
}

func returnsTaskId(taskId string) func(context.Context) (string, error) {
	return func(context.Context) (string, error) {
		return taskId, nil
	}
}

type testRig struct {
	service    *fakeService
	button     *fakeButton
	statusText *fakeStatusText
	reloader   *fakeReloader
	scheduler  *fakeScheduler
	controller *Controller
}

func newTestRig(initialTaskId string) *testRig {
	rig := &testRig{
		service:    &fakeService{},
		button:     &fakeButton{taskId: initialTaskId, label: LABEL_IDLE},
		statusText: &fakeStatusText{},
		reloader:   &fakeReloader{},
		scheduler:  &fakeScheduler{},
	}
	rig.controller = NewController(rig.service, rig.button, rig.statusText, rig.reloader, rig.scheduler)
	return rig
}
