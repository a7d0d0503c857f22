package controller

import (
	"context"
	"github.com/guardian/gamesync/common/models"
	"time"
)

type Button interface {
	SetDisabled(disabled bool)
	SetLabel(label string)
	//the id of an import that was already in flight when the page was rendered, or empty
	TaskId() string
}

type StatusText interface {
	SetText(text string)
}

type Reloader interface {
	Reload()
}

type Timer interface {
	Stop() bool
}

type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type ImportService interface {
	StartImport(ctx context.Context) (string, error)
	CheckStatus(ctx context.Context, taskId string) (models.ImportStatus, error)
}

//runs callbacks on real time.Timers
type RealScheduler struct{}

func (RealScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
