package main

import (
	"context"
	"fmt"
	"github.com/guardian/gamesync/importctl/client"
	"io"
	"log"
	"sync"
)

//prints the button's state each time its label changes
type TerminalButton struct {
	out      io.Writer
	lock     sync.Mutex
	taskId   string
	disabled bool
	label    string
}

func (b *TerminalButton) SetDisabled(disabled bool) {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.disabled = disabled
}

func (b *TerminalButton) SetLabel(label string) {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.label = label
	if b.disabled {
		fmt.Fprintf(b.out, "[button] %s (disabled)\n", label)
	} else {
		fmt.Fprintf(b.out, "[button] %s\n", label)
	}
}

func (b *TerminalButton) TaskId() string {
	return b.taskId
}

type TerminalStatusText struct {
	out io.Writer
}

func (s *TerminalStatusText) SetText(text string) {
	if text != "" {
		fmt.Fprintf(s.out, "[status] %s\n", text)
	}
}

/**
the terminal has no page to reload, so "reloading" fetches the dashboard again and prints the library summary.
Done is closed once that has happened; Err is set first if the dashboard could not be fetched
*/
type DashboardReloader struct {
	ctx    context.Context
	client *client.Client
	out    io.Writer
	once   sync.Once
	Done   chan struct{}
	Err    error
}

func NewDashboardReloader(ctx context.Context, c *client.Client, out io.Writer) *DashboardReloader {
	return &DashboardReloader{
		ctx:    ctx,
		client: c,
		out:    out,
		Done:   make(chan struct{}),
	}
}

func (r *DashboardReloader) Reload() {
	r.once.Do(func() {
		defer close(r.Done)
		state, err := r.client.LoadPage(r.ctx)
		if err != nil {
			log.Printf("ERROR: Could not reload the dashboard: %s", err)
			r.Err = fmt.Errorf("import succeeded but the dashboard could not be reloaded: %w", err)
			return
		}
		fmt.Fprintf(r.out, "Library: %d games, %.1f hours played\n", state.GameCount, state.TotalPlaytime)
	})
}
