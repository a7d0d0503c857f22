package main

import (
	"context"
	"errors"
	"fmt"
	"github.com/guardian/gamesync/common/models"
	"github.com/guardian/gamesync/importctl/client"
	"github.com/guardian/gamesync/importctl/controller"
	"github.com/urfave/cli/v3"
	"io"
	"log"
	"os"
	"time"
)

type session struct {
	client     *client.Client
	page       *client.PageState
	controller *controller.Controller
	reloader   *DashboardReloader
	statuses   chan models.ImportStatus
}

type sessionOptions struct {
	PollInterval time.Duration
	ReloadDelay  time.Duration
}

/**
loads the dashboard and wires a controller up to terminal surfaces
*/
func newSession(ctx context.Context, config *ImportctlConfig, opts sessionOptions, out io.Writer) (*session, error) {
	c, clientErr := client.NewClient(client.Config{
		BaseUrl:    config.BaseUrl,
		PathPrefix: config.PathPrefix,
		Timeout:    config.HttpTimeout,
	})
	if clientErr != nil {
		return nil, clientErr
	}

	page, loadErr := c.LoadPage(ctx)
	if loadErr != nil {
		return nil, fmt.Errorf("could not load the dashboard from %s: %w", config.BaseUrl, loadErr)
	}

	s := &session{
		client:   c,
		page:     page,
		reloader: NewDashboardReloader(ctx, c, out),
		statuses: make(chan models.ImportStatus, 16),
	}
	s.controller = controller.NewController(
		c,
		&TerminalButton{out: out, taskId: page.TaskId},
		&TerminalStatusText{out: out},
		s.reloader,
		controller.RealScheduler{},
	)
	if opts.PollInterval > 0 {
		s.controller.PollInterval = opts.PollInterval
	}
	if opts.ReloadDelay > 0 {
		s.controller.ReloadDelay = opts.ReloadDelay
	}
	s.controller.OnRender = func(status models.ImportStatus) {
		select {
		case s.statuses <- status:
		default:
		}
	}
	return s, nil
}

func sessionFromCommand(ctx context.Context, cmd *cli.Command) (*session, error) {
	config, configErr := LoadConfig(cmd.String("env"))
	if configErr != nil {
		return nil, configErr
	}
	if base := cmd.String("base"); base != "" {
		config.BaseUrl = base
	}
	return newSession(ctx, config, sessionOptions{
		PollInterval: cmd.Duration("poll-interval"),
		ReloadDelay:  cmd.Duration("reload-delay"),
	}, os.Stdout)
}

/**
waits until the import reaches an end state. Success only counts once the dashboard has been reloaded
*/
func (s *session) follow(ctx context.Context) error {
	defer s.controller.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case status := <-s.statuses:
			switch status {
			case models.IMPORT_SUCCESS:
				select {
				case <-s.reloader.Done:
					return s.reloader.Err
				case <-ctx.Done():
					return ctx.Err()
				}
			case models.IMPORT_FAILED:
				return cli.Exit("import failed", 1)
			case models.IMPORT_PENDING:
				continue
			default:
				return cli.Exit("server reported an unknown import status", 1)
			}
		}
	}
}

func (s *session) watch(ctx context.Context, out io.Writer) error {
	if s.page.TaskId == "" {
		fmt.Fprintln(out, "No import in progress.")
		return nil
	}

	if initErr := s.controller.Init(ctx); initErr != nil {
		log.Printf("WARNING: First status check failed, will keep trying: %s", initErr)
	}
	return s.follow(ctx)
}

func (s *session) start(ctx context.Context) error {
	startErr := s.controller.Start(ctx)
	var startFailure *controller.StartFailure
	if errors.As(startErr, &startFailure) {
		return cli.Exit(startFailure.Error(), 1)
	} else if startErr != nil {
		log.Printf("WARNING: First status check failed, will keep trying: %s", startErr)
	}
	return s.follow(ctx)
}

func WatchAction(ctx context.Context, cmd *cli.Command) error {
	s, err := sessionFromCommand(ctx, cmd)
	if err != nil {
		return err
	}
	return s.watch(ctx, os.Stdout)
}

func StartAction(ctx context.Context, cmd *cli.Command) error {
	s, err := sessionFromCommand(ctx, cmd)
	if err != nil {
		return err
	}
	return s.start(ctx)
}
