package main

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/go-sod/vrelay/internal/buildinfo"
	"github.com/go-sod/vrelay/internal/config"
	"github.com/go-sod/vrelay/internal/logging"
	"github.com/go-sod/vrelay/internal/server"
	"github.com/go-sod/vrelay/internal/setup"
	"github.com/go-sod/vrelay/internal/shutdown"
)

func main() {
	buildinfo.Print(os.Stdout, true)

	ctx, done := shutdown.New()
	logger := logging.FromContext(ctx)
	err := run(ctx)
	done()
	if err != nil {
		logger.Fatal(err)
	}
}

func run(ctx context.Context) error {
	cfg := config.SrvConfig{}
	env, err := setup.Setup(ctx, &cfg)
	if err != nil {
		return fmt.Errorf("setup.Setup: %w", err)
	}
	defer env.Close(ctx)

	g, ctx := errgroup.WithContext(ctx)

	manager, err := env.ProvideJobs()(ctx)
	if err != nil {
		return fmt.Errorf("jobs provider function error: %w", err)
	}
	defer manager.Wait()

	var runScheduler func(context.Context) error
	if provide := env.ProvideScheduler(); provide != nil {
		scheduler, err := provide(manager)
		if err != nil {
			return fmt.Errorf("scheduler provider function error: %w", err)
		}
		runScheduler = scheduler.Run
	}

	srv, err := server.New(cfg.SrvAddr)
	if err != nil {
		return fmt.Errorf("server.New: %w", err)
	}
	mux := server.NewMux(ctx, manager, env.MetricsHandler())
	g.Go(func() error {
		return srv.ServeHTTPHandler(ctx, mux)
	})
	if runScheduler != nil {
		g.Go(func() error {
			return runScheduler(ctx)
		})
	}

	return g.Wait()
}
