package main

import (
	"context"
	"fmt"
	"os"

	"github.com/go-sod/vrelay/internal/buildinfo"
	"github.com/go-sod/vrelay/internal/config"
	"github.com/go-sod/vrelay/internal/logging"
	"github.com/go-sod/vrelay/internal/setup"
	"github.com/go-sod/vrelay/internal/shutdown"
)

func main() {
	buildinfo.Print(os.Stdout, false)

	ctx, done := shutdown.New()
	logger := logging.FromContext(ctx)
	err := run(ctx)
	done()
	if err != nil {
		logger.Fatal(err)
	}
}

func run(ctx context.Context) error {
	cfg := config.Config{}
	env, err := setup.Setup(ctx, &cfg)
	if err != nil {
		return fmt.Errorf("setup.Setup: %w", err)
	}
	defer env.Close(ctx)

	if _, err := env.Relay().Run(ctx); err != nil {
		return fmt.Errorf("relay: %w", err)
	}
	return nil
}
