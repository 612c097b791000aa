// Command ragent answers questions about local documents.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/custodia-labs/ragent/internal/adapters/driven/config/env"
	"github.com/custodia-labs/ragent/internal/adapters/driving/cli"
	"github.com/custodia-labs/ragent/internal/app"
	"github.com/custodia-labs/ragent/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx)
	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	e, err := env.Load(env.DefaultEnvFile)
	if err != nil {
		return err
	}
	logger.SetVerbose(e.Verbose)

	a, err := app.New(app.Config{Env: e, EnvFile: env.DefaultEnvFile})
	if err != nil {
		return err
	}
	cli.SetBackend(a)

	return cli.Execute(ctx)
}
