package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/iamNilotpal/hashflow/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.New().ExecuteContext(ctx)
	stop()

	if err != nil {
		// cobra has already printed the error.
		os.Exit(1)
	}
}
