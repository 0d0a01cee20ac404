package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/example/shiftlog/internal/cli"
	"github.com/example/shiftlog/internal/wire"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	// cobra has already printed the error
	runErr := cli.RootCmd().ExecuteContext(ctx)
	stop()

	if err := wire.Shutdown(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "shutdown:", err)
		os.Exit(1)
	}
	if runErr != nil {
		os.Exit(1)
	}
}
