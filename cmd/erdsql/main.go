package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "erdsql/internal/db/extractors"
	"erdsql/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	logger.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
