package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"school-admin/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCommand(cli.Options{Out: os.Stdout}).ExecuteContext(ctx); err != nil {
		if !errors.Is(err, cli.ErrReported) {
			slog.Error("command failed", "error", err)
		}
		os.Exit(1)
	}
}
