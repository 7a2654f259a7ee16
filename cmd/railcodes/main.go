package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"railcodes/cmd/railcodes/commands"
	"railcodes/lib/telemetry"
)

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tel, err := telemetry.SetupFromEnv(ctx, "railcodes")
	switch {
	case err == nil:
		defer tel.Shutdown(context.Background())
	case !errors.Is(err, os.ErrNotExist):
		slog.Warn("telemetry disabled", "err", err)
	}

	return commands.ExecuteContext(ctx)
}

func main() {
	os.Exit(run())
}
