package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
)

// Версия проставляется через ldflags при сборке
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		logger := zerolog.New(os.Stderr)
		logger.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
