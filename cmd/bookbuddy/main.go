package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/use-agent/bookbuddy/cmd/bookbuddy/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	commands.ExecuteContext(ctx)
}
