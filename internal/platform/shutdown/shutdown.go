package shutdown

import (
	"context"
	"os/signal"
	"syscall"
)

// NotifyContext cancels on SIGINT or SIGTERM so an interrupted load stops
// between passes.
func NotifyContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}
