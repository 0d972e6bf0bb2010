package cashtrackr

import (
	"context"
	"fmt"
)

// Logger is the minimal logging surface the core components need. The
// default implementation writes to stdout; cmd wiring swaps in zerolog.
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Notifier delivers confirmation and password reset messages. Delivery is
// fire-and-forget: the lifecycle service never surfaces a send failure to
// the caller.
type Notifier interface {
	SendAccountConfirmation(ctx context.Context, name, email, token string) error
	SendPasswordReset(ctx context.Context, name, email, token string) error
}

// TokenCapture observes every opaque token the lifecycle service issues.
// Tests inject a recording implementation instead of reading tokens back
// through shared process state.
type TokenCapture interface {
	Capture(token string)
}

type noopTokenCapture struct{}

func (noopTokenCapture) Capture(string) {}

type defLogger struct{}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] "+newline(format), args...)
}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
