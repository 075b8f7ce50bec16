package async

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/ctxlog"
)

// Handler is a unit of work run outside of the caller's request
type Handler func(ctx context.Context) error

// Dispatch executes a handler asynchronously with a detached context and panic recovery.
//
// The handler receives a context.Background() that keeps the ctxlog logger and the sentry hub
// of ctx; cancellation of ctx does not reach it. Returned errors and recovered panics are logged
// and captured by the sentry hub when one is bound.
func Dispatch(ctx context.Context, handler Handler) {
	newCtx := newBackgroundContext(ctx)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				stack := debug.Stack()
				logger := ctxlog.From(newCtx)
				logger.Error("panic in async handler",
					"recover", r,
					"stack", string(stack))
				capture(newCtx, fmt.Errorf("panic in async handler: %v", r))
			}
		}()

		if err := handler(newCtx); err != nil {
			logger := ctxlog.From(newCtx)
			logger.Error("error in async handler", "error", err)
			capture(newCtx, err)
		}
	}()
}

// Serialize wraps handler so that at most one invocation runs at a time
func Serialize(handler Handler) Handler {
	var mu sync.Mutex
	return func(ctx context.Context) error {
		mu.Lock()
		defer mu.Unlock()
		return handler(ctx)
	}
}

func capture(ctx context.Context, err error) {
	if hub := sentry.GetHubFromContext(ctx); hub != nil {
		hub.CaptureException(err)
	}
}

// newBackgroundContext creates a new background context preserving the logger and sentry hub
func newBackgroundContext(ctx context.Context) context.Context {
	newCtx := context.Background()
	newCtx = ctxlog.With(newCtx, ctxlog.From(ctx))
	if hub := sentry.GetHubFromContext(ctx); hub != nil {
		newCtx = sentry.SetHubOnContext(newCtx, hub.Clone())
	}
	return newCtx
}
