package httpapi

import (
	"context"
)

// serverBaseCtx is the stub process context. Shutdown cancels it so
// in-flight /command and /exec work stops with the server.
var serverBaseCtx = context.Background()

// SetBaseContext installs the stub's process context. Passing nil
// resets to Background.
func SetBaseContext(ctx context.Context) {
	if ctx == nil {
		serverBaseCtx = context.Background()
		return
	}
	serverBaseCtx = ctx
}

// joinContexts ties a request context to the process context so a
// running command aborts on whichever ends first. Callers must invoke
// cancel when the handler returns to release the watcher goroutine.
func joinContexts(a, b context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		select {
		case <-a.Done():
			cancel()
		case <-b.Done():
			cancel()
		}
	}()
	return ctx, cancel
}
