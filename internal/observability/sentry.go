package observability

import (
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/todo-app/backend/internal/config"
)

// InitSentry is a no-op without a DSN.
func InitSentry(cfg config.SentryConfig) error {
	if cfg.DSN == "" {
		return nil
	}

	return sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.DSN,
		Environment:      cfg.Environment,
		AttachStacktrace: true,
	})
}

func FlushSentry() {
	sentry.Flush(2 * time.Second)
}

func CaptureException(err error) {
	if err == nil {
		return
	}
	sentry.CaptureException(err)
}

// CapturePanic reports a recovered panic with its stack.
func CapturePanic(rec any, stack []byte, method, path string) {
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetExtra("panic", rec)
		scope.SetExtra("stack", string(stack))
		scope.SetTag("method", method)
		scope.SetTag("path", path)
		sentry.CaptureMessage("panic in request")
	})
}
