package observability

import (
	"errors"
	"testing"

	"github.com/todo-app/backend/internal/config"
)

func TestInitSentryWithoutDSN(t *testing.T) {
	if err := InitSentry(config.SentryConfig{}); err != nil {
		t.Fatalf("expected no error without DSN, got %v", err)
	}
	// Without an initialized client these must not panic.
	CaptureException(errors.New("boom"))
	CaptureException(nil)
	CapturePanic("boom", nil, "GET", "/")
	FlushSentry()
}

func TestInitSentryRejectsBadDSN(t *testing.T) {
	if err := InitSentry(config.SentryConfig{DSN: "::not a dsn::"}); err == nil {
		t.Fatalf("expected error for malformed DSN")
	}
}
