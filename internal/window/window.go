package window

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable indicates the window backend is unreachable. Callers decide
// whether to fail open or closed.
var ErrUnavailable = errors.New("attempt window backend unavailable")

// Config holds attempt-window tuning parameters.
type Config struct {
	// MaxAttempts is the number of failed attempts tolerated inside one
	// window before further attempts are denied.
	MaxAttempts int
	// TTL is the window length. A window whose start is older than TTL is
	// stale: attempts are allowed again and the next failure opens a fresh
	// window.
	TTL time.Duration
}

// Decision is the outcome of CheckAndConsume. RetryAfter is set only when
// Allowed is false and is the remaining life of the open window.
type Decision struct {
	Allowed    bool
	RetryAfter time.Duration
}

// Store is the unified attempt-window contract. CheckAndConsume is evaluated
// before credential verification; RecordOutcome is called after, with the
// verification result. A success clears the identifier's window entirely.
type Store interface {
	CheckAndConsume(ctx context.Context, identifier string) (Decision, error)
	RecordOutcome(ctx context.Context, identifier string, success bool) error
}
