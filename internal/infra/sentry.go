package infra

import (
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
)

// ErrorReporter forwards unexpected failures to Sentry. The zero value is a
// disabled reporter.
type ErrorReporter struct {
	enabled bool
}

// NewErrorReporter initialises the Sentry SDK when dsn is set.
func NewErrorReporter(dsn, environment string) (*ErrorReporter, error) {
	if dsn == "" {
		return &ErrorReporter{}, nil
	}
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         dsn,
		Environment: environment,
	}); err != nil {
		return nil, fmt.Errorf("init sentry: %w", err)
	}
	return &ErrorReporter{enabled: true}, nil
}

// Capture reports err with the given tags.
func (r *ErrorReporter) Capture(err error, tags map[string]string) {
	if r == nil || !r.enabled || err == nil {
		return
	}
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTags(tags)
		sentry.CaptureException(err)
	})
}

// Flush waits up to timeout for buffered events to be sent.
func (r *ErrorReporter) Flush(timeout time.Duration) {
	if r == nil || !r.enabled {
		return
	}
	sentry.Flush(timeout)
}
