package middleware

import (
	"context"
	"time"

	"github.com/sony/gobreaker"

	"github.com/hendriknielaender/eventbridge-schema-validation/pkg/events"
)

type breakerTransport struct {
	next events.Transport
	cb   *gobreaker.CircuitBreaker
}

// DefaultBreakerSettings trips after five consecutive failed dispatch calls
// and probes again after thirty seconds.
func DefaultBreakerSettings(name string) gobreaker.Settings {
	return gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
	}
}

// WithBreaker wraps next with a circuit breaker. While the breaker is open,
// dispatch calls fail immediately with gobreaker.ErrOpenState and never reach
// the backend; the bus records those batches as dispatch failures.
func WithBreaker(next events.Transport, settings gobreaker.Settings) events.Transport {
	return &breakerTransport{next: next, cb: gobreaker.NewCircuitBreaker(settings)}
}

func (t *breakerTransport) Dispatch(ctx context.Context, batch []events.Envelope) ([]events.EntryResult, error) {
	res, err := t.cb.Execute(func() (interface{}, error) {
		return t.next.Dispatch(ctx, batch)
	})
	if err != nil {
		return nil, err
	}
	results, _ := res.([]events.EntryResult)
	return results, nil
}
