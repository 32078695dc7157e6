// Package middleware provides Transport decorators that compose over any
// backend.
package middleware

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/hendriknielaender/eventbridge-schema-validation/pkg/events"
)

type loggingTransport struct {
	next events.Transport
	log  *zap.Logger
}

// WithLogging wraps next so every dispatch call is logged with its batch
// size, duration, and outcome.
func WithLogging(next events.Transport, log *zap.Logger) events.Transport {
	return &loggingTransport{next: next, log: log}
}

func (t *loggingTransport) Dispatch(ctx context.Context, batch []events.Envelope) ([]events.EntryResult, error) {
	start := time.Now()
	results, err := t.next.Dispatch(ctx, batch)
	elapsed := time.Since(start)
	if err != nil {
		t.log.Warn("dispatch failed",
			zap.Int("entries", len(batch)),
			zap.Duration("elapsed", elapsed),
			zap.Error(err))
		return nil, err
	}
	rejected := 0
	for _, r := range results {
		if !r.Ok() {
			rejected++
		}
	}
	t.log.Debug("dispatch completed",
		zap.Int("entries", len(batch)),
		zap.Int("rejected", rejected),
		zap.Duration("elapsed", elapsed))
	return results, nil
}
