// Package memory provides an in-process transport for testing code that
// publishes through a Bus. It records every dispatched batch and can be
// scripted to reject entries or fail whole calls.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/hendriknielaender/eventbridge-schema-validation/pkg/events"
)

// Transport is an in-memory events.Transport. The zero value is ready to
// use and accepts everything. Safe for concurrent use.
type Transport struct {
	mu      sync.Mutex
	batches [][]events.Envelope
	calls   int
	seq     int

	// FailCall, when set, is consulted per dispatch call; returning a
	// non-nil error fails the whole call.
	FailCall func(call int, batch []events.Envelope) error
	// RejectEntry, when set, is consulted per entry; returning a non-empty
	// code rejects that entry.
	RejectEntry func(env events.Envelope) (code, message string)
}

// Dispatch records the batch and returns per-entry results.
func (t *Transport) Dispatch(_ context.Context, batch []events.Envelope) ([]events.EntryResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	call := t.calls
	t.calls++
	if t.FailCall != nil {
		if err := t.FailCall(call, batch); err != nil {
			return nil, err
		}
	}

	copied := make([]events.Envelope, len(batch))
	copy(copied, batch)
	t.batches = append(t.batches, copied)

	results := make([]events.EntryResult, len(batch))
	for i, env := range batch {
		if t.RejectEntry != nil {
			if code, msg := t.RejectEntry(env); code != "" {
				results[i] = events.EntryResult{Code: code, Message: msg}
				continue
			}
		}
		t.seq++
		results[i] = events.EntryResult{EventID: fmt.Sprintf("mem-%d", t.seq)}
	}
	return results, nil
}

// Batches returns a copy of every batch dispatched so far, in call order.
func (t *Transport) Batches() [][]events.Envelope {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([][]events.Envelope, len(t.batches))
	copy(out, t.batches)
	return out
}

// Calls returns the number of dispatch calls that reached the transport,
// including calls failed by FailCall.
func (t *Transport) Calls() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.calls
}

// Envelopes returns every accepted envelope in dispatch order.
func (t *Transport) Envelopes() []events.Envelope {
	t.mu.Lock()
	defer t.mu.Unlock()
	var out []events.Envelope
	for _, b := range t.batches {
		out = append(out, b...)
	}
	return out
}
