package events

import "context"

// EntryResult is the transport's outcome for one envelope of a dispatched
// batch, correlated positionally with the batch. A zero Code means the entry
// was accepted; EventID then carries the transport-assigned identifier.
type EntryResult struct {
	EventID string
	Code    string
	Message string
}

// Ok reports whether the entry was accepted by the transport.
func (r EntryResult) Ok() bool { return r.Code == "" }

// Transport is the boundary collaborator that performs network dispatch.
//
// Dispatch receives a non-empty batch no larger than the bus's batch ceiling,
// every entry already under the per-entry size ceiling, and returns one
// EntryResult per envelope in input order. A non-nil error means the call
// failed as a whole and no per-entry results are meaningful.
//
// Implementations must be safe for concurrent use.
type Transport interface {
	Dispatch(ctx context.Context, batch []Envelope) ([]EntryResult, error)
}
