package events

import (
	"errors"
	"fmt"
)

var (
	// ErrNilTransport is returned when a Bus is constructed without a transport.
	ErrNilTransport = errors.New("transport must not be nil")
	// ErrNilBus is returned when a definition is constructed without a bus.
	ErrNilBus = errors.New("bus must not be nil")
	// ErrEmptyName is returned when a bus or definition name is empty.
	ErrEmptyName = errors.New("name must not be empty")
)

// PayloadTooLargeError reports an envelope whose serialized entry exceeds the
// configured per-entry ceiling. Raised before batching; the envelope never
// reaches the transport.
type PayloadTooLargeError struct {
	DetailType string
	Size       int
	Limit      int
}

func (e *PayloadTooLargeError) Error() string {
	return fmt.Sprintf("event %q entry size %d exceeds limit %d", e.DetailType, e.Size, e.Limit)
}

// DispatchError reports a batch call that failed as a whole (connectivity,
// auth, throttling). Every envelope of the batch carries this error; sibling
// batches still proceed.
type DispatchError struct {
	Batch int
	Err   error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("batch %d dispatch failed: %v", e.Batch, e.Err)
}

func (e *DispatchError) Unwrap() error { return e.Err }
