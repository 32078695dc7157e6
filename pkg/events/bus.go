package events

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hendriknielaender/eventbridge-schema-validation/pkg/metrics"
)

const (
	// DefaultMaxBatchEntries is the transport batch ceiling: at most this
	// many envelopes per dispatch call.
	DefaultMaxBatchEntries = 10
	// DefaultMaxEntrySize is the per-entry size ceiling in bytes.
	DefaultMaxEntrySize = 10 * 1024
)

// Bus owns a transport handle and turns arbitrary-length envelope sequences
// into size-guarded, batch-limited dispatch calls. One Bus may back any
// number of event definitions. Safe for concurrent Put calls; the transport
// handle is invoked, never mutated.
type Bus struct {
	name        string
	transport   Transport
	log         *zap.Logger
	maxBatch    int
	maxEntry    int
	concurrency int
}

// Option configures a Bus at construction time.
type Option func(*Bus)

// WithLogger sets the logger used for dispatch diagnostics. Default is a nop
// logger.
func WithLogger(log *zap.Logger) Option {
	return func(b *Bus) { b.log = log }
}

// WithMaxBatchEntries overrides the batch ceiling.
func WithMaxBatchEntries(n int) Option {
	return func(b *Bus) { b.maxBatch = n }
}

// WithMaxEntrySize overrides the per-entry size ceiling in bytes.
func WithMaxEntrySize(n int) Option {
	return func(b *Bus) { b.maxEntry = n }
}

// WithConcurrency dispatches up to n batches in parallel. Outcomes are still
// attributed to the originating envelopes; ordering of side effects across
// batches is not defined in this mode. n <= 1 keeps sequential dispatch.
func WithConcurrency(n int) Option {
	return func(b *Bus) { b.concurrency = n }
}

// NewBus creates a Bus around the given transport.
func NewBus(name string, transport Transport, opts ...Option) (*Bus, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if transport == nil {
		return nil, ErrNilTransport
	}
	b := &Bus{
		name:      name,
		transport: transport,
		log:       zap.NewNop(),
		maxBatch:  DefaultMaxBatchEntries,
		maxEntry:  DefaultMaxEntrySize,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Name returns the bus name attached to every envelope it dispatches.
func (b *Bus) Name() string { return b.name }

// Put dispatches envelopes best-effort: envelopes failing the size guard are
// recorded locally and excluded, the rest are batched and handed to the
// transport, and every submitted envelope appears in the returned result
// exactly once, in submission order. A batch call failing as a whole marks
// only that batch's envelopes; sibling batches still proceed. Once ctx
// cancellation is observed, no new batch is issued and the remaining
// envelopes are marked with the context error.
func (b *Bus) Put(ctx context.Context, envelopes []Envelope) *PublishResult {
	result := &PublishResult{Outcomes: make([]Outcome, len(envelopes))}

	survivors := make([]Envelope, 0, len(envelopes))
	origin := make([]int, 0, len(envelopes))
	for i, env := range envelopes {
		result.Outcomes[i] = Outcome{EnvelopeID: env.ID}
		size := env.entrySize()
		if size > b.maxEntry {
			err := &PayloadTooLargeError{DetailType: env.DetailType, Size: size, Limit: b.maxEntry}
			result.Outcomes[i] = Outcome{EnvelopeID: env.ID, Kind: OutcomeTooLarge, Err: err}
			metrics.EntriesTotal.WithLabelValues(b.name, OutcomeTooLarge.String()).Inc()
			b.log.Warn("envelope exceeds entry size limit",
				zap.String("bus", b.name),
				zap.String("detail_type", env.DetailType),
				zap.Int("size", size),
				zap.Int("limit", b.maxEntry))
			continue
		}
		metrics.EntrySize.Observe(float64(size))
		survivors = append(survivors, env)
		origin = append(origin, i)
	}

	batches := Chunk(survivors, b.maxBatch)
	if b.concurrency > 1 {
		b.dispatchConcurrent(ctx, batches, origin, result.Outcomes)
	} else {
		b.dispatchSequential(ctx, batches, origin, result.Outcomes)
	}
	return result
}

func (b *Bus) dispatchSequential(ctx context.Context, batches [][]Envelope, origin []int, outcomes []Outcome) {
	offset := 0
	for bi, batch := range batches {
		if err := ctx.Err(); err != nil {
			b.failRemaining(bi, err, origin[offset:], outcomes)
			return
		}
		b.dispatch(ctx, bi, batch, origin[offset:offset+len(batch)], outcomes)
		offset += len(batch)
	}
}

func (b *Bus) dispatchConcurrent(ctx context.Context, batches [][]Envelope, origin []int, outcomes []Outcome) {
	var g errgroup.Group
	g.SetLimit(b.concurrency)
	offset := 0
	for bi, batch := range batches {
		bi, batch := bi, batch
		idxs := origin[offset : offset+len(batch)]
		offset += len(batch)
		g.Go(func() error {
			// Each task owns a disjoint slice of outcome indexes.
			if err := ctx.Err(); err != nil {
				b.failRemaining(bi, err, idxs, outcomes)
				return nil
			}
			b.dispatch(ctx, bi, batch, idxs, outcomes)
			return nil
		})
	}
	_ = g.Wait()
}

// dispatch issues one batch call and writes each entry's outcome back to its
// originating index.
func (b *Bus) dispatch(ctx context.Context, bi int, batch []Envelope, idxs []int, outcomes []Outcome) {
	results, err := b.transport.Dispatch(ctx, batch)
	if err == nil && len(results) != len(batch) {
		err = fmt.Errorf("transport returned %d results for %d entries", len(results), len(batch))
	}
	if err != nil {
		derr := &DispatchError{Batch: bi, Err: err}
		for j, env := range batch {
			outcomes[idxs[j]] = Outcome{EnvelopeID: env.ID, Kind: OutcomeDispatchFailed, Err: derr}
			metrics.EntriesTotal.WithLabelValues(b.name, OutcomeDispatchFailed.String()).Inc()
		}
		metrics.BatchesTotal.WithLabelValues(b.name, "error").Inc()
		b.log.Warn("batch dispatch failed",
			zap.String("bus", b.name),
			zap.Int("batch", bi),
			zap.Int("entries", len(batch)),
			zap.Error(err))
		return
	}

	rejected := 0
	for j, res := range results {
		env := batch[j]
		if res.Ok() {
			outcomes[idxs[j]] = Outcome{EnvelopeID: env.ID, Kind: OutcomeAccepted, EventID: res.EventID}
			metrics.EntriesTotal.WithLabelValues(b.name, OutcomeAccepted.String()).Inc()
			continue
		}
		rejected++
		outcomes[idxs[j]] = Outcome{EnvelopeID: env.ID, Kind: OutcomeRejected, Code: res.Code, Message: res.Message}
		metrics.EntriesTotal.WithLabelValues(b.name, OutcomeRejected.String()).Inc()
	}
	metrics.BatchesTotal.WithLabelValues(b.name, "ok").Inc()
	b.log.Debug("batch dispatched",
		zap.String("bus", b.name),
		zap.Int("batch", bi),
		zap.Int("entries", len(batch)),
		zap.Int("rejected", rejected))
}

// failRemaining marks every not-yet-dispatched envelope, starting at batch
// index bi, as failed with the given error.
func (b *Bus) failRemaining(bi int, err error, idxs []int, outcomes []Outcome) {
	derr := &DispatchError{Batch: bi, Err: err}
	for _, i := range idxs {
		outcomes[i] = Outcome{EnvelopeID: outcomes[i].EnvelopeID, Kind: OutcomeDispatchFailed, Err: derr}
		metrics.EntriesTotal.WithLabelValues(b.name, OutcomeDispatchFailed.String()).Inc()
	}
	b.log.Warn("dispatch stopped before remaining batches",
		zap.String("bus", b.name),
		zap.Int("from_batch", bi),
		zap.Int("entries", len(idxs)),
		zap.Error(err))
}
