// Package eventbridge dispatches envelopes through the AWS EventBridge
// PutEvents API.
package eventbridge

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/eventbridge"
	backoff "github.com/cenkalti/backoff/v4"

	"github.com/hendriknielaender/eventbridge-schema-validation/pkg/events"
)

// API is the slice of the EventBridge client this transport needs.
// *eventbridge.EventBridge satisfies it.
type API interface {
	PutEventsWithContext(ctx aws.Context, input *eventbridge.PutEventsInput, opts ...request.Option) (*eventbridge.PutEventsOutput, error)
}

// Config tunes the transport.
type Config struct {
	// MaxRetries bounds call-level retries on throttling and internal
	// errors. Per-entry rejections are never retried here; that policy
	// belongs to the caller.
	MaxRetries uint64
}

// Transport is an events.Transport backed by EventBridge PutEvents.
type Transport struct {
	client     API
	maxRetries uint64
}

// New creates an EventBridge transport around an existing client.
func New(client API, cfg Config) *Transport {
	return &Transport{client: client, maxRetries: cfg.MaxRetries}
}

// Dispatch maps the batch onto one PutEvents call. Entry results correlate
// positionally, per the PutEvents contract.
func (t *Transport) Dispatch(ctx context.Context, batch []events.Envelope) ([]events.EntryResult, error) {
	entries := make([]*eventbridge.PutEventsRequestEntry, len(batch))
	for i, env := range batch {
		entries[i] = &eventbridge.PutEventsRequestEntry{
			Source:       aws.String(env.Source),
			DetailType:   aws.String(env.DetailType),
			Detail:       aws.String(string(env.Detail)),
			EventBusName: aws.String(env.Bus),
		}
	}
	input := &eventbridge.PutEventsInput{Entries: entries}

	var out *eventbridge.PutEventsOutput
	op := func() error {
		var err error
		out, err = t.client.PutEventsWithContext(ctx, input)
		if err != nil && !retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}
	bo := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), t.maxRetries), ctx)
	if err := backoff.Retry(op, bo); err != nil {
		return nil, err
	}

	results := make([]events.EntryResult, len(batch))
	for i, entry := range out.Entries {
		if i >= len(results) {
			break
		}
		results[i] = events.EntryResult{
			EventID: aws.StringValue(entry.EventId),
			Code:    aws.StringValue(entry.ErrorCode),
			Message: aws.StringValue(entry.ErrorMessage),
		}
	}
	return results, nil
}

func retryable(err error) bool {
	var aerr awserr.Error
	if errors.As(err, &aerr) {
		switch aerr.Code() {
		case "ThrottlingException", eventbridge.ErrCodeInternalException:
			return true
		}
	}
	return false
}
