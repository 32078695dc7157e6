// Package redisstream dispatches envelopes onto a Redis stream via XADD.
package redisstream

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/hendriknielaender/eventbridge-schema-validation/pkg/events"
)

// Client is the slice of the go-redis client this transport needs.
// *redis.Client and *redis.ClusterClient satisfy it.
type Client interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
}

// Transport is an events.Transport that appends one stream entry per
// envelope. The Redis stream ID becomes the accepted entry's event id.
type Transport struct {
	client Client
	stream string
}

// New creates a Redis stream transport.
func New(client Client, stream string) *Transport {
	return &Transport{client: client, stream: stream}
}

// Dispatch appends each envelope to the stream. An XADD failing for one
// envelope is recorded as that entry's rejection; context cancellation fails
// the whole call.
func (t *Transport) Dispatch(ctx context.Context, batch []events.Envelope) ([]events.EntryResult, error) {
	results := make([]events.EntryResult, len(batch))
	for i, env := range batch {
		id, err := t.client.XAdd(ctx, &redis.XAddArgs{
			Stream: t.stream,
			Values: map[string]interface{}{
				"id":          env.ID,
				"source":      env.Source,
				"detail-type": env.DetailType,
				"detail":      string(env.Detail),
				"event_bus":   env.Bus,
			},
		}).Result()
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			results[i] = events.EntryResult{Code: "XAddFailed", Message: err.Error()}
			continue
		}
		results[i] = events.EntryResult{EventID: id}
	}
	return results, nil
}
