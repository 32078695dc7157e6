// Package amqp dispatches envelopes to a RabbitMQ exchange.
package amqp

import (
	"context"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/hendriknielaender/eventbridge-schema-validation/pkg/events"
)

// Channel is the slice of *amqp.Channel this transport needs.
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Config tunes routing. An empty RoutingKey routes each envelope by its
// detail-type.
type Config struct {
	Exchange   string
	RoutingKey string
}

// Transport is an events.Transport publishing one AMQP message per envelope.
type Transport struct {
	channel Channel
	config  Config
}

// New creates an AMQP transport over an open channel.
func New(channel Channel, cfg Config) *Transport {
	return &Transport{channel: channel, config: cfg}
}

// Dispatch publishes each envelope in order. A publish failing for one
// envelope is recorded as that entry's rejection; context cancellation fails
// the whole call.
func (t *Transport) Dispatch(ctx context.Context, batch []events.Envelope) ([]events.EntryResult, error) {
	results := make([]events.EntryResult, len(batch))
	for i, env := range batch {
		key := t.config.RoutingKey
		if key == "" {
			key = env.DetailType
		}
		err := t.channel.PublishWithContext(ctx, t.config.Exchange, key, false, false, amqp.Publishing{
			ContentType: "application/json",
			MessageId:   env.ID,
			Type:        env.DetailType,
			AppId:       env.Source,
			Body:        env.Detail,
			Headers:     amqp.Table{"event-bus": env.Bus},
		})
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			results[i] = events.EntryResult{Code: "PublishFailed", Message: err.Error()}
			continue
		}
		results[i] = events.EntryResult{EventID: env.ID}
	}
	return results, nil
}
