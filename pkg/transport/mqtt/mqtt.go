// Package mqtt dispatches envelopes to an MQTT broker, one message per
// envelope, carrying the full wire envelope as JSON.
package mqtt

import (
	"context"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	jsoniter "github.com/json-iterator/go"

	"github.com/hendriknielaender/eventbridge-schema-validation/pkg/events"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Config tunes topic layout and delivery.
type Config struct {
	// TopicPrefix is joined with each envelope's detail-type to form the
	// publish topic.
	TopicPrefix string
	QOS         byte
}

// Transport is an events.Transport over a connected MQTT client.
type Transport struct {
	client mqtt.Client
	config Config
}

// New creates an MQTT transport over a connected client.
func New(client mqtt.Client, cfg Config) *Transport {
	return &Transport{client: client, config: cfg}
}

// Dispatch publishes each envelope in order and waits for broker
// acknowledgement per message. A failed publish is recorded as that entry's
// rejection; context cancellation fails the whole call.
func (t *Transport) Dispatch(ctx context.Context, batch []events.Envelope) ([]events.EntryResult, error) {
	results := make([]events.EntryResult, len(batch))
	for i, env := range batch {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		body, err := json.Marshal(env)
		if err != nil {
			results[i] = events.EntryResult{Code: "EncodeFailed", Message: err.Error()}
			continue
		}
		token := t.client.Publish(t.topic(env), t.config.QOS, false, body)
		token.Wait()
		if err := token.Error(); err != nil {
			results[i] = events.EntryResult{Code: "PublishFailed", Message: err.Error()}
			continue
		}
		results[i] = events.EntryResult{EventID: env.ID}
	}
	return results, nil
}

func (t *Transport) topic(env events.Envelope) string {
	if t.config.TopicPrefix == "" {
		return env.DetailType
	}
	return t.config.TopicPrefix + "/" + env.DetailType
}
