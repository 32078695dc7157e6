// Package kafka dispatches envelopes to a Kafka topic through
// segmentio/kafka-go.
package kafka

import (
	"context"
	"errors"

	"github.com/segmentio/kafka-go"

	"github.com/hendriknielaender/eventbridge-schema-validation/pkg/events"
)

// Writer is the slice of kafka.Writer this transport needs.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// Transport is an events.Transport that writes each envelope as one Kafka
// message, keyed by detail-type, with routing metadata in headers.
type Transport struct {
	writer Writer
}

// New creates a Kafka transport around an existing writer.
func New(writer Writer) *Transport {
	return &Transport{writer: writer}
}

// NewWriter builds a writer with the defaults this transport expects.
func NewWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}
}

// Dispatch writes the batch in one WriteMessages call. Kafka assigns no
// per-message identifier on produce, so the envelope ID doubles as the
// accepted entry's event id. Partial write failures surface as per-entry
// rejections via kafka.WriteErrors.
func (t *Transport) Dispatch(ctx context.Context, batch []events.Envelope) ([]events.EntryResult, error) {
	msgs := make([]kafka.Message, len(batch))
	for i, env := range batch {
		msgs[i] = kafka.Message{
			Key:   []byte(env.DetailType),
			Value: env.Detail,
			Headers: []kafka.Header{
				{Key: "id", Value: []byte(env.ID)},
				{Key: "source", Value: []byte(env.Source)},
				{Key: "detail-type", Value: []byte(env.DetailType)},
				{Key: "event-bus", Value: []byte(env.Bus)},
			},
		}
	}

	err := t.writer.WriteMessages(ctx, msgs...)
	results := make([]events.EntryResult, len(batch))

	var werrs kafka.WriteErrors
	if errors.As(err, &werrs) && len(werrs) == len(batch) {
		for i, werr := range werrs {
			if werr == nil {
				results[i] = events.EntryResult{EventID: batch[i].ID}
				continue
			}
			results[i] = events.EntryResult{Code: "WriteError", Message: werr.Error()}
		}
		return results, nil
	}
	if err != nil {
		return nil, err
	}

	for i, env := range batch {
		results[i] = events.EntryResult{EventID: env.ID}
	}
	return results, nil
}
