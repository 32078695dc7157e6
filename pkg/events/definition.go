package events

import (
	"context"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"github.com/hendriknielaender/eventbridge-schema-validation/pkg/schema"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Definition is one named event type: a payload schema plus the routing
// metadata stamped onto every envelope it produces. The schema is immutable
// after construction. A Definition holds a non-owning reference to its Bus;
// many definitions may share one Bus.
type Definition struct {
	name   string
	source string
	schema schema.Schema
	bus    *Bus
}

// NewDefinition creates an event definition on the given bus.
func NewDefinition(bus *Bus, name, source string, s schema.Schema) (*Definition, error) {
	if bus == nil {
		return nil, ErrNilBus
	}
	if name == "" {
		return nil, ErrEmptyName
	}
	return &Definition{name: name, source: source, schema: s, bus: bus}, nil
}

// Name returns the event name, used as the envelope detail-type.
func (d *Definition) Name() string { return d.name }

// Source returns the source tag stamped onto every envelope.
func (d *Definition) Source() string { return d.source }

// Create validates payload against the definition's schema and builds an
// envelope bound to the owning bus. Validation failures are returned before
// any network interaction; an envelope is never built from an unvalidated
// payload.
func (d *Definition) Create(payload map[string]interface{}) (Envelope, error) {
	if err := d.schema.Validate(payload); err != nil {
		return Envelope{}, err
	}
	detail, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{
		ID:         uuid.NewString(),
		Source:     d.source,
		DetailType: d.name,
		Detail:     detail,
		Bus:        d.bus.name,
	}, nil
}

// Publish is Create followed by a single-envelope Put on the owning bus. A
// validation failure fails the call outright and issues no dispatch.
func (d *Definition) Publish(ctx context.Context, payload map[string]interface{}) (*PublishResult, error) {
	env, err := d.Create(payload)
	if err != nil {
		return nil, err
	}
	return d.bus.Put(ctx, []Envelope{env}), nil
}

// Pattern is the static rule pattern matching every event this definition
// publishes. It is consumed by infrastructure tooling that generates trigger
// rules; this package only derives it.
type Pattern struct {
	Source     []string `json:"source"`
	DetailType []string `json:"detail-type"`
}

// Pattern derives the rule pattern from the definition's immutable fields.
func (d *Definition) Pattern() Pattern {
	return Pattern{
		Source:     []string{d.source},
		DetailType: []string{d.name},
	}
}

// JSON renders the pattern in the wire form rule tooling consumes.
func (p Pattern) JSON() ([]byte, error) {
	return json.Marshal(p)
}
