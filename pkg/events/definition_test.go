package events_test

import (
	"context"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hendriknielaender/eventbridge-schema-validation/pkg/events"
	"github.com/hendriknielaender/eventbridge-schema-validation/pkg/schema"
	"github.com/hendriknielaender/eventbridge-schema-validation/pkg/transport/memory"
)

func orderCreated(t *testing.T, tr events.Transport) *events.Definition {
	t.Helper()
	bus, err := events.NewBus("default", tr)
	require.NoError(t, err)

	def, err := events.NewDefinition(bus, "order.created", "orders",
		schema.Object(map[string]schema.Property{
			"orderId": {Type: schema.TypeString},
			"amount":  {Type: schema.TypeNumber},
		}, "orderId", "amount"))
	require.NoError(t, err)
	return def
}

func TestNewDefinition(t *testing.T) {
	bus, err := events.NewBus("default", &memory.Transport{})
	require.NoError(t, err)

	_, err = events.NewDefinition(nil, "order.created", "orders", schema.Schema{})
	assert.ErrorIs(t, err, events.ErrNilBus)

	_, err = events.NewDefinition(bus, "", "orders", schema.Schema{})
	assert.ErrorIs(t, err, events.ErrEmptyName)
}

func TestCreateBuildsEnvelope(t *testing.T) {
	def := orderCreated(t, &memory.Transport{})

	env, err := def.Create(map[string]interface{}{"orderId": "ord-1", "amount": 12.5})
	require.NoError(t, err)

	assert.NotEmpty(t, env.ID)
	assert.Equal(t, "orders", env.Source)
	assert.Equal(t, "order.created", env.DetailType)
	assert.Equal(t, "default", env.Bus)

	var detail map[string]interface{}
	require.NoError(t, jsoniter.Unmarshal(env.Detail, &detail))
	assert.Equal(t, "ord-1", detail["orderId"])
	assert.Equal(t, 12.5, detail["amount"])
}

func TestCreateRejectsInvalidPayload(t *testing.T) {
	def := orderCreated(t, &memory.Transport{})

	_, err := def.Create(map[string]interface{}{"amount": "wrong"})
	require.Error(t, err)

	verr, ok := err.(*schema.ValidationError)
	require.True(t, ok, "expected *schema.ValidationError, got %T", err)
	assert.Contains(t, verr.Error(), "orderId")
	assert.Contains(t, verr.Error(), "amount")
}

func TestPublishSingleEnvelope(t *testing.T) {
	tr := &memory.Transport{}
	def := orderCreated(t, tr)

	result, err := def.Publish(context.Background(), map[string]interface{}{
		"orderId": "ord-1",
		"amount":  3.5,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, tr.Calls())
	require.Len(t, result.Outcomes, 1)
	assert.Equal(t, events.OutcomeAccepted, result.Outcomes[0].Kind)
	assert.True(t, result.Ok())
}

func TestPublishValidationFailureIssuesNoDispatch(t *testing.T) {
	tr := &memory.Transport{}
	def := orderCreated(t, tr)

	_, err := def.Publish(context.Background(), map[string]interface{}{"orderId": 7})
	require.Error(t, err)
	assert.Zero(t, tr.Calls(), "validation failures must never reach the transport")
}

func TestPattern(t *testing.T) {
	def := orderCreated(t, &memory.Transport{})

	p := def.Pattern()
	assert.Equal(t, []string{"orders"}, p.Source)
	assert.Equal(t, []string{"order.created"}, p.DetailType)

	raw, err := p.JSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"source":["orders"],"detail-type":["order.created"]}`, string(raw))
}
