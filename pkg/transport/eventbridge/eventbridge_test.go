package eventbridge

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/request"
	awseb "github.com/aws/aws-sdk-go/service/eventbridge"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hendriknielaender/eventbridge-schema-validation/pkg/events"
)

type fakeAPI struct {
	calls  int
	inputs []*awseb.PutEventsInput
	fn     func(call int, input *awseb.PutEventsInput) (*awseb.PutEventsOutput, error)
}

func (f *fakeAPI) PutEventsWithContext(_ aws.Context, input *awseb.PutEventsInput, _ ...request.Option) (*awseb.PutEventsOutput, error) {
	call := f.calls
	f.calls++
	f.inputs = append(f.inputs, input)
	return f.fn(call, input)
}

func acceptAll(_ int, input *awseb.PutEventsInput) (*awseb.PutEventsOutput, error) {
	entries := make([]*awseb.PutEventsResultEntry, len(input.Entries))
	for i := range entries {
		entries[i] = &awseb.PutEventsResultEntry{EventId: aws.String("evt-" + aws.StringValue(input.Entries[i].DetailType))}
	}
	return &awseb.PutEventsOutput{FailedEntryCount: aws.Int64(0), Entries: entries}, nil
}

func TestDispatchMapsEntries(t *testing.T) {
	api := &fakeAPI{fn: acceptAll}
	tr := New(api, Config{})

	batch := []events.Envelope{{
		ID:         "env-1",
		Source:     "orders",
		DetailType: "order.created",
		Detail:     []byte(`{"orderId":"x"}`),
		Bus:        "default",
	}}

	results, err := tr.Dispatch(context.Background(), batch)
	require.NoError(t, err)

	require.Len(t, api.inputs, 1)
	entry := api.inputs[0].Entries[0]
	assert.Equal(t, "orders", aws.StringValue(entry.Source))
	assert.Equal(t, "order.created", aws.StringValue(entry.DetailType))
	assert.Equal(t, `{"orderId":"x"}`, aws.StringValue(entry.Detail))
	assert.Equal(t, "default", aws.StringValue(entry.EventBusName))

	require.Len(t, results, 1)
	assert.True(t, results[0].Ok())
	assert.Equal(t, "evt-order.created", results[0].EventID)
}

func TestDispatchPartialFailure(t *testing.T) {
	api := &fakeAPI{fn: func(_ int, input *awseb.PutEventsInput) (*awseb.PutEventsOutput, error) {
		return &awseb.PutEventsOutput{
			FailedEntryCount: aws.Int64(1),
			Entries: []*awseb.PutEventsResultEntry{
				{EventId: aws.String("evt-1")},
				{ErrorCode: aws.String("InternalFailure"), ErrorMessage: aws.String("try later")},
			},
		}, nil
	}}
	tr := New(api, Config{})

	results, err := tr.Dispatch(context.Background(), []events.Envelope{{ID: "a"}, {ID: "b"}})
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.True(t, results[0].Ok())
	assert.False(t, results[1].Ok())
	assert.Equal(t, "InternalFailure", results[1].Code)
	assert.Equal(t, "try later", results[1].Message)
}

func TestDispatchRetriesThrottling(t *testing.T) {
	throttle := awserr.New("ThrottlingException", "slow down", nil)
	api := &fakeAPI{fn: func(call int, input *awseb.PutEventsInput) (*awseb.PutEventsOutput, error) {
		if call == 0 {
			return nil, throttle
		}
		return acceptAll(call, input)
	}}
	tr := New(api, Config{MaxRetries: 2})

	results, err := tr.Dispatch(context.Background(), []events.Envelope{{ID: "a"}})
	require.NoError(t, err)
	assert.Equal(t, 2, api.calls)
	assert.True(t, results[0].Ok())
}

func TestDispatchDoesNotRetryPermanentErrors(t *testing.T) {
	denied := awserr.New("AccessDeniedException", "no", nil)
	api := &fakeAPI{fn: func(int, *awseb.PutEventsInput) (*awseb.PutEventsOutput, error) {
		return nil, denied
	}}
	tr := New(api, Config{MaxRetries: 5})

	_, err := tr.Dispatch(context.Background(), []events.Envelope{{ID: "a"}})
	assert.ErrorIs(t, err, denied)
	assert.Equal(t, 1, api.calls)
}
