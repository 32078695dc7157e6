package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NoError(t, Register(reg))

	// Registering the same collectors twice must fail.
	assert.Error(t, Register(reg))
}

func TestCountersAcceptObservations(t *testing.T) {
	EntriesTotal.WithLabelValues("default", "accepted").Inc()
	BatchesTotal.WithLabelValues("default", "ok").Inc()
	EntrySize.Observe(512)
}
