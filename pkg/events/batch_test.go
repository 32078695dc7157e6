package events

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func numberedEnvelopes(n int) []Envelope {
	envs := make([]Envelope, n)
	for i := range envs {
		envs[i] = Envelope{ID: fmt.Sprintf("env-%d", i)}
	}
	return envs
}

func TestChunk(t *testing.T) {
	tests := []struct {
		name    string
		n       int
		size    int
		batches []int
	}{
		{name: "empty input yields no batches", n: 0, size: 10, batches: nil},
		{name: "single partial batch", n: 3, size: 10, batches: []int{3}},
		{name: "exact fit", n: 10, size: 10, batches: []int{10}},
		{name: "one over", n: 11, size: 10, batches: []int{10, 1}},
		{name: "twenty five", n: 25, size: 10, batches: []int{10, 10, 5}},
		{name: "size one", n: 3, size: 1, batches: []int{1, 1, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			envs := numberedEnvelopes(tt.n)
			batches := Chunk(envs, tt.size)

			require.Len(t, batches, len(tt.batches))
			var flat []Envelope
			for i, b := range batches {
				assert.Len(t, b, tt.batches[i])
				flat = append(flat, b...)
			}
			// Concatenation preserves the original order exactly.
			assert.Equal(t, envs, flat)
		})
	}
}

func TestChunkRestartable(t *testing.T) {
	envs := numberedEnvelopes(7)
	first := Chunk(envs, 3)
	second := Chunk(envs, 3)
	assert.Equal(t, first, second)
}

func TestChunkInvalidSize(t *testing.T) {
	assert.Nil(t, Chunk(numberedEnvelopes(5), 0))
	assert.Nil(t, Chunk(numberedEnvelopes(5), -1))
}
