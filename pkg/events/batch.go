package events

// Chunk partitions envelopes into ordered batches of at most size entries,
// walking the input in submission order. Batches are subslices of the input;
// nothing is copied or reordered. Zero envelopes yields zero batches.
func Chunk(envelopes []Envelope, size int) [][]Envelope {
	if size <= 0 || len(envelopes) == 0 {
		return nil
	}
	batches := make([][]Envelope, 0, (len(envelopes)+size-1)/size)
	for len(envelopes) > size {
		batches = append(batches, envelopes[:size:size])
		envelopes = envelopes[size:]
	}
	return append(batches, envelopes)
}
