package events

// Envelope is the wire-level representation of one validated event instance,
// ready for transport dispatch. Detail always holds a payload that satisfied
// the owning definition's schema at construction time.
type Envelope struct {
	// ID correlates the envelope through batching and dispatch. Assigned at
	// creation, never by the transport.
	ID         string `json:"id"`
	Source     string `json:"source"`
	DetailType string `json:"detail-type"`
	Detail     []byte `json:"detail"`
	Bus        string `json:"eventBusName"`
}

// entrySize is the serialized size the transport accounts against its
// per-entry ceiling: detail plus the routing fields carried alongside it.
func (e Envelope) entrySize() int {
	return len(e.Detail) + len(e.Source) + len(e.DetailType)
}
