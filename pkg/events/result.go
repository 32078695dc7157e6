package events

// OutcomeKind classifies what happened to one submitted envelope.
type OutcomeKind int

const (
	// OutcomeAccepted means the transport accepted the entry.
	OutcomeAccepted OutcomeKind = iota
	// OutcomeTooLarge means the entry failed the local size guard and was
	// never dispatched.
	OutcomeTooLarge
	// OutcomeRejected means the transport accepted the batch call but
	// rejected this entry individually.
	OutcomeRejected
	// OutcomeDispatchFailed means the whole batch call containing this entry
	// failed before per-entry outcomes existed.
	OutcomeDispatchFailed
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeAccepted:
		return "accepted"
	case OutcomeTooLarge:
		return "too_large"
	case OutcomeRejected:
		return "rejected"
	case OutcomeDispatchFailed:
		return "dispatch_failed"
	}
	return "unknown"
}

// Outcome is the final disposition of one submitted envelope.
type Outcome struct {
	// EnvelopeID is the submitted envelope's ID.
	EnvelopeID string
	Kind       OutcomeKind
	// EventID is the transport-assigned identifier when Kind is
	// OutcomeAccepted.
	EventID string
	// Code and Message carry the transport's rejection reason when Kind is
	// OutcomeRejected.
	Code    string
	Message string
	// Err holds the local or batch-level error for OutcomeTooLarge and
	// OutcomeDispatchFailed.
	Err error
}

// PublishResult reports the disposition of every envelope submitted to a
// single Put call, in submission order, each exactly once. A Put returning a
// result does not imply all envelopes were delivered; callers must inspect
// the outcomes.
type PublishResult struct {
	Outcomes []Outcome
}

// Ok reports whether every submitted envelope was accepted.
func (r *PublishResult) Ok() bool { return r.FailedCount() == 0 }

// FailedCount returns the number of envelopes that were not accepted,
// whether locally or by the transport.
func (r *PublishResult) FailedCount() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Kind != OutcomeAccepted {
			n++
		}
	}
	return n
}

// Failed returns the outcomes of every envelope that was not accepted, in
// submission order.
func (r *PublishResult) Failed() []Outcome {
	var failed []Outcome
	for _, o := range r.Outcomes {
		if o.Kind != OutcomeAccepted {
			failed = append(failed, o)
		}
	}
	return failed
}
