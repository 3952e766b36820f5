package harness

// Outcome is what one codec did with the scenario's precision.
type Outcome struct {
	// Format is the codec's format name.
	Format string `json:"format"`

	// Encoded is the first serialization of the precision.
	Encoded string `json:"encoded"`

	// Entries are the decoded precision's entries, sorted.
	Entries []string `json:"entries"`

	// Size is the decoded precision's size.
	Size int `json:"size"`

	// Dropped lists the values skipped while encoding and decoding.
	Dropped []string `json:"dropped,omitempty"`

	// RoundTrip reports whether the decoded precision equals the original.
	RoundTrip bool `json:"round_trip"`

	// Idempotent reports whether re-encoding reproduced the document.
	Idempotent bool `json:"idempotent"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every assertion holds.
	Pass bool `json:"pass"`

	// Outcomes holds one entry per codec, in scenario order.
	Outcomes []Outcome `json:"outcomes"`

	// Errors contains assertion failures. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:     true,
		Outcomes: []Outcome{},
		Errors:   []string{},
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Outcome returns the outcome for format.
func (r *Result) Outcome(format string) (Outcome, bool) {
	for _, o := range r.Outcomes {
		if o.Format == format {
			return o, true
		}
	}
	return Outcome{}, false
}
