package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleOutcome() Outcome {
	return Outcome{
		Format:     "witness",
		Entries:    []string{"g", "main::x"},
		Size:       2,
		Dropped:    []string{"main::__tmp"},
		RoundTrip:  false,
		Idempotent: true,
	}
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name      string
		assertion Assertion
		wantErr   bool
	}{
		{"round trip fails", Assertion{Type: AssertRoundTrip}, true},
		{"idempotent holds", Assertion{Type: AssertIdempotent}, false},
		{"size matches", Assertion{Type: AssertSize, Count: 2}, false},
		{"size differs", Assertion{Type: AssertSize, Count: 3}, true},
		{"dropped matches", Assertion{Type: AssertDropped, Count: 1}, false},
		{"dropped differs", Assertion{Type: AssertDropped}, true},
		{"contains found", Assertion{Type: AssertContains, Value: "main::x"}, false},
		{"contains missing", Assertion{Type: AssertContains, Value: "main::y"}, true},
		{"lost absent", Assertion{Type: AssertLost, Value: "main::__tmp"}, false},
		{"lost survived", Assertion{Type: AssertLost, Value: "g"}, true},
		{"unknown type", Assertion{Type: "trace_order"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := check(tt.assertion, sampleOutcome())
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestEvaluate_AllPass(t *testing.T) {
	result := NewResult()
	result.Outcomes = []Outcome{sampleOutcome()}

	evaluate([]Assertion{
		{Type: AssertIdempotent},
		{Type: AssertSize, Count: 2},
	}, result)

	assert.True(t, result.Pass)
	assert.Empty(t, result.Errors)
}

func TestEvaluate_SomeFail(t *testing.T) {
	result := NewResult()
	result.Outcomes = []Outcome{sampleOutcome()}

	evaluate([]Assertion{
		{Type: AssertIdempotent},
		{Type: AssertRoundTrip},
		{Type: AssertSize, Count: 5},
	}, result)

	assert.False(t, result.Pass)
	assert.Len(t, result.Errors, 2)
}

func TestEvaluate_CodecFilter(t *testing.T) {
	prop := sampleOutcome()
	prop.Format = "proprietary"
	prop.RoundTrip = true

	result := NewResult()
	result.Outcomes = []Outcome{prop, sampleOutcome()}

	evaluate([]Assertion{{Type: AssertRoundTrip, Codec: "proprietary"}}, result)
	assert.True(t, result.Pass)

	evaluate([]Assertion{{Type: AssertRoundTrip}}, result)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "[witness]")
}

func TestAssertionError_ErrorFormat(t *testing.T) {
	err := &AssertionError{
		Type:     AssertSize,
		Codec:    "witness",
		Expected: "size 3",
		Actual:   "size 2",
		Outcome:  sampleOutcome(),
	}

	msg := err.Error()
	assert.Contains(t, msg, "Assertion failed: size [witness]")
	assert.Contains(t, msg, "Expected: size 3")
	assert.Contains(t, msg, "Actual: size 2")
	assert.Contains(t, msg, "Decoded entries:\n  g\n  main::x\n")
	assert.Contains(t, msg, "Dropped:\n  main::__tmp\n")
}
