package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunWithGolden(t *testing.T) {
	for _, name := range []string{"explicit_roundtrip", "predicate_roundtrip", "internal_variable"} {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, RunWithGolden(t, loadTestScenario(t, name)))
		})
	}
}

func TestAssertGolden_FromResult(t *testing.T) {
	s := loadTestScenario(t, "internal_variable")
	result, err := Run(s)
	require.NoError(t, err)

	require.NoError(t, AssertGolden(t, s.Name, s.Precision.Kind, result))
}

func TestSnapshotMarshal(t *testing.T) {
	result := NewResult()
	result.Outcomes = []Outcome{{
		Format:     "witness",
		Encoded:    "ignored",
		Size:       1,
		Dropped:    []string{"a", "b"},
		RoundTrip:  true,
		Idempotent: true,
	}}

	data, err := NewSnapshot("s", "predicate", result).Marshal()
	require.NoError(t, err)

	assert.Equal(t, `{
  "scenario": "s",
  "kind": "predicate",
  "outcomes": [
    {
      "format": "witness",
      "size": 1,
      "entries": [],
      "dropped": 2,
      "round_trip": true,
      "idempotent": true
    }
  ]
}
`, string(data))
}

func TestSnapshotMarshal_NoHTMLEscaping(t *testing.T) {
	result := NewResult()
	result.Outcomes = []Outcome{{Format: "proprietary", Entries: []string{"(< |x| 0)"}}}

	data, err := NewSnapshot("s", "predicate", result).Marshal()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"(< |x| 0)"`)
}
