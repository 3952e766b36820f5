package harness

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// Snapshot captures the codec outcomes of a scenario execution.
// Encoded documents are left out; witness metadata carries a creation
// time and producer that would make the snapshot depend on the run.
type Snapshot struct {
	Scenario string            `json:"scenario"`
	Kind     string            `json:"kind"`
	Outcomes []OutcomeSnapshot `json:"outcomes"`
}

// OutcomeSnapshot is the stable part of an Outcome.
type OutcomeSnapshot struct {
	Format     string   `json:"format"`
	Size       int      `json:"size"`
	Entries    []string `json:"entries"`
	Dropped    int      `json:"dropped"`
	RoundTrip  bool     `json:"round_trip"`
	Idempotent bool     `json:"idempotent"`
}

// NewSnapshot builds the snapshot of result.
func NewSnapshot(name, kind string, result *Result) Snapshot {
	s := Snapshot{Scenario: name, Kind: kind, Outcomes: make([]OutcomeSnapshot, 0, len(result.Outcomes))}
	for _, o := range result.Outcomes {
		entries := o.Entries
		if entries == nil {
			entries = []string{}
		}
		s.Outcomes = append(s.Outcomes, OutcomeSnapshot{
			Format:     o.Format,
			Size:       o.Size,
			Entries:    entries,
			Dropped:    len(o.Dropped),
			RoundTrip:  o.RoundTrip,
			Idempotent: o.Idempotent,
		})
	}
	return s
}

// Marshal renders the snapshot as indented JSON with a trailing newline.
// Predicate entries keep their comparison operators unescaped.
func (s Snapshot) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RunWithGolden executes a scenario and compares its outcomes against a
// golden file stored in testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the outcomes don't match the golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}
	return AssertGolden(t, scenario.Name, scenario.Precision.Kind, result)
}

// AssertGolden compares an already computed result against a golden file.
func AssertGolden(t *testing.T, scenarioName, kind string, result *Result) error {
	t.Helper()

	data, err := NewSnapshot(scenarioName, kind, result).Marshal()
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)

	return nil
}
