package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/precreuse/internal/codec"
	"github.com/roach88/precreuse/internal/ir"
)

// Scenario defines a round-trip scenario.
type Scenario struct {
	// Name uniquely identifies this scenario.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Universe is the variable-universe file the precision is built over
	// and decoded against. Relative paths resolve against the scenario
	// file's directory.
	Universe string `yaml:"universe"`

	// Precision is the precision under test.
	Precision PrecisionSpec `yaml:"precision"`

	// Codecs lists the formats to exercise. Empty means all formats.
	Codecs []string `yaml:"codecs,omitempty"`

	// Assertions are evaluated against every codec outcome.
	Assertions []Assertion `yaml:"assertions"`
}

// PrecisionSpec describes a precision by name.
type PrecisionSpec struct {
	// Kind is "explicit" or "predicate".
	Kind string `yaml:"kind"`

	// Vars are universe variable names (explicit).
	Vars []string `yaml:"vars,omitempty"`

	// Predicates are SMT-LIB terms over universe variables (predicate).
	Predicates []string `yaml:"predicates,omitempty"`
}

// Assertion checks one codec outcome.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Codec restricts the assertion to one format.
	Codec string `yaml:"codec,omitempty"`

	// Count is the expected number (size, dropped).
	Count int `yaml:"count,omitempty"`

	// Value is the entry looked for (contains, lost).
	Value string `yaml:"value,omitempty"`
}

// Assertion type constants.
const (
	AssertRoundTrip  = "round_trip"
	AssertIdempotent = "idempotent"
	AssertSize       = "size"
	AssertDropped    = "dropped"
	AssertContains   = "contains"
	AssertLost       = "lost"
)

// allFormats is the codec order used when a scenario names none.
var allFormats = []string{string(codec.Proprietary), string(codec.Witness)}

// LoadScenario reads and parses a scenario YAML file. The universe path
// resolves against the file's directory. Unknown fields are rejected.
func LoadScenario(path string) (*Scenario, error) {
	return LoadScenarioWithBasePath(path, filepath.Dir(path))
}

// LoadScenarioWithBasePath reads and parses a scenario YAML file,
// resolving the universe path relative to basePath.
func LoadScenarioWithBasePath(path, basePath string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.Universe != "" && !filepath.IsAbs(scenario.Universe) && basePath != "" {
		scenario.Universe = filepath.Join(basePath, scenario.Universe)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// formats returns the codecs to exercise.
func (s *Scenario) formats() []string {
	if len(s.Codecs) == 0 {
		return allFormats
	}
	return s.Codecs
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Universe == "" {
		return fmt.Errorf("universe is required")
	}
	if _, err := os.Stat(s.Universe); os.IsNotExist(err) {
		return fmt.Errorf("universe file not found: %s", s.Universe)
	}

	kind, err := ir.ParseKind(s.Precision.Kind)
	if err != nil {
		return fmt.Errorf("precision.kind: %w", err)
	}
	switch kind {
	case ir.KindExplicit:
		if len(s.Precision.Predicates) > 0 {
			return fmt.Errorf("precision.predicates is not allowed for explicit precisions")
		}
	case ir.KindPredicate:
		if len(s.Precision.Vars) > 0 {
			return fmt.Errorf("precision.vars is not allowed for predicate precisions")
		}
	}

	seen := make(map[string]bool, len(s.Codecs))
	for i, name := range s.Codecs {
		if _, err := codec.ParseFormat(name); err != nil {
			return fmt.Errorf("codecs[%d]: %w", i, err)
		}
		if seen[name] {
			return fmt.Errorf("codecs[%d]: duplicate codec %q", i, name)
		}
		seen[name] = true
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}
	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i], s.formats()); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion, formats []string) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	if a.Codec != "" {
		found := false
		for _, f := range formats {
			if f == a.Codec {
				found = true
			}
		}
		if !found {
			return fmt.Errorf("assertions[%d]: codec %q is not exercised by this scenario", index, a.Codec)
		}
	}

	switch a.Type {
	case AssertRoundTrip, AssertIdempotent:
	case AssertSize, AssertDropped:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for %s", index, a.Type)
		}
	case AssertContains, AssertLost:
		if a.Value == "" {
			return fmt.Errorf("assertions[%d]: value is required for %s", index, a.Type)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
