package harness

import (
	"fmt"
	"strings"
)

// AssertionError is returned when an assertion fails.
// It includes the codec outcome to help debug the failure.
type AssertionError struct {
	Type     string  // Assertion type for categorization
	Codec    string  // Format the assertion was checked against
	Expected string  // Human-readable expected outcome
	Actual   string  // Human-readable actual outcome
	Outcome  Outcome // Codec outcome for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s [%s]\n", e.Type, e.Codec)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nDecoded entries:\n")
	for _, entry := range e.Outcome.Entries {
		fmt.Fprintf(&buf, "  %s\n", entry)
	}
	if len(e.Outcome.Dropped) > 0 {
		fmt.Fprintf(&buf, "Dropped:\n")
		for _, d := range e.Outcome.Dropped {
			fmt.Fprintf(&buf, "  %s\n", d)
		}
	}

	return buf.String()
}

// evaluate checks every assertion against the outcomes it applies to and
// records failures on result.
func evaluate(assertions []Assertion, result *Result) {
	for _, a := range assertions {
		for _, out := range result.Outcomes {
			if a.Codec != "" && a.Codec != out.Format {
				continue
			}
			if err := check(a, out); err != nil {
				result.AddError(err.Error())
			}
		}
	}
}

// check evaluates one assertion against one outcome.
func check(a Assertion, out Outcome) error {
	fail := func(expected, actual string) error {
		return &AssertionError{
			Type:     a.Type,
			Codec:    out.Format,
			Expected: expected,
			Actual:   actual,
			Outcome:  out,
		}
	}

	switch a.Type {
	case AssertRoundTrip:
		if !out.RoundTrip {
			return fail("decoded precision equals the original", "precisions differ")
		}
	case AssertIdempotent:
		if !out.Idempotent {
			return fail("re-encoding reproduces the document", "documents differ")
		}
	case AssertSize:
		if out.Size != a.Count {
			return fail(fmt.Sprintf("size %d", a.Count), fmt.Sprintf("size %d", out.Size))
		}
	case AssertDropped:
		if len(out.Dropped) != a.Count {
			return fail(fmt.Sprintf("%d dropped", a.Count), fmt.Sprintf("%d dropped", len(out.Dropped)))
		}
	case AssertContains:
		if !hasEntry(out.Entries, a.Value) {
			return fail(fmt.Sprintf("entry %s", a.Value), "not found")
		}
	case AssertLost:
		if hasEntry(out.Entries, a.Value) {
			return fail(fmt.Sprintf("entry %s absent", a.Value), "entry survived the round trip")
		}
	default:
		return fmt.Errorf("unknown assertion type: %s", a.Type)
	}
	return nil
}

func hasEntry(entries []string, value string) bool {
	for _, e := range entries {
		if e == value {
			return true
		}
	}
	return false
}
