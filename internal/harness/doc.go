// Package harness runs precision round-trip scenarios.
//
// A scenario names a variable universe, a precision over it and the codecs
// to exercise. For every codec the harness encodes the precision, decodes
// the document against the universe and encodes the result again, then
// evaluates the scenario's assertions on what came back.
//
// # Scenario Format
//
//	name: explicit_roundtrip
//	description: "Every tracked variable survives both formats"
//	universe: ../universe.yml
//	precision:
//	  kind: explicit
//	  vars: [g, main::x]
//	codecs: [proprietary, witness]
//	assertions:
//	  - type: round_trip
//	  - type: size
//	    codec: witness
//	    count: 2
//
// Predicate precisions list SMT-LIB terms over the universe instead of
// vars:
//
//	precision:
//	  kind: predicate
//	  predicates:
//	    - "(> |main::x| 0)"
//
// # Assertion Types
//
//   - round_trip: the decoded precision equals the original
//   - idempotent: encoding the decoded precision reproduces the document
//     (witness metadata ignored)
//   - size: the decoded precision has count entries
//   - dropped: count entries were skipped while encoding or decoding
//   - contains: value is among the decoded entries
//   - lost: value is absent from the decoded entries
//
// An assertion without codec applies to every codec of the scenario.
//
// # Deterministic Testing
//
// Witness codecs run with testutil.DeterministicClock and a fixed UUID, and
// the producer is pinned, so documents are identical across runs.
package harness
