package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testUniverse = `variables:
  - name: g
    type: Int
  - name: main::x
    type: Int
`

// writeScenario writes a universe and a scenario into dir and returns the
// scenario path.
func writeScenario(t *testing.T, dir, content string) string {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "vars.yml"), []byte(testUniverse), 0644))
	path := filepath.Join(dir, "test.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadScenario_ValidFile(t *testing.T) {
	dir := t.TempDir()
	path := writeScenario(t, dir, `
name: test_scenario
description: "Test scenario for validation"
universe: vars.yml
precision:
  kind: explicit
  vars: [g, main::x]
codecs: [witness]
assertions:
  - type: round_trip
  - type: size
    count: 2
`)

	scenario, err := LoadScenario(path)
	require.NoError(t, err)

	assert.Equal(t, "test_scenario", scenario.Name)
	assert.Equal(t, "Test scenario for validation", scenario.Description)
	assert.Equal(t, filepath.Join(dir, "vars.yml"), scenario.Universe)
	assert.Equal(t, []string{"g", "main::x"}, scenario.Precision.Vars)
	assert.Equal(t, []string{"witness"}, scenario.formats())
	require.Len(t, scenario.Assertions, 2)
	assert.Equal(t, 2, scenario.Assertions[1].Count)
}

func TestLoadScenario_DefaultFormats(t *testing.T) {
	dir := t.TempDir()
	path := writeScenario(t, dir, `
name: all
description: all codecs
universe: vars.yml
precision:
  kind: predicate
  predicates: ["(> |g| 0)"]
assertions:
  - type: idempotent
`)

	scenario, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"proprietary", "witness"}, scenario.formats())
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario("/nonexistent/scenario.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenario_MalformedYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeScenario(t, dir, "name: [unterminated\n")

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestLoadScenario_UnknownField(t *testing.T) {
	dir := t.TempDir()
	path := writeScenario(t, dir, `
name: unknown
description: unknown field
universe: vars.yml
flow_token: abc
precision:
  kind: explicit
assertions:
  - type: round_trip
`)

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "flow_token")
}

func TestLoadScenario_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name: "missing name",
			content: `
description: d
universe: vars.yml
precision: {kind: explicit}
assertions: [{type: round_trip}]
`,
			wantErr: "name is required",
		},
		{
			name: "missing description",
			content: `
name: n
universe: vars.yml
precision: {kind: explicit}
assertions: [{type: round_trip}]
`,
			wantErr: "description is required",
		},
		{
			name: "missing universe",
			content: `
name: n
description: d
precision: {kind: explicit}
assertions: [{type: round_trip}]
`,
			wantErr: "universe is required",
		},
		{
			name: "universe not found",
			content: `
name: n
description: d
universe: missing.yml
precision: {kind: explicit}
assertions: [{type: round_trip}]
`,
			wantErr: "universe file not found",
		},
		{
			name: "bad kind",
			content: `
name: n
description: d
universe: vars.yml
precision: {kind: octagon}
assertions: [{type: round_trip}]
`,
			wantErr: "precision.kind",
		},
		{
			name: "predicates on explicit",
			content: `
name: n
description: d
universe: vars.yml
precision: {kind: explicit, predicates: ["(> |g| 0)"]}
assertions: [{type: round_trip}]
`,
			wantErr: "precision.predicates is not allowed",
		},
		{
			name: "vars on predicate",
			content: `
name: n
description: d
universe: vars.yml
precision: {kind: predicate, vars: [g]}
assertions: [{type: round_trip}]
`,
			wantErr: "precision.vars is not allowed",
		},
		{
			name: "unknown codec",
			content: `
name: n
description: d
universe: vars.yml
precision: {kind: explicit}
codecs: [json]
assertions: [{type: round_trip}]
`,
			wantErr: "codecs[0]",
		},
		{
			name: "duplicate codec",
			content: `
name: n
description: d
universe: vars.yml
precision: {kind: explicit}
codecs: [witness, witness]
assertions: [{type: round_trip}]
`,
			wantErr: "duplicate codec",
		},
		{
			name: "no assertions",
			content: `
name: n
description: d
universe: vars.yml
precision: {kind: explicit}
`,
			wantErr: "assertions list is required",
		},
		{
			name: "unknown assertion",
			content: `
name: n
description: d
universe: vars.yml
precision: {kind: explicit}
assertions: [{type: trace_contains}]
`,
			wantErr: "unknown assertion type",
		},
		{
			name: "contains without value",
			content: `
name: n
description: d
universe: vars.yml
precision: {kind: explicit}
assertions: [{type: contains}]
`,
			wantErr: "value is required for contains",
		},
		{
			name: "negative count",
			content: `
name: n
description: d
universe: vars.yml
precision: {kind: explicit}
assertions: [{type: size, count: -1}]
`,
			wantErr: "count must be non-negative",
		},
		{
			name: "assertion on unexercised codec",
			content: `
name: n
description: d
universe: vars.yml
precision: {kind: explicit}
codecs: [proprietary]
assertions: [{type: round_trip, codec: witness}]
`,
			wantErr: "not exercised by this scenario",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeScenario(t, t.TempDir(), tt.content)
			_, err := LoadScenario(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid scenario")
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadScenarioWithBasePath(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "scenarios")
	require.NoError(t, os.MkdirAll(sub, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "vars.yml"), []byte(testUniverse), 0644))
	path := filepath.Join(sub, "s.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: based
description: universe resolved against an explicit base
universe: vars.yml
precision: {kind: explicit, vars: [g]}
assertions: [{type: round_trip}]
`), 0644))

	_, err := LoadScenario(path)
	require.Error(t, err, "vars.yml is not next to the scenario")

	scenario, err := LoadScenarioWithBasePath(path, dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "vars.yml"), scenario.Universe)
}
