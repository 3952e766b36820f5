package witness

import (
	"bytes"
	_ "embed"
	"fmt"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"

	"github.com/roach88/precreuse/internal/codec"
	"github.com/roach88/precreuse/internal/ir"
	"github.com/roach88/precreuse/internal/scope"
)

// EntryTypePrecision tags precision entries.
const EntryTypePrecision = "precision"

// FormatCExpression is the only value format written and accepted.
const FormatCExpression = "c_expression"

// Entry is one element of a witness document.
type Entry struct {
	EntryType string        `yaml:"entry_type"`
	Metadata  Metadata      `yaml:"metadata"`
	Content   []ContentItem `yaml:"content"`
}

// Metadata is the witness header.
type Metadata struct {
	FormatVersion string   `yaml:"format_version"`
	UUID          string   `yaml:"uuid"`
	CreationTime  string   `yaml:"creation_time"`
	Producer      Producer `yaml:"producer"`
	Task          Task     `yaml:"task"`
}

// Producer names the tool that wrote the witness.
type Producer struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

// Task describes the verification task.
type Task struct {
	InputFiles      []string          `yaml:"input_files"`
	InputFileHashes map[string]string `yaml:"input_file_hashes"`
	Specification   string            `yaml:"specification"`
	DataModel       string            `yaml:"data_model"`
	Language        string            `yaml:"language"`
}

// ContentItem wraps one precision entry.
type ContentItem struct {
	Precision PrecisionEntry `yaml:"precision"`
}

// PrecisionEntry is the precision of one scope.
type PrecisionEntry struct {
	Format string    `yaml:"format"`
	Scope  ScopeNode `yaml:"scope"`
	Type   string    `yaml:"type"`
	Values []string  `yaml:"values"`
}

// ScopeNode is the serialized form of a scope.Scope.
type ScopeNode struct {
	Type         string    `yaml:"type"`
	FunctionName string    `yaml:"function_name,omitempty"`
	Location     *Location `yaml:"location,omitempty"`
}

// Location is a source position inside a function.
type Location struct {
	Line     int    `yaml:"line"`
	Column   int    `yaml:"column,omitempty"`
	Function string `yaml:"function,omitempty"`
}

func scopeNode(s scope.Scope) ScopeNode {
	switch s.Type {
	case scope.Function:
		return ScopeNode{Type: s.Type.String(), FunctionName: s.Function}
	case scope.Location:
		return ScopeNode{
			Type:     s.Type.String(),
			Location: &Location{Line: s.Line, Column: s.Column, Function: s.Function},
		}
	}
	return ScopeNode{Type: s.Type.String()}
}

// Scope converts the node back to a scope.Scope.
func (n ScopeNode) Scope() (scope.Scope, error) {
	t, err := scope.ParseType(n.Type)
	if err != nil {
		return scope.Scope{}, err
	}
	switch t {
	case scope.Function:
		return scope.FunctionScope(n.FunctionName), nil
	case scope.Location:
		if n.Location == nil {
			return scope.Scope{}, fmt.Errorf("witness: location scope without location")
		}
		return scope.LocationScope(n.Location.Function, n.Location.Line, n.Location.Column), nil
	}
	return scope.GlobalScope(), nil
}

//go:embed witness.cue
var schemaSource string

// schema compiles the embedded CUE schema and returns its #Document.
func schema() (*cue.Context, cue.Value, error) {
	ctx := cuecontext.New()
	v := ctx.CompileString(schemaSource, cue.Filename("witness.cue"))
	if err := v.Err(); err != nil {
		return nil, cue.Value{}, fmt.Errorf("witness: compile schema: %w", err)
	}
	return ctx, v.LookupPath(cue.ParsePath("#Document")), nil
}

// validate checks a generically decoded document against the schema.
func validate(doc any) error {
	ctx, def, err := schema()
	if err != nil {
		return err
	}
	v := ctx.Encode(normalize(doc))
	if err := v.Err(); err != nil {
		return err
	}
	return def.Unify(v).Validate(cue.Concrete(true))
}

// normalize turns YAML timestamps into strings and non-string map keys
// into their printed form, so the document encodes as plain JSON data.
func normalize(v any) any {
	switch n := v.(type) {
	case time.Time:
		return n.Format(time.RFC3339)
	case map[string]any:
		out := make(map[string]any, len(n))
		for k, e := range n {
			out[k] = normalize(e)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(n))
		for k, e := range n {
			out[fmt.Sprint(k)] = normalize(e)
		}
		return out
	case []any:
		out := make([]any, len(n))
		for i, e := range n {
			out[i] = normalize(e)
		}
		return out
	}
	return v
}

// encode renders a single-entry document.
func encode(entry Entry) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode([]Entry{entry}); err != nil {
		return "", fmt.Errorf("witness: encode: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("witness: encode: %w", err)
	}
	return buf.String(), nil
}

// decode parses and validates input, then returns the precision entries
// of the given kind. A document without any precision entry is an error;
// precision entries of the other kind are ignored.
func decode(input string, kind ir.Kind) ([]PrecisionEntry, error) {
	var raw any
	if err := yaml.Unmarshal([]byte(input), &raw); err != nil {
		return nil, decodeError(codec.ErrCodeSyntax, "invalid YAML", err)
	}
	if err := validate(raw); err != nil {
		return nil, decodeError(codec.ErrCodeSchema, "document does not match the witness schema", err)
	}
	var doc []Entry
	if err := yaml.Unmarshal([]byte(input), &doc); err != nil {
		return nil, decodeError(codec.ErrCodeSchema, "document does not match the witness schema", err)
	}

	found := false
	var out []PrecisionEntry
	for _, e := range doc {
		if e.EntryType != EntryTypePrecision {
			continue
		}
		found = true
		for _, item := range e.Content {
			if item.Precision.Type == string(kind) {
				out = append(out, item.Precision)
			}
		}
	}
	if !found {
		return nil, decodeError(codec.ErrCodeMissingEntry, "no precision entry in witness", nil)
	}
	return out, nil
}

func decodeError(code codec.ErrorCode, msg string, err error) *codec.DecodeError {
	return &codec.DecodeError{Code: code, Format: codec.Witness, Message: msg, Err: err}
}
