package metadata

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/precreuse/internal/ir"
	"github.com/roach88/precreuse/internal/smtlib"
)

// Universe is the set of live variables of one analysis run together with
// their metadata.
type Universe struct {
	Vars  []ir.VarDecl
	Table *Table
}

// universeFile is the YAML layout of a universe file.
type universeFile struct {
	Variables []variableEntry `yaml:"variables"`
}

type variableEntry struct {
	Name     string `yaml:"name"`
	Type     string `yaml:"type"`
	Line     int    `yaml:"line,omitempty"`
	Column   int    `yaml:"column,omitempty"`
	CName    string `yaml:"c_name,omitempty"`
	Internal bool   `yaml:"internal,omitempty"`
}

// LoadUniverse reads a universe file.
func LoadUniverse(path string) (*Universe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load universe: %w", err)
	}
	u, err := ParseUniverse(data)
	if err != nil {
		return nil, fmt.Errorf("load universe %s: %w", path, err)
	}
	return u, nil
}

// ParseUniverse decodes universe YAML. Variable types are SMT-LIB sorts.
func ParseUniverse(data []byte) (*Universe, error) {
	var f universeFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse universe: %w", err)
	}
	u := &Universe{Table: NewTable()}
	seen := make(map[string]bool, len(f.Variables))
	for i, e := range f.Variables {
		if e.Name == "" {
			return nil, fmt.Errorf("variables[%d]: missing name", i)
		}
		if seen[e.Name] {
			return nil, fmt.Errorf("variables[%d]: duplicate name %q", i, e.Name)
		}
		seen[e.Name] = true
		t, err := smtlib.ParseSortString(e.Type)
		if err != nil {
			return nil, fmt.Errorf("variables[%d] %s: %w", i, e.Name, err)
		}
		u.Vars = append(u.Vars, ir.Var(e.Name, t))
		u.Table.Set(e.Name, Info{Line: e.Line, Column: e.Column, CName: e.CName, Internal: e.Internal})
	}
	return u, nil
}

// Marshal encodes the universe back to YAML.
func (u *Universe) Marshal() ([]byte, error) {
	f := universeFile{Variables: make([]variableEntry, len(u.Vars))}
	for i, v := range u.Vars {
		info, _ := u.Table.Get(v.Name)
		f.Variables[i] = variableEntry{
			Name:     v.Name,
			Type:     v.Type.String(),
			Line:     info.Line,
			Column:   info.Column,
			CName:    info.CName,
			Internal: info.Internal,
		}
	}
	return yaml.Marshal(&f)
}

// Var returns the live variable named name.
func (u *Universe) Var(name string) (ir.VarDecl, bool) {
	for _, v := range u.Vars {
		if v.Name == name {
			return v, true
		}
	}
	return ir.VarDecl{}, false
}
