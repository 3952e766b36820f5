package smtlib

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/precreuse/internal/ir"
)

func TestParseResponse(t *testing.T) {
	text := `(declare-fun |main::x| () Int)
(declare-const flag Bool)
(declare-fun f (Int Int) Bool)

(assert (> |main::x| 0))
(assert flag)`

	resp, err := ParseResponse(text)
	require.NoError(t, err)

	require.Len(t, resp.Decls, 3)
	assert.Equal(t, Decl{Symbol: "main::x", Type: ir.Int(), Text: "(declare-fun |main::x| () Int)"}, resp.Decls[0])
	assert.Equal(t, "flag", resp.Decls[1].Symbol)
	assert.Equal(t, ir.Func(ir.Int(), ir.Func(ir.Int(), ir.Bool())), resp.Decls[2].Type)

	require.Len(t, resp.Asserts, 2)
	assert.Equal(t, "(> |main::x| 0)", resp.Asserts[0].String())
}

func TestParseResponseSolverError(t *testing.T) {
	_, err := ParseResponse(`(error "model is not available")`)

	var se *SolverError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "model is not available", se.Message)
}

func TestParseResponseRejects(t *testing.T) {
	tests := []struct {
		name string
		text string
		want any
	}{
		{"unknown form", "(check-sat)", &SyntaxError{}},
		{"bare atom", "x", &SyntaxError{}},
		{"malformed assert", "(assert)", &SyntaxError{}},
		{"unknown sort", "(declare-fun s () String)", &SortError{}},
		{"syntax", "(assert (> x 0)", &SyntaxError{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseResponse(tt.text)
			require.Error(t, err)
			switch tt.want.(type) {
			case *SyntaxError:
				var target *SyntaxError
				assert.True(t, errors.As(err, &target), "got %v", err)
			case *SortError:
				var target *SortError
				assert.True(t, errors.As(err, &target), "got %v", err)
			}
		})
	}
}

func TestParseResponseEmpty(t *testing.T) {
	resp, err := ParseResponse("")
	require.NoError(t, err)
	assert.Empty(t, resp.Decls)
	assert.Empty(t, resp.Asserts)
}
