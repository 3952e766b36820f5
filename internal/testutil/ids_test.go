package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFixedIDGenerator_ReturnsSameID(t *testing.T) {
	gen := NewFixedIDGenerator("0190a0b0-0000-7000-8000-000000000001")

	assert.Equal(t, "0190a0b0-0000-7000-8000-000000000001", gen.Generate())
	assert.Equal(t, "0190a0b0-0000-7000-8000-000000000001", gen.Generate())
}

func TestFixedIDGenerator_EmptyIDDefault(t *testing.T) {
	gen := NewFixedIDGenerator("")

	assert.Equal(t, DefaultID, gen.Generate())
}
