package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrecisionHashDeterminism(t *testing.T) {
	body := "(declare-fun x () Int)\n\n(assert (> x 0))"

	h1 := PrecisionHash("proprietary", KindPredicate, body)
	h2 := PrecisionHash("proprietary", KindPredicate, body)

	assert.Equal(t, h1, h2, "PrecisionHash must be deterministic")
	assert.Len(t, h1, 64, "SHA-256 hex is 64 characters")
}

func TestPrecisionHashChangesWithInput(t *testing.T) {
	base := PrecisionHash("proprietary", KindExplicit, "x")

	assert.NotEqual(t, base, PrecisionHash("witness", KindExplicit, "x"), "Different format")
	assert.NotEqual(t, base, PrecisionHash("proprietary", KindPredicate, "x"), "Different kind")
	assert.NotEqual(t, base, PrecisionHash("proprietary", KindExplicit, "y"), "Different body")
}

func TestPrecisionHashFieldBoundaries(t *testing.T) {
	// "ab"/"c" must not collide with "a"/"bc"
	h1 := PrecisionHash("ab", Kind("c"), "")
	h2 := PrecisionHash("a", Kind("bc"), "")

	assert.NotEqual(t, h1, h2)
}

func TestPrecisionHashNormalisesBody(t *testing.T) {
	composed := "caf\u00e9"
	decomposed := "cafe\u0301"

	assert.Equal(t,
		PrecisionHash("witness", KindExplicit, composed),
		PrecisionHash("witness", KindExplicit, decomposed),
		"NFC-equivalent bodies must hash alike")
}

func TestDomainSeparationPreventsCrossTypeCollision(t *testing.T) {
	data := []byte("x")

	assert.NotEqual(t, hashWithDomain(DomainPrecision, data), hashWithDomain(DomainContent, data))
}

func TestHashWithDomainNullSeparator(t *testing.T) {
	// "foo" + 0x00 + "bar" != "foob" + 0x00 + "ar"
	hash1 := hashWithDomain("foo", []byte("bar"))
	hash2 := hashWithDomain("foob", []byte("ar"))

	assert.NotEqual(t, hash1, hash2, "Null separator must prevent boundary confusion")
}

func TestContentHashKnownVector(t *testing.T) {
	// sha256("")
	assert.Equal(t,
		"e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		ContentHash(nil))
}

func TestHashHexEncoding(t *testing.T) {
	id := PrecisionHash("witness", KindPredicate, "- entry_type: precision")

	for _, c := range id {
		valid := (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')
		assert.True(t, valid, "Hash should only contain hex characters, got: %c", c)
	}
}
