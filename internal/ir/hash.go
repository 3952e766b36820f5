package ir

import (
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/text/unicode/norm"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainPrecision = "precreuse/precision/v1"
	DomainContent   = "precreuse/content/v1"
)

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
// The null byte separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// PrecisionHash computes the archive identity of a serialized precision.
// The body is NFC normalised first, so visually identical documents hash
// alike.
func PrecisionHash(format string, kind Kind, body string) string {
	data := make([]byte, 0, len(format)+len(kind)+len(body)+2)
	data = append(data, format...)
	data = append(data, 0x00)
	data = append(data, kind...)
	data = append(data, 0x00)
	data = append(data, norm.NFC.String(body)...)
	return hashWithDomain(DomainPrecision, data)
}

// ContentHash is the plain SHA-256 hex digest of data, as written into
// witness metadata for input files.
func ContentHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
