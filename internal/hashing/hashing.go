// Package hashing derives the content addresses and salted fingerprints the
// service stores in place of raw text and client addresses.
package hashing

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"golang.org/x/text/cases"
)

// QuoteIDLen is the number of hex characters kept from the quote digest.
const QuoteIDLen = 12

// AdminHashLen is the number of hex characters kept for admin audit rows.
const AdminHashLen = 32

// DefaultAddr stands in for a missing client address so that anonymous
// callers still share a single rate-limit bucket.
const DefaultAddr = "0.0.0.0"

// CollapseSpace replaces every run of whitespace with a single space and
// trims both ends.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// QuoteID returns the content address of a quote text: the first twelve hex
// characters of the SHA-256 of its whitespace-collapsed form. Case is
// significant.
func QuoteID(text string) string {
	return sum(CollapseSpace(text))[:QuoteIDLen]
}

// NormalizeBody collapses whitespace and case-folds a comment body so that
// trivially re-formatted reposts hash identically.
func NormalizeBody(body string) string {
	// Casers carry state and are not safe to share across goroutines.
	return cases.Fold().String(CollapseSpace(body))
}

// BodyHash returns the SHA-256 hex digest of NormalizeBody(body).
func BodyHash(body string) string {
	return sum(NormalizeBody(body))
}

// Hasher fingerprints client addresses with a process-wide salt.
type Hasher struct {
	salt string
}

// NewHasher returns a Hasher bound to salt.
func NewHasher(salt string) Hasher { return Hasher{salt: salt} }

// Fingerprint returns the 64-char SHA-256 hex of salt+addr. An empty addr is
// treated as DefaultAddr.
func (h Hasher) Fingerprint(addr string) string {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		addr = DefaultAddr
	}
	return sum(h.salt + addr)
}

// AdminHash is the truncated fingerprint recorded on moderation audit rows.
func (h Hasher) AdminHash(addr string) string {
	return h.Fingerprint(addr)[:AdminHashLen]
}

func sum(s string) string {
	d := sha256.Sum256([]byte(s))
	return hex.EncodeToString(d[:])
}
