package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
)

// Sum returns the hex SHA-256 fingerprint of the data. Uploaded documents
// are fingerprinted at staging time so the audit log can tie a stored file
// back to the exact bytes received.
func Sum(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// Matcher verifies file content against a previously recorded fingerprint.
type Matcher struct {
	expected string
}

func NewMatcher(expected string) *Matcher {
	return &Matcher{expected: expected}
}

// Match reports whether the data hashes to the expected fingerprint.
func (m *Matcher) Match(data []byte) (bool, error) {
	if m.expected == "" {
		return false, errors.New("expected checksum is not set")
	}
	return Sum(data) == m.expected, nil
}
