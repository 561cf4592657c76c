// Package fingerprint derives the dedup identity for a job posting. Two
// postings that normalize identically on company, title, location, and URL
// get the same fingerprint regardless of which source produced them.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/jobsift/jobsift/internal/normalize"
)

// Compute hashes the normalized fields into a hex-encoded SHA-256 digest.
// An empty location is omitted from the hash input entirely rather than
// hashed as a sentinel, so a posting seen with and without location metadata
// produces two different fingerprints. Existing behavior, kept on purpose.
func Compute(company, title, location, url string) string {
	h := sha256.New()
	h.Write([]byte(strings.ToLower(company)))
	h.Write([]byte(normalize.Title(title)))
	if location != "" {
		h.Write([]byte(normalize.Location(location)))
	}
	h.Write([]byte(normalize.URL(url)))
	return hex.EncodeToString(h.Sum(nil))
}
