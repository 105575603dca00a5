package briefing

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Fingerprint computes the stable dedup key for an item. Title and URL are
// NFC-normalized, trimmed and lowercased so cosmetic variations of the same
// entry collapse to one fingerprint.
func Fingerprint(title, url string) string {
	content := fmt.Sprintf("%s|%s",
		canonicalize(title),
		canonicalize(url))

	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}

func canonicalize(s string) string {
	return strings.ToLower(strings.TrimSpace(norm.NFC.String(s)))
}
