package state

import (
	"fmt"
	"hash/fnv"
	"strings"
	"unicode"
)

// DefaultFingerprintTokens is the number of leading title tokens that
// make up a topic fingerprint.
const DefaultFingerprintTokens = 6

// Fingerprint derives a fixed-width topic fingerprint from a title:
// lowercase, strip everything but letters, digits, and spaces, take
// the first n whitespace tokens, and hash them. Titles that differ
// only in punctuation or trailing words collide on purpose, which is
// what makes the dedup fuzzy.
func Fingerprint(title string, n int) string {
	if n <= 0 {
		n = DefaultFingerprintTokens
	}
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	tokens := strings.Fields(b.String())
	if len(tokens) > n {
		tokens = tokens[:n]
	}
	if len(tokens) == 0 {
		return ""
	}
	h := fnv.New64a()
	h.Write([]byte(strings.Join(tokens, " ")))
	return fmt.Sprintf("%016x", h.Sum64())
}
