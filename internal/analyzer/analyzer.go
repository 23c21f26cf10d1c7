// Package analyzer derives the fixed property set of a string.
//
// Every property is computed from the normalized text: leading and trailing
// whitespace trimmed, then lower-cased. Normalization happens once, in
// Analyze, and no property re-derives it.
package analyzer

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/mesh-intelligence/lexicon/pkg/types"
)

// Normalize trims surrounding whitespace and lower-cases raw.
func Normalize(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// Analyze returns the properties of raw. It accepts any input, including the
// empty string, and always returns the same result for the same normalized text.
func Analyze(raw string) types.Properties {
	text := Normalize(raw)
	runes := []rune(text)

	freq := make(map[string]int, len(runes))
	for _, r := range runes {
		freq[string(r)]++
	}

	sum := sha256.Sum256([]byte(text))

	return types.Properties{
		Length:             len(runes),
		IsPalindrome:       isPalindrome(runes),
		UniqueCharacters:   len(freq),
		WordCount:          len(strings.Fields(text)),
		SHA256Hash:         hex.EncodeToString(sum[:]),
		CharacterFrequency: freq,
	}
}

// isPalindrome compares runes pairwise from both ends.
func isPalindrome(runes []rune) bool {
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		if runes[i] != runes[j] {
			return false
		}
	}
	return true
}
