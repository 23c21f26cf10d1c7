// Package nlquery turns a short English phrase into structured filters.
//
// The grammar is fixed. Each rule is checked on its own against the
// lower-cased query and the filters it yields are combined with AND:
//
//	"palindrome", "palindromic"   is_palindrome = true
//	"single word"                 word_count = 1
//	"longer than N"               min_length = N + 1
//	"contain(s|ing) [the letter] x"  contains_character = x
//
// The interpreter never looks at records; callers hand the result to the
// filter package.
package nlquery

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/mesh-intelligence/lexicon/pkg/types"
)

// Failure reasons carried by errors wrapping types.ErrQueryParse.
const (
	ReasonMissing      = "missing query"
	ReasonLength       = "length"
	ReasonUnrecognized = "unrecognized query"
)

var (
	longerThanRe = regexp.MustCompile(`longer than\D*?(\d+)`)
	containRe    = regexp.MustCompile(`contain(?:s|ing)?\s+(?:the\s+letter\s+)?["']?([a-z0-9])["']?(?:[^a-z0-9]|$)`)
)

// Interpret parses query into filters. It fails with an error wrapping
// types.ErrQueryParse when the query is empty, when "longer than" is not
// followed by an integer, or when no rule produced a filter.
func Interpret(query string) (types.Filters, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return types.Filters{}, parseError(ReasonMissing)
	}

	var f types.Filters

	if strings.Contains(q, "palindrome") || strings.Contains(q, "palindromic") {
		f.IsPalindrome = types.Bool(true)
	}

	if strings.Contains(q, "single word") {
		f.WordCount = types.Int(1)
	}

	if strings.Contains(q, "longer than") {
		m := longerThanRe.FindStringSubmatch(q)
		if m == nil {
			return types.Filters{}, parseError(ReasonLength)
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return types.Filters{}, errors.WithSecondaryError(parseError(ReasonLength), err)
		}
		// N+1 must stay representable.
		if n == math.MaxInt {
			return types.Filters{}, parseError(ReasonLength)
		}
		f.MinLength = types.Int(n + 1)
	}

	if strings.Contains(q, "contain") {
		if m := containRe.FindStringSubmatch(q); m != nil {
			f.ContainsCharacter = types.String(m[1])
		}
	}

	if f.IsEmpty() {
		return types.Filters{}, parseError(ReasonUnrecognized)
	}
	return f, nil
}

func parseError(reason string) error {
	return errors.Wrap(types.ErrQueryParse, reason)
}
