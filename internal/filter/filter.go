// Package filter decides which records satisfy a set of structured filters.
//
// Both the query-parameter endpoint and the natural-language interpreter
// produce types.Filters; this package holds the one implementation that
// applies them.
package filter

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/mesh-intelligence/lexicon/pkg/types"
)

// Apply returns the records that satisfy every present predicate in f, in
// their original order. An empty filter set returns all records.
func Apply(records []types.StringRecord, f types.Filters) []types.StringRecord {
	out := make([]types.StringRecord, 0, len(records))
	for _, r := range records {
		if Match(r, f) {
			out = append(out, r)
		}
	}
	return out
}

// Match reports whether a single record satisfies every present predicate.
func Match(r types.StringRecord, f types.Filters) bool {
	p := r.Properties
	if f.IsPalindrome != nil && p.IsPalindrome != *f.IsPalindrome {
		return false
	}
	if f.MinLength != nil && p.Length < *f.MinLength {
		return false
	}
	if f.MaxLength != nil && p.Length > *f.MaxLength {
		return false
	}
	if f.WordCount != nil && p.WordCount != *f.WordCount {
		return false
	}
	if f.ContainsCharacter != nil &&
		!strings.Contains(strings.ToLower(r.Value), strings.ToLower(*f.ContainsCharacter)) {
		return false
	}
	return true
}

// Parse reads structured filters from query parameters. Parameters other than
// the five filter names are ignored. Any value that does not parse rejects the
// whole request with an error wrapping types.ErrInvalidFilter and naming the
// offending parameter.
func Parse(params url.Values) (types.Filters, error) {
	var f types.Filters

	if params.Has(types.FilterIsPalindrome) {
		b, err := parseBool(types.FilterIsPalindrome, params.Get(types.FilterIsPalindrome))
		if err != nil {
			return types.Filters{}, err
		}
		f.IsPalindrome = &b
	}

	ints := []struct {
		name string
		dst  **int
	}{
		{types.FilterMinLength, &f.MinLength},
		{types.FilterMaxLength, &f.MaxLength},
		{types.FilterWordCount, &f.WordCount},
	}
	for _, p := range ints {
		if !params.Has(p.name) {
			continue
		}
		n, err := parseInt(p.name, params.Get(p.name))
		if err != nil {
			return types.Filters{}, err
		}
		*p.dst = &n
	}

	if params.Has(types.FilterContainsCharacter) {
		c := params.Get(types.FilterContainsCharacter)
		f.ContainsCharacter = &c
	}

	return f, nil
}

func parseBool(name, raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, errors.Wrapf(types.ErrInvalidFilter, "%s: %q is not true or false", name, raw)
}

func parseInt(name, raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, errors.Wrapf(types.ErrInvalidFilter, "%s: %q is not an integer", name, raw)
	}
	return n, nil
}
