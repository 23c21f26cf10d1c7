package types

// Filters is the structured predicate set shared by the query-parameter
// endpoint and the natural-language interpreter. A nil field imposes no
// constraint; present fields are combined with logical AND.
type Filters struct {
	IsPalindrome      *bool   `json:"is_palindrome,omitempty" yaml:"is_palindrome,omitempty"`
	MinLength         *int    `json:"min_length,omitempty" yaml:"min_length,omitempty"`
	MaxLength         *int    `json:"max_length,omitempty" yaml:"max_length,omitempty"`
	WordCount         *int    `json:"word_count,omitempty" yaml:"word_count,omitempty"`
	ContainsCharacter *string `json:"contains_character,omitempty" yaml:"contains_character,omitempty"`
}

// Filter parameter names, as they appear in query strings and JSON.
const (
	FilterIsPalindrome      = "is_palindrome"
	FilterMinLength         = "min_length"
	FilterMaxLength         = "max_length"
	FilterWordCount         = "word_count"
	FilterContainsCharacter = "contains_character"
)

// IsEmpty reports whether no predicate is set.
func (f Filters) IsEmpty() bool {
	return f.IsPalindrome == nil &&
		f.MinLength == nil &&
		f.MaxLength == nil &&
		f.WordCount == nil &&
		f.ContainsCharacter == nil
}

// Bool returns a pointer to b, for building Filters literals.
func Bool(b bool) *bool { return &b }

// Int returns a pointer to n.
func Int(n int) *int { return &n }

// String returns a pointer to s.
func String(s string) *string { return &s }
