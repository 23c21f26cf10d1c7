package nlquery

import (
	"math"
	"strconv"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/lexicon/pkg/types"
)

func TestInterpret(t *testing.T) {
	tests := []struct {
		query string
		want  types.Filters
	}{
		{
			query: "show me palindromic strings",
			want:  types.Filters{IsPalindrome: types.Bool(true)},
		},
		{
			query: "all palindrome strings",
			want:  types.Filters{IsPalindrome: types.Bool(true)},
		},
		{
			query: "strings longer than 10",
			want:  types.Filters{MinLength: types.Int(11)},
		},
		{
			query: "Strings Longer Than 10 characters",
			want:  types.Filters{MinLength: types.Int(11)},
		},
		{
			query: "longer than about 3 letters",
			want:  types.Filters{MinLength: types.Int(4)},
		},
		{
			query: "all single word palindromic strings",
			want:  types.Filters{IsPalindrome: types.Bool(true), WordCount: types.Int(1)},
		},
		{
			query: "strings containing the letter z",
			want:  types.Filters{ContainsCharacter: types.String("z")},
		},
		{
			query: "strings that contain the letter \"A\"",
			want:  types.Filters{ContainsCharacter: types.String("a")},
		},
		{
			query: "words that contains 7",
			want:  types.Filters{ContainsCharacter: types.String("7")},
		},
		{
			query: "palindromic strings that contain the first vowel containing a",
			want:  types.Filters{IsPalindrome: types.Bool(true), ContainsCharacter: types.String("a")},
		},
		{
			query: "single word strings longer than 4 containing e",
			want: types.Filters{
				WordCount:         types.Int(1),
				MinLength:         types.Int(5),
				ContainsCharacter: types.String("e"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got, err := Interpret(tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInterpretContainWithoutCharacterLeavesFilterUnset(t *testing.T) {
	got, err := Interpret("palindromes containing the word racecar")
	require.NoError(t, err)
	assert.Equal(t, types.Filters{IsPalindrome: types.Bool(true)}, got)
}

func TestInterpretErrors(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		reason string
	}{
		{name: "empty", query: "", reason: ReasonMissing},
		{name: "blank", query: "   ", reason: ReasonMissing},
		{name: "no rule matches", query: "show me everything", reason: ReasonUnrecognized},
		{name: "contain without a character", query: "strings containing", reason: ReasonUnrecognized},
		{name: "longer than without number", query: "strings longer than ten", reason: ReasonLength},
		{name: "length error wins over other rules", query: "palindromes longer than five", reason: ReasonLength},
		{name: "number too large", query: "longer than 99999999999999999999999", reason: ReasonLength},
		{name: "largest int has no successor", query: "longer than " + strconv.Itoa(math.MaxInt), reason: ReasonLength},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Interpret(tt.query)
			require.Error(t, err)
			assert.True(t, errors.Is(err, types.ErrQueryParse))
			assert.Contains(t, err.Error(), tt.reason)
		})
	}
}

func TestInterpretDeterministic(t *testing.T) {
	q := "single word palindromic strings longer than 2 containing the letter a"
	first, err := Interpret(q)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		got, err := Interpret(q)
		require.NoError(t, err)
		assert.Equal(t, first, got)
	}
}
