package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFiltersIsEmpty(t *testing.T) {
	assert.True(t, Filters{}.IsEmpty())
	assert.False(t, Filters{MinLength: Int(0)}.IsEmpty())
	assert.False(t, Filters{ContainsCharacter: String("")}.IsEmpty())
}

func TestFiltersJSONOmitsUnsetFields(t *testing.T) {
	data, err := json.Marshal(Filters{IsPalindrome: Bool(true), MinLength: Int(11)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"is_palindrome":true,"min_length":11}`, string(data))
}

func TestStringRecordClone(t *testing.T) {
	created := time.Date(2025, 10, 18, 9, 30, 0, 0, time.FixedZone("CEST", 2*60*60))
	rec := NewStringRecord("aa", Properties{
		SHA256Hash:         "abc",
		CharacterFrequency: map[string]int{"a": 2},
	}, created)

	assert.Equal(t, "abc", rec.ID)
	assert.Equal(t, time.UTC, rec.CreatedAt.Location())

	cp := rec.Clone()
	cp.Properties.CharacterFrequency["a"] = 99
	assert.Equal(t, 2, rec.Properties.CharacterFrequency["a"])
}
