package types

import (
	"maps"
	"time"
)

// Properties is the derived property set of a string. Every field is a pure
// function of the normalized text (trimmed, lower-cased).
type Properties struct {
	Length             int            `json:"length" yaml:"length"`
	IsPalindrome       bool           `json:"is_palindrome" yaml:"is_palindrome"`
	UniqueCharacters   int            `json:"unique_characters" yaml:"unique_characters"`
	WordCount          int            `json:"word_count" yaml:"word_count"`
	SHA256Hash         string         `json:"sha256_hash" yaml:"sha256_hash"`
	CharacterFrequency map[string]int `json:"character_frequency_map" yaml:"character_frequency_map"`
}

// StringRecord is the unit of storage. Value is the raw input and the
// uniqueness key; ID always equals Properties.SHA256Hash.
type StringRecord struct {
	ID         string     `json:"id"`
	Value      string     `json:"value"`
	Properties Properties `json:"properties"`
	CreatedAt  time.Time  `json:"created_at"`
}

// NewStringRecord builds a record for value from its properties, stamping
// createdAt in UTC.
func NewStringRecord(value string, props Properties, createdAt time.Time) StringRecord {
	return StringRecord{
		ID:         props.SHA256Hash,
		Value:      value,
		Properties: props,
		CreatedAt:  createdAt.UTC(),
	}
}

// Clone returns a deep copy so callers never share the frequency map with
// the store that owns the record.
func (r StringRecord) Clone() StringRecord {
	r.Properties.CharacterFrequency = maps.Clone(r.Properties.CharacterFrequency)
	return r
}
