// Package types defines the Store interface, the record and filter types,
// and the standard errors shared by every lexicon component.
package types
