package types

import "github.com/cockroachdb/errors"

// Request and record errors. Callers classify with errors.Is; every error
// returned by a lexicon component wraps exactly one of these.
var (
	// ErrValidation reports a malformed or missing request field.
	ErrValidation = errors.New("invalid request")

	// ErrType reports a request field with the wrong JSON type.
	ErrType = errors.New("invalid data type")

	// ErrDuplicate reports an insert of a value that is already stored.
	ErrDuplicate = errors.New("the string already exists in the system")

	// ErrNotFound reports a lookup or delete of a value that is not stored.
	ErrNotFound = errors.New("the string does not exist in the system")

	// ErrInvalidFilter reports a query parameter that does not parse.
	ErrInvalidFilter = errors.New("invalid query parameter value")

	// ErrQueryParse reports a natural-language query the interpreter cannot read.
	ErrQueryParse = errors.New("unable to parse natural language query")
)

// Store lifecycle errors.
var (
	ErrDetached        = errors.New("store is detached")
	ErrAlreadyAttached = errors.New("store is already attached")
)
