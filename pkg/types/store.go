package types

// Store is a keyed collection of analyzed strings. The raw value is the key;
// a store never overwrites an existing record.
//
// Stores are created detached. Attach prepares the backend and Detach
// releases it; any other call on a detached store returns ErrDetached.
// Implementations serialize all operations, so concurrent inserts of the
// same value yield exactly one success and ErrDuplicate for the rest.
type Store interface {
	// Attach connects the store to the backend described by config.
	// Returns ErrAlreadyAttached if called while attached.
	Attach(config Config) error

	// Detach releases backend resources. Idempotent.
	Detach() error

	// Insert analyzes value and stores a new record.
	// Returns ErrDuplicate if value is already stored.
	Insert(value string) (StringRecord, error)

	// Get returns the record keyed by value.
	// Returns ErrNotFound if no record exists.
	Get(value string) (StringRecord, error)

	// Delete removes the record keyed by value.
	// Returns ErrNotFound if no record exists, including on a repeated delete.
	Delete(value string) error

	// List returns a snapshot of every record in insertion order.
	List() ([]StringRecord, error)
}
