package sqlite

// Schema DDL. seq preserves insertion order; value is the uniqueness key.
const (
	createStrings = `CREATE TABLE strings (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    value TEXT NOT NULL UNIQUE,
    id TEXT NOT NULL,
    length INTEGER NOT NULL,
    is_palindrome INTEGER NOT NULL,
    unique_characters INTEGER NOT NULL,
    word_count INTEGER NOT NULL,
    character_frequency TEXT NOT NULL,
    created_at TEXT NOT NULL
);`

	idxStringsID = `CREATE INDEX idx_strings_id ON strings(id);`
)

// schemaDDL lists every statement run on a fresh database, in order.
var schemaDDL = []string{
	createStrings,
	idxStringsID,
}
