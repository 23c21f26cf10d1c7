package sqlite

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/mesh-intelligence/lexicon/internal/analyzer"
	"github.com/mesh-intelligence/lexicon/pkg/types"
)

const selectColumns = `SELECT value, id, length, is_palindrome, unique_characters,
    word_count, character_frequency, created_at FROM strings`

// Insert analyzes value and adds a row for it. The existence check and the
// insert run under the backend write lock, inside one transaction.
func (b *Backend) Insert(value string) (types.StringRecord, error) {
	props := analyzer.Analyze(value)

	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.StringRecord{}, types.ErrDetached
	}

	freq, err := json.Marshal(props.CharacterFrequency)
	if err != nil {
		return types.StringRecord{}, errors.Wrap(err, "encode character frequency")
	}

	tx, err := b.db.Begin()
	if err != nil {
		return types.StringRecord{}, errors.Wrap(err, "begin transaction")
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRow("SELECT 1 FROM strings WHERE value = ?", value).Scan(&exists)
	switch {
	case err == nil:
		return types.StringRecord{}, errors.Wrapf(types.ErrDuplicate, "insert %q", value)
	case !errors.Is(err, sql.ErrNoRows):
		return types.StringRecord{}, errors.Wrap(err, "check existing value")
	}

	rec := types.NewStringRecord(value, props, b.now())
	_, err = tx.Exec(
		`INSERT INTO strings (value, id, length, is_palindrome, unique_characters,
    word_count, character_frequency, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.Value, rec.ID, props.Length, props.IsPalindrome, props.UniqueCharacters,
		props.WordCount, string(freq), rec.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return types.StringRecord{}, errors.Wrap(err, "insert string")
	}
	if err := tx.Commit(); err != nil {
		return types.StringRecord{}, errors.Wrap(err, "commit insert")
	}
	return rec, nil
}

// Get loads the row keyed by value.
func (b *Backend) Get(value string) (types.StringRecord, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return types.StringRecord{}, types.ErrDetached
	}

	rec, err := hydrateRecord(b.db.QueryRow(selectColumns+" WHERE value = ?", value))
	if errors.Is(err, sql.ErrNoRows) {
		return types.StringRecord{}, errors.Wrapf(types.ErrNotFound, "get %q", value)
	}
	if err != nil {
		return types.StringRecord{}, errors.Wrapf(err, "get %q", value)
	}
	return rec, nil
}

// Delete removes the row keyed by value.
func (b *Backend) Delete(value string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrDetached
	}

	res, err := b.db.Exec("DELETE FROM strings WHERE value = ?", value)
	if err != nil {
		return errors.Wrapf(err, "delete %q", value)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "rows affected")
	}
	if n == 0 {
		return errors.Wrapf(types.ErrNotFound, "delete %q", value)
	}
	return nil
}

// List returns every row ordered by insertion sequence.
func (b *Backend) List() ([]types.StringRecord, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrDetached
	}

	rows, err := b.db.Query(selectColumns + " ORDER BY seq")
	if err != nil {
		return nil, errors.Wrap(err, "list strings")
	}
	defer rows.Close()

	out := []types.StringRecord{}
	for rows.Next() {
		rec, err := hydrateRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate strings")
	}
	return out, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// hydrateRecord converts one row into a StringRecord.
func hydrateRecord(row scanner) (types.StringRecord, error) {
	var (
		rec       types.StringRecord
		freq      string
		createdAt string
	)
	err := row.Scan(
		&rec.Value, &rec.ID,
		&rec.Properties.Length, &rec.Properties.IsPalindrome,
		&rec.Properties.UniqueCharacters, &rec.Properties.WordCount,
		&freq, &createdAt,
	)
	if err != nil {
		return types.StringRecord{}, err
	}

	rec.Properties.SHA256Hash = rec.ID
	if err := json.Unmarshal([]byte(freq), &rec.Properties.CharacterFrequency); err != nil {
		return types.StringRecord{}, errors.Wrap(err, "decode character frequency")
	}
	rec.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return types.StringRecord{}, errors.Wrap(err, "parse created_at")
	}
	return rec, nil
}
