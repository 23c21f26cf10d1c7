// Package seed moves strings between a Store and JSON Lines files.
//
// Each line is a JSON object with a string "value" member. Records written
// by Dump carry their full properties as well, so a dump can be loaded back
// into a fresh store.
package seed

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"

	"github.com/mesh-intelligence/lexicon/internal/logger"
	"github.com/mesh-intelligence/lexicon/pkg/types"
)

// Result counts what Load did with each line.
type Result struct {
	Inserted   int `json:"inserted"`
	Duplicates int `json:"duplicates"`
	Skipped    int `json:"skipped"`
}

type line struct {
	Value *string `json:"value"`
}

// Load inserts the value of every line of the file at path into store.
// Blank lines are ignored; malformed lines and lines without a string value
// are skipped and counted. Values already in the store count as duplicates.
func Load(path string, store types.Store) (Result, error) {
	var res Result

	f, err := os.Open(path)
	if err != nil {
		return res, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		raw := scanner.Bytes()
		if len(bytes.TrimSpace(raw)) == 0 {
			continue
		}

		var l line
		if err := json.Unmarshal(raw, &l); err != nil || l.Value == nil {
			logger.Logger.Warnw("skipping seed line", "path", path, "line", lineNo)
			res.Skipped++
			continue
		}

		_, err := store.Insert(*l.Value)
		switch {
		case errors.Is(err, types.ErrDuplicate):
			res.Duplicates++
		case err != nil:
			return res, errors.Wrapf(err, "%s:%d", path, lineNo)
		default:
			res.Inserted++
		}
	}
	if err := scanner.Err(); err != nil {
		return res, errors.Wrapf(err, "scan %s", path)
	}
	return res, nil
}

// Dump writes every record in store to path, one JSON object per line, in
// insertion order. The file is replaced atomically.
func Dump(path string, store types.Store) (int, error) {
	records, err := store.List()
	if err != nil {
		return 0, errors.Wrap(err, "list records")
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".lexicon-*.jsonl.tmp")
	if err != nil {
		return 0, errors.Wrap(err, "create temp file")
	}
	tmpName := tmp.Name()
	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}

	w := bufio.NewWriter(tmp)
	enc := json.NewEncoder(w)
	for _, rec := range records {
		if err := enc.Encode(rec); err != nil {
			cleanup()
			return 0, errors.Wrapf(err, "encode %q", rec.Value)
		}
	}
	if err := w.Flush(); err != nil {
		cleanup()
		return 0, errors.Wrap(err, "flush")
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return 0, errors.Wrap(err, "sync")
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return 0, errors.Wrap(err, "close temp file")
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return 0, errors.Wrap(err, "rename temp file")
	}
	return len(records), nil
}
