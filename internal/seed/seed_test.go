package seed

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/lexicon/internal/memory"
	"github.com/mesh-intelligence/lexicon/internal/storetest"
	"github.com/mesh-intelligence/lexicon/pkg/types"
)

func newStore(t *testing.T) *memory.Store {
	t.Helper()
	s := memory.NewStore(memory.WithClock(storetest.Clock))
	require.NoError(t, s.Attach(types.Config{Backend: types.BackendMemory}))
	t.Cleanup(func() { _ = s.Detach() })
	return s
}

func writeFile(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeFile(t,
		`{"value": "level"}`,
		``,
		`{"value": "Hello World"}`,
		`not json`,
		`{"value": 42}`,
		`{"other": "x"}`,
		`{"value": "level"}`,
		`{"value": ""}`,
	)
	s := newStore(t)

	res, err := Load(path, s)
	require.NoError(t, err)
	assert.Equal(t, Result{Inserted: 3, Duplicates: 1, Skipped: 3}, res)

	all, err := s.List()
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "level", all[0].Value)
	assert.Equal(t, "Hello World", all[1].Value)
	assert.Equal(t, "", all[2].Value)
}

func TestLoadIgnoresWhitespaceOnlyLines(t *testing.T) {
	path := writeFile(t, `{"value": "a"}`, "   ", "\t", `{"value": "b"}`)

	res, err := Load(path, newStore(t))
	require.NoError(t, err)
	assert.Equal(t, Result{Inserted: 2}, res)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.jsonl"), newStore(t))
	assert.Error(t, err)
}

func TestDumpThenLoad(t *testing.T) {
	src := newStore(t)
	for _, v := range []string{"racecar", "a quick brown fox", "Level"} {
		_, err := src.Insert(v)
		require.NoError(t, err)
	}

	path := filepath.Join(t.TempDir(), "dump.jsonl")
	n, err := Dump(path, src)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(string(data), "\n"))
	assert.Contains(t, string(data), `"sha256_hash"`)

	dst := newStore(t)
	res, err := Load(path, dst)
	require.NoError(t, err)
	assert.Equal(t, Result{Inserted: 3}, res)

	want, err := src.List()
	require.NoError(t, err)
	got, err := dst.List()
	require.NoError(t, err)
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].Value, got[i].Value)
		assert.Equal(t, want[i].Properties, got[i].Properties)
	}
}

func TestDumpEmptyStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dump.jsonl")
	n, err := Dump(path, newStore(t))
	require.NoError(t, err)
	assert.Zero(t, n)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestDumpDetachedStore(t *testing.T) {
	s := memory.NewStore()
	_, err := Dump(filepath.Join(t.TempDir(), "dump.jsonl"), s)
	assert.ErrorIs(t, err, types.ErrDetached)
}
