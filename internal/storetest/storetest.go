// Package storetest holds the behaviour suite every types.Store backend must
// pass. Backend packages call Run from their own tests.
package storetest

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/lexicon/pkg/types"
)

// FixedTime is the instant returned by Clock.
var FixedTime = time.Date(2025, 10, 18, 14, 3, 7, 0, time.UTC)

// Clock returns FixedTime; backends under test use it to stamp CreatedAt.
func Clock() time.Time { return FixedTime }

// Factory returns a fresh, attached store. It should register cleanup
// (Detach) with t.
type Factory func(t *testing.T) types.Store

// Run executes the suite against stores built by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Run("insert then get round trip", func(t *testing.T) {
		s := newStore(t)

		rec, err := s.Insert("level")
		require.NoError(t, err)
		assert.Equal(t, "level", rec.Value)
		assert.Equal(t, rec.Properties.SHA256Hash, rec.ID)
		assert.Equal(t, 5, rec.Properties.Length)
		assert.True(t, rec.Properties.IsPalindrome)
		assert.Equal(t, 3, rec.Properties.UniqueCharacters)
		assert.Equal(t, 1, rec.Properties.WordCount)
		assert.True(t, rec.CreatedAt.Equal(FixedTime))

		got, err := s.Get("level")
		require.NoError(t, err)
		assert.Equal(t, rec.ID, got.ID)
		assert.Equal(t, rec.Value, got.Value)
		assert.Equal(t, rec.Properties, got.Properties)
		assert.True(t, rec.CreatedAt.Equal(got.CreatedAt))
	})

	t.Run("duplicate insert is rejected and original kept", func(t *testing.T) {
		s := newStore(t)

		first, err := s.Insert("Hello World")
		require.NoError(t, err)

		_, err = s.Insert("Hello World")
		require.Error(t, err)
		assert.True(t, errors.Is(err, types.ErrDuplicate))

		got, err := s.Get("Hello World")
		require.NoError(t, err)
		assert.Equal(t, first.Properties, got.Properties)

		all, err := s.List()
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("raw value is the key", func(t *testing.T) {
		s := newStore(t)

		a, err := s.Insert("Level")
		require.NoError(t, err)
		b, err := s.Insert(" level ")
		require.NoError(t, err)
		assert.Equal(t, a.ID, b.ID, "same normalized text, same id")

		_, err = s.Get("level")
		assert.True(t, errors.Is(err, types.ErrNotFound))
	})

	t.Run("get missing", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Get("nope")
		require.Error(t, err)
		assert.True(t, errors.Is(err, types.ErrNotFound))
	})

	t.Run("delete then get and delete twice", func(t *testing.T) {
		s := newStore(t)

		_, err := s.Insert("noon")
		require.NoError(t, err)
		require.NoError(t, s.Delete("noon"))

		_, err = s.Get("noon")
		assert.True(t, errors.Is(err, types.ErrNotFound))

		err = s.Delete("noon")
		require.Error(t, err)
		assert.True(t, errors.Is(err, types.ErrNotFound))
	})

	t.Run("deleted value can be inserted again", func(t *testing.T) {
		s := newStore(t)

		_, err := s.Insert("again")
		require.NoError(t, err)
		require.NoError(t, s.Delete("again"))
		_, err = s.Insert("again")
		require.NoError(t, err)
	})

	t.Run("list keeps insertion order", func(t *testing.T) {
		s := newStore(t)

		values := []string{"zeta", "alpha", "Mid dle", "beta"}
		for _, v := range values {
			_, err := s.Insert(v)
			require.NoError(t, err)
		}
		require.NoError(t, s.Delete("alpha"))

		all, err := s.List()
		require.NoError(t, err)
		got := make([]string, len(all))
		for i, r := range all {
			got[i] = r.Value
		}
		assert.Equal(t, []string{"zeta", "Mid dle", "beta"}, got)
	})

	t.Run("empty store lists nothing", func(t *testing.T) {
		s := newStore(t)
		all, err := s.List()
		require.NoError(t, err)
		assert.Empty(t, all)
	})

	t.Run("returned records are copies", func(t *testing.T) {
		s := newStore(t)

		rec, err := s.Insert("abba")
		require.NoError(t, err)
		rec.Properties.CharacterFrequency["a"] = 100

		got, err := s.Get("abba")
		require.NoError(t, err)
		assert.Equal(t, 2, got.Properties.CharacterFrequency["a"])
	})

	t.Run("concurrent duplicate inserts", func(t *testing.T) {
		s := newStore(t)

		const workers = 16
		var (
			wg        sync.WaitGroup
			mu        sync.Mutex
			successes int
			dupes     int
		)
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := s.Insert("race")
				mu.Lock()
				defer mu.Unlock()
				switch {
				case err == nil:
					successes++
				case errors.Is(err, types.ErrDuplicate):
					dupes++
				default:
					t.Errorf("unexpected error: %v", err)
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 1, successes)
		assert.Equal(t, workers-1, dupes)
	})

	t.Run("concurrent distinct inserts", func(t *testing.T) {
		s := newStore(t)

		const workers = 20
		var wg sync.WaitGroup
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, err := s.Insert(fmt.Sprintf("value %d", i))
				assert.NoError(t, err)
			}(i)
		}
		wg.Wait()

		all, err := s.List()
		require.NoError(t, err)
		assert.Len(t, all, workers)
	})

	t.Run("detached store refuses operations", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Detach())
		require.NoError(t, s.Detach(), "detach is idempotent")

		_, err := s.Insert("x")
		assert.True(t, errors.Is(err, types.ErrDetached))
		_, err = s.Get("x")
		assert.True(t, errors.Is(err, types.ErrDetached))
		assert.True(t, errors.Is(s.Delete("x"), types.ErrDetached))
		_, err = s.List()
		assert.True(t, errors.Is(err, types.ErrDetached))
	})
}
