package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "idolbot.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestAddAndList(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Add("https://example.com/hook/1", nil))
	require.NoError(t, s.Add("https://example.com/hook/2", []string{"so9", "idols"}))

	subs, err := s.All()
	require.NoError(t, err)
	require.Len(t, subs, 2)
	assert.NotEmpty(t, subs[0].ID)
	assert.Equal(t, "https://example.com/hook/1", subs[0].URL)
	assert.Nil(t, subs[0].Algorithms, "no filter stored means default selection")
	assert.Equal(t, []string{"so9", "idols"}, subs[1].Algorithms)
}

func TestAddIsIdempotentByURL(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Add("https://example.com/hook", nil))
	require.NoError(t, s.Add("https://example.com/hook", nil))

	n, err := s.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRemove(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Add("https://example.com/hook", nil))
	require.NoError(t, s.Remove("https://example.com/hook"))

	n, err := s.Count()
	require.NoError(t, err)
	assert.Zero(t, n)

	// Removing a missing URL is not an error.
	require.NoError(t, s.Remove("https://example.com/other"))
}

func TestAddURLsSkipsBlanks(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.AddURLs([]string{" https://example.com/a ", "", "https://example.com/b"}))

	subs, err := s.All()
	require.NoError(t, err)
	require.Len(t, subs, 2)
	assert.Equal(t, "https://example.com/a", subs[0].URL)
}
