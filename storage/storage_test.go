package storage_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jrsteele09/cares-session/storage"
	"github.com/stretchr/testify/require"
)

func storesUnderTest(t *testing.T) map[string]storage.Store {
	t.Helper()
	fs, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)
	return map[string]storage.Store{
		"memory": storage.NewMemoryStore(),
		"file":   fs,
	}
}

func TestStore_Contract(t *testing.T) {
	for name, s := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			_, ok := s.Get(storage.KeyAccessToken)
			require.False(t, ok)

			require.NoError(t, s.Set(storage.KeyAccessToken, "abc"))
			require.NoError(t, s.Set(storage.KeyUser, `{"id":"1"}`))

			v, ok := s.Get(storage.KeyAccessToken)
			require.True(t, ok)
			require.Equal(t, "abc", v)

			require.NoError(t, s.Delete(storage.KeyAccessToken))
			require.NoError(t, s.Delete(storage.KeyAccessToken))
			_, ok = s.Get(storage.KeyAccessToken)
			require.False(t, ok)

			v, ok = s.Get(storage.KeyUser)
			require.True(t, ok)
			require.Equal(t, `{"id":"1"}`, v)

			require.Error(t, s.Set("", "x"))
		})
	}
}

func TestFileStore_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	first, err := storage.NewFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, first.Set(storage.KeyRefreshToken, "r1"))

	second, err := storage.NewFileStore(dir)
	require.NoError(t, err)
	v, ok := second.Get(storage.KeyRefreshToken)
	require.True(t, ok)
	require.Equal(t, "r1", v)

	info, err := os.Stat(second.Path())
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFileStore_MalformedFileReadsAsEmpty(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "session.json"), []byte("{not json"), 0o600))

	s, err := storage.NewFileStore(dir)
	require.NoError(t, err)
	_, ok := s.Get(storage.KeyAccessToken)
	require.False(t, ok)

	// A write replaces the corrupt content.
	require.NoError(t, s.Set(storage.KeyAccessToken, "abc"))
	v, ok := s.Get(storage.KeyAccessToken)
	require.True(t, ok)
	require.Equal(t, "abc", v)
}

func TestFileStore_CreatesFolder(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "cares")
	s, err := storage.NewFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, s.Set(storage.KeyAccessToken, "abc"))
	require.FileExists(t, filepath.Join(dir, "session.json"))
}

func TestNewFileStore_ExpandsHome(t *testing.T) {
	s, err := storage.NewFileStore("~/.cares-test")
	require.NoError(t, err)
	require.NotContains(t, s.Path(), "~")
}
