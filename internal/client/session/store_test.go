package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gofrs/flock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_FileNotExist(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, err)
	assert.Empty(t, s.Token())
	assert.False(t, s.Authenticated())
}

func TestOpen_FileExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"token":"abc"}`), 0o600))

	s, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, "abc", s.Token())
	assert.True(t, s.Authenticated())
}

func TestOpen_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("not-json"), 0o600))

	_, err := Open(path)
	assert.ErrorContains(t, err, "decode session file")
}

func TestSetToken_SurvivesReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	s, err := Open(path)
	require.NoError(t, err)

	require.NoError(t, s.SetToken("tok-1"))

	reloaded, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", reloaded.Token())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestClear_RemovesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.SetToken("tok"))

	require.NoError(t, s.Clear())
	assert.False(t, s.Authenticated())

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	reloaded, err := Open(path)
	require.NoError(t, err)
	assert.Empty(t, reloaded.Token())

	// clearing twice is fine
	assert.NoError(t, s.Clear())
}

func TestSubscribe(t *testing.T) {
	s := NewMemory("")

	var seen []string
	unsubscribe := s.Subscribe(func(token string) {
		// subscribers may read the store without deadlocking
		assert.Equal(t, token, s.Token())
		seen = append(seen, token)
	})

	require.NoError(t, s.SetToken("a"))
	require.NoError(t, s.Clear())
	unsubscribe()
	require.NoError(t, s.SetToken("b"))

	assert.Equal(t, []string{"a", ""}, seen)
}

func TestSave_FailureKeepsPreviousToken(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "missing-dir", "session.json")
	s := &Store{path: path, subscribers: make(map[int]func(string))}
	s.lock = flock.New(filepath.Join(dir, "session.lock"))

	called := false
	s.Subscribe(func(string) { called = true })

	err := s.SetToken("tok")
	assert.Error(t, err)
	assert.Empty(t, s.Token())
	assert.False(t, called)
}
