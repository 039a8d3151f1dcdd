package photos

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImport_CopiesFileIntoStore(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStore(filepath.Join(dir, "photos"))
	require.NoError(t, err)

	src := filepath.Join(dir, "me.png")
	require.NoError(t, os.WriteFile(src, []byte("png-bytes"), 0o600))

	dst, err := s.Import(src)
	require.NoError(t, err)
	assert.True(t, s.Owns(dst))
	assert.Equal(t, ".png", filepath.Ext(dst))

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), data)

	// source stays in place
	_, err = os.Stat(src)
	require.NoError(t, err)
}

func TestImport_MissingSource(t *testing.T) {
	s, err := NewStore(t.TempDir())
	require.NoError(t, err)

	_, err = s.Import("does-not-exist.png")
	require.Error(t, err)
}

func TestOwns(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStore(dir)
	require.NoError(t, err)

	assert.False(t, s.Owns(""))
	assert.False(t, s.Owns(filepath.Join(dir, "..", "outside.png")))
	assert.False(t, s.Owns(dir), "the directory itself is not a photo")
	assert.True(t, s.Owns(filepath.Join(dir, "a.png")))
}

func TestRemove(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStore(filepath.Join(dir, "photos"))
	require.NoError(t, err)

	src := filepath.Join(dir, "me.jpg")
	require.NoError(t, os.WriteFile(src, []byte("x"), 0o600))

	dst, err := s.Import(src)
	require.NoError(t, err)

	require.NoError(t, s.Remove(dst))
	_, err = os.Stat(dst)
	assert.True(t, os.IsNotExist(err))

	// foreign files are left alone
	require.NoError(t, s.Remove(src))
	_, err = os.Stat(src)
	require.NoError(t, err)

	// removing twice is fine
	require.NoError(t, s.Remove(dst))
}
