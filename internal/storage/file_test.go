// internal/storage/file_test.go
package storage

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestFileStoreRoundTrip(t *testing.T) {
	s := NewFileStore(t.TempDir(), testLogger())

	type record struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	require.NoError(t, s.Write("orders", record{Name: "mug", Count: 3}))

	var got record
	found, err := s.Read("orders", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, record{Name: "mug", Count: 3}, got)
}

func TestFileStoreMissingKey(t *testing.T) {
	s := NewFileStore(t.TempDir(), testLogger())

	var got []string
	found, err := s.Read("nothing_here", &got)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, got)
}

func TestFileStoreCorruptValueCleared(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStore(dir, testLogger())

	path := filepath.Join(dir, "cart.json")
	require.NoError(t, os.WriteFile(path, []byte("[1, 2,"), 0o644))

	var got []int
	found, err := s.Read("cart", &got)
	require.NoError(t, err, "corruption is recovered, not surfaced")
	assert.False(t, found)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "corrupted file is removed")
}

func TestFileStoreEmptyFileTreatedAsAbsent(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStore(dir, testLogger())
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cart.json"), nil, 0o644))

	var got []int
	found, err := s.Read("cart", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestFileStoreDelete(t *testing.T) {
	s := NewFileStore(t.TempDir(), testLogger())
	require.NoError(t, s.Write("cart", []string{"a"}))
	require.NoError(t, s.Delete("cart"))

	var got []string
	found, err := s.Read("cart", &got)
	require.NoError(t, err)
	assert.False(t, found)

	// Deleting an absent key is a no-op.
	assert.NoError(t, s.Delete("cart"))
}

func TestFileStoreNamespacedKeys(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStore(dir, testLogger())

	require.NoError(t, s.Write("session-1/cart", []string{"a"}))
	require.NoError(t, s.Write("session-2/cart", []string{"b"}))

	var got []string
	found, err := s.Read("session-1/cart", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []string{"a"}, got)
}

func TestFileStoreRejectsUnsafeKeys(t *testing.T) {
	s := NewFileStore(t.TempDir(), testLogger())

	for _, key := range []string{"", "../escape", "/absolute"} {
		err := s.Write(key, "x")
		assert.Error(t, err, "key %q must be rejected", key)
	}
}

func TestFileStoreWriteReplacesWholeValue(t *testing.T) {
	s := NewFileStore(t.TempDir(), testLogger())
	require.NoError(t, s.Write("cart", []string{"a", "b", "c"}))
	require.NoError(t, s.Write("cart", []string{"z"}))

	var got []string
	found, err := s.Read("cart", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []string{"z"}, got)
}
