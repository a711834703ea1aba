package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageRoundTrip(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Store("reminders-2025-06-04.json", []byte(`{"ok":true}`)))

	data, err := store.Retrieve("reminders-2025-06-04.json")
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, string(data))
}

func TestLocalStorageList(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Store("reminders-b.json", []byte("b")))
	require.NoError(t, store.Store("reminders-a.json", []byte("a")))
	require.NoError(t, store.Store("other.json", []byte("x")))

	names, err := store.List("reminders-")
	require.NoError(t, err)
	assert.Equal(t, []string{"reminders-a.json", "reminders-b.json"}, names)
}

func TestLocalStorageDelete(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Store("gone.json", []byte("x")))
	require.NoError(t, store.Delete("gone.json"))

	_, err = store.Retrieve("gone.json")
	assert.Error(t, err)

	assert.Error(t, store.Delete("never-existed.json"))
}

func TestLocalStorageRequiresDir(t *testing.T) {
	_, err := NewLocalStorage("")
	assert.Error(t, err)
}
