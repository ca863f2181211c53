package storage

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *IconStore {
	t.Helper()
	store, err := NewIconStore(t.TempDir(), nil)
	require.NoError(t, err)
	t.Cleanup(store.Close)
	return store
}

func TestSaveWritesFile(t *testing.T) {
	store := newTestStore(t)

	name, err := store.Save([]byte("icon-data"), "png")
	require.NoError(t, err)
	assert.Regexp(t, `^[0-9a-f-]{36}\.png$`, name)

	data, err := os.ReadFile(store.Path(name))
	require.NoError(t, err)
	assert.Equal(t, []byte("icon-data"), data)
}

func TestSaveNamesAreUnique(t *testing.T) {
	store := newTestStore(t)

	first, err := store.Save([]byte("a"), "png")
	require.NoError(t, err)
	second, err := store.Save([]byte("b"), "png")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestScheduleRemoveDeletesInBackground(t *testing.T) {
	store := newTestStore(t)

	name, err := store.Save([]byte("old"), "jpg")
	require.NoError(t, err)

	store.ScheduleRemove(name)
	assert.Eventually(t, func() bool {
		_, err := os.Stat(store.Path(name))
		return os.IsNotExist(err)
	}, 2*time.Second, 20*time.Millisecond)
}

func TestScheduleRemoveIgnoresEmptyAndMissing(t *testing.T) {
	store := newTestStore(t)

	// Neither should panic or block.
	store.ScheduleRemove("")
	store.ScheduleRemove("no-such-file.png")
	time.Sleep(50 * time.Millisecond)
}
