package state

import (
	"testing"

	"github.com/stretchr/testify/require"

	"agorachain/storage"
)

type record struct {
	Name  string
	Count uint64
}

func newTestManager(t *testing.T) (*Manager, *storage.MemDB) {
	t.Helper()
	db := storage.NewMemDB()
	m, err := NewManager(db)
	require.NoError(t, err)
	return m, db
}

func TestKVRoundTrip(t *testing.T) {
	m, _ := newTestManager(t)
	m.Begin()

	key := []byte("record/a")
	require.NoError(t, m.KVPut(key, &record{Name: "a", Count: 7}))

	var out record
	ok, err := m.KVGet(key, &out)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, record{Name: "a", Count: 7}, out)

	has, err := m.KVHas(key)
	require.NoError(t, err)
	require.True(t, has)

	require.NoError(t, m.KVDelete(key))
	ok, err = m.KVGet(key, &out)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestKVGetMissing(t *testing.T) {
	m, _ := newTestManager(t)
	m.Begin()

	var out record
	ok, err := m.KVGet([]byte("absent"), &out)
	require.NoError(t, err)
	require.False(t, ok)

	list, err := m.KVGetList([]byte("absent-list"))
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestKVPutListEmptyDeletes(t *testing.T) {
	m, _ := newTestManager(t)
	m.Begin()

	key := []byte("bucket")
	require.NoError(t, m.KVPutList(key, []string{"x", "y"}))
	require.NoError(t, m.KVPutList(key, []string{}))

	has, err := m.KVHas(key)
	require.NoError(t, err)
	require.False(t, has)
	require.Equal(t, uint64(0), m.Usage())
}

func TestUsageAccounting(t *testing.T) {
	m, _ := newTestManager(t)
	m.Begin()
	require.Equal(t, uint64(0), m.Usage())

	key := []byte("usage/key")
	require.NoError(t, m.KVPut(key, &record{Name: "first"}))
	afterPut := m.Usage()
	require.Greater(t, afterPut, uint64(0))

	// Overwriting swaps the old value's bytes for the new value's bytes.
	require.NoError(t, m.KVPut(key, &record{Name: "a much longer replacement value"}))
	require.Greater(t, m.Usage(), afterPut)

	require.NoError(t, m.KVDelete(key))
	require.Equal(t, uint64(0), m.Usage())
}

func TestDiscardRestoresStateAndUsage(t *testing.T) {
	m, _ := newTestManager(t)

	m.Begin()
	require.NoError(t, m.KVPut([]byte("keep"), &record{Name: "keep"}))
	require.NoError(t, m.Commit())
	committed := m.Usage()

	m.Begin()
	require.NoError(t, m.KVPut([]byte("drop"), &record{Name: "drop"}))
	require.NoError(t, m.KVDelete([]byte("keep")))
	m.Discard()

	require.Equal(t, committed, m.Usage())
	ok, err := m.KVHas([]byte("keep"))
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = m.KVHas([]byte("drop"))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestCommitPersistsAcrossManagers(t *testing.T) {
	m, db := newTestManager(t)

	m.Begin()
	require.NoError(t, m.KVPut([]byte("durable"), &record{Name: "durable", Count: 3}))
	require.NoError(t, m.Commit())
	usage := m.Usage()

	reloaded, err := NewManager(db)
	require.NoError(t, err)
	require.Equal(t, usage, reloaded.Usage())

	var out record
	ok, err := reloaded.KVGet([]byte("durable"), &out)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, uint64(3), out.Count)
}
