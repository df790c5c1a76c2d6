package state

import (
	"encoding/binary"
	"fmt"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"

	"agorachain/storage"
)

// metaUsageKey is the reserved, unhashed key the live footprint counter is
// persisted under. The counter itself is excluded from the metered footprint.
var metaUsageKey = []byte("meta/usage")

type overlayEntry struct {
	value   []byte
	deleted bool
}

// Manager provides keyed access to persisted state. Keys are hashed with
// keccak256 before they touch the backing store and values round-trip through
// RLP.
//
// All mutations land in an in-memory overlay first. Commit flushes the overlay
// to the backing database, Discard drops it; the engine brackets every call
// with Begin/Commit-or-Discard so a failed call leaves no partial writes
// behind. Manager is not safe for concurrent use; calls are strictly
// sequential by construction.
type Manager struct {
	db      storage.Database
	overlay map[string]overlayEntry
	usage   uint64
	// usage as of the last Begin, restored on Discard.
	usageMark uint64
}

// NewManager creates a state manager on the provided database, reloading the
// persisted footprint counter if one exists.
func NewManager(db storage.Database) (*Manager, error) {
	m := &Manager{
		db:      db,
		overlay: make(map[string]overlayEntry),
	}
	raw, err := db.Get(metaUsageKey)
	if err != nil {
		return nil, err
	}
	if len(raw) == 8 {
		m.usage = binary.BigEndian.Uint64(raw)
	}
	m.usageMark = m.usage
	return m, nil
}

// Usage returns the total byte footprint of live state, overlay included. This
// is the quantity a storage scope snapshots on begin and re-reads on commit.
func (m *Manager) Usage() uint64 {
	return m.usage
}

// Begin marks the start of a call. Any overlay left over from a discarded call
// is dropped.
func (m *Manager) Begin() {
	if len(m.overlay) > 0 {
		m.overlay = make(map[string]overlayEntry)
	}
	m.usageMark = m.usage
}

// Commit flushes the overlay and the footprint counter to the backing store.
func (m *Manager) Commit() error {
	for key, entry := range m.overlay {
		if entry.deleted {
			if err := m.db.Delete([]byte(key)); err != nil {
				return err
			}
			continue
		}
		if err := m.db.Put([]byte(key), entry.value); err != nil {
			return err
		}
	}
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], m.usage)
	if err := m.db.Put(metaUsageKey, buf[:]); err != nil {
		return err
	}
	m.overlay = make(map[string]overlayEntry)
	m.usageMark = m.usage
	return nil
}

// Discard drops every write made since Begin and restores the footprint
// counter.
func (m *Manager) Discard() {
	m.overlay = make(map[string]overlayEntry)
	m.usage = m.usageMark
}

func kvKey(key []byte) []byte {
	return ethcrypto.Keccak256(key)
}

func (m *Manager) rawGet(hashed []byte) ([]byte, error) {
	if entry, ok := m.overlay[string(hashed)]; ok {
		if entry.deleted {
			return nil, nil
		}
		return entry.value, nil
	}
	return m.db.Get(hashed)
}

func (m *Manager) rawPut(hashed, value []byte) error {
	old, err := m.rawGet(hashed)
	if err != nil {
		return err
	}
	if old != nil {
		m.usage -= uint64(len(hashed) + len(old))
	}
	m.usage += uint64(len(hashed) + len(value))
	m.overlay[string(hashed)] = overlayEntry{value: value}
	return nil
}

func (m *Manager) rawDelete(hashed []byte) error {
	old, err := m.rawGet(hashed)
	if err != nil {
		return err
	}
	if old != nil {
		m.usage -= uint64(len(hashed) + len(old))
	}
	m.overlay[string(hashed)] = overlayEntry{deleted: true}
	return nil
}

// KVPut stores the RLP encoding of value under the hashed key.
func (m *Manager) KVPut(key []byte, value interface{}) error {
	if len(key) == 0 {
		return fmt.Errorf("kv: key must not be empty")
	}
	encoded, err := rlp.EncodeToBytes(value)
	if err != nil {
		return err
	}
	return m.rawPut(kvKey(key), encoded)
}

// KVGet retrieves the value stored under the supplied key and decodes it into
// the provided destination. The boolean return value indicates whether the key
// existed in state.
func (m *Manager) KVGet(key []byte, out interface{}) (bool, error) {
	if len(key) == 0 {
		return false, fmt.Errorf("kv: key must not be empty")
	}
	data, err := m.rawGet(kvKey(key))
	if err != nil {
		return false, err
	}
	if len(data) == 0 {
		return false, nil
	}
	if out == nil {
		return true, nil
	}
	if err := rlp.DecodeBytes(data, out); err != nil {
		return false, err
	}
	return true, nil
}

// KVHas reports whether any value is stored under the supplied key.
func (m *Manager) KVHas(key []byte) (bool, error) {
	return m.KVGet(key, nil)
}

// KVDelete removes the value stored under the supplied key. Deleting an absent
// key is a no-op.
func (m *Manager) KVDelete(key []byte) error {
	if len(key) == 0 {
		return fmt.Errorf("kv: key must not be empty")
	}
	return m.rawDelete(kvKey(key))
}

// KVGetList decodes the string list stored under the supplied key. A missing
// key yields an empty list.
func (m *Manager) KVGetList(key []byte) ([]string, error) {
	if len(key) == 0 {
		return nil, fmt.Errorf("kv: key must not be empty")
	}
	data, err := m.rawGet(kvKey(key))
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return []string{}, nil
	}
	var list []string
	if err := rlp.DecodeBytes(data, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// KVPutList stores the string list under the supplied key. An empty list
// deletes the entry rather than persisting an empty bucket.
func (m *Manager) KVPutList(key []byte, list []string) error {
	if len(key) == 0 {
		return fmt.Errorf("kv: key must not be empty")
	}
	if len(list) == 0 {
		return m.rawDelete(kvKey(key))
	}
	encoded, err := rlp.EncodeToBytes(list)
	if err != nil {
		return err
	}
	return m.rawPut(kvKey(key), encoded)
}
