package state

import (
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/rlp"

	"vibemarket/storage"
)

// Manager layers a journaled overlay on top of the key-value database. Engine
// operations write into the overlay; multi-step transitions snapshot the
// journal and revert on failure so a failed operation leaves no partial state.
type Manager struct {
	mu      sync.RWMutex
	db      storage.Database
	overlay map[string][]byte
	journal []journalEntry
}

type journalEntry struct {
	key        string
	prev       []byte
	hadOverlay bool
}

// NewManager constructs a manager bound to the provided database backend.
func NewManager(db storage.Database) *Manager {
	return &Manager{
		db:      db,
		overlay: make(map[string][]byte),
	}
}

// Snapshot returns a revision identifier for the current journal position.
func (m *Manager) Snapshot() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.journal)
}

// RevertToSnapshot unwinds every overlay write recorded after the supplied
// revision.
func (m *Manager) RevertToSnapshot(revision int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if revision < 0 || revision > len(m.journal) {
		return
	}
	for i := len(m.journal) - 1; i >= revision; i-- {
		entry := m.journal[i]
		if entry.hadOverlay {
			m.overlay[entry.key] = entry.prev
		} else {
			delete(m.overlay, entry.key)
		}
	}
	m.journal = m.journal[:revision]
}

// Commit flushes the overlay into the database and resets the journal. A nil
// overlay value marks a deletion.
func (m *Manager) Commit() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, value := range m.overlay {
		if value == nil {
			if err := m.db.Delete([]byte(key)); err != nil {
				return fmt.Errorf("state: delete %q: %w", key, err)
			}
			continue
		}
		if err := m.db.Put([]byte(key), value); err != nil {
			return fmt.Errorf("state: put %q: %w", key, err)
		}
	}
	m.overlay = make(map[string][]byte)
	m.journal = m.journal[:0]
	return nil
}

func (m *Manager) rawGet(key []byte) ([]byte, bool, error) {
	m.mu.RLock()
	if value, ok := m.overlay[string(key)]; ok {
		m.mu.RUnlock()
		if value == nil {
			return nil, false, nil
		}
		return append([]byte(nil), value...), true, nil
	}
	m.mu.RUnlock()
	return m.db.Get(key)
}

func (m *Manager) rawPut(key []byte, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	prev, had := m.overlay[string(key)]
	m.journal = append(m.journal, journalEntry{key: string(key), prev: prev, hadOverlay: had})
	m.overlay[string(key)] = append([]byte(nil), value...)
}

func (m *Manager) rawDelete(key []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	prev, had := m.overlay[string(key)]
	m.journal = append(m.journal, journalEntry{key: string(key), prev: prev, hadOverlay: had})
	m.overlay[string(key)] = nil
}

func (m *Manager) putRecord(key []byte, record interface{}) error {
	encoded, err := rlp.EncodeToBytes(record)
	if err != nil {
		return fmt.Errorf("state: encode %q: %w", key, err)
	}
	m.rawPut(key, encoded)
	return nil
}

func (m *Manager) getRecord(key []byte, out interface{}) (bool, error) {
	raw, ok, err := m.rawGet(key)
	if err != nil {
		return false, fmt.Errorf("state: load %q: %w", key, err)
	}
	if !ok {
		return false, nil
	}
	if err := rlp.DecodeBytes(raw, out); err != nil {
		return false, fmt.Errorf("state: decode %q: %w", key, err)
	}
	return true, nil
}

func (m *Manager) getCounter(key []byte) (uint64, error) {
	var counter uint64
	ok, err := m.getRecord(key, &counter)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, nil
	}
	return counter, nil
}

func (m *Manager) bumpCounter(key []byte) (uint64, error) {
	counter, err := m.getCounter(key)
	if err != nil {
		return 0, err
	}
	counter++
	if err := m.putRecord(key, counter); err != nil {
		return 0, err
	}
	return counter, nil
}
