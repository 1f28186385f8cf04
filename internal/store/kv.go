// Package store persists aggregate entities in an indexed key-value store.
// Values are JSON; keys come from the keys package prefixed with an entity
// kind. Replaying an event overwrites the same keys, it never duplicates.
package store

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// KV is the durable key-value store backing entity load/save.
type KV interface {
	Get(key string) ([]byte, bool, error)
	Put(key string, value []byte) error
	Scan(prefix string, fn func(key string, value []byte) error) error
	Close() error
}

// LevelDB is the on-disk KV implementation.
type LevelDB struct {
	db *leveldb.DB
}

// OpenLevelDB opens or creates a LevelDB database at path.
func OpenLevelDB(path string) (*LevelDB, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("open leveldb: %w", err)
	}
	return &LevelDB{db: db}, nil
}

func (l *LevelDB) Get(key string) ([]byte, bool, error) {
	value, err := l.db.Get([]byte(key), nil)
	if err == leveldb.ErrNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %s: %w", key, err)
	}
	return value, true, nil
}

func (l *LevelDB) Put(key string, value []byte) error {
	if err := l.db.Put([]byte(key), value, nil); err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

// Scan calls fn for every key with the given prefix.
func (l *LevelDB) Scan(prefix string, fn func(key string, value []byte) error) error {
	iter := l.db.NewIterator(util.BytesPrefix([]byte(prefix)), nil)
	defer iter.Release()
	for iter.Next() {
		if err := fn(string(iter.Key()), iter.Value()); err != nil {
			return err
		}
	}
	return iter.Error()
}

func (l *LevelDB) Close() error {
	return l.db.Close()
}

// Memory is an in-memory KV used in tests.
type Memory struct {
	mu sync.RWMutex
	m  map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{m: make(map[string][]byte)}
}

func (m *Memory) Get(key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.m[key]
	if !ok {
		return nil, false, nil
	}
	return value, true, nil
}

func (m *Memory) Put(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := make([]byte, len(value))
	copy(copied, value)
	m.m[key] = copied
	return nil
}

// Scan calls fn for every key with the given prefix, in key order.
func (m *Memory) Scan(prefix string, fn func(key string, value []byte) error) error {
	m.mu.RLock()
	keys := make([]string, 0, len(m.m))
	for key := range m.m {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	m.mu.RUnlock()
	sort.Strings(keys)

	for _, key := range keys {
		m.mu.RLock()
		value := m.m[key]
		m.mu.RUnlock()
		if err := fn(key, value); err != nil {
			return err
		}
	}
	return nil
}

func (m *Memory) Close() error {
	return nil
}

// Len reports the number of stored keys.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.m)
}
