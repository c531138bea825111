package store

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"
)

// Bucket names
var (
	bucketState = []byte("state")
)

// StateStore implements domain.KeyValueStore using BoltDB.
type StateStore struct {
	db *bolt.DB
	mu sync.RWMutex // Protects memory cache

	// In-memory cache for hot-path reads (promoted on access)
	cache map[string]string
}

// NewStateStore opens the store under baseDir. Data is partitioned per
// catalog base URL so switching accounts or mirrors does not mix state.
// An empty baseDir yields a memory-only store.
func NewStateStore(baseDir, baseURL string) (*StateStore, error) {
	if baseDir == "" {
		// Memory-only mode (no persistence)
		return &StateStore{cache: make(map[string]string)}, nil
	}

	dir := baseDir
	if baseURL != "" {
		dir = filepath.Join(baseDir, hashBaseURL(baseURL))
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dir, "marquee.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketState)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &StateStore{db: db, cache: make(map[string]string)}, nil
}

func hashBaseURL(baseURL string) string {
	normalized := strings.TrimRight(strings.ToLower(baseURL), "/")
	hash := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(hash[:6])
}

func (s *StateStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Persistent reports whether values survive a restart
func (s *StateStore) Persistent() bool {
	return s.db != nil
}

// ReadKey returns the value stored under name
func (s *StateStore) ReadKey(name string) (string, bool) {
	s.mu.RLock()
	if v, ok := s.cache[name]; ok {
		s.mu.RUnlock()
		return v, true
	}
	s.mu.RUnlock()

	if s.db == nil {
		return "", false
	}

	var (
		value string
		found bool
	)
	s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketState)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(name)); v != nil {
			value = string(v) // copies out of the mmap
			found = true
		}
		return nil
	})

	if !found {
		return "", false
	}

	// Promote to memory cache
	s.mu.Lock()
	s.cache[name] = value
	s.mu.Unlock()

	return value, true
}

// WriteKey stores value under name. The memory cache is updated even if the
// disk write fails, so readers in this process see the latest value.
func (s *StateStore) WriteKey(name, value string) error {
	s.mu.Lock()
	s.cache[name] = value
	s.mu.Unlock()

	if s.db == nil {
		return nil // Memory-only mode
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketState)
		return b.Put([]byte(name), []byte(value))
	})
}
