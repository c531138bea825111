// Package history keeps a short most-recent-first log of submitted searches.
package history

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	json "github.com/goccy/go-json"

	"github.com/mmcdole/marquee/internal/domain"
)

// StorageKey is the key the log is persisted under
const StorageKey = "searchHistory"

// DefaultSize is the number of queries kept when no size is configured
const DefaultSize = 5

// Store is a bounded, deduplicated search history. Entries compare
// case-sensitively. The in-memory log is authoritative; persistence failures
// are logged and otherwise ignored.
type Store struct {
	mu      sync.Mutex
	kv      domain.KeyValueStore
	size    int
	entries []string
	logger  *slog.Logger
}

// NewStore loads the persisted log from kv. size <= 0 means DefaultSize.
// kv may be nil, in which case nothing is persisted.
func NewStore(kv domain.KeyValueStore, size int, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	if size <= 0 {
		size = DefaultSize
	}
	s := &Store{kv: kv, size: size, logger: logger}
	s.entries = s.Load()
	return s
}

// Entries returns a copy of the log, most recent first
func (s *Store) Entries() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.entries)
}

// Record moves query to the front of the log. Blank queries are ignored.
func (s *Store) Record(query string) {
	query = strings.TrimSpace(query)
	if query == "" {
		return
	}

	s.mu.Lock()
	next := make([]string, 0, s.size)
	next = append(next, query)
	for _, e := range s.entries {
		if e != query && len(next) < s.size {
			next = append(next, e)
		}
	}
	s.entries = next
	s.mu.Unlock()

	s.persist(next)
}

// Clear empties the log
func (s *Store) Clear() {
	s.mu.Lock()
	s.entries = []string{}
	s.mu.Unlock()

	s.persist([]string{})
}

// Load reads the persisted log. A missing or malformed payload yields an
// empty log; malformed payloads are logged, never returned as errors.
func (s *Store) Load() []string {
	if s.kv == nil {
		return []string{}
	}
	raw, ok := s.kv.ReadKey(StorageKey)
	if !ok || strings.TrimSpace(raw) == "" {
		return []string{}
	}

	entries, err := decode(raw, s.size)
	if err != nil {
		s.logger.Warn("discarding search history", "error", err)
		return []string{}
	}
	return entries
}

func (s *Store) persist(entries []string) {
	if s.kv == nil {
		return
	}
	data, err := json.Marshal(entries)
	if err != nil {
		s.logger.Error("failed to encode search history", "error", err)
		return
	}
	if err := s.kv.WriteKey(StorageKey, string(data)); err != nil {
		s.logger.Error("failed to save search history", "error", err)
	}
}

// decode parses a persisted payload. It must be a JSON array; non-string,
// blank and duplicate elements are dropped and the result truncated to size.
func decode(raw string, size int) ([]string, error) {
	var values []any
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrMalformedState, err)
	}

	entries := make([]string, 0, min(len(values), size))
	for _, v := range values {
		str, ok := v.(string)
		if !ok {
			continue
		}
		str = strings.TrimSpace(str)
		if str == "" || slices.Contains(entries, str) {
			continue
		}
		entries = append(entries, str)
		if len(entries) == size {
			break
		}
	}
	return entries, nil
}
