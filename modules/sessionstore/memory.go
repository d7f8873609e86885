package sessionstore

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/example/taskstream/domain/user"
)

// MemoryStore is an in-process Store used in tests and in runs without a
// Redis backend. It serializes sessions to JSON like the Redis store so
// both paths exercise the same encoding.
type MemoryStore struct {
	mu   sync.RWMutex
	blob []byte
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Save persists the user as the current session.
func (s *MemoryStore) Save(_ context.Context, u *user.User) error {
	data, err := json.Marshal(u)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.blob = data
	s.mu.Unlock()
	return nil
}

// Load returns the persisted session, or ErrNoSession when absent.
func (s *MemoryStore) Load(_ context.Context) (*user.User, error) {
	s.mu.RLock()
	blob := s.blob
	s.mu.RUnlock()

	if blob == nil {
		return nil, ErrNoSession
	}

	var u user.User
	if err := json.Unmarshal(blob, &u); err != nil {
		log.Printf("[sessionstore] Discarding malformed session blob: %v", err)
		return nil, ErrNoSession
	}
	return &u, nil
}

// Clear removes the persisted session.
func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	s.blob = nil
	s.mu.Unlock()
	return nil
}

// Has reports whether a session blob is currently stored. Test helper.
func (s *MemoryStore) Has() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.blob != nil
}

// Corrupt overwrites the stored blob with unparseable data. Test helper.
func (s *MemoryStore) Corrupt() {
	s.mu.Lock()
	s.blob = []byte("{not json")
	s.mu.Unlock()
}
