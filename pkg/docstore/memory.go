package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"
)

type memoryDoc struct {
	id   string
	date time.Time
	data []byte
}

// MemoryStore implements Store in process memory. Used in tests and as a
// degraded mode when Redis is unavailable.
type MemoryStore struct {
	mu           sync.RWMutex
	collections  map[string]map[string]*memoryDoc
	locks        map[string]time.Time
	defaultLimit int
}

// NewMemoryStore creates an in-memory document store.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	cfg := &MemoryConfig{DefaultLimit: 500}
	for _, opt := range opts {
		opt(cfg)
	}
	return &MemoryStore{
		collections:  make(map[string]map[string]*memoryDoc),
		locks:        make(map[string]time.Time),
		defaultLimit: cfg.DefaultLimit,
	}
}

func (s *MemoryStore) Put(_ context.Context, collection, id string, doc interface{}, date time.Time) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal %s/%s: %w", collection, id, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	coll, ok := s.collections[collection]
	if !ok {
		coll = make(map[string]*memoryDoc)
		s.collections[collection] = coll
	}
	coll[id] = &memoryDoc{id: id, date: date, data: data}
	return nil
}

func (s *MemoryStore) Get(_ context.Context, collection, id string, dest interface{}) error {
	s.mu.RLock()
	doc, ok := s.collections[collection][id]
	s.mu.RUnlock()
	if !ok {
		return ErrNotFound
	}
	return json.Unmarshal(doc.data, dest)
}

func (s *MemoryStore) Exists(_ context.Context, collection, id string) (bool, error) {
	s.mu.RLock()
	_, ok := s.collections[collection][id]
	s.mu.RUnlock()
	return ok, nil
}

func (s *MemoryStore) List(_ context.Context, collection string, q Query) ([][]byte, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = s.defaultLimit
	}

	s.mu.RLock()
	docs := make([]*memoryDoc, 0, len(s.collections[collection]))
	for _, d := range s.collections[collection] {
		if !q.Since.IsZero() && d.date.Before(q.Since) {
			continue
		}
		docs = append(docs, d)
	}
	s.mu.RUnlock()

	sort.Slice(docs, func(i, j int) bool {
		if !docs[i].date.Equal(docs[j].date) {
			return docs[i].date.After(docs[j].date)
		}
		return docs[i].id < docs[j].id
	})
	if len(docs) > limit {
		docs = docs[:limit]
	}

	out := make([][]byte, len(docs))
	for i, d := range docs {
		out[i] = d.data
	}
	return out, nil
}

func (s *MemoryStore) Delete(_ context.Context, collection string, ids ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		delete(s.collections[collection], id)
	}
	return nil
}

func (s *MemoryStore) TryLock(_ context.Context, key string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if exp, ok := s.locks[key]; ok && time.Now().Before(exp) {
		return false, nil
	}
	s.locks[key] = time.Now().Add(ttl)
	return true, nil
}

func (s *MemoryStore) Unlock(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.locks, key)
	return nil
}
