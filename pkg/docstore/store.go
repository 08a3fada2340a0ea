package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("docstore: document not found")
)

// Query bounds a collection listing. Listings are returned newest-first by
// the document's index date.
type Query struct {
	Since time.Time // zero means unbounded
	Limit int       // <=0 means store default
}

// Store is a collection-scoped JSON document store. Documents are indexed
// by a date so listings can be bounded by recency. TryLock/Unlock provide
// coarse mutual exclusion for scheduled jobs sharing the store.
type Store interface {
	Put(ctx context.Context, collection, id string, doc interface{}, date time.Time) error
	Get(ctx context.Context, collection, id string, dest interface{}) error
	Exists(ctx context.Context, collection, id string) (bool, error)
	List(ctx context.Context, collection string, q Query) ([][]byte, error)
	Delete(ctx context.Context, collection string, ids ...string) error
	TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Unlock(ctx context.Context, key string) error
}

// ListTyped lists a collection and unmarshals each document. Documents that
// fail to decode are skipped rather than failing the whole listing.
func ListTyped[T any](ctx context.Context, s Store, collection string, q Query) ([]T, error) {
	raw, err := s.List(ctx, collection, q)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(raw))
	for _, b := range raw {
		var v T
		if err := json.Unmarshal(b, &v); err != nil {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}
