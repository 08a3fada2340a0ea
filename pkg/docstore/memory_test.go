package docstore

import (
	"context"
	"errors"
	"testing"
	"time"
)

type testDoc struct {
	Name string `json:"name"`
}

func TestMemoryStorePutGet(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if err := s.Put(ctx, "docs", "a", testDoc{Name: "first"}, time.Now()); err != nil {
		t.Fatalf("put: %v", err)
	}

	var got testDoc
	if err := s.Get(ctx, "docs", "a", &got); err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "first" {
		t.Fatalf("got %q", got.Name)
	}

	if err := s.Get(ctx, "docs", "missing", &got); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	ok, err := s.Exists(ctx, "docs", "a")
	if err != nil || !ok {
		t.Fatalf("exists = %v, %v", ok, err)
	}
}

func TestMemoryStoreListNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	for i, id := range []string{"old", "mid", "new"} {
		if err := s.Put(ctx, "docs", id, testDoc{Name: id}, base.AddDate(0, 0, i)); err != nil {
			t.Fatalf("put %s: %v", id, err)
		}
	}

	docs, err := ListTyped[testDoc](ctx, s, "docs", Query{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(docs) != 3 || docs[0].Name != "new" || docs[2].Name != "old" {
		t.Fatalf("order = %+v", docs)
	}

	docs, err = ListTyped[testDoc](ctx, s, "docs", Query{Since: base.AddDate(0, 0, 1), Limit: 1})
	if err != nil {
		t.Fatalf("bounded list: %v", err)
	}
	if len(docs) != 1 || docs[0].Name != "new" {
		t.Fatalf("bounded = %+v", docs)
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if err := s.Put(ctx, "docs", "a", testDoc{Name: "a"}, time.Now()); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := s.Delete(ctx, "docs", "a", "never-existed"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	ok, _ := s.Exists(ctx, "docs", "a")
	if ok {
		t.Fatalf("document survived delete")
	}
}

func TestMemoryStoreTryLock(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	ok, err := s.TryLock(ctx, "job", time.Minute)
	if err != nil || !ok {
		t.Fatalf("first lock = %v, %v", ok, err)
	}
	ok, _ = s.TryLock(ctx, "job", time.Minute)
	if ok {
		t.Fatalf("second lock acquired while held")
	}
	if err := s.Unlock(ctx, "job"); err != nil {
		t.Fatalf("unlock: %v", err)
	}
	ok, _ = s.TryLock(ctx, "job", time.Minute)
	if !ok {
		t.Fatalf("lock not reacquirable after unlock")
	}
}
