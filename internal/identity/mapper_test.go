package identity

import (
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/zenamons-s/ZenamonsBot-Telegram/internal/log"
)

// fakeStore считает создания, чтобы проверять схлопывание параллельных
// первых обращений.
type fakeStore struct {
	mu       sync.Mutex
	mappings map[int64]int64
	next     int64
	creates  int
}

func newFakeStore() *fakeStore {
	return &fakeStore{mappings: make(map[int64]int64)}
}

func (s *fakeStore) InternalID(_ context.Context, externalID int64) (int64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.mappings[externalID]
	return id, ok, nil
}

func (s *fakeStore) CreateInternalID(_ context.Context, externalID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.mappings[externalID]; ok {
		return id, nil
	}
	s.creates++
	s.next++
	s.mappings[externalID] = s.next
	return s.next, nil
}

func (s *fakeStore) BackfillInternalIDs(context.Context) error { return nil }

func testLogger() *log.Logger {
	return log.New(slog.LevelError, "test")
}

func TestResolveIdempotent(t *testing.T) {
	store := newFakeStore()
	m := NewMapper(store, testLogger())
	ctx := context.Background()

	first, err := m.Resolve(ctx, 1001)
	if err != nil {
		t.Fatalf("first resolve: %v", err)
	}
	second, err := m.Resolve(ctx, 1001)
	if err != nil {
		t.Fatalf("second resolve: %v", err)
	}
	if first != second {
		t.Fatalf("resolve not idempotent: %d != %d", first, second)
	}
	if store.creates != 1 {
		t.Fatalf("expected one create, got %d", store.creates)
	}
}

func TestResolveDistinctUsers(t *testing.T) {
	m := NewMapper(newFakeStore(), testLogger())
	ctx := context.Background()

	a, err := m.Resolve(ctx, 1001)
	if err != nil {
		t.Fatalf("resolve a: %v", err)
	}
	b, err := m.Resolve(ctx, 2002)
	if err != nil {
		t.Fatalf("resolve b: %v", err)
	}
	if a == b {
		t.Fatalf("distinct external ids must map to distinct internal ids, both %d", a)
	}
}

func TestResolveConcurrentFirstUse(t *testing.T) {
	store := newFakeStore()
	m := NewMapper(store, testLogger())
	ctx := context.Background()

	const workers = 16
	ids := make([]int64, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id, err := m.Resolve(ctx, 555)
			if err != nil {
				t.Errorf("resolve: %v", err)
				return
			}
			ids[i] = id
		}(i)
	}
	wg.Wait()

	for i := 1; i < workers; i++ {
		if ids[i] != ids[0] {
			t.Fatalf("concurrent resolves diverged: %v", ids)
		}
	}
	if store.creates != 1 {
		t.Fatalf("expected exactly one create, got %d", store.creates)
	}
}
