package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
)

func TestWriteThenRead(t *testing.T) {
	s := New()

	s.Write("entry:u1:movie:42", "queued")
	v, ok := s.Read("entry:u1:movie:42")
	if !ok {
		t.Fatal("expected read hit after write")
	}
	if v.(string) != "queued" {
		t.Fatalf("expected written value back, got %v", v)
	}
}

func TestReadAbsent(t *testing.T) {
	s := New()
	if _, ok := s.Read("entry:u1:movie:42"); ok {
		t.Fatal("expected miss for never-written key")
	}
}

func TestInvalidateMarksStaleKeepsPeek(t *testing.T) {
	s := New()
	key := Key("marks:u1:100:1")

	s.Write(key, []int{1, 2})
	s.Invalidate(key)

	if _, ok := s.Read(key); ok {
		t.Fatal("expected miss after invalidate")
	}
	v, ok := s.Peek(key)
	if !ok {
		t.Fatal("expected peek to keep last-known value")
	}
	if len(v.([]int)) != 2 {
		t.Fatalf("peek returned wrong value: %v", v)
	}
}

func TestInvalidateDoesNotAffectSiblings(t *testing.T) {
	s := New()

	s.Write("marks:u1:100:1", "s1")
	s.Write("marks:u1:100:2", "s2")
	s.Invalidate("marks:u1:100:1")

	if _, ok := s.Read("marks:u1:100:1"); ok {
		t.Fatal("invalidated key should miss")
	}
	if v, ok := s.Read("marks:u1:100:2"); !ok || v.(string) != "s2" {
		t.Fatal("sibling key must be untouched")
	}
}

func TestInvalidatePrefix(t *testing.T) {
	s := New()

	s.Write("listing:u1:watchlist:false:", 1)
	s.Write("listing:u1::true:", 2)
	s.Write("listing:u2:watchlist:false:", 3)

	s.InvalidatePrefix("listing:u1:")

	if _, ok := s.Read("listing:u1:watchlist:false:"); ok {
		t.Fatal("expected u1 listing invalidated")
	}
	if _, ok := s.Read("listing:u1::true:"); ok {
		t.Fatal("expected u1 favorites listing invalidated")
	}
	if _, ok := s.Read("listing:u2:watchlist:false:"); !ok {
		t.Fatal("other user's listing must survive")
	}
}

func TestRestoreIfCurrent(t *testing.T) {
	s := New()
	key := Key("entry:u1:tv:7")

	s.Write(key, "old")
	snap := s.Snapshot(key)
	gen := s.Write(key, "optimistic")

	if !s.RestoreIfCurrent(key, snap, gen) {
		t.Fatal("expected restore to apply when generation unchanged")
	}
	v, ok := s.Read(key)
	if !ok || v.(string) != "old" {
		t.Fatalf("expected exact pre-mutation value, got %v", v)
	}
}

func TestRestoreSkippedAfterNewerWrite(t *testing.T) {
	s := New()
	key := Key("entry:u1:tv:7")

	s.Write(key, "old")
	snap := s.Snapshot(key)
	gen := s.Write(key, "optimistic-1")

	// A second mutation's optimistic write lands before the first
	// mutation fails.
	s.Write(key, "optimistic-2")

	if s.RestoreIfCurrent(key, snap, gen) {
		t.Fatal("restore must be skipped when a newer write landed")
	}
	v, _ := s.Read(key)
	if v.(string) != "optimistic-2" {
		t.Fatalf("newer optimistic value must survive, got %v", v)
	}
}

func TestRestoreToAbsent(t *testing.T) {
	s := New()
	key := Key("entry:u1:movie:9")

	snap := s.Snapshot(key) // absent
	gen := s.Write(key, "optimistic")

	if !s.RestoreIfCurrent(key, snap, gen) {
		t.Fatal("expected restore to apply")
	}
	if _, ok := s.Read(key); ok {
		t.Fatal("key must be absent again after rollback")
	}
	if _, ok := s.Peek(key); ok {
		t.Fatal("peek must also miss after restoring absence")
	}
}

func TestFetchCachesResult(t *testing.T) {
	s := New()
	key := Key("marks:u1:100:1")
	calls := 0

	fn := func(ctx context.Context) (any, error) {
		calls++
		return "fetched", nil
	}

	v, err := s.Fetch(context.Background(), key, fn)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if v.(string) != "fetched" {
		t.Fatalf("unexpected value %v", v)
	}

	// Second fetch served from cache.
	if _, err := s.Fetch(context.Background(), key, fn); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected 1 remote call, got %d", calls)
	}
}

func TestFetchSingleFlight(t *testing.T) {
	s := New()
	key := Key("marks:u1:100:1")

	var mu sync.Mutex
	calls := 0
	started := make(chan struct{})
	release := make(chan struct{})

	fn := func(ctx context.Context) (any, error) {
		mu.Lock()
		calls++
		mu.Unlock()
		close(started)
		<-release
		return "fetched", nil
	}

	var wg sync.WaitGroup
	results := make([]any, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, _ := s.Fetch(context.Background(), key, fn)
			results[i] = v
		}(i)
	}

	// Wait for the first fetch to be in flight, then release it.
	<-started
	close(release)
	wg.Wait()

	if calls != 1 {
		t.Fatalf("expected single in-flight fetch, got %d calls", calls)
	}
	for i, v := range results {
		if v.(string) != "fetched" {
			t.Fatalf("waiter %d got %v", i, v)
		}
	}
}

func TestCancelInFlight(t *testing.T) {
	s := New()
	key := Key("marks:u1:100:1")

	started := make(chan struct{})
	fn := func(ctx context.Context) (any, error) {
		close(started)
		<-ctx.Done()
		return nil, ctx.Err()
	}

	errCh := make(chan error, 1)
	go func() {
		_, err := s.Fetch(context.Background(), key, fn)
		errCh <- err
	}()

	<-started
	s.CancelInFlight(key)

	if err := <-errCh; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestFetchSupersededByWrite(t *testing.T) {
	s := New()
	key := Key("marks:u1:100:1")

	started := make(chan struct{})
	release := make(chan struct{})
	fn := func(ctx context.Context) (any, error) {
		close(started)
		<-release
		return "remote", nil
	}

	vCh := make(chan any, 1)
	go func() {
		v, _ := s.Fetch(context.Background(), key, fn)
		vCh <- v
	}()

	<-started
	s.Write(key, "optimistic") // lands while the fetch is in flight
	close(release)

	if v := <-vCh; v.(string) != "optimistic" {
		t.Fatalf("late fetch must not overwrite newer local write, got %v", v)
	}
	if v, _ := s.Read(key); v.(string) != "optimistic" {
		t.Fatalf("cache must keep optimistic value, got %v", v)
	}
}
