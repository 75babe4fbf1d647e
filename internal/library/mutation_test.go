package library

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/keroda/watchdeck/internal/cache"
)

func newMutationService() *Service {
	return &Service{
		cache:  cache.New(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		userID: "user-1",
	}
}

func TestMutationOptimisticValueVisibleDuringRemote(t *testing.T) {
	s := newMutationService()
	key := cache.Key("entry:user-1:tv:42")
	s.cache.Write(key, "old")

	var seen any
	err := s.runMutation(context.Background(), mutationSpec{
		name: "test",
		updates: []keyUpdate{{
			key:   key,
			apply: func(any, bool) any { return "new" },
		}},
		remote: func(context.Context) error {
			v, ok := s.cache.Peek(key)
			if !ok {
				t.Fatal("expected cached value during remote call")
			}
			seen = v
			return nil
		},
	})
	if err != nil {
		t.Fatalf("runMutation: %v", err)
	}
	if seen != "new" {
		t.Fatalf("remote saw %v, want optimistic value", seen)
	}
}

func TestMutationRollbackOnRemoteFailure(t *testing.T) {
	s := newMutationService()
	key := cache.Key("entry:user-1:tv:42")
	s.cache.Write(key, "old")

	remoteErr := errors.New("backend down")
	err := s.runMutation(context.Background(), mutationSpec{
		name: "test",
		updates: []keyUpdate{{
			key:   key,
			apply: func(any, bool) any { return "new" },
		}},
		remote: func(context.Context) error { return remoteErr },
	})
	if !errors.Is(err, remoteErr) {
		t.Fatalf("err = %v, want remote error surfaced", err)
	}
	v, ok := s.cache.Read(key)
	if !ok || v != "old" {
		t.Fatalf("after rollback got %v (ok=%t), want old value restored fresh", v, ok)
	}
}

func TestMutationRollbackRestoresAbsence(t *testing.T) {
	s := newMutationService()
	key := cache.Key("entry:user-1:movie:7")

	err := s.runMutation(context.Background(), mutationSpec{
		name: "test",
		updates: []keyUpdate{{
			key:   key,
			apply: func(any, bool) any { return "new" },
		}},
		remote: func(context.Context) error { return errors.New("boom") },
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if _, ok := s.cache.Peek(key); ok {
		t.Fatal("key cached after rollback, want absent as before the mutation")
	}
}

func TestMutationRollbackSkippedAfterNewerWrite(t *testing.T) {
	s := newMutationService()
	key := cache.Key("entry:user-1:tv:42")
	s.cache.Write(key, "old")

	err := s.runMutation(context.Background(), mutationSpec{
		name: "test",
		updates: []keyUpdate{{
			key:   key,
			apply: func(any, bool) any { return "mine" },
		}},
		remote: func(context.Context) error {
			// A second mutation lands while this one is pending.
			s.cache.Write(key, "newer")
			return errors.New("boom")
		},
	})
	if err == nil {
		t.Fatal("expected error")
	}
	v, _ := s.cache.Read(key)
	if v != "newer" {
		t.Fatalf("got %v, rollback must not clobber a newer write", v)
	}
}

func TestMutationInvalidatesOnSuccess(t *testing.T) {
	s := newMutationService()
	updated := cache.Key("marks:user-1:42:1")
	extra := cache.Key("entry:user-1:tv:42")
	s.cache.Write(extra, "entry")
	s.cache.Write(cache.Key("listing:user-1:watching:false:"), "page")

	err := s.runMutation(context.Background(), mutationSpec{
		name: "test",
		updates: []keyUpdate{{
			key:   updated,
			apply: func(any, bool) any { return "marks" },
		}},
		invalidateKeys:     []cache.Key{extra},
		invalidatePrefixes: []cache.Key{cache.ListingPrefix("user-1")},
		remote:             func(context.Context) error { return nil },
	})
	if err != nil {
		t.Fatalf("runMutation: %v", err)
	}

	for _, k := range []cache.Key{updated, extra, "listing:user-1:watching:false:"} {
		if _, ok := s.cache.Read(k); ok {
			t.Fatalf("key %s still fresh after settle, want stale", k)
		}
		if _, ok := s.cache.Peek(k); !ok {
			t.Fatalf("key %s evicted, want value kept for stale reads", k)
		}
	}
}

func TestMutationRollbackRunsInReverseOrder(t *testing.T) {
	s := newMutationService()
	k1 := cache.Key("marks:user-1:42:1")
	k2 := cache.Key("marks:user-1:42:2")
	s.cache.Write(k1, "s1")
	s.cache.Write(k2, "s2")

	err := s.runMutation(context.Background(), mutationSpec{
		name: "test",
		updates: []keyUpdate{
			{key: k1, apply: func(any, bool) any { return "s1'" }},
			{key: k2, apply: func(any, bool) any { return "s2'" }},
		},
		remote: func(context.Context) error { return errors.New("boom") },
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if v, _ := s.cache.Read(k1); v != "s1" {
		t.Fatalf("k1 = %v, want restored", v)
	}
	if v, _ := s.cache.Read(k2); v != "s2" {
		t.Fatalf("k2 = %v, want restored", v)
	}
}
