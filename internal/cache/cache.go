package cache

import (
	"context"
	"strings"
	"sync"
)

// Key is a semantic query identity: a family prefix plus the tuple of
// parameters that uniquely identifies the queried resource. Keys are
// built only by the constructors in keys.go.
type Key string

// Snapshot captures a key's exact state at one moment, for rollback.
// Restoring a snapshot puts back the value verbatim, including absence
// and staleness.
type Snapshot struct {
	Value   any
	Present bool
	Stale   bool
	Gen     uint64
}

type inflight struct {
	done   chan struct{}
	value  any
	err    error
	cancel context.CancelFunc
}

type entry struct {
	value   any
	present bool // value was set at least once
	stale   bool
	gen     uint64
	flight  *inflight
}

// Store is an in-process cache keyed by semantic query identity. It is
// explicitly constructed and injected; there is no ambient instance.
//
// Every write bumps the key's generation counter. Mutations use the
// generation to make rollback conditional: a failed mutation restores
// its snapshot only while no newer write has landed on the key.
type Store struct {
	mu      sync.Mutex
	entries map[Key]*entry
}

// New creates an empty Store.
func New() *Store {
	return &Store{entries: make(map[Key]*entry)}
}

func (s *Store) ensure(key Key) *entry {
	e, ok := s.entries[key]
	if !ok {
		e = &entry{}
		s.entries[key] = e
	}
	return e
}

// Read returns the cached value when it is present and fresh.
func (s *Store) Read(key Key) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok || !e.present || e.stale {
		return nil, false
	}
	return e.value, true
}

// Peek returns the last-known value regardless of freshness. Used for
// placeholder display while a refetch is pending.
func (s *Store) Peek(key Key) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok || !e.present {
		return nil, false
	}
	return e.value, true
}

// Write stores a value synchronously. A Read on the same key afterward
// returns exactly this value until a newer write or invalidation.
// Returns the key's new generation.
func (s *Store) Write(key Key, value any) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.ensure(key)
	e.value = value
	e.present = true
	e.stale = false
	e.gen++
	return e.gen
}

// Invalidate marks the key stale. The last-known value is retained for
// Peek; the next Fetch refetches authoritative state. Invalidating one
// key never affects sibling keys of the same family.
func (s *Store) Invalidate(key Key) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[key]; ok {
		e.stale = true
	}
}

// InvalidatePrefix marks every key with the given family prefix stale.
func (s *Store) InvalidatePrefix(prefix Key) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for k, e := range s.entries {
		if strings.HasPrefix(string(k), string(prefix)) {
			e.stale = true
		}
	}
}

// CancelInFlight cancels any outstanding Fetch for the key. Waiters
// receive the context error; a newer intent supersedes the old read.
func (s *Store) CancelInFlight(key Key) {
	s.mu.Lock()
	fl := (*inflight)(nil)
	if e, ok := s.entries[key]; ok {
		fl = e.flight
	}
	s.mu.Unlock()

	if fl != nil {
		fl.cancel()
	}
}

// Snapshot captures the key's current state for later rollback.
func (s *Store) Snapshot(key Key) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return Snapshot{}
	}
	return Snapshot{Value: e.value, Present: e.present, Stale: e.stale, Gen: e.gen}
}

// RestoreIfCurrent puts the snapshot back only if the key's generation
// still equals gen, the generation returned by the caller's own
// optimistic Write. If a newer write has landed since, the restore is
// skipped so the newer value is not clobbered. Reports whether the
// restore was applied.
func (s *Store) RestoreIfCurrent(key Key, snap Snapshot, gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok || e.gen != gen {
		return false
	}
	e.value = snap.Value
	e.present = snap.Present
	e.stale = snap.Stale
	e.gen++
	return true
}

// Fetch returns the cached value when fresh, otherwise runs fn under
// the at-most-one-in-flight rule: concurrent fetches for the same key
// join the first one. A successful fetch result is written back unless
// an optimistic write landed while the fetch was in flight, in which
// case the newer cached value wins and the fetched value is discarded.
func (s *Store) Fetch(ctx context.Context, key Key, fn func(context.Context) (any, error)) (any, error) {
	s.mu.Lock()
	e := s.ensure(key)

	if e.present && !e.stale {
		v := e.value
		s.mu.Unlock()
		return v, nil
	}

	if e.flight != nil {
		fl := e.flight
		s.mu.Unlock()
		select {
		case <-fl.done:
			return fl.value, fl.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	fctx, cancel := context.WithCancel(ctx)
	fl := &inflight{done: make(chan struct{}), cancel: cancel}
	e.flight = fl
	startGen := e.gen
	s.mu.Unlock()

	v, err := fn(fctx)
	cancel()

	s.mu.Lock()
	if e.flight == fl {
		e.flight = nil
	}
	if err == nil {
		if e.gen == startGen {
			e.value = v
			e.present = true
			e.stale = false
			e.gen++
		} else {
			// Superseded by a local write while in flight.
			v = e.value
		}
	}
	s.mu.Unlock()

	fl.value, fl.err = v, err
	close(fl.done)
	return v, err
}

// Clear drops every entry. Used on sign-out.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[Key]*entry)
}
