package library

import (
	"context"

	"github.com/keroda/watchdeck/internal/cache"
)

// keyUpdate describes one cache key a mutation touches and how to
// compute its optimistic value from whatever is cached now.
type keyUpdate struct {
	key cache.Key
	// apply receives the current cached value (nil, false when absent)
	// and returns the optimistic value.
	apply func(prev any, present bool) any
}

// mutationSpec is one user-triggered state change expressed as the
// four-phase protocol's inputs.
type mutationSpec struct {
	name    string
	updates []keyUpdate
	// extra keys invalidated after settlement beyond the updated ones
	// (e.g. the entry key after an episode toggle).
	invalidateKeys []cache.Key
	// key families invalidated wholesale (listings).
	invalidatePrefixes []cache.Key
	// remote performs the durable change.
	remote func(context.Context) error
}

type appliedUpdate struct {
	key  cache.Key
	snap cache.Snapshot
	gen  uint64
}

// runMutation executes one mutation:
//
//  1. For every key: cancel any in-flight read (a newer intent
//     supersedes an older fetch), capture the rollback snapshot, and
//     write the optimistic value synchronously. No suspension point
//     separates capture from write, so readers either see the old
//     value or the full optimistic one.
//  2. Issue the remote call. No client-enforced timeout: pending is a
//     valid long-lived state and cancellation is the context's job.
//  3. On failure, restore each snapshot verbatim, but only while the
//     key's generation still matches this mutation's own optimistic
//     write, so a newer mutation's value is never clobbered. The error
//     is returned for user-facing reporting, never swallowed.
//  4. On success, invalidate every affected key exactly once so the
//     next read refetches authoritative state. The optimistic value
//     remains visible via Peek until then.
func (s *Service) runMutation(ctx context.Context, m mutationSpec) error {
	applied := make([]appliedUpdate, 0, len(m.updates))
	for _, u := range m.updates {
		s.cache.CancelInFlight(u.key)
		snap := s.cache.Snapshot(u.key)
		gen := s.cache.Write(u.key, u.apply(snap.Value, snap.Present))
		applied = append(applied, appliedUpdate{key: u.key, snap: snap, gen: gen})
	}

	if err := m.remote(ctx); err != nil {
		s.logger.Error("mutation failed, rolling back", "mutation", m.name, "error", err)
		for i := len(applied) - 1; i >= 0; i-- {
			a := applied[i]
			s.cache.RestoreIfCurrent(a.key, a.snap, a.gen)
		}
		return err
	}

	for _, a := range applied {
		s.cache.Invalidate(a.key)
	}
	for _, k := range m.invalidateKeys {
		s.cache.Invalidate(k)
	}
	for _, p := range m.invalidatePrefixes {
		s.cache.InvalidatePrefix(p)
	}

	s.logger.Debug("mutation settled", "mutation", m.name)
	return nil
}
