package library

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/keroda/watchdeck/internal/cache"
	"github.com/keroda/watchdeck/internal/domain"
)

// Service coordinates the library cache against the remote backend.
// Every mutation applies optimistically first and reconciles with the
// backend's answer afterwards.
type Service struct {
	cache   *cache.Store
	backend domain.LibraryBackend
	logger  *slog.Logger
	userID  string
}

func NewService(c *cache.Store, backend domain.LibraryBackend, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		cache:   c,
		backend: backend,
		logger:  logger,
	}
}

// SetUser binds the service to a signed-in user, or clears it when id
// is empty. Switching users drops all cached library state.
func (s *Service) SetUser(id string) {
	if s.userID == id {
		return
	}
	s.userID = id
	s.cache.Clear()
}

func (s *Service) requireSession() error {
	if s.userID == "" {
		return domain.ErrNotSignedIn
	}
	return nil
}

func cachedEntry(v any) *domain.LibraryEntry {
	entry, ok := v.(*domain.LibraryEntry)
	if !ok {
		return nil
	}
	return entry
}

// resolveEntry returns the library row for an item, fetching it when
// the cache cannot answer. An untracked item yields a synthesized
// entry with ID 0 so callers always have a full row to mutate.
func (s *Service) resolveEntry(ctx context.Context, item domain.CatalogItem) (domain.LibraryEntry, error) {
	key := cache.EntryKey(s.userID, item.MediaType, item.ID)
	v, err := s.cache.Fetch(ctx, key, func(ctx context.Context) (any, error) {
		entry, err := s.backend.GetEntry(ctx, domain.EntryKey{
			UserID:    s.userID,
			TMDBID:    item.ID,
			MediaType: item.MediaType,
		})
		if errors.Is(err, domain.ErrItemNotFound) {
			return (*domain.LibraryEntry)(nil), nil
		}
		if err != nil {
			return nil, err
		}
		return entry, nil
	})
	if err != nil {
		return domain.LibraryEntry{}, err
	}
	if entry := cachedEntry(v); entry != nil {
		return *entry, nil
	}
	return *ToLibraryEntry(s.userID, item), nil
}

// SetStatus applies the tri-state toggle for a status button:
//
//   - a different status replaces the current one;
//   - re-selecting the current status clears it, and removes the row
//     entirely unless the item is still favorited.
func (s *Service) SetStatus(ctx context.Context, item domain.CatalogItem, status domain.Status) error {
	if err := s.requireSession(); err != nil {
		return err
	}

	entry, err := s.resolveEntry(ctx, item)
	if err != nil {
		return err
	}

	if entry.Status == status {
		if !entry.IsFavorite {
			return s.removeEntry(ctx, item, entry)
		}
		return s.patchEntry(ctx, item, entry, clearStatusPatch())
	}
	if entry.ID == 0 {
		next := entry
		applyStatus(&next, status)
		return s.insertEntry(ctx, item, next)
	}
	return s.patchEntry(ctx, item, entry, setStatusPatch(status))
}

// ToggleFavorite flips the favorite flag. Unfavoriting an item that
// has no status removes the row, mirroring the clear-status rule.
func (s *Service) ToggleFavorite(ctx context.Context, item domain.CatalogItem) error {
	if err := s.requireSession(); err != nil {
		return err
	}

	entry, err := s.resolveEntry(ctx, item)
	if err != nil {
		return err
	}

	if entry.IsFavorite && entry.Status == domain.StatusNone {
		return s.removeEntry(ctx, item, entry)
	}
	if entry.ID == 0 {
		next := entry
		next.IsFavorite = true
		next.UpdatedAt = time.Now().UTC()
		return s.insertEntry(ctx, item, next)
	}
	now := time.Now().UTC()
	fav := !entry.IsFavorite
	return s.patchEntry(ctx, item, entry, domain.EntryPatch{
		IsFavorite: &fav,
		UpdatedAt:  &now,
	})
}

func applyStatus(entry *domain.LibraryEntry, status domain.Status) {
	now := time.Now().UTC()
	entry.Status = status
	entry.UpdatedAt = now
	if status == domain.StatusCompleted {
		entry.CompletedAt = &now
	} else {
		entry.CompletedAt = nil
	}
}

func setStatusPatch(status domain.Status) domain.EntryPatch {
	now := time.Now().UTC()
	p := domain.EntryPatch{Status: &status, UpdatedAt: &now}
	if status == domain.StatusCompleted {
		p.CompletedAt = &now
	} else {
		p.ClearCompletedAt = true
	}
	return p
}

func clearStatusPatch() domain.EntryPatch {
	now := time.Now().UTC()
	none := domain.StatusNone
	return domain.EntryPatch{
		Status:           &none,
		UpdatedAt:        &now,
		ClearCompletedAt: true,
	}
}

// insertEntry creates the row for a previously untracked item.
func (s *Service) insertEntry(ctx context.Context, item domain.CatalogItem, next domain.LibraryEntry) error {
	key := cache.EntryKey(s.userID, item.MediaType, item.ID)
	return s.runMutation(ctx, mutationSpec{
		name: "insert entry",
		updates: []keyUpdate{{
			key:   key,
			apply: func(any, bool) any { return &next },
		}},
		invalidatePrefixes: []cache.Key{cache.ListingPrefix(s.userID)},
		remote: func(ctx context.Context) error {
			_, err := s.backend.UpsertEntry(ctx, &next)
			return err
		},
	})
}

func (s *Service) patchEntry(ctx context.Context, item domain.CatalogItem, entry domain.LibraryEntry, patch domain.EntryPatch) error {
	next := entry
	patch.Apply(&next)
	key := cache.EntryKey(s.userID, item.MediaType, item.ID)
	return s.runMutation(ctx, mutationSpec{
		name: "patch entry",
		updates: []keyUpdate{{
			key:   key,
			apply: func(any, bool) any { return &next },
		}},
		invalidatePrefixes: []cache.Key{cache.ListingPrefix(s.userID)},
		remote: func(ctx context.Context) error {
			return s.backend.UpdateEntry(ctx, entry.ID, patch)
		},
	})
}

// removeEntry deletes the library row. Watch marks are kept: history
// survives a cleared status.
func (s *Service) removeEntry(ctx context.Context, item domain.CatalogItem, entry domain.LibraryEntry) error {
	key := cache.EntryKey(s.userID, item.MediaType, item.ID)
	return s.runMutation(ctx, mutationSpec{
		name: "remove entry",
		updates: []keyUpdate{{
			key:   key,
			apply: func(any, bool) any { return (*domain.LibraryEntry)(nil) },
		}},
		invalidatePrefixes: []cache.Key{cache.ListingPrefix(s.userID)},
		remote: func(ctx context.Context) error {
			if entry.ID == 0 {
				return nil
			}
			return s.backend.DeleteEntry(ctx, entry.Key())
		},
	})
}
