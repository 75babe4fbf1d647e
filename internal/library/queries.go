package library

import (
	"context"

	"github.com/keroda/watchdeck/internal/cache"
	"github.com/keroda/watchdeck/internal/domain"
)

// ListingPageSize is the fixed page size for library listings. A full
// page means another page may exist; a short page is the last one.
const ListingPageSize = 20

// Entry returns the library row for an item. The returned entry has
// ID 0 when the item is not tracked.
func (s *Service) Entry(ctx context.Context, item domain.CatalogItem) (domain.LibraryEntry, error) {
	if err := s.requireSession(); err != nil {
		return domain.LibraryEntry{}, err
	}
	return s.resolveEntry(ctx, item)
}

// SeasonMarks returns the watch marks for one season of a show,
// served from cache when fresh.
func (s *Service) SeasonMarks(ctx context.Context, tmdbID, season int) ([]domain.EpisodeWatchMark, error) {
	if err := s.requireSession(); err != nil {
		return nil, err
	}
	key := cache.MarksKey(s.userID, tmdbID, season)
	v, err := s.cache.Fetch(ctx, key, func(ctx context.Context) (any, error) {
		return s.backend.ListMarks(ctx, s.userID, tmdbID, season)
	})
	if err != nil {
		return nil, err
	}
	marks, _ := v.([]domain.EpisodeWatchMark)
	return marks, nil
}

// Listing returns one page of the user's library ordered by last
// update, plus a has-more flag. Only the first page is cached; deeper
// pages always hit the backend.
func (s *Service) Listing(ctx context.Context, filter domain.ListingFilter, page int) ([]domain.LibraryEntry, bool, error) {
	if err := s.requireSession(); err != nil {
		return nil, false, err
	}
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * ListingPageSize

	if page > 1 {
		entries, err := s.backend.ListEntries(ctx, s.userID, filter, offset, ListingPageSize)
		if err != nil {
			return nil, false, err
		}
		return entries, len(entries) == ListingPageSize, nil
	}

	key := cache.ListingKey(s.userID, filter)
	v, err := s.cache.Fetch(ctx, key, func(ctx context.Context) (any, error) {
		return s.backend.ListEntries(ctx, s.userID, filter, 0, ListingPageSize)
	})
	if err != nil {
		return nil, false, err
	}
	entries, _ := v.([]domain.LibraryEntry)
	return entries, len(entries) == ListingPageSize, nil
}
