package domain

import "context"

// CatalogClient provides read-only access to the media catalog.
type CatalogClient interface {
	// Trending returns one page of trending titles plus a has-more flag.
	Trending(ctx context.Context, media MediaType, page int) ([]CatalogItem, bool, error)

	// Search returns one page of titles matching the query plus a
	// has-more flag. Results mix movies and shows.
	Search(ctx context.Context, query string, page int) ([]CatalogItem, bool, error)

	// GetDetail returns full detail for one title, including seasons
	// and the last-aired episode boundary for shows.
	GetDetail(ctx context.Context, media MediaType, id int) (*CatalogItem, error)

	// GetSeason returns all episodes of one season of a show.
	GetSeason(ctx context.Context, showID, season int) ([]EpisodeInfo, error)
}

// LibraryBackend is the remote persistence store for library entries
// and episode watch marks. Implementations must be idempotent under
// duplicate composite keys for the upsert operations.
type LibraryBackend interface {
	// UpsertEntry inserts or updates an entry by its composite natural
	// key and returns the stored row (with backend-assigned ID).
	UpsertEntry(ctx context.Context, entry *LibraryEntry) (*LibraryEntry, error)

	// EnsureEntry inserts the entry if no row exists for its composite
	// key, ignoring the duplicate otherwise. Used to guarantee a parent
	// entry exists before episode-level writes.
	EnsureEntry(ctx context.Context, entry *LibraryEntry) error

	// UpdateEntry applies a typed patch to one row by id.
	UpdateEntry(ctx context.Context, id int64, patch EntryPatch) error

	// DeleteEntry removes the row matching the composite key, if any.
	DeleteEntry(ctx context.Context, key EntryKey) error

	// GetEntry returns the entry for the key, or ErrItemNotFound.
	GetEntry(ctx context.Context, key EntryKey) (*LibraryEntry, error)

	// ListEntries returns a page of the user's entries ordered by
	// updated_at descending.
	ListEntries(ctx context.Context, userID string, filter ListingFilter, offset, limit int) ([]LibraryEntry, error)

	// UpsertMarks bulk-inserts watch marks, ignoring duplicates.
	UpsertMarks(ctx context.Context, marks []EpisodeWatchMark) error

	// DeleteMarks removes every mark matching the partial key.
	DeleteMarks(ctx context.Context, match MarkMatch) error

	// ListMarks returns the user's marks for one season of a show.
	ListMarks(ctx context.Context, userID string, tmdbID, season int) ([]EpisodeWatchMark, error)
}
