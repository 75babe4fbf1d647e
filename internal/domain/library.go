package domain

import "time"

// Status is a library entry's watch status. The zero value means the
// title carries no status (favorite-only entries have StatusNone).
type Status string

const (
	StatusNone      Status = ""
	StatusWatchlist Status = "watchlist"
	StatusWatching  Status = "watching"
	StatusCompleted Status = "completed"
	StatusDropped   Status = "dropped"
	StatusPaused    Status = "paused"
)

// String returns a human-readable label for display.
func (s Status) String() string {
	if s == StatusNone {
		return "none"
	}
	return string(s)
}

// LibraryEntry is one tracked title: at most one per
// (user, tmdb id, media type). ID is assigned by the backend and is
// zero for entries synthesized locally that have not been upserted yet.
type LibraryEntry struct {
	ID         int64     `json:"id,omitempty"`
	UserID     string    `json:"user_id"`
	TMDBID     int       `json:"tmdb_id"`
	MediaType  MediaType `json:"media_type"`
	Status     Status    `json:"status,omitempty"`
	IsFavorite bool      `json:"is_favorite"`

	// Denormalized display metadata
	Title        string  `json:"title"`
	PosterPath   string  `json:"poster_path,omitempty"`
	BackdropPath string  `json:"backdrop_path,omitempty"`
	ReleaseDate  string  `json:"release_date,omitempty"`
	Score        float64 `json:"score,omitempty"`
	IsAnime      bool    `json:"is_anime"`

	// Coarse progress counters. The backend maintains EpisodesWatched;
	// episode-level views derive state from the watch mark set instead.
	EpisodesWatched int `json:"episodes_watched"`
	TotalEpisodes   int `json:"total_episodes"`
	CurrentSeason   int `json:"current_season"`

	CreatedAt   time.Time  `json:"created_at,omitempty"`
	UpdatedAt   time.Time  `json:"updated_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"` // set iff Status == completed
}

// Key returns the entry's composite natural key.
func (e LibraryEntry) Key() EntryKey {
	return EntryKey{UserID: e.UserID, TMDBID: e.TMDBID, MediaType: e.MediaType}
}

// IsTracked reports whether the entry still has a reason to exist:
// either a status or the favorite flag.
func (e LibraryEntry) IsTracked() bool {
	return e.Status != StatusNone || e.IsFavorite
}

// EntryKey is the composite natural key of a LibraryEntry. Comparable;
// two keys are equal iff all three columns match.
type EntryKey struct {
	UserID    string
	TMDBID    int
	MediaType MediaType
}

// EpisodeWatchMark records one watched episode. Presence implies
// watched; the set is sparse and absence means unwatched.
type EpisodeWatchMark struct {
	UserID    string    `json:"user_id"`
	TMDBID    int       `json:"tmdb_id"`
	Season    int       `json:"season_number"`
	Episode   int       `json:"episode_number"`
	WatchedAt time.Time `json:"watched_at,omitempty"`
}

// EpisodeKey identifies an episode within a show for sparse set
// membership. Comparable.
type EpisodeKey struct {
	Season  int
	Episode int
}

// Key returns the mark's position within its show.
func (m EpisodeWatchMark) Key() EpisodeKey {
	return EpisodeKey{Season: m.Season, Episode: m.Episode}
}

// MarkMatch is a partial composite key for deleting watch marks at
// episode, season, or show granularity. Nil fields are wildcards.
type MarkMatch struct {
	UserID  string
	TMDBID  int
	Season  *int
	Episode *int
}

// Matches reports whether the mark satisfies every bound column.
func (f MarkMatch) Matches(m EpisodeWatchMark) bool {
	if m.UserID != f.UserID || m.TMDBID != f.TMDBID {
		return false
	}
	if f.Season != nil && m.Season != *f.Season {
		return false
	}
	if f.Episode != nil && m.Episode != *f.Episode {
		return false
	}
	return true
}

// EntryPatch enumerates exactly the fields a mutation may alter on an
// existing entry. Nil fields are left untouched. Status and favorite
// mutations each build their own patch; nothing else leaks through.
type EntryPatch struct {
	Status           *Status    `json:"status,omitempty"`
	IsFavorite       *bool      `json:"is_favorite,omitempty"`
	UpdatedAt        *time.Time `json:"updated_at,omitempty"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
	ClearCompletedAt bool       `json:"-"`
}

// Apply copies the patch's set fields onto the entry.
func (p EntryPatch) Apply(e *LibraryEntry) {
	if p.Status != nil {
		e.Status = *p.Status
	}
	if p.IsFavorite != nil {
		e.IsFavorite = *p.IsFavorite
	}
	if p.UpdatedAt != nil {
		e.UpdatedAt = *p.UpdatedAt
	}
	if p.CompletedAt != nil {
		e.CompletedAt = p.CompletedAt
	}
	if p.ClearCompletedAt {
		e.CompletedAt = nil
	}
}

// ListingFilter narrows a library listing query.
type ListingFilter struct {
	Status        Status // StatusNone means any
	FavoritesOnly bool
	MediaType     MediaType // empty means both
}
