package library

import (
	"time"

	"github.com/keroda/watchdeck/internal/domain"
)

// ToLibraryEntry builds a fresh, untracked entry for a catalog item.
// Pure; the caller decides whether and when to persist it. The entry
// carries no ID until the backend assigns one.
func ToLibraryEntry(userID string, item domain.CatalogItem) *domain.LibraryEntry {
	totalEpisodes := 1
	if item.MediaType == domain.MediaTypeTV {
		totalEpisodes = item.EpisodeCount // 0 when detail not yet fetched
	}

	now := time.Now().UTC()
	return &domain.LibraryEntry{
		UserID:       userID,
		TMDBID:       item.ID,
		MediaType:    item.MediaType,
		Title:        item.Title,
		PosterPath:   item.PosterPath,
		BackdropPath: item.BackdropPath,
		ReleaseDate:  item.ReleaseDate,
		Score:        item.Score,
		IsAnime:      item.IsAnime(),

		EpisodesWatched: 0,
		TotalEpisodes:   totalEpisodes,
		CurrentSeason:   1,

		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ToCatalogItem reconstructs a minimal catalog-shaped item from an
// entry for display reuse. Lossy: genres, language and the TV detail
// fields are not stored on entries and are not restored.
func ToCatalogItem(entry domain.LibraryEntry) domain.CatalogItem {
	return domain.CatalogItem{
		ID:           entry.TMDBID,
		MediaType:    entry.MediaType,
		Title:        entry.Title,
		PosterPath:   entry.PosterPath,
		BackdropPath: entry.BackdropPath,
		ReleaseDate:  entry.ReleaseDate,
		Score:        entry.Score,
		EpisodeCount: entry.TotalEpisodes,
	}
}
